package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parts-ledger/models"
)

func TestApplyMoveAppendsLedger(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	loc := createLocation(t, db, "A-01")

	result, err := repo.ApplyMove(user.ID, part.ID, loc.ID, 10, models.ReasonReceiving, "first batch")
	require.NoError(t, err)
	assert.Equal(t, 10, result.NewQty)
	assert.Equal(t, 10, result.Move.DeltaQty)
	assert.Equal(t, models.ReasonReceiving, result.Move.Reason)
	assert.NotZero(t, result.Move.ID)

	result, err = repo.ApplyMove(user.ID, part.ID, loc.ID, -4, "pull", "")
	require.NoError(t, err)
	assert.Equal(t, 6, result.NewQty)

	qty, err := repo.GetQuantity(part.ID, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, qty)

	// Stored quantity must always equal the ledger sum.
	sum, err := repo.LedgerSum(part.ID, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, qty, sum)
}

func TestApplyMoveRejectsZeroDelta(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	loc := createLocation(t, db, "A-01")

	_, err := repo.ApplyMove(user.ID, part.ID, loc.ID, 0, "noop", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestApplyMoveRejectsOverdraw(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	loc := createLocation(t, db, "A-01")

	_, err := repo.ApplyMove(user.ID, part.ID, loc.ID, 10, models.ReasonReceiving, "")
	require.NoError(t, err)

	_, err = repo.ApplyMove(user.ID, part.ID, loc.ID, -11, "pull", "")
	var insufficient *InsufficientQuantityError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, insufficient.Current)
	assert.Equal(t, 11, insufficient.Requested)

	// Rejected move leaves no trace.
	qty, err := repo.GetQuantity(part.ID, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	sum, err := repo.LedgerSum(part.ID, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, sum)
}

func TestApplyMoveNegativeOnUnstockedPair(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	loc := createLocation(t, db, "A-01")

	_, err := repo.ApplyMove(user.ID, part.ID, loc.ID, -1, "pull", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var count int64
	require.NoError(t, db.Model(&models.InventoryRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyMoveUnknownPartOrLocation(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	loc := createLocation(t, db, "A-01")

	_, err := repo.ApplyMove(user.ID, 999, loc.ID, 1, "x", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.ApplyMove(user.ID, part.ID, 999, 1, "x", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminAdjustMaterializesRecord(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	admin := createUser(t, db, "admin")
	part := createPart(t, db, "P-100")
	loc := createLocation(t, db, "A-01")

	result, err := repo.AdminAdjust(admin.ID, part.ID, loc.ID, 5, "", "found during cleanup")
	require.NoError(t, err)
	assert.Equal(t, 5, result.NewQty)
	assert.Equal(t, models.ReasonAdminAdjustment, result.Move.Reason)

	// Still may not drive the quantity negative.
	_, err = repo.AdminAdjust(admin.ID, part.ID, loc.ID, -6, "", "")
	var insufficient *InsufficientQuantityError
	assert.ErrorAs(t, err, &insufficient)
}

func TestTransferMovesBothLegs(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	locA := createLocation(t, db, "A-01")
	locB := createLocation(t, db, "B-01")

	_, err := repo.ApplyMove(user.ID, part.ID, locA.ID, 20, models.ReasonReceiving, "")
	require.NoError(t, err)
	_, err = repo.ApplyMove(user.ID, part.ID, locB.ID, 5, models.ReasonReceiving, "")
	require.NoError(t, err)

	result, err := repo.Transfer(user.ID, part.ID, locA.ID, locB.ID, 15, "")
	require.NoError(t, err)
	assert.Equal(t, 5, result.SourceQty)
	assert.Equal(t, 20, result.DestQty)
	require.Len(t, result.Moves, 2)
	assert.Equal(t, -15, result.Moves[0].DeltaQty)
	assert.Equal(t, 15, result.Moves[1].DeltaQty)
	assert.Equal(t, models.ReasonTransfer, result.Moves[0].Reason)
	assert.Equal(t, "Transferred to B-01", result.Moves[0].Note)
	assert.Equal(t, "Transferred from A-01", result.Moves[1].Note)

	for _, locID := range []uint{locA.ID, locB.ID} {
		qty, err := repo.GetQuantity(part.ID, locID)
		require.NoError(t, err)
		sum, err := repo.LedgerSum(part.ID, locID)
		require.NoError(t, err)
		assert.Equal(t, qty, sum)
	}
}

func TestTransferRollsBackOnMissingDestination(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	locA := createLocation(t, db, "A-01")

	_, err := repo.ApplyMove(user.ID, part.ID, locA.ID, 20, models.ReasonReceiving, "")
	require.NoError(t, err)

	_, err = repo.Transfer(user.ID, part.ID, locA.ID, 999, 5, "")
	assert.ErrorIs(t, err, ErrNotFound)

	// Debit leg rolled back with the failed credit leg.
	qty, err := repo.GetQuantity(part.ID, locA.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, qty)

	var moves int64
	require.NoError(t, db.Model(&models.MoveRecord{}).Where("reason = ?", models.ReasonTransfer).Count(&moves).Error)
	assert.Zero(t, moves)
}

func TestTransferRollsBackOnInsufficientSource(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	locA := createLocation(t, db, "A-01")
	locB := createLocation(t, db, "B-01")

	_, err := repo.ApplyMove(user.ID, part.ID, locA.ID, 3, models.ReasonReceiving, "")
	require.NoError(t, err)

	_, err = repo.Transfer(user.ID, part.ID, locA.ID, locB.ID, 5, "")
	var insufficient *InsufficientQuantityError
	require.ErrorAs(t, err, &insufficient)

	qtyA, _ := repo.GetQuantity(part.ID, locA.ID)
	qtyB, _ := repo.GetQuantity(part.ID, locB.ID)
	assert.Equal(t, 3, qtyA)
	assert.Equal(t, 0, qtyB)
}

func TestTransferValidatesArguments(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	locA := createLocation(t, db, "A-01")
	locB := createLocation(t, db, "B-01")

	_, err := repo.Transfer(user.ID, part.ID, locA.ID, locB.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = repo.Transfer(user.ID, part.ID, locA.ID, locA.ID, 5, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUndoAppendsInverseMove(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	loc := createLocation(t, db, "A-01")

	original, err := repo.ApplyMove(user.ID, part.ID, loc.ID, 8, models.ReasonReceiving, "")
	require.NoError(t, err)

	undone, err := repo.Undo(user.ID, int64(original.Move.ID), "")
	require.NoError(t, err)
	assert.Equal(t, 0, undone.NewQty)
	assert.Equal(t, -8, undone.Move.DeltaQty)
	assert.Equal(t, models.ReasonUndo, undone.Move.Reason)
	assert.Contains(t, undone.Move.Note, "Undoing move from")

	// The original row is untouched; the log now has both moves.
	var count int64
	require.NoError(t, db.Model(&models.MoveRecord{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// Undoing the undo restores the quantity.
	redone, err := repo.Undo(user.ID, int64(undone.Move.ID), "redo")
	require.NoError(t, err)
	assert.Equal(t, 8, redone.NewQty)
	assert.Equal(t, 8, redone.Move.DeltaQty)
	assert.Equal(t, "redo", redone.Move.Note)
}

func TestUndoUnknownMove(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")

	_, err := repo.Undo(user.ID, 12345, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUndoRejectedWhenItWouldOverdraw(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	loc := createLocation(t, db, "A-01")

	received, err := repo.ApplyMove(user.ID, part.ID, loc.ID, 5, models.ReasonReceiving, "")
	require.NoError(t, err)
	_, err = repo.ApplyMove(user.ID, part.ID, loc.ID, -5, "pull", "")
	require.NoError(t, err)

	// Undoing the receipt would need -5 against a zero quantity.
	_, err = repo.Undo(user.ID, int64(received.Move.ID), "")
	var insufficient *InsufficientQuantityError
	assert.ErrorAs(t, err, &insufficient)
}

func TestGetQuantitiesByPart(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	user := createUser(t, db, "alice")
	part := createPart(t, db, "P-100")
	locA := createLocation(t, db, "A-01")
	locB := createLocation(t, db, "B-01")

	_, err := repo.ApplyMove(user.ID, part.ID, locA.ID, 7, models.ReasonReceiving, "")
	require.NoError(t, err)
	_, err = repo.ApplyMove(user.ID, part.ID, locB.ID, 3, models.ReasonReceiving, "")
	require.NoError(t, err)

	rows, total, err := repo.GetQuantitiesByPart(part.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "A-01", rows[0].LocationCode)
	assert.Equal(t, 7, rows[0].Qty)
}

func TestGetQuantityUnstockedPairReadsZero(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	part := createPart(t, db, "P-100")
	loc := createLocation(t, db, "A-01")

	qty, err := repo.GetQuantity(part.ID, loc.ID)
	require.NoError(t, err)
	assert.Zero(t, qty)
}
