package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parts-ledger/models"
)

func TestHistoryFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	moves := NewMoveRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	part := createPart(t, db, "P-100")
	locA := createLocation(t, db, "A-01")
	locB := createLocation(t, db, "B-01")

	_, err := ledger.ApplyMove(alice.ID, part.ID, locA.ID, 10, models.ReasonReceiving, "")
	require.NoError(t, err)
	_, err = ledger.ApplyMove(bob.ID, part.ID, locB.ID, 4, models.ReasonReceiving, "")
	require.NoError(t, err)
	_, err = ledger.Transfer(alice.ID, part.ID, locA.ID, locB.ID, 2, "")
	require.NoError(t, err)

	rows, total, err := moves.History(MoveFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, rows, 4)
	assert.Equal(t, "P-100", rows[0].PartCode)

	rows, total, err = moves.History(MoveFilter{UserID: bob.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0].UserName)

	rows, total, err = moves.History(MoveFilter{Reason: models.ReasonTransfer})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	rows, total, err = moves.History(MoveFilter{LocationID: locA.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	rows, total, err = moves.History(MoveFilter{Page: 1, PageSize: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, rows, 3)

	rows, _, err = moves.History(MoveFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestHistoryDropsDeletedPartMoves(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	moves := NewMoveRepository(db)
	parts := NewPartRepository(db)

	user := createUser(t, db, "alice")
	doomed := createPart(t, db, "P-100")
	kept := createPart(t, db, "P-200")
	loc := createLocation(t, db, "A-01")

	_, err := ledger.ApplyMove(user.ID, doomed.ID, loc.ID, 5, models.ReasonReceiving, "")
	require.NoError(t, err)
	_, err = ledger.ApplyMove(user.ID, kept.ID, loc.ID, 3, models.ReasonReceiving, "")
	require.NoError(t, err)
	require.NoError(t, parts.Delete(doomed.ID))

	// Deleting a part cascades to its moves; only the other part remains.
	rows, total, err := moves.History(MoveFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, kept.ID, rows[0].PartID)
	assert.Equal(t, "P-200", rows[0].PartCode)
}

func TestDailySummaryAggregatesByReason(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerRepository(db)
	moves := NewMoveRepository(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	part := createPart(t, db, "P-100")
	locA := createLocation(t, db, "A-01")
	locB := createLocation(t, db, "B-01")

	_, err := ledger.ApplyMove(alice.ID, part.ID, locA.ID, 10, models.ReasonReceiving, "")
	require.NoError(t, err)
	_, err = ledger.Transfer(bob.ID, part.ID, locA.ID, locB.ID, 4, "")
	require.NoError(t, err)

	summary, err := moves.DailySummaryFor(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalMoves)
	assert.Equal(t, 2, summary.Actors)

	byReason := map[string]DailySummaryRow{}
	for _, row := range summary.ByReason {
		byReason[row.Reason] = row
	}
	assert.Equal(t, 10, byReason[models.ReasonReceiving].QtyIn)
	assert.Equal(t, 4, byReason[models.ReasonTransfer].QtyIn)
	assert.Equal(t, 4, byReason[models.ReasonTransfer].QtyOut)
	assert.Equal(t, 0, byReason[models.ReasonTransfer].NetDelta)

	// Another day is empty.
	yesterday, err := moves.DailySummaryFor(time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Zero(t, yesterday.TotalMoves)
}
