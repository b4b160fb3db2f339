package repositories

import (
	"errors"
	"fmt"
	"time"

	"parts-ledger/controllers/idgen"
	"parts-ledger/models"
	"parts-ledger/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db}
}

type MoveResult struct {
	NewQty int               `json:"new_qty"`
	Move   models.MoveRecord `json:"move"`
}

type TransferResult struct {
	SourceQty int                 `json:"source_qty"`
	DestQty   int                 `json:"dest_qty"`
	Moves     []models.MoveRecord `json:"moves"`
}

// ApplyMove applies one signed quantity change and appends the matching
// MoveRecord. A record is auto-created for positive deltas; a negative delta
// against a pair that was never stocked is rejected.
func (r *LedgerRepository) ApplyMove(actor uint, partID, locationID uint, deltaQty int, reason, note string) (*MoveResult, error) {
	return r.applyMove(actor, partID, locationID, deltaQty, reason, note, false)
}

// AdminAdjust is ApplyMove for the admin correction path. Unlike plain moves
// it may materialize an InventoryRecord even where none exists; the final
// quantity still may not go negative.
func (r *LedgerRepository) AdminAdjust(actor uint, partID, locationID uint, deltaQty int, reason, note string) (*MoveResult, error) {
	if reason == "" {
		reason = models.ReasonAdminAdjustment
	}
	return r.applyMove(actor, partID, locationID, deltaQty, reason, note, true)
}

func (r *LedgerRepository) applyMove(actor uint, partID, locationID uint, deltaQty int, reason, note string, allowCreate bool) (*MoveResult, error) {
	var result *MoveResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res, err := applyMoveTx(tx, actor, partID, locationID, deltaQty, reason, note, allowCreate)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyMoveTx is the single mutation primitive of the ledger. Every quantity
// change in the system funnels through here inside a transaction, so the
// stored quantity always equals the running sum of the pair's move deltas.
func applyMoveTx(tx *gorm.DB, actor uint, partID, locationID uint, deltaQty int, reason, note string, allowCreate bool) (*MoveResult, error) {
	if deltaQty == 0 {
		return nil, fmt.Errorf("%w: deltaQty must be non-zero", ErrInvalidArgument)
	}

	var part models.Part
	if err := tx.First(&part, partID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: part %d", ErrNotFound, partID)
		}
		return nil, err
	}

	var location models.Location
	if err := tx.First(&location, locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: location %d", ErrNotFound, locationID)
		}
		return nil, err
	}

	record, err := lockInventoryRecord(tx, partID, locationID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if deltaQty < 0 && !allowCreate {
			return nil, fmt.Errorf("%w: cannot take from a location with no inventory", ErrInvalidArgument)
		}
		record = &models.InventoryRecord{PartID: partID, LocationID: locationID, Qty: 0}
		if err := tx.Create(record).Error; err != nil {
			return nil, err
		}
	}

	newQty := record.Qty + deltaQty
	if newQty < 0 {
		return nil, &InsufficientQuantityError{Current: record.Qty, Requested: -deltaQty}
	}

	if err := tx.Model(&models.InventoryRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{"qty": newQty, "updated_at": time.Now()}).Error; err != nil {
		return nil, err
	}

	move := models.MoveRecord{
		ID:         types.SnowflakeID(idgen.GenerateID()),
		Ts:         time.Now(),
		UserID:     actor,
		PartID:     partID,
		LocationID: locationID,
		DeltaQty:   deltaQty,
		Reason:     reason,
		Note:       note,
	}
	if err := tx.Create(&move).Error; err != nil {
		return nil, err
	}

	return &MoveResult{NewQty: newQty, Move: move}, nil
}

// lockInventoryRecord reads the pair's row under a write lock so two
// concurrent movers cannot both pass the sufficiency check against a stale
// quantity. sqlite has no FOR UPDATE; its single-writer model serializes
// writers on its own.
func lockInventoryRecord(tx *gorm.DB, partID, locationID uint) (*models.InventoryRecord, error) {
	q := tx.Where("part_id = ? AND location_id = ?", partID, locationID)
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record models.InventoryRecord
	if err := q.First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Transfer moves qty of a part between two locations as one logical
// operation: a debit leg at the source and a credit leg at the destination,
// both inside a single transaction. If the credit leg fails the debit rolls
// back with it, so material is never left in flight.
func (r *LedgerRepository) Transfer(actor uint, partID, fromLocationID, toLocationID uint, qty int, note string) (*TransferResult, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	if fromLocationID == toLocationID {
		return nil, fmt.Errorf("%w: source and destination locations must be different", ErrInvalidArgument)
	}

	var result *TransferResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var from, to models.Location
		if err := tx.First(&from, fromLocationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: location %d", ErrNotFound, fromLocationID)
			}
			return err
		}
		if err := tx.First(&to, toLocationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: location %d", ErrNotFound, toLocationID)
			}
			return err
		}

		outNote := note
		if outNote == "" {
			outNote = "Transferred to " + to.LocationCode
		}
		inNote := note
		if inNote == "" {
			inNote = "Transferred from " + from.LocationCode
		}

		out, err := applyMoveTx(tx, actor, partID, fromLocationID, -qty, models.ReasonTransfer, outNote, false)
		if err != nil {
			return err
		}
		in, err := applyMoveTx(tx, actor, partID, toLocationID, qty, models.ReasonTransfer, inNote, false)
		if err != nil {
			return err
		}

		result = &TransferResult{
			SourceQty: out.NewQty,
			DestQty:   in.NewQty,
			Moves:     []models.MoveRecord{out.Move, in.Move},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Undo appends the compensating inverse of a prior move. The original row is
// never touched, which keeps the audit trail append-only and makes undo of an
// undo a well-defined, symmetric operation.
func (r *LedgerRepository) Undo(actor uint, moveID int64, note string) (*MoveResult, error) {
	var original models.MoveRecord
	if err := r.db.First(&original, "id = ?", moveID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: move %d", ErrNotFound, moveID)
		}
		return nil, err
	}

	if note == "" {
		note = "Undoing move from " + original.Ts.Format("2006-01-02 15:04:05")
	}

	return r.applyMove(actor, original.PartID, original.LocationID, -original.DeltaQty, models.ReasonUndo, note, false)
}

// GetQuantity reports the current quantity for a pair; a pair that was never
// stocked reads as zero.
func (r *LedgerRepository) GetQuantity(partID, locationID uint) (int, error) {
	var record models.InventoryRecord
	err := r.db.Where("part_id = ? AND location_id = ?", partID, locationID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Qty, nil
}

type PartLocationQty struct {
	LocationID   uint      `json:"location_id"`
	LocationCode string    `json:"location_code"`
	Zone         string    `json:"zone"`
	Qty          int       `json:"qty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GetQuantitiesByPart lists every location holding the part, plus the total.
func (r *LedgerRepository) GetQuantitiesByPart(partID uint) ([]PartLocationQty, int, error) {
	sqlByPart := `select i.location_id, l.location_code, l.zone, i.qty, i.updated_at
	from inventory_records i
	inner join locations l on i.location_id = l.id
	where i.part_id = ?
	order by l.location_code`

	var rows []PartLocationQty
	if err := r.db.Raw(sqlByPart, partID).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	total := 0
	for _, row := range rows {
		total += row.Qty
	}
	return rows, total, nil
}

type LocationPartQty struct {
	PartID   uint   `json:"part_id"`
	PartCode string `json:"part_code"`
	PartName string `json:"part_name"`
	Category string `json:"category"`
	Qty      int    `json:"qty"`
}

// GetQuantitiesByLocation lists every part present at the location.
func (r *LedgerRepository) GetQuantitiesByLocation(locationID uint) ([]LocationPartQty, error) {
	sqlByLocation := `select i.part_id, p.part_code, p.part_name, p.category, i.qty
	from inventory_records i
	inner join parts p on i.part_id = p.id
	where i.location_id = ?
	order by p.part_code`

	var rows []LocationPartQty
	if err := r.db.Raw(sqlByLocation, locationID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LedgerSum recomputes the running sum of move deltas for a pair straight
// from the move log. The store value must always equal this.
func (r *LedgerRepository) LedgerSum(partID, locationID uint) (int, error) {
	var sum *int
	err := r.db.Model(&models.MoveRecord{}).
		Select("SUM(delta_qty)").
		Where("part_id = ? AND location_id = ?", partID, locationID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
