package repositories

import (
	"errors"
	"fmt"
	"time"

	"parts-ledger/controllers/idgen"
	"parts-ledger/models"
	"parts-ledger/types"

	"gorm.io/gorm"
)

type QuarterlyCountRepository struct {
	db *gorm.DB
}

func NewQuarterlyCountRepository(db *gorm.DB) *QuarterlyCountRepository {
	return &QuarterlyCountRepository{db}
}

// Create opens a count in progress and snapshots every current inventory
// record into a pending count record, all in one transaction. The snapshot is
// the frozen "expected" baseline; later ledger moves never change it.
func (r *QuarterlyCountRepository) Create(name, description string, creator uint) (*models.QuarterlyCount, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}

	count := models.QuarterlyCount{
		Name:        name,
		Description: description,
		Status:      models.CountStatusInProgress,
		CreatedBy:   int(creator),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&count).Error; err != nil {
			return err
		}

		var inventory []models.InventoryRecord
		if err := tx.Find(&inventory).Error; err != nil {
			return err
		}

		var records []models.QuarterlyCountRecord
		for _, inv := range inventory {
			records = append(records, models.QuarterlyCountRecord{
				CountID:     count.ID,
				PartID:      inv.PartID,
				LocationID:  inv.LocationID,
				ExpectedQty: inv.Qty,
				Status:      models.CountRecordStatusPending,
			})
		}

		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &count, nil
}

func (r *QuarterlyCountRepository) GetAll() ([]models.QuarterlyCount, error) {
	var counts []models.QuarterlyCount
	if err := r.db.Order("created_at desc").Find(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// inProgress loads the count and rejects anything past its terminal
// transition. Completed and cancelled counts are immutable.
func (r *QuarterlyCountRepository) inProgress(tx *gorm.DB, countID uint) (*models.QuarterlyCount, error) {
	var count models.QuarterlyCount
	if err := tx.First(&count, countID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: count %d", ErrNotFound, countID)
		}
		return nil, err
	}
	if count.Status != models.CountStatusInProgress {
		return nil, fmt.Errorf("%w: count %d is %s", ErrInvalidStateTransition, countID, count.Status)
	}
	return &count, nil
}

type CountEntry struct {
	RecordID   uint   `json:"record_id"`
	CountedQty int    `json:"counted_qty"`
	Notes      string `json:"notes"`
}

type RecordCountsResult struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// RecordCounts stores physically counted quantities for a batch of records.
// Items are processed independently: good entries commit, bad entries are
// collected and reported. Re-counting a record overwrites the prior value.
// The whole batch shares one transaction with the in-progress check, so a
// concurrent Complete cannot land counted values on a closed count.
func (r *QuarterlyCountRepository) RecordCounts(countID uint, actor uint, entries []CountEntry) (*RecordCountsResult, error) {
	result := &RecordCountsResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := r.inProgress(tx, countID); err != nil {
			return err
		}

		for _, entry := range entries {
			var record models.QuarterlyCountRecord
			err := tx.Where("id = ? AND count_id = ?", entry.RecordID, countID).First(&record).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Errors = append(result.Errors, fmt.Sprintf("record %d not found in count %d", entry.RecordID, countID))
				continue
			}
			if err != nil {
				return err
			}

			counted := entry.CountedQty
			now := time.Now()
			updates := map[string]interface{}{
				"counted_qty": counted,
				"variance":    counted - record.ExpectedQty,
				"status":      models.CountRecordStatusCounted,
				"counted_by":  actor,
				"counted_at":  now,
				"notes":       entry.Notes,
				"updated_at":  now,
			}
			if err := tx.Model(&models.QuarterlyCountRecord{}).Where("id = ?", record.ID).Updates(updates).Error; err != nil {
				return err
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddRecord covers items discovered during physical counting that were not in
// the original snapshot.
func (r *QuarterlyCountRepository) AddRecord(countID, partID, locationID uint, expectedQty int) (*models.QuarterlyCountRecord, error) {
	if _, err := r.inProgress(r.db, countID); err != nil {
		return nil, err
	}

	var part models.Part
	if err := r.db.First(&part, partID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: part %d", ErrNotFound, partID)
		}
		return nil, err
	}
	var location models.Location
	if err := r.db.First(&location, locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: location %d", ErrNotFound, locationID)
		}
		return nil, err
	}

	var existing models.QuarterlyCountRecord
	err := r.db.Where("count_id = ? AND part_id = ? AND location_id = ?", countID, partID, locationID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateRecord
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record := models.QuarterlyCountRecord{
		CountID:     countID,
		PartID:      partID,
		LocationID:  locationID,
		ExpectedQty: expectedQty,
		Status:      models.CountRecordStatusPending,
	}
	if err := r.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// RemoveRecord drops a miscounted entry from an in-progress count.
func (r *QuarterlyCountRepository) RemoveRecord(countID, recordID uint) error {
	if _, err := r.inProgress(r.db, countID); err != nil {
		return err
	}

	var record models.QuarterlyCountRecord
	err := r.db.Where("id = ? AND count_id = ?", recordID, countID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: record %d", ErrNotFound, recordID)
	}
	if err != nil {
		return err
	}

	return r.db.Delete(&models.QuarterlyCountRecord{}, record.ID).Error
}

type CompleteSummary struct {
	AdjustmentsApplied  bool `json:"adjustments_applied"`
	TotalRecords        int  `json:"total_records"`
	RecordsWithVariance int  `json:"records_with_variance"`
	TotalVariance       int  `json:"total_variance"`
}

// Complete closes the count. Every snapshotted record needs a decision first:
// any record still pending aborts with the pending tally. With adjustments,
// each counted record with a variance has its inventory quantity set to the
// counted value (the physical count is authoritative) and a move appended for
// the actual change applied, so the ledger still derives the store exactly.
func (r *QuarterlyCountRepository) Complete(countID uint, actor uint, applyAdjustments bool) (*CompleteSummary, error) {
	summary := &CompleteSummary{AdjustmentsApplied: applyAdjustments}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		count, err := r.inProgress(tx, countID)
		if err != nil {
			return err
		}

		var records []models.QuarterlyCountRecord
		if err := tx.Where("count_id = ?", countID).Find(&records).Error; err != nil {
			return err
		}

		pending := 0
		for _, rec := range records {
			if rec.Status == models.CountRecordStatusPending {
				pending++
			}
		}
		if pending > 0 {
			return &IncompleteCountError{Pending: pending}
		}

		summary.TotalRecords = len(records)
		for _, rec := range records {
			if rec.Variance != 0 {
				summary.RecordsWithVariance++
				summary.TotalVariance += rec.Variance
			}
		}

		if applyAdjustments {
			for _, rec := range records {
				if rec.CountedQty == nil || rec.Variance == 0 {
					continue
				}
				if err := applyCountAdjustmentTx(tx, actor, count, rec); err != nil {
					return err
				}
			}
		}

		now := time.Now()
		return tx.Model(&models.QuarterlyCount{}).
			Where("id = ?", countID).
			Updates(map[string]interface{}{"status": models.CountStatusCompleted, "completed_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// applyCountAdjustmentTx is the one ledger-mutating path that writes an
// absolute quantity instead of applying a delta. The move it appends records
// the actual change against the live quantity (not the snapshot variance), so
// the store stays equal to the ledger sum even if stock moved during the
// count window.
func applyCountAdjustmentTx(tx *gorm.DB, actor uint, count *models.QuarterlyCount, rec models.QuarterlyCountRecord) error {
	record, err := lockInventoryRecord(tx, rec.PartID, rec.LocationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Discovered stock: the pair was added during counting and has no
		// inventory record yet.
		record = &models.InventoryRecord{PartID: rec.PartID, LocationID: rec.LocationID, Qty: 0}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	counted := *rec.CountedQty
	delta := counted - record.Qty
	if delta == 0 {
		return nil
	}

	if err := tx.Model(&models.InventoryRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{"qty": counted, "updated_at": time.Now()}).Error; err != nil {
		return err
	}

	note := "Count: " + count.Name
	if rec.Notes != "" {
		note += " - " + rec.Notes
	}

	move := models.MoveRecord{
		ID:         types.SnowflakeID(idgen.GenerateID()),
		Ts:         time.Now(),
		UserID:     actor,
		PartID:     rec.PartID,
		LocationID: rec.LocationID,
		DeltaQty:   delta,
		Reason:     models.ReasonCountAdjustment,
		Note:       note,
	}
	return tx.Create(&move).Error
}

// Cancel moves an in-progress count to its other terminal state without
// touching inventory.
func (r *QuarterlyCountRepository) Cancel(countID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := r.inProgress(tx, countID); err != nil {
			return err
		}
		return tx.Model(&models.QuarterlyCount{}).
			Where("id = ?", countID).
			Update("status", models.CountStatusCancelled).Error
	})
}

// Delete removes an in-progress count and its records. Completed and
// cancelled counts are permanent audit artifacts and cannot be deleted.
func (r *QuarterlyCountRepository) Delete(countID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		c, err := r.loadCount(tx, countID)
		if err != nil {
			return err
		}
		if c.Status != models.CountStatusInProgress {
			return fmt.Errorf("%w: cannot delete %s count", ErrInvalidStateTransition, c.Status)
		}

		if err := tx.Where("count_id = ?", countID).Delete(&models.QuarterlyCountRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.QuarterlyCount{}, countID).Error
	})
}

func (r *QuarterlyCountRepository) loadCount(tx *gorm.DB, countID uint) (*models.QuarterlyCount, error) {
	var count models.QuarterlyCount
	if err := tx.First(&count, countID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: count %d", ErrNotFound, countID)
		}
		return nil, err
	}
	return &count, nil
}

type CountRecordDetail struct {
	ID           uint       `json:"ID"`
	PartID       uint       `json:"part_id"`
	PartCode     string     `json:"part_code"`
	PartName     string     `json:"part_name"`
	Category     string     `json:"category"`
	LocationID   uint       `json:"location_id"`
	LocationCode string     `json:"location_code"`
	Zone         string     `json:"zone"`
	ExpectedQty  int        `json:"expected_qty"`
	CountedQty   *int       `json:"counted_qty"`
	Variance     int        `json:"variance"`
	Status       string     `json:"status"`
	CountedBy    *uint      `json:"counted_by"`
	CountedAt    *time.Time `json:"counted_at"`
	Notes        string     `json:"notes"`
}

// GetDetail returns the count header plus its records joined with part and
// location display fields, ordered for grouping by location.
func (r *QuarterlyCountRepository) GetDetail(countID uint) (*models.QuarterlyCount, []CountRecordDetail, error) {
	count, err := r.loadCount(r.db, countID)
	if err != nil {
		return nil, nil, err
	}

	sqlDetail := `select r.id, r.part_id, p.part_code, p.part_name, p.category,
	r.location_id, l.location_code, l.zone,
	r.expected_qty, r.counted_qty, r.variance, r.status, r.counted_by, r.counted_at, r.notes
	from quarterly_count_records r
	inner join parts p on r.part_id = p.id
	inner join locations l on r.location_id = l.id
	where r.count_id = ?
	order by l.location_code, p.part_code`

	var records []CountRecordDetail
	if err := r.db.Raw(sqlDetail, countID).Scan(&records).Error; err != nil {
		return nil, nil, err
	}
	return count, records, nil
}

type CountSummary struct {
	TotalRecords int `json:"total_records"`
	Pending      int `json:"pending"`
	Counted      int `json:"counted"`
	Verified     int `json:"verified"`
}

// Summary tallies record statuses for progress tracking.
func (r *QuarterlyCountRepository) Summary(countID uint) (*CountSummary, error) {
	if _, err := r.loadCount(r.db, countID); err != nil {
		return nil, err
	}

	var records []models.QuarterlyCountRecord
	if err := r.db.Where("count_id = ?", countID).Find(&records).Error; err != nil {
		return nil, err
	}

	summary := &CountSummary{TotalRecords: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case models.CountRecordStatusPending:
			summary.Pending++
		case models.CountRecordStatusCounted:
			summary.Counted++
		case models.CountRecordStatusVerified:
			summary.Verified++
		}
	}
	return summary, nil
}
