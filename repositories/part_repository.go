package repositories

import (
	"errors"
	"fmt"

	"parts-ledger/models"

	"gorm.io/gorm"
)

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db}
}

type PartWithQty struct {
	models.Part
	TotalQty int `json:"total_qty"`
}

// Search filters the catalog by a free-text term matched against the
// descriptive attributes, with every row carrying its summed on-hand
// quantity across locations.
func (r *PartRepository) Search(term string) ([]PartWithQty, error) {
	sqlSearch := `select p.*, coalesce(sum(i.qty), 0) as total_qty
	from parts p
	left join inventory_records i on i.part_id = p.id
	where p.deleted_at is null`

	var args []interface{}
	if term != "" {
		sqlSearch += ` and (p.part_code like ? or p.part_name like ? or p.color like ?
		or p.category like ? or p.job_number like ? or p.brand like ?)`
		like := "%" + term + "%"
		args = append(args, like, like, like, like, like, like)
	}
	sqlSearch += ` group by p.id order by p.part_code`

	var parts []PartWithQty
	if err := r.db.Raw(sqlSearch, args...).Scan(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *PartRepository) GetByID(id uint) (*models.Part, error) {
	var part models.Part
	if err := r.db.First(&part, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: part %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &part, nil
}

func (r *PartRepository) GetByCode(code string) (*models.Part, error) {
	var part models.Part
	if err := r.db.Where("part_code = ?", code).First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: part %s", ErrNotFound, code)
		}
		return nil, err
	}
	return &part, nil
}

func (r *PartRepository) Create(part *models.Part) error {
	var existing models.Part
	err := r.db.Where("part_code = ?", part.PartCode).First(&existing).Error
	if err == nil {
		return fmt.Errorf("%w: part code %s", ErrDuplicateRecord, part.PartCode)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(part).Error
}

func (r *PartRepository) Update(part *models.Part) error {
	return r.db.Save(part).Error
}

// Delete removes a part and everything hanging off it: inventory rows and the
// part's move history go in the same transaction. Hard delete keeps the
// part_code free for re-registration.
func (r *PartRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var part models.Part
		if err := tx.First(&part, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: part %d", ErrNotFound, id)
			}
			return err
		}
		if err := tx.Where("part_id = ?", id).Delete(&models.InventoryRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("part_id = ?", id).Delete(&models.MoveRecord{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Part{}, id).Error
	})
}
