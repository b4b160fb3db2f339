package repositories

import (
	"time"

	"parts-ledger/types"

	"gorm.io/gorm"
)

type MoveRepository struct {
	db *gorm.DB
}

func NewMoveRepository(db *gorm.DB) *MoveRepository {
	return &MoveRepository{db}
}

type MoveFilter struct {
	PartID     uint
	LocationID uint
	UserID     uint
	Reason     string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

type MoveHistoryRow struct {
	ID           types.SnowflakeID `json:"ID"`
	Ts           time.Time         `json:"ts"`
	UserID       uint              `json:"user_id"`
	UserName     string            `json:"user_name"`
	PartID       uint              `json:"part_id"`
	PartCode     string            `json:"part_code"`
	PartName     string            `json:"part_name"`
	LocationID   uint              `json:"location_id"`
	LocationCode string            `json:"location_code"`
	DeltaQty     int               `json:"delta_qty"`
	Reason       string            `json:"reason"`
	Note         string            `json:"note"`
}

// History reads the move log newest first, joined with display fields. Users
// are soft-deleted, hence the left joins.
func (r *MoveRepository) History(filter MoveFilter) ([]MoveHistoryRow, int64, error) {
	// Fresh query per finisher; sharing one chain between Count and Scan
	// leaks statement state.
	filtered := func() *gorm.DB {
		q := r.db.Table("move_records m").
			Joins("left join users u on m.user_id = u.id").
			Joins("left join parts p on m.part_id = p.id").
			Joins("left join locations l on m.location_id = l.id")

		if filter.PartID != 0 {
			q = q.Where("m.part_id = ?", filter.PartID)
		}
		if filter.LocationID != 0 {
			q = q.Where("m.location_id = ?", filter.LocationID)
		}
		if filter.UserID != 0 {
			q = q.Where("m.user_id = ?", filter.UserID)
		}
		if filter.Reason != "" {
			q = q.Where("m.reason = ?", filter.Reason)
		}
		if filter.From != nil {
			q = q.Where("m.ts >= ?", filter.From)
		}
		if filter.To != nil {
			q = q.Where("m.ts <= ?", filter.To)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	var rows []MoveHistoryRow
	err := filtered().Select(`m.id, m.ts, m.user_id, u.name as user_name,
		m.part_id, p.part_code, p.part_name,
		m.location_id, l.location_code,
		m.delta_qty, m.reason, m.note`).
		Order("m.ts desc, m.id desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type DailySummaryRow struct {
	Reason   string `json:"reason"`
	Moves    int    `json:"moves"`
	QtyIn    int    `json:"qty_in"`
	QtyOut   int    `json:"qty_out"`
	NetDelta int    `json:"net_delta"`
}

type DailySummary struct {
	Date       string            `json:"date"`
	TotalMoves int               `json:"total_moves"`
	Actors     int               `json:"actors"`
	ByReason   []DailySummaryRow `json:"by_reason"`
}

// DailySummaryFor aggregates one day of movement for the activity report.
func (r *MoveRepository) DailySummaryFor(day time.Time) (*DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	sqlByReason := `select reason,
	count(*) as moves,
	coalesce(sum(case when delta_qty > 0 then delta_qty else 0 end), 0) as qty_in,
	coalesce(sum(case when delta_qty < 0 then -delta_qty else 0 end), 0) as qty_out,
	coalesce(sum(delta_qty), 0) as net_delta
	from move_records
	where ts >= ? and ts < ?
	group by reason
	order by moves desc`

	var byReason []DailySummaryRow
	if err := r.db.Raw(sqlByReason, start, end).Scan(&byReason).Error; err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:     start.Format("2006-01-02"),
		ByReason: byReason,
	}
	for _, row := range byReason {
		summary.TotalMoves += row.Moves
	}

	var actors int
	err := r.db.Raw(`select count(distinct user_id) from move_records where ts >= ? and ts < ?`, start, end).Scan(&actors).Error
	if err != nil {
		return nil, err
	}
	summary.Actors = actors

	return summary, nil
}
