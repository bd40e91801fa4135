package repository

import (
	"time"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

// GetHolidaysByNursesAndYear 返回给定护士集合在某年的休假记录
func (r *Repository) GetHolidaysByNursesAndYear(nurseIDs []domain.NurseID, year int32) ([]*domain.HolidayEntry, error) {
	query := `
		SELECT id, nurse_id, holiday_date, year, leave_type, created_at
		FROM nurse_holidays
		WHERE year = $1 AND nurse_id = ANY($2)
		ORDER BY nurse_id, holiday_date
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	ids := make([]int64, 0, len(nurseIDs))
	for _, id := range nurseIDs {
		ids = append(ids, int64(id))
	}

	rows, err := r.dbpool.QueryContext(ctx, query, year, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.HolidayEntry, 0)
	for rows.Next() {
		entry := &domain.HolidayEntry{}
		var date time.Time

		dst := []any{&entry.ID, &entry.NurseID, &date, &entry.Year, &entry.Type, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		entry.Date = domain.NewDateKey(date)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) CreateHolidayEntry(entry *domain.HolidayEntry) error {
	query := `
		INSERT INTO nurse_holidays (nurse_id, holiday_date, year, leave_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{int64(entry.NurseID), string(entry.Date), entry.Year, entry.Type}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return err
	}

	return nil
}
