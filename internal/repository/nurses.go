package repository

import (
	"database/sql"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

func scanNurse(scan func(dst ...any) error) (*domain.Nurse, error) {
	nurse := &domain.Nurse{}
	var displayOrder sql.NullInt32

	dst := []any{
		&nurse.ID,
		&nurse.FirstName,
		&nurse.LastName,
		&nurse.DisplayName,
		&displayOrder,
		&nurse.HospitalID,
		&nurse.WardID,
		&nurse.ActiveForShift,
		&nurse.CreatedAt,
		&nurse.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if displayOrder.Valid {
		nurse.DisplayOrder = &displayOrder.Int32
	}

	return nurse, nil
}

// GetActiveNursesByWard 返回参与排班的护士，按名册顺序排序，
// 没有顺序的排在最后并按 id 打破平局
func (r *Repository) GetActiveNursesByWard(hospitalID int64, wardID int64) ([]*domain.Nurse, error) {
	query := `
		SELECT id, first_name, last_name, display_name, display_order,
			hospital_id, ward_id, active_for_shift, created_at, version
		FROM nurses
		WHERE hospital_id = $1 AND ward_id = $2 AND active_for_shift = TRUE
		ORDER BY display_order NULLS LAST, id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, hospitalID, wardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nurses := make([]*domain.Nurse, 0)
	for rows.Next() {
		nurse, err := scanNurse(rows.Scan)
		if err != nil {
			return nil, err
		}
		nurses = append(nurses, nurse)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return nurses, nil
}

func (r *Repository) GetNurseByID(id domain.NurseID) (*domain.Nurse, error) {
	query := `
		SELECT id, first_name, last_name, display_name, display_order,
			hospital_id, ward_id, active_for_shift, created_at, version
		FROM nurses WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	return scanNurse(func(dst ...any) error {
		return r.dbpool.QueryRowContext(ctx, query, int64(id)).Scan(dst...)
	})
}

func (r *Repository) CreateNurse(nurse *domain.Nurse) error {
	query := `
		INSERT INTO nurses (
			first_name, last_name, display_name, display_order,
			hospital_id, ward_id, active_for_shift
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	var displayOrder any
	if nurse.DisplayOrder != nil {
		displayOrder = *nurse.DisplayOrder
	}

	params := []any{
		nurse.FirstName,
		nurse.LastName,
		nurse.DisplayName,
		displayOrder,
		nurse.HospitalID,
		nurse.WardID,
		nurse.ActiveForShift,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&nurse.ID, &nurse.CreatedAt, &nurse.Version); err != nil {
		return err
	}

	return nil
}
