package repository

import (
	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

func (r *Repository) GetAllHospitals() ([]*domain.Hospital, error) {
	query := `
		SELECT id, name, created_at, version FROM hospitals ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hospitals := make([]*domain.Hospital, 0)
	for rows.Next() {
		hospital := &domain.Hospital{}
		if err := rows.Scan(&hospital.ID, &hospital.Name, &hospital.CreatedAt, &hospital.Version); err != nil {
			return nil, err
		}
		hospitals = append(hospitals, hospital)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hospitals, nil
}

func (r *Repository) GetWardsByHospital(hospitalID int64) ([]*domain.Ward, error) {
	query := `
		SELECT id, hospital_id, name, created_at, version
		FROM wards WHERE hospital_id = $1
		ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wards := make([]*domain.Ward, 0)
	for rows.Next() {
		ward := &domain.Ward{}
		dst := []any{&ward.ID, &ward.HospitalID, &ward.Name, &ward.CreatedAt, &ward.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		wards = append(wards, ward)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return wards, nil
}

func (r *Repository) GetWardByID(id int64) (*domain.Ward, error) {
	query := `
		SELECT hospital_id, name, created_at, version
		FROM wards WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	ward := &domain.Ward{
		ID: id,
	}

	dst := []any{&ward.HospitalID, &ward.Name, &ward.CreatedAt, &ward.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return ward, nil
}

// GetWardPolicy 病区没有配置时返回 sql.ErrNoRows，由调用方决定
// 是否回退到默认配置
func (r *Repository) GetWardPolicy(wardID int64) (*domain.WardPolicy, error) {
	query := `
		SELECT max_morning, max_evening, max_night,
			forbid_night_then_morning, forbid_evening_then_night, version
		FROM ward_policies WHERE ward_id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	policy := &domain.WardPolicy{
		WardID: wardID,
	}

	dst := []any{
		&policy.MaxMorning,
		&policy.MaxEvening,
		&policy.MaxNight,
		&policy.ForbidNightThenMorning,
		&policy.ForbidEveningThenNight,
		&policy.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, wardID).Scan(dst...); err != nil {
		return nil, err
	}

	return policy, nil
}

func (r *Repository) CreateWardPolicy(policy *domain.WardPolicy) error {
	query := `
		INSERT INTO ward_policies (
			ward_id, max_morning, max_evening, max_night,
			forbid_night_then_morning, forbid_evening_then_night
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{
		policy.WardID,
		policy.MaxMorning,
		policy.MaxEvening,
		policy.MaxNight,
		policy.ForbidNightThenMorning,
		policy.ForbidEveningThenNight,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&policy.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateHospital(hospital *domain.Hospital) error {
	query := `
		INSERT INTO hospitals (name) VALUES ($1)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, hospital.Name).Scan(&hospital.ID, &hospital.CreatedAt, &hospital.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateWard(ward *domain.Ward) error {
	query := `
		INSERT INTO wards (hospital_id, name) VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, ward.HospitalID, ward.Name).Scan(&ward.ID, &ward.CreatedAt, &ward.Version); err != nil {
		return err
	}

	return nil
}
