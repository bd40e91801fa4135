package repository

import (
	"database/sql"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

// GetShiftPlansByScope 返回某范围下的所有排班计划，最新创建的在前
func (r *Repository) GetShiftPlansByScope(scope domain.PlanScope) ([]*domain.ShiftPlan, error) {
	query := `
		SELECT id, name, created_at, version
		FROM shift_plans
		WHERE hospital_id = $1 AND ward_id = $2 AND year = $3 AND month = $4
		ORDER BY created_at DESC
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{scope.HospitalID, scope.WardID, scope.Year, scope.Month}
	rows, err := r.dbpool.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []*domain.ShiftPlan{}
	for rows.Next() {
		plan := &domain.ShiftPlan{
			Scope: scope,
		}
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.CreatedAt, &plan.Version); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *Repository) GetShiftPlanByID(id int64) (*domain.ShiftPlan, error) {
	query := `
		SELECT name, hospital_id, ward_id, year, month, created_at, version
		FROM shift_plans
		WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	plan := &domain.ShiftPlan{
		ID: id,
	}

	dst := []any{
		&plan.Name,
		&plan.Scope.HospitalID,
		&plan.Scope.WardID,
		&plan.Scope.Year,
		&plan.Scope.Month,
		&plan.CreatedAt,
		&plan.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return plan, nil
}

// CheckPlanNameExists 保存前的同名检查。这个检查和之后的插入不是
// 原子的，并发下靠 shift_plans_scope_name_key 唯一约束兜底
func (r *Repository) CheckPlanNameExists(scope domain.PlanScope, name string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM shift_plans
			WHERE hospital_id = $1 AND ward_id = $2 AND year = $3 AND month = $4 AND name = $5
		)
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	isExists := false
	params := []any{scope.HospitalID, scope.WardID, scope.Year, scope.Month, name}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) CreateShiftPlan(plan *domain.ShiftPlan) error {
	query := `
		INSERT INTO shift_plans (name, hospital_id, ward_id, year, month)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	params := []any{plan.Name, plan.Scope.HospitalID, plan.Scope.WardID, plan.Scope.Year, plan.Scope.Month}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&plan.ID, &plan.CreatedAt, &plan.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) RenameShiftPlan(plan *domain.ShiftPlan) error {
	query := `
		UPDATE shift_plans
		SET name = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, plan.Name, plan.ID, plan.Version).Scan(&plan.Version); err != nil {
		return err
	}

	return nil
}

// DeleteShiftPlan 删除计划，计划下的排班记录由外键级联删除
func (r *Repository) DeleteShiftPlan(id int64) error {
	query := `
		DELETE FROM shift_plans WHERE id = $1
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// GetPlanAssignments 返回计划的全部记录，包括日期和班次都为空的
// 占位行，填充网格前由调用方过滤
func (r *Repository) GetPlanAssignments(planID int64) ([]*domain.Assignment, error) {
	query := `
		SELECT nurse_id, shift_date, shift_kind, display_order, hospital_id, ward_id
		FROM shift_plan_assignments
		WHERE shift_plan_id = $1
		ORDER BY display_order NULLS LAST, nurse_id, shift_date
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		var row struct {
			nurseID      int64
			shiftDate    sql.NullTime
			shiftKind    sql.NullString
			displayOrder sql.NullInt32
			hospitalID   int64
			wardID       int64
		}

		dst := []any{
			&row.nurseID,
			&row.shiftDate,
			&row.shiftKind,
			&row.displayOrder,
			&row.hospitalID,
			&row.wardID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		assignment := &domain.Assignment{
			NurseID:    domain.NurseID(row.nurseID),
			HospitalID: row.hospitalID,
			WardID:     row.wardID,
		}
		if row.shiftDate.Valid {
			date := domain.NewDateKey(row.shiftDate.Time)
			assignment.Date = &date
		}
		if row.shiftKind.Valid {
			kind := domain.ShiftKind(row.shiftKind.String)
			assignment.Kind = &kind
		}
		if row.displayOrder.Valid {
			assignment.DisplayOrder = &row.displayOrder.Int32
		}

		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// OverwritePlanAssignments 在一个事务中先删除计划的全部记录再插入
// 当前网格的记录，每行都带着保存时刻的名册顺序快照
func (r *Repository) OverwritePlanAssignments(planID int64, assignments []*domain.Assignment) error {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先把之前的记录删除
	query := `DELETE FROM shift_plan_assignments WHERE shift_plan_id = $1`
	if _, err := tx.ExecContext(ctx, query, planID); err != nil {
		return err
	}

	query = `
		INSERT INTO shift_plan_assignments (
			shift_plan_id, nurse_id, shift_date, shift_kind,
			display_order, hospital_id, ward_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, assignment := range assignments {
		var shiftDate, shiftKind, displayOrder any
		if assignment.Date != nil {
			shiftDate = string(*assignment.Date)
		}
		if assignment.Kind != nil {
			shiftKind = string(*assignment.Kind)
		}
		if assignment.DisplayOrder != nil {
			displayOrder = *assignment.DisplayOrder
		}

		params := []any{
			planID,
			int64(assignment.NurseID),
			shiftDate,
			shiftKind,
			displayOrder,
			assignment.HospitalID,
			assignment.WardID,
		}
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// DuplicateShiftPlan 在同一范围下以新名称复制计划及其全部记录
func (r *Repository) DuplicateShiftPlan(planID int64, newName string) (*domain.ShiftPlan, error) {
	ctx, cancel := r.transactionContext()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先取来源计划的范围
	query := `
		SELECT hospital_id, ward_id, year, month
		FROM shift_plans WHERE id = $1
	`

	newPlan := &domain.ShiftPlan{
		Name: newName,
	}

	dst := []any{
		&newPlan.Scope.HospitalID,
		&newPlan.Scope.WardID,
		&newPlan.Scope.Year,
		&newPlan.Scope.Month,
	}
	if err := tx.QueryRowContext(ctx, query, planID).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		INSERT INTO shift_plans (name, hospital_id, ward_id, year, month)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	params := []any{newName, newPlan.Scope.HospitalID, newPlan.Scope.WardID, newPlan.Scope.Year, newPlan.Scope.Month}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&newPlan.ID, &newPlan.CreatedAt, &newPlan.Version); err != nil {
		return nil, err
	}

	query = `
		INSERT INTO shift_plan_assignments (
			shift_plan_id, nurse_id, shift_date, shift_kind,
			display_order, hospital_id, ward_id
		)
		SELECT $1, nurse_id, shift_date, shift_kind, display_order, hospital_id, ward_id
		FROM shift_plan_assignments
		WHERE shift_plan_id = $2
	`

	if _, err := tx.ExecContext(ctx, query, newPlan.ID, planID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return newPlan, nil
}
