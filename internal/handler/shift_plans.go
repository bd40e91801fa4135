package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

func (h *Handler) scopeFromQuery(r *http.Request) (domain.PlanScope, error) {
	scope := domain.PlanScope{}

	hospitalID, err := strconv.ParseInt(r.URL.Query().Get("hospitalID"), 10, 64)
	if err != nil {
		return scope, errors.New("医院ID无效")
	}
	wardID, err := strconv.ParseInt(r.URL.Query().Get("wardID"), 10, 64)
	if err != nil {
		return scope, errors.New("病区ID无效")
	}
	year, err := strconv.ParseInt(r.URL.Query().Get("year"), 10, 32)
	if err != nil {
		return scope, errors.New("年份无效")
	}
	month, err := strconv.ParseInt(r.URL.Query().Get("month"), 10, 32)
	if err != nil || month < 1 || month > 12 {
		return scope, errors.New("月份无效")
	}

	scope.HospitalID = hospitalID
	scope.WardID = wardID
	scope.Year = int32(year)
	scope.Month = int32(month)

	return scope, nil
}

func (h *Handler) GetShiftPlansByScope(w http.ResponseWriter, r *http.Request) {
	scope, err := h.scopeFromQuery(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	plans, err := h.repository.GetShiftPlansByScope(scope)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班计划列表成功", plans)
}

func (h *Handler) GetShiftPlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(ShiftPlanCtx).(*domain.ShiftPlan)
	h.successResponse(w, r, "获取排班计划成功", plan)
}

func (h *Handler) RenameShiftPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	plan := r.Context().Value(ShiftPlanCtx).(*domain.ShiftPlan)
	plan.Name = req.Name

	if err := h.repository.RenameShiftPlan(plan); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班计划已被他人修改，请刷新后重试")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_plans_scope_name_key":
			h.errorResponse(w, r, "排班计划名称已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "重命名排班计划成功", plan)
}

func (h *Handler) DeleteShiftPlan(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(ShiftPlanCtx).(*domain.ShiftPlan)

	if err := h.repository.DeleteShiftPlan(plan.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班计划成功", nil)
}

// DuplicateShiftPlan 在存储层直接复制计划，不经过编辑会话。
// 想在复制的基础上继续修改时应使用 /planner/plans/{id}/duplicate
func (h *Handler) DuplicateShiftPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	plan := r.Context().Value(ShiftPlanCtx).(*domain.ShiftPlan)

	// 先检查再插入，并发下仍可能重名，由唯一约束兜底
	exists, err := h.repository.CheckPlanNameExists(plan.Scope, req.Name)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if exists {
		h.errorResponse(w, r, "排班计划名称已存在")
		return
	}

	newPlan, err := h.repository.DuplicateShiftPlan(plan.ID, req.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班计划不存在")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_plans_scope_name_key":
			h.errorResponse(w, r, "排班计划名称已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "复制排班计划成功", newPlan)
}
