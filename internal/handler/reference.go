package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

// 医院、病区、护士和休假记录在本系统内都是参考数据，只读不写，
// 写入走独立的数据导入流程

func (h *Handler) GetAllHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.repository.GetAllHospitals()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取医院列表成功", hospitals)
}

func (h *Handler) GetHospitalWards(w http.ResponseWriter, r *http.Request) {
	hospitalIDParam := chi.URLParam(r, "id")
	hospitalID, err := strconv.ParseInt(hospitalIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "医院ID无效")
		return
	}

	wards, err := h.repository.GetWardsByHospital(hospitalID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取病区列表成功", wards)
}

func (h *Handler) GetWardPolicy(w http.ResponseWriter, r *http.Request) {
	ward := r.Context().Value(WardCtx).(*domain.Ward)

	policy, err := h.repository.GetWardPolicy(ward.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 病区没有单独配置时返回默认配置
			policy = domain.DefaultWardPolicy(ward.ID)
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "获取病区排班配置成功", policy)
}

func (h *Handler) GetWardNurses(w http.ResponseWriter, r *http.Request) {
	ward := r.Context().Value(WardCtx).(*domain.Ward)

	nurses, err := h.repository.GetActiveNursesByWard(ward.HospitalID, ward.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取病区护士名册成功", nurses)
}

func (h *Handler) GetWardHolidays(w http.ResponseWriter, r *http.Request) {
	ward := r.Context().Value(WardCtx).(*domain.Ward)

	yearParam := r.URL.Query().Get("year")
	year, err := strconv.ParseInt(yearParam, 10, 32)
	if err != nil {
		h.errorResponse(w, r, "年份无效")
		return
	}

	nurses, err := h.repository.GetActiveNursesByWard(ward.HospitalID, ward.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	nurseIDs := make([]domain.NurseID, 0, len(nurses))
	for _, nurse := range nurses {
		nurseIDs = append(nurseIDs, nurse.ID)
	}

	holidays, err := h.repository.GetHolidaysByNursesAndYear(nurseIDs, int32(year))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取病区休假记录成功", holidays)
}
