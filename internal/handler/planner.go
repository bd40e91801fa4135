package handler

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/roster"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/session"
)

// SessionManager 按用户维护编辑会话，每个用户同一时刻只有一个。
// 会话内部自带互斥锁，这里的锁只保护映射本身
type SessionManager struct {
	mu       sync.Mutex
	store    session.Store
	sessions map[int64]*session.Session
}

func NewSessionManager(store session.Store) *SessionManager {
	return &SessionManager{
		store:    store,
		sessions: make(map[int64]*session.Session),
	}
}

func (m *SessionManager) SessionOf(userID int64) *session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[userID]
	if !exists {
		sess = session.New(m.store)
		m.sessions[userID] = sess
	}

	return sess
}

// 拒绝原因标签到展示文案的映射
var denyMessages = map[roster.DenyReason]string{
	roster.DenyHoliday:              "该护士当天休假，不能排班",
	roster.DenySequenceNightMorning: "夜班后第二天不能排早班",
	roster.DenySequenceEveningNight: "同一天不能同时排中班和夜班",
	roster.DenyCapacity:             "当天该班次人数已达上限",
}

func (h *Handler) mySession(r *http.Request) *session.Session {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	return h.sessions.SessionOf(myInfo.ID)
}

func (h *Handler) SelectPlannerScope(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HospitalID int64 `json:"hospitalID" validate:"required"`
		WardID     int64 `json:"wardID" validate:"required"`
		Year       int32 `json:"year" validate:"required"`
		Month      int32 `json:"month" validate:"required,min=1,max=12"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sess := h.mySession(r)

	scope := domain.PlanScope{
		HospitalID: req.HospitalID,
		WardID:     req.WardID,
		Year:       req.Year,
		Month:      req.Month,
	}
	if err := sess.SelectScope(scope); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "选择排班范围成功", sess.View())
}

func (h *Handler) StartFreshPlan(w http.ResponseWriter, r *http.Request) {
	sess := h.mySession(r)

	if err := sess.StartFresh(); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "已创建空白排班网格", sess.View())
}

func (h *Handler) planIDFromURL(r *http.Request) (int64, error) {
	planIDParam := chi.URLParam(r, "id")
	planID, err := strconv.ParseInt(planIDParam, 10, 64)
	if err != nil {
		return 0, errors.New("排班计划ID无效")
	}
	return planID, nil
}

func (h *Handler) LoadPlanIntoSession(w http.ResponseWriter, r *http.Request) {
	planID, err := h.planIDFromURL(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	sess := h.mySession(r)

	if err := sess.LoadExisting(planID); err != nil {
		switch {
		case errors.Is(err, domain.ErrPlanNotFound):
			h.errorResponseWithData(w, r, "排班计划不存在，可能已被删除", sess.View())
		default:
			h.errorResponse(w, r, err.Error())
		}
		return
	}

	h.successResponse(w, r, "载入排班计划成功", sess.View())
}

func (h *Handler) DuplicatePlanIntoSession(w http.ResponseWriter, r *http.Request) {
	planID, err := h.planIDFromURL(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	sess := h.mySession(r)

	if err := sess.DuplicateFrom(planID); err != nil {
		switch {
		case errors.Is(err, domain.ErrPlanNotFound):
			h.errorResponseWithData(w, r, "排班计划不存在，可能已被删除", sess.View())
		default:
			h.errorResponse(w, r, err.Error())
		}
		return
	}

	h.successResponse(w, r, "以已有计划为底稿开始编辑", sess.View())
}

func (h *Handler) ToggleShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NurseID int64  `json:"nurseID" validate:"required"`
		Date    string `json:"date" validate:"required"`
		Kind    string `json:"kind" validate:"required,oneof=morning evening night"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sess := h.mySession(r)

	check, err := sess.Toggle(domain.NurseID(req.NurseID), domain.DateKey(req.Date), domain.ShiftKind(req.Kind))
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if !check.Allowed {
		h.errorResponseWithData(w, r, denyMessages[check.Reason], check)
		return
	}

	h.successResponse(w, r, "切换班次成功", check)
}

func (h *Handler) CommitPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		// 绑定了已有计划时可以不传名称，表示覆盖保存
		Name string `json:"name"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sess := h.mySession(r)

	plan, err := sess.Commit(req.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, domain.ErrDuplicatePlanName):
			h.errorResponse(w, r, "排班计划名称已存在")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_plans_scope_name_key":
			// 同名检查和插入之间被别人抢先保存了同名计划
			h.errorResponse(w, r, "排班计划名称已存在")
		default:
			h.errorResponse(w, r, err.Error())
		}
		return
	}

	h.successResponse(w, r, "保存排班计划成功", plan)
}

func (h *Handler) DiscardPlanGrid(w http.ResponseWriter, r *http.Request) {
	sess := h.mySession(r)

	if err := sess.Discard(); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "已清空当前排班网格", sess.View())
}

func (h *Handler) GetPlannerGrid(w http.ResponseWriter, r *http.Request) {
	sess := h.mySession(r)
	h.successResponse(w, r, "获取排班网格成功", sess.View())
}

func (h *Handler) GetPlannerWarnings(w http.ResponseWriter, r *http.Request) {
	sess := h.mySession(r)

	violations, err := sess.ScanWarnings()
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "检查排班告警成功", violations)
}
