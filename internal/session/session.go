package session

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/roster"
)

type State string

const (
	StateEmpty        State = "empty"
	StateRosterLoaded State = "roster-loaded"
	StateEditing      State = "editing"
	StateSaved        State = "saved"
)

// Store 是编辑会话依赖的持久化边界，由 repository.Repository 实现
type Store interface {
	GetWardPolicy(wardID int64) (*domain.WardPolicy, error)
	GetActiveNursesByWard(hospitalID int64, wardID int64) ([]*domain.Nurse, error)
	GetHolidaysByNursesAndYear(nurseIDs []domain.NurseID, year int32) ([]*domain.HolidayEntry, error)
	GetShiftPlanByID(id int64) (*domain.ShiftPlan, error)
	CheckPlanNameExists(scope domain.PlanScope, name string) (bool, error)
	CreateShiftPlan(plan *domain.ShiftPlan) error
	GetPlanAssignments(planID int64) ([]*domain.Assignment, error)
	OverwritePlanAssignments(planID int64, rows []*domain.Assignment) error
}

// Session 是一次排班编辑会话。同一时刻只有一个网格在编辑中，
// 所有操作都在互斥锁下串行执行。任何存储调用失败时内存中的
// 网格保持不变，会话仍然可用
type Session struct {
	mu    sync.Mutex
	store Store

	state   State
	scope   domain.PlanScope
	policy  *domain.WardPolicy
	overlay *domain.HolidayOverlay
	nurses  []*domain.Nurse
	grid    *roster.Grid
	warned  *roster.WarningSet

	editingPlanID int64 // 为 0 时表示草稿，保存会新建计划
	planName      string
	dirty         bool
}

func New(store Store) *Session {
	return &Session{
		store:  store,
		state:  StateEmpty,
		warned: roster.NewWarningSet(),
	}
}

// SelectScope 切换到新的 (医院, 病区, 年, 月) 范围：载入病区配置、
// 名册和该年的休假记录，清掉当前网格。全部载入成功后才会生效
func (s *Session) SelectScope(scope domain.PlanScope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope.Month < 1 || scope.Month > 12 {
		return fmt.Errorf("非法的月份: %d", scope.Month)
	}

	policy, err := s.store.GetWardPolicy(scope.WardID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 病区还没有配置时使用默认配置
			policy = domain.DefaultWardPolicy(scope.WardID)
		default:
			return err
		}
	}

	nurses, err := s.store.GetActiveNursesByWard(scope.HospitalID, scope.WardID)
	if err != nil {
		return err
	}

	nurseIDs := make([]domain.NurseID, 0, len(nurses))
	for _, nurse := range nurses {
		nurseIDs = append(nurseIDs, nurse.ID)
	}

	holidays, err := s.store.GetHolidaysByNursesAndYear(nurseIDs, scope.Year)
	if err != nil {
		return err
	}

	s.scope = scope
	s.policy = policy
	s.nurses = nurses
	s.overlay = domain.NewHolidayOverlay(holidays)
	s.grid = nil
	s.warned.Reset()
	s.editingPlanID = 0
	s.planName = ""
	s.dirty = false
	s.state = StateRosterLoaded

	return nil
}

// StartFresh 从空白网格开始起草新计划
func (s *Session) StartFresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEmpty {
		return errors.New("尚未选择排班范围")
	}

	s.grid = roster.NewGrid(s.scope.Year, s.scope.Month, s.nurses, s.overlay)
	s.editingPlanID = 0
	s.planName = ""
	s.dirty = false
	s.state = StateEditing

	return nil
}

// LoadExisting 载入已有计划继续编辑，之后的保存会覆盖该计划
func (s *Session) LoadExisting(planID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPlanLocked(planID, true)
}

// DuplicateFrom 以已有计划的内容开始起草，会话不绑定来源计划，
// 之后的保存会新建一个计划
func (s *Session) DuplicateFrom(planID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPlanLocked(planID, false)
}

func (s *Session) loadPlanLocked(planID int64, bind bool) error {
	if s.state == StateEmpty {
		return errors.New("尚未选择排班范围")
	}

	plan, err := s.store.GetShiftPlanByID(planID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 计划已被删除，回到名册就绪状态
			s.grid = nil
			s.editingPlanID = 0
			s.planName = ""
			s.dirty = false
			s.state = StateRosterLoaded
			return domain.ErrPlanNotFound
		default:
			return err
		}
	}

	if plan.Scope != s.scope {
		return errors.New("排班计划不属于当前编辑范围")
	}

	rows, err := s.store.GetPlanAssignments(planID)
	if err != nil {
		return err
	}

	grid := roster.NewGrid(s.scope.Year, s.scope.Month, s.nurses, s.overlay)
	grid.Populate(rows)

	s.grid = grid
	s.state = StateEditing
	if bind {
		s.editingPlanID = plan.ID
		s.planName = plan.Name
		s.dirty = false
	} else {
		s.editingPlanID = 0
		s.planName = ""
		s.dirty = true
	}

	return nil
}

// Toggle 切换某个格子的班次，结果中带有拒绝原因
func (s *Session) Toggle(nurseID domain.NurseID, date domain.DateKey, kind domain.ShiftKind) (roster.ToggleCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return roster.ToggleCheck{}, errors.New("当前没有正在编辑的网格")
	}

	check, err := s.grid.Toggle(s.policy, s.overlay, nurseID, date, kind)
	if err != nil {
		return roster.ToggleCheck{}, err
	}

	if check.Allowed {
		s.dirty = true
		s.state = StateEditing
	}

	return check, nil
}

// Commit 把当前网格保存到存储。绑定了已有计划且名称为空或未变时
// 覆盖原计划，否则先做同名检查再新建计划。存储失败时网格保持不变，
// 可以直接重试
func (s *Session) Commit(name string) (*domain.ShiftPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return nil, errors.New("当前没有可保存的网格")
	}

	rows := s.grid.Assignments(s.scope.HospitalID, s.scope.WardID)

	if s.editingPlanID != 0 && (name == "" || name == s.planName) {
		if err := s.store.OverwritePlanAssignments(s.editingPlanID, rows); err != nil {
			return nil, err
		}

		plan := &domain.ShiftPlan{
			ID:    s.editingPlanID,
			Name:  s.planName,
			Scope: s.scope,
		}
		s.dirty = false
		s.state = StateSaved
		return plan, nil
	}

	if name == "" {
		return nil, errors.New("请为新的排班计划命名")
	}

	// 先检查再插入，并发下仍可能重名，由存储层的唯一约束兜底
	exists, err := s.store.CheckPlanNameExists(s.scope, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicatePlanName
	}

	plan := &domain.ShiftPlan{
		Name:  name,
		Scope: s.scope,
	}
	if err := s.store.CreateShiftPlan(plan); err != nil {
		return nil, err
	}

	// 计划建好后立即绑定会话，之后写入记录失败时用同样的名字重试
	// 会走覆盖路径，而不是和这个空计划的名字撞车
	s.editingPlanID = plan.ID
	s.planName = name

	if err := s.store.OverwritePlanAssignments(plan.ID, rows); err != nil {
		return nil, err
	}

	s.dirty = false
	s.state = StateSaved

	return plan, nil
}

// Discard 清空当前网格但不动存储，相当于清屏重来
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return errors.New("当前没有正在编辑的网格")
	}

	s.grid.Clear()
	s.dirty = true
	s.state = StateEditing

	return nil
}

// ScanWarnings 报告网格中现存的违规，同一条告警只报一次
func (s *Session) ScanWarnings() ([]*roster.Violation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid == nil {
		return nil, errors.New("当前没有正在编辑的网格")
	}

	return roster.ScanViolations(s.grid, s.policy, s.warned), nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}
