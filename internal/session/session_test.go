package session

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

// fakeStore 是内存实现的 Store，测试会话逻辑时不需要数据库
type fakeStore struct {
	policies    map[int64]*domain.WardPolicy
	nurses      []*domain.Nurse
	holidays    []*domain.HolidayEntry
	plans       map[int64]*domain.ShiftPlan
	assignments map[int64][]*domain.Assignment
	nextPlanID  int64

	failOverwrite bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		policies:    make(map[int64]*domain.WardPolicy),
		plans:       make(map[int64]*domain.ShiftPlan),
		assignments: make(map[int64][]*domain.Assignment),
		nextPlanID:  1,
	}
}

func (s *fakeStore) GetWardPolicy(wardID int64) (*domain.WardPolicy, error) {
	policy, exists := s.policies[wardID]
	if !exists {
		return nil, sql.ErrNoRows
	}
	return policy, nil
}

func (s *fakeStore) GetActiveNursesByWard(hospitalID int64, wardID int64) ([]*domain.Nurse, error) {
	return s.nurses, nil
}

func (s *fakeStore) GetHolidaysByNursesAndYear(nurseIDs []domain.NurseID, year int32) ([]*domain.HolidayEntry, error) {
	return s.holidays, nil
}

func (s *fakeStore) GetShiftPlanByID(id int64) (*domain.ShiftPlan, error) {
	plan, exists := s.plans[id]
	if !exists {
		return nil, sql.ErrNoRows
	}
	return plan, nil
}

func (s *fakeStore) CheckPlanNameExists(scope domain.PlanScope, name string) (bool, error) {
	for _, plan := range s.plans {
		if plan.Scope == scope && plan.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateShiftPlan(plan *domain.ShiftPlan) error {
	plan.ID = s.nextPlanID
	s.nextPlanID++
	s.plans[plan.ID] = plan
	return nil
}

func (s *fakeStore) GetPlanAssignments(planID int64) ([]*domain.Assignment, error) {
	return s.assignments[planID], nil
}

func (s *fakeStore) OverwritePlanAssignments(planID int64, rows []*domain.Assignment) error {
	if s.failOverwrite {
		return errors.New("存储不可用")
	}
	s.assignments[planID] = rows
	return nil
}

func sessionNurses(n int) []*domain.Nurse {
	nurses := make([]*domain.Nurse, 0, n)
	for i := 1; i <= n; i++ {
		order := int32(i)
		nurses = append(nurses, &domain.Nurse{
			ID:             domain.NurseID(i),
			DisplayName:    "护士",
			DisplayOrder:   &order,
			HospitalID:     1,
			WardID:         1,
			ActiveForShift: true,
		})
	}
	return nurses
}

func testScope() domain.PlanScope {
	return domain.PlanScope{HospitalID: 1, WardID: 1, Year: 2026, Month: 3}
}

func readySession(t *testing.T, store *fakeStore) *Session {
	t.Helper()

	sess := New(store)
	require.NoError(t, sess.SelectScope(testScope()))
	require.NoError(t, sess.StartFresh())
	return sess
}

func TestSessionStateFlow(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(3)

	sess := New(store)
	assert.Equal(t, StateEmpty, sess.State())

	// 没选范围之前不能起草
	assert.Error(t, sess.StartFresh())

	require.NoError(t, sess.SelectScope(testScope()))
	assert.Equal(t, StateRosterLoaded, sess.State())

	require.NoError(t, sess.StartFresh())
	assert.Equal(t, StateEditing, sess.State())
}

func TestSessionSelectScopeValidatesMonth(t *testing.T) {
	store := newFakeStore()
	sess := New(store)

	scope := testScope()
	scope.Month = 13
	assert.Error(t, sess.SelectScope(scope))
	assert.Equal(t, StateEmpty, sess.State())
}

func TestSessionDefaultPolicyWhenUnconfigured(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(6)

	sess := readySession(t, store)
	date := domain.MakeDateKey(2026, 3, 10)

	// 病区没有配置时用默认配置，早班上限是 4
	for _, id := range []domain.NurseID{1, 2, 3, 4} {
		check, err := sess.Toggle(id, date, domain.ShiftMorning)
		require.NoError(t, err)
		require.True(t, check.Allowed)
	}

	check, err := sess.Toggle(5, date, domain.ShiftMorning)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
}

func TestSessionCommitRequiresName(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	sess := readySession(t, store)

	_, err := sess.Commit("")
	assert.Error(t, err)
}

func TestSessionCommitAndReload(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(3)

	sess := readySession(t, store)
	date := domain.MakeDateKey(2026, 3, 10)

	check, err := sess.Toggle(1, date, domain.ShiftNight)
	require.NoError(t, err)
	require.True(t, check.Allowed)

	plan, err := sess.Commit("三月第一版")
	require.NoError(t, err)
	assert.Equal(t, StateSaved, sess.State())

	// 没有班次的护士也要保存占位行，重新载入时名册不丢人
	placeholders := 0
	for _, row := range store.assignments[plan.ID] {
		if row.IsPlaceholder() {
			placeholders++
		}
	}
	assert.Equal(t, 2, placeholders)

	// 另一个会话载入后内容一致
	other := New(store)
	require.NoError(t, other.SelectScope(testScope()))
	require.NoError(t, other.LoadExisting(plan.ID))

	view := other.View()
	assert.Equal(t, StateEditing, view.State)
	assert.Equal(t, plan.ID, view.EditingPlanID)
	assert.False(t, view.Dirty)
	assert.Contains(t, view.Cells[date][1].Shifts, domain.ShiftNight)
}

func TestSessionCommitDuplicateName(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	sess := readySession(t, store)
	_, err := sess.Commit("三月第一版")
	require.NoError(t, err)

	other := New(store)
	require.NoError(t, other.SelectScope(testScope()))
	require.NoError(t, other.StartFresh())

	_, err = other.Commit("三月第一版")
	assert.ErrorIs(t, err, domain.ErrDuplicatePlanName)
}

func TestSessionCommitOverwritesBoundPlan(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	sess := readySession(t, store)
	date := domain.MakeDateKey(2026, 3, 10)

	_, err := sess.Toggle(1, date, domain.ShiftMorning)
	require.NoError(t, err)

	plan, err := sess.Commit("三月第一版")
	require.NoError(t, err)

	// 继续编辑后不传名称保存，覆盖原计划而不是新建
	_, err = sess.Toggle(2, date, domain.ShiftEvening)
	require.NoError(t, err)
	assert.Equal(t, StateEditing, sess.State())

	saved, err := sess.Commit("")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, saved.ID)
	assert.Len(t, store.plans, 1)
}

func TestSessionCommitStorageFailureKeepsGrid(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	sess := readySession(t, store)
	date := domain.MakeDateKey(2026, 3, 10)

	_, err := sess.Toggle(1, date, domain.ShiftMorning)
	require.NoError(t, err)

	store.failOverwrite = true
	_, err = sess.Commit("三月第一版")
	require.Error(t, err)

	// 网格没有丢，恢复后可以直接重试
	store.failOverwrite = false
	plan, err := sess.Commit("三月第二版")
	require.NoError(t, err)

	found := false
	for _, row := range store.assignments[plan.ID] {
		if !row.IsPlaceholder() && row.NurseID == 1 && *row.Kind == domain.ShiftMorning {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSessionCommitRetrySameNameAfterPartialFailure(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	sess := readySession(t, store)
	date := domain.MakeDateKey(2026, 3, 10)

	_, err := sess.Toggle(1, date, domain.ShiftMorning)
	require.NoError(t, err)

	// 计划创建成功但写入记录失败
	store.failOverwrite = true
	_, err = sess.Commit("三月第一版")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicatePlanName)
	assert.Equal(t, StateEditing, sess.State())

	// 用同样的名字重试不能被同名检查拦下，应当覆盖保存到已建好的计划
	store.failOverwrite = false
	plan, err := sess.Commit("三月第一版")
	require.NoError(t, err)
	assert.Equal(t, StateSaved, sess.State())
	assert.Len(t, store.plans, 1)
	assert.Equal(t, "三月第一版", store.plans[plan.ID].Name)

	found := false
	for _, row := range store.assignments[plan.ID] {
		if !row.IsPlaceholder() && row.NurseID == 1 && *row.Kind == domain.ShiftMorning {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSessionLoadDeletedPlan(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	sess := readySession(t, store)

	err := sess.LoadExisting(42)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	assert.Equal(t, StateRosterLoaded, sess.State())
}

func TestSessionLoadPlanFromOtherScope(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	otherScope := testScope()
	otherScope.Month = 4
	plan := &domain.ShiftPlan{Name: "四月", Scope: otherScope}
	require.NoError(t, store.CreateShiftPlan(plan))

	sess := readySession(t, store)
	assert.Error(t, sess.LoadExisting(plan.ID))
}

func TestSessionDuplicateFrom(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	sess := readySession(t, store)
	date := domain.MakeDateKey(2026, 3, 10)

	_, err := sess.Toggle(1, date, domain.ShiftNight)
	require.NoError(t, err)

	plan, err := sess.Commit("三月第一版")
	require.NoError(t, err)

	other := New(store)
	require.NoError(t, other.SelectScope(testScope()))
	require.NoError(t, other.DuplicateFrom(plan.ID))

	view := other.View()
	assert.Contains(t, view.Cells[date][1].Shifts, domain.ShiftNight)

	// 复制不绑定来源计划，保存必须命名，并且会新建计划
	assert.Zero(t, view.EditingPlanID)
	assert.True(t, view.Dirty)

	_, err = other.Commit("")
	assert.Error(t, err)

	copied, err := other.Commit("三月第二版")
	require.NoError(t, err)
	assert.NotEqual(t, plan.ID, copied.ID)
	assert.Len(t, store.assignments[copied.ID], len(store.assignments[plan.ID]))
}

func TestSessionDiscard(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	sess := readySession(t, store)
	date := domain.MakeDateKey(2026, 3, 10)

	_, err := sess.Toggle(1, date, domain.ShiftMorning)
	require.NoError(t, err)

	require.NoError(t, sess.Discard())

	view := sess.View()
	assert.Equal(t, StateEditing, view.State)
	assert.Empty(t, view.Cells[date][1].Shifts)
}

func TestSessionScanWarningsDedup(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(2)

	// 旧计划带着在当前配置下非法的班次组合
	date := domain.MakeDateKey(2026, 3, 10)
	evening := domain.ShiftEvening
	night := domain.ShiftNight
	d1, d2 := date, date
	plan := &domain.ShiftPlan{Name: "旧计划", Scope: testScope()}
	require.NoError(t, store.CreateShiftPlan(plan))
	store.assignments[plan.ID] = []*domain.Assignment{
		{NurseID: 1, Date: &d1, Kind: &evening, HospitalID: 1, WardID: 1},
		{NurseID: 1, Date: &d2, Kind: &night, HospitalID: 1, WardID: 1},
	}

	sess := New(store)
	require.NoError(t, sess.SelectScope(testScope()))
	require.NoError(t, sess.LoadExisting(plan.ID))

	first, err := sess.ScanWarnings()
	require.NoError(t, err)
	require.Len(t, first, 1)

	// 同一条告警不会重复报告
	second, err := sess.ScanWarnings()
	require.NoError(t, err)
	assert.Empty(t, second)

	// 切换范围后重新报告
	require.NoError(t, sess.SelectScope(testScope()))
	require.NoError(t, sess.LoadExisting(plan.ID))

	third, err := sess.ScanWarnings()
	require.NoError(t, err)
	assert.Len(t, third, 1)
}

func TestSessionToggleWithoutGrid(t *testing.T) {
	store := newFakeStore()
	store.nurses = sessionNurses(1)

	sess := New(store)
	require.NoError(t, sess.SelectScope(testScope()))

	_, err := sess.Toggle(1, domain.MakeDateKey(2026, 3, 10), domain.ShiftMorning)
	assert.Error(t, err)
	assert.Error(t, sess.Discard())
}
