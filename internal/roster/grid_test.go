package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

func testNurses(n int) []*domain.Nurse {
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

func testPolicy() *domain.WardPolicy {
	return &domain.WardPolicy{
		WardID:                 1,
		MaxMorning:             2,
		MaxEvening:             2,
		MaxNight:               2,
		ForbidNightThenMorning: true,
		ForbidEveningThenNight: true,
	}
}

func emptyOverlay() *domain.HolidayOverlay {
	return domain.NewHolidayOverlay(nil)
}

func TestGridToggleOnOff(t *testing.T) {
	overlay := emptyOverlay()
	g := NewGrid(2026, 3, testNurses(3), overlay)
	policy := testPolicy()
	date := domain.MakeDateKey(2026, 3, 10)

	check, err := g.Toggle(policy, overlay, 1, date, domain.ShiftMorning)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
	assert.True(t, g.Has(1, date, domain.ShiftMorning))

	// 再切换一次等于取消
	check, err = g.Toggle(policy, overlay, 1, date, domain.ShiftMorning)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
	assert.False(t, g.Has(1, date, domain.ShiftMorning))
}

func TestGridToggleInvalidInput(t *testing.T) {
	overlay := emptyOverlay()
	g := NewGrid(2026, 3, testNurses(1), overlay)
	policy := testPolicy()
	date := domain.MakeDateKey(2026, 3, 10)

	_, err := g.Toggle(policy, overlay, 1, date, domain.ShiftKind("afternoon"))
	assert.Error(t, err)

	// 名册之外的护士
	_, err = g.Toggle(policy, overlay, 99, date, domain.ShiftMorning)
	assert.Error(t, err)

	// 本月之外的日期
	_, err = g.Toggle(policy, overlay, 1, domain.MakeDateKey(2026, 4, 1), domain.ShiftMorning)
	assert.Error(t, err)
}

func TestGridHolidayBlocksToggle(t *testing.T) {
	date := domain.MakeDateKey(2026, 3, 10)
	overlay := domain.NewHolidayOverlay([]*domain.HolidayEntry{
		{NurseID: 1, Date: date, Year: 2026, Type: domain.LeaveSick},
	})
	g := NewGrid(2026, 3, testNurses(2), overlay)
	policy := testPolicy()

	check, err := g.Toggle(policy, overlay, 1, date, domain.ShiftMorning)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Equal(t, DenyHoliday, check.Reason)

	// 格子构造时就被标记为禁用
	cell, exists := g.Cell(1, date)
	require.True(t, exists)
	assert.True(t, cell.Disabled)
	assert.Equal(t, domain.LeaveSick, cell.Reason)

	// 同一天其他护士不受影响
	check, err = g.Toggle(policy, overlay, 2, date, domain.ShiftMorning)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
}

func TestGridCapacityFreesAfterUntoggle(t *testing.T) {
	overlay := emptyOverlay()
	g := NewGrid(2026, 3, testNurses(3), overlay)
	policy := testPolicy()
	date := domain.MakeDateKey(2026, 3, 10)

	for _, id := range []domain.NurseID{1, 2} {
		check, err := g.Toggle(policy, overlay, id, date, domain.ShiftNight)
		require.NoError(t, err)
		require.True(t, check.Allowed)
	}

	// 上限是 2，第三个人被拒绝
	check, err := g.Toggle(policy, overlay, 3, date, domain.ShiftNight)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Equal(t, DenyCapacity, check.Reason)

	// 有人取消后名额立即释放
	check, err = g.Toggle(policy, overlay, 1, date, domain.ShiftNight)
	require.NoError(t, err)
	require.True(t, check.Allowed)

	check, err = g.Toggle(policy, overlay, 3, date, domain.ShiftNight)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
	assert.Equal(t, int32(2), g.CountHolding(date, domain.ShiftNight))
}

func TestGridNightThenMorning(t *testing.T) {
	overlay := emptyOverlay()
	g := NewGrid(2026, 3, testNurses(1), overlay)
	policy := testPolicy()
	night := domain.MakeDateKey(2026, 3, 10)
	morning := domain.MakeDateKey(2026, 3, 11)

	check, err := g.Toggle(policy, overlay, 1, night, domain.ShiftNight)
	require.NoError(t, err)
	require.True(t, check.Allowed)

	check, err = g.Toggle(policy, overlay, 1, morning, domain.ShiftMorning)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Equal(t, DenySequenceNightMorning, check.Reason)

	// 关闭开关后允许
	policy.ForbidNightThenMorning = false
	check, err = g.Toggle(policy, overlay, 1, morning, domain.ShiftMorning)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
}

func TestGridNightThenMorningAcrossMonthStart(t *testing.T) {
	overlay := emptyOverlay()
	g := NewGrid(2026, 3, testNurses(1), overlay)
	policy := testPolicy()

	// 月初第一天的前一天不在网格内，规则自然放行
	check, err := g.Toggle(policy, overlay, 1, domain.MakeDateKey(2026, 3, 1), domain.ShiftMorning)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
}

func TestGridEveningNightSameDay(t *testing.T) {
	overlay := emptyOverlay()
	g := NewGrid(2026, 3, testNurses(1), overlay)
	policy := testPolicy()
	date := domain.MakeDateKey(2026, 3, 10)

	check, err := g.Toggle(policy, overlay, 1, date, domain.ShiftEvening)
	require.NoError(t, err)
	require.True(t, check.Allowed)

	check, err = g.Toggle(policy, overlay, 1, date, domain.ShiftNight)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Equal(t, DenySequenceEveningNight, check.Reason)

	// 反方向也一样
	check, err = g.Toggle(policy, overlay, 1, date, domain.ShiftEvening)
	require.NoError(t, err)
	require.True(t, check.Allowed)

	check, err = g.Toggle(policy, overlay, 1, date, domain.ShiftNight)
	require.NoError(t, err)
	require.True(t, check.Allowed)

	check, err = g.Toggle(policy, overlay, 1, date, domain.ShiftEvening)
	require.NoError(t, err)
	assert.False(t, check.Allowed)
	assert.Equal(t, DenySequenceEveningNight, check.Reason)
}

func TestGridAssignmentsRoundTrip(t *testing.T) {
	overlay := emptyOverlay()
	nurses := testNurses(3)
	g := NewGrid(2026, 3, nurses, overlay)
	policy := testPolicy()

	d10 := domain.MakeDateKey(2026, 3, 10)
	d11 := domain.MakeDateKey(2026, 3, 11)

	mustToggle := func(id domain.NurseID, date domain.DateKey, kind domain.ShiftKind) {
		check, err := g.Toggle(policy, overlay, id, date, kind)
		require.NoError(t, err)
		require.True(t, check.Allowed)
	}
	mustToggle(1, d10, domain.ShiftMorning)
	mustToggle(1, d11, domain.ShiftEvening)
	mustToggle(2, d10, domain.ShiftNight)

	rows := g.Assignments(1, 1)

	// 护士 3 没有任何班次，应当有一行占位记录
	placeholders := 0
	for _, row := range rows {
		if row.IsPlaceholder() {
			placeholders++
			assert.Equal(t, domain.NurseID(3), row.NurseID)
		}
	}
	assert.Equal(t, 1, placeholders)
	assert.Len(t, rows, 4)

	// 写回新网格后内容一致
	restored := NewGrid(2026, 3, nurses, overlay)
	restored.Populate(rows)

	assert.True(t, restored.Has(1, d10, domain.ShiftMorning))
	assert.True(t, restored.Has(1, d11, domain.ShiftEvening))
	assert.True(t, restored.Has(2, d10, domain.ShiftNight))
	assert.Empty(t, restored.ShiftsOf(3, d10))
}

func TestGridClearKeepsShape(t *testing.T) {
	date := domain.MakeDateKey(2026, 3, 10)
	overlay := domain.NewHolidayOverlay([]*domain.HolidayEntry{
		{NurseID: 2, Date: date, Year: 2026, Type: domain.LeaveVacation},
	})
	g := NewGrid(2026, 3, testNurses(2), overlay)
	policy := testPolicy()

	check, err := g.Toggle(policy, overlay, 1, date, domain.ShiftMorning)
	require.NoError(t, err)
	require.True(t, check.Allowed)

	g.Clear()

	assert.False(t, g.Has(1, date, domain.ShiftMorning))

	// 休假禁用标记不会被清掉
	cell, exists := g.Cell(2, date)
	require.True(t, exists)
	assert.True(t, cell.Disabled)
}
