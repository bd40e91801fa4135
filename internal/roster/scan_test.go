package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

// 通过 Populate 构造带违规的网格，模拟旧计划在更严的配置下载入
func overloadedGrid(t *testing.T, nurses []*domain.Nurse) *Grid {
	t.Helper()

	g := NewGrid(2026, 3, nurses, emptyOverlay())

	d10 := domain.MakeDateKey(2026, 3, 10)
	d11 := domain.MakeDateKey(2026, 3, 11)
	night := domain.ShiftNight
	morning := domain.ShiftMorning

	rows := []*domain.Assignment{}
	for _, nurse := range nurses {
		d := d10
		k := night
		rows = append(rows, &domain.Assignment{NurseID: nurse.ID, Date: &d, Kind: &k, HospitalID: 1, WardID: 1})
	}
	// 护士 1 夜班后第二天接早班
	d := d11
	k := morning
	rows = append(rows, &domain.Assignment{NurseID: nurses[0].ID, Date: &d, Kind: &k, HospitalID: 1, WardID: 1})

	g.Populate(rows)
	return g
}

func TestScanViolationsReportsExisting(t *testing.T) {
	nurses := testNurses(3)
	g := overloadedGrid(t, nurses)
	policy := testPolicy()

	seen := NewWarningSet()
	violations := ScanViolations(g, policy, seen)

	kinds := map[ViolationKind]int{}
	for _, v := range violations {
		kinds[v.Kind]++
	}
	assert.Equal(t, 1, kinds[ViolationOverCapacity])
	assert.Equal(t, 1, kinds[ViolationNightMorning])

	for _, v := range violations {
		if v.Kind == ViolationOverCapacity {
			assert.Equal(t, domain.MakeDateKey(2026, 3, 10), v.Date)
			assert.Equal(t, domain.ShiftNight, v.Shift)
			assert.Equal(t, int32(3), v.Count)
			assert.Equal(t, int32(2), v.Limit)
		}
	}
}

func TestScanViolationsDedupAcrossRuns(t *testing.T) {
	nurses := testNurses(3)
	g := overloadedGrid(t, nurses)
	policy := testPolicy()

	seen := NewWarningSet()
	first := ScanViolations(g, policy, seen)
	require.NotEmpty(t, first)

	// 数据不变时第二次扫描不再报告
	second := ScanViolations(g, policy, seen)
	assert.Empty(t, second)

	// 重置后重新报告全部
	seen.Reset()
	third := ScanViolations(g, policy, seen)
	assert.Len(t, third, len(first))
}

func TestScanViolationsRespectsPolicyFlags(t *testing.T) {
	nurses := testNurses(3)
	g := overloadedGrid(t, nurses)

	policy := testPolicy()
	policy.ForbidNightThenMorning = false

	violations := ScanViolations(g, policy, NewWarningSet())
	for _, v := range violations {
		assert.NotEqual(t, ViolationNightMorning, v.Kind)
	}
}
