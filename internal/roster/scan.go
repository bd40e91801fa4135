package roster

import (
	"fmt"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

type ViolationKind string

const (
	ViolationOverCapacity ViolationKind = "over-capacity"
	ViolationNightMorning ViolationKind = "night-morning"
	ViolationEveningNight ViolationKind = "evening-night"
)

// Violation 是对已有网格的告警，只提示不阻止
type Violation struct {
	Kind    ViolationKind    `json:"kind"`
	Date    domain.DateKey   `json:"date"`
	Shift   domain.ShiftKind `json:"shift,omitempty"`
	NurseID domain.NurseID   `json:"nurseID,omitempty"`
	Count   int32            `json:"count,omitempty"`
	Limit   int32            `json:"limit,omitempty"`
}

// Tag 是告警的去重键，同一条告警在数据不变时只报一次
func (v *Violation) Tag() string {
	return fmt.Sprintf("%s|%s|%s|%d", v.Kind, v.Date, v.Shift, v.NurseID)
}

// WarningSet 记录已经报告过的告警。由编辑会话持有，
// 切换范围时重置，不要做成包级全局变量
type WarningSet struct {
	seen map[string]bool
}

func NewWarningSet() *WarningSet {
	return &WarningSet{
		seen: make(map[string]bool),
	}
}

func (s *WarningSet) Reset() {
	s.seen = make(map[string]bool)
}

// markSeen 返回该标签是否是第一次出现
func (s *WarningSet) markSeen(tag string) bool {
	if s.seen[tag] {
		return false
	}
	s.seen[tag] = true
	return true
}

// ScanViolations 检查已填充的网格中现存的违规，比如从存储载入的
// 旧计划可能是在不同的配置下保存的。只返回 seen 中没出现过的告警，
// 不会阻止或修改网格
func ScanViolations(g *Grid, policy *domain.WardPolicy, seen *WarningSet) []*Violation {
	violations := make([]*Violation, 0)

	report := func(v *Violation) {
		if seen.markSeen(v.Tag()) {
			violations = append(violations, v)
		}
	}

	for day := int32(1); day <= g.Days; day++ {
		date := domain.MakeDateKey(g.Year, g.Month, day)

		// 每天每种班次的人数上限
		for _, kind := range domain.AllShiftKinds {
			count := g.CountHolding(date, kind)
			if limit := policy.CapacityFor(kind); count > limit {
				report(&Violation{
					Kind:  ViolationOverCapacity,
					Date:  date,
					Shift: kind,
					Count: count,
					Limit: limit,
				})
			}
		}

		// 每个护士的违规班次组合
		for _, nurse := range g.nurses {
			if policy.ForbidNightThenMorning && g.Has(nurse.ID, date, domain.ShiftMorning) {
				if prev, err := date.PrevDay(); err == nil && g.Has(nurse.ID, prev, domain.ShiftNight) {
					report(&Violation{
						Kind:    ViolationNightMorning,
						Date:    date,
						NurseID: nurse.ID,
					})
				}
			}

			if policy.ForbidEveningThenNight &&
				g.Has(nurse.ID, date, domain.ShiftEvening) && g.Has(nurse.ID, date, domain.ShiftNight) {
				report(&Violation{
					Kind:    ViolationEveningNight,
					Date:    date,
					NurseID: nurse.ID,
				})
			}
		}
	}

	return violations
}
