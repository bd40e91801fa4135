package roster

import (
	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

// DenyReason 是约束检查的拒绝原因标签，展示文案由调用方负责
type DenyReason string

const (
	DenyHoliday              DenyReason = "holiday"
	DenySequenceNightMorning DenyReason = "sequence-night-morning"
	DenySequenceEveningNight DenyReason = "sequence-evening-night"
	DenyCapacity             DenyReason = "capacity"
)

type ToggleCheck struct {
	Allowed bool       `json:"allowed"`
	Reason  DenyReason `json:"reason,omitempty"`
}

func allow() ToggleCheck {
	return ToggleCheck{Allowed: true}
}

func deny(reason DenyReason) ToggleCheck {
	return ToggleCheck{Allowed: false, Reason: reason}
}

// CanToggle 判断能否切换某个格子的班次。纯函数，不修改网格。
// 规则按固定顺序检查，第一条不满足的即为拒绝原因：
// 休假 -> 夜班接早班 -> 同日中夜互斥 -> 人数上限
func CanToggle(g *Grid, policy *domain.WardPolicy, overlay *domain.HolidayOverlay, nurseID domain.NurseID, date domain.DateKey, kind domain.ShiftKind, turningOn bool) ToggleCheck {
	// 取消班次永远允许，作为兜底让用户总能撤掉已有的班次
	if !turningOn {
		return allow()
	}

	if overlay.IsBlocked(nurseID, date) {
		return deny(DenyHoliday)
	}

	if policy.ForbidNightThenMorning && kind == domain.ShiftMorning {
		if prev, err := date.PrevDay(); err == nil && g.Has(nurseID, prev, domain.ShiftNight) {
			return deny(DenySequenceNightMorning)
		}
	}

	if policy.ForbidEveningThenNight {
		switch kind {
		case domain.ShiftEvening:
			if g.Has(nurseID, date, domain.ShiftNight) {
				return deny(DenySequenceEveningNight)
			}
		case domain.ShiftNight:
			if g.Has(nurseID, date, domain.ShiftEvening) {
				return deny(DenySequenceEveningNight)
			}
		}
	}

	// 已持有时切换等于取消，不占用新名额
	if !g.Has(nurseID, date, kind) && g.CountHolding(date, kind) >= policy.CapacityFor(kind) {
		return deny(DenyCapacity)
	}

	return allow()
}
