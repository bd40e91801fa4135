package domain

import "time"

type Hospital struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Ward struct {
	ID         int64     `json:"id"`
	HospitalID int64     `json:"hospitalID"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}

// WardPolicy 是病区的排班约束配置，本系统只读，由病区管理端维护
type WardPolicy struct {
	WardID                 int64 `json:"wardID"`
	MaxMorning             int32 `json:"maxMorning"`
	MaxEvening             int32 `json:"maxEvening"`
	MaxNight               int32 `json:"maxNight"`
	ForbidNightThenMorning bool  `json:"forbidNightThenMorning"`
	ForbidEveningThenNight bool  `json:"forbidEveningThenNight"`
	Version                int32 `json:"-"`
}

func DefaultWardPolicy(wardID int64) *WardPolicy {
	return &WardPolicy{
		WardID:                 wardID,
		MaxMorning:             4,
		MaxEvening:             3,
		MaxNight:               3,
		ForbidNightThenMorning: true,
		ForbidEveningThenNight: true,
	}
}

func (p *WardPolicy) CapacityFor(kind ShiftKind) int32 {
	switch kind {
	case ShiftMorning:
		return p.MaxMorning
	case ShiftEvening:
		return p.MaxEvening
	case ShiftNight:
		return p.MaxNight
	default:
		return 0
	}
}
