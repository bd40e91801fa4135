package domain

import "time"

// PlanScope 是 (医院, 病区, 年, 月) 四元组，界定一组排班计划和一份名册
type PlanScope struct {
	HospitalID int64 `json:"hospitalID"`
	WardID     int64 `json:"wardID"`
	Year       int32 `json:"year"`
	Month      int32 `json:"month"`
}

type ShiftPlan struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Scope     PlanScope `json:"scope"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// Assignment 是排班计划的一行记录。Date 和 Kind 都为空时是占位行，
// 仅用于保留护士在计划名册中的位置，填充网格前必须过滤掉
type Assignment struct {
	NurseID      NurseID    `json:"nurseID"`
	Date         *DateKey   `json:"date"`
	Kind         *ShiftKind `json:"kind"`
	DisplayOrder *int32     `json:"displayOrder"` // 保存时名册顺序的快照
	HospitalID   int64      `json:"hospitalID"`
	WardID       int64      `json:"wardID"`
}

func (a *Assignment) IsPlaceholder() bool {
	return a.Date == nil || a.Kind == nil
}
