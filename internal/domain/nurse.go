package domain

import (
	"sort"
	"time"
)

// NurseID 在整个系统中作为护士的唯一标识，不要用姓名等展示字段当 key
type NurseID int64

type Nurse struct {
	ID             NurseID   `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DisplayName    string    `json:"displayName"`
	DisplayOrder   *int32    `json:"displayOrder"` // 为空的护士排在最后
	HospitalID     int64     `json:"hospitalID"`
	WardID         int64     `json:"wardID"`
	ActiveForShift bool      `json:"activeForShift"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}

// SortNursesForRoster 按 DisplayOrder 升序排序，没有顺序的排在最后，
// 相同顺序时保持传入的先后次序
func SortNursesForRoster(nurses []*Nurse) {
	sort.SliceStable(nurses, func(i, j int) bool {
		oi, oj := nurses[i].DisplayOrder, nurses[j].DisplayOrder
		switch {
		case oi == nil && oj == nil:
			return false
		case oi == nil:
			return false
		case oj == nil:
			return true
		default:
			return *oi < *oj
		}
	})
}
