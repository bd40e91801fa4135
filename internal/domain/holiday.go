package domain

import "time"

// LeaveType 仅用于展示，不影响阻止逻辑，允许出现这三种之外的值
type LeaveType string

const (
	LeaveSick     LeaveType = "sick"
	LeavePersonal LeaveType = "personal"
	LeaveVacation LeaveType = "vacation"
)

type HolidayEntry struct {
	ID        int64     `json:"id"`
	NurseID   NurseID   `json:"nurseID"`
	Date      DateKey   `json:"date"`
	Year      int32     `json:"year"`
	Type      LeaveType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// HolidayOverlay 是某年内每个护士被阻止排班的日期集合
type HolidayOverlay struct {
	blocked map[NurseID]map[DateKey]LeaveType
}

func NewHolidayOverlay(entries []*HolidayEntry) *HolidayOverlay {
	o := &HolidayOverlay{
		blocked: make(map[NurseID]map[DateKey]LeaveType),
	}
	for _, entry := range entries {
		if _, exists := o.blocked[entry.NurseID]; !exists {
			o.blocked[entry.NurseID] = make(map[DateKey]LeaveType)
		}
		o.blocked[entry.NurseID][entry.Date] = entry.Type
	}
	return o
}

func (o *HolidayOverlay) IsBlocked(nurseID NurseID, date DateKey) bool {
	if o == nil {
		return false
	}
	_, exists := o.blocked[nurseID][date]
	return exists
}

func (o *HolidayOverlay) LeaveTypeOf(nurseID NurseID, date DateKey) (LeaveType, bool) {
	if o == nil {
		return "", false
	}
	lt, exists := o.blocked[nurseID][date]
	return lt, exists
}
