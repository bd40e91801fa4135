package session

import (
	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

type CellView struct {
	Shifts   []domain.ShiftKind `json:"shifts"`
	Disabled bool               `json:"disabled,omitempty"`
	Reason   domain.LeaveType   `json:"reason,omitempty"`
}

// View 是会话状态的只读快照，供接口层直接序列化返回
type View struct {
	State         State            `json:"state"`
	Scope         domain.PlanScope `json:"scope"`
	EditingPlanID int64            `json:"editingPlanID,omitempty"`
	PlanName      string           `json:"planName,omitempty"`
	Dirty         bool             `json:"dirty"`
	Days          int32            `json:"days,omitempty"`
	Nurses        []*domain.Nurse  `json:"nurses,omitempty"`

	// Cells 外层 key 是日期，内层 key 是护士 ID
	Cells map[domain.DateKey]map[domain.NurseID]*CellView `json:"cells,omitempty"`
}

func (s *Session) View() *View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &View{
		State:         s.state,
		Scope:         s.scope,
		EditingPlanID: s.editingPlanID,
		PlanName:      s.planName,
		Dirty:         s.dirty,
		Nurses:        s.nurses,
	}

	if s.grid == nil {
		return view
	}

	view.Days = s.grid.Days
	view.Cells = make(map[domain.DateKey]map[domain.NurseID]*CellView)

	for day := int32(1); day <= s.grid.Days; day++ {
		date := domain.MakeDateKey(s.scope.Year, s.scope.Month, day)
		view.Cells[date] = make(map[domain.NurseID]*CellView)

		for _, nurse := range s.grid.Nurses() {
			cell, exists := s.grid.Cell(nurse.ID, date)
			if !exists {
				continue
			}

			cv := &CellView{
				Shifts:   s.grid.ShiftsOf(nurse.ID, date),
				Disabled: cell.Disabled,
				Reason:   cell.Reason,
			}
			view.Cells[date][nurse.ID] = cv
		}
	}

	return view
}
