package roster

import (
	"fmt"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
)

// Cell 是网格中 (日期, 护士) 对应的班次集合。
// Disabled 表示该护士当天休假，Reason 存休假类型供前端展示
type Cell struct {
	Shifts   map[domain.ShiftKind]bool
	Disabled bool
	Reason   domain.LeaveType
}

func (c *Cell) shiftKinds() []domain.ShiftKind {
	kinds := make([]domain.ShiftKind, 0, len(c.Shifts))
	// 按固定顺序返回，保证结果稳定
	for _, kind := range domain.AllShiftKinds {
		if c.Shifts[kind] {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Grid 是正在编辑的排班计划的内存状态，每个 (护士, 日期) 的格子
// 在构造时就已经建好，后续不需要再处理格子缺失的情况
type Grid struct {
	Year  int32
	Month int32
	Days  int32

	nurses []*domain.Nurse
	cells  map[domain.DateKey]map[domain.NurseID]*Cell
}

// NewGrid 为指定月份构造一个空网格，护士按名册顺序排序，
// 休假的格子会被标记为禁用
func NewGrid(year int32, month int32, nurses []*domain.Nurse, overlay *domain.HolidayOverlay) *Grid {
	g := &Grid{
		Year:   year,
		Month:  month,
		Days:   domain.DaysInMonth(year, month),
		nurses: make([]*domain.Nurse, len(nurses)),
		cells:  make(map[domain.DateKey]map[domain.NurseID]*Cell),
	}

	copy(g.nurses, nurses)
	domain.SortNursesForRoster(g.nurses)

	for day := int32(1); day <= g.Days; day++ {
		date := domain.MakeDateKey(year, month, day)
		g.cells[date] = make(map[domain.NurseID]*Cell)

		for _, nurse := range g.nurses {
			cell := &Cell{
				Shifts: make(map[domain.ShiftKind]bool),
			}
			if lt, blocked := overlay.LeaveTypeOf(nurse.ID, date); blocked {
				cell.Disabled = true
				cell.Reason = lt
			}
			g.cells[date][nurse.ID] = cell
		}
	}

	return g
}

func (g *Grid) Nurses() []*domain.Nurse {
	return g.nurses
}

func (g *Grid) Cell(nurseID domain.NurseID, date domain.DateKey) (*Cell, bool) {
	cell, exists := g.cells[date][nurseID]
	return cell, exists
}

func (g *Grid) Has(nurseID domain.NurseID, date domain.DateKey, kind domain.ShiftKind) bool {
	cell, exists := g.cells[date][nurseID]
	if !exists {
		return false
	}
	return cell.Shifts[kind]
}

// ShiftsOf 返回护士当天持有的班次，按早中夜的固定顺序
func (g *Grid) ShiftsOf(nurseID domain.NurseID, date domain.DateKey) []domain.ShiftKind {
	cell, exists := g.cells[date][nurseID]
	if !exists {
		return nil
	}
	return cell.shiftKinds()
}

// CountHolding 统计当天持有某个班次的护士数量
func (g *Grid) CountHolding(date domain.DateKey, kind domain.ShiftKind) int32 {
	var count int32
	for _, cell := range g.cells[date] {
		if cell.Shifts[kind] {
			count++
		}
	}
	return count
}

// Toggle 是网格唯一的修改入口。取消班次总是允许，添加班次必须先
// 通过约束检查，被拒绝时网格保持不变
func (g *Grid) Toggle(policy *domain.WardPolicy, overlay *domain.HolidayOverlay, nurseID domain.NurseID, date domain.DateKey, kind domain.ShiftKind) (ToggleCheck, error) {
	if !kind.IsValid() {
		return ToggleCheck{}, fmt.Errorf("非法的班次类型: %s", kind)
	}

	cell, exists := g.cells[date][nurseID]
	if !exists {
		return ToggleCheck{}, fmt.Errorf("网格中不存在格子 (%d, %s)", nurseID, date)
	}

	if cell.Shifts[kind] {
		delete(cell.Shifts, kind)
		return ToggleCheck{Allowed: true}, nil
	}

	check := CanToggle(g, policy, overlay, nurseID, date, kind, true)
	if !check.Allowed {
		return check, nil
	}

	cell.Shifts[kind] = true
	return check, nil
}

// Clear 把所有格子的班次清空，保留休假禁用标记，即回到刚初始化的形状
func (g *Grid) Clear() {
	for _, row := range g.cells {
		for _, cell := range row {
			cell.Shifts = make(map[domain.ShiftKind]bool)
		}
	}
}

// Assignments 把网格展开成保存用的记录，有班次的护士每个
// (日期, 班次) 一行，没有任何班次的护士生成一行占位记录，
// 使得计划重新载入时名册不丢人
func (g *Grid) Assignments(hospitalID int64, wardID int64) []*domain.Assignment {
	rows := make([]*domain.Assignment, 0)

	for _, nurse := range g.nurses {
		hasShift := false

		for day := int32(1); day <= g.Days; day++ {
			date := domain.MakeDateKey(g.Year, g.Month, day)
			for _, kind := range g.ShiftsOf(nurse.ID, date) {
				d := date
				k := kind
				rows = append(rows, &domain.Assignment{
					NurseID:      nurse.ID,
					Date:         &d,
					Kind:         &k,
					DisplayOrder: nurse.DisplayOrder,
					HospitalID:   hospitalID,
					WardID:       wardID,
				})
				hasShift = true
			}
		}

		if !hasShift {
			rows = append(rows, &domain.Assignment{
				NurseID:      nurse.ID,
				DisplayOrder: nurse.DisplayOrder,
				HospitalID:   hospitalID,
				WardID:       wardID,
			})
		}
	}

	return rows
}

// Populate 把从存储载入的记录写回网格，占位行和落在本月之外的行
// 会被跳过。载入不经过约束检查，旧计划可能带着在当前配置下超标的
// 班次，这类问题由 ScanViolations 以警告的形式报告
func (g *Grid) Populate(rows []*domain.Assignment) {
	for _, row := range rows {
		if row.IsPlaceholder() {
			continue
		}

		cell, exists := g.cells[*row.Date][row.NurseID]
		if !exists {
			continue
		}

		if row.Kind.IsValid() {
			cell.Shifts[*row.Kind] = true
		}
	}
}
