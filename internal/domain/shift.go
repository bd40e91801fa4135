package domain

import (
	"fmt"
	"time"
)

type ShiftKind string

const (
	ShiftMorning ShiftKind = "morning"
	ShiftEvening ShiftKind = "evening"
	ShiftNight   ShiftKind = "night"
)

// AllShiftKinds 按早班、中班、夜班的顺序排列
var AllShiftKinds = []ShiftKind{ShiftMorning, ShiftEvening, ShiftNight}

func (k ShiftKind) IsValid() bool {
	switch k {
	case ShiftMorning, ShiftEvening, ShiftNight:
		return true
	default:
		return false
	}
}

const dateKeyLayout = "2006-01-02"

// DateKey 是 YYYY-MM-DD 格式的日期
type DateKey string

func NewDateKey(t time.Time) DateKey {
	return DateKey(t.Format(dateKeyLayout))
}

func MakeDateKey(year int32, month int32, day int32) DateKey {
	return DateKey(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

func (d DateKey) Time() (time.Time, error) {
	return time.Parse(dateKeyLayout, string(d))
}

func (d DateKey) IsValid() bool {
	_, err := d.Time()
	return err == nil
}

// PrevDay 返回前一天的日期，跨月跨年由 time 包处理
func (d DateKey) PrevDay() (DateKey, error) {
	t, err := d.Time()
	if err != nil {
		return "", err
	}
	return NewDateKey(t.AddDate(0, 0, -1)), nil
}

func DaysInMonth(year int32, month int32) int32 {
	// 下个月的第 0 天即本月的最后一天
	return int32(time.Date(int(year), time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day())
}
