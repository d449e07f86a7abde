package domain

import "fmt"

// Shift 表示护士所属的班别。数据库中存储的是中文班别标签，
// 接口上使用英文代号，两边必须能无损地互相转换。
type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
	ShiftNight   Shift = "night"
)

var shiftLabels = map[Shift]string{
	ShiftMorning: "早班",
	ShiftEvening: "晚班",
	ShiftNight:   "大夜班",
}

var shiftsByLabel = map[string]Shift{
	"早班":  ShiftMorning,
	"晚班":  ShiftEvening,
	"大夜班": ShiftNight,
}

// 手术室表中每个班别对应一个可用性标志列
var shiftRoomColumns = map[Shift]string{
	ShiftMorning: "morning_shift",
	ShiftEvening: "night_shift",
	ShiftNight:   "graveyard_shift",
}

// ParseShift 在边界处校验班别代号，未知值一律拒绝
func ParseShift(s string) (Shift, error) {
	shift := Shift(s)
	if _, exists := shiftLabels[shift]; !exists {
		return "", fmt.Errorf("无效的班别: %q", s)
	}
	return shift, nil
}

// ShiftFromLabel 将数据库中的班别标签转换为班别代号
func ShiftFromLabel(label string) (Shift, bool) {
	shift, exists := shiftsByLabel[label]
	return shift, exists
}

func (s Shift) Label() string {
	return shiftLabels[s]
}

// RoomFlagColumn 返回手术室表中该班别的可用性标志列名。
// 只能用于已通过 ParseShift 校验的班别。
func (s Shift) RoomFlagColumn() string {
	return shiftRoomColumns[s]
}

func AllShifts() []Shift {
	return []Shift{ShiftMorning, ShiftEvening, ShiftNight}
}

// 周几在数据库中用 1~7（周一为 1，周日为 7）表示，
// 接口上用 0~6（周一为 0），两种编码通过 +1/-1 互相转换。

func WeekdayToStorage(day int32) int32 {
	return day + 1
}

func WeekdayFromStorage(day int32) int32 {
	return day - 1
}

// ValidWireWeekday 校验接口编码下的周几索引
func ValidWireWeekday(day int32) bool {
	return day >= 0 && day <= 6
}
