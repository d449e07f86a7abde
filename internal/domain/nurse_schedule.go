package domain

import "time"

// FixedAssignment 是护士在某个班别下一整周固定手术室的排班记录。
// RoomID 为空表示护士已进入该班别的轮值，但还没有被分到具体的手术室。
type FixedAssignment struct {
	EmployeeID string  `json:"employeeID"`
	Shift      Shift   `json:"shift"`
	ShiftLabel string  `json:"shiftLabel"`
	RoomType   string  `json:"surgeryRoomType"`
	RoomID     *string `json:"surgeryRoom"`
	DayOffWeek []int32 `json:"dayOffWeek"` // 接口编码 0~6，周一为 0
}

// FloatWeek 是流动护士一周七天各自的手术室安排，
// 某天为空表示该护士当天没有安排。
type FloatWeek struct {
	EmployeeID string  `json:"employeeID"`
	Monday     *string `json:"monday"`
	Tuesday    *string `json:"tuesday"`
	Wednesday  *string `json:"wednesday"`
	Thursday   *string `json:"thursday"`
	Friday     *string `json:"friday"`
	Saturday   *string `json:"saturday"`
	Sunday     *string `json:"sunday"`
}

// Slots 按周一到周日的顺序返回七天的安排
func (w *FloatWeek) Slots() [7]*string {
	return [7]*string{w.Monday, w.Tuesday, w.Wednesday, w.Thursday, w.Friday, w.Saturday, w.Sunday}
}

// SetSlot 设置某一天的安排，day 为接口编码 0~6
func (w *FloatWeek) SetSlot(day int32, roomID *string) {
	switch day {
	case 0:
		w.Monday = roomID
	case 1:
		w.Tuesday = roomID
	case 2:
		w.Wednesday = roomID
	case 3:
		w.Thursday = roomID
	case 4:
		w.Friday = roomID
	case 5:
		w.Saturday = roomID
	case 6:
		w.Sunday = roomID
	}
}

// IsEmpty 判断一周里是否完全没有安排
func (w *FloatWeek) IsEmpty() bool {
	for _, slot := range w.Slots() {
		if slot != nil {
			return false
		}
	}
	return true
}

type RoleKind string

const (
	RoleKindFixed RoleKind = "fixed"
	RoleKindFloat RoleKind = "float"
)

// RoleHistory 记录护士被应用为固定/流动护士的累计次数，
// 计数只在 apply 类操作成功时各加一，只有清空班别才会归零。
type RoleHistory struct {
	EmployeeID      string    `json:"employeeID"`
	TotalFixedCount int32     `json:"totalFixedCount"`
	TotalFloatCount int32     `json:"totalFloatCount"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ShiftNurse 是班别排班视图中的一条护士记录
type ShiftNurse struct {
	EmployeeID      string  `json:"employeeID"`
	Name            string  `json:"name"`
	RoomID          *string `json:"surgeryRoom"`
	DayOffWeek      []int32 `json:"dayOffWeek"`
	TotalFixedCount int32   `json:"totalFixedCount"`
	TotalFloatCount int32   `json:"totalFloatCount"`
	Workload        int32   `json:"workload"` // 一周实际工作天数
}

// NurseScheduleView 是单个护士的完整排班视图（固定 + 流动 + 历史计数）
type NurseScheduleView struct {
	EmployeeID string           `json:"employeeID"`
	Name       string           `json:"name"`
	Fixed      *FixedAssignment `json:"fixed"`
	Float      *FloatWeek       `json:"float"`
	History    *RoleHistory     `json:"history"`
}

// DepartmentNurse 是科室排班总览中的一条记录
type DepartmentNurse struct {
	EmployeeID string  `json:"employeeID"`
	Name       string  `json:"name"`
	Shift      *Shift  `json:"shift"`
	ShiftLabel *string `json:"shiftLabel"`
	RoomType   *string `json:"surgeryRoomType"`
	RoomID     *string `json:"surgeryRoom"`
	DayOffWeek []int32 `json:"dayOffWeek"`
}

// DraftNurse 是草稿保存时单个护士的输入
type DraftNurse struct {
	EmployeeID string
	Name       string
	DayOffWeek []int32 // 接口编码 0~6
}

// FixedResult 是求解器产出的单条固定排班结果
type FixedResult struct {
	EmployeeID string
	RoomID     string
	Position   int32
	Cost       float64
}

// BatchNurseError 是草稿保存时单个护士的失败记录
type BatchNurseError struct {
	EmployeeID string `json:"employeeID"`
	Name       string `json:"name,omitempty"`
	Reason     string `json:"reason"`
}

// BatchSaveResult 是草稿保存的成功/失败统计，
// 部分护士失败不影响整体调用成功。
type BatchSaveResult struct {
	SuccessCount int               `json:"successCount"`
	ErrorCount   int               `json:"errorCount"`
	Errors       []BatchNurseError `json:"errors"`
}

// ClearShiftResult 是清空班别操作实际影响的行数
type ClearShiftResult struct {
	FloatRowsDeleted  int64    `json:"floatRowsDeleted"`
	FixedRoomsCleared int64    `json:"fixedRoomsCleared"`
	HistoryResets     int64    `json:"historyResets"`
	EmployeeIDs       []string `json:"-"`
}
