package domain

type SurgeryRoomType struct {
	Type      string `json:"type"`
	TypeCode  int32  `json:"typeCode"`
	TypeInfo  string `json:"typeInfo"`
	RoomCount int32  `json:"roomCount"` // 该类型下的手术室数量
}

type SurgeryRoom struct {
	ID             string `json:"id"`
	RoomType       string `json:"roomType"`
	NurseCount     int32  `json:"nurseCount"` // 该手术室需要的护士人数
	IsAvailable    bool   `json:"isAvailable"`
	MorningShift   bool   `json:"morningShift"`
	NightShift     bool   `json:"nightShift"`
	GraveyardShift bool   `json:"graveyardShift"`
	TypeInfo       string `json:"typeInfo"`
}

// OpenFor 判断手术室在某个班别是否开放
func (r *SurgeryRoom) OpenFor(shift Shift) bool {
	switch shift {
	case ShiftMorning:
		return r.MorningShift
	case ShiftEvening:
		return r.NightShift
	case ShiftNight:
		return r.GraveyardShift
	default:
		return false
	}
}

// RoomVacancy 是某个班别下单个手术室的缺额情况。
// Vacancy 可以为负，表示排入的护士超过了需求人数，
// 这种超配必须原样暴露给调用方而不是截断成 0。
type RoomVacancy struct {
	RoomID        string `json:"roomID"`
	RoomType      string `json:"roomType"`
	Required      int32  `json:"required"`
	Assigned      int32  `json:"assigned"`
	Vacancy       int32  `json:"vacancy"`
	Overcommitted bool   `json:"overcommitted"`
}

// BuildVacancyReport 根据手术室需求人数和已排入人数计算缺额报表
func BuildVacancyReport(rooms []*SurgeryRoom, assigned map[string]int32) []*RoomVacancy {
	report := make([]*RoomVacancy, 0, len(rooms))
	for _, room := range rooms {
		count := assigned[room.ID]
		report = append(report, &RoomVacancy{
			RoomID:        room.ID,
			RoomType:      room.RoomType,
			Required:      room.NurseCount,
			Assigned:      count,
			Vacancy:       room.NurseCount - count,
			Overcommitted: count > room.NurseCount,
		})
	}
	return report
}
