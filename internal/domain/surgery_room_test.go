package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSurgeryRoomOpenFor(t *testing.T) {
	room := &SurgeryRoom{
		ID:             "OR-1",
		MorningShift:   true,
		NightShift:     false,
		GraveyardShift: true,
	}

	require.True(t, room.OpenFor(ShiftMorning))
	require.False(t, room.OpenFor(ShiftEvening))
	require.True(t, room.OpenFor(ShiftNight))
	require.False(t, room.OpenFor(Shift("afternoon")))
}

func TestBuildVacancyReport(t *testing.T) {
	rooms := []*SurgeryRoom{
		{ID: "OR-1", RoomType: "一般手术室", NurseCount: 3},
		{ID: "OR-2", RoomType: "一般手术室", NurseCount: 2},
		{ID: "OR-3", RoomType: "急诊手术室", NurseCount: 2},
	}
	assigned := map[string]int32{
		"OR-1": 2,
		"OR-2": 4,
	}

	report := BuildVacancyReport(rooms, assigned)
	require.Len(t, report, 3)

	// 缺一人
	require.Equal(t, int32(1), report[0].Vacancy)
	require.False(t, report[0].Overcommitted)

	// 超配必须以负数暴露，不能截断成 0
	require.Equal(t, int32(-2), report[1].Vacancy)
	require.True(t, report[1].Overcommitted)

	// 没有任何排入记录的手术室缺额等于需求人数
	require.Equal(t, int32(2), report[2].Vacancy)
	require.Equal(t, int32(0), report[2].Assigned)
	require.False(t, report[2].Overcommitted)
}

func TestBuildVacancyReportExactlyFull(t *testing.T) {
	rooms := []*SurgeryRoom{{ID: "OR-1", RoomType: "一般手术室", NurseCount: 3}}
	report := BuildVacancyReport(rooms, map[string]int32{"OR-1": 3})

	require.Equal(t, int32(0), report[0].Vacancy)
	require.False(t, report[0].Overcommitted)
}
