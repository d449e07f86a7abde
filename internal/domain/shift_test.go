package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseShift(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Shift
		wantErr bool
	}{
		{name: "早班代号", input: "morning", want: ShiftMorning},
		{name: "晚班代号", input: "evening", want: ShiftEvening},
		{name: "大夜班代号", input: "night", want: ShiftNight},
		{name: "中文标签不是合法代号", input: "早班", wantErr: true},
		{name: "未知代号", input: "afternoon", wantErr: true},
		{name: "空字符串", input: "", wantErr: true},
		{name: "大小写敏感", input: "Morning", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShift(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestShiftLabelRoundTrip(t *testing.T) {
	for _, shift := range AllShifts() {
		label := shift.Label()
		require.NotEmpty(t, label)

		got, ok := ShiftFromLabel(label)
		require.True(t, ok)
		require.Equal(t, shift, got)
	}

	_, ok := ShiftFromLabel("午班")
	require.False(t, ok)
}

func TestShiftRoomFlagColumn(t *testing.T) {
	require.Equal(t, "morning_shift", ShiftMorning.RoomFlagColumn())
	require.Equal(t, "night_shift", ShiftEvening.RoomFlagColumn())
	require.Equal(t, "graveyard_shift", ShiftNight.RoomFlagColumn())
}

func TestWeekdayEncodingRoundTrip(t *testing.T) {
	for day := int32(0); day <= 6; day++ {
		stored := WeekdayToStorage(day)
		require.GreaterOrEqual(t, stored, int32(1))
		require.LessOrEqual(t, stored, int32(7))
		require.Equal(t, day, WeekdayFromStorage(stored))
	}

	// 接口上的 {0, 2, 6} 在库里是 {1, 3, 7}
	wire := []int32{0, 2, 6}
	stored := make([]int32, 0, len(wire))
	for _, day := range wire {
		stored = append(stored, WeekdayToStorage(day))
	}
	require.Equal(t, []int32{1, 3, 7}, stored)
}

func TestValidWireWeekday(t *testing.T) {
	require.True(t, ValidWireWeekday(0))
	require.True(t, ValidWireWeekday(6))
	require.False(t, ValidWireWeekday(-1))
	require.False(t, ValidWireWeekday(7))
}
