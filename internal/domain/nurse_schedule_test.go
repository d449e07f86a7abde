package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestFloatWeekSetSlot(t *testing.T) {
	week := &FloatWeek{EmployeeID: "N101"}

	week.SetSlot(0, strPtr("OR-1"))
	week.SetSlot(3, strPtr("OR-2"))
	week.SetSlot(6, strPtr("OR-3"))

	slots := week.Slots()
	require.Equal(t, "OR-1", *slots[0])
	require.Nil(t, slots[1])
	require.Nil(t, slots[2])
	require.Equal(t, "OR-2", *slots[3])
	require.Equal(t, "OR-3", *slots[6])

	// 越界的天数直接忽略
	week.SetSlot(7, strPtr("OR-4"))
	week.SetSlot(-1, strPtr("OR-4"))
	for i, slot := range week.Slots() {
		if i == 0 || i == 3 || i == 6 {
			continue
		}
		require.Nil(t, slot)
	}
}

func TestFloatWeekIsEmpty(t *testing.T) {
	week := &FloatWeek{EmployeeID: "N101"}
	require.True(t, week.IsEmpty())

	week.Sunday = strPtr("OR-1")
	require.False(t, week.IsEmpty())
}
