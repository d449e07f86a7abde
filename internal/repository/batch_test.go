package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

func TestConflictsWith(t *testing.T) {
	tests := []struct {
		name         string
		currentLabel string
		target       domain.Shift
		want         bool
	}{
		{name: "没有绑定不冲突", currentLabel: "", target: domain.ShiftMorning, want: false},
		{name: "同班别不冲突", currentLabel: "早班", target: domain.ShiftMorning, want: false},
		{name: "不同班别冲突", currentLabel: "晚班", target: domain.ShiftMorning, want: true},
		{name: "大夜班对早班冲突", currentLabel: "大夜班", target: domain.ShiftMorning, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, conflictsWith(tt.currentLabel, tt.target))
		})
	}
}

func TestBatchSaveDraftSkipsConflictingNurse(t *testing.T) {
	tx := newMockBatchTx()
	tx.LockAndGetShiftFunc = func(ctx context.Context, employeeID string) (string, error) {
		if employeeID == "N002" {
			return "晚班", nil
		}
		return "", nil
	}

	assignments := map[string][]domain.DraftNurse{
		"一般手术室": {
			{EmployeeID: "N001", Name: "张三", DayOffWeek: []int32{0, 6}},
			{EmployeeID: "N002", Name: "李四"},
		},
	}

	result, err := batchSaveDraft(context.Background(), tx, domain.ShiftMorning, assignments)
	require.NoError(t, err)

	require.Equal(t, 1, result.SuccessCount)
	require.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "N002", result.Errors[0].EmployeeID)
	require.Equal(t, "李四", result.Errors[0].Name)
	require.Contains(t, result.Errors[0].Reason, "晚班")

	// 冲突的护士回滚到各自的 savepoint，成功的护士保留
	require.Equal(t, []string{"nurse_0", "nurse_1"}, tx.savepoints)
	require.Equal(t, []string{"nurse_0"}, tx.savepointKept)
	require.Equal(t, []string{"nurse_1"}, tx.savepointUndone)
	require.Equal(t, []string{"N001"}, tx.draftsUpserted)

	// 休假日从接口编码 0~6 转成存储编码 1~7
	require.Equal(t, []int32{1, 7}, tx.dayOffsReplaced["N001"])

	require.Equal(t, 1, tx.commits)
}

func TestApplyFixedResultsRecordsHistoryOncePerApply(t *testing.T) {
	tx := newMockBatchTx()
	tx.LockAndGetShiftFunc = func(ctx context.Context, employeeID string) (string, error) {
		return "早班", nil
	}

	results := map[string][]domain.FixedResult{
		"一般手术室": {{EmployeeID: "N001", RoomID: "OR-1"}},
	}

	// 对同一护士重复应用：绑定保持稳定，计数每次只加一
	for i := 0; i < 2; i++ {
		count, err := applyFixedResults(context.Background(), tx, domain.ShiftMorning, results)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	}

	require.Equal(t, "OR-1", tx.roomsSet["N001"])
	require.Equal(t, []domain.RoleKind{domain.RoleKindFixed, domain.RoleKindFixed}, tx.applied["N001"])

	// 成为固定护士时每次都清掉流动安排
	require.Equal(t, [][]string{{"N001"}, {"N001"}}, tx.floatCleared)
	require.Equal(t, 2, tx.commits)
}

func TestApplyFixedResultsRollsBackWhenDraftMissing(t *testing.T) {
	tx := newMockBatchTx()
	tx.LockAndGetShiftFunc = func(ctx context.Context, employeeID string) (string, error) {
		return "早班", nil
	}
	tx.SetRoomFunc = func(ctx context.Context, employeeID string, shift domain.Shift, roomType string, roomID string) error {
		if employeeID == "N002" {
			return domain.ErrDraftNotFound
		}
		return nil
	}

	results := map[string][]domain.FixedResult{
		"一般手术室": {
			{EmployeeID: "N001", RoomID: "OR-1"},
			{EmployeeID: "N002", RoomID: "OR-2"},
		},
	}

	_, err := applyFixedResults(context.Background(), tx, domain.ShiftMorning, results)
	require.ErrorIs(t, err, domain.ErrDraftNotFound)
	require.Contains(t, err.Error(), "N002")

	// 整体回滚：不提交，也不记历史
	require.Equal(t, 0, tx.commits)
	require.Empty(t, tx.applied)
	require.Empty(t, tx.floatCleared)
}

func TestApplyFixedResultsRejectsConflict(t *testing.T) {
	tx := newMockBatchTx()
	tx.LockAndGetShiftFunc = func(ctx context.Context, employeeID string) (string, error) {
		return "大夜班", nil
	}

	results := map[string][]domain.FixedResult{
		"一般手术室": {{EmployeeID: "N001", RoomID: "OR-1"}},
	}

	_, err := applyFixedResults(context.Background(), tx, domain.ShiftMorning, results)
	require.ErrorIs(t, err, domain.ErrShiftConflict)
	require.Equal(t, 0, tx.commits)
}

func TestApplyFloatScheduleClearsFixedRoom(t *testing.T) {
	tx := newMockBatchTx()
	tx.LockAndGetShiftFunc = func(ctx context.Context, employeeID string) (string, error) {
		return "早班", nil
	}

	room := "OR-3"
	weeks := []*domain.FloatWeek{{EmployeeID: "N001", Monday: &room}}

	count, err := applyFloatSchedule(context.Background(), tx, domain.ShiftMorning, weeks)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// 转为流动护士时固定手术室被置空，一周安排整体替换
	require.Equal(t, []string{"N001"}, tx.roomsCleared)
	require.Len(t, tx.weeksReplaced, 1)
	require.Equal(t, "N001", tx.weeksReplaced[0].EmployeeID)
	require.Equal(t, []domain.RoleKind{domain.RoleKindFloat}, tx.applied["N001"])
	require.Equal(t, 1, tx.commits)
}

func TestApplyFloatScheduleRequiresShiftBinding(t *testing.T) {
	tx := newMockBatchTx()

	weeks := []*domain.FloatWeek{{EmployeeID: "N001"}}

	_, err := applyFloatSchedule(context.Background(), tx, domain.ShiftMorning, weeks)
	require.ErrorIs(t, err, domain.ErrNurseNotFound)
	require.Equal(t, 0, tx.commits)
}

func TestApplyFloatScheduleRejectsConflict(t *testing.T) {
	tx := newMockBatchTx()
	tx.LockAndGetShiftFunc = func(ctx context.Context, employeeID string) (string, error) {
		return "晚班", nil
	}

	weeks := []*domain.FloatWeek{{EmployeeID: "N001"}}

	_, err := applyFloatSchedule(context.Background(), tx, domain.ShiftMorning, weeks)
	require.ErrorIs(t, err, domain.ErrShiftConflict)
	require.Equal(t, 0, tx.commits)
	require.Empty(t, tx.roomsCleared)
}

func TestClearShiftWithoutNurses(t *testing.T) {
	tx := newMockBatchTx()

	result, err := clearShift(context.Background(), tx, domain.ShiftNight, "SUR")
	require.NoError(t, err)

	require.Empty(t, result.EmployeeIDs)
	require.Zero(t, result.FloatRowsDeleted)
	require.Zero(t, result.FixedRoomsCleared)
	require.Zero(t, result.HistoryResets)

	// 空班别也是一次正常提交，不触发任何清理
	require.Equal(t, 1, tx.commits)
	require.Empty(t, tx.floatCleared)
	require.Empty(t, tx.fixedCleared)
	require.Empty(t, tx.historyResets)
}

func TestClearShiftTearsDownShift(t *testing.T) {
	tx := newMockBatchTx()
	tx.LockShiftNursesFunc = func(ctx context.Context, shift domain.Shift, departmentCode string) ([]string, error) {
		return []string{"N001", "N002"}, nil
	}
	tx.floatClearedRows = 3
	tx.fixedClearedRows = 2
	tx.historyResetRows = 2

	result, err := clearShift(context.Background(), tx, domain.ShiftEvening, "SUR")
	require.NoError(t, err)

	require.Equal(t, []string{"N001", "N002"}, result.EmployeeIDs)
	require.Equal(t, int64(3), result.FloatRowsDeleted)
	require.Equal(t, int64(2), result.FixedRoomsCleared)
	require.Equal(t, int64(2), result.HistoryResets)

	require.Equal(t, [][]string{{"N001", "N002"}}, tx.floatCleared)
	require.Equal(t, [][]string{{"N001", "N002"}}, tx.fixedCleared)
	require.Equal(t, [][]string{{"N001", "N002"}}, tx.historyResets)
	require.Equal(t, 1, tx.commits)
}
