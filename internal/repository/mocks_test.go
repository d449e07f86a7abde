package repository

import (
	"context"

	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

// mockBatchTx 记录事务里发生的每个操作，
// 具体行为可以通过 Func 字段覆盖，默认全部成功。
type mockBatchTx struct {
	LockAndGetShiftFunc func(ctx context.Context, employeeID string) (string, error)
	SetRoomFunc         func(ctx context.Context, employeeID string, shift domain.Shift, roomType string, roomID string) error
	LockShiftNursesFunc func(ctx context.Context, shift domain.Shift, departmentCode string) ([]string, error)

	savepoints      []string
	savepointUndone []string
	savepointKept   []string
	draftsUpserted  []string
	dayOffsReplaced map[string][]int32
	roomsSet        map[string]string
	roomsCleared    []string
	weeksReplaced   []*domain.FloatWeek
	floatCleared    [][]string
	fixedCleared    [][]string
	historyResets   [][]string
	applied         map[string][]domain.RoleKind
	commits         int
	rollbacks       int

	floatClearedRows int64
	fixedClearedRows int64
	historyResetRows int64
}

func newMockBatchTx() *mockBatchTx {
	return &mockBatchTx{
		dayOffsReplaced: make(map[string][]int32),
		roomsSet:        make(map[string]string),
		applied:         make(map[string][]domain.RoleKind),
	}
}

func (m *mockBatchTx) Savepoint(ctx context.Context, name string) error {
	m.savepoints = append(m.savepoints, name)
	return nil
}

func (m *mockBatchTx) RollbackToSavepoint(ctx context.Context, name string) error {
	m.savepointUndone = append(m.savepointUndone, name)
	return nil
}

func (m *mockBatchTx) ReleaseSavepoint(ctx context.Context, name string) error {
	m.savepointKept = append(m.savepointKept, name)
	return nil
}

func (m *mockBatchTx) LockAndGetShift(ctx context.Context, employeeID string) (string, error) {
	if m.LockAndGetShiftFunc != nil {
		return m.LockAndGetShiftFunc(ctx, employeeID)
	}
	return "", nil
}

func (m *mockBatchTx) UpsertDraft(ctx context.Context, employeeID string, shift domain.Shift, roomType string) error {
	m.draftsUpserted = append(m.draftsUpserted, employeeID)
	return nil
}

func (m *mockBatchTx) ReplaceDayOffs(ctx context.Context, employeeID string, days []int32) error {
	m.dayOffsReplaced[employeeID] = days
	return nil
}

func (m *mockBatchTx) SetRoom(ctx context.Context, employeeID string, shift domain.Shift, roomType string, roomID string) error {
	if m.SetRoomFunc != nil {
		if err := m.SetRoomFunc(ctx, employeeID, shift, roomType, roomID); err != nil {
			return err
		}
	}
	m.roomsSet[employeeID] = roomID
	return nil
}

func (m *mockBatchTx) ClearRoom(ctx context.Context, employeeID string, shift domain.Shift) error {
	m.roomsCleared = append(m.roomsCleared, employeeID)
	return nil
}

func (m *mockBatchTx) ReplaceWeek(ctx context.Context, week *domain.FloatWeek) error {
	m.weeksReplaced = append(m.weeksReplaced, week)
	return nil
}

func (m *mockBatchTx) ClearFloatForNurses(ctx context.Context, employeeIDs []string) (int64, error) {
	m.floatCleared = append(m.floatCleared, employeeIDs)
	return m.floatClearedRows, nil
}

func (m *mockBatchTx) RecordApplied(ctx context.Context, employeeID string, kind domain.RoleKind) error {
	m.applied[employeeID] = append(m.applied[employeeID], kind)
	return nil
}

func (m *mockBatchTx) LockShiftNurses(ctx context.Context, shift domain.Shift, departmentCode string) ([]string, error) {
	if m.LockShiftNursesFunc != nil {
		return m.LockShiftNursesFunc(ctx, shift, departmentCode)
	}
	return []string{}, nil
}

func (m *mockBatchTx) ClearFixedRooms(ctx context.Context, employeeIDs []string, shift domain.Shift) (int64, error) {
	m.fixedCleared = append(m.fixedCleared, employeeIDs)
	return m.fixedClearedRows, nil
}

func (m *mockBatchTx) ResetHistory(ctx context.Context, employeeIDs []string) (int64, error) {
	m.historyResets = append(m.historyResets, employeeIDs)
	return m.historyResetRows, nil
}

func (m *mockBatchTx) Commit() error {
	m.commits++
	return nil
}

func (m *mockBatchTx) Rollback() error {
	m.rollbacks++
	return nil
}
