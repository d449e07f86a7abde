package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

// 排班的批量变更。四个操作都在单个事务里完成：
// 草稿保存允许单个护士失败（savepoint 回滚到该护士之前），
// 其余三个操作任何一步失败就整体回滚。
// 所有操作都先用行锁串行化同一批护士上的并发变更。

// batchTx 是批量变更在一个事务里用到的全部操作，
// 由 pgBatchTx 落到 PostgreSQL 上执行。
type batchTx interface {
	Savepoint(ctx context.Context, name string) error
	RollbackToSavepoint(ctx context.Context, name string) error
	ReleaseSavepoint(ctx context.Context, name string) error

	LockAndGetShift(ctx context.Context, employeeID string) (string, error)
	UpsertDraft(ctx context.Context, employeeID string, shift domain.Shift, roomType string) error
	ReplaceDayOffs(ctx context.Context, employeeID string, days []int32) error
	SetRoom(ctx context.Context, employeeID string, shift domain.Shift, roomType string, roomID string) error
	ClearRoom(ctx context.Context, employeeID string, shift domain.Shift) error
	ReplaceWeek(ctx context.Context, week *domain.FloatWeek) error
	ClearFloatForNurses(ctx context.Context, employeeIDs []string) (int64, error)
	RecordApplied(ctx context.Context, employeeID string, kind domain.RoleKind) error
	LockShiftNurses(ctx context.Context, shift domain.Shift, departmentCode string) ([]string, error)
	ClearFixedRooms(ctx context.Context, employeeIDs []string, shift domain.Shift) (int64, error)
	ResetHistory(ctx context.Context, employeeIDs []string) (int64, error)

	Commit() error
	Rollback() error
}

func (r *Repository) beginBatchTx(ctx context.Context) (batchTx, error) {
	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &pgBatchTx{tx: tx}, nil
}

// conflictsWith 判断护士当前的班别绑定是否和目标班别冲突
func conflictsWith(currentLabel string, shift domain.Shift) bool {
	return currentLabel != "" && currentLabel != shift.Label()
}

// BatchSaveDraft 按手术室类型批量保存排班草稿。
// 班别冲突的护士被跳过并记录失败原因，不影响其他护士的保存。
func (r *Repository) BatchSaveDraft(shift domain.Shift, assignments map[string][]domain.DraftNurse) (*domain.BatchSaveResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.beginBatchTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	return batchSaveDraft(ctx, tx, shift, assignments)
}

func batchSaveDraft(ctx context.Context, tx batchTx, shift domain.Shift, assignments map[string][]domain.DraftNurse) (*domain.BatchSaveResult, error) {
	result := &domain.BatchSaveResult{
		Errors: make([]domain.BatchNurseError, 0),
	}

	i := 0
	for roomType, nurses := range assignments {
		for _, nurse := range nurses {
			savepoint := fmt.Sprintf("nurse_%d", i)
			i++
			if err := tx.Savepoint(ctx, savepoint); err != nil {
				return nil, err
			}

			if err := saveDraft(ctx, tx, shift, roomType, nurse); err != nil {
				if rbErr := tx.RollbackToSavepoint(ctx, savepoint); rbErr != nil {
					return nil, rbErr
				}

				result.ErrorCount++
				result.Errors = append(result.Errors, domain.BatchNurseError{
					EmployeeID: nurse.EmployeeID,
					Name:       nurse.Name,
					Reason:     err.Error(),
				})
				continue
			}

			if err := tx.ReleaseSavepoint(ctx, savepoint); err != nil {
				return nil, err
			}
			result.SuccessCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}

// saveDraft 保存单个护士的草稿，失败时调用方回滚到 savepoint
func saveDraft(ctx context.Context, tx batchTx, shift domain.Shift, roomType string, nurse domain.DraftNurse) error {
	currentLabel, err := tx.LockAndGetShift(ctx, nurse.EmployeeID)
	if err != nil {
		return err
	}
	if conflictsWith(currentLabel, shift) {
		return fmt.Errorf("%w（当前班别: %s）", domain.ErrShiftConflict, currentLabel)
	}

	if err := tx.UpsertDraft(ctx, nurse.EmployeeID, shift, roomType); err != nil {
		return err
	}

	days := make([]int32, 0, len(nurse.DayOffWeek))
	for _, day := range nurse.DayOffWeek {
		days = append(days, domain.WeekdayToStorage(day))
	}

	return tx.ReplaceDayOffs(ctx, nurse.EmployeeID, days)
}

// ApplyFixedResults 按手术室类型把求解器产出的固定排班结果写入正式排班。
// 任何一个护士冲突或没有草稿，整个事务回滚。
func (r *Repository) ApplyFixedResults(shift domain.Shift, results map[string][]domain.FixedResult) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.beginBatchTx(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	return applyFixedResults(ctx, tx, shift, results)
}

func applyFixedResults(ctx context.Context, tx batchTx, shift domain.Shift, results map[string][]domain.FixedResult) (int, error) {
	employeeIDs := make([]string, 0)
	for roomType, entries := range results {
		for _, res := range entries {
			currentLabel, err := tx.LockAndGetShift(ctx, res.EmployeeID)
			if err != nil {
				return 0, err
			}
			if conflictsWith(currentLabel, shift) {
				return 0, fmt.Errorf("护士 %s %w", res.EmployeeID, domain.ErrShiftConflict)
			}

			if err := tx.SetRoom(ctx, res.EmployeeID, shift, roomType, res.RoomID); err != nil {
				if errors.Is(err, domain.ErrDraftNotFound) || errors.Is(err, domain.ErrRoomNotFound) {
					return 0, fmt.Errorf("护士 %s %w", res.EmployeeID, err)
				}
				return 0, err
			}

			employeeIDs = append(employeeIDs, res.EmployeeID)
		}
	}

	// 成为固定护士后不再保留流动安排
	if _, err := tx.ClearFloatForNurses(ctx, employeeIDs); err != nil {
		return 0, err
	}

	for _, employeeID := range employeeIDs {
		if err := tx.RecordApplied(ctx, employeeID, domain.RoleKindFixed); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(employeeIDs), nil
}

// ApplyFloatSchedule 把流动护士的一周安排写入正式排班。
// 护士必须已经绑定到目标班别，否则整个事务回滚。
func (r *Repository) ApplyFloatSchedule(shift domain.Shift, weeks []*domain.FloatWeek) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.beginBatchTx(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	return applyFloatSchedule(ctx, tx, shift, weeks)
}

func applyFloatSchedule(ctx context.Context, tx batchTx, shift domain.Shift, weeks []*domain.FloatWeek) (int, error) {
	for _, week := range weeks {
		currentLabel, err := tx.LockAndGetShift(ctx, week.EmployeeID)
		if err != nil {
			return 0, err
		}
		if currentLabel == "" {
			return 0, fmt.Errorf("护士 %s %w", week.EmployeeID, domain.ErrNurseNotFound)
		}
		if conflictsWith(currentLabel, shift) {
			return 0, fmt.Errorf("护士 %s %w", week.EmployeeID, domain.ErrShiftConflict)
		}

		// 流动护士不占用固定手术室
		if err := tx.ClearRoom(ctx, week.EmployeeID, shift); err != nil {
			return 0, err
		}

		if err := tx.ReplaceWeek(ctx, week); err != nil {
			return 0, err
		}

		if err := tx.RecordApplied(ctx, week.EmployeeID, domain.RoleKindFloat); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(weeks), nil
}

// ClearShift 清空某科室某班别的全部排班：
// 删掉流动安排，固定手术室置空但保留班别绑定，历史计数归零。
// 班别下没有护士时直接返回零结果。
func (r *Repository) ClearShift(shift domain.Shift, departmentCode string) (*domain.ClearShiftResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.beginBatchTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	return clearShift(ctx, tx, shift, departmentCode)
}

func clearShift(ctx context.Context, tx batchTx, shift domain.Shift, departmentCode string) (*domain.ClearShiftResult, error) {
	employeeIDs, err := tx.LockShiftNurses(ctx, shift, departmentCode)
	if err != nil {
		return nil, err
	}

	result := &domain.ClearShiftResult{EmployeeIDs: employeeIDs}
	if len(employeeIDs) == 0 {
		return result, tx.Commit()
	}

	if result.FloatRowsDeleted, err = tx.ClearFloatForNurses(ctx, employeeIDs); err != nil {
		return nil, err
	}

	if result.FixedRoomsCleared, err = tx.ClearFixedRooms(ctx, employeeIDs, shift); err != nil {
		return nil, err
	}

	if result.HistoryResets, err = tx.ResetHistory(ctx, employeeIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}

// pgBatchTx 把 batchTx 的操作落到一个 *sql.Tx 上
type pgBatchTx struct {
	tx *sql.Tx
}

func (p *pgBatchTx) Savepoint(ctx context.Context, name string) error {
	_, err := p.tx.ExecContext(ctx, "SAVEPOINT "+name)
	return err
}

func (p *pgBatchTx) RollbackToSavepoint(ctx context.Context, name string) error {
	_, err := p.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name)
	return err
}

func (p *pgBatchTx) ReleaseSavepoint(ctx context.Context, name string) error {
	_, err := p.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
	return err
}

func (p *pgBatchTx) LockAndGetShift(ctx context.Context, employeeID string) (string, error) {
	return lockAndGetShiftTx(ctx, p.tx, employeeID)
}

func (p *pgBatchTx) UpsertDraft(ctx context.Context, employeeID string, shift domain.Shift, roomType string) error {
	return upsertDraftTx(ctx, p.tx, employeeID, shift, roomType)
}

func (p *pgBatchTx) ReplaceDayOffs(ctx context.Context, employeeID string, days []int32) error {
	return replaceDayOffsTx(ctx, p.tx, employeeID, days)
}

func (p *pgBatchTx) SetRoom(ctx context.Context, employeeID string, shift domain.Shift, roomType string, roomID string) error {
	return setRoomTx(ctx, p.tx, employeeID, shift, roomType, roomID)
}

func (p *pgBatchTx) ClearRoom(ctx context.Context, employeeID string, shift domain.Shift) error {
	return clearRoomTx(ctx, p.tx, employeeID, shift)
}

func (p *pgBatchTx) ReplaceWeek(ctx context.Context, week *domain.FloatWeek) error {
	return replaceWeekTx(ctx, p.tx, week)
}

func (p *pgBatchTx) ClearFloatForNurses(ctx context.Context, employeeIDs []string) (int64, error) {
	return clearFloatForNursesTx(ctx, p.tx, employeeIDs)
}

func (p *pgBatchTx) RecordApplied(ctx context.Context, employeeID string, kind domain.RoleKind) error {
	return recordAppliedTx(ctx, p.tx, employeeID, kind)
}

func (p *pgBatchTx) LockShiftNurses(ctx context.Context, shift domain.Shift, departmentCode string) ([]string, error) {
	query := `
		SELECT ns.employee_id
		FROM nurse_schedule ns
		JOIN employees e ON ns.employee_id = e.employee_id
		WHERE ns.scheduling_time = $1 AND e.department_code = $2
		FOR UPDATE OF ns
	`

	rows, err := p.tx.QueryContext(ctx, query, shift.Label(), departmentCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employeeIDs := make([]string, 0)
	for rows.Next() {
		var employeeID string
		if err := rows.Scan(&employeeID); err != nil {
			return nil, err
		}
		employeeIDs = append(employeeIDs, employeeID)
	}

	return employeeIDs, rows.Err()
}

func (p *pgBatchTx) ClearFixedRooms(ctx context.Context, employeeIDs []string, shift domain.Shift) (int64, error) {
	query := `
		UPDATE nurse_schedule
		SET surgery_room_id = NULL
		WHERE employee_id = ANY($1) AND scheduling_time = $2 AND surgery_room_id IS NOT NULL
	`

	result, err := p.tx.ExecContext(ctx, query, employeeIDs, shift.Label())
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (p *pgBatchTx) ResetHistory(ctx context.Context, employeeIDs []string) (int64, error) {
	return resetForNursesTx(ctx, p.tx, employeeIDs)
}

func (p *pgBatchTx) Commit() error {
	return p.tx.Commit()
}

func (p *pgBatchTx) Rollback() error {
	return p.tx.Rollback()
}
