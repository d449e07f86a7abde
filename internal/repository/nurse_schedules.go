package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

// 固定排班（nurse_schedule 表）的事务内原语。
// 批量变更操作在 batch.go 中把这些原语组合到同一个事务里。

// lockAndGetShiftTx 锁住护士的班别绑定行并返回当前班别标签。
// 行锁保证并发的批量操作在同一个护士上串行化，
// 没有绑定时返回空字符串。
func lockAndGetShiftTx(ctx context.Context, tx *sql.Tx, employeeID string) (string, error) {
	query := `
		SELECT scheduling_time FROM nurse_schedule
		WHERE employee_id = $1
		FOR UPDATE
	`

	var label string
	if err := tx.QueryRowContext(ctx, query, employeeID).Scan(&label); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return label, nil
}

// upsertDraftTx 创建或更新粗粒度的排班草稿，房间重置为空，休假日不动
func upsertDraftTx(ctx context.Context, tx *sql.Tx, employeeID string, shift domain.Shift, roomType string) error {
	query := `
		INSERT INTO nurse_schedule (employee_id, scheduling_time, surgery_room_type, surgery_room_id)
		VALUES ($1, $2, $3, NULL)
		ON CONFLICT (employee_id)
		DO UPDATE SET
			scheduling_time = EXCLUDED.scheduling_time,
			surgery_room_type = EXCLUDED.surgery_room_type,
			surgery_room_id = NULL
	`

	if _, err := tx.ExecContext(ctx, query, employeeID, shift.Label(), roomType); err != nil {
		return err
	}

	return nil
}

// setRoomTx 把草稿升级为具体的手术室绑定。
// 没有匹配的草稿时返回 ErrDraftNotFound。
func setRoomTx(ctx context.Context, tx *sql.Tx, employeeID string, shift domain.Shift, roomType string, roomID string) error {
	query := `
		UPDATE nurse_schedule
		SET surgery_room_id = $1
		WHERE employee_id = $2 AND scheduling_time = $3 AND surgery_room_type = $4
	`

	result, err := tx.ExecContext(ctx, query, roomID, employeeID, shift.Label(), roomType)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "nurse_schedule_surgery_room_id_fkey" {
			return domain.ErrRoomNotFound
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrDraftNotFound
	}

	return nil
}

// clearRoomTx 把房间置空但保留班别绑定
func clearRoomTx(ctx context.Context, tx *sql.Tx, employeeID string, shift domain.Shift) error {
	query := `
		UPDATE nurse_schedule
		SET surgery_room_id = NULL
		WHERE employee_id = $1 AND scheduling_time = $2
	`

	if _, err := tx.ExecContext(ctx, query, employeeID, shift.Label()); err != nil {
		return err
	}

	return nil
}

// replaceDayOffsTx 先删后插地替换护士的休假日集合，
// days 用存储编码 1~7，空集合表示没有休假日。
func replaceDayOffsTx(ctx context.Context, tx *sql.Tx, employeeID string, days []int32) error {
	query := `DELETE FROM nurse_dayoff WHERE employee_id = $1`
	if _, err := tx.ExecContext(ctx, query, employeeID); err != nil {
		return err
	}

	for _, day := range days {
		query := `
			INSERT INTO nurse_dayoff (employee_id, day_off)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, employeeID, day); err != nil {
			return err
		}
	}

	return nil
}

// GetMySchedule 获取单个护士的固定排班，休假日用接口编码返回
func (r *Repository) GetMySchedule(employeeID string) (*domain.FixedAssignment, error) {
	query := `
		SELECT scheduling_time, surgery_room_type, surgery_room_id
		FROM nurse_schedule
		WHERE employee_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	assignment := &domain.FixedAssignment{
		EmployeeID: employeeID,
	}

	var roomID sql.NullString
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID).Scan(&assignment.ShiftLabel, &assignment.RoomType, &roomID); err != nil {
		return nil, err
	}

	if shift, ok := domain.ShiftFromLabel(assignment.ShiftLabel); ok {
		assignment.Shift = shift
	}
	if roomID.Valid {
		assignment.RoomID = &roomID.String
	}

	dayOffs, err := r.getDayOffs(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	assignment.DayOffWeek = dayOffs

	return assignment, nil
}

func (r *Repository) getDayOffs(ctx context.Context, employeeID string) ([]int32, error) {
	query := `
		SELECT day_off FROM nurse_dayoff
		WHERE employee_id = $1
		ORDER BY day_off
	`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]int32, 0)
	for rows.Next() {
		var day int32
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, domain.WeekdayFromStorage(day))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

// GetShiftAssignments 获取某科室某班别的排班视图：
// 手术室类型 -> 护士列表，每个护士带休假日、历史计数和本周工作量
func (r *Repository) GetShiftAssignments(shift domain.Shift, departmentCode string) (map[string][]*domain.ShiftNurse, error) {
	query := `
		SELECT
			ns.surgery_room_type,
			ns.employee_id,
			e.name,
			ns.surgery_room_id,
			nd.day_off,
			COALESCE(nrh.total_fixed_count, 0),
			COALESCE(nrh.total_float_count, 0)
		FROM nurse_schedule ns
		JOIN employees e ON ns.employee_id = e.employee_id
		LEFT JOIN nurse_dayoff nd ON ns.employee_id = nd.employee_id
		LEFT JOIN nurse_role_history nrh ON ns.employee_id = nrh.employee_id
		WHERE ns.scheduling_time = $1
			AND e.department_code = $2
			AND e.role = 'N'
			AND e.is_active = true
		ORDER BY ns.surgery_room_type, e.name, nd.day_off
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, shift.Label(), departmentCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make(map[string][]*domain.ShiftNurse)
	nursesMap := make(map[string]*domain.ShiftNurse) // employeeID -> nurse

	for rows.Next() {
		var row struct {
			roomType   string
			employeeID string
			name       string
			roomID     sql.NullString
			dayOff     sql.NullInt32
			fixedCount int32
			floatCount int32
		}

		dst := []any{
			&row.roomType,
			&row.employeeID,
			&row.name,
			&row.roomID,
			&row.dayOff,
			&row.fixedCount,
			&row.floatCount,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		nurse, exists := nursesMap[row.employeeID]
		if !exists {
			nurse = &domain.ShiftNurse{
				EmployeeID:      row.employeeID,
				Name:            row.name,
				DayOffWeek:      make([]int32, 0),
				TotalFixedCount: row.fixedCount,
				TotalFloatCount: row.floatCount,
			}
			if row.roomID.Valid {
				nurse.RoomID = &row.roomID.String
			}
			nursesMap[row.employeeID] = nurse
			assignments[row.roomType] = append(assignments[row.roomType], nurse)
		}

		if row.dayOff.Valid {
			nurse.DayOffWeek = append(nurse.DayOffWeek, domain.WeekdayFromStorage(row.dayOff.Int32))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 工作量 = 一周七天减去休假日
	for _, nurse := range nursesMap {
		nurse.Workload = 7 - int32(len(nurse.DayOffWeek))
	}

	return assignments, nil
}

// GetDepartmentOverview 获取科室所有护士的排班总览，包括还未排班的
func (r *Repository) GetDepartmentOverview(departmentCode string) ([]*domain.DepartmentNurse, error) {
	query := `
		SELECT
			e.employee_id,
			e.name,
			ns.scheduling_time,
			ns.surgery_room_type,
			ns.surgery_room_id,
			nd.day_off
		FROM employees e
		LEFT JOIN nurse_schedule ns ON e.employee_id = ns.employee_id
		LEFT JOIN nurse_dayoff nd ON e.employee_id = nd.employee_id
		WHERE e.department_code = $1
			AND e.role = 'N'
			AND e.is_active = true
		ORDER BY ns.surgery_room_id, ns.scheduling_time, e.name, nd.day_off
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, departmentCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nurses := make([]*domain.DepartmentNurse, 0)
	nursesMap := make(map[string]*domain.DepartmentNurse)

	for rows.Next() {
		var row struct {
			employeeID string
			name       string
			shiftLabel sql.NullString
			roomType   sql.NullString
			roomID     sql.NullString
			dayOff     sql.NullInt32
		}

		dst := []any{&row.employeeID, &row.name, &row.shiftLabel, &row.roomType, &row.roomID, &row.dayOff}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		nurse, exists := nursesMap[row.employeeID]
		if !exists {
			nurse = &domain.DepartmentNurse{
				EmployeeID: row.employeeID,
				Name:       row.name,
				DayOffWeek: make([]int32, 0),
			}
			if row.shiftLabel.Valid {
				nurse.ShiftLabel = &row.shiftLabel.String
				if shift, ok := domain.ShiftFromLabel(row.shiftLabel.String); ok {
					nurse.Shift = &shift
				}
			}
			if row.roomType.Valid {
				nurse.RoomType = &row.roomType.String
			}
			if row.roomID.Valid {
				nurse.RoomID = &row.roomID.String
			}
			nursesMap[row.employeeID] = nurse
			nurses = append(nurses, nurse)
		}

		if row.dayOff.Valid {
			nurse.DayOffWeek = append(nurse.DayOffWeek, domain.WeekdayFromStorage(row.dayOff.Int32))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return nurses, nil
}

// GetNurseComplete 获取单个护士的完整排班视图（固定 + 流动 + 历史计数）
func (r *Repository) GetNurseComplete(employeeID string) (*domain.NurseScheduleView, error) {
	employee, err := r.GetEmployeeByID(employeeID)
	if err != nil {
		return nil, err
	}

	view := &domain.NurseScheduleView{
		EmployeeID: employeeID,
		Name:       employee.Name,
	}

	fixed, err := r.GetMySchedule(employeeID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		view.Fixed = fixed
	}

	week, err := r.GetFloatWeek(employeeID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		view.Float = week
	}

	history, err := r.GetRoleHistory(employeeID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		view.History = history
	}

	return view, nil
}
