package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

// 流动排班（nurse_float_schedule 表）的事务内原语和读取。

// replaceWeekTx 先删后插地替换护士一周的流动安排
func replaceWeekTx(ctx context.Context, tx *sql.Tx, week *domain.FloatWeek) error {
	query := `DELETE FROM nurse_float_schedule WHERE employee_id = $1`
	if _, err := tx.ExecContext(ctx, query, week.EmployeeID); err != nil {
		return err
	}

	query = `
		INSERT INTO nurse_float_schedule (employee_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	args := []any{
		week.EmployeeID,
		week.Monday,
		week.Tuesday,
		week.Wednesday,
		week.Thursday,
		week.Friday,
		week.Saturday,
		week.Sunday,
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

// clearFloatForNursesTx 删除一批护士的流动安排，返回删除的行数
func clearFloatForNursesTx(ctx context.Context, tx *sql.Tx, employeeIDs []string) (int64, error) {
	query := `DELETE FROM nurse_float_schedule WHERE employee_id = ANY($1)`

	result, err := tx.ExecContext(ctx, query, employeeIDs)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// GetFloatWeek 获取单个护士一周的流动安排
func (r *Repository) GetFloatWeek(employeeID string) (*domain.FloatWeek, error) {
	query := `
		SELECT monday, tuesday, wednesday, thursday, friday, saturday, sunday
		FROM nurse_float_schedule
		WHERE employee_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	week := &domain.FloatWeek{
		EmployeeID: employeeID,
	}

	dst := []any{
		&week.Monday,
		&week.Tuesday,
		&week.Wednesday,
		&week.Thursday,
		&week.Friday,
		&week.Saturday,
		&week.Sunday,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, employeeID).Scan(dst...); err != nil {
		return nil, err
	}

	return week, nil
}

// GetFloatSchedule 获取某科室某班别所有流动护士的一周安排
func (r *Repository) GetFloatSchedule(shift domain.Shift, departmentCode string) ([]*domain.FloatWeek, error) {
	query := `
		SELECT nfs.employee_id, nfs.monday, nfs.tuesday, nfs.wednesday, nfs.thursday, nfs.friday, nfs.saturday, nfs.sunday
		FROM nurse_float_schedule nfs
		JOIN nurse_schedule ns ON nfs.employee_id = ns.employee_id
		JOIN employees e ON nfs.employee_id = e.employee_id
		WHERE ns.scheduling_time = $1
			AND e.department_code = $2
			AND e.role = 'N'
			AND e.is_active = true
		ORDER BY nfs.employee_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, shift.Label(), departmentCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weeks := make([]*domain.FloatWeek, 0)
	for rows.Next() {
		week := &domain.FloatWeek{}

		dst := []any{
			&week.EmployeeID,
			&week.Monday,
			&week.Tuesday,
			&week.Wednesday,
			&week.Thursday,
			&week.Friday,
			&week.Saturday,
			&week.Sunday,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		weeks = append(weeks, week)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return weeks, nil
}
