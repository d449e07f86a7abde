package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) GetEmployeeByID(employeeID string) (*domain.Employee, error) {
	query := `
		SELECT password_hash, name, email, role, department_code, is_active, created_at, version
		FROM employees WHERE employee_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		EmployeeID: employeeID,
	}

	dst := []any{&employee.PasswordHash, &employee.Name, &employee.Email, &employee.Role, &employee.DepartmentCode, &employee.IsActive, &employee.CreatedAt, &employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID).Scan(dst...); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employees (employee_id, password_hash, name, email, role, department_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING is_active, created_at, version
	`

	args := []any{employee.EmployeeID, employee.PasswordHash, employee.Name, employee.Email, employee.Role, employee.DepartmentCode}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.IsActive, &employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	return nil
}

// GetEligibleNurses 返回可以被编入目标班别的护士：
// 还没有任何班别绑定的，以及已经在目标班别中的。
// 已绑定到其他班别的护士不会出现在结果里。
func (r *Repository) GetEligibleNurses(departmentCode string, target *domain.Shift) ([]*domain.EligibleNurse, error) {
	query := `
		SELECT e.employee_id, e.name, ns.scheduling_time
		FROM employees e
		LEFT JOIN nurse_schedule ns ON e.employee_id = ns.employee_id
		WHERE e.department_code = $1
			AND e.role = 'N'
			AND e.is_active = true
			AND (ns.scheduling_time IS NULL OR ns.scheduling_time = $2)
		ORDER BY e.name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var label string
	if target != nil {
		label = target.Label()
	}

	rows, err := r.dbpool.QueryContext(ctx, query, departmentCode, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nurses := make([]*domain.EligibleNurse, 0)
	for rows.Next() {
		nurse := &domain.EligibleNurse{}
		var currentLabel sql.NullString
		if err := rows.Scan(&nurse.EmployeeID, &nurse.Name, &currentLabel); err != nil {
			return nil, err
		}

		if currentLabel.Valid {
			if shift, ok := domain.ShiftFromLabel(currentLabel.String); ok {
				nurse.CurrentShift = &shift
			}
		}
		nurses = append(nurses, nurse)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return nurses, nil
}

// GetNurseEmailsByIDs 获取一批护士的姓名和邮箱，用于排班通知
func (r *Repository) GetNurseEmailsByIDs(employeeIDs []string) (map[string]*domain.Employee, error) {
	query := `
		SELECT employee_id, name, email
		FROM employees
		WHERE employee_id = ANY($1)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make(map[string]*domain.Employee)
	for rows.Next() {
		employee := &domain.Employee{}
		if err := rows.Scan(&employee.EmployeeID, &employee.Name, &employee.Email); err != nil {
			return nil, err
		}
		employees[employee.EmployeeID] = employee
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}
