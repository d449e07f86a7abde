package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

// 角色历史计数（nurse_role_history 表）。
// 计数只增不减，只有清空班别才会归零。

// recordAppliedTx 给护士对应角色的累计计数加一，
// 每次 apply 类操作成功只调用一次。
func recordAppliedTx(ctx context.Context, tx *sql.Tx, employeeID string, kind domain.RoleKind) error {
	var column string
	switch kind {
	case domain.RoleKindFixed:
		column = "total_fixed_count"
	case domain.RoleKindFloat:
		column = "total_float_count"
	default:
		return fmt.Errorf("未知的角色类型: %q", kind)
	}

	// 列名来自上面的封闭 switch
	query := fmt.Sprintf(`
		INSERT INTO nurse_role_history (employee_id, %[1]s, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (employee_id)
		DO UPDATE SET
			%[1]s = nurse_role_history.%[1]s + 1,
			updated_at = NOW()
	`, column)

	if _, err := tx.ExecContext(ctx, query, employeeID); err != nil {
		return err
	}

	return nil
}

// resetForNursesTx 把一批护士的计数归零，返回受影响的行数
func resetForNursesTx(ctx context.Context, tx *sql.Tx, employeeIDs []string) (int64, error) {
	query := `
		UPDATE nurse_role_history
		SET total_fixed_count = 0, total_float_count = 0, updated_at = NOW()
		WHERE employee_id = ANY($1)
	`

	result, err := tx.ExecContext(ctx, query, employeeIDs)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// GetRoleHistory 获取单个护士的角色历史计数
func (r *Repository) GetRoleHistory(employeeID string) (*domain.RoleHistory, error) {
	query := `
		SELECT total_fixed_count, total_float_count, updated_at
		FROM nurse_role_history
		WHERE employee_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	history := &domain.RoleHistory{
		EmployeeID: employeeID,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, employeeID).Scan(&history.TotalFixedCount, &history.TotalFloatCount, &history.UpdatedAt); err != nil {
		return nil, err
	}

	return history, nil
}
