package repository

import (
	"context"
	"time"

	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

// GetShiftVacancy 计算某班别下每间开放手术室的空缺。
// 空缺允许为负数，超编的房间原样上报给调用方。
func (r *Repository) GetShiftVacancy(shift domain.Shift) ([]*domain.RoomVacancy, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rooms, err := r.getOpenRooms(ctx, shift)
	if err != nil {
		return nil, err
	}

	assigned, err := r.getAssignedCounts(ctx, shift)
	if err != nil {
		return nil, err
	}

	return domain.BuildVacancyReport(rooms, assigned), nil
}

func (r *Repository) getOpenRooms(ctx context.Context, shift domain.Shift) ([]*domain.SurgeryRoom, error) {
	// 列名来自封闭的班别映射表
	query := `
		SELECT sr.id, sr.room_type, sr.nurse_count, sr.is_available, sr.morning_shift, sr.night_shift, sr.graveyard_shift, srt.type_info
		FROM surgery_room sr
		JOIN surgery_room_type srt ON sr.room_type = srt.type
		WHERE sr.is_available = true AND sr.` + shift.RoomFlagColumn() + ` = true
		ORDER BY sr.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRooms(rows)
}

func (r *Repository) getAssignedCounts(ctx context.Context, shift domain.Shift) (map[string]int32, error) {
	query := `
		SELECT surgery_room_id, COUNT(*)
		FROM nurse_schedule
		WHERE scheduling_time = $1 AND surgery_room_id IS NOT NULL
		GROUP BY surgery_room_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, shift.Label())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assigned := make(map[string]int32)
	for rows.Next() {
		var roomID string
		var count int32
		if err := rows.Scan(&roomID, &count); err != nil {
			return nil, err
		}
		assigned[roomID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assigned, nil
}
