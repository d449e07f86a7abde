package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) GetAllRoomTypes() ([]*domain.SurgeryRoomType, error) {
	query := `
		SELECT srt.type, srt.type_code, srt.type_info, COUNT(sr.id)
		FROM surgery_room_type srt
		LEFT JOIN surgery_room sr ON srt.type = sr.room_type
		GROUP BY srt.type, srt.type_code, srt.type_info
		ORDER BY srt.type_code
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]*domain.SurgeryRoomType, 0)
	for rows.Next() {
		rt := &domain.SurgeryRoomType{}
		if err := rows.Scan(&rt.Type, &rt.TypeCode, &rt.TypeInfo, &rt.RoomCount); err != nil {
			return nil, err
		}
		types = append(types, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return types, nil
}

func (r *Repository) GetAllRooms() ([]*domain.SurgeryRoom, error) {
	query := `
		SELECT sr.id, sr.room_type, sr.nurse_count, sr.is_available,
			sr.morning_shift, sr.night_shift, sr.graveyard_shift, srt.type_info
		FROM surgery_room sr
		LEFT JOIN surgery_room_type srt ON sr.room_type = srt.type
		ORDER BY sr.room_type, sr.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRooms(rows)
}

// GetRoomsByType 获取某个类型的手术室，shift 不为空时只返回该班别开放的
func (r *Repository) GetRoomsByType(roomType string, shift *domain.Shift) ([]*domain.SurgeryRoom, error) {
	query := `
		SELECT sr.id, sr.room_type, sr.nurse_count, sr.is_available,
			sr.morning_shift, sr.night_shift, sr.graveyard_shift, srt.type_info
		FROM surgery_room sr
		LEFT JOIN surgery_room_type srt ON sr.room_type = srt.type
		WHERE sr.room_type = $1
	`

	// 班别已经通过 ParseShift 校验，列名来自封闭的映射表
	if shift != nil {
		query += fmt.Sprintf(" AND sr.%s = true", shift.RoomFlagColumn())
	}
	query += " ORDER BY sr.id"

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, roomType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRooms(rows)
}

func (r *Repository) GetRoomByID(roomID string) (*domain.SurgeryRoom, error) {
	query := `
		SELECT sr.room_type, sr.nurse_count, sr.is_available,
			sr.morning_shift, sr.night_shift, sr.graveyard_shift, srt.type_info
		FROM surgery_room sr
		LEFT JOIN surgery_room_type srt ON sr.room_type = srt.type
		WHERE sr.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	room := &domain.SurgeryRoom{
		ID: roomID,
	}

	dst := []any{&room.RoomType, &room.NurseCount, &room.IsAvailable, &room.MorningShift, &room.NightShift, &room.GraveyardShift, &room.TypeInfo}
	if err := r.dbpool.QueryRowContext(ctx, query, roomID).Scan(dst...); err != nil {
		return nil, err
	}

	return room, nil
}

func (r *Repository) CreateRoomType(rt *domain.SurgeryRoomType) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO surgery_room_type (type, type_code, type_info)
		VALUES ($1, $2, $3)
	`

	if _, err := r.dbpool.ExecContext(ctx, query, rt.Type, rt.TypeCode, rt.TypeInfo); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateRoom(room *domain.SurgeryRoom) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO surgery_room (id, room_type, nurse_count, is_available, morning_shift, night_shift, graveyard_shift)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	args := []any{room.ID, room.RoomType, room.NurseCount, room.IsAvailable, room.MorningShift, room.NightShift, room.GraveyardShift}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

func scanRooms(rows *sql.Rows) ([]*domain.SurgeryRoom, error) {
	rooms := make([]*domain.SurgeryRoom, 0)
	for rows.Next() {
		room := &domain.SurgeryRoom{}
		dst := []any{&room.ID, &room.RoomType, &room.NurseCount, &room.IsAvailable, &room.MorningShift, &room.NightShift, &room.GraveyardShift, &room.TypeInfo}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rooms, nil
}
