package seed

import (
	"log/slog"

	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
	"github.com/tshso-dev/hospital-ops/backend/internal/repository"
)

// 手术室类型和手术室的基础数据，和院内实际配置一致
var roomTypes = []domain.SurgeryRoomType{
	{Type: "一般手术室", TypeCode: 1, TypeInfo: "RSU"},
	{Type: "心血管手术室", TypeCode: 2, TypeInfo: "RCU"},
	{Type: "神经外科手术室", TypeCode: 3, TypeInfo: "RON"},
	{Type: "急诊手术室", TypeCode: 4, TypeInfo: "RE"},
}

var rooms = []domain.SurgeryRoom{
	{ID: "OR-1", RoomType: "一般手术室", NurseCount: 3, IsAvailable: true, MorningShift: true, NightShift: true, GraveyardShift: false},
	{ID: "OR-2", RoomType: "一般手术室", NurseCount: 3, IsAvailable: true, MorningShift: true, NightShift: true, GraveyardShift: false},
	{ID: "OR-3", RoomType: "一般手术室", NurseCount: 2, IsAvailable: true, MorningShift: true, NightShift: false, GraveyardShift: false},
	{ID: "OR-4", RoomType: "心血管手术室", NurseCount: 4, IsAvailable: true, MorningShift: true, NightShift: true, GraveyardShift: true},
	{ID: "OR-5", RoomType: "心血管手术室", NurseCount: 4, IsAvailable: false, MorningShift: true, NightShift: true, GraveyardShift: true},
	{ID: "OR-6", RoomType: "神经外科手术室", NurseCount: 3, IsAvailable: true, MorningShift: true, NightShift: true, GraveyardShift: false},
	{ID: "OR-7", RoomType: "急诊手术室", NurseCount: 2, IsAvailable: true, MorningShift: true, NightShift: true, GraveyardShift: true},
	{ID: "OR-8", RoomType: "急诊手术室", NurseCount: 2, IsAvailable: true, MorningShift: true, NightShift: true, GraveyardShift: true},
}

// SeedSurgeryRooms 插入手术室类型和手术室的基础数据
func SeedSurgeryRooms(r *repository.Repository) {
	typeCnt := 0
	for _, rt := range roomTypes {
		if err := r.CreateRoomType(&rt); err != nil {
			slog.Error("无法插入手术室类型", slog.String("type", rt.Type), slog.String("error", err.Error()))
			continue
		}
		typeCnt++
	}
	slog.Info("插入手术室类型成功", slog.Int("count", typeCnt))

	roomCnt := 0
	for _, room := range rooms {
		if err := r.CreateRoom(&room); err != nil {
			slog.Error("无法插入手术室", slog.String("room", room.ID), slog.String("error", err.Error()))
			continue
		}
		roomCnt++
	}
	slog.Info("插入手术室成功", slog.Int("count", roomCnt))
}
