package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

func (h *Handler) GetAllRoomTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.repository.GetAllRoomTypes()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取手术室类型成功", types)
}

func (h *Handler) GetAllRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.repository.GetAllRooms()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取手术室列表成功", rooms)
}

func (h *Handler) GetRoomsByType(w http.ResponseWriter, r *http.Request) {
	roomType := chi.URLParam(r, "roomType")

	// 不传班别时返回该类型下所有手术室
	var target *domain.Shift
	if shiftParam := r.URL.Query().Get("shift"); shiftParam != "" {
		shift, err := domain.ParseShift(shiftParam)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
		target = &shift
	}

	rooms, err := h.repository.GetRoomsByType(roomType, target)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取手术室列表成功", rooms)
}

func (h *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	room, err := h.repository.GetRoomByID(roomID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "手术室不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取手术室成功", room)
}
