package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
	"github.com/tshso-dev/hospital-ops/backend/internal/utils"
)

// parseShiftParam 从查询参数中解析班别
func (h *Handler) parseShiftParam(w http.ResponseWriter, r *http.Request) (domain.Shift, bool) {
	shift, err := domain.ParseShift(r.URL.Query().Get("shift"))
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return "", false
	}
	return shift, true
}

func (h *Handler) GetMySchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	schedule, err := h.repository.GetMySchedule(myInfo.EmployeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "暂无排班", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取个人排班成功", schedule)
}

func (h *Handler) GetDepartmentOverview(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	nurses, err := h.repository.GetDepartmentOverview(myInfo.DepartmentCode)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取科室排班总览成功", nurses)
}

func (h *Handler) GetShiftAssignments(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	shift, ok := h.parseShiftParam(w, r)
	if !ok {
		return
	}

	assignments, err := h.repository.GetShiftAssignments(shift, myInfo.DepartmentCode)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班别排班成功", assignments)
}

func (h *Handler) GetEligibleNurses(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	// 不传班别时返回科室下所有未排班的护士
	var target *domain.Shift
	if shiftParam := r.URL.Query().Get("shift"); shiftParam != "" {
		shift, err := domain.ParseShift(shiftParam)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
		target = &shift
	}

	nurses, err := h.repository.GetEligibleNurses(myInfo.DepartmentCode, target)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取可排班护士成功", nurses)
}

func (h *Handler) GetFloatSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	shift, ok := h.parseShiftParam(w, r)
	if !ok {
		return
	}

	weeks, err := h.repository.GetFloatSchedule(shift, myInfo.DepartmentCode)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取流动排班成功", weeks)
}

func (h *Handler) GetNurseComplete(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	view, err := h.repository.GetNurseComplete(employeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "护士不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取护士完整排班成功", view)
}

func (h *Handler) vacancyCacheKey(shift domain.Shift) string {
	return fmt.Sprintf("shift_vacancy_%s", shift)
}

func (h *Handler) GetShiftVacancy(w http.ResponseWriter, r *http.Request) {
	shift, ok := h.parseShiftParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	// 先查缓存，缓存不可用时直接落库
	cached, err := h.redisClient.Get(ctx, h.vacancyCacheKey(shift)).Result()
	if err == nil {
		vacancies := make([]*domain.RoomVacancy, 0)
		if err := json.Unmarshal([]byte(cached), &vacancies); err == nil {
			h.successResponse(w, r, "获取班别空缺成功", vacancies)
			return
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("空缺缓存读取失败", "error", err)
	}

	vacancies, err := h.repository.GetShiftVacancy(shift)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if data, err := json.Marshal(vacancies); err == nil {
		if err := h.redisClient.Set(ctx, h.vacancyCacheKey(shift), data, time.Duration(h.config.Redis.VacancyCacheTTL)*time.Second).Err(); err != nil {
			slog.Warn("空缺缓存写入失败", "error", err)
		}
	}

	h.successResponse(w, r, "获取班别空缺成功", vacancies)
}

// evictVacancyCache 在排班变更后让对应班别的空缺缓存失效
func (h *Handler) evictVacancyCache(shift domain.Shift) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	if err := h.redisClient.Del(ctx, h.vacancyCacheKey(shift)).Err(); err != nil {
		slog.Warn("空缺缓存失效失败", "error", err)
	}
}

// publishScheduleMails 把排班通知邮件逐个护士投到消息队列
func (h *Handler) publishScheduleMails(employeeIDs []string, build func(employee *domain.Employee) domain.MailMessage) error {
	if len(employeeIDs) == 0 {
		return nil
	}

	employees, err := h.repository.GetNurseEmailsByIDs(employeeIDs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	for _, employeeID := range employeeIDs {
		employee, ok := employees[employeeID]
		if !ok {
			continue
		}

		mailData, err := json.Marshal(build(employee))
		if err != nil {
			return err
		}

		if err := h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) BatchSaveDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shift       string `json:"shift" validate:"required"`
		Assignments map[string][]struct {
			EmployeeID string  `json:"employeeID" validate:"required"`
			Name       string  `json:"name"`
			DayOffWeek []int32 `json:"dayOffWeek"`
		} `json:"assignments" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := domain.ParseShift(req.Shift)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	assignments := make(map[string][]domain.DraftNurse, len(req.Assignments))
	for roomType, nurses := range req.Assignments {
		drafts := make([]domain.DraftNurse, 0, len(nurses))
		for _, nurse := range nurses {
			drafts = append(drafts, domain.DraftNurse{
				EmployeeID: nurse.EmployeeID,
				Name:       nurse.Name,
				DayOffWeek: nurse.DayOffWeek,
			})
		}
		assignments[roomType] = drafts
	}

	if err := utils.ValidateDraftAssignments(assignments); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	result, err := h.repository.BatchSaveDraft(shift, assignments)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			h.errorResponse(w, r, "保存超时，所有修改已回滚")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.evictVacancyCache(shift)

	if result.ErrorCount > 0 {
		h.successResponse(w, r, fmt.Sprintf("保存完成，%d 名护士成功，%d 名护士失败", result.SuccessCount, result.ErrorCount), result)
		return
	}

	h.successResponse(w, r, "保存排班草稿成功", result)
}

func (h *Handler) ApplyAlgorithmResults(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shift   string `json:"shift" validate:"required"`
		Results map[string][]struct {
			EmployeeID    string  `json:"employeeID" validate:"required"`
			SurgeryRoomID string  `json:"surgeryRoomID" validate:"required"`
			Position      int32   `json:"position"`
			Cost          float64 `json:"cost"`
		} `json:"results" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := domain.ParseShift(req.Shift)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	results := make(map[string][]domain.FixedResult, len(req.Results))
	resultByNurse := make(map[string]domain.FixedResult)
	employeeIDs := make([]string, 0)
	for roomType, entries := range req.Results {
		converted := make([]domain.FixedResult, 0, len(entries))
		for _, res := range entries {
			fixed := domain.FixedResult{
				EmployeeID: res.EmployeeID,
				RoomID:     res.SurgeryRoomID,
				Position:   res.Position,
				Cost:       res.Cost,
			}
			converted = append(converted, fixed)
			resultByNurse[res.EmployeeID] = fixed
			employeeIDs = append(employeeIDs, res.EmployeeID)
		}
		results[roomType] = converted
	}

	if err := utils.ValidateFixedResults(results); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	count, err := h.repository.ApplyFixedResults(shift, results)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShiftConflict),
			errors.Is(err, domain.ErrDraftNotFound),
			errors.Is(err, domain.ErrRoomNotFound):
			h.errorResponse(w, r, fmt.Sprintf("%s，所有修改已回滚", err.Error()))
		case errors.Is(err, context.DeadlineExceeded):
			h.errorResponse(w, r, "应用超时，所有修改已回滚")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.evictVacancyCache(shift)

	if err := h.publishScheduleMails(employeeIDs, func(employee *domain.Employee) domain.MailMessage {
		res := resultByNurse[employee.EmployeeID]
		return domain.MailMessage{
			Type: "schedule_applied",
			To:   employee.Email,
			Data: domain.ScheduleAppliedMailData{
				Name:       employee.Name,
				ShiftLabel: shift.Label(),
				Kind:       string(domain.RoleKindFixed),
				RoomID:     res.RoomID,
			},
		}
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, fmt.Sprintf("应用排班结果成功，共 %d 名护士", count), nil)
}

func (h *Handler) ApplyFloatSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shift     string `json:"shift" validate:"required"`
		Schedules map[string][]struct {
			EmployeeID string  `json:"employeeID" validate:"required"`
			Monday     *string `json:"monday"`
			Tuesday    *string `json:"tuesday"`
			Wednesday  *string `json:"wednesday"`
			Thursday   *string `json:"thursday"`
			Friday     *string `json:"friday"`
			Saturday   *string `json:"saturday"`
			Sunday     *string `json:"sunday"`
		} `json:"schedules" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := domain.ParseShift(req.Shift)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	// 按手术室类型分组只是提交的形状，落库时固定手术室会被置空，这里直接展开
	weeks := make([]*domain.FloatWeek, 0)
	employeeIDs := make([]string, 0)
	for _, entries := range req.Schedules {
		for _, entry := range entries {
			week := &domain.FloatWeek{EmployeeID: entry.EmployeeID}
			slots := [7]*string{entry.Monday, entry.Tuesday, entry.Wednesday, entry.Thursday, entry.Friday, entry.Saturday, entry.Sunday}
			for day, slot := range slots {
				week.SetSlot(int32(day), slot)
			}
			weeks = append(weeks, week)
			employeeIDs = append(employeeIDs, entry.EmployeeID)
		}
	}

	if err := utils.ValidateFloatWeeks(weeks); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	count, err := h.repository.ApplyFloatSchedule(shift, weeks)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrShiftConflict),
			errors.Is(err, domain.ErrNurseNotFound):
			h.errorResponse(w, r, fmt.Sprintf("%s，所有修改已回滚", err.Error()))
		case errors.Is(err, context.DeadlineExceeded):
			h.errorResponse(w, r, "应用超时，所有修改已回滚")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.evictVacancyCache(shift)

	if err := h.publishScheduleMails(employeeIDs, func(employee *domain.Employee) domain.MailMessage {
		return domain.MailMessage{
			Type: "schedule_applied",
			To:   employee.Email,
			Data: domain.ScheduleAppliedMailData{
				Name:       employee.Name,
				ShiftLabel: shift.Label(),
				Kind:       string(domain.RoleKindFloat),
			},
		}
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, fmt.Sprintf("应用流动排班成功，共 %d 名护士", count), nil)
}

func (h *Handler) ClearShift(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	var req struct {
		Shift string `json:"shift" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := domain.ParseShift(req.Shift)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	result, err := h.repository.ClearShift(shift, myInfo.DepartmentCode)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			h.errorResponse(w, r, "清空超时，所有修改已回滚")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.evictVacancyCache(shift)

	if err := h.publishScheduleMails(result.EmployeeIDs, func(employee *domain.Employee) domain.MailMessage {
		return domain.MailMessage{
			Type: "schedule_cleared",
			To:   employee.Email,
			Data: domain.ScheduleClearedMailData{
				Name:       employee.Name,
				ShiftLabel: shift.Label(),
			},
		}
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "清空班别排班成功", result)
}
