package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/tshso-dev/hospital-ops/backend/internal/config"
	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
	"github.com/tshso-dev/hospital-ops/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.With(h.myInfo).Get("/my-info", h.GetMyInfo)

		r.Route("/surgery-rooms", func(r chi.Router) {
			r.Get("/types", h.GetAllRoomTypes)
			r.Get("/", h.GetAllRooms)
			r.Get("/type/{roomType}", h.GetRoomsByType)
			r.Get("/{roomID}", h.GetRoomByID)
		})

		r.Route("/nurse-schedules", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.preventInactiveEmployee)

			r.Get("/my-schedule", h.GetMySchedule)
			r.Get("/department-overview", h.GetDepartmentOverview)
			r.Get("/shift-assignments", h.GetShiftAssignments)
			r.Get("/eligible-nurses", h.GetEligibleNurses)
			r.Get("/float-schedule", h.GetFloatSchedule)
			r.Get("/vacancy", h.GetShiftVacancy)
			r.Get("/nurse/{employeeID}/complete", h.GetNurseComplete)

			// 批量变更只有护理人员可以执行
			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.EmployeeRole{domain.RoleNurse}))
				r.Post("/batch-save", h.BatchSaveDraft)
				r.Post("/apply-algorithm-results", h.ApplyAlgorithmResults)
				r.Post("/apply-float-schedule", h.ApplyFloatSchedule)
				r.Post("/clear-shift", h.ClearShift)
			})
		})
	})
}
