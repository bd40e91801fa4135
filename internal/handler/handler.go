package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/config"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	sessions    *SessionManager

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
		sessions:    NewSessionManager(repo),

		Mux: chi.NewRouter(),
	}, nil
}

// 可以修改排班的角色，查看者只读
var planEditorRoles = []domain.Role{domain.RoleAdmin, domain.RoleHeadNurse}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.requestID)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		// 参考数据，本系统内只读
		r.Get("/hospitals", h.GetAllHospitals)
		r.Get("/hospitals/{id}/wards", h.GetHospitalWards)
		r.Route("/wards/{id}", func(r chi.Router) {
			r.Use(h.ward)
			r.Get("/policy", h.GetWardPolicy)
			r.Get("/nurses", h.GetWardNurses)
			r.Get("/holidays", h.GetWardHolidays)
		})

		r.Route("/shift-plans", func(r chi.Router) {
			r.Get("/", h.GetShiftPlansByScope)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftPlan)
				r.Get("/", h.GetShiftPlan)
				r.With(h.RequiredRole(planEditorRoles)).Patch("/", h.RenameShiftPlan)
				r.With(h.RequiredRole(planEditorRoles)).Delete("/", h.DeleteShiftPlan)
				r.With(h.RequiredRole(planEditorRoles)).Post("/duplicate", h.DuplicateShiftPlan)
			})
		})

		// 编辑会话，每个用户同一时刻只有一个
		r.Route("/planner", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/grid", h.GetPlannerGrid)
			r.Get("/warnings", h.GetPlannerWarnings)

			r.Group(func(r chi.Router) {
				r.Use(h.requirePlanEditor)
				r.Post("/scope", h.SelectPlannerScope)
				r.Post("/fresh", h.StartFreshPlan)
				r.Post("/plans/{id}/load", h.LoadPlanIntoSession)
				r.Post("/plans/{id}/duplicate", h.DuplicatePlanIntoSession)
				r.Post("/toggle", h.ToggleShift)
				r.Post("/commit", h.CommitPlan)
				r.Post("/discard", h.DiscardPlanGrid)
			})
		})
	})
}
