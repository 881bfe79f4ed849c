package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/middleware"
	"github.com/roplabs/payroll-backend-go/internal/pkg/jwt"
)

type RouterDeps struct {
	JWTService        jwt.Service
	UserRepo          user.Repository
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	PeriodHandler     *PeriodHandler
	PayrollHandler    *PayrollHandler
	AttendanceHandler *AttendanceHandler
	ReportHandler     *ReportHandler
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.AuthHandler.Login)
			r.Post("/refresh", deps.AuthHandler.RefreshToken)
			r.Post("/logout", deps.AuthHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))
			r.Use(middleware.LoadUser(deps.UserRepo))

			r.Route("/users", func(r chi.Router) {
				r.Get("/{id}", deps.UserHandler.Get)
				r.Get("/{id}/team", deps.UserHandler.Team)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Get("/", deps.UserHandler.List)
					r.Post("/", deps.UserHandler.Create)
					r.Put("/{id}", deps.UserHandler.Update)
					r.Delete("/{id}", deps.UserHandler.Deactivate)
				})
			})

			r.Route("/periods", func(r chi.Router) {
				r.Get("/", deps.PeriodHandler.List)
				r.Get("/{id}", deps.PeriodHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", deps.PeriodHandler.Create)
					r.Post("/{id}/lock", deps.PeriodHandler.Lock)
					r.Post("/{id}/unlock", deps.PeriodHandler.Unlock)
				})
			})

			r.Route("/compensations", func(r chi.Router) {
				r.Get("/{userID}", deps.PayrollHandler.GetCompensation)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Put("/", deps.PayrollHandler.UpsertCompensation)
					r.Delete("/{userID}", deps.PayrollHandler.DeleteCompensation)
				})
			})

			r.Route("/bonuses", func(r chi.Router) {
				r.Get("/", deps.PayrollHandler.ListBonuses)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", deps.PayrollHandler.CreateBonus)
					r.Put("/{id}", deps.PayrollHandler.UpdateBonus)
					r.Delete("/{id}", deps.PayrollHandler.DeleteBonus)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", deps.AttendanceHandler.List)
				r.Get("/summary", deps.AttendanceHandler.Summary)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", deps.AttendanceHandler.Create)
					r.Put("/{id}", deps.AttendanceHandler.Update)
					r.Delete("/{id}", deps.AttendanceHandler.Delete)
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/preview", deps.PayrollHandler.PreviewSalary)
				r.Get("/{userID}/{periodID}", deps.PayrollHandler.GetPayslip)

				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", deps.PayrollHandler.GeneratePayslip)
					r.Get("/", deps.PayrollHandler.ListPayslips)
				})
			})

			// Manager only
			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.ManagerOnly)

				r.Get("/", deps.ReportHandler.List)
				r.Get("/{id}/emails", deps.ReportHandler.EmailLogs)
				r.Post("/csv", deps.ReportHandler.CreateCSV)
				r.Post("/csv/send", deps.ReportHandler.SendCSV)
				r.Post("/pdf", deps.ReportHandler.CreatePDF)
				r.Post("/pdf/send", deps.ReportHandler.SendPDF)
			})
		})
	})

	return r
}
