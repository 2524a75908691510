package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/workpulse-hr/workpulse-backend-go/internal/config"
	"github.com/workpulse-hr/workpulse-backend-go/internal/handler/http/middleware"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/jwt"
)

func NewRouter(
	appCfg config.AppConfig,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workpulse-backend"),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Post("/break-in", attendanceHandler.BreakIn)
				r.Post("/break-out", attendanceHandler.BreakOut)
				r.Get("/logs", attendanceHandler.GetLogs)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", attendanceHandler.List)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/current", payrollHandler.GetCurrent)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", payrollHandler.List)
					r.Post("/generate-bulk", payrollHandler.Generate)
					r.Post("/disburse", payrollHandler.Disburse)
					r.Put("/{id}", payrollHandler.Update)
					r.Post("/structure/preview", payrollHandler.PreviewStructure)
				})
			})
		})
	})

	return r
}
