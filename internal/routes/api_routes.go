package routes

import (
	"github.com/go-chi/chi/v5"

	"trainingorg/quizdesk/internal/api"
	"trainingorg/quizdesk/internal/middleware"
)

// RegisterAPIRoutes registers every /api route. Reads need a session, writes
// need the coach or admin role, and the database surface is admin only.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers) {
	requireAuth := middleware.RequireAuth(
		deps.Services.Session,
		deps.Services.Signer,
		deps.Config.Session.CookieName,
	)
	loginLimiter := middleware.NewRateLimiter(deps.Config.LoginRatePerSec, deps.Config.LoginRateBurst)

	r.Route("/api", func(apiR chi.Router) {
		apiR.Use(middleware.InFlightMiddleware(deps.Metrics, "/api"))

		// Public
		apiR.With(loginLimiter.Middleware).Post("/auth/login", handlers.Login())

		apiR.Group(func(authed chi.Router) {
			authed.Use(requireAuth)

			authed.Post("/auth/logout", handlers.Logout())
			authed.Get("/auth/me", handlers.Me())

			authed.Get("/members", handlers.ListMembers())
			authed.Get("/members/duplicates", handlers.MemberDuplicates())
			authed.Get("/members/{id}", handlers.GetMember())

			authed.Get("/quiz-levels", handlers.ListQuizLevels())

			authed.Get("/quizzes", handlers.ListQuizzes())
			authed.Get("/quizzes/{id}", handlers.GetQuiz())
			authed.Post("/quizzes/{id}/attempts", handlers.SubmitAttempt())
			authed.Get("/quizzes/{id}/attempts", handlers.ListQuizAttempts())
			authed.Get("/attempts/me", handlers.MyAttempts())

			authed.Get("/stats", handlers.GetStats())

			// Coach group (coach + admin)
			authed.Group(func(coach chi.Router) {
				coach.Use(middleware.IsCoachMiddleware())

				coach.Post("/members", handlers.CreateMember())
				coach.Put("/members/{id}", handlers.UpdateMember())
				coach.Delete("/members/{id}", handlers.DeleteMember())
				coach.Post("/members/import", handlers.ImportMembers())
				coach.Post("/members/import/csv", handlers.ImportMembersCSV())

				coach.Post("/quizzes", handlers.CreateQuiz())
				coach.Put("/quizzes/{id}", handlers.UpdateQuiz())
				coach.Delete("/quizzes/{id}", handlers.DeleteQuiz())

				coach.Post("/evaluations", handlers.CreateEvaluation())
				coach.Get("/evaluations", handlers.ListEvaluations())
				coach.Post("/evaluations/{id}/approve", handlers.ApproveEvaluation())
				coach.Post("/evaluations/{id}/disapprove", handlers.DisapproveEvaluation())

				coach.Get("/users/coaches", handlers.ListCoaches())
			})

			// Admin-only group
			authed.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())

				admin.Post("/quiz-levels", handlers.CreateQuizLevel())
				admin.Put("/quiz-levels/{id}", handlers.UpdateQuizLevel())
				admin.Delete("/quiz-levels/{id}", handlers.DeleteQuizLevel())

				admin.Get("/users", handlers.ListUsers())
				admin.Post("/users", handlers.CreateUser())
				admin.Delete("/users/{id}", handlers.DeleteUser())

				admin.Get("/admin/tables", handlers.ListTables())
				admin.Post("/admin/tables", handlers.CreateTable())
				admin.Get("/admin/tables/{table}", handlers.DescribeTable())
				admin.Delete("/admin/tables/{table}", handlers.DropTable())
				admin.Get("/admin/tables/{table}/rows", handlers.TableRows())
				admin.Post("/admin/tables/{table}/clear", handlers.ClearTable())
				admin.Post("/admin/sql", handlers.ExecuteSQL())

				admin.Get("/admin/jobs/status", handlers.JobStatus())
				admin.Post("/admin/jobs/stats-refresh", handlers.TriggerStatsRefresh())
			})
		})
	})
}
