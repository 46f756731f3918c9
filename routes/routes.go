package routes

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pitchside/cricket-league/handlers"
	"github.com/pitchside/cricket-league/middleware"
	"github.com/pitchside/cricket-league/models"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Tournament  *handlers.TournamentHandler
	Club        *handlers.ClubHandler
	Enrollment  *handlers.EnrollmentHandler
	Fixture     *handlers.FixtureHandler
	Match       *handlers.MatchHandler
	Standings   *handlers.StandingsHandler
	Progression *handlers.ProgressionHandler
	Ledger      *handlers.LedgerHandler
}

func Setup(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	organizerOnly := middleware.Authorize(models.RoleOrganizer)
	managerOnly := middleware.Authorize(models.RoleClubManager)

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{id}", h.Tournament.Get)
		r.Get("/{id}/standings", h.Standings.ListRanked)
		r.Get("/{id}/rounds", h.Fixture.ListRounds)
		r.Get("/{id}/progressions", h.Progression.ListByTransition)

		// Organizer lifecycle and fixture management.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Post("/", h.Tournament.Create)
			r.Patch("/{id}/status", h.Tournament.ChangeStatus)
			r.Post("/{id}/complete", h.Tournament.Complete)
			r.Patch("/{id}/blocked", h.Tournament.SetBlocked)
			r.Post("/{id}/banner", h.Tournament.UploadBanner)
			r.Get("/{id}/enrollments", h.Enrollment.ListPaid)
			r.Post("/{id}/rounds", h.Fixture.GenerateRound)
			r.Post("/{id}/advance", h.Progression.AdvanceClubs)
		})

		// Club managers enroll their clubs.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(managerOnly)

			r.Post("/{id}/enrollments", h.Enrollment.Enroll)
		})
	})

	router.Route("/enrollments", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(managerOnly)

			r.Post("/{id}/order", h.Enrollment.CreateOrder)
		})

		// Gateway callback; authenticated by the payment signature itself.
		r.Post("/{id}/confirm", h.Enrollment.ConfirmPayment)
	})

	router.Route("/rounds", func(r chi.Router) {
		// Public, but organizers with a token also see unpublished fixtures.
		r.With(middleware.MaybeAuthenticate(jwtSecret)).Get("/{roundID}/matches", h.Fixture.ListRoundMatches)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Post("/{roundID}/publish", h.Fixture.PublishRound)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{id}", h.Match.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Post("/{id}/innings", h.Match.RecordInnings)
			r.Post("/{id}/finalize", h.Match.Finalize)
			r.Post("/{id}/cancel", h.Match.Cancel)
		})
	})

	router.Route("/clubs", func(r chi.Router) {
		r.Get("/{id}", h.Club.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(managerOnly)

			r.Post("/", h.Club.Create)
			r.Post("/{id}/crest", h.Club.UploadCrest)
		})
	})

	router.Route("/ledger", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(organizerOnly)

		r.Get("/", h.Ledger.GetBalance)
		r.Get("/transactions", h.Ledger.ListTransactions)
	})

	return router
}
