package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/rulemakers-physics/rmleveltest/internal/auth/middleware"
	"github.com/rulemakers-physics/rmleveltest/internal/grading"
	"github.com/rulemakers-physics/rmleveltest/internal/notify"
	"github.com/rulemakers-physics/rmleveltest/internal/rbac"
	"github.com/rulemakers-physics/rmleveltest/internal/results"
	syncx "github.com/rulemakers-physics/rmleveltest/internal/sync"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Engine   *grading.Engine
	Store    results.Store
	Notifier *notify.Dispatcher
	Auth     *authmw.AuthService
	Events   *syncx.EventRepo // nil when the store keeps no event log
	Ready    func() error     // optional readiness probe
}

// Mount registers every route on r. Router-wide middleware is the caller's.
func Mount(r chi.Router, d Deps) {
	r.Post("/auth/login", authmw.LoginHandler(d.Auth))

	r.Route("/api", func(ar chi.Router) {
		ar.Post("/submit-test", SubmitTestHandler(d.Engine, d.Store, d.Notifier))
		ar.Post("/score", ScoreHandler(d.Engine))
		ar.Get("/variants", ListVariantsHandler(d.Engine.Registry()))
		ar.Get("/variants/{variantID}", GetVariantHandler(d.Engine.Registry()))
	})

	// Protected admin API (JWT → role in context → RBAC)
	r.Route("/admin", func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))
		pr.With(rbac.Require(rbac.PermResultsList)).
			Get("/results", ListResultsHandler(d.Store))
		pr.With(rbac.Require(rbac.PermResultsView)).
			Get("/results/{resultID}", GetResultHandler(d.Store, d.Engine))
		pr.With(rbac.Require(rbac.PermResultsNotify)).
			Post("/results/{resultID}/notify", ResendNotificationHandler(d.Store, d.Notifier))
		pr.With(rbac.Require(rbac.PermVariantsView)).
			Get("/variants/{variantID}", GetVariantKeyHandler(d.Engine.Registry()))
		pr.With(rbac.Require(rbac.PermEventsList)).
			Get("/events", ListEventsHandler(d.Events))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}
