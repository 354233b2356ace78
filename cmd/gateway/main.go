package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	api "github.com/rulemakers-physics/rmleveltest/internal/api/http"
	auth "github.com/rulemakers-physics/rmleveltest/internal/auth/middleware"
	"github.com/rulemakers-physics/rmleveltest/internal/config"
	"github.com/rulemakers-physics/rmleveltest/internal/grading"
	"github.com/rulemakers-physics/rmleveltest/internal/notify"
	"github.com/rulemakers-physics/rmleveltest/internal/rbac"
	"github.com/rulemakers-physics/rmleveltest/internal/variant"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- Variants (a defective table is fatal) ---
	reg := loadRegistry(cfg)
	eng := grading.New(reg, grading.WithStrictShapes(cfg.StrictShapes))
	log.Printf("variants loaded: %v (strict shapes=%v)", reg.IDs(), cfg.StrictShapes)

	// --- Results store ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("results store (%s) open failed: %v", cfg.DBDriver, err)
	}
	defer st.Close()

	// --- Notifications ---
	var sender notify.Sender
	if cfg.SlackWebhookURL != "" {
		sender = notify.NewSlackSender(cfg.SlackWebhookURL, cfg.NotifyTimeout)
	} else {
		log.Printf("SLACK_WEBHOOK_URL not set; result notifications disabled")
	}
	disp := notify.NewDispatcher(st.Store, sender, reg, cfg.NotifyTimeout)

	// --- Auth ---
	if cfg.AdminPassHash == "" {
		log.Printf("ADMIN_PASS_HASH not set; admin login disabled (see placementctl hash-password)")
	}
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.TokenTTL,
		auth.Account{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: rbac.RoleAdmin},
		auth.Account{Username: cfg.StaffUser, PassHash: cfg.StaffPassHash, Role: rbac.RoleStaff})

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Engine:   eng,
		Store:    st.Store,
		Notifier: disp,
		Auth:     authSvc,
		Events:   st.events,
		Ready:    st.Ping,
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(s.ListenAndServe())
}

func loadRegistry(cfg config.Config) *variant.Registry {
	if cfg.VariantsDir == "" {
		return variant.MustDefault()
	}
	reg, err := variant.Load(os.DirFS(cfg.VariantsDir), ".")
	if err != nil {
		log.Fatalf("variant tables in %s: %v", cfg.VariantsDir, err)
	}
	return reg
}
