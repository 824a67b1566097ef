// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	groupsfeature "github.com/dalemusser/remindhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/remindhub/internal/app/features/health"
	notificationsfeature "github.com/dalemusser/remindhub/internal/app/features/notifications"
	remindersfeature "github.com/dalemusser/remindhub/internal/app/features/reminders"
	"github.com/dalemusser/remindhub/internal/app/store/docstore/mongodoc"
	notificationstore "github.com/dalemusser/remindhub/internal/app/store/notifications"
	"github.com/dalemusser/remindhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// RemindHub initializes the session store, applies the session-loading
// middleware globally, and mounts the JSON feature routers: reminders,
// notifications, groups, health, and metrics.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	var pinger healthfeature.Pinger
	if m, ok := deps.Docs.(*mongodoc.Store); ok {
		pinger = m
	} else {
		pinger = healthfeature.PingerFunc(func(ctx context.Context) error { return nil })
	}
	healthHandler := healthfeature.NewHandler(pinger, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	// One notification store shared by the inbox feature and the fan-out
	// path in the reminder repository.
	notes := notificationstore.New(deps.Docs)

	// Reminders: the core assignment and fan-out surface.
	remindersHandler := remindersfeature.NewHandler(deps.Docs, notes, logger)
	r.Mount("/reminders", remindersfeature.Routes(remindersHandler))

	// Notifications: each user's own inbox.
	notificationsHandler := notificationsfeature.NewHandler(deps.Docs, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

	// Groups: teacher-managed student sets for assignment.
	groupsHandler := groupsfeature.NewHandler(deps.Docs, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	return r, nil
}
