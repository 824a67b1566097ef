// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	notificationstore "github.com/dalemusser/remindhub/internal/app/store/notifications"
	"github.com/dalemusser/remindhub/internal/app/system/tasks"
	"github.com/dalemusser/remindhub/internal/app/system/timeouts"
	"github.com/dalemusser/remindhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Background processes started here and stopped in Shutdown.
var (
	statusWorker *workers.StatusRefresh
	taskRunner   *tasks.Runner
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. RemindHub
// starts the status sweep worker here, plus the notification prune job when
// a prune age is configured.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("operation timeouts overridden from environment", zap.Int("count", n))
	}

	statusWorker = workers.NewStatusRefresh(deps.Docs, logger, appCfg.StatusRefreshInterval)
	statusWorker.Start()

	var jobs []tasks.Job
	if appCfg.NotificationPruneAge > 0 {
		notes := notificationstore.New(deps.Docs)
		jobs = append(jobs, tasks.NotificationPruneJob(notes, logger, appCfg.NotificationPruneAge))
	}
	if len(jobs) > 0 {
		taskRunner = tasks.NewRunner(logger, jobs...)
		taskRunner.Start()
	}

	return nil
}
