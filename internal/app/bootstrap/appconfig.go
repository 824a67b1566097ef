// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where you put everything specific to YOUR application.
type AppConfig struct {
	// Document store backend: "mongo" or "memory". The memory backend keeps
	// everything in-process and suits development and tests only.
	StoreBackend string

	// MongoDB connection configuration (used when StoreBackend is "mongo")
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: remindhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// How often cached due-date statuses are swept and recomputed.
	StatusRefreshInterval time.Duration

	// Notifications older than this are pruned hourly. Zero disables pruning
	// and notifications are retained until the user clears them.
	NotificationPruneAge time.Duration
}
