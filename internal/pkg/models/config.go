package models

// Config is the full application configuration, loaded once at startup.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NSQ      NSQConfig
	JWT      JWTConfig
	Match    MatchConfig
	Logger   LoggerConfig
}

// AppConfig holds application metadata.
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig holds PostgreSQL connection settings. An empty Host means
// the in-memory ride repository is used instead.
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig holds Redis connection settings. An empty Host means the
// in-memory presence repository is used instead.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NSQConfig holds the NSQ daemon address for lifecycle event publishing.
// An empty address disables publishing.
type NSQConfig struct {
	Address string
}

// JWTConfig holds token verification settings for the websocket handshake.
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// MatchConfig holds dispatch tuning knobs.
type MatchConfig struct {
	SearchRadiusMeters float64
	MaxCandidates      int
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level string
}
