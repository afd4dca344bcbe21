package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/openride/openride/internal/pkg/models"
)

// InitConfig loads configuration from the environment (and an optional
// config file for local development) into a Config struct.
func InitConfig(configPath string) *models.Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		// Missing file is fine outside local environments.
		_ = v.ReadInConfig()
	}

	setDefaults(v)

	return &models.Config{
		App: models.AppConfig{
			Name:        v.GetString("app.name"),
			Environment: v.GetString("app.env"),
			Debug:       v.GetBool("app.debug"),
			Version:     v.GetString("app.version"),
		},
		Server: models.ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetInt("server.read_timeout"),
			WriteTimeout:    v.GetInt("server.write_timeout"),
			ShutdownTimeout: v.GetInt("server.shutdown_timeout"),
		},
		Database: models.DatabaseConfig{
			Host:      v.GetString("db.host"),
			Port:      v.GetInt("db.port"),
			Username:  v.GetString("db.username"),
			Password:  v.GetString("db.password"),
			Database:  v.GetString("db.database"),
			SSLMode:   v.GetString("db.ssl_mode"),
			MaxConns:  v.GetInt("db.max_conns"),
			IdleConns: v.GetInt("db.idle_conns"),
		},
		Redis: models.RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
		},
		NSQ: models.NSQConfig{
			Address: v.GetString("nsq.address"),
		},
		JWT: models.JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetInt("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		Match: models.MatchConfig{
			SearchRadiusMeters: v.GetFloat64("match.search_radius_meters"),
			MaxCandidates:      v.GetInt("match.max_candidates"),
		},
		Logger: models.LoggerConfig{
			Level: v.GetString("log.level"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "openride")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "dev")

	v.SetDefault("server.port", 9990)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 30)

	v.SetDefault("db.port", 5432)
	v.SetDefault("db.ssl_mode", "disable")
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("db.idle_conns", 2)

	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("jwt.expiration", 1440)
	v.SetDefault("jwt.issuer", "openride")

	v.SetDefault("match.search_radius_meters", 5000)
	v.SetDefault("match.max_candidates", 20)

	v.SetDefault("log.level", "info")
}
