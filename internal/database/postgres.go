package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := buildPostgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), gormConfig(logger.Warn))
}

// buildPostgresDSN renders a key=value connection string. Sessions run in UTC
// so created_at ordering matches the other backends.
func buildPostgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	params := []string{
		"host=" + valueOrDefault(cfg.Host, "localhost"),
		fmt.Sprintf("port=%d", portOrDefault(cfg.Port, 5432)),
		"user=" + cfg.User,
		"dbname=" + cfg.Name,
	}
	if cfg.Password != "" {
		params = append(params, "password="+cfg.Password)
	}

	defaults := map[string]string{
		"sslmode":          "disable",
		"TimeZone":         "UTC",
		"application_name": "octoops",
	}
	for _, kv := range mergedOptions(defaults, cfg.Options) {
		params = append(params, kv[0]+"="+kv[1])
	}

	return strings.Join(params, " "), nil
}
