package database

import (
	"fmt"
	"net/url"
	"time"
)

// Config - параметры подключения к PostgreSQL.
type Config struct {
	Host        string        `env:"DB_HOST" env-default:"localhost"`
	Port        int           `env:"DB_PORT" env-default:"5432"`
	User        string        `env:"DB_USER" env-default:"postgres"`
	Password    string        `env:"DB_PASSWORD" env-default:""`
	DBName      string        `env:"DB_NAME" env-default:"content_generator"`
	SSLMode     string        `env:"DB_SSLMODE" env-default:"disable"`
	MaxConns    int32         `env:"DB_MAX_CONNECTIONS" env-default:"10"`
	IdleTimeout time.Duration `env:"DB_IDLE_TIMEOUT" env-default:"5m"`
}

// DSN возвращает строку подключения в формате URL.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
