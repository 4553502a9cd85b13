package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/phdstats-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "stats",
		Password: "secret",
		Name:     "phdstats",
		SSLMode:  "require",
	})

	assert.Equal(t, "host=db port=5433 user=stats password=secret dbname=phdstats sslmode=require", dsn)
}
