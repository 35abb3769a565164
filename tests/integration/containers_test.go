// Package integration provides integration tests for the catalog assistant
// against real Redis and Postgres instances.
package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ContainerSetup holds the per-suite container infrastructure.
type ContainerSetup struct {
	PostgresConnStr string
	RedisAddr       string
	cleanup         func()
}

// Cleanup terminates the containers.
func (s *ContainerSetup) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func setupPostgres(t *testing.T) *ContainerSetup {
	t.Helper()
	skipWithoutDocker(t)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("assistant_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return &ContainerSetup{
		PostgresConnStr: fmt.Sprintf("postgres://test:test@%s:%s/assistant_test?sslmode=disable",
			host, port.Port()),
		cleanup: func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				t.Logf("Failed to terminate postgres container: %v", err)
			}
		},
	}
}

func setupRedis(t *testing.T) *ContainerSetup {
	t.Helper()
	skipWithoutDocker(t)
	ctx := context.Background()

	redisContainer, err := redis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return &ContainerSetup{
		RedisAddr: fmt.Sprintf("%s:%s", host, port.Port()),
		cleanup: func() {
			if err := redisContainer.Terminate(ctx); err != nil {
				t.Logf("Failed to terminate redis container: %v", err)
			}
		},
	}
}

func skipWithoutDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}
}
