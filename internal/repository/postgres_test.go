package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/trialfit-scoring-server/internal/database"
	"github.com/trialfit-scoring-server/internal/domain"
)

// generateTestPassword creates a random password for throwaway test databases
func generateTestPassword() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "test_fallback_password_123"
	}
	return "test_" + hex.EncodeToString(bytes)
}

func setupTestRepository(t *testing.T) *PostgresReportRepository {
	t.Helper()

	if os.Getenv("TRIALFIT_PG_INTEGRATION") == "" {
		t.Skip("set TRIALFIT_PG_INTEGRATION to run Postgres integration tests")
	}

	ctx := context.Background()
	testPassword := generateTestPassword()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := domain.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		Database:        "testdb",
		Username:        "testuser",
		Password:        testPassword,
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}

	db, err := database.NewConnection(ctx, cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	databaseURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
	runner, err := database.NewMigrationRunner(databaseURL, testLogger())
	require.NoError(t, err)
	require.NoError(t, runner.Up())
	require.NoError(t, runner.Close())

	return NewPostgresReportRepository(db.Pool, testLogger())
}

func TestPostgresReportRepository_SaveAndGet(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	report := testReport(domain.REPORT_GATES)
	require.NoError(t, repo.Save(ctx, report))

	got, err := repo.Get(ctx, report.ID)
	require.NoError(t, err)

	assert.Equal(t, report.ID, got.ID)
	assert.Equal(t, domain.REPORT_GATES, got.Kind)
	assert.JSONEq(t, string(report.Request), string(got.Request))
	assert.JSONEq(t, string(report.Result), string(got.Result))
}

func TestPostgresReportRepository_Get_NotFound(t *testing.T) {
	repo := setupTestRepository(t)

	_, err := repo.Get(context.Background(), uuid.New().String())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresReportRepository_ListByKind(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	var ids []string
	for i := 0; i < 3; i++ {
		report := testReport(domain.REPORT_BATCH)
		report.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Save(ctx, report))
		ids = append(ids, report.ID)
	}

	reports, err := repo.ListByKind(ctx, domain.REPORT_BATCH, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, ids[2], reports[0].ID)
	assert.Equal(t, ids[1], reports[1].ID)
}
