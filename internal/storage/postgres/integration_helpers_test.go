//go:build integration

package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const createOrdersTableSQL = `
	CREATE TABLE IF NOT EXISTS orders (
		id           BIGINT PRIMARY KEY,
		product_name TEXT NULL,
		quantity     BIGINT NOT NULL,
		unit_price   DOUBLE PRECISION NOT NULL
	)
`

// openPostgresStoreForIntegrationTest открывает Store по OMS_POSTGRES_TEST_DSN,
// а без него поднимает контейнер PostgreSQL.
func openPostgresStoreForIntegrationTest(t *testing.T) *Store {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("OMS_POSTGRES_TEST_DSN"))
	if dsn == "" {
		dsn = startPostgresContainer(t)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if _, err := store.DB().ExecContext(ctx, createOrdersTableSQL); err != nil {
		t.Fatalf("create orders table: %v", err)
	}
	if _, err := store.DB().ExecContext(ctx, `TRUNCATE TABLE orders`); err != nil {
		t.Fatalf("truncate orders: %v", err)
	}

	return store
}

func startPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("orders"),
		testpostgres.WithUsername("oms"),
		testpostgres.WithPassword("oms"),
		testpostgres.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	if err != nil {
		t.Skipf("postgres container is not available: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	return dsn
}
