//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"itassets-dashboard/internal/database"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/testutil"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testutil.RequireIntegration(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:16-alpine",
		postgres.WithDatabase("assets_test"),
		postgres.WithUsername("assets"),
		postgres.WithPassword("assets"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	require.NoError(t, database.Migrate(dsn, log))

	pool, err := database.Connect(ctx, dsn, log)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPGTableLifecycle(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	tbl := NewPGTable[models.Computer](pool, "computadores", computerColumns, false)
	creator := uuid.New()

	first, err := tbl.Insert(ctx, map[string]any{
		"nome": "Notebook", "patrimonio": "PAT-1", "mac_address": "00:1B",
		"localizacao": "Matriz", "responsavel": "Ana", "setor": "TI",
		"status": models.StatusActive, "marca": nil, "created_by": creator,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Nil(t, first.Marca)
	require.NotNil(t, first.CreatedBy)
	assert.Equal(t, creator, *first.CreatedBy)

	second, err := tbl.Insert(ctx, map[string]any{
		"nome": "Desktop", "patrimonio": "PAT-2", "mac_address": "00:1C",
		"localizacao": "Filial 1", "responsavel": "Bruno", "setor": "RH",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, second.Status, "column default")

	list, err := tbl.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	upd, err := tbl.Update(ctx, first.ID, map[string]any{"nome": "Notebook 2", "created_by": uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, first.ID, upd.ID)
	assert.Equal(t, first.CreatedAt, upd.CreatedAt)
	assert.Equal(t, creator, *upd.CreatedBy)
	assert.Equal(t, "PAT-1", upd.Patrimonio)

	_, err = tbl.Insert(ctx, map[string]any{
		"nome": "Clone", "patrimonio": "PAT-2", "mac_address": "x",
		"localizacao": "Matriz", "responsavel": "x", "setor": "TI",
	})
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, Message(err), "duplicate key")

	require.NoError(t, tbl.Delete(ctx, second.ID))
	require.ErrorIs(t, tbl.Delete(ctx, second.ID), ErrNotFound)

	_, err = tbl.Get(ctx, second.ID)
	require.ErrorIs(t, err, ErrNotFound)

	n, err := tbl.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPGTableWithRLSActor(t *testing.T) {
	pool := setupPool(t)
	ctx := WithActor(context.Background(), uuid.New())
	tbl := NewPGTable[models.Collector](pool, "coletores",
		[]string{"marca", "serie", "responsavel", "localizacao", "patrimonio", "tipo",
			"conectividade", "sistema_operacional", "versao_software", "data_aquisicao", "observacoes"}, true)

	_, err := tbl.Insert(ctx, map[string]any{
		"marca": "Zebra", "serie": "S1", "responsavel": "Ana", "localizacao": "Estoque",
	})
	require.NoError(t, err, "the test role owns the table so policies do not apply")

	list, err := tbl.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPGProfiles(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	s := NewPGProfiles(pool)

	p := &models.Profile{Email: "Admin@Example.com", PasswordHash: "hash", Role: models.RoleAdmin}
	require.NoError(t, s.Create(ctx, p))
	assert.Equal(t, "admin@example.com", p.Email)

	require.ErrorIs(t, s.Create(ctx, &models.Profile{Email: "admin@example.com", PasswordHash: "x", Role: models.RoleUser}), ErrConflict)

	got, err := s.GetByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, p.UserID, got.UserID)
	assert.True(t, got.IsAdmin())

	name := "Admin"
	upd, err := s.UpdateFullName(ctx, p.UserID, &name)
	require.NoError(t, err)
	assert.Equal(t, "Admin", *upd.FullName)

	_, err = s.GetByUserID(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
