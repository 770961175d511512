package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *DocumentRepository {
	t.Helper()
	repo, err := NewDocumentRepository(filepath.Join(t.TempDir(), "nested", "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestDocumentRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "budgetbook.document.v1")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentRepository_PutOverwrites(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "k", []byte(`{"v":1}`)))
	require.NoError(t, repo.Put(ctx, "k", []byte(`{"v":2}`)))

	body, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(body))
}

func TestDocumentRepository_KeysAreIndependent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "a", []byte("first")))
	require.NoError(t, repo.Put(ctx, "b", []byte("second")))

	body, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", string(body))
}

func TestDocumentRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "k", []byte("x")))
	require.NoError(t, repo.Delete(ctx, "k"))

	_, err := repo.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	// Deleting again is a no-op
	assert.NoError(t, repo.Delete(ctx, "k"))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	repo, err := NewDocumentRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	assert.NoError(t, RunMigrations(path))
}
