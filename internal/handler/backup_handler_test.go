package handler

import (
	"net/http"
	"testing"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/budgetbook/budgetbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupHandler_BackupsDisabled(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPost, "/api/v1/backups", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBackupHandler_BackupAndRestore(t *testing.T) {
	api := newTestAPI(t, testutil.NewMockBackupRepository())
	rec := api.do(http.MethodPost, "/api/v1/entries",
		`{"type":"income","amount":"10","category":"Bonus","date":"2024-03-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/backups", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	backup := decode[domain.BackupObject](t, rec)
	assert.Equal(t, "budget-backup-2024-03-15.json", backup.Name)

	rec = api.do(http.MethodGet, "/api/v1/backups", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.BackupObject](t, rec), 1)

	rec = api.do(http.MethodPost, "/api/v1/backups/restore", `{"name":"budget-backup-2024-03-15.json","mode":"merge"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, service.ImportModeMerge, decode[service.ImportResult](t, rec).Mode)

	rec = api.do(http.MethodGet, "/api/v1/entries?month=2024-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Entry](t, rec), 2)

	rec = api.do(http.MethodPost, "/api/v1/backups/restore", `{"name":"nope.json"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/backups/restore", `{"name":"x.json","mode":"append"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
