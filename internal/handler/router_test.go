package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/middleware"
	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/budgetbook/budgetbook/internal/testutil"
	"github.com/budgetbook/budgetbook/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testStorageKey = "budget-test"

// testContext returns a context cancelled when the test finishes
// (equivalent of testing.T.Context, which needs Go 1.24).
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

type testAPI struct {
	e       *echo.Echo
	repo    *testutil.MockDocumentRepository
	backups *testutil.MockBackupRepository
	store   *service.Store
}

// newTestAPI wires the full router against in-memory repositories. A nil
// backup repository disables backups.
func newTestAPI(t *testing.T, backups *testutil.MockBackupRepository) *testAPI {
	t.Helper()

	repo := testutil.NewMockDocumentRepository()
	store := service.NewStore(repo, testStorageKey, "")
	store.SetClock(testutil.FixedClock(testNow))
	store.SetEventPublisher(&testutil.RecordingPublisher{})
	store.Load(testContext(t))

	aggregation := service.NewAggregationService()
	aggregation.SetClock(testutil.FixedClock(testNow))
	transfer := service.NewTransferService(store)

	var backupRepo domain.BackupRepository
	if backups != nil {
		backupRepo = backups
	}

	limiter := middleware.NewRateLimiterWithConfig(1000, 100)
	t.Cleanup(limiter.Stop)

	e := echo.New()
	e.Validator = NewRequestValidator()
	RegisterRoutes(e, Handlers{
		Entry:     NewEntryHandler(service.NewEntryService(store)),
		Loan:      NewLoanHandler(service.NewLoanService(store)),
		Goal:      NewGoalHandler(service.NewGoalService(store, aggregation)),
		Category:  NewCategoryHandler(service.NewCategoryService(store)),
		Summary:   NewSummaryHandler(store, aggregation),
		Transfer:  NewTransferHandler(store, transfer),
		Backup:    NewBackupHandler(service.NewBackupService(backupRepo, transfer)),
		WebSocket: NewWebSocketHandler(websocket.NewHub(), nil),
	}, limiter)

	return &testAPI{e: e, repo: repo, backups: backups, store: store}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
