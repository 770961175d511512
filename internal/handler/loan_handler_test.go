package handler

import (
	"net/http"
	"testing"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanHandler_LoanPaymentsAndSummary(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPost, "/api/v1/loans",
		`{"name":"Car","principal":"1000","paidAmount":"900","dueDate":"2025-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	loan := decode[LoanResponse](t, rec)
	assert.Equal(t, "100", loan.Remaining.String())
	assert.False(t, loan.PaidOff)

	rec = api.do(http.MethodPost, "/api/v1/loans/"+loan.ID+"/payments", `{"amount":"250"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	loan = decode[LoanResponse](t, rec)
	assert.Equal(t, "1000", loan.PaidAmount.String())
	assert.True(t, loan.Remaining.IsZero())
	assert.True(t, loan.PaidOff)

	rec = api.do(http.MethodGet, "/api/v1/loans/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[domain.LoanSummary](t, rec)
	assert.Equal(t, 1, summary.PaidOffCount)
	assert.Equal(t, 0, summary.ActiveCount)

	rec = api.do(http.MethodDelete, "/api/v1/loans/"+loan.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
