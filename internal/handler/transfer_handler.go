package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// maxImportBytes bounds the size of an uploaded snapshot
const maxImportBytes = 10 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransferHandler handles whole-document export, import and reset
type TransferHandler struct {
	store    *service.Store
	transfer *service.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(store *service.Store, transfer *service.TransferService) *TransferHandler {
	return &TransferHandler{store: store, transfer: transfer}
}

// ResetResponse is returned after the stored data has been cleared
type ResetResponse struct {
	Created bool   `json:"created"`
	Warning string `json:"warning,omitempty"`
}

// GetDocument handles GET /api/v1/document
func (h *TransferHandler) GetDocument(c echo.Context) error {
	return c.JSON(http.StatusOK, h.transfer.ExportSnapshot())
}

// ExportJSON handles GET /api/v1/export
func (h *TransferHandler) ExportJSON(c echo.Context) error {
	data, filename, err := h.transfer.ExportJSON()
	if err != nil {
		return handleServiceError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// ExportXLSX handles GET /api/v1/export.xlsx
func (h *TransferHandler) ExportXLSX(c echo.Context) error {
	var buf bytes.Buffer
	filename, err := h.transfer.ExportXLSX(&buf)
	if err != nil {
		return handleServiceError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Import handles POST /api/v1/import?mode=replace|merge. The body is the
// raw exported JSON document.
func (h *TransferHandler) Import(c echo.Context) error {
	mode, err := service.ParseImportMode(c.QueryParam("mode"))
	if err != nil {
		return NewValidationError(c, "Invalid query parameter", []ValidationError{
			{Field: "mode", Message: "Must be one of: replace, merge"},
		})
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes+1))
	if err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(raw) > maxImportBytes {
		return NewValidationError(c, "Import file is too large", nil)
	}

	result, err := h.transfer.ImportSnapshot(c.Request().Context(), raw, mode)
	if err != nil {
		return handleServiceError(c, err)
	}

	log.Info().
		Str("mode", string(result.Mode)).
		Int("entries", result.EntriesImported).
		Int("loans", result.LoansImported).
		Int("goals", result.GoalsImported).
		Msg("Document imported")

	return c.JSON(http.StatusOK, result)
}

// ResetDocument handles DELETE /api/v1/document. Stored data is cleared and
// a fresh default document is created in its place.
func (h *TransferHandler) ResetDocument(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.store.Reset(ctx); err != nil {
		return handleServiceError(c, err)
	}
	result := h.store.Load(ctx)
	return c.JSON(http.StatusOK, ResetResponse{Created: result.Created, Warning: result.Warning})
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
