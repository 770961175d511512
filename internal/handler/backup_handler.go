package handler

import (
	"net/http"

	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/labstack/echo/v4"
)

// BackupHandler handles remote backup HTTP requests
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// RestoreBackupRequest represents the restore request body
type RestoreBackupRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=replace merge"`
}

// CreateBackup handles POST /api/v1/backups
func (h *BackupHandler) CreateBackup(c echo.Context) error {
	backup, err := h.backupService.CreateBackup(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, backup)
}

// ListBackups handles GET /api/v1/backups
func (h *BackupHandler) ListBackups(c echo.Context) error {
	backups, err := h.backupService.ListBackups(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, backups)
}

// RestoreBackup handles POST /api/v1/backups/restore
func (h *BackupHandler) RestoreBackup(c echo.Context) error {
	var req RestoreBackupRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	mode, err := service.ParseImportMode(req.Mode)
	if err != nil {
		return handleServiceError(c, err)
	}

	result, err := h.backupService.RestoreBackup(c.Request().Context(), req.Name, mode)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
