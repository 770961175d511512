package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternalError     = errors.New("internal error")
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = errors.New("name exceeds maximum length")
	ErrPersistenceFailed = errors.New("failed to persist document")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrStorageUnreadable = errors.New("stored document could not be read")
	ErrImportFormat      = errors.New("import file must contain meta, settings and entries")
	ErrInvalidImportMode = errors.New("import mode must be replace or merge")
	ErrBackupsDisabled   = errors.New("backups are not configured")
	ErrBackupNotFound    = errors.New("backup not found")
)

// Validation constants
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 500
	MaxCategoryLength    = 100
)
