package dataimport

import "github.com/staffpulse/analytics-api/internal/pkg/apperror"

var (
	ErrUnsupportedFileType   = apperror.Validation("unsupported file type: use xlsx, xls, csv or json")
	ErrUnsupportedImportType = apperror.Validation("unsupported import type: use kanban or employees")
	ErrUnsupportedTemplate   = apperror.Validation("unsupported template format: use json or csv")
	ErrEmptyFile             = apperror.Validation("file contains no records")
	ErrInvalidJSONShape      = apperror.Validation("json must be an array of records or an object with a data array")
	ErrNoValidRows           = apperror.Validation("no valid rows to import")
	ErrFileTooLarge          = apperror.Validation("file exceeds the maximum size of 10MB")
)
