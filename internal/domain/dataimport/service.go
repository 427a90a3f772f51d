package dataimport

import "context"

// ImportService loads spreadsheet exports into the entity store
type ImportService interface {
	// Import parses, validates and writes a file inside one transaction
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)

	// Validate parses and validates a file without writing anything
	Validate(ctx context.Context, req ImportRequest) (ValidationPreview, error)

	Template(importType Type, format string) (Template, error)
	Status() StatusResponse
}
