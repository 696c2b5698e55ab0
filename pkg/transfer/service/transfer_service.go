package service

import (
	"context"
	"io"

	"agrimind/entities"
	"agrimind/pkg/transfer/types"
)

type ImportResult struct {
	RunID     string       `json:"run_id"`
	Counts    types.Counts `json:"counts"`
	BackupKey string       `json:"backup_key,omitempty"`
}

// TransferService replaces the farm dataset from a document and renders it back.
type TransferService interface {
	// Import wipes the dataset and loads doc in one transaction. Errors are *types.Error.
	Import(ctx context.Context, userID string, doc io.Reader) (*ImportResult, error)
	Export(ctx context.Context) (*types.ExportDocument, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
	ImportRuns(ctx context.Context, limit int) ([]entities.ImportRun, error)
}
