package app

import (
	"time"

	"aristo/pkg/codes"
	"aristo/pkg/syncer"
)

// Run is the outcome of one print action
type Run struct {
	ID         string         `json:"id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Codes      []codes.Code   `json:"codes"`
	SheetPath  string         `json:"sheet_path"`
	Sync       *syncer.Result `json:"sync,omitempty"`
	SyncError  string         `json:"sync_error,omitempty"`
	Printed    bool           `json:"printed"`
	PrintError string         `json:"print_error,omitempty"`
}

// Synced reports whether the batch reached the cloud database
func (r *Run) Synced() bool {
	return r.Sync != nil && r.SyncError == ""
}
