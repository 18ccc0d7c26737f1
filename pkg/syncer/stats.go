package syncer

import (
	"fmt"
	"time"

	"aristo/pkg/codes"

	"github.com/pterm/pterm"
)

// Result describes a completed sync
type Result struct {
	codes.MergeStats
	FileName string        `json:"file_name"`
	FileID   string        `json:"file_id"`
	Created  bool          `json:"created"`
	Duration time.Duration `json:"duration"`
}

// Print displays the result in a formatted table
func (r *Result) Print() {
	pterm.DefaultSection.Println("Sync Statistics")

	created := "no"
	if r.Created {
		created = pterm.LightYellow("yes")
	}

	tableData := pterm.TableData{
		{"Metric", "Value"},
		{"Database file", r.FileName},
		{"File ID", r.FileID},
		{"Created", created},
		{"Codes before", fmt.Sprintf("%d", r.Before)},
		{"Batch size", fmt.Sprintf("%d", r.Batch)},
		{"Added", pterm.LightGreen(fmt.Sprintf("%d", r.Added))},
		{"Dropped (invalid)", fmt.Sprintf("%d", r.Dropped)},
		{"Codes after", fmt.Sprintf("%d", r.After)},
		{"Elapsed", r.Duration.Round(time.Millisecond).String()},
	}

	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

// Summary returns a compact one-line summary
func (r *Result) Summary() string {
	return fmt.Sprintf("Added: %d | Total: %d | Dropped: %d | Time: %s",
		r.Added, r.After, r.Dropped, r.Duration.Round(time.Millisecond))
}
