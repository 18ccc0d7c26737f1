package reporter

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"aristo/pkg/app"
	"aristo/pkg/utils"
)

// Reporter writes one report file per print run
type Reporter struct {
	Format string
	Dir    string
}

// NewReporter creates a reporter. Unknown formats fall back to JSON.
func NewReporter(format, dir string) *Reporter {
	return &Reporter{
		Format: format,
		Dir:    dir,
	}
}

// Record writes the run report and satisfies app.Recorder
func (r *Reporter) Record(run *app.Run) error {
	_, err := r.GenerateReport(run)
	return err
}

// GenerateReport writes the report and returns its path
func (r *Reporter) GenerateReport(run *app.Run) (string, error) {
	stamp := run.StartedAt.UTC().Format("20060102T150405Z")
	base := filepath.Join(r.Dir, fmt.Sprintf("run-%s-%s", stamp, shortID(run.ID)))

	switch r.Format {
	case "markdown", "md":
		path := base + ".md"
		return path, utils.WriteFile(path, []byte(r.markdown(run)))
	default:
		path := base + ".json"
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return "", err
		}
		return path, utils.WriteFile(path, data)
	}
}

func (r *Reporter) markdown(run *app.Run) string {
	var b strings.Builder

	b.WriteString("# Print Run Report\n\n")
	fmt.Fprintf(&b, "**Run:** %s\n", run.ID)
	fmt.Fprintf(&b, "**Started:** %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Duration:** %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(&b, "**Sheet:** %s\n\n", run.SheetPath)

	b.WriteString("## Cloud Sync\n\n")
	if run.Synced() {
		fmt.Fprintf(&b, "- **File:** %s (`%s`)\n", run.Sync.FileName, run.Sync.FileID)
		fmt.Fprintf(&b, "- **Created:** %t\n", run.Sync.Created)
		fmt.Fprintf(&b, "- **Added:** %d\n", run.Sync.Added)
		fmt.Fprintf(&b, "- **Total:** %d\n", run.Sync.After)
		fmt.Fprintf(&b, "- **Dropped:** %d\n\n", run.Sync.Dropped)
	} else {
		fmt.Fprintf(&b, "- **FAILED:** %s\n", run.SyncError)
		b.WriteString("- These codes are not stored in the cloud and may be reissued.\n\n")
	}

	b.WriteString("## Print\n\n")
	if run.Printed {
		b.WriteString("- Sent to printer\n\n")
	} else if run.PrintError != "" {
		fmt.Fprintf(&b, "- **FAILED:** %s\n\n", run.PrintError)
	}

	fmt.Fprintf(&b, "## Codes (%d)\n\n", len(run.Codes))
	for _, c := range run.Codes {
		fmt.Fprintf(&b, "- `%s`\n", c)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
