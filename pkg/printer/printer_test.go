package printer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPicksPrinter(t *testing.T) {
	assert.IsType(t, FilePrinter{}, New(nil))
	assert.Equal(t, CommandPrinter{Command: OpenCommand()}, New([]string{"open"}))
	assert.Equal(t, CommandPrinter{Command: []string{"lp", "-d", "labels"}}, New([]string{"lp", "-d", "labels"}))
}

func TestFilePrinter(t *testing.T) {
	assert.NoError(t, FilePrinter{}.Print(context.Background(), "sheet.html"))
}

func TestCommandPrinterRunsCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "sheet.html")
	require.NoError(t, os.WriteFile(src, []byte("<html></html>"), 0600))

	// copy the sheet into a spool directory to stand in for a print queue
	spool := filepath.Join(dir, "spool")
	require.NoError(t, os.Mkdir(spool, 0700))
	p := CommandPrinter{Command: []string{"sh", "-c", `cp "$0" "` + spool + `"`}}
	require.NoError(t, p.Print(context.Background(), src))

	_, err := os.Stat(filepath.Join(spool, "sheet.html"))
	assert.NoError(t, err)
}

func TestCommandPrinterFailure(t *testing.T) {
	p := CommandPrinter{Command: []string{"aristo-no-such-printer"}}
	assert.Error(t, p.Print(context.Background(), "sheet.html"))

	assert.Error(t, CommandPrinter{}.Print(context.Background(), "sheet.html"))
}
