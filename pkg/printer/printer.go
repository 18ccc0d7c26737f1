package printer

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"aristo/pkg/utils"
)

// Printer hands a rendered sheet to whatever prints it
type Printer interface {
	Print(ctx context.Context, sheetPath string) error
}

// FilePrinter leaves the sheet on disk for the user to print by hand
type FilePrinter struct{}

func (FilePrinter) Print(_ context.Context, sheetPath string) error {
	utils.Info.Printf("Sheet ready to print: %s\n", sheetPath)
	return nil
}

// CommandPrinter runs an external command with the sheet path appended,
// e.g. ["lp", "-d", "labels"] or ["xdg-open"]
type CommandPrinter struct {
	Command []string
}

func (p CommandPrinter) Print(ctx context.Context, sheetPath string) error {
	if len(p.Command) == 0 {
		return fmt.Errorf("no print command configured")
	}
	args := append(append([]string{}, p.Command[1:]...), sheetPath)
	out, err := exec.CommandContext(ctx, p.Command[0], args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", p.Command[0], err, out)
	}
	utils.Debug.Printf("%s: %s\n", p.Command[0], out)
	return nil
}

// New picks a printer from the configured command. "open" means the
// platform's default viewer.
func New(command []string) Printer {
	switch {
	case len(command) == 0:
		return FilePrinter{}
	case len(command) == 1 && command[0] == "open":
		return CommandPrinter{Command: OpenCommand()}
	default:
		return CommandPrinter{Command: command}
	}
}

// OpenCommand returns the command that opens a file or URL in the default
// application on this platform
func OpenCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}
