// Package app holds the state behind the generate and print actions: the
// batch size, the current batch, the status line and the signed-in flag.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"aristo/pkg/codes"
	"aristo/pkg/printer"
	"aristo/pkg/syncer"
	"aristo/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultCount = 18
	MaxCount     = 999

	AlertTitle   = "Cloud sync failed"
	AlertMessage = "An error occurred while trying to sync with the cloud. " +
		"Printing codes that are not stored in the cloud is not recommended."
)

var (
	ErrNotSignedIn  = errors.New("sign in first: run `aristo login`")
	ErrNoCodes      = errors.New("no codes to print: generate a batch first")
	ErrInvalidCount = fmt.Errorf("count must be between 1 and %d", MaxCount)
)

// Session is the part of auth.Session the app reads
type Session interface {
	Init() error
	IsSignedIn() bool
	Listen(fn func(signedIn bool))
}

// Syncer merges a batch into the remote code database
type Syncer interface {
	Sync(ctx context.Context, batch []codes.Code, status syncer.StatusFunc) (*syncer.Result, error)
}

// Generator produces random batches
type Generator interface {
	Generate(count int) []codes.Code
}

// Renderer writes a printable sheet
type Renderer interface {
	RenderFile(path string, batch []codes.Code) error
}

// Recorder stores a finished print run
type Recorder interface {
	Record(run *Run) error
}

// Deps are everything the app needs, built once at startup
type Deps struct {
	Session   Session
	Syncer    Syncer
	Generator Generator
	Renderer  Renderer
	Printer   printer.Printer
	SheetPath string

	// Status shows the current status line; "" clears it
	Status func(msg string)
	// Alert blocks until the user has seen the warning
	Alert func(title, msg string)

	Recorder Recorder           // optional
	Audit    *utils.AuditLogger // optional
}

// App is the application state
type App struct {
	deps Deps

	mu       sync.RWMutex
	count    int
	batch    []codes.Code
	message  string
	signedIn bool
}

// New wires the app to its dependencies and initializes the session once
func New(deps Deps) (*App, error) {
	if deps.Session == nil || deps.Generator == nil || deps.Renderer == nil {
		return nil, errors.New("app: session, generator and renderer are required")
	}
	if deps.SheetPath == "" {
		deps.SheetPath = "barcodes.html"
	}
	if deps.Status == nil {
		deps.Status = func(string) {}
	}
	if deps.Alert == nil {
		deps.Alert = func(string, string) {}
	}
	if deps.Printer == nil {
		deps.Printer = printer.FilePrinter{}
	}
	if deps.Audit == nil {
		deps.Audit = &utils.AuditLogger{SugaredLogger: zap.NewNop().Sugar()}
	}

	a := &App{deps: deps, count: DefaultCount}
	deps.Session.Listen(a.setSignedIn)
	if err := deps.Session.Init(); err != nil {
		return nil, fmt.Errorf("init session: %w", err)
	}
	// the session may have been initialized before we listened
	a.setSignedIn(deps.Session.IsSignedIn())
	return a, nil
}

func (a *App) setSignedIn(signedIn bool) {
	a.mu.Lock()
	a.signedIn = signedIn
	a.mu.Unlock()
}

// SignedIn reports the last state the session announced
func (a *App) SignedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.signedIn
}

// SetCount sets how many codes the next batch holds
func (a *App) SetCount(n int) error {
	if n < 1 || n > MaxCount {
		return ErrInvalidCount
	}
	a.mu.Lock()
	a.count = n
	a.mu.Unlock()
	return nil
}

// Count returns the batch size
func (a *App) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.count
}

// Codes returns a copy of the current batch
func (a *App) Codes() []codes.Code {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]codes.Code(nil), a.batch...)
}

// SetCodes replaces the current batch, e.g. with codes loaded from a file
func (a *App) SetCodes(batch []codes.Code) {
	a.mu.Lock()
	a.batch = append([]codes.Code(nil), batch...)
	a.mu.Unlock()
}

// Message returns the status line
func (a *App) Message() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.message
}

func (a *App) setMessage(msg string) {
	a.mu.Lock()
	a.message = msg
	a.mu.Unlock()
	a.deps.Status(msg)
}

// GenerateRandomCodes replaces the batch with Count fresh codes
func (a *App) GenerateRandomCodes() ([]codes.Code, error) {
	if !a.SignedIn() {
		return nil, ErrNotSignedIn
	}
	batch := a.deps.Generator.Generate(a.Count())
	a.SetCodes(batch)
	return batch, nil
}

// Print syncs the batch to the cloud and then prints it. A failed sync
// raises the alert but never stops the print; only a sheet that could not be
// rendered is returned as an error.
func (a *App) Print(ctx context.Context) (*Run, error) {
	if !a.SignedIn() {
		return nil, ErrNotSignedIn
	}
	batch := a.Codes()
	if len(batch) == 0 {
		return nil, ErrNoCodes
	}

	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Codes:     batch,
		SheetPath: a.deps.SheetPath,
	}
	audit := a.deps.Audit.With("run_id", run.ID, "codes", len(batch))

	result, err := a.sync(ctx, batch)
	if err != nil {
		a.setMessage("")
		run.SyncError = err.Error()
		audit.Warnw("sync failed", "error", err)
		a.deps.Alert(AlertTitle, AlertMessage)
	} else {
		run.Sync = result
		audit.Infow("sync finished",
			"file_id", result.FileID,
			"created", result.Created,
			"added", result.Added,
			"total", result.After,
			"dropped", result.Dropped,
		)
	}

	if err := a.deps.Renderer.RenderFile(run.SheetPath, batch); err != nil {
		audit.Errorw("render failed", "error", err)
		return run, fmt.Errorf("render sheet: %w", err)
	}

	if err := a.deps.Printer.Print(ctx, run.SheetPath); err != nil {
		utils.Warning.Printf("Print command failed: %v\n", err)
		run.PrintError = err.Error()
	} else {
		run.Printed = true
	}
	run.FinishedAt = time.Now()

	if a.deps.Recorder != nil {
		if err := a.deps.Recorder.Record(run); err != nil {
			utils.Warning.Printf("Failed to save report: %v\n", err)
		}
	}
	return run, nil
}

func (a *App) sync(ctx context.Context, batch []codes.Code) (*syncer.Result, error) {
	if a.deps.Syncer == nil {
		return nil, errors.New("cloud sync is not configured")
	}
	return a.deps.Syncer.Sync(ctx, batch, a.setMessage)
}
