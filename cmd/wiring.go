package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aristo/pkg/app"
	"aristo/pkg/auth"
	"aristo/pkg/client"
	"aristo/pkg/codes"
	"aristo/pkg/drive"
	"aristo/pkg/generator"
	"aristo/pkg/printer"
	"aristo/pkg/render"
	"aristo/pkg/reporter"
	"aristo/pkg/syncer"
	"aristo/pkg/utils"

	"github.com/pterm/pterm"
)

// signalContext is canceled on Ctrl-C or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			utils.Warning.Println("\nInterrupt received, stopping...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

func newSession(c *utils.Config) *auth.Session {
	return auth.NewSession(auth.Config{
		ClientID:     c.Auth.ClientID,
		ClientSecret: c.Auth.ClientSecret,
		Scopes:       c.Auth.Scopes,
		TokenFile:    c.Auth.TokenFile,
	}, client.NewBaseHTTPClient(c))
}

// newSyncer builds the Drive-backed syncer from a signed-in session
func newSyncer(ctx context.Context, c *utils.Config, session *auth.Session) (*syncer.Syncer, error) {
	hc, err := session.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	rest := client.NewRestClient(c, hc)
	store := drive.NewClient(rest, drive.WithBaseURLs(c.Drive.APIURL, c.Drive.UploadURL))
	return syncer.NewSyncer(store, syncer.Options{
		FileName: c.Drive.FileName,
		PageSize: c.Drive.PageSize,
		Paginate: c.Drive.Paginate,
	}), nil
}

func newRenderer(c *utils.Config) *render.Renderer {
	return render.NewRenderer(render.Options{
		Label:     c.Print.Label,
		BarWidth:  c.Print.BarWidth,
		BarHeight: c.Print.BarHeight,
	})
}

// newApp wires the application state once per process
func newApp(ctx context.Context, c *utils.Config, status func(string)) (*app.App, *utils.AuditLogger, error) {
	session := newSession(c)
	if err := session.Init(); err != nil {
		utils.Warning.Printf("Could not read stored token: %v\n", err)
	}
	if !session.IsSignedIn() {
		return nil, nil, app.ErrNotSignedIn
	}

	s, err := newSyncer(ctx, c, session)
	if err != nil {
		return nil, nil, err
	}

	audit, err := utils.NewAuditLogger(c.Log.AuditFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open audit log: %w", err)
	}

	deps := app.Deps{
		Session:   session,
		Syncer:    s,
		Generator: generator.NewGenerator(),
		Renderer:  newRenderer(c),
		Printer:   printer.New(c.Print.Command),
		SheetPath: c.Print.Output,
		Status:    status,
		Alert:     utils.PrintAlert,
		Audit:     audit,
	}
	if c.Report.Enabled {
		deps.Recorder = reporter.NewReporter(c.Report.Format, c.Report.Dir)
	}

	a, err := app.New(deps)
	if err != nil {
		audit.Close()
		return nil, nil, err
	}
	return a, audit, nil
}

// statusSpinner turns the status line into a spinner; an empty message
// stops it
func statusSpinner() (func(string), func()) {
	var spinner *pterm.SpinnerPrinter

	stop := func() {
		if spinner != nil {
			spinner.Stop()
			spinner = nil
		}
	}
	status := func(msg string) {
		if msg == "" {
			stop()
			return
		}
		if spinner == nil {
			spinner, _ = pterm.DefaultSpinner.Start(msg)
			return
		}
		spinner.UpdateText(msg)
	}
	return status, stop
}

// loadBatch reads codes from a file, reporting entries that were skipped
func loadBatch(path string) ([]codes.Code, error) {
	lines, err := utils.LoadLines(path)
	if err != nil {
		return nil, fmt.Errorf("load codes: %w", err)
	}
	batch, skipped := codes.ParseBatch(lines)
	if skipped > 0 {
		utils.Warning.Printf("Skipped %d invalid entries in %s\n", skipped, path)
	}
	utils.Info.Printf("Loaded %d codes from %s\n", len(batch), path)
	return batch, nil
}

func printCodes(batch []codes.Code) {
	tableData := pterm.TableData{{"#", "Code"}}
	for i, c := range batch {
		tableData = append(tableData, []string{fmt.Sprintf("%d", i+1), c.String()})
	}
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
