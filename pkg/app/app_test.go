package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"aristo/pkg/codes"
	"aristo/pkg/drive"
	"aristo/pkg/drive/drivetest"
	"aristo/pkg/generator"
	"aristo/pkg/render"
	"aristo/pkg/syncer"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	signedIn  bool
	inits     int
	listeners []func(bool)
}

func (s *fakeSession) Init() error {
	s.inits++
	for _, fn := range s.listeners {
		fn(s.signedIn)
	}
	return nil
}

func (s *fakeSession) IsSignedIn() bool { return s.signedIn }

func (s *fakeSession) Listen(fn func(bool)) { s.listeners = append(s.listeners, fn) }

func (s *fakeSession) set(signedIn bool) {
	s.signedIn = signedIn
	for _, fn := range s.listeners {
		fn(signedIn)
	}
}

type recordingPrinter struct {
	printed []string
	err     error
}

func (p *recordingPrinter) Print(_ context.Context, sheetPath string) error {
	p.printed = append(p.printed, sheetPath)
	return p.err
}

type memRecorder struct {
	runs []*Run
}

func (r *memRecorder) Record(run *Run) error {
	r.runs = append(r.runs, run)
	return nil
}

type harness struct {
	app      *App
	srv      *drivetest.Server
	session  *fakeSession
	printer  *recordingPrinter
	recorder *memRecorder
	statuses []string
	alerts   []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		srv:      drivetest.NewServer(),
		session:  &fakeSession{signedIn: true},
		printer:  &recordingPrinter{},
		recorder: &memRecorder{},
	}
	t.Cleanup(h.srv.Close)

	store := drive.NewClient(resty.New(), drive.WithBaseURLs(h.srv.APIURL(), h.srv.UploadURL()))
	a, err := New(Deps{
		Session:   h.session,
		Syncer:    syncer.NewSyncer(store, syncer.Options{Paginate: true}),
		Generator: generator.NewSeededGenerator(7, 11),
		Renderer:  render.NewRenderer(render.DefaultOptions()),
		Printer:   h.printer,
		SheetPath: filepath.Join(t.TempDir(), "barcodes.html"),
		Status:    func(msg string) { h.statuses = append(h.statuses, msg) },
		Alert:     func(_, msg string) { h.alerts = append(h.alerts, msg) },
		Recorder:  h.recorder,
	})
	require.NoError(t, err)
	h.app = a
	return h
}

func TestNewInitializesSessionOnce(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 1, h.session.inits)
	assert.True(t, h.app.SignedIn())
	assert.Equal(t, DefaultCount, h.app.Count())

	h.session.set(false)
	assert.False(t, h.app.SignedIn())
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestSetCount(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.app.SetCount(5))
	assert.Equal(t, 5, h.app.Count())

	assert.ErrorIs(t, h.app.SetCount(0), ErrInvalidCount)
	assert.ErrorIs(t, h.app.SetCount(MaxCount+1), ErrInvalidCount)
	assert.Equal(t, 5, h.app.Count())
}

func TestGenerateRequiresSignIn(t *testing.T) {
	h := newHarness(t)
	h.session.set(false)

	_, err := h.app.GenerateRandomCodes()
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = h.app.Print(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestGenerateReplacesBatch(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.app.SetCount(3))

	first, err := h.app.GenerateRandomCodes()
	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.Equal(t, first, h.app.Codes())

	second, err := h.app.GenerateRandomCodes()
	require.NoError(t, err)
	assert.Equal(t, second, h.app.Codes())
}

func TestPrintWithoutCodes(t *testing.T) {
	h := newHarness(t)
	_, err := h.app.Print(context.Background())
	assert.ErrorIs(t, err, ErrNoCodes)
}

func TestPrintSyncsThenPrints(t *testing.T) {
	h := newHarness(t)
	h.app.SetCodes([]codes.Code{5, 5, 7})

	run, err := h.app.Print(context.Background())
	require.NoError(t, err)

	assert.True(t, run.Synced())
	assert.True(t, run.Printed)
	assert.Equal(t, 2, run.Sync.Added)
	assert.Empty(t, h.alerts)
	assert.Equal(t, []string{syncer.StatusFetching, syncer.StatusUpdating, ""}, h.statuses)
	assert.Empty(t, h.app.Message())

	require.Len(t, h.printer.printed, 1)
	_, statErr := os.Stat(h.printer.printed[0])
	assert.NoError(t, statErr)

	files := h.srv.FilesNamed(syncer.DefaultFileName)
	require.Len(t, files, 1)
	set, _ := codes.ParseSet(files[0].Content)
	assert.ElementsMatch(t, []codes.Code{5, 7}, set.Codes())

	require.Len(t, h.recorder.runs, 1)
	assert.Equal(t, run.ID, h.recorder.runs[0].ID)
}

func TestPrintProceedsWhenReadFails(t *testing.T) {
	h := newHarness(t)
	h.srv.AddFile(syncer.DefaultFileName, "00000000000005\n", false)
	h.srv.FailDownload = http.StatusServiceUnavailable
	h.app.SetCodes([]codes.Code{7})

	run, err := h.app.Print(context.Background())
	require.NoError(t, err)

	assert.False(t, run.Synced())
	assert.Contains(t, run.SyncError, "error reading file")
	assert.True(t, run.Printed)
	assert.Equal(t, []string{AlertMessage}, h.alerts)
	assert.Len(t, h.printer.printed, 1)

	// status was set by the sync, then cleared after the failure
	require.GreaterOrEqual(t, len(h.statuses), 2)
	assert.Contains(t, h.statuses[len(h.statuses)-2], "Error reading file")
	assert.Equal(t, "", h.statuses[len(h.statuses)-1])
	assert.Empty(t, h.app.Message())

	content, _ := h.srv.Content("file-1")
	assert.Equal(t, "00000000000005\n", content)
}

func TestPrintCommandFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.printer.err = errors.New("printer offline")
	h.app.SetCodes([]codes.Code{9})

	run, err := h.app.Print(context.Background())
	require.NoError(t, err)
	assert.True(t, run.Synced())
	assert.False(t, run.Printed)
	assert.Equal(t, "printer offline", run.PrintError)
}

type failingRenderer struct{}

func (failingRenderer) RenderFile(string, []codes.Code) error { return errors.New("disk full") }

func TestPrintRenderFailure(t *testing.T) {
	printer := &recordingPrinter{}
	a, err := New(Deps{
		Session:   &fakeSession{signedIn: true},
		Generator: generator.NewGenerator(),
		Renderer:  failingRenderer{},
		Printer:   printer,
	})
	require.NoError(t, err)
	a.SetCodes([]codes.Code{1})

	run, err := a.Print(context.Background())
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Contains(t, run.SyncError, "not configured")
	assert.Empty(t, printer.printed)
}
