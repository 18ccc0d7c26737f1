package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aristo/pkg/codes"
	"aristo/pkg/drive"
)

const (
	DefaultFileName = "aristo-unique-codes.txt"
	DefaultPageSize = 100

	listFields = "nextPageToken, files(id, name, trashed)"
	listQuery  = "trashed=false"
)

// Status messages shown while a sync runs
const (
	StatusFetching    = "Fetching database..."
	StatusUpdating    = "Updating database..."
	statusCreateError = "Error creating database file, %v"
	statusReadError   = "Error reading file, %v"
	statusWriteError  = "Error updating database file, %v"
)

var (
	ErrCreate = errors.New("error creating database file")
	ErrRead   = errors.New("error reading file")
	ErrWrite  = errors.New("error updating database file")
)

// Store is the remote file API the syncer needs. *drive.Client satisfies it.
type Store interface {
	List(ctx context.Context, opts drive.ListOptions) (*drive.FileList, error)
	Create(ctx context.Context, req drive.CreateRequest) (*drive.File, error)
	Download(ctx context.Context, fileID string) (string, error)
	Replace(ctx context.Context, fileID, content, contentType string) error
}

// StatusFunc receives a human readable progress line. An empty string
// clears the previous one.
type StatusFunc func(msg string)

// Options configures a Syncer
type Options struct {
	FileName string
	PageSize int
	// Paginate follows nextPageToken until the file is found. When false only
	// the first page is scanned and a file beyond it is never seen.
	Paginate bool
}

// Syncer merges generated batches into the remote code database file
type Syncer struct {
	store Store
	opts  Options
}

// NewSyncer creates a syncer
func NewSyncer(store Store, opts Options) *Syncer {
	if opts.FileName == "" {
		opts.FileName = DefaultFileName
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Syncer{store: store, opts: opts}
}

// FileName returns the remote database file name
func (s *Syncer) FileName() string {
	return s.opts.FileName
}

// Sync merges batch into the remote code set and overwrites the file with
// the result. Progress goes to status, which may be nil. There is no retry
// and no rollback; the last writer wins.
func (s *Syncer) Sync(ctx context.Context, batch []codes.Code, status StatusFunc) (*Result, error) {
	if status == nil {
		status = func(string) {}
	}
	start := time.Now()
	result := &Result{FileName: s.opts.FileName}

	status(StatusFetching)
	file, err := s.find(ctx)
	if err != nil {
		return nil, err
	}

	if file == nil {
		file, err = s.store.Create(ctx, drive.CreateRequest{
			Name:     s.opts.FileName,
			MimeType: drive.MimeTypeText,
			Parents:  []string{drive.RootFolder},
		})
		if err != nil {
			status(fmt.Sprintf(statusCreateError, err))
			return nil, fmt.Errorf("%w: %w", ErrCreate, err)
		}
		result.Created = true
	}
	result.FileID = file.ID

	content, err := s.store.Download(ctx, file.ID)
	if err != nil {
		status(fmt.Sprintf(statusReadError, err))
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	set, stats := codes.Merge(content, batch)
	result.MergeStats = stats

	status(StatusUpdating)
	if err := s.store.Replace(ctx, file.ID, set.Serialize(), drive.MimeTypeText); err != nil {
		status(fmt.Sprintf(statusWriteError, err))
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	status("")
	result.Duration = time.Since(start)
	return result, nil
}

// find scans non-trashed files for the database file name. A nil file with
// a nil error means the file does not exist yet.
func (s *Syncer) find(ctx context.Context) (*drive.File, error) {
	opts := drive.ListOptions{
		Query:    listQuery,
		Fields:   listFields,
		PageSize: s.opts.PageSize,
	}

	for {
		list, err := s.store.List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range list.Files {
			if f.Name == s.opts.FileName && !f.Trashed {
				return f, nil
			}
		}
		if !s.opts.Paginate || list.NextPageToken == "" {
			return nil, nil
		}
		opts.PageToken = list.NextPageToken
	}
}
