// Package drive is a minimal Google Drive v3 REST client covering the four
// calls the code database needs: list, create, download and media upload.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultAPIURL    = "https://www.googleapis.com/drive/v3"
	DefaultUploadURL = "https://www.googleapis.com/upload/drive/v3"

	MimeTypeText = "text/plain"
	RootFolder   = "root"
)

// File is the subset of Drive file metadata the client reads
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Trashed  bool   `json:"trashed,omitempty"`
}

// FileList is one page of a files.list response
type FileList struct {
	Files         []*File `json:"files"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// ListOptions maps to files.list query parameters
type ListOptions struct {
	Query     string
	Fields    string
	PageSize  int
	PageToken string
}

// CreateRequest is the metadata body of files.create
type CreateRequest struct {
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType,omitempty"`
	Parents  []string `json:"parents,omitempty"`
}

// APIError is a non-2xx Drive response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("drive: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("drive: HTTP %d: %s", e.StatusCode, e.Message)
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the Drive REST API through an authorized resty client
type Client struct {
	rest      *resty.Client
	apiURL    string
	uploadURL string
}

// Option customizes a Client
type Option func(*Client)

// WithBaseURLs points the client at another server, e.g. httptest
func WithBaseURLs(apiURL, uploadURL string) Option {
	return func(c *Client) {
		if apiURL != "" {
			c.apiURL = strings.TrimSuffix(apiURL, "/")
		}
		if uploadURL != "" {
			c.uploadURL = strings.TrimSuffix(uploadURL, "/")
		}
	}
}

// NewClient creates a Drive client. rest must already carry credentials.
func NewClient(rest *resty.Client, opts ...Option) *Client {
	c := &Client{
		rest:      rest,
		apiURL:    DefaultAPIURL,
		uploadURL: DefaultUploadURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns one page of files matching opts
func (c *Client) List(ctx context.Context, opts ListOptions) (*FileList, error) {
	params := map[string]string{}
	if opts.Query != "" {
		params["q"] = opts.Query
	}
	if opts.Fields != "" {
		params["fields"] = opts.Fields
	}
	if opts.PageSize > 0 {
		params["pageSize"] = strconv.Itoa(opts.PageSize)
	}
	if opts.PageToken != "" {
		params["pageToken"] = opts.PageToken
	}

	var list FileList
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&list).
		Get(c.apiURL + "/files")
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return &list, nil
}

// Create makes a new empty file and returns its metadata (at least the id)
func (c *Client) Create(ctx context.Context, req CreateRequest) (*File, error) {
	var file File
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("fields", "id").
		SetBody(req).
		SetResult(&file).
		Post(c.apiURL + "/files")
	if err != nil {
		return nil, fmt.Errorf("create %q: %w", req.Name, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, fmt.Errorf("create %q: %w", req.Name, err)
	}
	if file.ID == "" {
		return nil, fmt.Errorf("create %q: response has no file id", req.Name)
	}
	return &file, nil
}

// Download returns the full file content as text
func (c *Client) Download(ctx context.Context, fileID string) (string, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("fileId", fileID).
		SetQueryParam("alt", "media").
		Get(c.apiURL + "/files/{fileId}")
	if err != nil {
		return "", fmt.Errorf("download %s: %w", fileID, err)
	}
	if err := checkResponse(resp); err != nil {
		return "", fmt.Errorf("download %s: %w", fileID, err)
	}
	return string(resp.Body()), nil
}

// Replace overwrites the whole file content with a media upload
func (c *Client) Replace(ctx context.Context, fileID, content, contentType string) error {
	if contentType == "" {
		contentType = MimeTypeText
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("fileId", fileID).
		SetQueryParam("uploadType", "media").
		SetHeader("Content-Type", contentType).
		SetBody([]byte(content)).
		Patch(c.uploadURL + "/files/{fileId}")
	if err != nil {
		return fmt.Errorf("upload %s: %w", fileID, err)
	}
	if err := checkResponse(resp); err != nil {
		return fmt.Errorf("upload %s: %w", fileID, err)
	}
	return nil
}

func checkResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Error.Message != "" {
		apiErr.Message = env.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(http.StatusText(resp.StatusCode()))
	}
	return apiErr
}
