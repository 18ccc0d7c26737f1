package drive_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"aristo/pkg/client"
	"aristo/pkg/drive"
	"aristo/pkg/drive/drivetest"
	"aristo/pkg/utils"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(srv *drivetest.Server) *drive.Client {
	rest := resty.New().SetAuthToken("secret")
	return drive.NewClient(rest, drive.WithBaseURLs(srv.APIURL(), srv.UploadURL()))
}

func TestListPaginates(t *testing.T) {
	srv := drivetest.NewServer()
	defer srv.Close()
	srv.AddFile("a.txt", "", false)
	srv.AddFile("b.txt", "", true)
	srv.AddFile("c.txt", "", false)

	c := newClient(srv)
	ctx := context.Background()

	page, err := c.List(ctx, drive.ListOptions{Query: "trashed=false", PageSize: 1})
	require.NoError(t, err)
	require.Len(t, page.Files, 1)
	assert.Equal(t, "a.txt", page.Files[0].Name)
	require.NotEmpty(t, page.NextPageToken)

	page, err = c.List(ctx, drive.ListOptions{Query: "trashed=false", PageSize: 1, PageToken: page.NextPageToken})
	require.NoError(t, err)
	require.Len(t, page.Files, 1)
	assert.Equal(t, "c.txt", page.Files[0].Name)
	assert.Empty(t, page.NextPageToken)
}

func TestCreateDownloadReplace(t *testing.T) {
	srv := drivetest.NewServer()
	defer srv.Close()

	c := newClient(srv)
	ctx := context.Background()

	f, err := c.Create(ctx, drive.CreateRequest{Name: "db.txt", MimeType: drive.MimeTypeText, Parents: []string{drive.RootFolder}})
	require.NoError(t, err)
	require.NotEmpty(t, f.ID)

	content, err := c.Download(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, content)

	require.NoError(t, c.Replace(ctx, f.ID, "00000000000005\n00000000000007", ""))

	content, err = c.Download(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "00000000000005\n00000000000007", content)

	stored := srv.FilesNamed("db.txt")
	require.Len(t, stored, 1)
	assert.Equal(t, []string{"root"}, stored[0].Parents)
	assert.Equal(t, "text/plain", stored[0].MimeType)
}

func TestAPIError(t *testing.T) {
	srv := drivetest.NewServer()
	defer srv.Close()
	srv.FailDownload = http.StatusForbidden

	_, err := newClient(srv).Download(context.Background(), "file-1")
	require.Error(t, err)

	var apiErr *drive.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "download failed", apiErr.Message)
}

func TestUnauthorized(t *testing.T) {
	srv := drivetest.NewServer()
	defer srv.Close()
	srv.Token = "other"

	_, err := newClient(srv).List(context.Background(), drive.ListOptions{})

	var apiErr *drive.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func newRetryingClient(srv *drivetest.Server) *drive.Client {
	cfg := utils.DefaultConfig()
	cfg.HTTP.MaxRetries = 3
	cfg.HTTP.RequestsPerSecond = 0
	rest := client.NewRestClient(cfg, nil).
		SetAuthToken("secret").
		SetRetryWaitTime(time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Millisecond)
	return drive.NewClient(rest, drive.WithBaseURLs(srv.APIURL(), srv.UploadURL()))
}

func TestCreateIsNotRetried(t *testing.T) {
	srv := drivetest.NewServer()
	defer srv.Close()
	srv.FailCreate = http.StatusServiceUnavailable

	_, err := newRetryingClient(srv).Create(context.Background(), drive.CreateRequest{
		Name:     "codes.txt",
		MimeType: drive.MimeTypeText,
	})
	require.Error(t, err)
	assert.Equal(t, 1, srv.Requests("create"))
	assert.Empty(t, srv.FilesNamed("codes.txt"))
}

func TestListIsRetried(t *testing.T) {
	srv := drivetest.NewServer()
	defer srv.Close()
	srv.FailList = http.StatusServiceUnavailable

	_, err := newRetryingClient(srv).List(context.Background(), drive.ListOptions{})
	require.Error(t, err)
	assert.Equal(t, 4, srv.Requests("list"))
}
