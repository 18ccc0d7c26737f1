// Package drivetest provides an in-memory Drive v3 server for tests.
package drivetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// File is a stored file
type File struct {
	ID       string
	Name     string
	MimeType string
	Parents  []string
	Trashed  bool
	Content  string
}

// Server fakes the list, create, media download and media upload endpoints.
// Set a Fail* field to a status code to make that endpoint fail.
type Server struct {
	*httptest.Server

	// Token, when set, is required as a bearer token on every request
	Token string

	FailList     int
	FailCreate   int
	FailDownload int
	FailReplace  int

	mu       sync.Mutex
	files    []*File
	nextID   int
	requests map[string]int
}

// NewServer starts a fake Drive server
func NewServer() *Server {
	s := &Server{requests: make(map[string]int)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /drive/v3/files", s.handleList)
	mux.HandleFunc("POST /drive/v3/files", s.handleCreate)
	mux.HandleFunc("GET /drive/v3/files/{id}", s.handleDownload)
	mux.HandleFunc("PATCH /upload/drive/v3/files/{id}", s.handleReplace)

	s.Server = httptest.NewServer(s.authorize(mux))
	return s
}

// APIURL is the metadata endpoint base
func (s *Server) APIURL() string {
	return s.URL + "/drive/v3"
}

// UploadURL is the media upload endpoint base
func (s *Server) UploadURL() string {
	return s.URL + "/upload/drive/v3"
}

// AddFile seeds a file and returns its id
func (s *Server) AddFile(name, content string, trashed bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.newFile(name)
	f.Content = content
	f.Trashed = trashed
	return f.ID
}

// FilesNamed returns every stored file with the given name
func (s *Server) FilesNamed(name string) []File {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []File
	for _, f := range s.files {
		if f.Name == name {
			out = append(out, *f)
		}
	}
	return out
}

// Content returns the content of a file by id
func (s *Server) Content(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.lookup(id)
	if f == nil {
		return "", false
	}
	return f.Content, true
}

// Requests returns how many times an operation was called:
// "list", "create", "download" or "replace"
func (s *Server) Requests(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[op]
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
			writeError(w, http.StatusUnauthorized, "Invalid Credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests["list"]++

	if s.FailList != 0 {
		writeError(w, s.FailList, "list failed")
		return
	}

	onlyLive := strings.Contains(r.URL.Query().Get("q"), "trashed=false")
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 {
		pageSize = 100
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("pageToken"))

	var matched []*File
	for _, f := range s.files {
		if onlyLive && f.Trashed {
			continue
		}
		matched = append(matched, f)
	}

	type item struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Trashed bool   `json:"trashed"`
	}
	resp := struct {
		Files         []item `json:"files"`
		NextPageToken string `json:"nextPageToken,omitempty"`
	}{Files: []item{}}

	end := min(offset+pageSize, len(matched))
	for _, f := range matched[min(offset, len(matched)):end] {
		resp.Files = append(resp.Files, item{ID: f.ID, Name: f.Name, Trashed: f.Trashed})
	}
	if end < len(matched) {
		resp.NextPageToken = strconv.Itoa(end)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests["create"]++

	if s.FailCreate != 0 {
		writeError(w, s.FailCreate, "create failed")
		return
	}

	var req struct {
		Name     string   `json:"name"`
		MimeType string   `json:"mimeType"`
		Parents  []string `json:"parents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "bad metadata")
		return
	}

	f := s.newFile(req.Name)
	f.MimeType = req.MimeType
	f.Parents = req.Parents
	writeJSON(w, http.StatusOK, map[string]string{"id": f.ID})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests["download"]++

	if s.FailDownload != 0 {
		writeError(w, s.FailDownload, "download failed")
		return
	}
	if r.URL.Query().Get("alt") != "media" {
		writeError(w, http.StatusBadRequest, "only alt=media is supported")
		return
	}

	f := s.lookup(r.PathValue("id"))
	if f == nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, f.Content)
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests["replace"]++

	if s.FailReplace != 0 {
		writeError(w, s.FailReplace, "upload failed")
		return
	}
	if r.URL.Query().Get("uploadType") != "media" {
		writeError(w, http.StatusBadRequest, "only uploadType=media is supported")
		return
	}

	f := s.lookup(r.PathValue("id"))
	if f == nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.Content = string(body)
	writeJSON(w, http.StatusOK, map[string]string{"id": f.ID, "name": f.Name})
}

func (s *Server) newFile(name string) *File {
	s.nextID++
	f := &File{ID: fmt.Sprintf("file-%d", s.nextID), Name: name}
	s.files = append(s.files, f)
	return f
}

func (s *Server) lookup(id string) *File {
	for _, f := range s.files {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": msg},
	})
}
