package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"aristo/pkg/utils"

	"golang.org/x/oauth2"
)

// TokenStore keeps the OAuth token in a JSON file readable only by the owner
type TokenStore struct {
	path string
}

// NewTokenStore creates a store at path (a leading ~ is expanded)
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: utils.ExpandPath(path)}
}

// Path returns the token file location
func (ts *TokenStore) Path() string {
	return ts.path
}

// Load returns the stored token, or nil when none has been saved
func (ts *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(ts.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("token file %s is corrupt: %w", ts.path, err)
	}
	return &tok, nil
}

// Save writes the token
func (ts *TokenStore) Save(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteFile(ts.path, data)
}

// Clear removes the token file. A missing file is not an error.
func (ts *TokenStore) Clear() error {
	err := os.Remove(ts.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
