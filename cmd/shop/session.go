package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
}

// sessionFile keeps the login tokens next to the cart snapshot.
type sessionFile struct {
	path string
}

func newSessionFile(path string) *sessionFile {
	return &sessionFile{path: path}
}

// Load returns the stored session, or ok=false when nobody is logged in.
func (s *sessionFile) Load() (session, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return session{}, false, nil
	}
	if err != nil {
		return session{}, false, err
	}
	var sess session
	if err := json.Unmarshal(data, &sess); err != nil || sess.AccessToken == "" {
		return session{}, false, nil
	}
	return sess, true, nil
}

func (s *sessionFile) Save(sess session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *sessionFile) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
