package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"investor-education/internal/model"
)

// JSONStore keeps state.json and leaderboard.json in one directory.
type JSONStore struct {
	dir string
}

func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{dir: dir}
}

// Dir returns the directory holding the documents.
func (s *JSONStore) Dir() string { return s.dir }

func (s *JSONStore) path(doc string) string {
	return filepath.Join(s.dir, doc+".json")
}

func (s *JSONStore) LoadState(_ context.Context) (model.StateDocument, error) {
	var doc model.StateDocument
	if err := readJSON(s.path(stateDoc), &doc); err != nil {
		return model.StateDocument{}, err
	}
	return doc, nil
}

func (s *JSONStore) SaveState(_ context.Context, doc model.StateDocument) error {
	return writeJSON(s.path(stateDoc), doc)
}

func (s *JSONStore) LoadLeaderboard(_ context.Context) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	if err := readJSON(s.path(leaderboardDoc), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *JSONStore) SaveLeaderboard(_ context.Context, entries []model.LeaderboardEntry) error {
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return writeJSON(s.path(leaderboardDoc), entries)
}

func (s *JSONStore) Close() error { return nil }

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := encodeDocument(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// encodeDocument renders v as indented JSON without HTML escaping, so names
// and lesson keys are stored as typed.
func encodeDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return buf.Bytes(), nil
}
