package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/athapong/go-calais/pkg/graph"
	"github.com/pkg/errors"
)

// JSONGraphStore implements graph.Store on a single JSON file
type JSONGraphStore struct {
	filePath string
}

var _ graph.Store = (*JSONGraphStore)(nil)

// NewJSONGraphStore creates a new JSON graph store
func NewJSONGraphStore(filePath string) *JSONGraphStore {
	return &JSONGraphStore{
		filePath: filePath,
	}
}

// StoreGraph writes data as indented JSON, creating parent directories as needed
func (s *JSONGraphStore) StoreGraph(ctx context.Context, data *graph.KnowledgeGraphData) error {
	if data == nil {
		return errors.New("cannot store nil graph")
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", s.filePath)
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding graph")
	}

	return errors.Wrapf(os.WriteFile(s.filePath, encoded, 0644), "writing %s", s.filePath)
}

// LoadGraph reads a graph previously written by StoreGraph
func (s *JSONGraphStore) LoadGraph(ctx context.Context) (*graph.KnowledgeGraphData, error) {
	encoded, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.filePath)
	}

	var data graph.KnowledgeGraphData
	if err := json.Unmarshal(encoded, &data); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", s.filePath)
	}

	return &data, nil
}
