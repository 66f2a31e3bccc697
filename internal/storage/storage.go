package storage

import (
	"cts/internal/config"
	"cts/internal/domain"
)

// Storage persists and loads run results (e.g. for the results viewer)
type Storage interface {
	Save(output *domain.RunOutput) error
	Load() (*domain.RunOutput, error)
}

// JSONStorage stores the last run in a JSON file under the configured
// output path
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage reading and writing the config's
// output JSON path
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
