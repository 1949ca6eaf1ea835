package util

import (
	"encoding/json"
	"fmt"
	"os"

	"munch-server/models"
)

// ReadFixtureFromJSON loads the mock places API dataset from JSON on disk.
func ReadFixtureFromJSON(filePath string) (*models.Fixture, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var fixture models.Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Fixture: %w", err)
	}
	return &fixture, nil
}

// ReadPlaceFromJSON loads a single Place from JSON on disk.
func ReadPlaceFromJSON(filePath string) (*models.Place, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var p models.Place
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Place: %w", err)
	}
	return &p, nil
}

// ReadIDs loads a slice of ids from JSON on disk.
func ReadIDs(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ids: %w", err)
	}
	return ids, nil
}
