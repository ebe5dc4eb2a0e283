package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for calendar import.
type ImportSchema struct {
	// Project is informational; the target project comes from the command.
	Project string        `json:"project,omitempty"`
	Events  []EventImport `json:"events"`
}

// EventImport defines one calendar event in the import file.
type EventImport struct {
	Title       string   `json:"title"`
	Type        string   `json:"type,omitempty"`
	Date        string   `json:"date"`
	Time        string   `json:"time,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	AssignedTo  []string `json:"assigned_to,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// LoadImportSchema reads and parses a calendar import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
