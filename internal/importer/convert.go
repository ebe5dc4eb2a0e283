package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/ics"
)

// Convert transforms a validated ImportSchema into drafts ready for creation.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) ([]calendar.Draft, error) {
	drafts := make([]calendar.Draft, 0, len(schema.Events))
	for i, e := range schema.Events {
		date, err := domain.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing events[%d].date: %w", i, err)
		}
		d := calendar.Draft{
			Title:       e.Title,
			Type:        domain.EventType(e.Type),
			Date:        date,
			Time:        e.Time,
			Duration:    e.Duration,
			Location:    e.Location,
			Description: e.Description,
			Status:      domain.EventStatus(e.Status),
			Priority:    domain.Priority(e.Priority),
			Tags:        e.Tags,
		}
		for _, name := range e.AssignedTo {
			d.AddAssignee(name)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// LoadDrafts reads an import file into drafts. Files ending in .ics are
// parsed as iCalendar; anything else as the JSON import schema. All
// problems in a JSON file are reported together.
func LoadDrafts(path string) ([]calendar.Draft, error) {
	if strings.EqualFold(filepath.Ext(path), ".ics") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ics.Parse(f)
	}

	schema, err := LoadImportSchema(path)
	if err != nil {
		return nil, err
	}
	if errs := ValidateImportSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid import file:\n%w", errors.Join(errs...))
	}
	return Convert(schema)
}
