package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if len(schema.Events) == 0 {
		errs = append(errs, fmt.Errorf("events: at least one event is required"))
	}
	for i, e := range schema.Events {
		errs = append(errs, validateEvent(fmt.Sprintf("events[%d]", i), e)...)
	}

	return errs
}

func validateEvent(prefix string, e EventImport) []error {
	var errs []error

	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if e.Date == "" {
		errs = append(errs, fmt.Errorf("%s.date is required", prefix))
	} else if _, err := domain.ParseDate(e.Date); err != nil {
		errs = append(errs, fmt.Errorf("%s.date: invalid date format %q (expected YYYY-MM-DD)", prefix, e.Date))
	}

	if _, err := domain.ParseClock(e.Time); err != nil {
		errs = append(errs, fmt.Errorf("%s.time: invalid time %q (expected HH:MM)", prefix, e.Time))
	}
	if e.Type != "" && !domain.EventType(e.Type).Known() {
		errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, e.Type))
	}
	if e.Status != "" && !domain.EventStatus(e.Status).Known() {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, e.Status))
	}
	if e.Priority != "" && !domain.Priority(e.Priority).Known() {
		errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, e.Priority))
	}

	seen := make(map[string]bool, len(e.AssignedTo))
	for j, name := range e.AssignedTo {
		name = strings.TrimSpace(name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("%s.assigned_to[%d] is blank", prefix, j))
		case seen[name]:
			errs = append(errs, fmt.Errorf("%s.assigned_to[%d]: duplicate name %q", prefix, j, name))
		}
		seen[name] = true
	}

	return errs
}
