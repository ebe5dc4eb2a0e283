package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Events: []EventImport{
			{Title: "Submit permit", Date: "2025-04-05"},
		},
	}
}

func errStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_ValidFull(t *testing.T) {
	schema := &ImportSchema{
		Project: "tower",
		Events: []EventImport{
			{
				Title:      "Submit permit",
				Type:       "deadline",
				Date:       "2025-04-05",
				Time:       "09:00",
				Status:     "completed",
				Priority:   "high",
				AssignedTo: []string{"John Smith", "Jane Doe"},
				Tags:       []string{"city"},
			},
			{Title: "Topping out", Type: "milestone", Date: "2025-05-02"},
		},
	}
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestValidateImportSchema_NoEvents(t *testing.T) {
	errs := ValidateImportSchema(&ImportSchema{})
	assert.Equal(t, []string{"events: at least one event is required"}, errStrings(errs))
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	schema := &ImportSchema{
		Events: []EventImport{
			{Title: " ", Date: ""},
			{Title: "Bad date", Date: "04/05/2025", Type: "party", Status: "paused", Priority: "urgent"},
			{Title: "People", Date: "2025-04-05", AssignedTo: []string{"Ann", "", "Ann"}},
		},
	}

	assert.Equal(t, []string{
		"events[0].title is required",
		"events[0].date is required",
		`events[1].date: invalid date format "04/05/2025" (expected YYYY-MM-DD)`,
		`events[1].type: invalid value "party"`,
		`events[1].status: invalid value "paused"`,
		`events[1].priority: invalid value "urgent"`,
		"events[2].assigned_to[1] is blank",
		`events[2].assigned_to[2]: duplicate name "Ann"`,
	}, errStrings(ValidateImportSchema(schema)))
}

func TestValidateImportSchema_ImpossibleDate(t *testing.T) {
	schema := validMinimalSchema()
	schema.Events[0].Date = "2025-02-29"
	errs := ValidateImportSchema(schema)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "events[0].date")
}

func TestValidateImportSchema_Time(t *testing.T) {
	schema := validMinimalSchema()
	schema.Events[0].Time = "9:30"
	assert.Empty(t, ValidateImportSchema(schema), "unpadded hours are accepted")

	schema.Events[0].Time = "half nine"
	assert.Equal(t, []string{
		`events[0].time: invalid time "half nine" (expected HH:MM)`,
	}, errStrings(ValidateImportSchema(schema)))
}
