package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/ics"
	"github.com/alexanderramin/planboard/internal/testutil"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConvert_MapsFields(t *testing.T) {
	schema := &ImportSchema{
		Events: []EventImport{{
			Title:       "Submit permit",
			Type:        "deadline",
			Date:        "2025-04-05",
			Time:        "09:00",
			Duration:    "1h",
			Location:    "City Hall",
			Description: "Bring drawings",
			Priority:    "high",
			AssignedTo:  []string{"John Smith", " John Smith "},
			Tags:        []string{"city"},
		}},
	}

	drafts, err := Convert(schema)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, "Submit permit", d.Title)
	assert.Equal(t, domain.EventDeadline, d.Type)
	assert.Equal(t, testutil.Date(2025, time.April, 5), d.Date)
	assert.Equal(t, "09:00", d.Time)
	assert.Equal(t, "1h", d.Duration)
	assert.Equal(t, "City Hall", d.Location)
	assert.Equal(t, "Bring drawings", d.Description)
	assert.Equal(t, domain.PriorityHigh, d.Priority)
	assert.Equal(t, []string{"John Smith"}, d.AssignedTo)
	assert.Equal(t, []string{"city"}, d.Tags)
	assert.NoError(t, d.Validate())
}

func TestLoadDrafts_JSON(t *testing.T) {
	path := writeFile(t, "tower.json", `{
	  "project": "tower",
	  "events": [
	    {"title": "Submit permit", "type": "deadline", "date": "2025-04-05"},
	    {"title": "Crew briefing", "date": "2025-04-05", "time": "14:00"}
	  ]
	}`)

	drafts, err := LoadDrafts(path)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Submit permit", drafts[0].Title)
	assert.Equal(t, "14:00", drafts[1].Time)
}

func TestLoadDrafts_InvalidJSONReportsEveryProblem(t *testing.T) {
	path := writeFile(t, "bad.json", `{"events": [{"title": ""}, {"title": "x", "date": "soon"}]}`)

	_, err := LoadDrafts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "events[0].title is required")
	assert.Contains(t, err.Error(), "events[0].date is required")
	assert.Contains(t, err.Error(), `events[1].date: invalid date format "soon"`)
}

func TestLoadDrafts_MalformedJSON(t *testing.T) {
	path := writeFile(t, "broken.json", `{"events": [`)

	_, err := LoadDrafts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")
}

func TestLoadDrafts_ICS(t *testing.T) {
	e := testutil.NewTestEvent("tower", "Topping out",
		testutil.WithEventType(domain.EventMilestone),
		testutil.WithDate(testutil.Date(2025, time.May, 2)),
	)
	path := writeFile(t, "tower.ICS", ics.Export("tower", []domain.CalendarEvent{e}))

	drafts, err := LoadDrafts(path)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Topping out", drafts[0].Title)
	assert.Equal(t, domain.EventMilestone, drafts[0].Type)
}

func TestLoadDrafts_MissingFile(t *testing.T) {
	_, err := LoadDrafts(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
