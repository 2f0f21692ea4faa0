package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Timetable",
		Headers: []string{"subject", "room", "hours"},
		Rows: []map[string]string{
			{"subject": "Software Engineering", "room": "D23", "hours": "1.0"},
			{"subject": "QA, testing", "room": "C15", "hours": "1.5"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "subject,room,hours\nSoftware Engineering,D23,1.0\n\"QA, testing\",C15,1.5\n", string(out))
}

func TestCSVExporterSeparator(t *testing.T) {
	out, err := NewCSVExporterWithSeparator(';').Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "subject;room;hours\n"))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewJSONExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(sampleDataset())
	require.Len(t, widths, 3)
	var total float64
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pdfUsableWidth, total, 1e-6)
	assert.Greater(t, widths[0], widths[1])
}

func TestJSONExporterKeepsColumnOrder(t *testing.T) {
	out, err := NewJSONExporter().Render(sampleDataset())
	require.NoError(t, err)

	var doc jsonDocument
	require.NoError(t, jsoniter.Unmarshal(out, &doc))
	assert.Equal(t, "Timetable", doc.Title)
	assert.Equal(t, []string{"subject", "room", "hours"}, doc.Columns)
	assert.Equal(t, []string{"QA, testing", "C15", "1.5"}, doc.Rows[1])
}

func TestICSExporterRender(t *testing.T) {
	exporter := NewICSExporter("")
	exporter.now = func() time.Time { return time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC) }

	start := time.Date(2024, 11, 20, 8, 0, 0, 0, time.UTC)
	out, err := exporter.Render("Timetable", []CalendarEvent{
		{UID: "c1", Summary: "Software Engineering", Location: "D23", Organizer: "Mr Oussama", Start: start, End: start.Add(90 * time.Minute)},
		{UID: "c2", Summary: "Undated"},
	})
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:Software Engineering")
	assert.Contains(t, body, "LOCATION:D23")
	assert.Contains(t, body, "DTSTART:20241120T080000Z")
	assert.Contains(t, body, "DTEND:20241120T093000Z")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Equal(t, 1, strings.Count(body, "DTSTART"))
}

func TestICSExporterRequiresUID(t *testing.T) {
	_, err := NewICSExporter("").Render("", []CalendarEvent{{Summary: "no uid"}})
	assert.Error(t, err)
}
