package events_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventboard/internal/events"
	"eventboard/internal/notion"
)

// row builds a database row from property JSON fragments, keeping their
// order.
func row(t *testing.T, id string, props ...string) notion.Page {
	t.Helper()
	raw := fmt.Sprintf(`{"id": %q, "properties": {%s}}`, id, strings.Join(props, ","))
	var p notion.Page
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func titleProp(name, text string) string {
	return fmt.Sprintf(`%q: {"type": "title", "title": [{"plain_text": %q}]}`, name, text)
}

func dateProp(name, start string) string {
	return fmt.Sprintf(`%q: {"type": "date", "date": {"start": %q, "end": null}}`, name, start)
}

func selectProp(name, value string) string {
	return fmt.Sprintf(`%q: {"type": "select", "select": {"name": %q}}`, name, value)
}

func statusProp(value string) string {
	return fmt.Sprintf(`"Status": {"type": "status", "status": {"name": %q}}`, value)
}

func tagsProp(name string, tags ...string) string {
	opts := make([]string, 0, len(tags))
	for _, tag := range tags {
		opts = append(opts, fmt.Sprintf(`{"name": %q}`, tag))
	}
	return fmt.Sprintf(`%q: {"type": "multi_select", "multi_select": [%s]}`, name, strings.Join(opts, ","))
}

func textProp(name, text string) string {
	return fmt.Sprintf(`%q: {"type": "rich_text", "rich_text": [{"plain_text": %q}]}`, name, text)
}

func TestNormalizePage(t *testing.T) {
	p := row(t, "abc",
		titleProp("Name", "Siebdruck Workshop"),
		`"Date of delivery": {"type": "date", "date": {"start": "2026-11-02T18:00:00.000+01:00", "end": "2026-11-02T21:00:00.000+01:00"}}`,
		textProp("Uhrzeit", "18 - 21 Uhr"),
		selectProp("Sprache", "Deutsch"),
		`"Preis": {"type": "number", "number": 25}`,
		selectProp("place", "  Studio "),
		tagsProp("Type", "Workshop", " Kids "),
		statusProp("Ready"),
	)

	ev, err := events.NormalizePage(p, notion.DefaultFields())
	require.NoError(t, err)

	assert.Equal(t, "abc", ev.ID)
	assert.Equal(t, "Siebdruck Workshop", ev.Title)
	assert.Equal(t, "2026-11-02T18:00:00.000+01:00", ev.DateStart)
	require.NotNil(t, ev.DateEnd)
	assert.Equal(t, "2026-11-02T21:00:00.000+01:00", *ev.DateEnd)
	assert.Equal(t, "18 - 21 Uhr", ev.Time)
	assert.Equal(t, "Deutsch", ev.Language)
	assert.Equal(t, "25", ev.Price)
	assert.Equal(t, "Studio", ev.Place)
	assert.Equal(t, []string{"Workshop", "Kids"}, ev.TypeTags)
	require.NotNil(t, ev.Status)
	assert.Equal(t, "Ready", *ev.Status)
}

func TestNormalizeDefaults(t *testing.T) {
	p := row(t, "min", dateProp("Datum", "2026-11-02"))

	ev, err := events.NormalizePage(p, notion.DefaultFields())
	require.NoError(t, err)

	assert.Equal(t, events.DefaultTitle, ev.Title)
	assert.Nil(t, ev.DateEnd)
	assert.Nil(t, ev.Status)
	assert.Equal(t, "", ev.Language)
	assert.Equal(t, "", ev.Time)
	assert.Equal(t, "", ev.Price)
	assert.Equal(t, "", ev.Place)
	assert.NotNil(t, ev.TypeTags)
	assert.Empty(t, ev.TypeTags)
}

func TestNormalizeDropsRowsWithoutStart(t *testing.T) {
	fields := notion.DefaultFields()
	pages := []notion.Page{
		row(t, "no-date", titleProp("Name", "Kein Datum"), statusProp("Ready"), selectProp("place", "Studio")),
		row(t, "null-date", titleProp("Name", "Leer"), `"Date": {"type": "date", "date": null}`),
		row(t, "text-date", titleProp("Name", "Text"), textProp("Date", "2026-11-02")),
		row(t, "ok", titleProp("Name", "Gut"), dateProp("Date", "2026-11-02")),
	}

	got := events.Normalize(pages, fields)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)

	_, err := events.NormalizePage(pages[0], fields)
	require.True(t, errors.Is(err, notion.ErrNoDateProperty))
}

func TestNormalizeDateFromFormula(t *testing.T) {
	p := row(t, "f",
		`"Computed": {"type": "formula", "formula": {"type": "date", "date": {"start": "2026-12-01", "end": null}}}`,
	)

	ev, err := events.NormalizePage(p, notion.DefaultFields())
	require.NoError(t, err)
	assert.Equal(t, "2026-12-01", ev.DateStart)
}

func TestNormalizeOverrideWins(t *testing.T) {
	p := row(t, "o",
		titleProp("Name", "Default"),
		textProp("Kurstitel", "Override"),
		dateProp("Date", "2026-11-02"),
	)
	fields := notion.DefaultFields().WithOverrides(map[notion.Field]string{notion.FieldTitle: "Kurstitel"})

	ev, err := events.NormalizePage(p, fields)
	require.NoError(t, err)
	assert.Equal(t, "Override", ev.Title)
}

func TestNormalizeStatusByNameAnyKind(t *testing.T) {
	p := row(t, "sel",
		dateProp("Datum", "2026-11-02"),
		`"status": {"type": "select", "select": {"name": "Make Ready"}}`,
	)
	ev, err := events.NormalizePage(p, notion.DefaultFields())
	require.NoError(t, err)
	require.NotNil(t, ev.Status)
	assert.Equal(t, "Make Ready", *ev.Status)

	p = row(t, "stage",
		dateProp("Datum", "2026-11-02"),
		`"Stage": {"type": "status", "status": {"name": "Ready"}}`,
	)
	ev, err = events.NormalizePage(p, notion.DefaultFields())
	require.NoError(t, err)
	assert.Nil(t, ev.Status)
}
