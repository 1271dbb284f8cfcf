package events_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventboard/internal/events"
	"eventboard/internal/model"
)

var berlin = time.FixedZone("CET", 3600)

// now is mid-afternoon on 2026-10-19 in the board's zone.
var now = time.Date(2026, 10, 19, 15, 30, 0, 0, berlin)

func rules() events.Rules {
	r := events.DefaultRules()
	r.Location = berlin
	return r
}

func eligible(id, start string) model.Event {
	status := "Ready"
	return model.Event{
		ID:        id,
		Title:     id,
		DateStart: start,
		Status:    &status,
		Place:     "Studio",
		TypeTags:  []string{"Workshop"},
	}
}

func ids(evs []model.Event) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.ID)
	}
	return out
}

func TestSelectRetainsEligible(t *testing.T) {
	for _, status := range []string{"Ready", "READY", "ready", " make ready ", "Promote"} {
		for _, place := range []string{"Studio", "STUDIO", "studio"} {
			ev := eligible("e", "2026-10-20")
			ev.Status = &status
			ev.Place = place
			got := events.Select([]model.Event{ev}, rules(), now)
			require.Len(t, got, 1, "status %q place %q", status, place)
		}
	}
}

func TestSelectSingleConditionRemoves(t *testing.T) {
	draft := "Draft"
	blank := ""
	tests := []struct {
		name   string
		mutate func(*model.Event)
	}{
		{name: "status not allowed", mutate: func(e *model.Event) { e.Status = &draft }},
		{name: "status blank", mutate: func(e *model.Event) { e.Status = &blank }},
		{name: "status absent", mutate: func(e *model.Event) { e.Status = nil }},
		{name: "other place", mutate: func(e *model.Event) { e.Place = "Werkstatt" }},
		{name: "place partial", mutate: func(e *model.Event) { e.Place = "Studio 2" }},
		{name: "denied tag", mutate: func(e *model.Event) { e.TypeTags = []string{"Workshop", "Tour"} }},
		{name: "denied tag casing", mutate: func(e *model.Event) { e.TypeTags = []string{" INTERNAL "} }},
		{name: "yesterday", mutate: func(e *model.Event) { e.DateStart = "2026-10-18" }},
		{name: "yesterday late", mutate: func(e *model.Event) { e.DateStart = "2026-10-18T23:59:00+01:00" }},
		{name: "unparseable", mutate: func(e *model.Event) { e.DateStart = "next week" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := eligible("e", "2026-10-20")
			require.Len(t, events.Select([]model.Event{ev}, rules(), now), 1)

			tt.mutate(&ev)
			require.Empty(t, events.Select([]model.Event{ev}, rules(), now))
		})
	}
}

func TestSelectTodayIgnoresTimeOfDay(t *testing.T) {
	evs := []model.Event{
		eligible("morning", "2026-10-19T08:00:00+01:00"),
		eligible("date-only", "2026-10-19"),
		eligible("utc-late", "2026-10-18T23:30:00Z"),
	}

	got := events.Select(evs, rules(), now)
	assert.Equal(t, []string{"date-only", "utc-late", "morning"}, ids(got))
}

func TestSelectSortsAndTruncates(t *testing.T) {
	var evs []model.Event
	for i := 9; i >= 1; i-- {
		evs = append(evs, eligible(fmt.Sprintf("d%d", i), fmt.Sprintf("2026-11-%02dT10:00:00+01:00", i)))
	}
	evs = append(evs, eligible("mixed", "2026-11-01T09:00:00.000+01:00"))

	got := events.Select(evs, rules(), now)
	require.Len(t, got, events.DefaultMaxEvents)
	assert.Equal(t, []string{"mixed", "d1", "d2", "d3", "d4", "d5"}, ids(got))

	for i := 1; i < len(got); i++ {
		prev, err := events.ParseDate(got[i-1].DateStart, berlin)
		require.NoError(t, err)
		cur, err := events.ParseDate(got[i].DateStart, berlin)
		require.NoError(t, err)
		require.False(t, cur.Before(prev))
	}
}

func TestSelectIsStable(t *testing.T) {
	evs := []model.Event{
		eligible("first", "2026-11-01"),
		eligible("second", "2026-11-01T00:00:00+01:00"),
		eligible("third", "2026-11-01"),
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids(events.Select(evs, rules(), now)))
}

func TestSelectEmpty(t *testing.T) {
	got := events.Select(nil, rules(), now)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2026-11-02", want: time.Date(2026, 11, 2, 0, 0, 0, 0, berlin)},
		{in: "2026-11-02T18:00:00Z", want: time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC)},
		{in: "2026-11-02T18:00:00.000+01:00", want: time.Date(2026, 11, 2, 17, 0, 0, 0, time.UTC)},
		{in: "2026-11-02T18:00:00", want: time.Date(2026, 11, 2, 18, 0, 0, 0, berlin)},
		{in: "2026-11-02T18:00", want: time.Date(2026, 11, 2, 18, 0, 0, 0, berlin)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := events.ParseDate(tt.in, berlin)
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "  ", "02.11.2026", "2026-13-01"} {
		_, err := events.ParseDate(bad, berlin)
		require.Error(t, err, bad)
	}
}

func TestIsDateOnly(t *testing.T) {
	assert.True(t, events.IsDateOnly("2026-11-02"))
	assert.False(t, events.IsDateOnly("2026-11-02T18:00:00Z"))
	assert.False(t, events.IsDateOnly(""))
}
