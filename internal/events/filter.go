package events

import (
	"errors"
	"slices"
	"strings"
	"time"

	"eventboard/internal/model"
)

// DefaultMaxEvents is the size of the published feed.
const DefaultMaxEvents = 6

// Rules decide which normalized events are published.
type Rules struct {
	// AllowedStatuses are matched case-insensitively after trimming. An
	// event without a status never passes.
	AllowedStatuses []string
	// Place must equal the event place, ignoring case.
	Place string
	// DeniedTypes excludes an event when any of its type tags is listed.
	DeniedTypes []string
	MaxEvents   int
	// Location defines "today" and the calendar day of date-only starts.
	// Nil means time.Local.
	Location *time.Location
}

// DefaultRules returns the studio board rules.
func DefaultRules() Rules {
	return Rules{
		AllowedStatuses: []string{"ready", "make ready", "promote"},
		Place:           "studio",
		DeniedTypes:     []string{"event", "internal", "external", "tour"},
		MaxEvents:       DefaultMaxEvents,
		Location:        time.Local,
	}
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

// Select applies the rules to evs and returns the published subset: events
// passing every filter, sorted by start and truncated to MaxEvents. The
// input slice is not modified.
func Select(evs []model.Event, rules Rules, now time.Time) []model.Event {
	loc := rules.location()
	statuses := lowerSet(rules.AllowedStatuses)
	denied := lowerSet(rules.DeniedTypes)
	today := dayOf(now, loc)

	type candidate struct {
		ev    model.Event
		start time.Time
	}
	kept := make([]candidate, 0, len(evs))

	for _, ev := range evs {
		status := strings.ToLower(strings.TrimSpace(ev.StatusText()))
		if _, ok := statuses[status]; status == "" || !ok {
			continue
		}
		if !strings.EqualFold(ev.Place, rules.Place) {
			continue
		}
		if hasDeniedTag(ev.TypeTags, denied) {
			continue
		}
		start, err := ParseDate(ev.DateStart, loc)
		if err != nil {
			continue
		}
		if dayOf(start, loc).Before(today) {
			continue
		}
		kept = append(kept, candidate{ev: ev, start: start})
	}

	slices.SortStableFunc(kept, func(a, b candidate) int {
		return a.start.Compare(b.start)
	})

	if rules.MaxEvents >= 0 && len(kept) > rules.MaxEvents {
		kept = kept[:rules.MaxEvents]
	}

	out := make([]model.Event, 0, len(kept))
	for _, c := range kept {
		out = append(out, c.ev)
	}
	return out
}

func hasDeniedTag(tags []string, denied map[string]struct{}) bool {
	for _, tag := range tags {
		if _, ok := denied[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return true
		}
	}
	return false
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

const dateOnly = "2006-01-02"

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseDate parses a start or end value as delivered by the database:
// RFC3339 with or without fractional seconds, a date-time without offset
// (read in loc), or a bare date, which is midnight of that day in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.ParseInLocation(dateOnly, value, loc)
}

// IsDateOnly reports whether value carries no time of day.
func IsDateOnly(value string) bool {
	_, err := time.Parse(dateOnly, strings.TrimSpace(value))
	return err == nil
}
