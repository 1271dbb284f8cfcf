package events

import (
	"fmt"
	"strings"

	appLog "eventboard/internal/log"
	"eventboard/internal/model"
	"eventboard/internal/notion"
)

// DefaultTitle is used for records whose title resolves to nothing.
const DefaultTitle = "Unbenannte Veranstaltung"

// NormalizePage flattens one database row into an Event. It fails only when
// the row has no resolvable start date.
func NormalizePage(page notion.Page, fields notion.Fields) (model.Event, error) {
	props := page.Properties
	text := func(f notion.Field) (string, bool) {
		p, ok := fields.Resolve(props, f)
		if !ok {
			return "", false
		}
		return notion.PlainText(p), true
	}

	dateProp, ok := fields.Resolve(props, notion.FieldDate)
	if !ok {
		return model.Event{}, fmt.Errorf("events: page %s: %w", page.ID, notion.ErrNoDateProperty)
	}
	rng, ok := notion.DateRangeOf(dateProp)
	if !ok {
		return model.Event{}, fmt.Errorf("events: page %s: property %q: %w", page.ID, dateProp.Name, notion.ErrNoDateProperty)
	}

	ev := model.Event{
		ID:        page.ID,
		DateStart: rng.Start,
		DateEnd:   rng.End,
		TypeTags:  []string{},
	}

	ev.Title, _ = text(notion.FieldTitle)
	if ev.Title == "" {
		ev.Title = DefaultTitle
	}
	ev.Language, _ = text(notion.FieldLanguage)
	ev.Time, _ = text(notion.FieldTime)
	ev.Price, _ = text(notion.FieldPrice)

	place, _ := text(notion.FieldPlace)
	ev.Place = strings.TrimSpace(place)

	if status, ok := text(notion.FieldStatus); ok && status != "" {
		ev.Status = &status
	}
	if p, ok := fields.Resolve(props, notion.FieldType); ok {
		ev.TypeTags = notion.Tags(p)
	}

	return ev, nil
}

// Normalize flattens every page, dropping rows without a start date.
func Normalize(pages []notion.Page, fields notion.Fields) []model.Event {
	out := make([]model.Event, 0, len(pages))
	for _, page := range pages {
		ev, err := NormalizePage(page, fields)
		if err != nil {
			appLog.Debug("record skipped", "id", page.ID, "reason", err.Error())
			continue
		}
		out = append(out, ev)
	}
	return out
}
