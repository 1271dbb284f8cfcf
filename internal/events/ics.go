package events

import (
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "eventboard/internal/log"
	"eventboard/internal/model"
)

// BuildCalendar renders evs as an iCalendar feed. Date-only starts become
// all-day events whose DTEND is exclusive. Events with an unparseable start
// are left out.
func BuildCalendar(evs []model.Event, loc *time.Location, stamp time.Time) *ical.Calendar {
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendarFor("eventboard")
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName("eventboard")

	for _, ev := range evs {
		start, err := ParseDate(ev.DateStart, loc)
		if err != nil {
			appLog.Warn("ics: skipping event with bad start", "id", ev.ID, "dateStart", ev.DateStart)
			continue
		}

		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(stamp)
		ve.SetSummary(ev.Title)
		if ev.Place != "" {
			ve.SetLocation(ev.Place)
		}
		for _, tag := range ev.TypeTags {
			ve.AddProperty(ical.ComponentPropertyCategories, tag)
		}

		var end time.Time
		hasEnd := false
		if ev.DateEnd != nil {
			if t, err := ParseDate(*ev.DateEnd, loc); err == nil {
				end, hasEnd = t, true
			}
		}

		if IsDateOnly(ev.DateStart) {
			ve.SetAllDayStartAt(start)
			if !hasEnd {
				end = start
			}
			ve.SetAllDayEndAt(dayOf(end, loc).AddDate(0, 0, 1))
			continue
		}

		ve.SetStartAt(start)
		if hasEnd {
			ve.SetEndAt(end)
		}
	}

	return cal
}
