package web

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"eventboard/internal/events"
	"eventboard/internal/model"
)

// germanMonths are the upper-cased de-DE short month names.
var germanMonths = [...]string{
	"JAN.", "FEB.", "MÄRZ", "APR.", "MAI", "JUNI",
	"JULI", "AUG.", "SEPT.", "OKT.", "NOV.", "DEZ.",
}

const (
	placeholderDay   = "--"
	languagePending  = "Sprache folgt"
	timePending      = "Zeit folgt"
	priceFree        = "Kostenlos"
	untitledCard     = "Veranstaltung"
	emptyBoardNotice = "Die nächsten Termine werden hier auftauchen …"
)

var germanPrinter = message.NewPrinter(language.German)

// dateParts returns the badge day (two digits) and month of start.
func dateParts(start string, loc *time.Location) (day, month string) {
	t, err := events.ParseDate(start, loc)
	if err != nil {
		return placeholderDay, placeholderDay
	}
	t = t.In(loc)
	return t.Format("02"), germanMonths[t.Month()-1]
}

func languageFlag(lang string) string {
	l := strings.ToLower(lang)
	switch {
	case strings.Contains(l, "deutsch"), strings.Contains(l, "german"):
		return "🇩🇪"
	case strings.Contains(l, "engl"):
		return "🇬🇧"
	default:
		return "🌐"
	}
}

// timeWindow prefers the free-text time and otherwise derives "HH:MM Uhr"
// or "HH:MM - HH:MM Uhr" from the dates. Date-only starts have no time.
func timeWindow(ev model.Event, loc *time.Location) string {
	if t := strings.TrimSpace(ev.Time); t != "" {
		return t
	}
	if events.IsDateOnly(ev.DateStart) {
		return ""
	}
	start, err := events.ParseDate(ev.DateStart, loc)
	if err != nil {
		return ""
	}
	startLabel := start.In(loc).Format("15:04")
	if ev.DateEnd == nil || events.IsDateOnly(*ev.DateEnd) {
		return startLabel + " Uhr"
	}
	end, err := events.ParseDate(*ev.DateEnd, loc)
	if err != nil {
		return startLabel + " Uhr"
	}
	return startLabel + " - " + end.In(loc).Format("15:04") + " Uhr"
}

var priceNoise = regexp.MustCompile(`[^0-9,.\-]`)

// formatPrice renders a numeric price as euros in German notation. Free
// text that is not a number is shown as is.
func formatPrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return priceFree
	}
	cleaned := strings.Replace(priceNoise.ReplaceAllString(raw, ""), ",", ".", 1)
	if cleaned == "" {
		return raw
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return raw
	}
	return germanPrinter.Sprint(number.Decimal(v, number.Scale(2))) + " €"
}
