package notion

import (
	"strconv"
	"strings"
)

// PlainText converts a property into a display string. Unresolved or
// unsupported properties yield "".
func PlainText(p Property) string {
	switch v := p.Value.(type) {
	case Text:
		return joinRuns(v.Runs)
	case Select:
		return optionName(v.Option)
	case Status:
		return optionName(v.Option)
	case MultiSelect:
		names := make([]string, 0, len(v.Options))
		for _, o := range v.Options {
			names = append(names, o.Name)
		}
		return strings.Join(names, ", ")
	case Number:
		if v.Value == nil {
			return ""
		}
		return formatNumber(*v.Value)
	case Formula:
		return formulaText(v.Result)
	default:
		return ""
	}
}

// DateRangeOf returns the date range of a date property or of a formula
// whose result is a date. ok is false when there is no usable start.
func DateRangeOf(p Property) (DateRange, bool) {
	var rng *DateRange
	switch v := p.Value.(type) {
	case Date:
		rng = v.Range
	case Formula:
		if v.Result != nil && v.Result.Type == "date" {
			rng = v.Result.Date
		}
	}
	if rng == nil || rng.Start == "" {
		return DateRange{}, false
	}
	return *rng, true
}

// Tags returns the trimmed, non-empty option names of a multi-select
// property. Any other kind yields an empty list.
func Tags(p Property) []string {
	tags := []string{}
	ms, ok := p.Value.(MultiSelect)
	if !ok {
		return tags
	}
	for _, o := range ms.Options {
		if name := strings.TrimSpace(o.Name); name != "" {
			tags = append(tags, name)
		}
	}
	return tags
}

func joinRuns(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return strings.TrimSpace(b.String())
}

func optionName(o *Option) string {
	if o == nil {
		return ""
	}
	return o.Name
}

// formulaText recurses one level into the formula result.
func formulaText(res *FormulaResult) string {
	if res == nil {
		return ""
	}
	switch res.Type {
	case "string":
		if res.String == nil {
			return ""
		}
		return *res.String
	case "number":
		if res.Number == nil {
			return ""
		}
		return formatNumber(*res.Number)
	case "date":
		if res.Date == nil {
			return ""
		}
		return res.Date.Start
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
