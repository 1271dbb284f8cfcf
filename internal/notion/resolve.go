package notion

import (
	"errors"
	"slices"
	"strings"
)

// ErrNoDateProperty is returned when a page has no resolvable start date.
var ErrNoDateProperty = errors.New("no date property")

// Field names a normalized event field fed from the property bag.
type Field string

const (
	FieldTitle    Field = "title"
	FieldDate     Field = "date"
	FieldTime     Field = "time"
	FieldLanguage Field = "language"
	FieldPrice    Field = "price"
	FieldPlace    Field = "place"
	FieldType     Field = "type"
	FieldStatus   Field = "status"
)

// FieldSpec tells Resolve where to look for one field: the candidate
// property names in priority order, then the kinds accepted when no name
// matches.
type FieldSpec struct {
	Field   Field
	Aliases []string
	Kinds   []Kind
}

// WithOverride returns a copy of s with name tried before the built-in
// aliases. Blank names are ignored.
func (s FieldSpec) WithOverride(name string) FieldSpec {
	name = strings.TrimSpace(name)
	out := FieldSpec{
		Field: s.Field,
		Kinds: slices.Clone(s.Kinds),
	}
	if name != "" {
		out.Aliases = append([]string{name}, s.Aliases...)
	} else {
		out.Aliases = slices.Clone(s.Aliases)
	}
	return out
}

// Fields is an ordered list of field specifications.
type Fields []FieldSpec

// DefaultFields returns the built-in guesses for every field.
func DefaultFields() Fields {
	return Fields{
		{Field: FieldTitle, Aliases: []string{"Title", "Name"}, Kinds: []Kind{KindTitle}},
		{Field: FieldDate, Aliases: []string{"Date of delivery", "Date of Delivery", "Date", "Datum", "Event Date"}, Kinds: []Kind{KindDate, KindFormula}},
		{Field: FieldTime, Aliases: []string{"Time", "Uhrzeit", "Event Time"}, Kinds: []Kind{KindRichText, KindTitle}},
		{Field: FieldLanguage, Aliases: []string{"Language", "Sprache", "Lang"}, Kinds: []Kind{KindRichText, KindSelect, KindMultiSelect}},
		{Field: FieldPrice, Aliases: []string{"Price", "Preis", "Kosten", "Fee"}, Kinds: []Kind{KindRichText, KindNumber, KindFormula}},
		{Field: FieldPlace, Aliases: []string{"place", "location"}, Kinds: []Kind{KindSelect}},
		{Field: FieldType, Aliases: []string{"Type", "type"}, Kinds: []Kind{KindMultiSelect}},
		{Field: FieldStatus, Aliases: []string{"Status"}},
	}
}

// WithOverrides returns a copy of fs where each field named in overrides
// tries the operator supplied property name first.
func (fs Fields) WithOverrides(overrides map[Field]string) Fields {
	out := make(Fields, 0, len(fs))
	for _, s := range fs {
		out = append(out, s.WithOverride(overrides[s.Field]))
	}
	return out
}

// Spec returns the lookup rules for f.
func (fs Fields) Spec(f Field) (FieldSpec, bool) {
	for _, s := range fs {
		if s.Field == f {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// Resolve looks up field f in props.
func (fs Fields) Resolve(props Properties, f Field) (Property, bool) {
	s, ok := fs.Spec(f)
	if !ok {
		return Property{}, false
	}
	return Resolve(props, s.Aliases, s.Kinds)
}

// Resolve returns the first property whose name equals one of names
// (case-insensitive, tried in order). Only when no name matches does it
// fall back to the first property, in payload order, whose kind is in kinds.
func Resolve(props Properties, names []string, kinds []Kind) (Property, bool) {
	for _, name := range names {
		for _, p := range props {
			if strings.EqualFold(p.Name, name) {
				return p, true
			}
		}
	}
	if len(kinds) == 0 {
		return Property{}, false
	}
	for _, p := range props {
		if slices.Contains(kinds, p.Kind) {
			return p, true
		}
	}
	return Property{}, false
}
