package notion

import (
	"bytes"
	"encoding/json"
)

// Kind is the declared type of a database property.
type Kind string

const (
	KindTitle       Kind = "title"
	KindRichText    Kind = "rich_text"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi_select"
	KindNumber      Kind = "number"
	KindFormula     Kind = "formula"
	KindDate        Kind = "date"
	KindStatus      Kind = "status"
)

// Value is the decoded payload of a property. It is one of Text, Select,
// MultiSelect, Number, Formula, Date, Status or Unsupported.
type Value interface {
	isValue()
}

// RichText is a single run of a title or rich_text property.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// Option is a select, multi-select or status choice.
type Option struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateRange is a date property payload. Start and End hold either a date
// ("2006-01-02") or an ISO 8601 date-time.
type DateRange struct {
	Start    string  `json:"start"`
	End      *string `json:"end"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// FormulaResult is the computed value of a formula property.
type FormulaResult struct {
	Type    string     `json:"type"`
	String  *string    `json:"string,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Date    *DateRange `json:"date,omitempty"`
}

type (
	// Text covers both title and rich_text properties.
	Text        struct{ Runs []RichText }
	Select      struct{ Option *Option }
	MultiSelect struct{ Options []Option }
	Number      struct{ Value *float64 }
	Formula     struct{ Result *FormulaResult }
	Date        struct{ Range *DateRange }
	Status      struct{ Option *Option }
	// Unsupported is any kind this package does not decode, or a payload
	// that did not match its declared kind.
	Unsupported struct{}
)

func (Text) isValue()        {}
func (Select) isValue()      {}
func (MultiSelect) isValue() {}
func (Number) isValue()      {}
func (Formula) isValue()     {}
func (Date) isValue()        {}
func (Status) isValue()      {}
func (Unsupported) isValue() {}

// Property is one named entry of a page's property bag.
type Property struct {
	Name  string
	ID    string
	Kind  Kind
	Value Value
}

type decodeFunc func(raw json.RawMessage) (Value, error)

var decoders = map[Kind]decodeFunc{
	KindTitle:       decodeText,
	KindRichText:    decodeText,
	KindSelect:      decodeSelect,
	KindMultiSelect: decodeMultiSelect,
	KindNumber:      decodeNumber,
	KindFormula:     decodeFormula,
	KindDate:        decodeDate,
	KindStatus:      decodeStatus,
}

func decodeText(raw json.RawMessage) (Value, error) {
	var runs []RichText
	if err := json.Unmarshal(raw, &runs); err != nil {
		return nil, err
	}
	return Text{Runs: runs}, nil
}

func decodeSelect(raw json.RawMessage) (Value, error) {
	var opt *Option
	if err := json.Unmarshal(raw, &opt); err != nil {
		return nil, err
	}
	return Select{Option: opt}, nil
}

func decodeMultiSelect(raw json.RawMessage) (Value, error) {
	var opts []Option
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, err
	}
	return MultiSelect{Options: opts}, nil
}

func decodeNumber(raw json.RawMessage) (Value, error) {
	var n *float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	return Number{Value: n}, nil
}

func decodeFormula(raw json.RawMessage) (Value, error) {
	var res *FormulaResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return Formula{Result: res}, nil
}

func decodeDate(raw json.RawMessage) (Value, error) {
	var rng *DateRange
	if err := json.Unmarshal(raw, &rng); err != nil {
		return nil, err
	}
	return Date{Range: rng}, nil
}

func decodeStatus(raw json.RawMessage) (Value, error) {
	var opt *Option
	if err := json.Unmarshal(raw, &opt); err != nil {
		return nil, err
	}
	return Status{Option: opt}, nil
}

// decodeProperty never fails: anything unexpected becomes Unsupported.
func decodeProperty(name string, raw json.RawMessage) Property {
	p := Property{Name: name, Value: Unsupported{}}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return p
	}

	var id, kind string
	_ = json.Unmarshal(fields["id"], &id)
	_ = json.Unmarshal(fields["type"], &kind)
	p.ID = id
	p.Kind = Kind(kind)

	dec, ok := decoders[p.Kind]
	if !ok {
		return p
	}
	payload, ok := fields[kind]
	if !ok {
		return p
	}
	v, err := dec(payload)
	if err != nil {
		return p
	}
	p.Value = v
	return p
}

// Properties is a page's property bag in payload order.
type Properties []Property

// UnmarshalJSON decodes a JSON object keeping the key order, which the
// kind-based fallback of Resolve depends on. Anything other than an object
// decodes to an empty bag.
func (ps *Properties) UnmarshalJSON(b []byte) error {
	*ps = nil

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	var out Properties
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, decodeProperty(key, raw))
	}
	*ps = out
	return nil
}

// Names lists the property names in payload order.
func (ps Properties) Names() []string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return names
}

// Page is one row of the queried database.
type Page struct {
	ID         string     `json:"id"`
	Properties Properties `json:"properties"`
}
