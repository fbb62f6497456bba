package flyerapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// Value accepts any JSON scalar and keeps its textual form. The backend mixes
// numbers and sentinel strings ("N/A", "Data unavailable") in the same fields.
type Value struct {
	Text  string
	Num   float64
	IsNum bool
	Valid bool // false when absent or null
}

// Text builds a string value.
func Text(s string) Value { return Value{Text: s, Valid: true} }

// Number builds a numeric value.
func Number(f float64) Value {
	return Value{Text: strconv.FormatFloat(f, 'f', -1, 64), Num: f, IsNum: true, Valid: true}
}

func (v Value) String() string { return v.Text }

// Empty reports whether the value carries nothing worth copying into a form
// field. Numeric zero counts as empty: the backend reports missing counts as 0.
func (v Value) Empty() bool {
	if !v.Valid || v.Text == "" {
		return true
	}
	return v.IsNum && v.Num == 0
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*v = Value{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case 't', 'f':
		var bv bool
		if err := json.Unmarshal(b, &bv); err != nil {
			return err
		}
		*v = Text(strconv.FormatBool(bv))
		return nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*v = Text(buf.String())
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	f, err := num.Float64()
	if err != nil {
		return err
	}
	*v = Value{Text: num.String(), Num: f, IsNum: true, Valid: true}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.Valid:
		return []byte("null"), nil
	case v.IsNum:
		return []byte(v.Text), nil
	}
	return json.Marshal(v.Text)
}

// Pair is one entry of a JSON object whose key order matters for display.
type Pair struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// Pairs decodes a JSON object keeping document order. A null or absent object
// leaves it nil; {} yields a non-nil empty slice.
type Pairs []Pair

func (p *Pairs) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*p = nil
		return nil
	}
	out := Pairs{}
	err := decodeObject(b, func(key string, raw json.RawMessage) error {
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return err
		}
		out = append(out, Pair{Key: key, Value: v})
		return nil
	})
	if err != nil {
		return err
	}
	*p = out
	return nil
}

// Get returns the value stored under key.
func (p Pairs) Get(key string) (Value, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return Value{}, false
}

// SocialEntry is one platform of social content: either plain text or a set of
// named pieces (post, story, hashtags...).
type SocialEntry struct {
	Platform   string `json:"platform"`
	Text       string `json:"text,omitempty"`
	Fields     Pairs  `json:"fields,omitempty"`
	Structured bool   `json:"structured"`
}

// SocialContent keeps platforms in document order.
type SocialContent []SocialEntry

func (s *SocialContent) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*s = nil
		return nil
	}
	out := SocialContent{}
	err := decodeObject(b, func(key string, raw json.RawMessage) error {
		entry := SocialEntry{Platform: key}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			if err := entry.Fields.UnmarshalJSON(trimmed); err != nil {
				return err
			}
			entry.Structured = true
		} else {
			var v Value
			if err := v.UnmarshalJSON(trimmed); err != nil {
				return err
			}
			entry.Text = v.String()
		}
		out = append(out, entry)
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

var errNotObject = errors.New("expected JSON object")

func decodeObject(b []byte, each func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errNotObject
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := each(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
