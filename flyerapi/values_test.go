package flyerapi

import (
	"encoding/json"
	"testing"
)

func TestValueUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{name: "null", input: `null`, want: Value{}},
		{name: "string", input: `"N/A"`, want: Text("N/A")},
		{name: "empty string", input: `""`, want: Text("")},
		{name: "integer", input: `850000`, want: Value{Text: "850000", Num: 850000, IsNum: true, Valid: true}},
		{name: "decimal", input: `2.5`, want: Value{Text: "2.5", Num: 2.5, IsNum: true, Valid: true}},
		{name: "zero", input: `0`, want: Value{Text: "0", Num: 0, IsNum: true, Valid: true}},
		{name: "bool", input: `true`, want: Text("true")},
		{name: "list", input: `[ "a", "b" ]`, want: Text(`["a","b"]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Value
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValueAbsentField(t *testing.T) {
	var p PropertyData
	if err := json.Unmarshal([]byte(`{"price": 1}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Address.Valid {
		t.Error("absent field should not be valid")
	}
}

func TestValueEmpty(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Value{}, true},
		{Text(""), true},
		{Number(0), true},
		{Text("0"), false},
		{Number(3), false},
		{Text("3"), false},
	}
	for _, tt := range tests {
		if got := tt.v.Empty(); got != tt.want {
			t.Errorf("%+v.Empty() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestPairsNullVersusEmpty(t *testing.T) {
	var r AIResult
	if err := json.Unmarshal([]byte(`{"descriptions": {}}`), &r); err != nil {
		t.Fatal(err)
	}
	if r.Descriptions == nil {
		t.Error("{} should decode to a non-nil empty Pairs")
	}
	if r.SocialContent != nil {
		t.Error("absent social_content should stay nil")
	}

	var n AIResult
	if err := json.Unmarshal([]byte(`{"descriptions": null}`), &n); err != nil {
		t.Fatal(err)
	}
	if n.Descriptions != nil {
		t.Error("null should decode to nil Pairs")
	}
}

func TestPairsRejectsNonObject(t *testing.T) {
	var p Pairs
	if err := json.Unmarshal([]byte(`["a"]`), &p); err == nil {
		t.Error("expected error for array input")
	}
}
