// Package form holds the flyer form: canonical fields posted to the backend,
// the shared inputs the user types into, and hidden fields injected at runtime.
package form

import (
	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
)

type Field string

const (
	Address        Field = "address"
	Price          Field = "price"
	Bedrooms       Field = "bedrooms"
	Bathrooms      Field = "bathrooms"
	Template       Field = "template"
	Format         Field = "format"
	ListingURL     Field = "zillow-url"
	ZillowImageURL Field = "zillow_image_url"
)

// SharedName is the id of the visible input mirroring a canonical field.
func (f Field) SharedName() string { return "shared-" + string(f) }

// Fields that have a shared counterpart.
var sharedFields = map[Field]bool{Address: true, Price: true, Bedrooms: true, Bathrooms: true}

// Editable reports whether a client may set the field directly.
func Editable(f Field) bool {
	switch f {
	case Template, Format, ListingURL:
		return true
	}
	return false
}

// HasShared reports whether the field has a shared input.
func HasShared(f Field) bool { return sharedFields[f] }

const (
	DefaultTemplate = "modern"
	DefaultFormat   = "flyer"
)

// State is one value per field. It is not safe for concurrent use; the
// owning session serializes access.
type State struct {
	canonical map[Field]string
	shared    map[Field]string
	hidden    map[Field]string
}

func New() *State {
	return &State{
		canonical: map[Field]string{Template: DefaultTemplate, Format: DefaultFormat},
		shared:    map[Field]string{},
		hidden:    map[Field]string{},
	}
}

func (s *State) Get(f Field) string { return s.canonical[f] }

func (s *State) Set(f Field, v string) { s.canonical[f] = v }

func (s *State) Shared(f Field) string { return s.shared[f] }

func (s *State) SetShared(f Field, v string) {
	if sharedFields[f] {
		s.shared[f] = v
	}
}

// Hidden returns an injected hidden field and whether it exists.
func (s *State) Hidden(f Field) (string, bool) {
	v, ok := s.hidden[f]
	return v, ok
}

// InjectHidden creates the hidden field or updates it in place, so repeated
// calls never leave duplicates.
func (s *State) InjectHidden(f Field, v string) { s.hidden[f] = v }

func (s *State) RemoveHidden(f Field) { delete(s.hidden, f) }

// MergeLookup copies background lookup values into shared and canonical
// fields without clobbering: a field is written only when the response has a
// value and the shared input is still empty. It returns the fields written.
func (s *State) MergeLookup(p *flyerapi.PropertyData) []Field {
	if p == nil {
		return nil
	}
	var written []Field
	for _, kv := range []struct {
		field Field
		value flyerapi.Value
	}{
		{Price, p.Price},
		{Bedrooms, p.Bedrooms},
		{Bathrooms, p.Bathrooms},
	} {
		if kv.value.Empty() || s.shared[kv.field] != "" {
			continue
		}
		s.shared[kv.field] = kv.value.String()
		s.canonical[kv.field] = kv.value.String()
		written = append(written, kv.field)
	}
	return written
}

// Overwrite sets the canonical property fields exactly to the imported
// record; absent values clear the field.
func (s *State) Overwrite(p *flyerapi.PropertyData) {
	s.canonical[Address] = valueOrEmpty(p.Address)
	s.canonical[Price] = valueOrEmpty(p.Price)
	s.canonical[Bedrooms] = valueOrEmpty(p.Bedrooms)
	s.canonical[Bathrooms] = valueOrEmpty(p.Bathrooms)
	if p.HasImage() {
		s.InjectHidden(ZillowImageURL, p.MainImageURL)
	} else {
		s.RemoveHidden(ZillowImageURL)
	}
}

func valueOrEmpty(v flyerapi.Value) string {
	if v.Empty() {
		return ""
	}
	return v.String()
}

// FlyerRequest serializes the canonical fields for /generate-flyer.
func (s *State) FlyerRequest() flyerapi.FlyerRequest {
	img, _ := s.Hidden(ZillowImageURL)
	return flyerapi.FlyerRequest{
		Address:        s.canonical[Address],
		Price:          s.canonical[Price],
		Bedrooms:       s.canonical[Bedrooms],
		Bathrooms:      s.canonical[Bathrooms],
		Template:       s.canonical[Template],
		Format:         s.canonical[Format],
		ZillowImageURL: img,
	}
}

// Snapshot is a copy of the form suitable for JSON and templates.
type Snapshot struct {
	Fields map[string]string `json:"fields"`
	Shared map[string]string `json:"shared"`
	Hidden map[string]string `json:"hidden"`
}

func (s *State) Snapshot() Snapshot {
	out := Snapshot{
		Fields: make(map[string]string, len(s.canonical)),
		Shared: make(map[string]string, len(s.shared)),
		Hidden: make(map[string]string, len(s.hidden)),
	}
	for k, v := range s.canonical {
		out.Fields[string(k)] = v
	}
	for k, v := range s.shared {
		out.Shared[k.SharedName()] = v
	}
	for k, v := range s.hidden {
		out.Hidden[string(k)] = v
	}
	return out
}
