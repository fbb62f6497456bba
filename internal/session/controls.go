package session

import (
	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
)

type ControlID string

const (
	ControlSubmit       ControlID = "generate-btn"
	ControlDescriptions ControlID = "descriptions-btn"
	ControlSocial       ControlID = "social-content-btn"
	ControlCMA          ControlID = "cma-btn"
	ControlAgent        ControlID = "full-agent-btn"
)

const busyLabel = "Generating..."

// Control is a button whose label and enabled state track its operation.
type Control struct {
	ID       ControlID `json:"id"`
	Label    string    `json:"label"`
	Disabled bool      `json:"disabled"`
}

var controlOrder = []ControlID{ControlSubmit, ControlDescriptions, ControlSocial, ControlCMA, ControlAgent}

var defaultLabels = map[ControlID]string{
	ControlSubmit:       "Generate Professional Flyer",
	ControlDescriptions: "Generate Descriptions",
	ControlSocial:       "Create Social Content",
	ControlCMA:          "Run CMA Analysis",
	ControlAgent:        "Complete Marketing Package",
}

// ContentKind selects one AI content endpoint.
type ContentKind string

const (
	KindDescriptions ContentKind = "descriptions"
	KindSocial       ContentKind = "social"
	KindCMA          ContentKind = "cma"
	KindAgent        ContentKind = "agent"
)

type contentRoute struct {
	endpoint flyerapi.Endpoint
	control  ControlID
	title    string
}

var contentRoutes = map[ContentKind]contentRoute{
	KindDescriptions: {flyerapi.EndpointDescriptions, ControlDescriptions, "Property Descriptions Generated"},
	KindSocial:       {flyerapi.EndpointSocialContent, ControlSocial, "Social Media Content Generated"},
	KindCMA:          {flyerapi.EndpointCMA, ControlCMA, "CMA Analysis Generated"},
	KindAgent:        {flyerapi.EndpointMarketingAgent, ControlAgent, "Complete Marketing Package Generated"},
}

// ParseContentKind validates a kind name from a URL.
func ParseContentKind(s string) (ContentKind, bool) {
	k := ContentKind(s)
	_, ok := contentRoutes[k]
	return k, ok
}

// Kinds lists every content kind in display order.
func Kinds() []ContentKind {
	return []ContentKind{KindDescriptions, KindSocial, KindCMA, KindAgent}
}

// acquire disables the control and shows its busy label. The returned
// release restores the original label and enabled state; callers defer it so
// it runs on every exit path. s.mu must be held.
func (s *Session) acquire(id ControlID) (release func(), err error) {
	c := s.controls[id]
	if c.Disabled {
		return nil, ErrBusy
	}
	original := c.Label
	c.Disabled = true
	c.Label = busyLabel
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		c.Disabled = false
		c.Label = original
	}, nil
}
