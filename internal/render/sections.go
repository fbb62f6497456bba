package render

import (
	"encoding/json"
	"strings"

	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
)

// Section is one category of AI content. The variants are Descriptions,
// Social and CMA; each has its own template.
type Section interface {
	Kind() string
	templateName() string
}

// Item is a labeled piece of text.
type Item struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type Descriptions struct {
	Items []Item `json:"items"`
}

type Platform struct {
	Name       string `json:"name"`
	Text       string `json:"text,omitempty"`
	Fields     []Item `json:"fields,omitempty"`
	Structured bool   `json:"structured"`
}

type Social struct {
	Platforms []Platform `json:"platforms"`
}

type CMA struct {
	Analysis string `json:"analysis"`
	Metrics  []Item `json:"metrics,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (Descriptions) Kind() string { return "descriptions" }
func (Social) Kind() string       { return "social" }
func (CMA) Kind() string          { return "cma" }

func (Descriptions) templateName() string { return "section_descriptions" }
func (Social) templateName() string       { return "section_social" }
func (CMA) templateName() string          { return "section_cma" }

func (d Descriptions) MarshalJSON() ([]byte, error) {
	type plain Descriptions
	return marshalTagged(d.Kind(), plain(d))
}

func (s Social) MarshalJSON() ([]byte, error) {
	type plain Social
	return marshalTagged(s.Kind(), plain(s))
}

func (c CMA) MarshalJSON() ([]byte, error) {
	type plain CMA
	return marshalTagged(c.Kind(), plain(c))
}

func marshalTagged(kind string, v any) ([]byte, error) {
	return json.Marshal(struct {
		Kind string `json:"kind"`
		Data any    `json:"data"`
	}{kind, v})
}

// Sections converts an AI result into its present variants, always in the
// order descriptions, social, CMA.
func Sections(res *flyerapi.AIResult) []Section {
	if res == nil {
		return nil
	}
	var out []Section
	if res.Descriptions != nil {
		d := Descriptions{Items: make([]Item, 0, len(res.Descriptions))}
		for _, kv := range res.Descriptions {
			d.Items = append(d.Items, Item{Label: strings.ToUpper(kv.Key), Text: kv.Value.String()})
		}
		out = append(out, d)
	}
	if res.SocialContent != nil {
		s := Social{Platforms: make([]Platform, 0, len(res.SocialContent))}
		for _, e := range res.SocialContent {
			p := Platform{Name: strings.ToUpper(e.Platform), Text: e.Text, Structured: e.Structured}
			for _, kv := range e.Fields {
				p.Fields = append(p.Fields, Item{Label: kv.Key, Text: kv.Value.String()})
			}
			s.Platforms = append(s.Platforms, p)
		}
		out = append(out, s)
	}
	if res.CMAAnalysis != nil {
		c := CMA{Analysis: res.CMAAnalysis.Analysis, Error: res.CMAAnalysis.Error}
		for _, kv := range res.CMAAnalysis.Metrics {
			c.Metrics = append(c.Metrics, Item{Label: MetricLabel(kv.Key), Text: kv.Value.String()})
		}
		out = append(out, c)
	}
	return out
}

// MetricLabel turns a metric key such as "price_per_sqft" into "PRICE PER SQFT".
func MetricLabel(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", " "))
}
