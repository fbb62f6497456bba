package render

import (
	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
)

// Line is one label/value row of an insight section.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Insights groups the generation result's optional records for display.
type Insights struct {
	Financial []Line `json:"financial,omitempty"`
	Market    []Line `json:"market,omitempty"`
	Location  []Line `json:"location,omitempty"`
}

// Empty reports whether no section has a line.
func (in Insights) Empty() bool {
	return len(in.Financial) == 0 && len(in.Market) == 0 && len(in.Location) == 0
}

type lineSpec struct {
	label  string
	value  flyerapi.Value
	format func(flyerapi.Value) string
}

func collect(specs []lineSpec) []Line {
	var out []Line
	for _, s := range specs {
		if !Present(s.value) {
			continue
		}
		out = append(out, Line{Label: s.label, Value: s.format(s.value)})
	}
	return out
}

func suffix(sfx string) func(flyerapi.Value) string {
	return func(v flyerapi.Value) string { return Number(v) + sfx }
}

// BuildInsights maps the mortgage, neighborhood and property records into
// financial, market performance and location value sections. Any record may
// be nil.
func BuildInsights(res *flyerapi.GenerationResult) Insights {
	if res == nil {
		return Insights{}
	}
	var (
		m  flyerapi.Mortgage
		n  flyerapi.Neighborhood
		pi flyerapi.PropertyInsights
	)
	if res.Mortgage != nil {
		m = *res.Mortgage
	}
	if res.Neighborhood != nil {
		n = *res.Neighborhood
	}
	if res.PropertyInsights != nil {
		pi = *res.PropertyInsights
	}

	return Insights{
		Financial: collect([]lineSpec{
			{"Monthly Payment", m.MonthlyPayment, Currency},
			{"Down Payment (20%)", m.DownPayment, Currency},
			{"Property Taxes", pi.AnnualTaxes, Currency},
			{"Interest Rate", m.InterestRate, Percent},
		}),
		Market: collect([]lineSpec{
			{"Page Views", pi.PageViews, Number},
			{"Days on Market", pi.DaysOnMarket, Number},
			{"Price per Sq Ft", pi.PricePerSqft, Currency},
			{"Zestimate", pi.Zestimate, Currency},
		}),
		Location: collect([]lineSpec{
			{"Walkability Score", n.WalkabilityScore, suffix("/100")},
			{"School Rating", pi.SchoolRating, suffix("/10")},
			{"Restaurants Nearby", n.RestaurantsNearby, Number},
			{"Parks Nearby", n.ParksNearby, Number},
		}),
	}
}
