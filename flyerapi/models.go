package flyerapi

// PropertyData is a property record as returned by the lookup and listing
// import endpoints. Any field may be missing.
type PropertyData struct {
	Address        Value  `json:"address"`
	Price          Value  `json:"price"`
	Bedrooms       Value  `json:"bedrooms"`
	Bathrooms      Value  `json:"bathrooms"`
	MainImageURL   string `json:"main_image_url,omitempty"`
	ImageAvailable bool   `json:"image_available"`
}

// HasImage reports whether the listing supplied a usable photo.
func (p *PropertyData) HasImage() bool {
	return p != nil && p.ImageAvailable && p.MainImageURL != ""
}

type Neighborhood struct {
	WalkabilityScore  Value `json:"walkability_score"`
	SchoolsNearby     Value `json:"schools_nearby"`
	RestaurantsNearby Value `json:"restaurants_nearby"`
	ParksNearby       Value `json:"parks_nearby"`
	TopSchool         Value `json:"top_school"`
}

type Mortgage struct {
	MonthlyPayment Value `json:"monthly_payment"`
	DownPayment    Value `json:"down_payment"`
	LoanAmount     Value `json:"loan_amount"`
	InterestRate   Value `json:"interest_rate"`
	TotalInterest  Value `json:"total_interest"`
}

type PropertyInsights struct {
	Zestimate    Value `json:"zestimate"`
	PageViews    Value `json:"page_views"`
	DaysOnMarket Value `json:"days_on_market"`
	PricePerSqft Value `json:"price_per_sqft"`
	AnnualTaxes  Value `json:"annual_taxes"`
	SchoolRating Value `json:"school_rating"`
	YearBuilt    Value `json:"year_built"`
}

// GenerationResult is the body of a successful /generate-flyer call.
type GenerationResult struct {
	Image            string            `json:"image"`
	FlyerPath        string            `json:"flyer_path"`
	Neighborhood     *Neighborhood     `json:"neighborhood,omitempty"`
	Mortgage         *Mortgage         `json:"mortgage,omitempty"`
	PropertyInsights *PropertyInsights `json:"property_insights,omitempty"`
}

type CMAAnalysis struct {
	Analysis string `json:"analysis"`
	Metrics  Pairs  `json:"metrics,omitempty"`
	Error    string `json:"error,omitempty"`
}

// AIResult is the union of every AI content endpoint response. The full
// agent endpoint fills all three shapes; the others fill one.
type AIResult struct {
	Descriptions  Pairs         `json:"descriptions,omitempty"`
	SocialContent SocialContent `json:"social_content,omitempty"`
	CMAAnalysis   *CMAAnalysis  `json:"cma_analysis,omitempty"`
	PropertyData  *PropertyData `json:"property_data,omitempty"`
}

// FlyerRequest carries the form fields posted to /generate-flyer.
type FlyerRequest struct {
	Address        string
	Price          string
	Bedrooms       string
	Bathrooms      string
	Template       string
	Format         string
	ZillowImageURL string
}

// EmailRequest is the body of /email-flyer.
type EmailRequest struct {
	FlyerPath string `json:"flyer_path"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Price     string `json:"price"`
	Bedrooms  string `json:"bedrooms"`
	Bathrooms string `json:"bathrooms"`
}

type EmailResult struct {
	Message string `json:"message,omitempty"`
}

// Endpoint names one of the AI content routes.
type Endpoint string

const (
	EndpointDescriptions   Endpoint = "/generate-descriptions"
	EndpointSocialContent  Endpoint = "/generate-social-content"
	EndpointCMA            Endpoint = "/generate-cma"
	EndpointMarketingAgent Endpoint = "/ai-marketing-agent"
)
