package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("render").Funcs(template.FuncMap{
		"section": renderSection,
	}).ParseFS(templateFS, "templates/*.html"))
}

// ErrUnsafeImage is returned for preview sources that are neither inline
// images nor http(s) URLs.
var ErrUnsafeImage = errors.New("unsafe preview image source")

// SafeImageURL vets a backend-supplied preview source before it is placed in
// an img src attribute.
func SafeImageURL(src string) (template.URL, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	if strings.HasPrefix(strings.ToLower(src), "data:image/") {
		return template.URL(src), nil
	}
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrUnsafeImage
	}
	return template.URL(u.String()), nil
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func renderSection(s Section) (template.HTML, error) {
	return execute(s.templateName(), s)
}

// PropertyInfo renders the summary shown after a listing import.
func PropertyInfo(p *flyerapi.PropertyData) (template.HTML, error) {
	if p == nil {
		return "", nil
	}
	price := ""
	if Present(p.Price) {
		price = Currency(p.Price)
	}
	return execute("property_info", struct {
		Address, Price, Bedrooms, Bathrooms string
		HasImage                            bool
	}{p.Address.String(), price, p.Bedrooms.String(), p.Bathrooms.String(), p.HasImage()})
}

// Results renders the flyer preview followed by the insight sections.
func Results(image string, in Insights) (template.HTML, error) {
	preview, err := SafeImageURL(image)
	if err != nil {
		return "", err
	}
	return execute("results", struct {
		Preview  template.URL
		Insights Insights
	}{preview, in})
}

// AIResults renders content sections under a title.
func AIResults(title string, sections []Section) (template.HTML, error) {
	return execute("ai_results", struct {
		Title    string
		Sections []Section
	}{title, sections})
}

// Page writes the full studio page for a session view.
func Page(w io.Writer, view any) error {
	return tmpl.ExecuteTemplate(w, "page", view)
}
