package session

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/events"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/form"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/render"
)

// ImportListing loads a property from a listing URL and overwrites the
// canonical property fields with it. On failure the form is left untouched.
func (s *Session) ImportListing(ctx context.Context, listingURL string) error {
	listingURL = strings.TrimSpace(listingURL)
	s.mu.Lock()
	s.form.Set(form.ListingURL, listingURL)
	if listingURL == "" {
		s.setNotice("error", msgEnterListingURL)
		s.mu.Unlock()
		return &PromptError{Message: msgEnterListingURL}
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()
	data, err := s.opts.Backend.ParseListing(ctx, listingURL)
	if err != nil {
		log.Printf("[WARN] session %s: listing import failed: %v", s.id, err)
		s.mu.Lock()
		s.setNotice("error", "Error: "+userMessage(err, msgImportFailed))
		s.mu.Unlock()
		return err
	}

	info, err := render.PropertyInfo(data)
	if err != nil {
		log.Printf("[WARN] session %s: property summary: %v", s.id, err)
		s.mu.Lock()
		s.setNotice("error", "Error: "+msgImportFailed)
		s.mu.Unlock()
		return &RenderError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Overwrite(data)
	s.loaded = data
	s.importEpoch++
	s.propertyInfo = info
	s.vis.PropertyDisplay = true
	s.setNotice("info", msgImportSucceeded)
	return nil
}

// Submit generates a flyer from the canonical form fields. It is refused
// until a listing import has succeeded. The submit control and the loading
// flags are restored on every exit path.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded == nil {
		s.setNotice("error", msgLoadFirst)
		s.mu.Unlock()
		return &PromptError{Message: msgLoadFirst}
	}
	release, err := s.acquire(ControlSubmit)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.submitState = Submitting
	s.vis.Loading = true
	s.vis.AIStatus = true
	s.vis.Error = false
	s.errText = ""
	req := s.form.FlyerRequest()
	s.mu.Unlock()

	outcome := Failed
	defer release()
	defer func() {
		s.mu.Lock()
		s.vis.Loading = false
		s.vis.AIStatus = false
		s.submitState = Idle
		s.lastSubmit = outcome
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.opts.GenerateTimeout)
	defer cancel()
	res, err := s.opts.Backend.GenerateFlyer(ctx, req)
	if err != nil {
		log.Printf("[WARN] session %s: flyer generation failed: %v", s.id, err)
		s.showError(userMessage(err, msgGenerateFailed))
		return err
	}

	insights := render.BuildInsights(res)
	html, err := render.Results(res.Image, insights)
	if err != nil {
		log.Printf("[WARN] session %s: flyer preview rejected: %v", s.id, err)
		s.showError(msgGenerateFailed)
		return &RenderError{Err: err}
	}

	s.mu.Lock()
	s.image = res.Image
	s.flyerPath = res.FlyerPath
	s.insights = insights
	s.results = html
	s.vis.Results = true
	s.mu.Unlock()
	outcome = Succeeded

	if s.opts.Events != nil {
		s.opts.Events.PublishFlyerGenerated(ctx, events.FlyerGenerated{
			SessionID: s.id,
			Address:   req.Address,
			Price:     req.Price,
			Template:  req.Template,
			Format:    req.Format,
			FlyerPath: res.FlyerPath,
			At:        time.Now().UTC(),
		})
	}
	return nil
}

func (s *Session) showError(text string) {
	s.mu.Lock()
	s.vis.Error = true
	s.errText = text
	s.mu.Unlock()
}

// GenerateContent calls one AI content endpoint for the current address and
// renders whichever result shapes come back. The originating control is
// restored on every exit path.
func (s *Session) GenerateContent(ctx context.Context, kind ContentKind) error {
	route, ok := contentRoutes[kind]
	if !ok {
		return &PromptError{Message: "unknown content kind " + string(kind)}
	}

	s.mu.Lock()
	release, err := s.acquire(route.control)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	defer release()
	address := s.form.Shared(form.Address)
	if address == "" {
		address = s.form.Get(form.Address)
	}
	if address == "" {
		s.setNotice("error", msgEnterAddress)
		s.mu.Unlock()
		return &PromptError{Message: msgEnterAddress}
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.GenerateTimeout)
	defer cancel()
	res, err := s.opts.Backend.GenerateContent(ctx, route.endpoint, address)
	if err != nil {
		log.Printf("[WARN] session %s: %s failed: %v", s.id, route.endpoint, err)
		s.mu.Lock()
		s.setNotice("error", "Error: "+userMessage(err, msgContentFailed))
		s.mu.Unlock()
		return err
	}

	sections := render.Sections(res)
	html, err := render.AIResults(route.title, sections)
	if err != nil {
		log.Printf("[WARN] session %s: %s results: %v", s.id, kind, err)
		s.mu.Lock()
		s.setNotice("error", "Error: "+msgContentFailed)
		s.mu.Unlock()
		return &RenderError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiTitle = route.title
	s.sections = sections
	s.aiResults = html
	s.vis.AIResults = true
	return nil
}

// FlyerFilename is the last path segment of the generated flyer, or "" when
// nothing has been generated.
func (s *Session) FlyerFilename() string {
	s.mu.Lock()
	p := s.flyerPath
	s.mu.Unlock()
	p = strings.ReplaceAll(p, "\\", "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// EmailFlyer asks the backend to mail the generated flyer.
func (s *Session) EmailFlyer(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	s.mu.Lock()
	var prompt string
	switch {
	case s.flyerPath == "":
		prompt = msgGenerateFirst
	case email == "":
		prompt = msgEnterEmail
	}
	if prompt != "" {
		s.setNotice("error", prompt)
		s.mu.Unlock()
		return &PromptError{Message: prompt}
	}
	req := flyerapi.EmailRequest{
		FlyerPath: s.flyerPath,
		Email:     email,
		Address:   s.form.Get(form.Address),
		Price:     s.form.Get(form.Price),
		Bedrooms:  s.form.Get(form.Bedrooms),
		Bathrooms: s.form.Get(form.Bathrooms),
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()
	res, err := s.opts.Backend.EmailFlyer(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Printf("[WARN] session %s: email failed: %v", s.id, err)
		s.setNotice("error", "Error: "+userMessage(err, msgEmailFailed))
		return err
	}
	msg := msgEmailSent
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	s.setNotice("info", msg)
	return nil
}
