package session

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/form"
)

// InputAddress mirrors a keystroke in the shared address input into the
// canonical address field and schedules a background lookup.
func (s *Session) InputAddress(value string) {
	s.mu.Lock()
	s.form.SetShared(form.Address, value)
	s.form.Set(form.Address, value)
	s.mu.Unlock()
	s.debouncer.Push(value)
}

// SetSharedField records user input in a shared property input and mirrors
// it into the canonical field. Address input goes through InputAddress.
func (s *Session) SetSharedField(f form.Field, value string) error {
	if f == form.Address {
		s.InputAddress(value)
		return nil
	}
	if !form.HasShared(f) {
		return fmt.Errorf("field %q has no shared input", f)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.SetShared(f, value)
	s.form.Set(f, value)
	return nil
}

// SetField sets one of the directly editable fields: template, format or the
// listing URL.
func (s *Session) SetField(f form.Field, value string) error {
	if !form.Editable(f) {
		return fmt.Errorf("field %q is not editable", f)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Set(f, value)
	return nil
}

// lookup is the debouncer callback. Failures are logged and otherwise
// ignored; the form stays as it was.
func (s *Session) lookup(address string) {
	if utf8.RuneCountInString(address) <= s.opts.MinLookupLength {
		return
	}
	s.mu.Lock()
	epoch := s.importEpoch
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, s.opts.RequestTimeout)
	defer cancel()
	data, err := s.fetchLookup(ctx, address)
	if err != nil {
		log.Printf("[WARN] session %s: property lookup failed: %v", s.id, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.importEpoch != epoch {
		log.Printf("[INFO] session %s: lookup result discarded, listing imported meanwhile", s.id)
		return
	}
	if s.form.Shared(form.Address) != address {
		return
	}
	if written := s.form.MergeLookup(data); len(written) > 0 {
		log.Printf("[INFO] session %s: lookup filled %v", s.id, written)
	}
}

func (s *Session) fetchLookup(ctx context.Context, address string) (*flyerapi.PropertyData, error) {
	fetch := func(ctx context.Context) (*flyerapi.PropertyData, error) {
		return s.opts.Backend.LookupProperty(ctx, address)
	}
	if s.opts.Cache == nil {
		return fetch(ctx)
	}
	return s.opts.Cache.Lookup(ctx, address, fetch)
}
