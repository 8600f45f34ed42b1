package pack

import (
	"fmt"
	"sort"
	"strings"
)

// Repository is the in-memory registry of loaded content packs, keyed by
// pack id. It is the only source of rules, actions, services, and questions
// fed to the engine; consumers read definitions but never mutate them.
//
// Load is all-or-nothing: a pack failing validation is not registered.
// Loading an id that already exists overwrites it (last load wins); callers
// wanting replace-protection must check Get first.
//
// Thread-safety: none. Load, Remove, and Clear must be serialized by the
// caller; the intended usage is one repository per process or session.
type Repository struct {
	packs map[string]*Pack
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{packs: make(map[string]*Pack)}
}

// Load normalizes, validates, and registers a pack. On validation failure
// the repository is left unchanged and a *ValidationFailure is returned.
func (r *Repository) Load(p *Pack) error {
	if p == nil {
		return fmt.Errorf("pack must not be nil")
	}

	p.Normalize()
	if errs := Validate(p); len(errs) > 0 {
		return &ValidationFailure{PackID: p.ID, Errors: errs}
	}

	r.packs[p.ID] = p
	return nil
}

// Get returns a registered pack by id.
func (r *Repository) Get(packID string) (*Pack, bool) {
	p, ok := r.packs[packID]
	return p, ok
}

// Remove deletes a pack. Returns false if the id was not registered.
func (r *Repository) Remove(packID string) bool {
	if _, ok := r.packs[packID]; !ok {
		return false
	}
	delete(r.packs, packID)
	return true
}

// Clear removes all packs.
func (r *Repository) Clear() {
	r.packs = make(map[string]*Pack)
}

// IDs returns the registered pack ids in sorted order.
func (r *Repository) IDs() []string {
	ids := make([]string, 0, len(r.packs))
	for id := range r.packs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Rules returns a copy of a pack's rule collection.
// Copies protect the registered pack from mutation by consumers.
func (r *Repository) Rules(packID string) []Rule {
	p, ok := r.packs[packID]
	if !ok {
		return nil
	}
	out := make([]Rule, len(p.Rules))
	copy(out, p.Rules)
	return out
}

// Actions returns a copy of a pack's action collection.
func (r *Repository) Actions(packID string) []Action {
	p, ok := r.packs[packID]
	if !ok {
		return nil
	}
	out := make([]Action, len(p.Actions))
	copy(out, p.Actions)
	return out
}

// Services returns a copy of a pack's service collection.
func (r *Repository) Services(packID string) []Service {
	p, ok := r.packs[packID]
	if !ok {
		return nil
	}
	out := make([]Service, len(p.Services))
	copy(out, p.Services)
	return out
}

// Questions returns a copy of a pack's question collection.
func (r *Repository) Questions(packID string) []Question {
	p, ok := r.packs[packID]
	if !ok {
		return nil
	}
	out := make([]Question, len(p.Questions))
	copy(out, p.Questions)
	return out
}

// Action looks up one action template by id within a pack. The boolean is
// false when the pack or the action id is unknown — rules may reference
// action ids missing from the pack, and callers decide how to surface that
// gap.
func (r *Repository) Action(packID, actionID string) (Action, bool) {
	p, ok := r.packs[packID]
	if !ok {
		return Action{}, false
	}
	for _, a := range p.Actions {
		if a.ID == actionID {
			return a, true
		}
	}
	return Action{}, false
}

// FindPetFriendlyServices returns services that explicitly accept pets.
func (r *Repository) FindPetFriendlyServices(packID string) []Service {
	return r.filterServices(packID, func(s Service) bool {
		return s.Eligibility != nil && s.Eligibility.AcceptsPets != nil && *s.Eligibility.AcceptsPets
	})
}

// Find24x7Services returns services available around the clock.
func (r *Repository) Find24x7Services(packID string) []Service {
	return r.filterServices(packID, func(s Service) bool {
		return s.Availability.Always
	})
}

// FindServicesByType returns services of the given type, matched
// case-insensitively.
func (r *Repository) FindServicesByType(packID, serviceType string) []Service {
	want := strings.ToLower(serviceType)
	return r.filterServices(packID, func(s Service) bool {
		return strings.ToLower(s.Type) == want
	})
}

// FindByJurisdiction returns all registered packs for a jurisdiction,
// matched case-insensitively, ordered by pack id for determinism.
func (r *Repository) FindByJurisdiction(jurisdiction string) []*Pack {
	want := strings.ToLower(jurisdiction)
	var out []*Pack
	for _, id := range r.IDs() {
		p := r.packs[id]
		if strings.ToLower(p.Jurisdiction) == want {
			out = append(out, p)
		}
	}
	return out
}

func (r *Repository) filterServices(packID string, keep func(Service) bool) []Service {
	p, ok := r.packs[packID]
	if !ok {
		return nil
	}
	var out []Service
	for _, s := range p.Services {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
