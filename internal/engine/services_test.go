package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/signpost/internal/pack"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func serviceIDs(services []pack.Service) []string {
	ids := make([]string, len(services))
	for i, s := range services {
		ids[i] = s.ID
	}
	return ids
}

func TestMatchServices_NoEligibilityAlwaysMatches(t *testing.T) {
	st := makeState(nil)
	services := []pack.Service{
		{ID: "s1", Name: "Day centre", Type: "day-centre"},
	}
	assert.Equal(t, []string{"s1"}, serviceIDs(MatchServices(services, st)))
}

func TestMatchServices_AgeRange(t *testing.T) {
	services := []pack.Service{
		{ID: "youth", Eligibility: &pack.Eligibility{MinAge: intPtr(16), MaxAge: intPtr(25)}},
		{ID: "adult", Eligibility: &pack.Eligibility{MinAge: intPtr(18)}},
	}

	t.Run("age inside both ranges", func(t *testing.T) {
		st := makeState(map[string]map[string]any{"user": {"age": 20}})
		assert.Equal(t, []string{"youth", "adult"}, serviceIDs(MatchServices(services, st)))
	})

	t.Run("age below adult minimum", func(t *testing.T) {
		st := makeState(map[string]map[string]any{"user": {"age": 17}})
		assert.Equal(t, []string{"youth"}, serviceIDs(MatchServices(services, st)))
	})

	t.Run("age above youth maximum", func(t *testing.T) {
		st := makeState(map[string]map[string]any{"user": {"age": 40}})
		assert.Equal(t, []string{"adult"}, serviceIDs(MatchServices(services, st)))
	})

	t.Run("unknown age is permissive", func(t *testing.T) {
		st := makeState(nil)
		assert.Equal(t, []string{"youth", "adult"}, serviceIDs(MatchServices(services, st)))
	})
}

func TestMatchServices_GenderRestriction(t *testing.T) {
	services := []pack.Service{
		{ID: "women-only", Eligibility: &pack.Eligibility{Gender: "female"}},
		{ID: "open", Eligibility: &pack.Eligibility{}},
	}

	st := makeState(map[string]map[string]any{"user": {"gender": "male"}})
	assert.Equal(t, []string{"open"}, serviceIDs(MatchServices(services, st)))

	st = makeState(map[string]map[string]any{"user": {"gender": "Female"}})
	assert.Equal(t, []string{"women-only", "open"}, serviceIDs(MatchServices(services, st)),
		"gender matching is case-insensitive")

	st = makeState(nil)
	assert.Equal(t, []string{"women-only", "open"}, serviceIDs(MatchServices(services, st)),
		"unknown gender is permissive")
}

func TestMatchServices_PetExclusion(t *testing.T) {
	services := []pack.Service{
		{ID: "no-pets", Eligibility: &pack.Eligibility{AcceptsPets: boolPtr(false)}},
		{ID: "pets-ok", Eligibility: &pack.Eligibility{AcceptsPets: boolPtr(true)}},
		{ID: "unstated", Eligibility: &pack.Eligibility{}},
	}

	st := makeState(map[string]map[string]any{"user": {"hasPets": true}})
	assert.Equal(t, []string{"pets-ok", "unstated"}, serviceIDs(MatchServices(services, st)),
		"a user with pets is never matched to a service refusing them")

	st = makeState(map[string]map[string]any{"user": {"hasPets": false}})
	assert.Equal(t, []string{"no-pets", "pets-ok", "unstated"}, serviceIDs(MatchServices(services, st)))
}
