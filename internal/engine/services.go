package engine

import (
	"strings"

	"github.com/roach88/signpost/internal/pack"
	"github.com/roach88/signpost/internal/session"
)

// MatchServices filters services by their eligibility constraints against
// the session state. Constraints resolve permissively: a constraint the
// state cannot answer (missing age, missing gender) does not exclude the
// service, except pet acceptance - a user known to have pets is never
// matched to a service that declares it does not accept them.
//
// Input order is preserved.
func MatchServices(services []pack.Service, st *session.State) []pack.Service {
	var out []pack.Service
	for _, svc := range services {
		if serviceEligible(svc, st) {
			out = append(out, svc)
		}
	}
	return out
}

func serviceEligible(svc pack.Service, st *session.State) bool {
	el := svc.Eligibility
	if el == nil {
		return true
	}

	if age, ok := stateNumber(st, "user.age"); ok {
		if el.MinAge != nil && age < float64(*el.MinAge) {
			return false
		}
		if el.MaxAge != nil && age > float64(*el.MaxAge) {
			return false
		}
	}

	if el.Gender != "" {
		if g, found := st.Resolve("user.gender"); found {
			if gs, ok := g.(string); ok && !strings.EqualFold(gs, el.Gender) {
				return false
			}
		}
	}

	if el.AcceptsPets != nil && !*el.AcceptsPets {
		if pets, found := st.Resolve("user.hasPets"); found {
			if b, ok := pets.(bool); ok && b {
				return false
			}
		}
	}

	return true
}

func stateNumber(st *session.State, path string) (float64, bool) {
	v, found := st.Resolve(path)
	if !found {
		return 0, false
	}
	return asNumber(v)
}
