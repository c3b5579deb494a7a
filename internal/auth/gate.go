package auth

import (
	"regexp"
	"strings"

	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
)

// Policy is the trust level a route demands.
type Policy int

const (
	PolicyPublic Policy = iota
	PolicyAuthenticated
	PolicyAdmin
)

// State is the gate's classification of a request.
type State int

const (
	StateUnverified State = iota
	StateVerifiedUser
	StateVerifiedAdmin
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateUnverified:
		return "unverified"
	case StateVerifiedUser:
		return "verified-user"
	case StateVerifiedAdmin:
		return "verified-admin"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Decision is the immutable outcome of evaluating one request. Err is set
// only when State is StateRejected.
type Decision struct {
	State     State
	Principal Principal
	Err       *apperrors.Error
}

// Allowed reports whether the request may reach a handler.
func (d Decision) Allowed() bool {
	return d.State != StateRejected
}

// Authorize applies policy to an already verified decision.
func (d Decision) Authorize(policy Policy) Decision {
	if policy == PolicyAdmin && d.State == StateVerifiedUser {
		return Decision{State: StateRejected, Principal: d.Principal, Err: apperrors.ErrForbidden}
	}
	if policy != PolicyPublic && d.State == StateUnverified {
		return Decision{State: StateRejected, Err: apperrors.ErrTokenNotFound}
	}
	return d
}

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(token string) (Principal, error)
}

// Exemption lets requests matching Pattern skip the global guard. An empty
// Methods list exempts every method.
type Exemption struct {
	Pattern *regexp.Regexp
	Methods []string
}

func (e Exemption) matches(method, path string) bool {
	if !e.Pattern.MatchString(path) {
		return false
	}
	if len(e.Methods) == 0 {
		return true
	}
	for _, m := range e.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// DefaultExemptions returns the health probe, public asset, anonymous
// browsing and login/registration paths under apiURL.
func DefaultExemptions(apiURL string) []Exemption {
	api := regexp.QuoteMeta(strings.TrimSuffix(apiURL, "/"))
	readOnly := []string{"GET", "OPTIONS"}
	return []Exemption{
		{Pattern: regexp.MustCompile(`^/health$`), Methods: readOnly},
		{Pattern: regexp.MustCompile(`^/public/uploads(/.*)?$`), Methods: readOnly},
		{Pattern: regexp.MustCompile(`^` + api + `/products(/.*)?$`), Methods: readOnly},
		{Pattern: regexp.MustCompile(`^` + api + `/category(/.*)?$`), Methods: readOnly},
		{Pattern: regexp.MustCompile(`^` + api + `/users/login/?$`)},
		{Pattern: regexp.MustCompile(`^` + api + `/users/register/?$`)},
	}
}

// Gate classifies requests as anonymous, authenticated or admin and enforces
// route policies.
type Gate struct {
	tokens     Verifier
	exemptions []Exemption
}

func NewGate(tokens Verifier, exemptions []Exemption) *Gate {
	return &Gate{tokens: tokens, exemptions: exemptions}
}

// Evaluate runs the full state machine for one request: Public policies skip
// verification, everything else verifies the Authorization header exactly
// once and then applies the role check.
func (g *Gate) Evaluate(authorization string, policy Policy) Decision {
	if policy == PolicyPublic {
		return Decision{State: StateUnverified}
	}
	return g.verify(authorization).Authorize(policy)
}

// IsExempt reports whether method+path is on the exemption list.
func (g *Gate) IsExempt(method, path string) bool {
	for _, e := range g.exemptions {
		if e.matches(method, path) {
			return true
		}
	}
	return false
}

func (g *Gate) verify(authorization string) Decision {
	if authorization == "" {
		return Decision{State: StateRejected, Err: apperrors.ErrTokenNotFound}
	}

	parts := strings.Fields(authorization)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Decision{State: StateRejected, Err: apperrors.ErrUnauthorized}
	}

	principal, err := g.tokens.Verify(parts[1])
	if err != nil {
		return Decision{State: StateRejected, Err: apperrors.ErrInvalidToken}
	}
	if principal.IsAdmin {
		return Decision{State: StateVerifiedAdmin, Principal: principal}
	}
	return Decision{State: StateVerifiedUser, Principal: principal}
}
