package domain

import (
	"fmt"
	"strings"
)

// Effect is the outcome of an authorization decision.
type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// Authorization rules, reported in the decision context.
const (
	RuleOpenResource = "open-resource"
	RuleHeader       = "header"
	RuleBearerToken  = "bearer-token"
	RuleDefaultDeny  = "default-deny"
)

// PrincipalID is the principal reported for every decision.
const PrincipalID = "me"

// OpenResources are reachable without credentials: the OAuth redirect target
// and the token exchange it posts to.
var OpenResources = []string{ZendeskCallbackRoute, ZendeskExchangeRoute}

// MethodARN is a parsed execute-api method ARN:
// arn:aws:execute-api:{region}:{account}:{apiId}/{stage}/{method}/{resource...}
type MethodARN struct {
	Raw       string
	Region    string
	AccountID string
	APIID     string
	Stage     string
	Method    string
	Resource  string
}

// ParseMethodARN splits a method ARN. Resource is the first path segment
// after the method, or "/" when the request targets the root.
func ParseMethodARN(arn string) (MethodARN, error) {
	parts := strings.Split(arn, ":")
	if len(parts) < 6 {
		return MethodARN{}, fmt.Errorf("%w: malformed method ARN %q", ErrInvalidInput, arn)
	}
	path := strings.Split(parts[5], "/")
	if len(path) < 3 {
		return MethodARN{}, fmt.Errorf("%w: malformed method ARN %q", ErrInvalidInput, arn)
	}
	m := MethodARN{
		Raw:       arn,
		Region:    parts[3],
		AccountID: parts[4],
		APIID:     path[0],
		Stage:     path[1],
		Method:    path[2],
		Resource:  "/",
	}
	if len(path) > 3 && path[3] != "" {
		m.Resource = path[3]
	}
	return m, nil
}

// IsOpenResource reports whether resource is reachable without credentials.
func IsOpenResource(resource string) bool {
	for _, r := range OpenResources {
		if r == resource {
			return true
		}
	}
	return false
}

// AuthorizerRequest is the subset of a request authorizer event the rules use.
type AuthorizerRequest struct {
	MethodARN string
	Headers   map[string]string
}

// Header looks a header up case-insensitively.
func (r AuthorizerRequest) Header(name string) (string, bool) {
	if v, ok := r.Headers[name]; ok {
		return v, true
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Decision is the result of evaluating the authorizer rules.
type Decision struct {
	PrincipalID string
	Effect      Effect
	Resource    string
	Rule        string
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d.Effect == EffectAllow
}

// CallerClaims are the claims of a bearer token accepted by the authorizer.
type CallerClaims struct {
	Subject   string `json:"sub"`
	Issuer    string `json:"iss,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
