// Package auth decides whether a gateway request may be forwarded upstream.
package auth

import "net/http"

// Decision is the outcome of an authorization check.
type Decision struct {
	Error  bool   `json:"error"`
	Msg    string `json:"msg,omitempty"`
	Status int    `json:"status,omitempty"`
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return !d.Error
}

// Deny builds a rejecting decision.
func Deny(msg string) Decision {
	return Decision{Error: true, Msg: msg}
}

// Authorizer checks a request on behalf of a provider.
type Authorizer interface {
	Authorize(r *http.Request, provider string) Decision
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(r *http.Request, provider string) Decision

// Authorize calls f(r, provider).
func (f AuthorizerFunc) Authorize(r *http.Request, provider string) Decision {
	return f(r, provider)
}

// AllowAll never denies.
func AllowAll() Authorizer {
	return AuthorizerFunc(func(*http.Request, string) Decision { return Decision{} })
}

// Any allows the request if one of the authorizers does. When all deny,
// the first denial is reported. With no authorizers every request is allowed.
func Any(authorizers ...Authorizer) Authorizer {
	return AuthorizerFunc(func(r *http.Request, provider string) Decision {
		var first *Decision
		for _, a := range authorizers {
			d := a.Authorize(r, provider)
			if d.Allowed() {
				return d
			}
			if first == nil {
				first = &d
			}
		}
		if first != nil {
			return *first
		}
		return Decision{}
	})
}
