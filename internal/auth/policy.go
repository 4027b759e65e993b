package auth

import (
	"context"
	"net/url"

	firebaseauth "firebase.google.com/go/v4/auth"
)

// Effect is the outcome of an authorization check
type Effect int

const (
	Allow Effect = iota
	Deny
	Redirect
)

func (e Effect) String() string {
	switch e {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "redirect"
	}
}

// Request describes who is asking for which lookup path
type Request struct {
	Path    string
	Session string
}

// Decision is what a Policy returns. Location is only meaningful for Redirect.
type Decision struct {
	Effect   Effect
	Location string
	Subject  string
	Reason   string
}

// Allowed reports whether the request may proceed
func (d Decision) Allowed() bool {
	return d.Effect == Allow
}

// Policy decides whether a request may view the page at req.Path
type Policy func(ctx context.Context, req Request) Decision

// AllowAll lets every request through. It is the default until an identity
// provider is configured.
func AllowAll(ctx context.Context, req Request) Decision {
	return Decision{Effect: Allow, Reason: "open access"}
}

// DenyAll rejects every request
func DenyAll(ctx context.Context, req Request) Decision {
	return Decision{Effect: Deny, Reason: "access disabled"}
}

// LoginURL builds the login redirect target, remembering where the user was going
func LoginURL(loginPath, next string) string {
	if next == "" || next == "/" {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(next)
}

// SessionVerifier is implemented by *firebase auth.Client
type SessionVerifier interface {
	VerifySessionCookie(ctx context.Context, sessionCookie string) (*firebaseauth.Token, error)
}

// FirebaseSessionPolicy allows requests carrying a valid Firebase session cookie
// and sends everybody else to the login page
func FirebaseSessionPolicy(verifier SessionVerifier, loginPath string) Policy {
	return func(ctx context.Context, req Request) Decision {
		if verifier == nil {
			return Decision{Effect: Redirect, Location: loginPath + "?error=auth_not_configured", Reason: "auth not configured"}
		}
		if req.Session == "" {
			return Decision{Effect: Redirect, Location: LoginURL(loginPath, req.Path), Reason: "no session"}
		}

		token, err := verifier.VerifySessionCookie(ctx, req.Session)
		if err != nil {
			return Decision{Effect: Redirect, Location: LoginURL(loginPath, req.Path), Reason: "invalid session"}
		}

		return Decision{Effect: Allow, Subject: token.UID}
	}
}
