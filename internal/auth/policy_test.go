package auth

import (
	"context"
	"errors"
	"testing"

	firebaseauth "firebase.google.com/go/v4/auth"
)

type fakeVerifier struct {
	valid map[string]*firebaseauth.Token
}

func (f fakeVerifier) VerifySessionCookie(ctx context.Context, cookie string) (*firebaseauth.Token, error) {
	if tok, ok := f.valid[cookie]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid session cookie")
}

func TestLoginURL(t *testing.T) {
	tests := []struct {
		next     string
		expected string
	}{
		{next: "", expected: "/login"},
		{next: "/", expected: "/login"},
		{next: "/docs/intro", expected: "/login?next=%2Fdocs%2Fintro"},
		{next: "about", expected: "/login?next=about"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			if result := LoginURL("/login", tt.next); result != tt.expected {
				t.Errorf("LoginURL(%q) = %q; want %q", tt.next, result, tt.expected)
			}
		})
	}
}

func TestStaticPolicies(t *testing.T) {
	if d := AllowAll(context.Background(), Request{Path: "/x"}); !d.Allowed() {
		t.Errorf("AllowAll returned %v", d.Effect)
	}
	if d := DenyAll(context.Background(), Request{Path: "/x"}); d.Allowed() {
		t.Errorf("DenyAll returned %v", d.Effect)
	}
}

func TestFirebaseSessionPolicy(t *testing.T) {
	verifier := fakeVerifier{valid: map[string]*firebaseauth.Token{
		"good": {UID: "user-1", Claims: map[string]interface{}{"email": "a@example.com"}},
	}}
	policy := FirebaseSessionPolicy(verifier, "/login")

	tests := []struct {
		name     string
		req      Request
		effect   Effect
		location string
		subject  string
	}{
		{name: "no cookie", req: Request{Path: "/a/b"}, effect: Redirect, location: "/login?next=%2Fa%2Fb"},
		{name: "bad cookie", req: Request{Path: "/", Session: "bad"}, effect: Redirect, location: "/login"},
		{name: "good cookie", req: Request{Path: "/a", Session: "good"}, effect: Allow, subject: "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy(context.Background(), tt.req)
			if d.Effect != tt.effect {
				t.Fatalf("Effect = %v; want %v", d.Effect, tt.effect)
			}
			if d.Location != tt.location {
				t.Errorf("Location = %q; want %q", d.Location, tt.location)
			}
			if d.Subject != tt.subject {
				t.Errorf("Subject = %q; want %q", d.Subject, tt.subject)
			}
		})
	}
}

func TestFirebaseSessionPolicyWithoutClient(t *testing.T) {
	d := FirebaseSessionPolicy(nil, "/login")(context.Background(), Request{Path: "/a", Session: "x"})
	if d.Effect != Redirect || d.Location != "/login?error=auth_not_configured" {
		t.Errorf("decision = %+v; want redirect to auth_not_configured", d)
	}
}
