package layerenv

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMissingEnvironmentError(t *testing.T) {
	err := &MissingEnvironmentError{Variable: "PHAPP_ENV"}

	want := "Missing .env file or PHAPP_ENV environment variable. Make sure the application is setup correctly."
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestParseError(t *testing.T) {
	inner := errors.New("unexpected character")
	err := &ParseError{Layer: "app.env", Err: inner}

	if err.Error() != "parse dotenv layer app.env: unexpected character" {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("ParseError should unwrap to its cause")
	}

	wrapped := fmt.Errorf("populate app environment: %w", err)
	var target *ParseError
	if !errors.As(wrapped, &target) || target.Layer != "app.env" {
		t.Error("ParseError should be found through wrapping")
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeBoot, "boot"},
		{ModeCLI, "cli"},
		{Mode(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}

func TestSiteMatcherFunc(t *testing.T) {
	var matcher SiteMatcher = SiteMatcherFunc(func(ctx context.Context) (string, error) {
		return "acme", nil
	})

	site, err := matcher.Match(context.Background())
	if err != nil || site != "acme" {
		t.Errorf("expected acme, got %q (%v)", site, err)
	}
}
