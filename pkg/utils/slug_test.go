package utils

import (
	"errors"
	"testing"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Summer Sale", "summer-sale"},
		{"  Café & Crème  ", "cafe-creme"},
		{"New -- arrivals!", "new-arrivals"},
		{"2024 Collection", "2024-collection"},
		{"***", ""},
	}

	for _, tt := range tests {
		if got := GenerateSlug(tt.in); got != tt.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"home": true, "home-1": true}

	got, err := UniqueSlug("home", func(s string) (bool, error) { return taken[s], nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "home-2" {
		t.Fatalf("expected home-2, got %q", got)
	}

	got, err = UniqueSlug("about", func(s string) (bool, error) { return taken[s], nil })
	if err != nil || got != "about" {
		t.Fatalf("expected about, got %q (%v)", got, err)
	}
}

func TestUniqueSlugErrors(t *testing.T) {
	if _, err := UniqueSlug("", func(string) (bool, error) { return false, nil }); err == nil {
		t.Fatal("expected error for empty base")
	}

	lookupErr := errors.New("db down")
	if _, err := UniqueSlug("home", func(string) (bool, error) { return false, lookupErr }); !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
