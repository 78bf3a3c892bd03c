package commands

import "testing"

func TestRouterResolve(t *testing.T) {
	r := NewRouter(Help)

	t.Run("no aliases", func(t *testing.T) {
		for _, text := range []string{"no", "n", "cancel", "c", "NO", " Cancel "} {
			if got := r.Resolve(text); got != No {
				t.Fatalf("Resolve(%q) = %q, want %q", text, got, No)
			}
		}
	})

	t.Run("yes aliases", func(t *testing.T) {
		for _, text := range []string{"yes", "y", "YES", "Y"} {
			if got := r.Resolve(text); got != Yes {
				t.Fatalf("Resolve(%q) = %q, want %q", text, got, Yes)
			}
		}
	})

	t.Run("unmatched falls back to default", func(t *testing.T) {
		for _, text := range []string{"xyz123", "", "  ", "123 Main Street"} {
			if got := r.Resolve(text); got != Help {
				t.Fatalf("Resolve(%q) = %q, want fallback %q", text, got, Help)
			}
		}
	})

	t.Run("explicit fallback is configurable", func(t *testing.T) {
		r := NewRouter(Describe)
		if got := r.Resolve("gibberish"); got != Describe {
			t.Fatalf("Resolve = %q, want %q", got, Describe)
		}
	})
}

func TestRouterMatches(t *testing.T) {
	r := NewRouter(Help)

	if !r.Matches("P", Privacy) {
		t.Fatal("expected 'P' to match Privacy")
	}
	if r.Matches("xyz123", Help) {
		t.Fatal("fallback resolution must not count as a match")
	}
	if r.Matches("some shipping address", No) {
		t.Fatal("free text must not match No")
	}
}
