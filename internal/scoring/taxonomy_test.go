package scoring

import "testing"

func TestTaxonomyShape(t *testing.T) {
	if len(Categories) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(Categories))
	}
	seen := make(map[string]bool)
	for _, c := range Categories {
		names := PatternsIn(c)
		if len(names) != 5 {
			t.Fatalf("category %q has %d patterns", c, len(names))
		}
		for _, n := range names {
			if seen[n] {
				t.Fatalf("duplicate pattern %q", n)
			}
			seen[n] = true
		}
	}
	if got := len(AllPatterns()); got != 25 {
		t.Fatalf("expected 25 patterns, got %d", got)
	}
	if !IsKnownPattern("Bullish Engulfing Pattern") {
		t.Fatalf("expected known pattern")
	}
	if IsKnownPattern("Totally Made Up") {
		t.Fatalf("expected unknown pattern")
	}
	if PatternsIn("nope") != nil {
		t.Fatalf("expected nil for unknown category")
	}
}
