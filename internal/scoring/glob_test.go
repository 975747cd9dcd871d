package scoring_test

import (
	"testing"

	"github.com/codearena/judge-worker/internal/scoring"
)

func TestMatchTests_FilePatterns(t *testing.T) {
	cases := []scoring.TestCase{
		{Name: "login succeeds", File: "auth/login_test.js", Status: scoring.StatusPassed},
		{Name: "orders total", File: "api/orders_test.js", Status: scoring.StatusPassed},
		{Name: "deep check", File: "pkg/sub/dir/deep_test.js", Status: scoring.StatusPassed},
		{Name: "unit 3", File: "units/unit3_test.js", Status: scoring.StatusPassed},
	}

	tests := []struct {
		pattern string
		want    int
	}{
		{"auth/*.js", 1},
		{"*_test.js", 4}, // basename-aware
		{"**/deep_test.js", 1},
		{"unit?_test.js", 1},
		{"unit[0-9]_test.js", 1},
		{"unit[!0-9]_test.js", 0},
		{"nomatch/*.go", 0},
	}
	for _, tc := range tests {
		got := scoring.MatchTests([]string{tc.pattern}, cases)
		if len(got) != tc.want {
			t.Fatalf("pattern %q: expected %d matches, got %d", tc.pattern, tc.want, len(got))
		}
	}
}

func TestMatchTests_NameContainment(t *testing.T) {
	cases := []scoring.TestCase{
		{Name: "Login Succeeds", Status: scoring.StatusPassed},
		{Name: "order flow", Status: scoring.StatusPassed},
	}

	got := scoring.MatchTests([]string{"login"}, cases)
	if len(got) != 1 || got[0].Name != "Login Succeeds" {
		t.Fatalf("expected case-insensitive name match, got %+v", got)
	}
}

func TestMatchTests_SingleStarDoesNotCrossSeparator(t *testing.T) {
	cases := []scoring.TestCase{
		{Name: "zzz", File: "a/b/c_test.js", Status: scoring.StatusPassed},
	}
	if got := scoring.MatchTests([]string{"a/*_test.js"}, cases); len(got) != 0 {
		t.Fatalf("expected single star not to cross separators, got %+v", got)
	}
	if got := scoring.MatchTests([]string{"a/**/c_test.js"}, cases); len(got) != 1 {
		t.Fatalf("expected double star to cross separators, got %+v", got)
	}
}

func TestMatchTests_MultiplePatternsNoDuplicates(t *testing.T) {
	cases := []scoring.TestCase{
		{Name: "login works", File: "auth/login_test.js", Status: scoring.StatusPassed},
	}
	got := scoring.MatchTests([]string{"auth/*.js", "login"}, cases)
	if len(got) != 1 {
		t.Fatalf("expected a case to match at most once, got %d", len(got))
	}
}
