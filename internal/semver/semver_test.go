package semver

import "testing"

func TestParseRangeWildcard(t *testing.T) {
	r, err := ParseRange("*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := Parse("9.9.9")
	if !r.Matches(v) {
		t.Errorf("wildcard range should match any version")
	}
}

func TestParseRangeEmptyIsWildcard(t *testing.T) {
	r, err := ParseRange("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := Parse("0.0.0")
	if !r.Matches(v) {
		t.Errorf("empty range should default to wildcard")
	}
}

func TestParseRangeMajorOnly(t *testing.T) {
	r, err := ParseRange("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []struct {
		v     string
		match bool
	}{
		{"1.0.0", true},
		{"1.9.9", true},
		{"0.9.9", false},
		{"2.0.0", false},
	}
	for _, c := range cases {
		v, err := Parse(c.v)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.v, err)
		}
		if got := r.Matches(v); got != c.match {
			t.Errorf("Range(1).Matches(%q) = %v, want %v", c.v, got, c.match)
		}
	}
}

func TestParseRangeMajorMinor(t *testing.T) {
	r, err := ParseRange("2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v1, _ := Parse("2.3.7")
	v2, _ := Parse("2.4.0")
	if !r.Matches(v1) {
		t.Errorf("2.3.7 should match range 2.3")
	}
	if r.Matches(v2) {
		t.Errorf("2.4.0 should not match range 2.3")
	}
}

func TestMatchHelper(t *testing.T) {
	ok, err := Match("1", "1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("1.2.3 should satisfy range 1")
	}

	ok, err = Match("2", "1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("1.2.3 should not satisfy range 2")
	}
}

func TestParseRangeInvalid(t *testing.T) {
	if _, err := ParseRange("1.2.3.4"); err == nil {
		t.Errorf("expected error for too many components")
	}
	if _, err := ParseRange("abc"); err == nil {
		t.Errorf("expected error for non-numeric component")
	}
}
