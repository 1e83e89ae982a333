package editdist

import "testing"

func TestDistanceBasics(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"tours", "tours", 0},
		{"trasbourg", "strasbourg", 1},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDistanceTransposition(t *testing.T) {
	// Adjacent transposition costs exactly one edit, not two.
	if got := Distance("ab", "ba"); got != 1 {
		t.Errorf("Distance(ab, ba) = %d, want 1", got)
	}
	if got := Distance("strasbourg", "starsbourg"); got != 1 {
		t.Errorf("Distance(strasbourg, starsbourg) = %d, want 1", got)
	}
}

func TestMaxDistance(t *testing.T) {
	cases := []struct {
		value string
		want  int
	}{
		{"abcd", 0},
		{"abcde", 1},
		{"abcdef", 1},
		{"abcdefg", 2},
		{"abcdefghi", 2},
		{"abcdefghij", 3},
		{"strasbourg", 3},
	}
	for _, c := range cases {
		if got := MaxDistance(c.value); got != c.want {
			t.Errorf("MaxDistance(%q) = %d, want %d", c.value, got, c.want)
		}
	}
}
