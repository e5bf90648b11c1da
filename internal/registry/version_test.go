package registry

import "testing"

func TestVersionNewer(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"1.2.0", "1.1.9", true},
		{"1.1.9", "1.2.0", false},
		{"1.0", "1.0", false},
		{"2.0", "1.9.9", true},
		{"1.0.1", "1.0", true},
		{"1.0", "1.0.0", false},
		{"v1.2", "v1.1", true},
		{"0.10.0", "0.9.9", true},
		{"garbage", "nonsense", false}, // both degrade to (0)
		{"", "", false},
		{"abc", "0.0.1", false},
		{"0.0.1", "abc", true},
	}

	for _, c := range cases {
		if got := VersionNewer(c.a, c.b); got != c.want {
			t.Errorf("VersionNewer(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
