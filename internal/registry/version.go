package registry

import (
	"strconv"
	"strings"
)

// VersionNewer reports whether version a is strictly newer than b. Versions
// are compared on their numeric components; strings with no numeric content
// degrade to a single zero component, so two garbage versions compare equal.
func VersionNewer(a, b string) bool {
	av := versionComponents(a)
	bv := versionComponents(b)

	n := len(av)
	if len(bv) > n {
		n = len(bv)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(av) {
			x = av[i]
		}
		if i < len(bv) {
			y = bv[i]
		}
		if x != y {
			return x > y
		}
	}
	return false
}

func versionComponents(v string) []int {
	var parts []int
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			n, _ := strconv.Atoi(cur.String())
			parts = append(parts, n)
			cur.Reset()
		}
	}
	for _, r := range v {
		if r >= '0' && r <= '9' {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	if len(parts) == 0 {
		return []int{0}
	}
	return parts
}
