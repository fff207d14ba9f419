package counts

import "sort"

// NaturalLess reports whether a sorts before b under natural ordering:
// embedded digit runs compare numerically, everything else bytewise.
// "T2" sorts before "T10".
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, restA := splitDigits(a)
			nb, restB := splitDigits(b)
			if na != nb {
				return lessNumeric(na, nb)
			}
			a, b = restA, restB
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

// SortNatural sorts strings in place under natural ordering.
func SortNatural(s []string) {
	sort.SliceStable(s, func(i, j int) bool { return NaturalLess(s[i], s[j]) })
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// splitDigits splits off the leading digit run.
func splitDigits(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// lessNumeric compares two digit runs as numbers without overflow:
// after stripping leading zeros, a shorter run is smaller, equal-length
// runs compare lexicographically.
func lessNumeric(a, b string) bool {
	a = trimZeros(a)
	b = trimZeros(b)
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func trimZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}
