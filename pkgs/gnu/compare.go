// Package gnu orders version strings the way GNU sort -V does.
package gnu

// Compare orders two version strings: -1 if a < b, 0 if equal, 1 if a > b.
//
// Strings are split into alternating non-digit and digit runs. Non-digit
// runs compare character by character with letters before other symbols
// and '~' before everything, including the end of the string. Digit runs
// compare by numeric value, ignoring leading zeros.
func Compare(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for (i < len(a) && !isDigit(a[i])) || (j < len(b) && !isDigit(b[j])) {
			ca, cb := rank(at(a, i)), rank(at(b, j))
			if ca != cb {
				return sign(ca - cb)
			}
			i++
			j++
		}

		for i < len(a) && a[i] == '0' {
			i++
		}
		for j < len(b) && b[j] == '0' {
			j++
		}

		diff := 0
		for i < len(a) && j < len(b) && isDigit(a[i]) && isDigit(b[j]) {
			if diff == 0 {
				diff = int(a[i]) - int(b[j])
			}
			i++
			j++
		}
		// The longer digit run is the larger number.
		if i < len(a) && isDigit(a[i]) {
			return 1
		}
		if j < len(b) && isDigit(b[j]) {
			return -1
		}
		if diff != 0 {
			return sign(diff)
		}
	}
	return 0
}

func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func rank(c byte) int {
	switch {
	case c == 0, isDigit(c):
		return 0
	case c == '~':
		return -1
	case isAlpha(c):
		return int(c)
	default:
		return int(c) + 256
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
