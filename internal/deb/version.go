// Package deb implements the Debian metadata primitives the checker is
// built on: version ordering, Packages stanza parsing and dependency
// clause parsing.
package deb

import "strings"

// CompareVersions orders two Debian version strings of the form
// [epoch:]upstream[-revision]. It returns a negative number when a is
// older than b, zero when they are equal and a positive number when a
// is newer than b.
//
// The comparison follows dpkg: the numeric epoch is compared first,
// then the upstream part, then the revision. Upstream and revision are
// walked as alternating non-digit and digit runs where digit runs
// compare numerically and non-digit runs compare bytewise with two
// exceptions: tilde sorts before everything including the end of the
// string, and letters sort before any other punctuation.
func CompareVersions(a, b string) int {
	ae, au, ar := splitVersion(a)
	be, bu, br := splitVersion(b)

	if ae != be {
		return compareNumeric(ae, be)
	}
	if c := compareFragment(au, bu); c != 0 {
		return c
	}
	return compareFragment(ar, br)
}

// splitVersion cuts a version string into epoch, upstream and revision.
// The epoch is everything before the first colon when that prefix is
// all digits; the revision is everything after the last hyphen. Both
// default to empty.
func splitVersion(v string) (epoch, upstream, revision string) {
	upstream = v
	if i := strings.IndexByte(upstream, ':'); i >= 0 && allDigits(upstream[:i]) {
		epoch = upstream[:i]
		upstream = upstream[i+1:]
	}
	if i := strings.LastIndexByte(upstream, '-'); i >= 0 {
		revision = upstream[i+1:]
		upstream = upstream[:i]
	}
	return epoch, upstream, revision
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// charOrder maps a byte to its sort weight inside a non-digit run.
// End of string weighs 0, so tilde (-1) sorts before it and letters
// keep their ASCII codes while remaining punctuation is pushed above
// every letter.
func charOrder(c byte) int {
	switch {
	case c == '~':
		return -1
	case isDigit(c):
		return 0
	case isAlpha(c):
		return int(c)
	default:
		return int(c) + 256
	}
}

// compareNumeric compares two unpadded digit strings by magnitude.
// Empty means zero.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// compareFragment compares one upstream or revision fragment by
// scanning alternating non-digit and digit runs.
func compareFragment(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		// Non-digit run.
		for (i < len(a) && !isDigit(a[i])) || (j < len(b) && !isDigit(b[j])) {
			oa, ob := 0, 0
			if i < len(a) {
				oa = charOrder(a[i])
			}
			if j < len(b) {
				ob = charOrder(b[j])
			}
			if oa != ob {
				if oa < ob {
					return -1
				}
				return 1
			}
			i++
			j++
		}

		// Digit run, leading zeros ignored.
		for i < len(a) && a[i] == '0' {
			i++
		}
		for j < len(b) && b[j] == '0' {
			j++
		}
		firstDiff := 0
		for i < len(a) && j < len(b) && isDigit(a[i]) && isDigit(b[j]) {
			if firstDiff == 0 {
				firstDiff = int(a[i]) - int(b[j])
			}
			i++
			j++
		}
		if i < len(a) && isDigit(a[i]) {
			return 1
		}
		if j < len(b) && isDigit(b[j]) {
			return -1
		}
		if firstDiff != 0 {
			if firstDiff < 0 {
				return -1
			}
			return 1
		}
	}
	return 0
}
