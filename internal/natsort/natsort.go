// Package natsort provides natural-order comparison for strings that mix
// alphabetic and numeric runs, such as reference sequence names ("NC_2",
// "NC_10") or sample barcodes ("barcode02"). Digit runs compare by numeric
// value, everything else compares case-insensitively as text.
package natsort

import (
	"sort"
	"strings"
)

// Key is a precomputed comparison key. Parts alternate between text runs and
// digit runs, always starting (and ending) with a text part, which may be
// empty. Because of that alternation, two keys compare text-to-text and
// digits-to-digits at every position.
type Key []part

type part struct {
	s     string // lowercased text, or a digit run with leading zeros trimmed
	digit bool
}

// KeyOf splits s into alternating text and digit runs and returns the
// comparison key. It never fails; any printable input is accepted.
// An empty string yields a single empty text part, which sorts first.
func KeyOf(s string) Key {
	k := make(Key, 0, 4)
	start := 0
	inDigits := false

	flushText := func(end int) {
		k = append(k, part{s: strings.ToLower(s[start:end])})
	}
	flushDigits := func(end int) {
		k = append(k, part{s: trimLeadingZeros(s[start:end]), digit: true})
	}

	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d == inDigits {
			continue
		}
		if inDigits {
			flushDigits(i)
		} else {
			flushText(i)
		}
		start = i
		inDigits = d
	}
	if inDigits {
		flushDigits(len(s))
		// Keep the trailing empty text part so parity stays text-first.
		k = append(k, part{})
	} else {
		flushText(len(s))
	}
	return k
}

// Compare orders two keys part by part. A key that is a strict prefix of the
// other sorts first.
func Compare(a, b Key) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		pa, pb := a[i], b[i]
		if pa.digit != pb.digit {
			// Only possible when comparing keys of different parity
			// lengths; numbers sort before text.
			if pa.digit {
				return -1
			}
			return 1
		}
		var c int
		if pa.digit {
			c = compareDigits(pa.s, pb.s)
		} else {
			c = strings.Compare(pa.s, pb.s)
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Less reports whether a sorts before b in natural order.
func Less(a, b string) bool {
	return Compare(KeyOf(a), KeyOf(b)) < 0
}

// Strings sorts ss in place in natural order. The sort is stable so equal
// keys keep their input order.
func Strings(ss []string) {
	keys := make(map[string]Key, len(ss))
	for _, s := range ss {
		if _, ok := keys[s]; !ok {
			keys[s] = KeyOf(s)
		}
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return Compare(keys[ss[i]], keys[ss[j]]) < 0
	})
}

// compareDigits compares two digit runs by magnitude. Leading zeros were
// trimmed at key construction, so a longer run is always larger.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}
