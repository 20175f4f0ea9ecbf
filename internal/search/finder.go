package search

import "bytes"

// Finder is a Knuth-Morris-Pratt matcher for a fixed needle. It keeps no state
// between Scan calls, so each chunk is matched from scratch.
type Finder struct {
	needle []byte
	prefix []int
}

// NewFinder precomputes the failure table for needle.
func NewFinder(needle []byte) *Finder {
	n := append([]byte(nil), needle...)
	prefix := make([]int, len(n))
	k := 0
	for i := 1; i < len(n); i++ {
		for k > 0 && n[i] != n[k] {
			k = prefix[k-1]
		}
		if n[i] == n[k] {
			k++
		}
		prefix[i] = k
	}
	return &Finder{needle: n, prefix: prefix}
}

// Len returns the needle length.
func (f *Finder) Len() int {
	return len(f.needle)
}

// Scan calls fn with the start index of every occurrence of the needle that
// lies entirely within buf, overlapping occurrences included, in ascending
// order. It returns the number of occurrences.
func (f *Finder) Scan(buf []byte, fn func(int)) int {
	m := len(f.needle)
	if m == 0 || len(buf) < m {
		return 0
	}

	first := f.needle[0]
	count := 0
	k := 0
	for i := 0; i < len(buf); i++ {
		if k == 0 {
			j := bytes.IndexByte(buf[i:], first)
			if j < 0 {
				break
			}
			i += j
		}
		b := buf[i]
		for k > 0 && f.needle[k] != b {
			k = f.prefix[k-1]
		}
		if f.needle[k] == b {
			k++
		}
		if k == m {
			fn(i - m + 1)
			count++
			k = f.prefix[m-1]
		}
	}
	return count
}
