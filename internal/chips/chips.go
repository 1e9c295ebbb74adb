// Package chips implements the table's monetary amounts as 2-decimal fixed
// point. Amounts are integer cents internally and on the wire; binary
// floating point never touches chip arithmetic.
package chips

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a chip amount in cents.
type Amount int64

// Zero is the empty amount.
const Zero Amount = 0

// FromCents wraps a raw cent count.
func FromCents(c int64) Amount {
	return Amount(c)
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// String renders the amount as decimal currency, e.g. "12.50".
func (a Amount) String() string {
	neg := a < 0
	c := int64(a)
	if neg {
		c = -c
	}
	s := fmt.Sprintf("%d.%02d", c/100, c%100)
	if neg {
		return "-" + s
	}
	return s
}

// Parse reads a decimal amount with at most two fractional digits.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	c := w*100 + f
	if neg {
		c = -c
	}
	return Amount(c), nil
}

// Split divides the amount among n winners. Each share rounds down to a
// whole cent; the remainder cents (at most n-1) go one each to the earliest
// winners in the slice order.
func (a Amount) Split(n int) []Amount {
	if n <= 0 {
		return nil
	}
	share := int64(a) / int64(n)
	rem := int64(a) % int64(n)
	out := make([]Amount, n)
	for i := 0; i < n; i++ {
		out[i] = Amount(share)
		if int64(i) < rem {
			out[i]++
		}
	}
	return out
}
