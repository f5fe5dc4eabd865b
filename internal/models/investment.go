package models

import "math"

// shareTolerance bounds the relative error tolerated when comparing share
// counts. Share counts come out of float optimization, so exact equality is
// meaningless for anything that has been traded.
const shareTolerance = 1e-9

// Investment is a position in a single fund within one account.
type Investment struct {
	Fund   Fund    `json:"fund"`
	Shares float64 `json:"shares"`
}

// Value returns the current market value of the position.
func (i Investment) Value() float64 {
	return i.Shares * i.Fund.SharePrice
}

// Equal reports whether two investments hold the same fund and, within a
// small relative tolerance, the same number of shares.
func (i Investment) Equal(o Investment) bool {
	return i.Fund == o.Fund && sharesClose(i.Shares, o.Shares)
}

func sharesClose(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= shareTolerance {
		return true
	}
	return diff <= shareTolerance*math.Max(math.Abs(a), math.Abs(b))
}
