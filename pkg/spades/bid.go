package spades

import (
	"math"
	"strconv"
	"strings"
)

// Bid is a seat's declaration for the hand.
// A nil or blind-nil bid always carries a Value of 0.
type Bid struct {
	Value    int  `json:"value"`
	Nil      bool `json:"nil"`
	BlindNil bool `json:"blindNil"`
}

// NumericBid returns a plain numeric bid
func NumericBid(value int) Bid {
	return Bid{Value: value}
}

// NilBid returns a nil bid
func NilBid() Bid {
	return Bid{Nil: true}
}

// BlindNilBid returns a blind-nil bid
func BlindNilBid() Bid {
	return Bid{BlindNil: true}
}

func (b Bid) valid() bool {
	if b.Nil && b.BlindNil {
		return false
	}

	if b.Nil || b.BlindNil {
		return b.Value == 0
	}

	return b.Value >= 0 && b.Value <= 13
}

// ParseBid parses a client-supplied bid value.
// Accepted forms: an integer 0-13 (JSON numbers arrive as float64), the string
// "nil", or the strings "blind nil"/"blindnil". Anything else is ErrInvalidBid.
func ParseBid(raw interface{}) (Bid, error) {
	switch val := raw.(type) {
	case float64:
		if val != math.Trunc(val) {
			return Bid{}, ErrInvalidBid
		}

		return parseNumericBid(int(val))
	case int:
		return parseNumericBid(val)
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "nil":
			return NilBid(), nil
		case "blindnil", "blind nil":
			return BlindNilBid(), nil
		}

		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return Bid{}, ErrInvalidBid
		}

		return parseNumericBid(n)
	}

	return Bid{}, ErrInvalidBid
}

func parseNumericBid(n int) (Bid, error) {
	if n < 0 || n > 13 {
		return Bid{}, ErrInvalidBid
	}

	return NumericBid(n), nil
}
