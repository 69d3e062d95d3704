package cryptofolio

import "github.com/shopspring/decimal"

// Epsilon is the largest absolute quantity still considered as zero.
//
// Brokerages report crypto amounts with up to 18 decimals and the FIFO subtraction of
// such amounts can leave dust behind.
var Epsilon = decimal.New(1, -9)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is an amount of units of an asset.
type Quantity struct {
	value decimal.Decimal
}

// Q returns a Quantity for value.
func Q[T float64 | int | int64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity parses a decimal string like "0.00123400".
func ParseQuantity(s string) (Quantity, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: v}, nil
}

func (q Quantity) Equal(p Quantity) bool    { return q.value.Equal(p.value) }
func (q Quantity) LessThan(p Quantity) bool { return q.value.LessThan(p.value) }
func (q Quantity) Add(p Quantity) Quantity  { return Quantity{value: q.value.Add(p.value)} }
func (q Quantity) Sub(p Quantity) Quantity  { return Quantity{value: q.value.Sub(p.value)} }
func (q Quantity) Abs() Quantity            { return Quantity{value: q.value.Abs()} }
func (q Quantity) Neg() Quantity            { return Quantity{value: q.value.Neg()} }
func (q Quantity) IsNegative() bool         { return q.value.IsNegative() }
func (q Quantity) IsPositive() bool         { return q.value.IsPositive() }
func (q Quantity) IsZero() bool             { return q.value.IsZero() }
func (q Quantity) String() string           { return q.value.String() }

// Float returns the nearest float64, for reporting.
func (q Quantity) Float() float64 { return q.value.InexactFloat64() }

// IsNegligible reports whether q is within Epsilon of zero.
func (q Quantity) IsNegligible() bool { return q.value.Abs().LessThanOrEqual(Epsilon) }

// Min returns the smallest of q and p.
func (q Quantity) Min(p Quantity) Quantity {
	if p.LessThan(q) {
		return p
	}
	return q
}

// MarshalJSON implements the json.Marshaler interface.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return q.value.MarshalJSON()
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (q *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return q.value.UnmarshalJSON(decimalBytes)
}
