package tax

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amount is a monetary input as typed in the dashboard form. It decodes JSON
// numbers and strings through ParseAmount, so "", "abc" and null are zero
// and "1.234,56" is 1234.56. It never fails to decode.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err == nil {
			a.Decimal = ParseAmount(raw)
			return nil
		}
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = ParseAmount(string(data))
	return nil
}
