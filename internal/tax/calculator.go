// Package tax computes the Brazilian withholding breakdown of a service invoice.
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	RatePIS    = decimal.RequireFromString("0.0065")
	RateCOFINS = decimal.RequireFromString("0.03")
	RateCSLL   = decimal.RequireFromString("0.01")
	RateIRRF   = decimal.RequireFromString("0.015")
)

const places = 2

type Input struct {
	Gross    decimal.Decimal
	Penalty  decimal.Decimal
	Interest decimal.Decimal
	INSS     decimal.Decimal
	ISS      decimal.Decimal
}

type Breakdown struct {
	Base     decimal.Decimal `json:"base_amount"`
	PIS      decimal.Decimal `json:"pis"`
	COFINS   decimal.Decimal `json:"cofins"`
	CSLL     decimal.Decimal `json:"csll"`
	GuidePCC decimal.Decimal `json:"guide_pcc"`
	IRRF     decimal.Decimal `json:"irrf"`
	GuideIR  decimal.Decimal `json:"guide_ir"`
	INSS     decimal.Decimal `json:"inss"`
	ISS      decimal.Decimal `json:"iss"`
	Retained decimal.Decimal `json:"retained_tax"`
	Net      decimal.Decimal `json:"net_amount"`
	Penalty  decimal.Decimal `json:"penalty"`
	Interest decimal.Decimal `json:"interest"`
	Total    decimal.Decimal `json:"total"`
}

// Recompute derives every monetary field from the gross amount. A negative
// gross is treated as zero. INSS and ISS are user inputs and pass through.
func Recompute(in Input) Breakdown {
	gross := nonNegative(in.Gross)

	pis := round(gross.Mul(RatePIS))
	cofins := round(gross.Mul(RateCOFINS))
	csll := round(gross.Mul(RateCSLL))
	guidePCC := round(pis.Add(cofins).Add(csll))
	irrf := round(gross.Mul(RateIRRF))

	retained := guidePCC.Add(irrf).Add(in.INSS).Add(in.ISS)

	return Breakdown{
		Base:     gross,
		PIS:      pis,
		COFINS:   cofins,
		CSLL:     csll,
		GuidePCC: guidePCC,
		IRRF:     irrf,
		GuideIR:  irrf,
		INSS:     in.INSS,
		ISS:      in.ISS,
		Retained: retained,
		Net:      gross.Sub(retained),
		Penalty:  in.Penalty,
		Interest: in.Interest,
		Total:    Total(gross, in.Penalty, in.Interest),
	}
}

// Retotal re-derives only the total after a penalty or interest change.
// Tax components are left as they are.
func Retotal(b Breakdown, penalty, interest decimal.Decimal) Breakdown {
	b.Penalty = penalty
	b.Interest = interest
	b.Total = Total(b.Base, penalty, interest)
	return b
}

// Total is gross + penalty + interest. It does not depend on any tax field.
func Total(gross, penalty, interest decimal.Decimal) decimal.Decimal {
	return nonNegative(gross).Add(penalty).Add(interest)
}

// ParseAmount reads a user-entered amount. Empty or non-numeric input is zero.
// Both "1234.56" and the Brazilian "1.234,56" forms are accepted.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "R$")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// round uses half-up rounding to cents. Inputs here are never negative, so
// decimal's half-away-from-zero matches.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(places)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
