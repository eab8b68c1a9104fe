package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func TestRecomputeThousand(t *testing.T) {
	b := Recompute(Input{Gross: dec("1000.00"), Penalty: dec("5"), Interest: dec("2")})

	requireAmount(t, "6.50", b.PIS)
	requireAmount(t, "30.00", b.COFINS)
	requireAmount(t, "10.00", b.CSLL)
	requireAmount(t, "46.50", b.GuidePCC)
	requireAmount(t, "15.00", b.IRRF)
	requireAmount(t, "15.00", b.GuideIR)
	requireAmount(t, "1000.00", b.Base)
	requireAmount(t, "61.50", b.Retained)
	requireAmount(t, "938.50", b.Net)
	requireAmount(t, "1007.00", b.Total)
}

func TestRecomputeRoundsEachComponent(t *testing.T) {
	cases := []struct {
		gross  string
		pis    string
		cofins string
		csll   string
		irrf   string
	}{
		{gross: "0", pis: "0", cofins: "0", csll: "0", irrf: "0"},
		{gross: "1", pis: "0.01", cofins: "0.03", csll: "0.01", irrf: "0.02"},
		{gross: "123.45", pis: "0.80", cofins: "3.70", csll: "1.23", irrf: "1.85"},
		{gross: "77", pis: "0.50", cofins: "2.31", csll: "0.77", irrf: "1.16"},
		{gross: "9999.99", pis: "65.00", cofins: "300.00", csll: "100.00", irrf: "150.00"},
	}
	for _, tc := range cases {
		t.Run(tc.gross, func(t *testing.T) {
			b := Recompute(Input{Gross: dec(tc.gross)})
			requireAmount(t, tc.pis, b.PIS)
			requireAmount(t, tc.cofins, b.COFINS)
			requireAmount(t, tc.csll, b.CSLL)
			requireAmount(t, tc.irrf, b.IRRF)
			requireAmount(t, b.PIS.Add(b.COFINS).Add(b.CSLL).Round(2).String(), b.GuidePCC)
		})
	}
}

func TestRecomputeIncludesUserTaxes(t *testing.T) {
	b := Recompute(Input{Gross: dec("2000"), INSS: dec("220"), ISS: dec("100")})

	requireAmount(t, "220", b.INSS)
	requireAmount(t, "100", b.ISS)
	requireAmount(t, b.GuidePCC.Add(b.IRRF).Add(dec("320")).String(), b.Retained)
	requireAmount(t, dec("2000").Sub(b.Retained).String(), b.Net)
	requireAmount(t, "2000", b.Total)
}

func TestRecomputeNegativeGrossIsZero(t *testing.T) {
	b := Recompute(Input{Gross: dec("-50"), Penalty: dec("1")})

	require.True(t, b.Base.IsZero())
	require.True(t, b.PIS.IsZero())
	require.True(t, b.Retained.IsZero())
	requireAmount(t, "1", b.Total)
}

func TestRetotalKeepsTaxes(t *testing.T) {
	b := Recompute(Input{Gross: dec("1000")})
	after := Retotal(b, dec("10"), dec("3.5"))

	requireAmount(t, "1013.5", after.Total)
	require.True(t, b.PIS.Equal(after.PIS))
	require.True(t, b.Net.Equal(after.Net))
	require.True(t, b.Retained.Equal(after.Retained))
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"":            "0",
		"abc":         "0",
		"NaN":         "0",
		"1000":        "1000",
		"1000.50":     "1000.5",
		"1.234,56":    "1234.56",
		"R$ 1.000,00": "1000",
		"  12,5 ":     "12.5",
	}
	for in, expected := range cases {
		requireAmount(t, expected, ParseAmount(in))
	}
}
