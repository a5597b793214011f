package finance

import (
	"fmt"
	"math"
)

// FinancialKPIs derives the financing structure from gross CAPEX and the
// project's financing parameters. The usable grant is haircut by the
// performance-based disbursement fraction; the initial loan covers whatever
// grant and equity do not, floored at zero. WACC weights the debt and equity
// rates by their fractions of gross CAPEX.
func (m *Model) FinancialKPIs() FinancialKPIs {
	items := m.Capex()
	grossCapex := SumCapex(items, CurrencyNGN)

	totalEquity := m.params.TotalEquity()
	totalGrant := m.params.GrantShare * grossCapex * m.params.UsableGrantFraction
	initialAmount := initialLoanAmount(grossCapex, totalGrant, totalEquity)

	wacc := 0.0
	if grossCapex > 0 {
		loanFraction := initialAmount / grossCapex
		equityFraction := totalEquity / grossCapex
		wacc = loanFraction*m.params.DebtInterestMG + equityFraction*m.params.EquityInterestMG
	}

	return FinancialKPIs{
		TotalInvestments:      grossCapex,
		EquityCommunity:       m.params.EquityCommunityAmount,
		EquityDeveloper:       m.params.EquityDeveloperAmount,
		TotalEquity:           totalEquity,
		InitialLoanAmount:     initialAmount,
		ReplacementLoanAmount: ReplacementCapex(items),
		TotalGrant:            totalGrant,
		WACC:                  wacc,
		InterestRate:          m.params.DebtInterestMG,
		Maturity:              m.params.LoanMaturity,
		GracePeriod:           m.params.GracePeriod,
	}
}

// SolveTariff finds the tariff zeroing the given cash-flow function by
// fitting a line through the sampled points and returning its root. Valid
// because the early cumulative cash flow is linear in the tariff: the tariff
// scales only the revenue term, while OPEX, CAPEX and debt service are
// tariff-independent. Revisit before reusing with a non-linear revenue
// model. A (near-)zero slope means the cash flow does not respond to the
// tariff at all, e.g. with zero consumers.
func SolveTariff(cashFlowFn func(tariff float64) (float64, error), samples []float64) (float64, error) {
	if len(samples) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 sample tariffs, got %d", ErrInvalidRange, len(samples))
	}

	n := float64(len(samples))
	var sumX, sumY, sumXX, sumXY float64
	for _, x := range samples {
		y, err := cashFlowFn(x)
		if err != nil {
			return 0, err
		}
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, fmt.Errorf("%w: sample tariffs are not distinct", ErrInvalidRange)
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	if math.Abs(slope) < 1e-9*math.Max(1, math.Abs(intercept)) {
		return 0, ErrDegenerateFit
	}
	return -intercept / slope, nil
}

// Tariff solves for the breakeven community tariff: the unit price at which
// the cumulative cash flow after debt service over the first five project
// years is zero.
func (m *Model) Tariff() (float64, error) {
	cashFlowFn := func(tariff float64) (float64, error) {
		cashFlow, err := m.CashFlowOverLifetime(&tariff)
		if err != nil {
			return 0, err
		}
		row, _ := cashFlow.Row(RowCashFlowAfterDebt)
		n := 5
		if len(row) < n {
			n = len(row)
		}
		sum := 0.0
		for _, v := range row[:n] {
			sum += v
		}
		return sum, nil
	}
	return SolveTariff(cashFlowFn, []float64{0.2, 0.4})
}

// NPV discounts a cash-flow sequence (first element at t=0) at the given
// rate.
func NPV(rate float64, cashFlows []float64) float64 {
	npv := 0.0
	for t, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

func npvDerivative(rate float64, cashFlows []float64) float64 {
	d := 0.0
	for t, cf := range cashFlows {
		if t == 0 {
			continue
		}
		d -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// InternalRateOfReturn finds the discount rate zeroing the NPV of a
// cash-flow sequence. Newton iteration from a conventional starting guess,
// with a bounded bisection fallback when Newton leaves the valid domain or
// oscillates. Both phases are iteration-bounded; failure surfaces as
// ErrNoConvergence rather than a bogus rate.
func InternalRateOfReturn(cashFlows []float64) (float64, error) {
	if len(cashFlows) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 cash flows", ErrInvalidRange)
	}

	const tol = 1e-10

	rate := 0.1
	for iter := 0; iter < 50; iter++ {
		f := NPV(rate, cashFlows)
		if math.Abs(f) < tol {
			return rate, nil
		}
		d := npvDerivative(rate, cashFlows)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}
		next := rate - f/d
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		if math.Abs(next-rate) < 1e-14 {
			rate = next
			break
		}
		rate = next
	}
	if math.Abs(NPV(rate, cashFlows)) < tol {
		return rate, nil
	}

	// Bisection over a bounded rate domain.
	const lo, hi, step = -0.99, 10.0, 0.01
	prevRate, prevNPV := lo, NPV(lo, cashFlows)
	for r := lo + step; r <= hi; r += step {
		f := NPV(r, cashFlows)
		if prevNPV == 0 {
			return prevRate, nil
		}
		if prevNPV*f < 0 {
			a, b := prevRate, r
			fa := prevNPV
			for i := 0; i < 200; i++ {
				mid := (a + b) / 2
				fm := NPV(mid, cashFlows)
				if math.Abs(fm) < tol || (b-a)/2 < 1e-14 {
					return mid, nil
				}
				if fa*fm < 0 {
					b = mid
				} else {
					a, fa = mid, fm
				}
			}
			return (a + b) / 2, nil
		}
		prevRate, prevNPV = r, f
	}

	return 0, ErrNoConvergence
}

// InternalReturnOnInvestment computes the project IRR after the given number
// of operating years: the grant-reduced gross CAPEX as the year-zero
// outflow, followed by the cash flow from operating activity.
func (m *Model) InternalReturnOnInvestment(years int) (float64, error) {
	if years < 1 {
		return 0, fmt.Errorf("%w: years=%d", ErrInvalidRange, years)
	}
	if years > m.projectDuration {
		years = m.projectDuration
	}

	grossCapex := m.TotalCapex(CurrencyNGN)
	grant := m.params.GrantShare * grossCapex

	cashFlow, err := m.CashFlowOverLifetime(nil)
	if err != nil {
		return 0, err
	}
	operating, _ := cashFlow.Row(RowCashFlowOperating)

	sequence := make([]float64, 0, years+1)
	sequence = append(sequence, -grossCapex+grant)
	sequence = append(sequence, operating[:years]...)

	return InternalRateOfReturn(sequence)
}
