package finance

import (
	"fmt"
	"math"
)

// DebtServiceTable is a year-by-year amortization schedule. The first column
// is the year before the horizon start and seeds the loan balance; years
// outside the active tenor window are zero.
type DebtServiceTable struct {
	StartYear int // horizonStart - 1

	Interest       []float64
	Principal      []float64
	BalanceOpening []float64
	BalanceClosing []float64
	CapitalService []float64
}

// Years returns the calendar years covered by the table.
func (t *DebtServiceTable) Years() []int {
	years := make([]int, len(t.Interest))
	for i := range years {
		years[i] = t.StartYear + i
	}
	return years
}

func (t *DebtServiceTable) index(year int) int {
	i := year - t.StartYear
	if i < 0 || i >= len(t.Interest) {
		return -1
	}
	return i
}

// InterestIn returns the interest due in a calendar year, zero outside the
// table horizon.
func (t *DebtServiceTable) InterestIn(year int) float64 {
	if i := t.index(year); i >= 0 {
		return t.Interest[i]
	}
	return 0
}

// PrincipalIn returns the principal repayment due in a calendar year.
func (t *DebtServiceTable) PrincipalIn(year int) float64 {
	if i := t.index(year); i >= 0 {
		return t.Principal[i]
	}
	return 0
}

// ClosingBalanceIn returns the closing balance of a calendar year.
func (t *DebtServiceTable) ClosingBalanceIn(year int) float64 {
	if i := t.index(year); i >= 0 {
		return t.BalanceClosing[i]
	}
	return 0
}

// annuityPrincipal returns the principal component of payment number per of
// a constant-payment loan of pv amortized over nper periods.
func annuityPrincipal(rate float64, per, nper int, pv float64) float64 {
	if nper <= 0 {
		return 0
	}
	if rate == 0 {
		return pv / float64(nper)
	}
	payment := pv * rate / (1 - math.Pow(1+rate, float64(-nper)))
	return (payment - pv*rate) * math.Pow(1+rate, float64(per-1))
}

// DebtSchedule computes the amortization schedule of a loan disbursed in
// debtStart. During the grace period interest accrues on the full balance
// and no principal is repaid; afterwards the remaining balance amortizes
// with constant payments over the post-grace periods, closing at zero in the
// final tenor year. The table spans horizonStart-1 through horizonEnd; the
// seed year debtStart-1 carries the disbursed amount as opening and closing
// balance.
func DebtSchedule(principal float64, tenorYears, graceYears int, annualRate float64, debtStart, horizonStart, horizonEnd int) (*DebtServiceTable, error) {
	if tenorYears < 1 {
		return nil, fmt.Errorf("%w: tenor=%d", ErrInvalidRange, tenorYears)
	}
	if graceYears < 0 || graceYears >= tenorYears {
		return nil, fmt.Errorf("%w: grace period %d outside [0, %d)", ErrInvalidRange, graceYears, tenorYears)
	}
	if horizonEnd < horizonStart {
		return nil, fmt.Errorf("%w: horizon [%d, %d]", ErrInvalidRange, horizonStart, horizonEnd)
	}
	if principal < 0 {
		return nil, fmt.Errorf("%w: negative principal %f", ErrInvalidRange, principal)
	}

	nYears := horizonEnd - (horizonStart - 1) + 1
	table := &DebtServiceTable{
		StartYear:      horizonStart - 1,
		Interest:       make([]float64, nYears),
		Principal:      make([]float64, nYears),
		BalanceOpening: make([]float64, nYears),
		BalanceClosing: make([]float64, nYears),
		CapitalService: make([]float64, nYears),
	}

	if i := table.index(debtStart - 1); i >= 0 {
		table.BalanceOpening[i] = principal
		table.BalanceClosing[i] = principal
	}

	balance := principal
	for period := 1; period <= tenorYears; period++ {
		year := debtStart + period - 1
		opening := balance
		repayment := 0.0
		if period > graceYears {
			repayment = annuityPrincipal(annualRate, period-graceYears, tenorYears-graceYears, principal)
		}
		interest := opening * annualRate
		closing := opening - repayment

		if i := table.index(year); i >= 0 {
			table.BalanceOpening[i] = opening
			table.Interest[i] = interest
			table.Principal[i] = repayment
			table.BalanceClosing[i] = closing
			table.CapitalService[i] = interest + repayment
		}
		balance = closing
	}

	return table, nil
}

// InitialLoanTable schedules the CAPEX debt disbursed at project start,
// sized from the financing split (CAPEX minus grant and equity).
func (m *Model) InitialLoanTable() (*DebtServiceTable, error) {
	kpis := m.FinancialKPIs()
	return DebtSchedule(
		kpis.InitialLoanAmount,
		m.params.LoanMaturity,
		m.params.GracePeriod,
		m.params.DebtInterestMG,
		m.projectStart,
		m.projectStart,
		m.projectStart+m.projectDuration-1,
	)
}

// ReplacementLoanTable schedules the debt for replacing battery, inverter
// and diesel generator, disbursed ReplacementYears after project start.
func (m *Model) ReplacementLoanTable() (*DebtServiceTable, error) {
	kpis := m.FinancialKPIs()
	return DebtSchedule(
		kpis.ReplacementLoanAmount,
		m.params.LoanMaturity,
		m.params.GracePeriod,
		m.params.DebtInterestReplacement,
		m.projectStart+ReplacementYears,
		m.projectStart,
		m.projectStart+m.projectDuration-1,
	)
}
