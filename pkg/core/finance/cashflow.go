package finance

// LossesOverLifetime builds the income table: EBITDA from revenue and
// operating costs, straight-line depreciation of the power-supply-system
// CAPEX over the full project duration, flat equity interest, debt interest
// and repayments from both loan schedules, EBT, corporate tax and net
// income. Corporate tax applies only in profitable years; there is no loss
// carry-forward.
func (m *Model) LossesOverLifetime(tariffOverride *float64) (*LifetimeTable, error) {
	revenue, err := m.RevenueOverLifetime(tariffOverride)
	if err != nil {
		return nil, err
	}
	om, err := m.OMCostsOverLifetime()
	if err != nil {
		return nil, err
	}
	initialLoan, err := m.InitialLoanTable()
	if err != nil {
		return nil, err
	}
	replacementLoan, err := m.ReplacementLoanTable()
	if err != nil {
		return nil, err
	}

	losses, err := NewLifetimeTable(m.projectStart, m.projectDuration)
	if err != nil {
		return nil, err
	}

	n := m.projectDuration
	totalRevenue, _ := revenue.Row(RowTotalRevenues)
	totalOpex, _ := om.Row(RowTotalOpex)

	ebitda := make([]float64, n)
	for i := range ebitda {
		ebitda[i] = totalRevenue[i] - totalOpex[i]
	}

	// Only the physical power supply system depreciates; soft costs, fixed
	// costs and taxes do not.
	depreciationYears := m.projectDuration
	yearlyDepreciation := systemCapex(m.Capex()) / float64(depreciationYears)
	depreciation := make([]float64, n)
	for i := 0; i < depreciationYears && i < n; i++ {
		depreciation[i] = yearlyDepreciation
	}

	// Equity interest is charged on the full contribution every year, not
	// amortized.
	equityInterest := make([]float64, n)
	yearlyEquityInterest := m.params.TotalEquity() * m.params.EquityInterestMG
	for i := range equityInterest {
		equityInterest[i] = yearlyEquityInterest
	}

	debtInterest := make([]float64, n)
	debtRepayments := make([]float64, n)
	for i := 0; i < n; i++ {
		year := m.projectStart + i
		debtInterest[i] = initialLoan.InterestIn(year) + replacementLoan.InterestIn(year)
		debtRepayments[i] = initialLoan.PrincipalIn(year) + replacementLoan.PrincipalIn(year)
	}

	ebt := make([]float64, n)
	tax := make([]float64, n)
	netIncome := make([]float64, n)
	for i := 0; i < n; i++ {
		ebt[i] = ebitda[i] - depreciation[i] - equityInterest[i] - debtInterest[i]
		if ebt[i] > 0 {
			tax[i] = ebt[i] * m.params.Tax
		}
		netIncome[i] = ebt[i] - tax[i]
	}

	losses.SetRow(RowEBITDA, ebitda)
	losses.SetRow(RowDepreciation, depreciation)
	losses.SetRow(RowEquityInterest, equityInterest)
	losses.SetRow(RowDebtInterest, debtInterest)
	losses.SetRow(RowDebtRepayments, debtRepayments)
	losses.SetRow(RowEBT, ebt)
	losses.SetRow(RowCorporateTax, tax)
	losses.SetRow(RowNetIncome, netIncome)

	return losses, nil
}

// CashFlowOverLifetime derives the three cash-flow measures from the income
// table. Free cash flow available is computed identically to cash flow after
// debt service; both rows are exposed because downstream consumers read them
// by name (flagged as a likely duplication to product owners, preserved for
// compatibility).
func (m *Model) CashFlowOverLifetime(tariffOverride *float64) (*LifetimeTable, error) {
	losses, err := m.LossesOverLifetime(tariffOverride)
	if err != nil {
		return nil, err
	}

	cashFlow, err := NewLifetimeTable(m.projectStart, m.projectDuration)
	if err != nil {
		return nil, err
	}

	n := m.projectDuration
	ebitda, _ := losses.Row(RowEBITDA)
	tax, _ := losses.Row(RowCorporateTax)
	equityInterest, _ := losses.Row(RowEquityInterest)
	debtInterest, _ := losses.Row(RowDebtInterest)
	debtRepayments, _ := losses.Row(RowDebtRepayments)

	operating := make([]float64, n)
	afterDebt := make([]float64, n)
	free := make([]float64, n)
	for i := 0; i < n; i++ {
		operating[i] = ebitda[i] - tax[i]
		afterDebt[i] = operating[i] - equityInterest[i] - debtInterest[i] - debtRepayments[i]
		free[i] = ebitda[i] - tax[i] - equityInterest[i] - debtInterest[i] - debtRepayments[i]
	}

	cashFlow.SetRow(RowCashFlowOperating, operating)
	cashFlow.SetRow(RowCashFlowAfterDebt, afterDebt)
	cashFlow.SetRow(RowFreeCashFlow, free)

	return cashFlow, nil
}
