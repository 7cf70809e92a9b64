package payroll

import "testing"

func weeklyTaxConfig() TaxConfig {
	return TaxConfig{
		PeriodsPerYear:    52,
		StandardDeduction: 0,
		Brackets: []Bracket{
			{Upper: 6000, Rate: 0},
			{Upper: 17600, Rate: 0.10},
			{Upper: 53150, Rate: 0.12},
			{Upper: 106525, Rate: 0.22},
			{Upper: 191950, Rate: 0.24},
			{Upper: 0, Rate: 0.32},
		},
		SocialSecurityRate:     0.062,
		SocialSecurityWageBase: 168600,
		MedicareRate:           0.0145,
	}
}

func TestWithholdZeroAndNegativeGross(t *testing.T) {
	calc := NewTaxCalculator(weeklyTaxConfig())
	for _, gross := range []float64{0, -100} {
		w := calc.Withhold(gross)
		if w.Federal != 0 || w.SocialSecurity != 0 || w.Medicare != 0 {
			t.Fatalf("expected zero withholding for gross %v, got %+v", gross, w)
		}
	}
}

func TestWithholdBracketFigure(t *testing.T) {
	calc := NewTaxCalculator(weeklyTaxConfig())

	// $1,000/week taxable annualizes to $52,000:
	// 0% of 6,000 + 10% of 11,600 + 12% of 34,400 = 5,288/year = 101.69/week.
	w := calc.Withhold(1000)
	if w.Federal != 101.69 {
		t.Fatalf("expected federal 101.69, got %v", w.Federal)
	}
	if w.SocialSecurity != 62.00 {
		t.Fatalf("expected social security 62.00, got %v", w.SocialSecurity)
	}
	if w.Medicare != 14.50 {
		t.Fatalf("expected medicare 14.50, got %v", w.Medicare)
	}
}

func TestWithholdStandardDeduction(t *testing.T) {
	cfg := weeklyTaxConfig()
	cfg.StandardDeduction = 14600
	calc := NewTaxCalculator(cfg)

	// Gross 950/week: annual 49,400, taxable 34,800.
	// 10% of 11,600 + 12% of 17,200 = 3,224/year = 62.00/week.
	w := calc.Withhold(950)
	if w.Federal != 62.00 {
		t.Fatalf("expected federal 62.00, got %v", w.Federal)
	}
}

func TestWithholdSocialSecurityCap(t *testing.T) {
	cfg := weeklyTaxConfig()
	cfg.SocialSecurityWageBase = 100000
	calc := NewTaxCalculator(cfg)

	// 3,000/week annualizes past the wage base; only the base is taxed.
	w := calc.Withhold(3000)
	if w.SocialSecurity != 119.23 {
		t.Fatalf("expected capped social security 119.23, got %v", w.SocialSecurity)
	}

	// Medicare has no cap.
	if w.Medicare != 43.50 {
		t.Fatalf("expected medicare 43.50, got %v", w.Medicare)
	}
}

func TestWithholdDeterministic(t *testing.T) {
	calc := NewTaxCalculator(weeklyTaxConfig())
	first := calc.Withhold(1234.56)
	for i := 0; i < 10; i++ {
		if got := calc.Withhold(1234.56); got != first {
			t.Fatalf("withholding is not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestWithholdDeductionExceedsIncome(t *testing.T) {
	cfg := weeklyTaxConfig()
	cfg.StandardDeduction = 1000000
	calc := NewTaxCalculator(cfg)

	w := calc.Withhold(500)
	if w.Federal != 0 {
		t.Fatalf("expected zero federal when deduction exceeds income, got %v", w.Federal)
	}
	if w.SocialSecurity == 0 || w.Medicare == 0 {
		t.Fatal("FICA components do not use the standard deduction")
	}
}
