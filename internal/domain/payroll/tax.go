package payroll

import "math"

// TaxCalculator maps one period's gross pay to federal, Social Security, and
// Medicare withholding. It is pure: identical gross always yields identical
// withholding, and zero or negative gross yields zero for every component.
type TaxCalculator struct {
	cfg TaxConfig
}

func NewTaxCalculator(cfg TaxConfig) *TaxCalculator {
	return &TaxCalculator{cfg: cfg}
}

func (c *TaxCalculator) Withhold(gross float64) Withholding {
	if gross <= 0 {
		return Withholding{}
	}

	annual := gross * float64(c.cfg.PeriodsPerYear)

	federal := c.annualFederal(annual-c.cfg.StandardDeduction) / float64(c.cfg.PeriodsPerYear)

	ssWages := math.Min(annual, c.cfg.SocialSecurityWageBase)
	socialSecurity := ssWages * c.cfg.SocialSecurityRate / float64(c.cfg.PeriodsPerYear)

	medicare := gross * c.cfg.MedicareRate

	return Withholding{
		Federal:        roundCents(federal),
		SocialSecurity: roundCents(socialSecurity),
		Medicare:       roundCents(medicare),
	}
}

// annualFederal runs annual taxable income through the progressive bracket
// table. A bracket with Upper == 0 is open-ended.
func (c *TaxCalculator) annualFederal(taxable float64) float64 {
	if taxable <= 0 {
		return 0
	}

	tax := 0.0
	lower := 0.0
	for _, bracket := range c.cfg.Brackets {
		upper := bracket.Upper
		if upper == 0 || upper > taxable {
			upper = taxable
		}
		if upper > lower {
			tax += (upper - lower) * bracket.Rate
		}
		if upper >= taxable {
			break
		}
		lower = bracket.Upper
	}
	return tax
}
