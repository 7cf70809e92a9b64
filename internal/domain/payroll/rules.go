package payroll

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Bracket is one band of the progressive federal table. Upper is the annual
// taxable income the band covers up to; the last band leaves Upper at zero
// for an open end.
type Bracket struct {
	Upper float64 `toml:"upper"`
	Rate  float64 `toml:"rate"`
}

// TaxConfig carries every statutory rate and threshold the withholding
// calculator uses. Values are annual; the calculator annualizes period gross
// before applying them.
type TaxConfig struct {
	PeriodsPerYear         int       `toml:"periods_per_year"`
	StandardDeduction      float64   `toml:"standard_deduction"`
	Brackets               []Bracket `toml:"brackets"`
	SocialSecurityRate     float64   `toml:"social_security_rate"`
	SocialSecurityWageBase float64   `toml:"social_security_wage_base"`
	MedicareRate           float64   `toml:"medicare_rate"`
}

// Rules is the injected payroll configuration. Nothing in the engine reads
// rates or thresholds from the environment; jurisdiction updates are a config
// file change.
type Rules struct {
	Timezone             string    `toml:"timezone"`
	NightStartHour       int       `toml:"night_start_hour"`
	NightEndHour         int       `toml:"night_end_hour"`
	WeeklyThresholdHours float64   `toml:"weekly_threshold_hours"`
	OvertimeMultiplier   float64   `toml:"overtime_multiplier"`
	PTODayHours          float64   `toml:"pto_day_hours"`
	Tax                  TaxConfig `toml:"tax"`

	loc *time.Location
}

// DefaultRules returns the reference configuration: weekly pay periods,
// time-and-a-half over 40 hours, night window [22:00, 06:00), and the
// simplified federal/FICA model.
func DefaultRules() Rules {
	return Rules{
		Timezone:             "America/New_York",
		NightStartHour:       22,
		NightEndHour:         6,
		WeeklyThresholdHours: 40,
		OvertimeMultiplier:   1.5,
		PTODayHours:          8,
		Tax: TaxConfig{
			PeriodsPerYear:    52,
			StandardDeduction: 14600,
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
		},
	}
}

// LoadRules reads a TOML rules file over the defaults. An empty path returns
// the defaults unchanged.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path != "" {
		if _, err := toml.DecodeFile(path, &rules); err != nil {
			return Rules{}, fmt.Errorf("load payroll rules %s: %w", path, err)
		}
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r *Rules) Validate() error {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", r.Timezone, err)
	}
	r.loc = loc
	if r.NightStartHour < 0 || r.NightStartHour > 23 || r.NightEndHour < 0 || r.NightEndHour > 23 {
		return fmt.Errorf("night window hours must be within 0-23")
	}
	if r.WeeklyThresholdHours <= 0 {
		return fmt.Errorf("weekly overtime threshold must be positive")
	}
	if r.OvertimeMultiplier < 1 {
		return fmt.Errorf("overtime multiplier must be at least 1")
	}
	if r.PTODayHours <= 0 {
		return fmt.Errorf("pto day hours must be positive")
	}
	return r.Tax.Validate()
}

func (c TaxConfig) Validate() error {
	if c.PeriodsPerYear <= 0 {
		return fmt.Errorf("periods per year must be positive")
	}
	if c.StandardDeduction < 0 {
		return fmt.Errorf("standard deduction must not be negative")
	}
	if len(c.Brackets) == 0 {
		return fmt.Errorf("at least one federal bracket is required")
	}
	prev := 0.0
	for i, b := range c.Brackets {
		if b.Rate < 0 || b.Rate > 1 {
			return fmt.Errorf("bracket %d rate %v out of range", i, b.Rate)
		}
		open := b.Upper == 0
		if open && i != len(c.Brackets)-1 {
			return fmt.Errorf("bracket %d has no upper bound but is not last", i)
		}
		if !open && b.Upper <= prev {
			return fmt.Errorf("bracket %d upper bound %v is not ascending", i, b.Upper)
		}
		prev = b.Upper
	}
	if c.SocialSecurityRate < 0 || c.SocialSecurityRate > 1 {
		return fmt.Errorf("social security rate out of range")
	}
	if c.SocialSecurityWageBase < 0 {
		return fmt.Errorf("social security wage base must not be negative")
	}
	if c.MedicareRate < 0 || c.MedicareRate > 1 {
		return fmt.Errorf("medicare rate out of range")
	}
	return nil
}

// Location resolves the agency time zone. Validate caches the zone so rules
// shared across concurrent calculations never mutate; unvalidated rules
// resolve on every call.
func (r *Rules) Location() *time.Location {
	if r.loc != nil {
		return r.loc
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
