// Package matcher decides whether a vehicle listing satisfies an alert rule.
//
// A rule matches when every constraint it sets holds. A constraint that is
// nil, zero, an empty string or an empty set does not restrict anything.
// Numeric bounds are inclusive and the city comparison is exact and
// case-sensitive.
package matcher

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tunicar/vehicle-alerts/internal/models"
)

// Check names, in evaluation order.
const (
	CheckBrands        = "brands"
	CheckModels        = "models"
	CheckMinPrice      = "minPrice"
	CheckMaxPrice      = "maxPrice"
	CheckMinYear       = "minYear"
	CheckMaxYear       = "maxYear"
	CheckMaxKilometers = "maxKilometers"
	CheckCity          = "city"
	CheckFuelTypes     = "fuelTypes"
	CheckConditions    = "conditions"
	CheckTransmissions = "transmissions"
)

type check struct {
	name string
	// eval reports whether the rule sets this constraint and, if so, whether
	// the listing satisfies it.
	eval   func(l models.Listing, r models.AlertRule) (applies, ok bool)
	detail func(l models.Listing, r models.AlertRule) string
}

var checks = []check{
	{
		name:   CheckBrands,
		eval:   func(l models.Listing, r models.AlertRule) (bool, bool) { return inSet(r.Brands, l.Brand) },
		detail: func(l models.Listing, r models.AlertRule) string { return setDetail(l.Brand, r.Brands) },
	},
	{
		name:   CheckModels,
		eval:   func(l models.Listing, r models.AlertRule) (bool, bool) { return inSet(r.Models, l.Model) },
		detail: func(l models.Listing, r models.AlertRule) string { return setDetail(l.Model, r.Models) },
	},
	{
		name: CheckMinPrice,
		eval: func(l models.Listing, r models.AlertRule) (bool, bool) {
			lo, ok := floatBound(r.MinPrice)
			return ok, !ok || l.Price >= lo
		},
		detail: func(l models.Listing, r models.AlertRule) string { return boundDetail(num(l.Price), ">=", r.MinPrice) },
	},
	{
		name: CheckMaxPrice,
		eval: func(l models.Listing, r models.AlertRule) (bool, bool) {
			hi, ok := floatBound(r.MaxPrice)
			return ok, !ok || l.Price <= hi
		},
		detail: func(l models.Listing, r models.AlertRule) string { return boundDetail(num(l.Price), "<=", r.MaxPrice) },
	},
	{
		name: CheckMinYear,
		eval: func(l models.Listing, r models.AlertRule) (bool, bool) {
			lo, ok := intBound(r.MinYear)
			return ok, !ok || l.Year >= lo
		},
		detail: func(l models.Listing, r models.AlertRule) string {
			return fmt.Sprintf("%d >= %s", l.Year, intString(r.MinYear))
		},
	},
	{
		name: CheckMaxYear,
		eval: func(l models.Listing, r models.AlertRule) (bool, bool) {
			hi, ok := intBound(r.MaxYear)
			return ok, !ok || l.Year <= hi
		},
		detail: func(l models.Listing, r models.AlertRule) string {
			return fmt.Sprintf("%d <= %s", l.Year, intString(r.MaxYear))
		},
	},
	{
		name: CheckMaxKilometers,
		eval: func(l models.Listing, r models.AlertRule) (bool, bool) {
			hi, ok := floatBound(r.MaxKilometers)
			return ok, !ok || l.Kilometers <= hi
		},
		detail: func(l models.Listing, r models.AlertRule) string {
			return boundDetail(num(l.Kilometers), "<=", r.MaxKilometers)
		},
	},
	{
		name: CheckCity,
		eval: func(l models.Listing, r models.AlertRule) (bool, bool) {
			if r.City == "" {
				return false, true
			}
			return true, l.City == r.City
		},
		detail: func(l models.Listing, r models.AlertRule) string { return fmt.Sprintf("%q == %q", l.City, r.City) },
	},
	{
		name:   CheckFuelTypes,
		eval:   func(l models.Listing, r models.AlertRule) (bool, bool) { return inSet(r.FuelTypes, l.FuelType) },
		detail: func(l models.Listing, r models.AlertRule) string { return setDetail(l.FuelType, r.FuelTypes) },
	},
	{
		name:   CheckConditions,
		eval:   func(l models.Listing, r models.AlertRule) (bool, bool) { return inSet(r.Conditions, l.Condition) },
		detail: func(l models.Listing, r models.AlertRule) string { return setDetail(l.Condition, r.Conditions) },
	},
	{
		name:   CheckTransmissions,
		eval:   func(l models.Listing, r models.AlertRule) (bool, bool) { return inSet(r.Transmissions, l.Transmission) },
		detail: func(l models.Listing, r models.AlertRule) string { return setDetail(l.Transmission, r.Transmissions) },
	},
}

// Matches reports whether listing satisfies every constraint set on rule.
// Checks run in a fixed order and stop at the first failure.
func Matches(listing models.Listing, rule models.AlertRule) bool {
	for _, c := range checks {
		if applies, ok := c.eval(listing, rule); applies && !ok {
			return false
		}
	}
	return true
}

// Check is the outcome of one applicable constraint.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Report is the full evaluation of a rule, without short-circuiting.
type Report struct {
	Matched bool
	// FailedAt names the first failing check in evaluation order, or is
	// empty when the rule matched.
	FailedAt string
	Checks   []Check
}

// Explain evaluates every constraint the rule sets. Report.Matched always
// agrees with Matches.
func Explain(listing models.Listing, rule models.AlertRule) Report {
	rep := Report{Matched: true}
	for _, c := range checks {
		applies, ok := c.eval(listing, rule)
		if !applies {
			continue
		}
		rep.Checks = append(rep.Checks, Check{Name: c.name, Passed: ok, Detail: c.detail(listing, rule)})
		if !ok && rep.Matched {
			rep.Matched = false
			rep.FailedAt = c.name
		}
	}
	return rep
}

// inSet treats an empty set as unconstrained.
func inSet(set []string, v string) (applies, ok bool) {
	if len(set) == 0 {
		return false, true
	}
	return true, slices.Contains(set, v)
}

func floatBound(p *float64) (float64, bool) {
	if p == nil || *p == 0 {
		return 0, false
	}
	return *p, true
}

func intBound(p *int) (int, bool) {
	if p == nil || *p == 0 {
		return 0, false
	}
	return *p, true
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func intString(p *int) string {
	if p == nil {
		return "<nil>"
	}
	return strconv.Itoa(*p)
}

func boundDetail(value, op string, bound *float64) string {
	b := "<nil>"
	if bound != nil {
		b = num(*bound)
	}
	return value + " " + op + " " + b
}

func setDetail(v string, set []string) string {
	return fmt.Sprintf("%q in [%s]", v, strings.Join(set, ", "))
}
