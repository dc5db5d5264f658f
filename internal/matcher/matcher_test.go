package matcher

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tunicar/vehicle-alerts/internal/models"
)

func ptr[T any](v T) *T { return &v }

func corolla() models.Listing {
	return models.Listing{
		Brand:        "Toyota",
		Model:        "Corolla",
		Price:        15000,
		Year:         2020,
		Kilometers:   30000,
		City:         "Tunis",
		FuelType:     "Diesel",
		Condition:    "Used",
		Transmission: "Manual",
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		rule models.AlertRule
		want bool
	}{
		{
			name: "no constraints matches everything",
			rule: models.AlertRule{},
			want: true,
		},
		{
			name: "brand, max price and min year",
			rule: models.AlertRule{Brands: []string{"Toyota"}, MaxPrice: ptr(20000.0), MinYear: ptr(2018)},
			want: true,
		},
		{
			name: "other brand",
			rule: models.AlertRule{Brands: []string{"BMW"}},
			want: false,
		},
		{
			name: "kilometers over the limit",
			rule: models.AlertRule{MaxKilometers: ptr(10000.0)},
			want: false,
		},
		{
			name: "brand among several",
			rule: models.AlertRule{Brands: []string{"BMW", "Toyota"}},
			want: true,
		},
		{
			name: "empty sets are unconstrained",
			rule: models.AlertRule{Brands: []string{}, Models: []string{}, FuelTypes: []string{}},
			want: true,
		},
		{
			name: "model not in set",
			rule: models.AlertRule{Models: []string{"Yaris"}},
			want: false,
		},
		{
			name: "min price equal to price",
			rule: models.AlertRule{MinPrice: ptr(15000.0)},
			want: true,
		},
		{
			name: "max price equal to price",
			rule: models.AlertRule{MaxPrice: ptr(15000.0)},
			want: true,
		},
		{
			name: "min price one above price",
			rule: models.AlertRule{MinPrice: ptr(15001.0)},
			want: false,
		},
		{
			name: "max price below price",
			rule: models.AlertRule{MaxPrice: ptr(14999.0)},
			want: false,
		},
		{
			name: "zero min price is unconstrained",
			rule: models.AlertRule{MinPrice: ptr(0.0)},
			want: true,
		},
		{
			name: "zero max price is unconstrained",
			rule: models.AlertRule{MaxPrice: ptr(0.0)},
			want: true,
		},
		{
			name: "year window contains listing",
			rule: models.AlertRule{MinYear: ptr(2020), MaxYear: ptr(2020)},
			want: true,
		},
		{
			name: "year too old",
			rule: models.AlertRule{MinYear: ptr(2021)},
			want: false,
		},
		{
			name: "year too new",
			rule: models.AlertRule{MaxYear: ptr(2019)},
			want: false,
		},
		{
			name: "kilometers equal to limit",
			rule: models.AlertRule{MaxKilometers: ptr(30000.0)},
			want: true,
		},
		{
			name: "same city",
			rule: models.AlertRule{City: "Tunis"},
			want: true,
		},
		{
			name: "city is case sensitive",
			rule: models.AlertRule{City: "tunis"},
			want: false,
		},
		{
			name: "other city",
			rule: models.AlertRule{City: "Sfax"},
			want: false,
		},
		{
			name: "fuel type not in set",
			rule: models.AlertRule{FuelTypes: []string{"Essence"}},
			want: false,
		},
		{
			name: "condition not in set",
			rule: models.AlertRule{Conditions: []string{"New"}},
			want: false,
		},
		{
			name: "transmission not in set",
			rule: models.AlertRule{Transmissions: []string{"Automatic"}},
			want: false,
		},
		{
			name: "every constraint satisfied",
			rule: models.AlertRule{
				Brands:        []string{"Toyota"},
				Models:        []string{"Corolla"},
				MinPrice:      ptr(10000.0),
				MaxPrice:      ptr(20000.0),
				MinYear:       ptr(2015),
				MaxYear:       ptr(2022),
				MaxKilometers: ptr(50000.0),
				City:          "Tunis",
				FuelTypes:     []string{"Diesel"},
				Conditions:    []string{"Used"},
				Transmissions: []string{"Manual"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(corolla(), tt.rule); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatches_ListingWithoutCity(t *testing.T) {
	l := corolla()
	l.City = ""

	if !Matches(l, models.AlertRule{}) {
		t.Error("rule without city should match a listing without city")
	}
	if Matches(l, models.AlertRule{City: "Tunis"}) {
		t.Error("rule with city should not match a listing without city")
	}
}

func TestExplain(t *testing.T) {
	rule := models.AlertRule{
		Brands:        []string{"BMW"},
		MaxPrice:      ptr(20000.0),
		MaxKilometers: ptr(10000.0),
	}

	got := Explain(corolla(), rule)
	want := Report{
		Matched:  false,
		FailedAt: CheckBrands,
		Checks: []Check{
			{Name: CheckBrands, Passed: false, Detail: `"Toyota" in [BMW]`},
			{Name: CheckMaxPrice, Passed: true, Detail: "15000 <= 20000"},
			{Name: CheckMaxKilometers, Passed: false, Detail: "30000 <= 10000"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Explain() mismatch (-want +got):\n%s", diff)
	}
}

func TestExplain_AgreesWithMatches(t *testing.T) {
	rules := []models.AlertRule{
		{},
		{Brands: []string{"Toyota"}, MaxPrice: ptr(20000.0), MinYear: ptr(2018)},
		{Brands: []string{"BMW"}},
		{MaxKilometers: ptr(10000.0)},
		{City: "tunis"},
		{MinPrice: ptr(0.0), Transmissions: []string{"Manual"}},
		{Conditions: []string{"New"}, FuelTypes: []string{"Diesel"}},
	}

	for i, r := range rules {
		rep := Explain(corolla(), r)
		if rep.Matched != Matches(corolla(), r) {
			t.Errorf("rule %d: Explain().Matched = %v, Matches() = %v", i, rep.Matched, !rep.Matched)
		}
		if rep.Matched && rep.FailedAt != "" {
			t.Errorf("rule %d: FailedAt = %q on a match", i, rep.FailedAt)
		}
	}
}

func TestExplain_SkipsUnsetConstraints(t *testing.T) {
	rep := Explain(corolla(), models.AlertRule{MinYear: ptr(0), City: ""})
	if !rep.Matched {
		t.Error("Explain() should match with only unset constraints")
	}
	if len(rep.Checks) != 0 {
		t.Errorf("Explain() returned %d checks, want 0", len(rep.Checks))
	}
}
