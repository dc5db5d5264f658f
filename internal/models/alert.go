package models

import "time"

// AlertRule is a user's saved search from the "alerts" collection.
//
// Numeric bounds are pointers so that a missing field and an explicit null
// both decode to nil. A nil bound and a zero bound are both "no restriction";
// see matcher for the evaluation rules.
type AlertRule struct {
	ID       string `firestore:"-"` // Firestore document ID
	UserID   string `firestore:"userId"`
	Title    string `firestore:"title"`
	IsActive bool   `firestore:"isActive"`

	Brands        []string `firestore:"brands,omitempty"`
	Models        []string `firestore:"models,omitempty"`
	MinPrice      *float64 `firestore:"minPrice,omitempty"`
	MaxPrice      *float64 `firestore:"maxPrice,omitempty"`
	MinYear       *int     `firestore:"minYear,omitempty"`
	MaxYear       *int     `firestore:"maxYear,omitempty"`
	MaxKilometers *float64 `firestore:"maxKilometers,omitempty"`
	City          string   `firestore:"city,omitempty"`
	FuelTypes     []string `firestore:"fuelTypes,omitempty"`
	Conditions    []string `firestore:"conditions,omitempty"`
	Transmissions []string `firestore:"transmissions,omitempty"`

	// Only this service writes these two.
	LastTriggered  time.Time `firestore:"lastTriggered,omitempty"`
	TriggeredCount int64     `firestore:"triggeredCount"`
}
