package models

// Listing is a vehicle-for-sale document from the "vehicles" collection.
type Listing struct {
	Brand        string   `firestore:"brand" json:"brand" validate:"required"`
	Model        string   `firestore:"model" json:"model" validate:"required"`
	Price        float64  `firestore:"price" json:"price" validate:"gte=0"`
	Year         int      `firestore:"year" json:"year" validate:"gte=0"`
	Kilometers   float64  `firestore:"kilometers" json:"kilometers" validate:"gte=0"`
	City         string   `firestore:"city,omitempty" json:"city,omitempty"`
	FuelType     string   `firestore:"fuelType" json:"fuelType"`
	Condition    string   `firestore:"condition" json:"condition"`
	Transmission string   `firestore:"transmission" json:"transmission"`
	Images       []string `firestore:"images" json:"images,omitempty" validate:"omitempty,dive,required"`
}

// Title is the short "Brand Model" label used in notifications.
func (l Listing) Title() string {
	return l.Brand + " " + l.Model
}

// FirstImage returns the first image URL, or nil when the listing has none.
func (l Listing) FirstImage() *string {
	if len(l.Images) == 0 {
		return nil
	}
	img := l.Images[0]
	return &img
}
