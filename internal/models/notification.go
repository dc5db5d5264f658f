package models

import "time"

// NotificationType tags push payloads produced by the alert scan.
const NotificationType = "new_vehicle_alert"

// Notification is the in-app record created once per matching alert.
type Notification struct {
	UserID          string    `firestore:"userId"`
	VehicleID       string    `firestore:"vehicleId"`
	AlertID         string    `firestore:"alertId"`
	AlertTitle      string    `firestore:"alertTitle"`
	VehicleTitle    string    `firestore:"vehicleTitle"`
	VehicleBrand    string    `firestore:"vehicleBrand"`
	VehicleModel    string    `firestore:"vehicleModel"`
	VehiclePrice    float64   `firestore:"vehiclePrice"`
	VehicleYear     int       `firestore:"vehicleYear"`
	VehicleImageURL *string   `firestore:"vehicleImageUrl"`
	VehicleCity     *string   `firestore:"vehicleCity"`
	CreatedAt       time.Time `firestore:"createdAt,serverTimestamp"`
	Read            bool      `firestore:"read"`
}

// NewNotification denormalizes a listing and the alert it matched.
func NewNotification(vehicleID string, l Listing, rule AlertRule) Notification {
	var city *string
	if l.City != "" {
		c := l.City
		city = &c
	}
	return Notification{
		UserID:          rule.UserID,
		VehicleID:       vehicleID,
		AlertID:         rule.ID,
		AlertTitle:      rule.Title,
		VehicleTitle:    l.Title(),
		VehicleBrand:    l.Brand,
		VehicleModel:    l.Model,
		VehiclePrice:    l.Price,
		VehicleYear:     l.Year,
		VehicleImageURL: l.FirstImage(),
		VehicleCity:     city,
		Read:            false,
	}
}

// NotificationID is the document ID for the notification of a vehicle/alert
// pair. It is deterministic so a redelivered creation event maps onto the
// same document.
func NotificationID(vehicleID, alertID string) string {
	return vehicleID + "_" + alertID
}

// PushToken is the document stored under fcm_tokens/{userId}.
type PushToken struct {
	Token string `firestore:"token"`
}

// PushMessage is one addressed push notification.
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}
