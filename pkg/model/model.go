// Package model defines the JSON representation that the contacts REST API
// serves, for use by external Go clients.
package model

import "time"

// Contact is the representation exchanged with /api/contacts/. The status is
// carried as the category name, not its id.
type Contact struct {
	Id        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phoneNumber"`
	Email     string    `json:"email"`
	City      string    `json:"city"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatusCategory is the representation exchanged with /api/statuses/.
type StatusCategory struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}
