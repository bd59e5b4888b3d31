package model

import "time"

// StatusCategory is a named classification assigned to contacts, for example
// "New" or "Contacted". Names are unique. A category that is still referenced
// by at least one contact cannot be deleted.
type StatusCategory struct {
	Id   int64  `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`
}

// Contact is the data structure for a person in the contact list. The Status
// field carries the category name joined in from the statuses table; StatusId
// is the underlying foreign key and is not part of the JSON representation.
type Contact struct {
	Id        int64     `json:"id"          db:"id"`
	FirstName string    `json:"firstName"   db:"firstname"`
	LastName  string    `json:"lastName"    db:"lastname"`
	Phone     string    `json:"phoneNumber" db:"phone"`
	Email     string    `json:"email"       db:"email"`
	City      string    `json:"city"        db:"city"`
	StatusId  int64     `json:"-"           db:"status_id"`
	Status    string    `json:"status"      db:"status"`
	CreatedAt time.Time `json:"createdAt"   db:"created_at"`
}

// ContactInput is the raw, not yet validated input for creating or updating a
// contact. It is filled either from an API JSON body or from a posted web
// form. Nil pointers mean "field not submitted", which matters for PATCH.
type ContactInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phoneNumber"`
	Email     *string `json:"email"`
	City      *string `json:"city"`
	Status    *string `json:"status"`
}
