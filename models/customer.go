package models

// CustomerInfo holds the structured facts extracted from free-text ticket content.
// Immutable once produced; missing fields stay empty rather than guessed.
type CustomerInfo struct {
	Email       string `bson:"email" json:"email"`                               // Customer email (required for verification)
	Name        string `bson:"name,omitempty" json:"name,omitempty"`             // Customer name, when stated
	ArrivalDate string `bson:"arrival_date" json:"arrival_date"`                 // ISO-8601 date "YYYY-MM-DD"
	ExitDate    string `bson:"exit_date" json:"exit_date"`                       // ISO-8601 date "YYYY-MM-DD"
	Location    string `bson:"location,omitempty" json:"location,omitempty"`     // Free-text garage/lot reference
}

// HasEmail reports whether an email was found.
func (c CustomerInfo) HasEmail() bool { return c.Email != "" }

// HasDates reports whether at least one event date was found.
func (c CustomerInfo) HasDates() bool { return c.ArrivalDate != "" || c.ExitDate != "" }
