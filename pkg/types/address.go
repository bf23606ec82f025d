package types

import "strings"

// Address is the structured mailing address carried on a user profile.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// IsZero reports whether every field is empty.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String renders a single-line display form, skipping empty fields.
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, field := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}
