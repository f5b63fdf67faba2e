// Package shop holds the read-only shop record and the opening-hours check.
package shop

import "fmt"

type Shop struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	OpeningTime string `json:"opening_time,omitempty"`
	ClosingTime string `json:"closing_time,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Address     string `json:"address,omitempty"`
	OwnerMobile string `json:"owner_mobile,omitempty"`
}

// DisplayName falls back to a generic label when the record has no name.
func (s Shop) DisplayName() string {
	if s.Name == "" {
		return "Shop"
	}
	return s.Name
}

// Hours renders "09:00 - 21:00", or "" when either bound is missing.
func (s Shop) Hours() string {
	if s.OpeningTime == "" || s.ClosingTime == "" {
		return ""
	}
	return fmt.Sprintf("%s - %s", s.OpeningTime, s.ClosingTime)
}

func (s Shop) ClosedMessage() string {
	return fmt.Sprintf("Sorry! The shop is closed. Please place the order after %s.", s.OpeningTime)
}
