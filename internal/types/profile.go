// Package types provides type definitions for structured data used throughout the profile-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Profile styles steer the tone of the generated description.
const (
	StyleBalanced     = "balanced"
	StyleHumorous     = "humorous"
	StyleAdventurous  = "adventurous"
	StyleRomantic     = "romantic"
	StyleProfessional = "professional"
)

// ValidStyles lists the accepted profile style preferences.
var ValidStyles = []string{StyleBalanced, StyleHumorous, StyleAdventurous, StyleRomantic, StyleProfessional}

// ProfileFacts holds the user-entered attributes fed into description
// generation. Read-only input to assembly.
type ProfileFacts struct {
	Age         int    `json:"age" validate:"required,gte=18,lte=100"`
	Occupation  string `json:"occupation" validate:"required,min=1"`
	Location    string `json:"location,omitempty"`
	Interests   string `json:"interests,omitempty"`   // comma-separated
	Personality string `json:"personality,omitempty"` // free text
	LookingFor  string `json:"looking_for,omitempty"` // free text
	Style       string `json:"style,omitempty" validate:"omitempty,oneof=balanced humorous adventurous romantic professional"`
}

// Validate checks the facts against the required-field and range rules.
// Returns ErrEmptyFacts (wrapped) when required fields are missing or invalid,
// so callers can reject bad input before invoking the gateway.
func (f *ProfileFacts) Validate() error {
	validate := validator.New()
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrEmptyFacts, err)
	}
	return nil
}

// GeneratedDescription is the generator output plus its tone classification.
// Created once per assembly call and not mutated afterward.
type GeneratedDescription struct {
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
}

// ProfileResult is the terminal artifact of one session: the ordered selected
// photos, the generated description and the facts that produced it. Immutable
// after creation.
type ProfileResult struct {
	SessionID      uuid.UUID             `json:"session_id"`
	CreatedAt      time.Time             `json:"created_at"`
	SelectedPhotos []PhotoRecord         `json:"selected_photos"` // ordered, size <= 5
	Description    *GeneratedDescription `json:"description"`
	Facts          ProfileFacts          `json:"facts"`
}
