package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Availability captures whether an animal can still be claimed by an applicant.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityReserved  Availability = "reserved"
	AvailabilityAdopted   Availability = "adopted"
)

var (
	ErrEmptyAnimalID           = errors.New("animal id is required")
	ErrEmptyAnimalName         = errors.New("animal name is required")
	ErrUnknownAvailability     = errors.New("unknown animal availability")
	ErrAnimalNotAvailable      = errors.New("animal is not available for adoption")
	ErrAnimalNoLongerAvailable = errors.New("animal was already adopted by another request")
)

// ParseAvailability validates raw availability values coming from storage.
func ParseAvailability(raw string) (Availability, error) {
	switch a := Availability(strings.ToLower(strings.TrimSpace(raw))); a {
	case AvailabilityAvailable, AvailabilityReserved, AvailabilityAdopted:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAvailability, raw)
	}
}

// Animal is a shelter animal that applicants can request to adopt.
// ActiveRequestID names the request holding the reservation or the approved adoption.
type Animal struct {
	ID              string
	Name            string
	Availability    Availability
	ActiveRequestID string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewAnimal builds an available animal.
func NewAnimal(id, name string) (*Animal, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return nil, ErrEmptyAnimalID
	}
	if name == "" {
		return nil, ErrEmptyAnimalName
	}
	return &Animal{ID: id, Name: name, Availability: AvailabilityAvailable}, nil
}

func (a *Animal) IsAvailable() bool {
	return a.Availability == AvailabilityAvailable
}

// ClaimedByOther reports whether someone other than requestID holds the animal.
func (a *Animal) ClaimedByOther(requestID string) bool {
	return a.Availability != AvailabilityAvailable && a.ActiveRequestID != requestID
}

// Reserve marks an available animal as held by the request under review.
func (a *Animal) Reserve(requestID string) error {
	if !a.IsAvailable() {
		return ErrAnimalNotAvailable
	}
	a.Availability = AvailabilityReserved
	a.ActiveRequestID = requestID
	return nil
}

// Adopt hands the animal to requestID. The animal must be available or reserved by the same request.
func (a *Animal) Adopt(requestID string) error {
	if a.ClaimedByOther(requestID) || a.Availability == AvailabilityAdopted {
		return ErrAnimalNoLongerAvailable
	}
	a.Availability = AvailabilityAdopted
	a.ActiveRequestID = requestID
	return nil
}

// Release returns a reservation held by requestID. It reports whether anything changed.
func (a *Animal) Release(requestID string) bool {
	if a.Availability != AvailabilityReserved || a.ActiveRequestID != requestID {
		return false
	}
	a.Availability = AvailabilityAvailable
	a.ActiveRequestID = ""
	return true
}

// Clone returns a copy safe to hand across store boundaries.
func (a *Animal) Clone() *Animal {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}
