package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Priority is the declared urgency tier of a delivery.
type Priority uint8

const (
	PriorityHigh Priority = iota + 1
	PriorityMedium
	PriorityLow
)

var ErrUnknownPriority = errors.New("unknown priority (want high/medium/low)")

// Lower weights are more urgent: they shrink the weighted time of a leg and
// bias the greedy pick toward the delivery.
var urgencyWeights = map[Priority]float64{
	PriorityHigh:   0.6,
	PriorityMedium: 1.0,
	PriorityLow:    1.2,
}

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPriority, s)
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	}
	return fmt.Sprintf("Priority(%d)", uint8(p))
}

// UrgencyWeight returns the multiplier applied to time legs ending at a
// delivery of this priority. Unknown values weigh 1.0.
func (p Priority) UrgencyWeight() float64 {
	if w, ok := urgencyWeights[p]; ok {
		return w
	}
	return 1.0
}

// MarshalText encodes the priority as its label.
func (p Priority) MarshalText() ([]byte, error) {
	if _, ok := urgencyWeights[p]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPriority, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Letters (English, Latin-1 accented, Scandinavian), apostrophes, hyphen, dot
// and whitespace. Digits are never accepted.
var customerNamePattern = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ'’\-.\s]+$`)

var (
	ErrEmptyCustomer   = errors.New("no customer name")
	ErrInvalidCustomer = errors.New("invalid customer name (contains digits or illegal characters)")
	ErrInvalidWeight   = errors.New("the package weight is zero or negative value")
)

// ValidateCustomer checks a trimmed customer name against the allowed set.
func ValidateCustomer(name string) error {
	if name == "" {
		return ErrEmptyCustomer
	}
	if !customerNamePattern.MatchString(name) {
		return ErrInvalidCustomer
	}
	return nil
}

// Represents the single start and end point of a courier run.
type Depot struct {
	Name        string
	Coordinates Coordinates
}

const DefaultDepotName = "Depot"

// Represents one delivery stop. Within a run deliveries are addressed by
// their index in the input slice.
type Delivery struct {
	Customer    string
	Coordinates Coordinates
	Priority    Priority
	WeightKg    float64
}

// Validate applies the same rules the input loaders enforce.
func (d Delivery) Validate() error {
	if err := ValidateCustomer(d.Customer); err != nil {
		return err
	}
	if err := d.Coordinates.Validate(); err != nil {
		return err
	}
	if _, ok := urgencyWeights[d.Priority]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPriority, uint8(d.Priority))
	}
	return ValidateWeight(d.WeightKg)
}

// ValidateWeight accepts finite positive weights only.
func ValidateWeight(kg float64) error {
	if !(kg > 0) || math.IsInf(kg, 1) {
		return ErrInvalidWeight
	}
	return nil
}
