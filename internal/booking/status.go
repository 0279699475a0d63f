package booking

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// AllStatuses in display order.
var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true},
	StatusCancelled: {StatusPending: true},
	StatusCompleted: {}, // terminal
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

var ErrInvalidTransition = errors.New("invalid status transition")

// ValidateTransition rejects any pair not in the transition table, naming
// the attempted pair in the error.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status: %q", s)
}

// Reconciliation ranking: when line items of one order drifted apart, the
// highest-priority observed status wins.
var statusPriority = map[Status]int{
	StatusCompleted: 4,
	StatusConfirmed: 3,
	StatusPending:   2,
	StatusCancelled: 1,
}

// HighestPriority picks the winning status among observed ones.
func HighestPriority(statuses []Status) Status {
	best := StatusCancelled
	rank := 0
	for _, s := range statuses {
		if p := statusPriority[s]; p > rank {
			rank = p
			best = s
		}
	}
	return best
}

// Meta is the single status-to-label/color table consumed by every surface.
type Meta struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusMeta = map[Status]Meta{
	StatusPending:   {Label: "Pending", Color: "amber"},
	StatusConfirmed: {Label: "Confirmed", Color: "green"},
	StatusCancelled: {Label: "Cancelled", Color: "red"},
	StatusCompleted: {Label: "Completed", Color: "gray"},
}

func MetaFor(s Status) Meta { return statusMeta[s] }
