package engine

import (
	"time"

	"github.com/google/uuid"
)

// Stamper produces the id and timestamp for a new history entry. It is the
// reducer's only non-deterministic collaborator; tests substitute a fixed
// implementation to keep Reduce a pure function.
type Stamper interface {
	Stamp() (id string, at time.Time)
}

type systemStamper struct{}

func (systemStamper) Stamp() (string, time.Time) {
	return uuid.NewString(), time.Now()
}

// SystemStamper returns the production Stamper: UUID ids and wall-clock
// timestamps.
func SystemStamper() Stamper {
	return systemStamper{}
}
