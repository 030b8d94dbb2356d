package grid

import "fmt"

// PlanErrorKind distinguishes the ways a plan placement can fail or
// no-op, so callers (the plan package, the CLI) can react without string
// matching.
type PlanErrorKind int

const (
	// ErrKindOutOfBounds means the coordinate does not name a cell.
	ErrKindOutOfBounds PlanErrorKind = iota
	// ErrKindNotEnoughWood means the inventory cannot cover the wood delta.
	ErrKindNotEnoughWood
	// ErrKindPlanAlreadyMatchesBuilt means the requested plan equals the
	// cell's already-built type; brushes treat this as a silent no-op
	// rather than surfacing it to the player.
	ErrKindPlanAlreadyMatchesBuilt
)

func (k PlanErrorKind) String() string {
	switch k {
	case ErrKindOutOfBounds:
		return "OutOfBounds"
	case ErrKindNotEnoughWood:
		return "NotEnoughWood"
	case ErrKindPlanAlreadyMatchesBuilt:
		return "PlanAlreadyMatchesBuilt"
	default:
		return "Unknown"
	}
}

// PlanError is the typed error returned by World.PlacePlan.
type PlanError struct {
	Kind PlanErrorKind
	X, Y int
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("grid: plan at (%d,%d): %s", e.X, e.Y, e.Kind)
}

// IsNoOp reports whether this error represents a harmless brush no-op
// rather than a condition the UI layer needs to report to the player.
func (e *PlanError) IsNoOp() bool {
	return e.Kind == ErrKindPlanAlreadyMatchesBuilt
}

func newPlanError(kind PlanErrorKind, x, y int) *PlanError {
	return &PlanError{Kind: kind, X: x, Y: y}
}
