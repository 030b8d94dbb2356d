// Package plan implements the brush/undo command stack and the job
// dispatch that lets colonists claim and work player-authored tile
// plans without colliding with each other.
package plan

import "outpost/internal/grid"

// Command is one undoable group of tile edits: everything recorded
// between a BeginCommand and its CommitCommand.
type Command struct {
	WoodBefore int32
	WoodAfter  int32
	Changes    []grid.TileChange
}

// History is the undo/redo stack of committed brush commands. Committing
// a new command discards the redo stack, matching ordinary editor undo
// semantics.
type History struct {
	undo   []Command
	redo   []Command
	active *Command
}

// NewHistory returns an empty command history.
func NewHistory() *History {
	return &History{}
}

// BeginCommand opens a new history frame that accumulates tile edits
// until the caller commits or cancels it. Starting a frame while one is
// already open replaces it; brush callers are expected to commit or
// cancel the prior stroke first.
func (h *History) BeginCommand(woodBefore int32) {
	h.active = &Command{WoodBefore: woodBefore}
}

// HasActiveCommand reports whether a frame is currently open.
func (h *History) HasActiveCommand() bool {
	return h.active != nil
}

// RecordChange appends one successful PlacePlan result to the active
// frame. It is a no-op if no frame is open.
func (h *History) RecordChange(change grid.TileChange) {
	if h.active == nil {
		return
	}
	h.active.Changes = append(h.active.Changes, change)
}

// CommitCommand closes the active frame. If it holds at least one change
// it is pushed onto the undo stack, the redo stack is cleared, and true
// is returned so the caller knows to cancel reservations. An empty frame
// is discarded and reports false.
func (h *History) CommitCommand(woodAfter int32) bool {
	cmd := h.active
	h.active = nil
	if cmd == nil || len(cmd.Changes) == 0 {
		return false
	}
	cmd.WoodAfter = woodAfter
	h.undo = append(h.undo, *cmd)
	h.redo = nil
	return true
}

// CancelCommand discards the active frame without recording it. It is a
// no-op if no frame is open.
func (h *History) CancelCommand() {
	h.active = nil
}

// Undo reverts the most recently committed command, restoring every
// changed cell's before-snapshot and wood balance, and forces job
// cancellation since undone plans may no longer match what agents are
// walking toward. It returns false if the undo stack is empty.
func (h *History) Undo(world *grid.World) bool {
	if len(h.undo) == 0 {
		return false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	for i := len(cmd.Changes) - 1; i >= 0; i-- {
		world.ApplyChange(cmd.Changes[i], true)
	}
	world.CancelAllJobsAndClearReservations()
	h.redo = append(h.redo, cmd)
	return true
}

// Redo re-applies the most recently undone command and forces job
// cancellation, the same as a freshly committed command would.
func (h *History) Redo(world *grid.World) bool {
	if len(h.redo) == 0 {
		return false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	for _, change := range cmd.Changes {
		world.ApplyChange(change, false)
	}
	world.CancelAllJobsAndClearReservations()
	h.undo = append(h.undo, cmd)
	return true
}
