// SPDX-License-Identifier: MPL-2.0

package install

import (
	"fmt"
	"slices"
)

const (
	// StateIdle is the state before an install starts.
	StateIdle State = iota
	// StateDownloading streams the asset to a temp file. Nothing on disk
	// has been touched yet.
	StateDownloading
	// StateBackingUp renames the live directory to its backup.
	StateBackingUp
	// StateExtracting materializes the asset into the live directory path.
	StateExtracting
	// StateCommitting writes the version marker and drops the backup.
	StateCommitting
	// StateDone means the new version is installed.
	StateDone
	// StateRestoring discards partial content and renames the backup back.
	StateRestoring
	// StateFailed is terminal for every unsuccessful install.
	StateFailed
)

// State is a step of the install state machine.
type State int

// transitions lists the legal successors of every state. Failures before
// extraction go straight to StateFailed because nothing needs undoing;
// failures during or after extraction must pass through StateRestoring.
var transitions = map[State][]State{
	StateIdle:        {StateDownloading},
	StateDownloading: {StateBackingUp, StateFailed},
	StateBackingUp:   {StateExtracting, StateFailed},
	StateExtracting:  {StateCommitting, StateRestoring},
	StateCommitting:  {StateDone, StateRestoring},
	StateRestoring:   {StateFailed},
	StateDone:        nil,
	StateFailed:      nil,
}

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDownloading:
		return "downloading"
	case StateBackingUp:
		return "backing-up"
	case StateExtracting:
		return "extracting"
	case StateCommitting:
		return "committing"
	case StateDone:
		return "done"
	case StateRestoring:
		return "restoring"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// CanTransition reports whether next may follow s.
func (s State) CanTransition(next State) bool {
	return slices.Contains(transitions[s], next)
}

// IsTerminal reports whether no state may follow s.
func (s State) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// NeedsRestore reports whether a failure in state s leaves the live
// directory modified and requires the backup to be put back.
func (s State) NeedsRestore() bool {
	return s.CanTransition(StateRestoring)
}
