// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"time"

	"github.com/juju/errors"
)

// Status is the value reported by the platform for a unit's workload or
// its agent. The harness never sets a status, it only reads them.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// StatusInfo holds a Status and associated information, as reported in
// the model status output.
type StatusInfo struct {
	Status  Status
	Message string
	Since   *time.Time
}

// SettledFor reports how long the status has held at now. A status with
// no since-time has not been observed as settled.
func (i StatusInfo) SettledFor(now time.Time) time.Duration {
	if i.Since == nil || i.Since.After(now) {
		return 0
	}
	return now.Sub(*i.Since)
}

const (
	// Error means the entity requires human intervention
	// in order to operate correctly. It is valid for both agents
	// and workloads.
	Error Status = "error"
)

const (
	// Status values specific to unit agents.

	// Allocating is set while the pod or machine hosting a unit is
	// still being provisioned.
	Allocating Status = "allocating"

	// Rebooting is set while the host of the agent is rebooting.
	Rebooting Status = "rebooting"

	// Executing is set while the agent is running a hook or action.
	Executing Status = "executing"

	// Idle is set once the agent has nothing left to run.
	Idle Status = "idle"

	// Lost is set when the agent has stopped talking to the controller.
	Lost Status = "lost"

	// Failed is set when the agent detected an unrecoverable condition.
	Failed Status = "failed"
)

const (
	// Status values specific to applications and units, reflecting the
	// state of the software itself.

	// Maintenance is set when the unit is preparing to provide its
	// services. This is a spinning state, not an error state.
	Maintenance Status = "maintenance"

	// Terminated is set when the unit is gone.
	Terminated Status = "terminated"

	// Unknown is set when the charm has not called status-set yet.
	Unknown Status = "unknown"

	// Waiting is set when the unit cannot progress because a related
	// application is not ready.
	Waiting Status = "waiting"

	// Blocked is set when the unit needs manual intervention, usually a
	// missing relation or config value.
	Blocked Status = "blocked"

	// Active is set when the unit believes it is correctly offering all
	// the services it has been asked to offer.
	Active Status = "active"
)

// KnownAgentStatus returns true if status has a known value for a unit
// agent.
func (s Status) KnownAgentStatus() bool {
	switch s {
	case
		Allocating,
		Error,
		Failed,
		Rebooting,
		Executing,
		Idle,
		Lost:
		return true
	}
	return false
}

// KnownWorkloadStatus returns true if status has a known value for a
// workload, including error.
func (s Status) KnownWorkloadStatus() bool {
	if ValidWorkloadStatus(s) {
		return true
	}
	return s == Error
}

// ValidWorkloadStatus returns true if status is a value a charm may set
// for units or applications.
func ValidWorkloadStatus(status Status) bool {
	switch status {
	case
		Blocked,
		Maintenance,
		Waiting,
		Active,
		Unknown,
		Terminated:
		return true
	default:
		return false
	}
}

// ParseWorkloadStatus converts s into a workload Status, refusing values
// that a unit can never report.
func ParseWorkloadStatus(s string) (Status, error) {
	st := Status(s)
	if !st.KnownWorkloadStatus() {
		return "", errors.NotValidf("workload status %q", s)
	}
	return st, nil
}

// ParseAgentStatus converts s into a unit agent Status, refusing values
// that an agent can never report.
func ParseAgentStatus(s string) (Status, error) {
	st := Status(s)
	if !st.KnownAgentStatus() {
		return "", errors.NotValidf("agent status %q", s)
	}
	return st, nil
}
