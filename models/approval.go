// models/approval.go
package models

import (
	"errors"
	"fmt"
	"time"
)

// Transition guard errors. Handlers map these to distinct HTTP statuses
// so a client can tell "already decided" from a store failure.
var (
	ErrInvalidTransition = errors.New("permit has already been decided")
	ErrInvalidStatus     = errors.New("target status must be approved or rejected")
	ErrMissingSignature  = errors.New("approver signature is required")
	ErrMissingReason     = errors.New("rejection reason is required")
)

// Decision is the command a reviewer submits against a pending permit.
// Collecting signature and reason interactively is a UI concern; by the
// time a Decision reaches the core it is complete or it is refused.
type Decision struct {
	Status    ApprovalStatus `json:"status"`
	Signature string         `json:"signature"`
	Reason    string         `json:"reason,omitempty"`
}

// Validate checks the command itself, independent of any permit.
func (d Decision) Validate() error {
	if !d.Status.IsTerminal() {
		return fmt.Errorf("%w: got %q", ErrInvalidStatus, d.Status)
	}
	if d.Signature == "" {
		return ErrMissingSignature
	}
	if d.Status == StatusRejected && d.Reason == "" {
		return ErrMissingReason
	}
	return nil
}

// ApplyDecision runs the approval state machine on p. The only legal
// move is pending → approved|rejected; both targets are dead ends.
// On success the approval fields are set atomically on the struct:
// status, decision timestamp, signature, and — only when rejecting —
// the incomplete reason. The caller persists the result.
//
// p is not modified on error.
func ApplyDecision(p *WorkPermit, d Decision, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if p.ApprovalStatus != StatusPending {
		return fmt.Errorf("%w: current status %q", ErrInvalidTransition, p.ApprovalStatus)
	}

	p.ApprovalStatus = d.Status
	p.ApprovalDate = &now
	sig := d.Signature
	p.ApproverSignature = &sig

	if d.Status == StatusRejected {
		reason := d.Reason
		p.ApprovalIncompleteReason = &reason
	} else {
		p.ApprovalIncompleteReason = nil
	}
	return nil
}
