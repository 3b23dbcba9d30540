package service

import (
	"errors"
	"fmt"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"
)

// Submission errors
var (
	ErrSubmissionInProgress = errors.New("a submission for this event is already in progress")
	ErrNoActiveContract     = errors.New("no active commission contract is available; paid events cannot be published yet")
	ErrContractNotAccepted  = errors.New("you must accept the commission contract to continue")
	ErrNoBatches            = errors.New("paid events need at least one ticket batch")
	ErrIncompleteBatch      = errors.New("every ticket batch needs a name, quantity, price, start date and end date")
	ErrEventNotVisible      = errors.New("event is not published")
)

// ErrContractPermissionDenied is returned when the database refuses to read
// the contract table for the current role
var ErrContractPermissionDenied = errors.New("permission denied reading the commission contract; ask an administrator to review contract access")

// RuleViolation is a cross-field business rule failure. Step is the wizard
// stage the user is sent back to.
type RuleViolation struct {
	Err  error
	Step wizard.Step
}

func (e *RuleViolation) Error() string { return e.Err.Error() }
func (e *RuleViolation) Unwrap() error { return e.Err }

func violation(err error, step wizard.Step) error {
	return &RuleViolation{Err: err, Step: step}
}

// AsRuleViolation extracts a RuleViolation from err
func AsRuleViolation(err error) (*RuleViolation, bool) {
	var rv *RuleViolation
	if errors.As(err, &rv) {
		return rv, true
	}
	return nil, false
}

// GatewayError wraps a failure of a backing store or remote service. The
// message of the underlying error is surfaced to the caller.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

// gatewayError wraps err unless it already carries a domain meaning
func gatewayError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ge *GatewayError
	if errors.As(err, &ge) {
		return err
	}
	return &GatewayError{Op: op, Err: err}
}
