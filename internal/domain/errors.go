package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStatusUnchanged is returned by Advance when the entity already sits
	// in the requested status.
	ErrStatusUnchanged = errors.New("status unchanged")
	// ErrActiveReturnExists is returned when an order already has a
	// non-terminal return.
	ErrActiveReturnExists = errors.New("order already has an active return")
)

// PreconditionError reports an admin action requested from a status that
// does not allow it.
type PreconditionError struct {
	Action   string
	Expected []ReturnStatus
	Actual   ReturnStatus
}

func (e *PreconditionError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		expected[i] = string(s)
	}
	return fmt.Sprintf("cannot %s: return status must be %s, current status is %s",
		e.Action, strings.Join(expected, " or "), e.Actual)
}

// TransitionError reports an automated transition that is not reachable
// from the current status.
type TransitionError struct {
	From ReturnStatus
	To   ReturnStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s is not allowed", e.From, e.To)
}

type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Ref)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ExternalIntegrationError wraps failures of collaborators outside the
// process, such as the refund gateway.
type ExternalIntegrationError struct {
	Op  string
	Err error
}

func (e *ExternalIntegrationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ExternalIntegrationError) Unwrap() error {
	return e.Err
}

// AuthenticationError is a missing or invalid credential, or a role that
// may not use the endpoint when Forbidden is set.
type AuthenticationError struct {
	Forbidden bool
	Message   string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AmbiguousError reports a loose reference that matched more than one
// entity.
type AmbiguousError struct {
	Entity     string
	Ref        string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s reference %q is ambiguous, matches: %s", e.Entity, e.Ref, strings.Join(e.Candidates, ", "))
}
