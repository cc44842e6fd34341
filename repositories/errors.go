package repositories

import "errors"

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyAssigned is returned when the candidate/agent pair already
	// has an active assignment.
	ErrAlreadyAssigned = errors.New("agent already assigned to candidate")

	// ErrNotAssigned is returned when removing a pair that has no active
	// assignment.
	ErrNotAssigned = errors.New("agent not assigned to candidate")

	// ErrAgentNotApproved is returned when assigning an agent whose account
	// is not in the approved state.
	ErrAgentNotApproved = errors.New("agent account is not approved")

	// ErrWrongUserType is returned when an operation receives a user of the
	// wrong role, e.g. assigning two candidates to each other.
	ErrWrongUserType = errors.New("wrong user type for operation")

	// ErrInvalidMessageType is returned for an unknown message type.
	ErrInvalidMessageType = errors.New("invalid message type")

	// ErrInvalidMessageStatus is returned for an unknown message status.
	ErrInvalidMessageStatus = errors.New("invalid message status")
)
