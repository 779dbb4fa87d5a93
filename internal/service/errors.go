package service

import "errors"

var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserExists is returned when registering a taken username
	ErrUserExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned for an unknown user or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrGroupExists is returned when creating or renaming to a taken client name
	ErrGroupExists = errors.New("client already exists")

	// ErrGroupNotFound is returned when a client group does not exist
	ErrGroupNotFound = errors.New("client not found")

	// ErrMissingNameOrAmount is returned when a contribution has no member name or a non-positive amount
	ErrMissingNameOrAmount = errors.New("member name and a positive amount are required")

	// ErrInvalidPaymentMode is returned for a payment mode outside M-Pesa, Cash and Bank
	ErrInvalidPaymentMode = errors.New("invalid payment mode")

	// ErrInvalidEventType is returned for an unknown event type
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrFirewoodDisabled is returned when recording firewood for a group that does not track it
	ErrFirewoodDisabled = errors.New("firewood is not tracked for this client")

	// ErrNoContributions is returned when a report is requested for an event with no contributions
	ErrNoContributions = errors.New("no contributions recorded for this event")

	// ErrNothingToImport is returned when a statement has no importable rows
	ErrNothingToImport = errors.New("no valid records found")
)
