package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks
// (bad amounts, insufficient balance, unknown recipient).
var ErrValidation = errors.New("validation error")

// ErrAlreadyResolved indicates an attempt to resolve a transaction that is
// already in a terminal state. Approvals must never apply twice.
var ErrAlreadyResolved = errors.New("transaction already resolved")

// ErrForbidden indicates the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrPersistence indicates a snapshot write failure. In-memory state stays
// authoritative; callers surface a warning instead of failing the operation.
var ErrPersistence = errors.New("persistence error")

// ErrRemoteService indicates the AI collaborator failed or returned a payload
// that violates its schema. Never affects ledger state.
var ErrRemoteService = errors.New("remote service error")
