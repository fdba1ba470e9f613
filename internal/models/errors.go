package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRefNotFound is returned when a branch reference does not exist on the remote
var ErrRefNotFound = errors.New("reference not found")

// ConfigurationError indicates a bad or missing repository list or setting.
// It aborts the run before any target is processed.
type ConfigurationError struct {
	// Source is the file or flag the problem was found in
	Source string
	Msg    string
	Err    error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Source != "" {
		b.WriteString(" in " + e.Source)
	}
	b.WriteString(": " + e.Msg)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// HostingAPIError is a failed call to the hosting platform API
type HostingAPIError struct {
	// Op is the API operation, e.g. "create pull request"
	Op string
	// Status is the HTTP status code, 0 when no response was received
	Status int
	Err    error
}

func (e *HostingAPIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *HostingAPIError) Unwrap() error {
	return e.Err
}

// SyncError indicates the subtree pull produced an unexpected commit topology
type SyncError struct {
	Msg string
	Err error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return "subtree sync: " + e.Msg + ": " + e.Err.Error()
	}
	return "subtree sync: " + e.Msg
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// ConflictError indicates the content commit could not be replayed cleanly
type ConflictError struct {
	Commit string
	// Paths lists the conflicted files, when known
	Paths  []string
	Output string
	Err    error
}

func (e *ConflictError) Error() string {
	msg := "conflict replaying " + e.Commit
	if len(e.Paths) > 0 {
		msg += ": " + strings.Join(e.Paths, ", ")
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// PushRejectedError indicates the remote refused the force-push
type PushRejectedError struct {
	Branch string
	Err    error
}

func (e *PushRejectedError) Error() string {
	return fmt.Sprintf("push of %s rejected: %v", e.Branch, e.Err)
}

func (e *PushRejectedError) Unwrap() error {
	return e.Err
}
