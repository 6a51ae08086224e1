package models

import (
	"database/sql/driver"
	"fmt"
)

// Status is the lifecycle state of a payment attempt.
//
// Incomplete (default): payment created but nothing confirmed as successful
// Success: payment successful
// Failure: payment failed during process
// Pending: payment awaiting receipt, bank transfer etc
type Status string

const (
	StatusIncomplete Status = "Incomplete"
	StatusSuccess    Status = "Success"
	StatusFailure    Status = "Failure"
	StatusPending    Status = "Pending"
)

// Statuses lists every status in declaration order.
var Statuses = []Status{StatusIncomplete, StatusSuccess, StatusFailure, StatusPending}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusIncomplete, StatusSuccess, StatusFailure, StatusPending:
		return true
	}
	return false
}

// Value implements driver.Valuer. Unknown statuses never reach the database.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid payment status %q", string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*s = StatusIncomplete
		return nil
	default:
		return fmt.Errorf("cannot scan %T into payment status", src)
	}

	status := Status(raw)
	if !status.Valid() {
		return fmt.Errorf("invalid payment status %q", raw)
	}
	*s = status
	return nil
}
