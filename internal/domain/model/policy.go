package model

import (
	"fmt"
	"strings"
)

type (
	// MatchPolicy decides how an identifier lookup compares stored values.
	MatchPolicy uint8

	// ReadFailurePolicy decides what a failed fetch returns to the caller.
	ReadFailurePolicy uint8

	SessionState uint8
)

const (
	// MatchSubstring matches any stored identifier containing the needle.
	// A search for "123" finds "9991234567".
	MatchSubstring MatchPolicy = iota
	// MatchExact matches only identical identifiers.
	MatchExact
)

const (
	// ReadFailureEmpty turns fetch failures into empty results.
	ReadFailureEmpty ReadFailurePolicy = iota
	// ReadFailurePropagate returns fetch failures wrapped in ErrDatabaseQuery.
	ReadFailurePropagate
)

const (
	SessionClean SessionState = iota
	SessionDirty
	SessionRolledBack
)

const (
	matchSubstringName = "substring"
	matchExactName     = "exact"

	readFailureEmptyName     = "empty"
	readFailurePropagateName = "propagate"
)

func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case matchSubstringName, "":
		return MatchSubstring, nil
	case matchExactName:
		return MatchExact, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMatchPolicy, s)
	}
}

func (p MatchPolicy) String() string {
	if p == MatchExact {
		return matchExactName
	}

	return matchSubstringName
}

// Matches reports whether value satisfies the policy for needle. An empty
// needle never matches.
func (p MatchPolicy) Matches(value, needle string) bool {
	if needle == "" {
		return false
	}

	if p == MatchExact {
		return value == needle
	}

	return strings.Contains(value, needle)
}

// MatchesRecord applies the policy to the record identifier. Records without
// an identifier never match.
func (p MatchPolicy) MatchesRecord(record *DeviceRecord, needle string) bool {
	if record == nil || record.Identifier == nil {
		return false
	}

	return p.Matches(*record.Identifier, needle)
}

func ParseReadFailurePolicy(s string) (ReadFailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case readFailureEmptyName, "":
		return ReadFailureEmpty, nil
	case readFailurePropagateName:
		return ReadFailurePropagate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidReadPolicy, s)
	}
}

func (p ReadFailurePolicy) String() string {
	if p == ReadFailurePropagate {
		return readFailurePropagateName
	}

	return readFailureEmptyName
}

func (s SessionState) String() string {
	switch s {
	case SessionDirty:
		return "dirty"
	case SessionRolledBack:
		return "rolled_back"
	default:
		return "clean"
	}
}
