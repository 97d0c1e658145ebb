package flow

import (
	"errors"
	"strings"
)

// Gate errors surface as field-level messages on the entry form; they
// never abort the attempt.
var (
	ErrWrongPasscode     = errors.New("passcode does not match")
	ErrIdentityMismatch  = errors.New("name or email does not match our records")
	ErrGateNotApplicable = errors.New("gate check does not apply to the current state")
)

// GateState mirrors model.AttemptState for the pre-question phase.
type GateState string

const (
	GateLockedPasscode GateState = "locked_passcode"
	GateLockedIdentity GateState = "locked_identity"
	GateUnlocked       GateState = "unlocked"
)

// Identity is the pair a candidate submits to pass the identity gate.
type Identity struct {
	Name  string
	Email string
}

// InitialGate decides where an attempt starts. A candidate linkage
// takes precedence over a passcode; with neither, the attempt begins
// unlocked. There is no transition back out of Unlocked.
func InitialGate(hasPasscode, hasLinkage bool) GateState {
	switch {
	case hasLinkage:
		return GateLockedIdentity
	case hasPasscode:
		return GateLockedPasscode
	default:
		return GateUnlocked
	}
}

// VerifyPasscode unlocks a passcode-locked gate iff the given string
// equals the stored passcode exactly (case-sensitive). A wrong passcode
// leaves the state unchanged. No attempt counter is kept.
func VerifyPasscode(state GateState, stored, given string) (GateState, error) {
	if state == GateUnlocked {
		return GateUnlocked, nil
	}
	if state != GateLockedPasscode {
		return state, ErrGateNotApplicable
	}
	if given != stored {
		return state, ErrWrongPasscode
	}
	return GateUnlocked, nil
}

// VerifyIdentity unlocks an identity-locked gate iff both submitted
// name and email match the fetched candidate record case-insensitively.
// Surrounding whitespace is ignored; anything else must match.
func VerifyIdentity(state GateState, record, given Identity) (GateState, error) {
	if state == GateUnlocked {
		return GateUnlocked, nil
	}
	if state != GateLockedIdentity {
		return state, ErrGateNotApplicable
	}
	if !foldEqual(record.Name, given.Name) || !foldEqual(record.Email, given.Email) {
		return state, ErrIdentityMismatch
	}
	return GateUnlocked, nil
}

func foldEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
