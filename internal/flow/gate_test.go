package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialGate(t *testing.T) {
	tests := []struct {
		name        string
		hasPasscode bool
		hasLinkage  bool
		want        GateState
	}{
		{"no gate at all", false, false, GateUnlocked},
		{"passcode only", true, false, GateLockedPasscode},
		{"linkage only", false, true, GateLockedIdentity},
		{"linkage wins over passcode", true, true, GateLockedIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InitialGate(tt.hasPasscode, tt.hasLinkage))
		})
	}
}

func TestVerifyPasscode_Exact(t *testing.T) {
	state, err := VerifyPasscode(GateLockedPasscode, "Secret123", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, GateUnlocked, state)
}

func TestVerifyPasscode_CaseSensitive(t *testing.T) {
	state, err := VerifyPasscode(GateLockedPasscode, "Secret123", "secret123")
	assert.ErrorIs(t, err, ErrWrongPasscode)
	assert.Equal(t, GateLockedPasscode, state)
}

func TestVerifyPasscode_WrongStringStaysLocked(t *testing.T) {
	for _, given := range []string{"", "Secret123 ", "nope", "Secret12"} {
		state, err := VerifyPasscode(GateLockedPasscode, "Secret123", given)
		assert.ErrorIs(t, err, ErrWrongPasscode, "given=%q", given)
		assert.Equal(t, GateLockedPasscode, state)
	}
}

func TestVerifyPasscode_AlreadyUnlocked(t *testing.T) {
	// No transition back out of Unlocked, even with a wrong passcode.
	state, err := VerifyPasscode(GateUnlocked, "Secret123", "wrong")
	require.NoError(t, err)
	assert.Equal(t, GateUnlocked, state)
}

func TestVerifyPasscode_WrongGateKind(t *testing.T) {
	state, err := VerifyPasscode(GateLockedIdentity, "Secret123", "Secret123")
	assert.ErrorIs(t, err, ErrGateNotApplicable)
	assert.Equal(t, GateLockedIdentity, state)
}

func TestVerifyIdentity_CaseInsensitiveMatch(t *testing.T) {
	record := Identity{Name: "Jane Doe", Email: "Jane@X.com"}

	state, err := VerifyIdentity(GateLockedIdentity, record, Identity{Name: "jane doe", Email: "jane@x.com"})
	require.NoError(t, err)
	assert.Equal(t, GateUnlocked, state)
}

func TestVerifyIdentity_EmailMismatchStaysLocked(t *testing.T) {
	record := Identity{Name: "Jane Doe", Email: "Jane@X.com"}

	state, err := VerifyIdentity(GateLockedIdentity, record, Identity{Name: "jane doe", Email: "jane@y.com"})
	assert.ErrorIs(t, err, ErrIdentityMismatch)
	assert.Equal(t, GateLockedIdentity, state)
}

func TestVerifyIdentity_BothFieldsRequired(t *testing.T) {
	record := Identity{Name: "Jane Doe", Email: "jane@x.com"}

	tests := []struct {
		name  string
		given Identity
		ok    bool
	}{
		{"exact", Identity{"Jane Doe", "jane@x.com"}, true},
		{"folded with whitespace", Identity{"  JANE DOE ", " Jane@X.COM "}, true},
		{"wrong name", Identity{"Janet Doe", "jane@x.com"}, false},
		{"empty name", Identity{"", "jane@x.com"}, false},
		{"empty both", Identity{"", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := VerifyIdentity(GateLockedIdentity, record, tt.given)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, GateUnlocked, state)
			} else {
				assert.ErrorIs(t, err, ErrIdentityMismatch)
				assert.Equal(t, GateLockedIdentity, state)
			}
		})
	}
}
