package endpoint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleString(t *testing.T) {
	assert.Equal(t, "console", RoleConsole.String())
	assert.Equal(t, "multimedia", RoleMultimedia.String())
	assert.Equal(t, "communications", RoleCommunications.String())
	assert.Equal(t, "role(7)", Role(7).String())
}

func TestDefaultRolesCoversAllThree(t *testing.T) {
	assert.Equal(t, []Role{RoleConsole, RoleMultimedia, RoleCommunications}, DefaultRoles)
}

func TestRoleErrorPartial(t *testing.T) {
	cause := errors.New("E_ACCESSDENIED")
	err := &RoleError{
		Failed:    []Role{RoleCommunications},
		Attempted: 3,
		Cause:     cause,
	}

	assert.False(t, err.AllFailed())
	assert.Contains(t, err.Error(), "communications")
	assert.NotContains(t, err.Error(), "all roles")
	assert.ErrorIs(t, err, cause)
}

func TestRoleErrorAllFailed(t *testing.T) {
	cause := errors.New("CO_E_SERVER_EXEC_FAILURE")
	err := &RoleError{
		Failed:    []Role{RoleConsole, RoleMultimedia, RoleCommunications},
		Attempted: 3,
		Cause:     cause,
	}

	assert.True(t, err.AllFailed())
	assert.Contains(t, err.Error(), "all roles")
}

func TestCollectRoleFailuresContinuesPastFailure(t *testing.T) {
	var attempted []Role
	err := collectRoleFailures(DefaultRoles, func(r Role) error {
		attempted = append(attempted, r)
		if r == RoleMultimedia {
			return errors.New("E_ACCESSDENIED")
		}
		return nil
	})

	assert.Equal(t, DefaultRoles, attempted, "a failing role must not stop the remaining roles")

	var roleErr *RoleError
	require.ErrorAs(t, err, &roleErr)
	assert.Equal(t, []Role{RoleMultimedia}, roleErr.Failed)
	assert.Equal(t, len(DefaultRoles), roleErr.Attempted)
	assert.False(t, roleErr.AllFailed())
}

func TestCollectRoleFailuresAllFailKeepsFirstCause(t *testing.T) {
	first := errors.New("CO_E_SERVER_EXEC_FAILURE")
	calls := 0
	err := collectRoleFailures(DefaultRoles, func(Role) error {
		calls++
		if calls == 1 {
			return first
		}
		return errors.New("later failure")
	})

	assert.Equal(t, len(DefaultRoles), calls)

	var roleErr *RoleError
	require.ErrorAs(t, err, &roleErr)
	assert.True(t, roleErr.AllFailed())
	assert.ErrorIs(t, err, first)
}

func TestCollectRoleFailuresAllSucceed(t *testing.T) {
	err := collectRoleFailures(DefaultRoles, func(Role) error { return nil })
	assert.NoError(t, err)
}

func TestEnumerationErrorWraps(t *testing.T) {
	cause := errors.New("audiosrv stopped")
	err := &EnumerationError{Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "enumeration failed")
}
