package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMachineTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewSessionMachine(SessionActiveState)
	require.NoError(t, FireSessionEvent(ctx, m, EventSuspend))
	assert.Equal(t, SessionSuspendedState, m.State())

	require.NoError(t, FireSessionEvent(ctx, m, EventResume))
	assert.Equal(t, SessionActiveState, m.State())

	require.NoError(t, FireSessionEvent(ctx, m, EventEnd))
	assert.Equal(t, SessionEndedState, m.State())

	require.NoError(t, FireSessionEvent(ctx, m, EventOrphan))
	assert.Equal(t, SessionOrphanedState, m.State())
}

func TestSessionMachineEndFromSuspended(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewSessionMachine(SessionSuspendedState)
	require.NoError(t, FireSessionEvent(ctx, m, EventEnd))
	assert.Equal(t, SessionEndedState, m.State())
}

func TestSessionMachineOrphanedIsTerminal(t *testing.T) {
	t.Parallel()

	m := NewSessionMachine(SessionOrphanedState)
	assert.Empty(t, m.PermittedTriggers())
}

func TestSessionMachineSameStateFireIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewSessionMachine(SessionActiveState)
	require.NoError(t, FireSessionEvent(ctx, m, EventResume))
	assert.Equal(t, SessionActiveState, m.State())
}
