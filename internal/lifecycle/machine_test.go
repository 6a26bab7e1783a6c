package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStatePending   State = "Pending"
	testStateActive    State = "Active"
	testStateCompleted State = "Completed"

	testEventStart    Event = "Start"
	testEventComplete Event = "Complete"
	testEventReset    Event = "Reset"
)

func TestMachineState(t *testing.T) {
	t.Parallel()

	machine := NewBuilder(testStatePending).Build()
	assert.Equal(t, testStatePending, machine.State())
}

func TestMachineFire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("transitions to new state", func(t *testing.T) {
		t.Parallel()

		machine := NewBuilder(testStatePending).
			AddTransition(testStatePending, testStateActive, testEventStart).
			Build()

		require.NoError(t, machine.Fire(ctx, testEventStart))
		assert.Equal(t, testStateActive, machine.State())
	})

	t.Run("returns error for invalid transition", func(t *testing.T) {
		t.Parallel()

		machine := NewBuilder(testStatePending).
			AddTransition(testStatePending, testStateActive, testEventStart).
			Build()

		err := machine.Fire(ctx, testEventComplete)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Complete")
		assert.Equal(t, testStatePending, machine.State())
	})

	t.Run("allows multiple transitions in sequence", func(t *testing.T) {
		t.Parallel()

		machine := NewBuilder(testStatePending).
			AddTransition(testStatePending, testStateActive, testEventStart).
			AddTransition(testStateActive, testStateCompleted, testEventComplete).
			Build()

		require.NoError(t, machine.Fire(ctx, testEventStart))
		assert.Equal(t, testStateActive, machine.State())

		require.NoError(t, machine.Fire(ctx, testEventComplete))
		assert.Equal(t, testStateCompleted, machine.State())
	})

	t.Run("reports the failing guard's description", func(t *testing.T) {
		t.Parallel()

		machine := NewBuilder(testStatePending).
			AddTransition(testStatePending, testStateActive, testEventStart,
				WithGuard("must be ready", func() bool { return false })).
			Build()

		err := machine.Fire(ctx, testEventStart)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be ready")
	})
}

func TestMachineCanFire(t *testing.T) {
	t.Parallel()

	t.Run("returns true for valid event", func(t *testing.T) {
		t.Parallel()

		machine := NewBuilder(testStatePending).
			AddTransition(testStatePending, testStateActive, testEventStart).
			Build()

		assert.True(t, machine.CanFire(testEventStart))
	})

	t.Run("returns false for invalid event", func(t *testing.T) {
		t.Parallel()

		machine := NewBuilder(testStatePending).
			AddTransition(testStatePending, testStateActive, testEventStart).
			Build()

		assert.False(t, machine.CanFire(testEventComplete))
	})

	t.Run("honors guard state", func(t *testing.T) {
		t.Parallel()

		open := true
		machine := NewBuilder(testStatePending).
			AddTransition(testStatePending, testStateActive, testEventStart,
				WithGuard("gate open", func() bool { return open })).
			Build()

		assert.True(t, machine.CanFire(testEventStart))
		open = false
		assert.False(t, machine.CanFire(testEventStart))
	})
}

func TestMachinePermittedTriggers(t *testing.T) {
	t.Parallel()

	t.Run("returns available events from current state", func(t *testing.T) {
		t.Parallel()

		machine := NewBuilder(testStatePending).
			AddTransition(testStatePending, testStateActive, testEventStart).
			AddTransition(testStateActive, testStateCompleted, testEventComplete).
			Build()

		events := machine.PermittedTriggers()

		assert.Len(t, events, 1)
		assert.Contains(t, events, testEventStart)
	})

	t.Run("returns multiple events when available", func(t *testing.T) {
		t.Parallel()

		machine := NewBuilder(testStatePending).
			AddTransition(testStatePending, testStateActive, testEventStart).
			AddTransition(testStatePending, testStateCompleted, testEventReset).
			Build()

		events := machine.PermittedTriggers()

		assert.Len(t, events, 2)
		assert.Contains(t, events, testEventStart)
		assert.Contains(t, events, testEventReset)
	})

	t.Run("returns empty slice when no events available", func(t *testing.T) {
		t.Parallel()

		machine := NewBuilder(testStateCompleted).Build()

		assert.Empty(t, machine.PermittedTriggers())
	})
}

func TestMachineOnEntryOnExitCompose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var order []string
	machine := NewBuilder(testStatePending).
		AddTransition(testStatePending, testStateActive, testEventStart,
			WithOnExit(func(context.Context) error { order = append(order, "exit-pending-1"); return nil }),
			WithOnEntry(func(context.Context) error { order = append(order, "enter-active-1"); return nil }),
		).
		AddTransition(testStatePending, testStateCompleted, testEventReset,
			WithOnExit(func(context.Context) error { order = append(order, "exit-pending-2"); return nil }),
		).
		Build()

	require.NoError(t, machine.Fire(ctx, testEventStart))
	assert.Equal(t, []string{"exit-pending-1", "exit-pending-2", "enter-active-1"}, order)
}
