package lifecycle

import (
	"context"
	"fmt"

	"github.com/qmuntal/stateless"
)

// transitionConfig holds the per-transition options accumulated by the
// With* functions below.
type transitionConfig struct {
	guard            Guard
	guardDescription string
	onEntry          Action
	onExit           Action
}

// TransitionOption configures one transition registered with AddTransition.
type TransitionOption func(*transitionConfig)

// WithGuard attaches a named guard; its description surfaces in the error
// returned when an illegal transition is attempted (spec.md §4.3 layer 4,
// §7 "every surfaced error carries ... a human message").
func WithGuard(description string, guard Guard) TransitionOption {
	return func(c *transitionConfig) {
		c.guard = guard
		c.guardDescription = description
	}
}

// WithOnEntry runs action when the target state is entered.
func WithOnEntry(action Action) TransitionOption {
	return func(c *transitionConfig) { c.onEntry = action }
}

// WithOnExit runs action when the source state is exited.
func WithOnExit(action Action) TransitionOption {
	return func(c *transitionConfig) { c.onExit = action }
}

type transitionDef struct {
	from, to State
	event    Event
	opts     []TransitionOption
}

type guardDescKey struct {
	from, to State
	event    Event
}

// Builder assembles a Machine from an initial state and a list of legal
// transitions, exactly mirroring the teacher's MachineBuilder
// (libs/project/builder.go) generalized away from one specific project
// type's states.
type Builder struct {
	initial     State
	transitions []transitionDef
	guardDescs  map[guardDescKey]string
}

// NewBuilder starts a Builder whose machine begins in initial.
func NewBuilder(initial State) *Builder {
	return &Builder{initial: initial, guardDescs: make(map[guardDescKey]string)}
}

// AddTransition registers one legal (from, event) -> to transition.
func (b *Builder) AddTransition(from, to State, event Event, opts ...TransitionOption) *Builder {
	b.transitions = append(b.transitions, transitionDef{from: from, to: to, event: event, opts: opts})
	return b
}

// Build constructs the Machine, composing multiple OnEntry/OnExit actions
// per state (stateless only supports one callback per state natively).
func (b *Builder) Build() *Machine {
	fsm := stateless.NewStateMachine(string(b.initial))

	onExit := make(map[State][]Action)
	onEntry := make(map[State][]Action)

	for _, t := range b.transitions {
		cfg := &transitionConfig{}
		for _, opt := range t.opts {
			opt(cfg)
		}
		if cfg.guard != nil && cfg.guardDescription != "" {
			b.guardDescs[guardDescKey{t.from, t.to, t.event}] = cfg.guardDescription
		}
		if cfg.onExit != nil {
			onExit[t.from] = append(onExit[t.from], cfg.onExit)
		}
		if cfg.onEntry != nil {
			onEntry[t.to] = append(onEntry[t.to], cfg.onEntry)
		}
	}

	configured := make(map[State]bool)
	for _, t := range b.transitions {
		cfg := &transitionConfig{}
		for _, opt := range t.opts {
			opt(cfg)
		}

		cfgFrom := fsm.Configure(string(t.from))
		if !configured[t.from] {
			if actions := onExit[t.from]; len(actions) > 0 {
				cfgFrom.OnExit(composeActions(actions))
			}
			configured[t.from] = true
		}

		if cfg.guard != nil {
			guard := cfg.guard
			cfgFrom.Permit(stateless.Trigger(string(t.event)), string(t.to), func(context.Context, ...any) bool { return guard() })
		} else {
			cfgFrom.Permit(stateless.Trigger(string(t.event)), string(t.to))
		}

		if !configured[t.to] {
			if actions := onEntry[t.to]; len(actions) > 0 {
				fsm.Configure(string(t.to)).OnEntry(composeActions(actions))
			}
			configured[t.to] = true
		}
	}

	m := NewMachine(fsm)
	b.attachUnhandledTriggerHandler(m)
	return m
}

func composeActions(actions []Action) func(context.Context, ...any) error {
	return func(ctx context.Context, _ ...any) error {
		for _, a := range actions {
			if err := a(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func (b *Builder) attachUnhandledTriggerHandler(m *Machine) {
	m.fsm.OnUnhandledTrigger(func(_ context.Context, state, trigger any, unmetGuards []string) error {
		cur := State(fmt.Sprintf("%v", state))
		event := Event(fmt.Sprintf("%v", trigger))

		var descs []string
		for key, desc := range b.guardDescs {
			if key.from == cur && key.event == event {
				descs = append(descs, desc)
			}
		}
		switch {
		case len(descs) == 1:
			return fmt.Errorf("guard %q failed for event %q from state %q", descs[0], event, cur)
		case len(descs) > 1:
			return fmt.Errorf("guards failed for event %q from state %q: %v", event, cur, descs)
		case len(unmetGuards) > 0:
			return fmt.Errorf("guard conditions not met for event %q from state %q: %v", event, cur, unmetGuards)
		default:
			return fmt.Errorf("trigger %q is not valid from state %q", event, cur)
		}
	})
}
