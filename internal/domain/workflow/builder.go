package workflow

import (
	"context"
	"fmt"
	"sort"
)

// GuardFunc decides whether a transition may be taken
type GuardFunc func(ctx context.Context) bool

// Builder collects transitions and builds machines from them
type Builder struct {
	transitions map[State]map[Trigger][]transition
}

type transition struct {
	to    State
	guard GuardFunc
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger][]transition)}
}

// Permit allows trigger to move from one state to another. It panics on
// unknown states.
func (b *Builder) Permit(from State, trigger Trigger, to State) *Builder {
	return b.PermitIf(from, trigger, to, nil)
}

// PermitIf is Permit with a guard; a nil guard always passes
func (b *Builder) PermitIf(from State, trigger Trigger, to State, guard GuardFunc) *Builder {
	for _, s := range []State{from, to} {
		if !s.IsValid() {
			panic(fmt.Sprintf("invalid state: %s", s))
		}
	}
	if b.transitions[from] == nil {
		b.transitions[from] = make(map[Trigger][]transition)
	}
	b.transitions[from][trigger] = append(b.transitions[from][trigger], transition{to: to, guard: guard})
	return b
}

// Build creates a machine in the initial state. Later changes to the builder
// do not affect it.
func (b *Builder) Build(initial State) (StateMachine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("invalid initial state %q", initial)
	}

	table := make(map[State]map[Trigger][]transition, len(b.transitions))
	for from, byTrigger := range b.transitions {
		table[from] = make(map[Trigger][]transition, len(byTrigger))
		for trigger, ts := range byTrigger {
			table[from][trigger] = append([]transition(nil), ts...)
		}
	}
	return &stateMachine{current: initial, table: table}, nil
}

type stateMachine struct {
	current State
	table   map[State]map[Trigger][]transition
}

func (m *stateMachine) State() State {
	return m.current
}

func (m *stateMachine) CanFire(trigger Trigger) bool {
	return len(m.table[m.current][trigger]) > 0
}

func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	ts := m.table[m.current][trigger]
	if len(ts) == 0 {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, m.current)
	}
	for _, t := range ts {
		if t.guard == nil || t.guard(ctx) {
			m.current = t.to
			return nil
		}
	}
	return fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, m.current)
}

func (m *stateMachine) PermittedTriggers() []Trigger {
	triggers := make([]Trigger, 0, len(m.table[m.current]))
	for trigger := range m.table[m.current] {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}
