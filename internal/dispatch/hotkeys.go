// ABOUTME: Bookkeeping for the loop's global hotkey registrations, so parking
// ABOUTME: around the wizard unregisters and restores exactly the live set.

package dispatch

import "github.com/PinW/audio-output-switcher/internal/hotkey"

// hotkeySet tracks which global bindings are currently registered. The wizard
// needs every hotkey released while it runs; restoring afterwards must
// register each recorded binding exactly once. A binding whose registration
// never succeeded is not recorded, so it cannot be restored into a spurious
// duplicate registration.
type hotkeySet struct {
	register   func(id int, b hotkey.Binding) error
	unregister func(id int)

	order    []int
	bindings map[int]hotkey.Binding
}

func newHotkeySet(register func(int, hotkey.Binding) error, unregister func(int)) *hotkeySet {
	return &hotkeySet{
		register:   register,
		unregister: unregister,
		bindings:   make(map[int]hotkey.Binding),
	}
}

// Add registers a binding and records it on success
func (h *hotkeySet) Add(id int, b hotkey.Binding) error {
	if err := h.register(id, b); err != nil {
		return err
	}
	h.record(id, b)
	return nil
}

// Rebind records a new binding for id without touching the live registration;
// the next Restore registers it. Used while the set is parked for the wizard,
// including the case where id was never registered because its old binding
// conflicted.
func (h *hotkeySet) Rebind(id int, b hotkey.Binding) {
	h.record(id, b)
}

func (h *hotkeySet) record(id int, b hotkey.Binding) {
	if _, ok := h.bindings[id]; !ok {
		h.order = append(h.order, id)
	}
	h.bindings[id] = b
}

// Park unregisters every recorded binding
func (h *hotkeySet) Park() {
	for _, id := range h.order {
		h.unregister(id)
	}
}

// Restore re-registers every recorded binding in registration order. A
// failure is reported through onError and does not stop the iteration.
func (h *hotkeySet) Restore(onError func(id int, err error)) {
	for _, id := range h.order {
		if err := h.register(id, h.bindings[id]); err != nil && onError != nil {
			onError(id, err)
		}
	}
}
