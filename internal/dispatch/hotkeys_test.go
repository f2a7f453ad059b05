package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PinW/audio-output-switcher/internal/hotkey"
)

// fakeRegistrar records registration traffic and can fail one registration
// per id
type fakeRegistrar struct {
	registered   []int
	unregistered []int
	last         map[int]hotkey.Binding
	failOnce     map[int]error
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{
		last:     make(map[int]hotkey.Binding),
		failOnce: make(map[int]error),
	}
}

func (f *fakeRegistrar) register(id int, b hotkey.Binding) error {
	if err := f.failOnce[id]; err != nil {
		delete(f.failOnce, id)
		return err
	}
	f.registered = append(f.registered, id)
	f.last[id] = b
	return nil
}

func (f *fakeRegistrar) unregister(id int) {
	f.unregistered = append(f.unregistered, id)
}

func TestHotkeySetParkRestoreRoundTrip(t *testing.T) {
	reg := newFakeRegistrar()
	set := newHotkeySet(reg.register, reg.unregister)

	assert.NoError(t, set.Add(hotkey.IDToggle, hotkey.Binding{VK: 'S'}))
	assert.NoError(t, set.Add(hotkey.IDOptions, hotkey.OptionsBinding))

	set.Park()
	assert.Equal(t, []int{hotkey.IDToggle, hotkey.IDOptions}, reg.unregistered)

	set.Restore(nil)
	assert.Equal(t, []int{hotkey.IDToggle, hotkey.IDOptions, hotkey.IDToggle, hotkey.IDOptions}, reg.registered)
}

func TestHotkeySetFailedAddIsNotRecorded(t *testing.T) {
	// The startup path when the configured toggle binding conflicts: the
	// wizard runs with nothing registered, then the new toggle and the
	// options binding must each end up registered exactly once.
	reg := newFakeRegistrar()
	reg.failOnce[hotkey.IDToggle] = hotkey.ErrConflict
	set := newHotkeySet(reg.register, reg.unregister)

	err := set.Add(hotkey.IDToggle, hotkey.Binding{VK: 'S'})
	assert.ErrorIs(t, err, hotkey.ErrConflict)

	set.Park()
	set.Restore(nil)
	assert.Empty(t, reg.unregistered, "a never-registered binding must not be unregistered")
	assert.Empty(t, reg.registered, "a never-registered binding must not be restored")

	newToggle := hotkey.Binding{Modifiers: hotkey.ModControl, VK: 'H'}
	set.Rebind(hotkey.IDToggle, newToggle)
	set.Restore(nil)
	assert.NoError(t, set.Add(hotkey.IDOptions, hotkey.OptionsBinding))

	assert.Equal(t, []int{hotkey.IDToggle, hotkey.IDOptions}, reg.registered)
	assert.Equal(t, newToggle, reg.last[hotkey.IDToggle])
}

func TestHotkeySetRebindReplacesRestoredBinding(t *testing.T) {
	reg := newFakeRegistrar()
	set := newHotkeySet(reg.register, reg.unregister)

	old := hotkey.Binding{Modifiers: hotkey.ModControl | hotkey.ModAlt, VK: 'S'}
	assert.NoError(t, set.Add(hotkey.IDToggle, old))
	assert.NoError(t, set.Add(hotkey.IDOptions, hotkey.OptionsBinding))

	set.Park()
	replacement := hotkey.Binding{Modifiers: hotkey.ModWin, VK: 'A'}
	set.Rebind(hotkey.IDToggle, replacement)
	set.Restore(nil)

	assert.Equal(t, replacement, reg.last[hotkey.IDToggle])
	assert.Equal(t, hotkey.OptionsBinding, reg.last[hotkey.IDOptions])
}

func TestHotkeySetRestoreReportsFailuresAndContinues(t *testing.T) {
	reg := newFakeRegistrar()
	set := newHotkeySet(reg.register, reg.unregister)

	assert.NoError(t, set.Add(hotkey.IDToggle, hotkey.Binding{VK: 'S'}))
	assert.NoError(t, set.Add(hotkey.IDOptions, hotkey.OptionsBinding))

	set.Park()
	stolen := errors.New("grabbed by another app meanwhile")
	reg.failOnce[hotkey.IDToggle] = stolen

	var reported []int
	set.Restore(func(id int, err error) {
		reported = append(reported, id)
		assert.ErrorIs(t, err, stolen)
	})

	assert.Equal(t, []int{hotkey.IDToggle}, reported)
	assert.Contains(t, reg.registered, hotkey.IDOptions, "a failed restore must not stop the rest")
}
