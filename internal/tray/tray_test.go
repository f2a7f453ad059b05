package tray

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PinW/audio-output-switcher/internal/devices"
)

func TestTooltip(t *testing.T) {
	a := devices.Slot{ID: "S", Name: "Realtek Speakers"}
	b := devices.Slot{ID: "H", Name: "USB Headset"}

	assert.Equal(t, "Audio: Realtek Speakers", Tooltip(devices.StateA, a, b))
	assert.Equal(t, "Audio: USB Headset", Tooltip(devices.StateB, a, b))
	assert.Equal(t, "Audio: other device", Tooltip(devices.StateUnknown, a, b))
}

func TestTooltipFallsBackWhenNameMissing(t *testing.T) {
	a := devices.Slot{ID: "S"}
	b := devices.Slot{ID: "H"}

	assert.Equal(t, "Audio: Speakers", Tooltip(devices.StateA, a, b))
	assert.Equal(t, "Audio: Headphones", Tooltip(devices.StateB, a, b))
}

func TestTooltipTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("x", 200)
	a := devices.Slot{ID: "S", Name: long}

	tip := Tooltip(devices.StateA, a, devices.Slot{})
	assert.Less(t, len([]rune(tip)), 127, "tooltip must fit szTip")
	assert.True(t, strings.HasSuffix(tip, "…"))
}
