package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want Binding
	}{
		{"default binding", "Ctrl+Alt+S", Binding{ModControl | ModAlt | ModNoRepeat, 'S'}},
		{"lowercase", "ctrl+alt+s", Binding{ModControl | ModAlt | ModNoRepeat, 'S'}},
		{"control alias", "Control+A", Binding{ModControl | ModNoRepeat, 'A'}},
		{"win alias", "Win+H", Binding{ModWin | ModNoRepeat, 'H'}},
		{"windows alias", "Windows+H", Binding{ModWin | ModNoRepeat, 'H'}},
		{"super alias", "Super+H", Binding{ModWin | ModNoRepeat, 'H'}},
		{"shift", "Shift+F5", Binding{ModShift | ModNoRepeat, vkF1 + 4}},
		{"all modifiers", "Ctrl+Alt+Shift+Win+Z", Binding{ModControl | ModAlt | ModShift | ModWin | ModNoRepeat, 'Z'}},
		{"digit", "Ctrl+1", Binding{ModControl | ModNoRepeat, '1'}},
		{"function key", "Alt+F12", Binding{ModAlt | ModNoRepeat, vkF1 + 11}},
		{"space", "Ctrl+Space", Binding{ModControl | ModNoRepeat, vkSpace}},
		{"bare key no modifiers", "F9", Binding{ModNoRepeat, vkF1 + 8}},
		{"whitespace tolerated", " Ctrl + Alt + S ", Binding{ModControl | ModAlt | ModNoRepeat, 'S'}},
		{"punctuation semicolon", "Ctrl+;", Binding{ModControl | ModNoRepeat, vkOEM1}},
		{"punctuation backslash", "Ctrl+\\", Binding{ModControl | ModNoRepeat, vkOEM5}},
		{"punctuation comma", "Alt+,", Binding{ModAlt | ModNoRepeat, vkOEMComma}},
		{"punctuation backtick", "Win+`", Binding{ModWin | ModNoRepeat, vkOEM3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAlwaysSetsNoRepeat(t *testing.T) {
	specs := []string{"Ctrl+Alt+S", "F1", "Win+Space", "Shift+9"}
	for _, spec := range specs {
		b, err := Parse(spec)
		require.NoError(t, err)
		assert.NotZero(t, b.Modifiers&ModNoRepeat, "spec %q must carry the no-repeat flag", spec)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"empty", ""},
		{"modifiers only", "Ctrl+Alt"},
		{"two keys", "Ctrl+A+B"},
		{"unknown key", "Ctrl+Escape"},
		{"unknown key f13", "Ctrl+F13"},
		{"garbage", "+++"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestOptionsBinding(t *testing.T) {
	assert.Equal(t, uint32('O'), OptionsBinding.VK)
	assert.NotZero(t, OptionsBinding.Modifiers&ModControl)
	assert.NotZero(t, OptionsBinding.Modifiers&ModNoRepeat)
}
