package feedback

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PinW/audio-output-switcher/internal/devices"
)

func TestSamplesToBytes(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768}
	bytes := samplesToBytes(samples)

	require.Len(t, bytes, 10)
	assert.Equal(t, []byte{0x00, 0x00}, bytes[0:2])
	assert.Equal(t, []byte{0x01, 0x00}, bytes[2:4])
	assert.Equal(t, []byte{0xFF, 0xFF}, bytes[4:6])
	assert.Equal(t, []byte{0xFF, 0x7F}, bytes[6:8])
	assert.Equal(t, []byte{0x00, 0x80}, bytes[8:10])
}

func TestIntBufferToSamplesBitDepths(t *testing.T) {
	tests := []struct {
		name     string
		bitDepth int
		input    []int
		expected []int16
	}{
		{
			name:     "8-bit scales up",
			bitDepth: 8,
			input:    []int{127, -128},
			expected: []int16{127 << 8, -128 << 8},
		},
		{
			name:     "16-bit passes through",
			bitDepth: 16,
			input:    []int{32767, -32768},
			expected: []int16{32767, -32768},
		},
		{
			name:     "24-bit scales down",
			bitDepth: 24,
			input:    []int{8388607, -8388608},
			expected: []int16{8388607 >> 8, -8388608 >> 8},
		},
		{
			name:     "32-bit scales down",
			bitDepth: 32,
			input:    []int{2147483647, -2147483648},
			expected: []int16{2147483647 >> 16, -2147483648 >> 16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &audio.IntBuffer{Data: tt.input}
			got := intBufferToSamples(buf, tt.bitDepth)
			assert.Equal(t, tt.expected, got)
		})
	}
}

type fakeStreamer struct {
	frames [][2]float64
	pos    int
}

func (f *fakeStreamer) Stream(buf [][2]float64) (int, bool) {
	n := copy(buf, f.frames[f.pos:])
	f.pos += n
	return n, f.pos < len(f.frames)
}

func TestStreamToSamplesMono(t *testing.T) {
	s := &fakeStreamer{frames: [][2]float64{{0.5, 0.5}, {-0.5, -0.5}}}

	samples, rate, channels, err := streamToSamples(s, 44100, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(44100), rate)
	assert.Equal(t, 1, channels)
	assert.Equal(t, []int16{16383, -16383}, samples)
}

func TestStreamToSamplesStereoInterleaves(t *testing.T) {
	s := &fakeStreamer{frames: [][2]float64{{1.0, -1.0}}}

	samples, _, channels, err := streamToSamples(s, 48000, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, channels)
	assert.Equal(t, []int16{32767, -32767}, samples)
}

func TestSynthTone(t *testing.T) {
	samples, rate := synthTone(880, 120*time.Millisecond)

	assert.Equal(t, uint32(48000), rate)
	assert.Len(t, samples, 48000*120/1000)

	// Fade-in and fade-out start and end at silence
	assert.Equal(t, int16(0), samples[0])
	var peak int16
	for _, s := range samples {
		if s > peak {
			peak = s
		}
	}
	assert.Greater(t, peak, int16(8000))
}

func TestCuePathPrefersFirstMatchingExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "switch-a.wav"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "switch-a.ogg"), []byte("x"), 0o644))

	p := &Player{soundDir: dir}
	assert.Equal(t, filepath.Join(dir, "switch-a.wav"), p.cuePath(devices.PresetA))
}

func TestCuePathMissing(t *testing.T) {
	p := &Player{soundDir: t.TempDir()}
	assert.Empty(t, p.cuePath(devices.PresetB))

	noDir := &Player{}
	assert.Empty(t, noDir.cuePath(devices.PresetA))
}

func TestDecodeAudioUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sound.xyz")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	_, _, _, err := decodeAudio(path)
	assert.ErrorContains(t, err, "unsupported audio format")
}
