package tray

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIco assembles a minimal ICO container whose entries carry
// recognizable payloads so tests can tell which one was picked
func buildIco(t *testing.T, widths ...int) ([]byte, map[int][]byte) {
	t.Helper()

	header := make([]byte, 6)
	binary.LittleEndian.PutUint16(header[2:4], 1)
	binary.LittleEndian.PutUint16(header[4:6], uint16(len(widths)))

	dir := make([]byte, 0, len(widths)*16)
	payloads := make(map[int][]byte)
	var images []byte
	offset := uint32(6 + len(widths)*16)

	for i, w := range widths {
		payload := []byte{byte(i + 1), byte(w), 0xCA, 0xFE}
		payloads[w] = payload

		entry := make([]byte, 16)
		if w != 256 {
			entry[0] = byte(w)
		}
		binary.LittleEndian.PutUint32(entry[8:12], uint32(len(payload)))
		binary.LittleEndian.PutUint32(entry[12:16], offset)
		dir = append(dir, entry...)
		images = append(images, payload...)
		offset += uint32(len(payload))
	}

	out := append(header, dir...)
	return append(out, images...), payloads
}

func TestPickIconImageExactMatch(t *testing.T) {
	ico, payloads := buildIco(t, 32, 16, 48)

	img, err := pickIconImage(ico, 16)
	require.NoError(t, err)
	assert.Equal(t, payloads[16], img)
}

func TestPickIconImagePrefersSmallestAboveTarget(t *testing.T) {
	ico, payloads := buildIco(t, 48, 32, 256)

	img, err := pickIconImage(ico, 16)
	require.NoError(t, err)
	assert.Equal(t, payloads[32], img)
}

func TestPickIconImageFallsBackToLargestBelowTarget(t *testing.T) {
	ico, payloads := buildIco(t, 4, 8)

	img, err := pickIconImage(ico, 16)
	require.NoError(t, err)
	assert.Equal(t, payloads[8], img)
}

func TestPickIconImageSingleEntry(t *testing.T) {
	ico, payloads := buildIco(t, 256)

	img, err := pickIconImage(ico, 16)
	require.NoError(t, err)
	assert.Equal(t, payloads[256], img)
}

func TestPickIconImageRejectsGarbage(t *testing.T) {
	_, err := pickIconImage([]byte{1, 2, 3}, 16)
	assert.Error(t, err)

	_, err = pickIconImage([]byte{0, 0, 9, 9, 1, 0, 0, 0}, 16)
	assert.Error(t, err)
}

func TestPickIconImageRejectsTruncatedDirectory(t *testing.T) {
	ico, _ := buildIco(t, 16)
	_, err := pickIconImage(ico[:10], 16)
	assert.Error(t, err)
}

func TestEmbeddedIconsParse(t *testing.T) {
	for name, data := range map[string][]byte{
		"speakers":   speakersIco,
		"headphones": headphonesIco,
	} {
		t.Run(name, func(t *testing.T) {
			img, err := pickIconImage(data, trayIconSize)
			require.NoError(t, err)
			assert.NotEmpty(t, img)
		})
	}
}
