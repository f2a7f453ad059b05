// ABOUTME: ICO container parsing: picks the directory entry closest to the tray size.
// ABOUTME: Pure byte-level code, kept out of the _windows.go file so it can be unit tested.

package tray

import (
	"encoding/binary"
	"fmt"
)

// icoEntry is one image inside an ICO container
type icoEntry struct {
	Width  int // 0 in the file means 256
	Offset uint32
	Size   uint32
}

// pickIconImage returns the raw image bytes of the entry best suited for a
// square tray icon of the target pixel size: an exact match, else the
// smallest entry at least target wide, else the largest available.
func pickIconImage(ico []byte, target int) ([]byte, error) {
	entries, err := parseIcoDirectory(ico)
	if err != nil {
		return nil, err
	}

	best := entries[0]
	for _, e := range entries[1:] {
		if better(e, best, target) {
			best = e
		}
	}

	end := uint64(best.Offset) + uint64(best.Size)
	if end > uint64(len(ico)) {
		return nil, fmt.Errorf("ico entry exceeds file bounds (offset=%d size=%d len=%d)", best.Offset, best.Size, len(ico))
	}
	return ico[best.Offset:end], nil
}

func better(candidate, current icoEntry, target int) bool {
	if current.Width == target {
		return false
	}
	if candidate.Width == target {
		return true
	}
	// Prefer the smallest entry >= target; if none, the largest below it
	if candidate.Width >= target && current.Width >= target {
		return candidate.Width < current.Width
	}
	if candidate.Width >= target {
		return true
	}
	if current.Width >= target {
		return false
	}
	return candidate.Width > current.Width
}

func parseIcoDirectory(ico []byte) ([]icoEntry, error) {
	if len(ico) < 6 {
		return nil, fmt.Errorf("ico data too short: %d bytes", len(ico))
	}
	if binary.LittleEndian.Uint16(ico[0:2]) != 0 || binary.LittleEndian.Uint16(ico[2:4]) != 1 {
		return nil, fmt.Errorf("not an ico file")
	}

	count := int(binary.LittleEndian.Uint16(ico[4:6]))
	if count == 0 {
		return nil, fmt.Errorf("ico file has no images")
	}
	if len(ico) < 6+count*16 {
		return nil, fmt.Errorf("ico directory truncated")
	}

	entries := make([]icoEntry, 0, count)
	for i := 0; i < count; i++ {
		base := 6 + i*16
		width := int(ico[base])
		if width == 0 {
			width = 256
		}
		entries = append(entries, icoEntry{
			Width:  width,
			Size:   binary.LittleEndian.Uint32(ico[base+8 : base+12]),
			Offset: binary.LittleEndian.Uint32(ico[base+12 : base+16]),
		})
	}
	return entries, nil
}
