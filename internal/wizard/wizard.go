// ABOUTME: Interactive console wizard for picking the two device presets and
// ABOUTME: the toggle hotkey. Pure io.Reader/io.Writer so tests can script it.

package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PinW/audio-output-switcher/internal/config"
	"github.com/PinW/audio-output-switcher/internal/endpoint"
	"github.com/PinW/audio-output-switcher/internal/hotkey"
)

var (
	// ErrAborted means the user cancelled (empty input / EOF) mid-wizard
	ErrAborted = errors.New("setup aborted")

	// ErrNotEnoughDevices means fewer than two active outputs exist, so
	// there is nothing to toggle between
	ErrNotEnoughDevices = errors.New("at least two active output devices are required")
)

// Run walks the user through preset selection and returns the resulting
// configuration. base supplies defaults (hotkey, flags) carried into the
// result; on reconfiguration it is the current config.
func Run(in io.Reader, out io.Writer, devs []endpoint.Device, base config.Config) (config.Config, error) {
	if len(devs) < 2 {
		return config.Config{}, ErrNotEnoughDevices
	}

	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Audio Switcher setup")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Active output devices:")
	for i, d := range devs {
		fmt.Fprintf(out, "  %d. %s\n", i+1, d.Name)
	}
	fmt.Fprintln(out)

	first, err := pickDevice(scanner, out, devs, "Device A (e.g. speakers)", -1)
	if err != nil {
		return config.Config{}, err
	}

	second, err := pickDevice(scanner, out, devs, "Device B (e.g. headphones)", first)
	if err != nil {
		return config.Config{}, err
	}

	binding, err := pickHotkey(scanner, out, base.Hotkey)
	if err != nil {
		return config.Config{}, err
	}

	result := base
	result.DeviceA = config.DeviceSlot{ID: devs[first].ID, Name: devs[first].Name}
	result.DeviceB = config.DeviceSlot{ID: devs[second].ID, Name: devs[second].Name}
	result.Hotkey = binding

	fmt.Fprintln(out)
	fmt.Fprintf(out, "A: %s\n", result.DeviceA.Name)
	fmt.Fprintf(out, "B: %s\n", result.DeviceB.Name)
	fmt.Fprintf(out, "Hotkey: %s\n", result.Hotkey)

	return result, nil
}

// pickDevice prompts until the user enters a valid 1-based index. exclude is
// the index already taken by the other preset, or -1.
func pickDevice(scanner *bufio.Scanner, out io.Writer, devs []endpoint.Device, label string, exclude int) (int, error) {
	for {
		fmt.Fprintf(out, "%s [1-%d]: ", label, len(devs))

		line, err := readLine(scanner)
		if err != nil {
			return 0, err
		}

		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(devs) {
			fmt.Fprintf(out, "Enter a number between 1 and %d.\n", len(devs))
			continue
		}
		if n-1 == exclude {
			fmt.Fprintln(out, "That device is already assigned; pick a different one.")
			continue
		}
		return n - 1, nil
	}
}

// pickHotkey prompts for a hotkey spec, offering the previous (or default)
// binding when the user just presses Enter
func pickHotkey(scanner *bufio.Scanner, out io.Writer, previous string) (string, error) {
	fallback := previous
	if fallback == "" {
		fallback = config.DefaultConfig().Hotkey
	}

	for {
		fmt.Fprintf(out, "Toggle hotkey [%s]: ", fallback)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read input: %w", err)
			}
			return "", ErrAborted
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			line = fallback
		}

		if _, err := hotkey.Parse(line); err != nil {
			fmt.Fprintf(out, "Invalid hotkey: %v. Example: Ctrl+Alt+S\n", err)
			continue
		}
		return line, nil
	}
}

// readLine returns the next non-empty trimmed line; empty input aborts
func readLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", ErrAborted
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return "", ErrAborted
	}
	return line, nil
}
