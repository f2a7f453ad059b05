//go:build windows

// ABOUTME: CLI tool to list active audio render endpoints with their IDs.
// ABOUTME: The IDs are what config.json stores for the two presets.

package main

import (
	"fmt"
	"os"

	"github.com/go-ole/go-ole"

	"github.com/PinW/audio-output-switcher/internal/endpoint"
)

func main() {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing COM: %v\n", err)
		os.Exit(1)
	}
	defer ole.CoUninitialize()

	dir := endpoint.NewDirectory()

	devs, err := dir.ListActive()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing audio devices: %v\n", err)
		os.Exit(1)
	}

	if len(devs) == 0 {
		fmt.Println("No active audio output devices found.")
		os.Exit(0)
	}

	def, err := dir.Default(endpoint.RoleConsole)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read current default: %v\n", err)
	}

	fmt.Println("Active audio output devices:")
	fmt.Println()

	for i, dev := range devs {
		defaultMarker := ""
		if dev.ID == def.ID {
			defaultMarker = " (default)"
		}
		fmt.Printf("  %d: %s%s\n", i+1, dev.Name, defaultMarker)
		fmt.Printf("     %s\n", dev.ID)
	}

	fmt.Println()
	fmt.Println("Run 'audio-switcher' to assign devices to the two presets.")
}
