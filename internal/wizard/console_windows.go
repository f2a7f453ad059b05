//go:build windows

// ABOUTME: Console attachment for running the wizard from the tray, where the
// ABOUTME: process was started without one (windowsgui subsystem).

package wizard

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

var kernel32 = windows.NewLazySystemDLL("kernel32.dll")

var (
	procAllocConsole = kernel32.NewProc("AllocConsole")
	procFreeConsole  = kernel32.NewProc("FreeConsole")
)

// Console is a temporary console window plus stdio handles bound to it
type Console struct {
	in  *os.File
	out *os.File
}

// OpenConsole allocates a console for the process and opens CONIN$/CONOUT$.
// If the process already has a console (launched from a terminal), the
// allocation fails and the existing stdio is used instead.
func OpenConsole() (*Console, error) {
	allocated, _, _ := procAllocConsole.Call()
	if allocated == 0 {
		return &Console{in: os.Stdin, out: os.Stdout}, nil
	}

	in, err := os.OpenFile("CONIN$", os.O_RDWR, 0)
	if err != nil {
		_, _, _ = procFreeConsole.Call()
		return nil, fmt.Errorf("failed to open console input: %w", err)
	}
	out, err := os.OpenFile("CONOUT$", os.O_RDWR, 0)
	if err != nil {
		in.Close()
		_, _, _ = procFreeConsole.Call()
		return nil, fmt.Errorf("failed to open console output: %w", err)
	}

	return &Console{in: in, out: out}, nil
}

// In returns the console's input stream
func (c *Console) In() *os.File { return c.in }

// Out returns the console's output stream
func (c *Console) Out() *os.File { return c.out }

// Close frees the allocated console. A borrowed existing console is left
// alone.
func (c *Console) Close() {
	if c.in != os.Stdin {
		c.in.Close()
		c.out.Close()
		_, _, _ = procFreeConsole.Call()
	}
}
