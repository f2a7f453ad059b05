//go:build windows

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-ole/go-ole"

	"github.com/PinW/audio-output-switcher/internal/command"
	"github.com/PinW/audio-output-switcher/internal/config"
	"github.com/PinW/audio-output-switcher/internal/devices"
	"github.com/PinW/audio-output-switcher/internal/dispatch"
	"github.com/PinW/audio-output-switcher/internal/endpoint"
	"github.com/PinW/audio-output-switcher/internal/feedback"
	"github.com/PinW/audio-output-switcher/internal/instance"
	"github.com/PinW/audio-output-switcher/internal/logging"
	"github.com/PinW/audio-output-switcher/internal/notify"
)

const version = "1.2.0"

const forwardTimeout = 3 * time.Second

// Exit codes. 3 is distinct so scripts can tell "the running instance is
// hung" apart from ordinary failures.
const (
	exitOK         = 0
	exitRuntime    = 1
	exitUsage      = 2
	exitNoResponse = 3
)

func main() {
	word := "run"
	if len(os.Args) > 1 {
		word = os.Args[1]
	}

	switch word {
	case "run":
		os.Exit(run(nil))
	case "toggle", "speakers", "headphones":
		cmd, err := command.FromCLI(word)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}
		os.Exit(run(&cmd))
	case "devices":
		os.Exit(listDevices())
	case "version", "--version", "-v":
		fmt.Printf("audio-switcher v%s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", word)
		printUsage()
		os.Exit(exitUsage)
	}
}

// run claims single-instance ownership and becomes the dispatcher, executing
// initial first if given. When another instance owns the mutex, the command
// is forwarded to it instead and this process exits.
func run(initial *command.Command) int {
	lock, err := instance.Acquire()
	if errors.Is(err, instance.ErrAlreadyRunning) {
		if initial != nil {
			return forward(*initial)
		}
		fmt.Fprintln(os.Stderr, "Audio Switcher is already running.")
		return exitRuntime
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRuntime
	}
	defer lock.Release()

	if _, err := logging.Init(config.Dir()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging unavailable: %v\n", err)
	}
	defer logging.Close()
	logging.SetPrefix(fmt.Sprintf("pid=%d", os.Getpid()))
	logging.Info("Audio Switcher v%s starting", version)

	cfgPath := config.Path()
	cfg, needSetup, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRuntime
	}
	logging.SetDebug(cfg.Debug)

	dir := endpoint.NewDirectory()
	sw := endpoint.NewSwitch()
	mgr := devices.New(dir, sw,
		devices.Slot{ID: cfg.DeviceA.ID, Name: cfg.DeviceA.Name},
		devices.Slot{ID: cfg.DeviceB.ID, Name: cfg.DeviceB.Name},
	)
	notifier := notify.New(cfg.NotifyOnError)

	var cue dispatch.CuePlayer
	if cfg.FeedbackSound {
		player, err := feedback.NewPlayer("", 1.0, filepath.Join(config.Dir(), "sounds"))
		if err != nil {
			logging.Warn("Feedback sound unavailable: %v", err)
		} else {
			defer player.Close()
			cue = asyncCue{player}
		}
	}

	exec := dispatch.NewExecutor(mgr, nil, notifier, cue)
	loop, err := dispatch.NewLoop(exec, mgr, dir, notifier, cfg, cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRuntime
	}
	if needSetup {
		loop.RequireSetup()
	}
	if initial != nil {
		loop.Queue(*initial)
	}

	if err := loop.Run(); err != nil {
		logging.Error("Dispatch loop failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRuntime
	}
	return exitOK
}

// loadConfig reads the stored config. A missing file or one that fails
// validation routes through the wizard instead of failing the launch; a
// file that does not parse is surfaced as-is.
func loadConfig(path string) (config.Config, bool, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrNotExist) {
			logging.Info("No config at %s, running first-time setup", path)
			return *config.DefaultConfig(), true, nil
		}
		return config.Config{}, false, err
	}

	if err := cfg.Validate(); err != nil {
		logging.Warn("Stored config invalid (%v), re-running setup", err)
		return *cfg, true, nil
	}
	return *cfg, false, nil
}

// forward delivers the command to the running instance
func forward(cmd command.Command) int {
	err := instance.Forward(cmd, forwardTimeout)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, instance.ErrForwardTimeout), errors.Is(err, instance.ErrNoInstance):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitNoResponse
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRuntime
	}
}

func listDevices() int {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize COM: %v\n", err)
		return exitRuntime
	}
	defer ole.CoUninitialize()

	dir := endpoint.NewDirectory()
	devs, err := dir.ListActive()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRuntime
	}

	def, err := dir.Default(endpoint.RoleConsole)
	if err != nil {
		logging.Debug("No readable default endpoint: %v", err)
	}

	for _, d := range devs {
		marker := " "
		if d.ID == def.ID {
			marker = "*"
		}
		fmt.Printf("%s %s\n    %s\n", marker, d.Name, d.ID)
	}
	return exitOK
}

// asyncCue plays confirmation cues fire-and-forget so the dispatch thread is
// never blocked on playback
type asyncCue struct {
	player *feedback.Player
}

func (c asyncCue) PlayCue(p devices.Preset) {
	go c.player.PlayCue(p)
}

func printUsage() {
	fmt.Println("audio-switcher - toggle the Windows default audio output between two devices")
	fmt.Println()
	fmt.Printf("Version: %s\n", version)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  audio-switcher              Start the tray instance (default)")
	fmt.Println("  audio-switcher toggle       Switch to the other preset")
	fmt.Println("  audio-switcher speakers     Switch to preset A")
	fmt.Println("  audio-switcher headphones   Switch to preset B")
	fmt.Println("  audio-switcher devices      List active output devices (* = current default)")
	fmt.Println("  audio-switcher version      Show version information")
	fmt.Println("  audio-switcher help         Show this help message")
	fmt.Println()
	fmt.Println("When an instance is already running, switching commands are forwarded")
	fmt.Println("to it. Exit codes: 0 ok, 1 failure, 2 usage, 3 no response from the")
	fmt.Println("running instance.")
}
