// ABOUTME: CLI tool for previewing switch-confirmation sounds with optional device selection.
// ABOUTME: Supports MP3, WAV, FLAC, OGG/Vorbis, AIFF formats via the feedback player.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PinW/audio-output-switcher/internal/feedback"
)

func main() {
	volumeFlag := flag.Float64("volume", 1.0, "Volume level (0.0 to 1.0)")
	deviceFlag := flag.String("device", "", "Audio output device name (empty = system default)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sound-preview [options] <path-to-audio-file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported formats: MP3, WAV, FLAC, OGG/Vorbis, AIFF\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  sound-preview sounds/switch-a.wav\n")
		fmt.Fprintf(os.Stderr, "  sound-preview --volume 0.3 sounds/switch-b.mp3\n")
		fmt.Fprintf(os.Stderr, "  sound-preview --device \"Speakers (Realtek)\" sounds/switch-a.wav\n")
	}
	flag.Parse()

	if *volumeFlag < 0.0 || *volumeFlag > 1.0 {
		fmt.Fprintf(os.Stderr, "Error: Volume must be between 0.0 and 1.0 (got %.2f)\n", *volumeFlag)
		os.Exit(1)
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	soundPath := flag.Arg(0)

	if _, err := os.Stat(soundPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: Sound file not found: %s\n", soundPath)
		os.Exit(1)
	}

	fmt.Println(playLine(soundPath, *volumeFlag, *deviceFlag))

	player, err := feedback.NewPlayer(*deviceFlag, *volumeFlag, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating audio player: %v\n", err)
		os.Exit(1)
	}
	defer player.Close()

	if err := player.Play(soundPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error playing sound: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Playback completed")
}

// playLine describes what is about to play
func playLine(soundPath string, volume float64, device string) string {
	volumePercent := int(volume * 100)
	switch {
	case device != "":
		return fmt.Sprintf("Playing: %s (volume: %d%%, device: %s)", filepath.Base(soundPath), volumePercent, device)
	case volume < 1.0:
		return fmt.Sprintf("Playing: %s (volume: %d%%)", filepath.Base(soundPath), volumePercent)
	default:
		return fmt.Sprintf("Playing: %s", filepath.Base(soundPath))
	}
}
