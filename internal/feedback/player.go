// ABOUTME: Switch-confirmation sound playback with device selection support.
// ABOUTME: Uses malgo (miniaudio bindings) for output; beep/go-audio for decoding cue files.

package feedback

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/gen2brain/malgo"
	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/PinW/audio-output-switcher/internal/devices"
	"github.com/PinW/audio-output-switcher/internal/logging"
)

// cueExtensions lists the formats probed for user-provided cue files
var cueExtensions = []string{".mp3", ".wav", ".flac", ".ogg", ".aiff", ".aif"}

// Player plays audio on a specific output device
type Player struct {
	ctx        *malgo.AllocatedContext
	deviceID   unsafe.Pointer
	deviceName string
	volume     float64
	soundDir   string
	mu         sync.Mutex
}

// NewPlayer creates a player bound to the named output device. An empty
// deviceName selects the system default, which right after a switch is the
// freshly activated endpoint, exactly where the confirmation belongs.
// soundDir is probed for user-provided cue files.
func NewPlayer(deviceName string, volume float64, soundDir string) (*Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}

	player := &Player{
		ctx:        ctx,
		deviceName: deviceName,
		volume:     volume,
		soundDir:   soundDir,
	}

	if deviceName != "" {
		playbackDevices, err := ctx.Devices(malgo.Playback)
		if err != nil {
			_ = ctx.Uninit()
			ctx.Free()
			return nil, fmt.Errorf("failed to enumerate devices: %w", err)
		}

		var found bool
		for _, dev := range playbackDevices {
			if dev.Name() == deviceName {
				player.deviceID = dev.ID.Pointer()
				found = true
				logging.Debug("Audio device found: %s", deviceName)
				break
			}
		}

		if !found {
			_ = ctx.Uninit()
			ctx.Free()
			return nil, fmt.Errorf("audio device not found: %s", deviceName)
		}
	}

	return player, nil
}

// PlayCue plays the confirmation sound for a preset: the user's cue file if
// one exists in the sound directory ("switch-a.*" / "switch-b.*"), otherwise
// a short synthesized tone. Errors are logged, never surfaced; a missing cue
// must not fail a successful switch.
func (p *Player) PlayCue(preset devices.Preset) {
	if path := p.cuePath(preset); path != "" {
		if err := p.Play(path); err != nil {
			logging.Warn("Failed to play cue file %s: %v", path, err)
		}
		return
	}

	// No cue file: two presets get two distinguishable pitches
	freq := 880.0
	if preset == devices.PresetB {
		freq = 440.0
	}
	samples, rate := synthTone(freq, 120*time.Millisecond)
	if err := p.playSamples(samples, rate, 1); err != nil {
		logging.Warn("Failed to play synthesized cue: %v", err)
	}
}

func (p *Player) cuePath(preset devices.Preset) string {
	if p.soundDir == "" {
		return ""
	}
	base := "switch-" + strings.ToLower(preset.String())
	for _, ext := range cueExtensions {
		path := filepath.Join(p.soundDir, base+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Play plays an audio file
func (p *Player) Play(soundPath string) error {
	if _, err := os.Stat(soundPath); os.IsNotExist(err) {
		return fmt.Errorf("sound file not found: %s", soundPath)
	}

	samples, sampleRate, channels, err := decodeAudio(soundPath)
	if err != nil {
		return fmt.Errorf("failed to decode audio: %w", err)
	}

	return p.playSamples(samples, sampleRate, channels)
}

// playSamples pushes 16-bit PCM through malgo with a hard playback timeout
func (p *Player) playSamples(samples []int16, sampleRate uint32, channels int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.volume < 1.0 {
		for i := range samples {
			samples[i] = int16(float64(samples[i]) * p.volume)
		}
	}

	audioData := samplesToBytes(samples)

	// Larger buffer prevents crackling on slow devices
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = sampleRate
	deviceConfig.PeriodSizeInFrames = 4096
	deviceConfig.Periods = 4
	deviceConfig.Alsa.NoMMap = 1

	if p.deviceID != nil {
		deviceConfig.Playback.DeviceID = p.deviceID
	}

	var pos int
	var done = make(chan struct{})
	var doneOnce sync.Once

	dataCallback := func(outputSamples, inputSamples []byte, frameCount uint32) {
		bytesToWrite := int(frameCount) * channels * 2
		if pos+bytesToWrite > len(audioData) {
			bytesToWrite = len(audioData) - pos
		}

		if bytesToWrite > 0 {
			copy(outputSamples, audioData[pos:pos+bytesToWrite])
			pos += bytesToWrite
		}

		for i := bytesToWrite; i < len(outputSamples); i++ {
			outputSamples[i] = 0
		}

		if pos >= len(audioData) {
			doneOnce.Do(func() {
				close(done)
			})
		}
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: dataCallback,
	})
	if err != nil {
		return fmt.Errorf("failed to init audio device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}

	select {
	case <-done:
		// Let the buffer drain before stopping
		time.Sleep(200 * time.Millisecond)
		logging.Debug("Audio playback completed")
	case <-time.After(10 * time.Second):
		logging.Warn("Audio playback timeout")
	}

	_ = device.Stop()
	return nil
}

// Close releases resources
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		_ = p.ctx.Uninit()
		p.ctx.Free()
		p.ctx = nil
	}
	return nil
}

// synthTone generates a mono sine burst with a short fade at both ends to
// avoid clicks
func synthTone(freq float64, duration time.Duration) ([]int16, uint32) {
	const rate = 48000
	n := int(float64(rate) * duration.Seconds())
	fade := rate / 200 // 5ms
	if fade*2 > n {
		fade = n / 2
	}

	samples := make([]int16, n)
	for i := range samples {
		v := math.Sin(2 * math.Pi * freq * float64(i) / rate)
		gain := 0.4
		if i < fade {
			gain *= float64(i) / float64(fade)
		} else if n-i <= fade {
			gain *= float64(n-i) / float64(fade)
		}
		samples[i] = int16(v * gain * 32767)
	}
	return samples, rate
}

// decodeAudio decodes an audio file and returns samples, sample rate, and channel count
func decodeAudio(soundPath string) ([]int16, uint32, int, error) {
	f, err := os.Open(soundPath)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(soundPath))

	switch ext {
	case ".mp3":
		return decodeMP3(f)
	case ".wav":
		return decodeWAV(f)
	case ".flac":
		return decodeFLAC(f)
	case ".ogg":
		return decodeOGG(f)
	case ".aiff", ".aif":
		return decodeAIFF(f)
	default:
		return nil, 0, 0, fmt.Errorf("unsupported audio format: %s", ext)
	}
}

func decodeMP3(f *os.File) ([]int16, uint32, int, error) {
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}
	defer streamer.Close()

	return streamToSamples(streamer, int(format.SampleRate), format.NumChannels)
}

func decodeWAV(f *os.File) ([]int16, uint32, int, error) {
	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}
	defer streamer.Close()

	return streamToSamples(streamer, int(format.SampleRate), format.NumChannels)
}

func decodeFLAC(f *os.File) ([]int16, uint32, int, error) {
	streamer, format, err := flac.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}
	defer streamer.Close()

	return streamToSamples(streamer, int(format.SampleRate), format.NumChannels)
}

func decodeOGG(f *os.File) ([]int16, uint32, int, error) {
	streamer, format, err := vorbis.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}
	defer streamer.Close()

	return streamToSamples(streamer, int(format.SampleRate), format.NumChannels)
}

func decodeAIFF(f io.ReadSeeker) ([]int16, uint32, int, error) {
	decoder := aiff.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("invalid AIFF file")
	}

	decoder.ReadInfo()

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read AIFF data: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	samples := intBufferToSamples(buf, bitDepth)
	return samples, uint32(decoder.SampleRate), int(decoder.NumChans), nil
}

// streamToSamples converts a beep streamer to int16 samples
func streamToSamples(streamer interface {
	Stream([][2]float64) (int, bool)
}, sampleRate int, numChannels int) ([]int16, uint32, int, error) {
	var allSamples []int16
	buffer := make([][2]float64, 512)

	for {
		n, ok := streamer.Stream(buffer)
		if n == 0 {
			break
		}

		for i := 0; i < n; i++ {
			sample := int16(buffer[i][0] * 32767)
			allSamples = append(allSamples, sample)

			if numChannels >= 2 {
				sample = int16(buffer[i][1] * 32767)
				allSamples = append(allSamples, sample)
			}
		}

		if !ok {
			break
		}
	}

	return allSamples, uint32(sampleRate), numChannels, nil
}

// intBufferToSamples converts go-audio IntBuffer to int16 samples
// bitDepth specifies the source bit depth (8, 16, 24, 32) for proper scaling
func intBufferToSamples(buf *audio.IntBuffer, bitDepth int) []int16 {
	samples := make([]int16, len(buf.Data))

	switch bitDepth {
	case 8:
		for i, v := range buf.Data {
			samples[i] = int16(v << 8)
		}
	case 24:
		for i, v := range buf.Data {
			samples[i] = int16(v >> 8)
		}
	case 32:
		for i, v := range buf.Data {
			samples[i] = int16(v >> 16)
		}
	default:
		// 16-bit and anything unexpected pass through
		for i, v := range buf.Data {
			samples[i] = int16(v)
		}
	}

	return samples
}

// samplesToBytes converts int16 samples to bytes (little-endian)
func samplesToBytes(samples []int16) []byte {
	bytes := make([]byte, len(samples)*2)
	for i, s := range samples {
		bytes[i*2] = byte(s)
		bytes[i*2+1] = byte(s >> 8)
	}
	return bytes
}
