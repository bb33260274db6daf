// Package media is the FFmpeg-backed backend for the timeline pipeline:
// probing, PCM decoding, composite mixing, and the capability flags the
// renderer consults when choosing filter graphs.
package media

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"slidecast/config"
	"slidecast/timeline"
)

// waveformSampleRate is the mono decode rate for visual waveforms. 4 kHz
// keeps the buffer small at display resolution.
const waveformSampleRate = 4000

// Capabilities records which optional ffmpeg filters are available.
// Detected once at engine construction; callers never probe per call.
type Capabilities struct {
	Crop      bool
	DrawText  bool
	Subtitles bool
	Fade      bool
}

// Engine implements timeline.Backend on top of FFmpeg.
type Engine struct {
	sampleRate int
	channels   int
	caps       Capabilities
}

// NewEngine verifies ffmpeg is installed and detects filter support.
func NewEngine() (*Engine, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	e := &Engine{
		sampleRate: config.SampleRate,
		channels:   config.Channels,
		caps:       detectCapabilities(),
	}
	log.Printf("🎛️ Media engine ready (crop=%v drawtext=%v subtitles=%v fade=%v)",
		e.caps.Crop, e.caps.DrawText, e.caps.Subtitles, e.caps.Fade)
	return e, nil
}

// Capabilities returns the filter support detected at construction.
func (e *Engine) Capabilities() Capabilities { return e.caps }

// SupportsCrop reports whether the crop filter is available.
func (e *Engine) SupportsCrop() bool { return e.caps.Crop }

// SupportsDrawText reports whether the drawtext filter is available.
func (e *Engine) SupportsDrawText() bool { return e.caps.DrawText }

// SupportsSubtitles reports whether the subtitles filter is available.
func (e *Engine) SupportsSubtitles() bool { return e.caps.Subtitles }

func detectCapabilities() Capabilities {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-filters").Output()
	if err != nil {
		log.Printf("⚠️ Could not list ffmpeg filters, assuming minimal support: %v", err)
		return Capabilities{}
	}
	return capabilitiesFromFilters(string(out))
}

// capabilitiesFromFilters parses `ffmpeg -filters` output. Each filter
// line is "FLAGS name inputs->outputs description".
func capabilitiesFromFilters(listing string) Capabilities {
	available := make(map[string]bool)
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && strings.Contains(fields[2], "->") {
			available[fields[1]] = true
		}
	}
	return Capabilities{
		Crop:      available["crop"],
		DrawText:  available["drawtext"],
		Subtitles: available["subtitles"],
		Fade:      available["fade"],
	}
}

// Probe reports whether ffmpeg can decode the resource and how long it
// runs. An unreadable or durationless resource probes as not decodable
// rather than as an error; errors are reserved for the probe transport
// itself.
func (e *Engine) Probe(path string) (timeline.ProbeInfo, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return timeline.ProbeInfo{}, nil
	}
	duration, err := durationFromProbe(raw)
	if err != nil {
		return timeline.ProbeInfo{}, nil
	}
	return timeline.ProbeInfo{Duration: duration, Decodable: true}, nil
}

// durationFromProbe extracts format.duration from ffprobe JSON output.
func durationFromProbe(raw string) (float64, error) {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return 0, fmt.Errorf("parse probe output: %w", err)
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("probe output has no duration")
	}
	return strconv.ParseFloat(probe.Format.Duration, 64)
}

// Decode runs ffmpeg to decode an audio file to raw interleaved PCM
// int16 samples at the pipeline sample rate.
func (e *Engine) Decode(path string) (timeline.Clip, error) {
	out, err := exec.Command("ffmpeg",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(e.sampleRate),
		"-ac", strconv.Itoa(e.channels),
		"-loglevel", "error",
		"pipe:1",
	).Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}
	return NewBuffer(samplesFromBytes(out), e.sampleRate, e.channels), nil
}

// DecodeWaveformSamples decodes mono low-rate samples sufficient for a
// visual waveform summary.
func (e *Engine) DecodeWaveformSamples(path string) ([]int16, error) {
	out, err := exec.Command("ffmpeg",
		"-i", path,
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(waveformSampleRate),
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	).Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg waveform decode %s: %w", path, err)
	}
	return samplesFromBytes(out), nil
}

// Compose sums the positioned clips into one buffer (see composeBuffers).
// Input clips remain owned by the caller.
func (e *Engine) Compose(clips []timeline.Clip) (timeline.Clip, error) {
	return composeBuffers(clips, e.sampleRate, e.channels)
}

// WritePCM streams a composite clip's raw s16le samples to w, ready to be
// fed to the encoder as a rawaudio input.
func (e *Engine) WritePCM(c timeline.Clip, w io.Writer) error {
	b, ok := c.(*Buffer)
	if !ok {
		return fmt.Errorf("write pcm: unsupported clip type %T", c)
	}
	buf := make([]byte, len(b.samples)*2)
	for i, s := range b.samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	_, err := w.Write(buf)
	return err
}

// SampleRate reports the pipeline PCM sample rate.
func (e *Engine) SampleRate() int { return e.sampleRate }

// Channels reports the pipeline PCM channel count.
func (e *Engine) Channels() int { return e.channels }

// samplesFromBytes converts little-endian s16le bytes to int16 samples,
// ignoring a trailing odd byte.
func samplesFromBytes(out []byte) []int16 {
	if len(out)%2 != 0 {
		out = out[:len(out)-1]
	}
	samples := make([]int16, len(out)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(out[i*2 : i*2+2]))
	}
	return samples
}
