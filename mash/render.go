package mash

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"mashsong/logger"
)

// Renderer shells out to ffmpeg and rubberband to cut, retune, and EQ
// stems. All intermediates land in WorkDir.
type Renderer struct {
	FFmpeg     string
	Rubberband string
	WorkDir    string
	SampleRate int

	log *zap.Logger
}

// NewRenderer returns a renderer using the given tool binaries.
func NewRenderer(ffmpeg, rubberband, workDir string, sampleRate int) *Renderer {
	return &Renderer{
		FFmpeg:     ffmpeg,
		Rubberband: rubberband,
		WorkDir:    workDir,
		SampleRate: sampleRate,
		log:        logger.Named("render"),
	}
}

func (r *Renderer) run(ctx context.Context, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", bin, err, lastLine(out))
	}
	return nil
}

func lastLine(out []byte) string {
	s := string(out)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '\n' && i < len(s)-1 {
			return s[i+1:]
		}
	}
	return s
}

// CutStem copies [start, end) of a wav into output without re-encoding.
func (r *Renderer) CutStem(ctx context.Context, input string, start, end float64, output string) error {
	if end <= start {
		return fmt.Errorf("cut range %.3f..%.3f is empty", start, end)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return err
	}
	return r.run(ctx, r.FFmpeg,
		"-y",
		"-ss", fmt.Sprintf("%.6f", start),
		"-i", input,
		"-t", fmt.Sprintf("%.6f", end-start),
		"-c", "copy",
		output)
}

// ShiftStem time-stretches and pitch-shifts a wav with rubberband.
// tempoRatio above 1 speeds the stem up; pitch is in semitones.
func (r *Renderer) ShiftStem(ctx context.Context, input string, tempoRatio float64, pitch int, output string) error {
	if tempoRatio <= 0 {
		return fmt.Errorf("tempo ratio must be positive, got %.4f", tempoRatio)
	}
	args := []string{"--fine", "--formant"}
	if tempoRatio != 1.0 {
		args = append(args, "--tempo", fmt.Sprintf("%.6f", tempoRatio))
	}
	if pitch != 0 {
		args = append(args, "--pitch", fmt.Sprintf("%d", pitch))
	}
	args = append(args, input, output)

	r.log.Info("rubberband",
		zap.Float64("tempo_ratio", tempoRatio),
		zap.Int("pitch", pitch),
		zap.String("input", filepath.Base(input)))
	return r.run(ctx, r.Rubberband, args...)
}

// eqChain returns the ffmpeg filter chain for a stem type. The vocal
// chain carves space below 200 Hz and above 8 kHz and lifts presence
// at 1 kHz; the accompaniment chain boosts lows and highs while
// dipping the midrange the vocal occupies.
func eqChain(stemType string) string {
	if stemType == StemVocals {
		return "highpass=f=200," +
			"equalizer=f=1000:t=q:w=0.8:g=6," +
			"lowpass=f=8000"
	}
	return "equalizer=f=75:t=q:w=0.75:g=6," +
		"equalizer=f=6000:t=q:w=0.75:g=6," +
		"equalizer=f=1000:t=q:w=0.5:g=-6"
}

// EQStem applies the stem-type EQ chain and resamples to the working
// sample rate.
func (r *Renderer) EQStem(ctx context.Context, input, stemType, output string) error {
	return r.run(ctx, r.FFmpeg,
		"-y",
		"-i", input,
		"-af", eqChain(stemType),
		"-ar", fmt.Sprintf("%d", r.SampleRate),
		output)
}

// masterChain compresses the mix and adds a touch of room.
const masterChain = "acompressor=threshold=-20dB:ratio=2:attack=30:release=20," +
	"aecho=0.7:0.25:60:0.3"

// Overlay mixes two stems to the longest input's duration and masters
// the result.
func (r *Renderer) Overlay(ctx context.Context, input1, input2, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return err
	}
	filter := "[0:a][1:a]amix=inputs=2:duration=longest:dropout_transition=0," + masterChain + "[out]"
	return r.run(ctx, r.FFmpeg,
		"-y",
		"-i", input1,
		"-i", input2,
		"-filter_complex", filter,
		"-map", "[out]",
		"-ar", fmt.Sprintf("%d", r.SampleRate),
		output)
}

// workPath names an intermediate file in the renderer's work dir.
func (r *Renderer) workPath(trackID, stemType, stage string) string {
	return filepath.Join(r.WorkDir, fmt.Sprintf("%s_%s_%s.wav", trackID, stemType, stage))
}
