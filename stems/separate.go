package stems

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"mashsong/logger"
	"mashsong/mash"
)

// Separator wraps the external source-separation tool. The binary name
// decides the invocation: "demucs" runs a two-stem split, anything else
// is treated as audio-separator with the UVR MDX-Net model. Either way
// the outputs are normalized to
// DataDir/stems/<id>_Vocals.wav and <id>_Accompaniment.wav.
type Separator struct {
	Bin     string
	DataDir string

	log *zap.Logger
}

// NewSeparator returns a separator using the given binary.
func NewSeparator(bin, dataDir string) *Separator {
	return &Separator{Bin: bin, DataDir: dataDir, log: logger.Named("stems")}
}

// Path returns the canonical location of one stem of a track.
func Path(dataDir, trackID, stemType string) string {
	return filepath.Join(dataDir, "stems", fmt.Sprintf("%s_%s.wav", trackID, stemType))
}

// Has reports whether a stem file exists for a track.
func Has(dataDir, trackID, stemType string) bool {
	_, err := os.Stat(Path(dataDir, trackID, stemType))
	return err == nil
}

// Discover returns the stem map for a track, containing only the stem
// types whose files exist.
func Discover(dataDir, trackID string) map[string]string {
	found := make(map[string]string)
	for _, stemType := range []string{mash.StemVocals, mash.StemAccompaniment} {
		if Has(dataDir, trackID, stemType) {
			found[stemType] = Path(dataDir, trackID, stemType)
		}
	}
	return found
}

// Separate splits DataDir/src/<id>.wav into vocal and accompaniment
// stems. Tracks with both stems already on disk are skipped.
func (s *Separator) Separate(ctx context.Context, trackID string) error {
	input := filepath.Join(s.DataDir, "src", trackID+".wav")
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("source wav for %s: %w", trackID, err)
	}

	if Has(s.DataDir, trackID, mash.StemVocals) && Has(s.DataDir, trackID, mash.StemAccompaniment) {
		s.log.Info("stems exist, skipping", zap.String("id", trackID))
		return nil
	}

	if err := os.MkdirAll(filepath.Join(s.DataDir, "stems"), 0755); err != nil {
		return err
	}

	if strings.Contains(filepath.Base(s.Bin), "demucs") {
		return s.runDemucs(ctx, input, trackID)
	}
	return s.runAudioSeparator(ctx, input, trackID)
}

func (s *Separator) runDemucs(ctx context.Context, input, trackID string) error {
	outDir := filepath.Join(s.DataDir, "demucs")

	cmd := exec.CommandContext(ctx, s.Bin,
		"--two-stems", "vocals",
		"-n", "htdemucs",
		"-o", outDir,
		input)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	s.log.Info("running demucs", zap.String("id", trackID))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("demucs: %w", err)
	}

	// demucs writes <outDir>/<model>/<input basename>/{vocals,no_vocals}.wav
	stemDir := filepath.Join(outDir, "htdemucs", trackID)
	moves := map[string]string{
		filepath.Join(stemDir, "vocals.wav"):    Path(s.DataDir, trackID, mash.StemVocals),
		filepath.Join(stemDir, "no_vocals.wav"): Path(s.DataDir, trackID, mash.StemAccompaniment),
	}
	for src, dst := range moves {
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("collecting demucs output: %w", err)
		}
	}
	_ = os.RemoveAll(stemDir)
	return nil
}

func (s *Separator) runAudioSeparator(ctx context.Context, input, trackID string) error {
	stemsDir := filepath.Join(s.DataDir, "stems")

	cmd := exec.CommandContext(ctx, s.Bin,
		input,
		"--output_dir", stemsDir,
		"--output_format", "wav",
		"--model_filename", "UVR_MDXNET_Main.onnx")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	s.log.Info("running audio-separator", zap.String("id", trackID))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("audio-separator: %w", err)
	}

	moves := map[string]string{
		filepath.Join(stemsDir, fmt.Sprintf("%s_(Vocals)_UVR_MDXNET_Main.wav", trackID)):       Path(s.DataDir, trackID, mash.StemVocals),
		filepath.Join(stemsDir, fmt.Sprintf("%s_(Instrumental)_UVR_MDXNET_Main.wav", trackID)): Path(s.DataDir, trackID, mash.StemAccompaniment),
	}
	for src, dst := range moves {
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("collecting separator output: %w", err)
		}
	}
	return nil
}
