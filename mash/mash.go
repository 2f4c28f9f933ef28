package mash

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SectionSpan selects an inclusive run of sections on one track.
type SectionSpan struct {
	From int
	To   int
}

// Options configures a mashup render. The shift and tempo fields
// override the matching heuristics when set; leave them nil to
// auto-match.
type Options struct {
	VocalSpan   SectionSpan
	AccompSpan  SectionSpan
	VocalShift  *int
	AccompShift *int
	VocalTempo  *float64
	AccompTempo *float64
}

// CreateMashStem cuts the chosen sections out of one stem, retunes the
// slice by shift semitones and tempoRatio, and applies the stem EQ.
// Returns the rendered file path.
func (t *Track) CreateMashStem(ctx context.Context, r *Renderer, stemType string, span SectionSpan, shift int, tempoRatio float64) (string, error) {
	stemPath, err := t.StemPath(stemType)
	if err != nil {
		return "", err
	}
	start, end, err := t.SectionRange(span.From, span.To)
	if err != nil {
		return "", err
	}

	cut := r.workPath(t.ID, stemType, "cut")
	shifted := r.workPath(t.ID, stemType, "shift")
	out := r.workPath(t.ID, stemType, "mash")

	if err := r.CutStem(ctx, stemPath, start, end, cut); err != nil {
		return "", fmt.Errorf("cutting %s of %s: %w", stemType, t.ID, err)
	}
	if err := r.ShiftStem(ctx, cut, tempoRatio, shift, shifted); err != nil {
		return "", fmt.Errorf("shifting %s of %s: %w", stemType, t.ID, err)
	}
	if err := r.EQStem(ctx, shifted, stemType, out); err != nil {
		return "", fmt.Errorf("eq %s of %s: %w", stemType, t.ID, err)
	}

	t.log.Info("rendered mash stem",
		zap.String("stem", stemType),
		zap.Float64("start", start),
		zap.Float64("end", end),
		zap.Int("pitch", shift),
		zap.Float64("tempo_ratio", tempoRatio))
	return out, nil
}

// matchTempo doubles/halves t's BPM toward the target, updates the
// track so the second pass sees the matched figure, and returns the
// stretch ratio that lands the stem on the mash tempo (the mean of the
// two matched BPMs).
func matchTempo(t, target *Track) float64 {
	t.BPM = ClosestBPM(t.BPM, target.BPM)
	mashBPM := (t.BPM + target.BPM) / 2
	return mashBPM / t.BPM
}

// Mash renders voc's vocal stem against acc's key and tempo, acc's
// accompaniment stem against voc's, then overlays and masters the two
// into output. Both stems render concurrently.
func Mash(ctx context.Context, r *Renderer, output string, voc, acc *Track, opts Options) (string, error) {
	vocShift := ClosestKeyShift(voc.Key, voc.Mode, acc.Key, acc.Mode)
	if opts.VocalShift != nil {
		vocShift = *opts.VocalShift
	}
	accShift := ClosestKeyShift(acc.Key, acc.Mode, ShiftedKey(voc.Key, vocShift), voc.Mode)
	if opts.AccompShift != nil {
		accShift = *opts.AccompShift
	}

	vocTempo := matchTempo(voc, acc)
	if opts.VocalTempo != nil {
		vocTempo = *opts.VocalTempo
	}
	accTempo := matchTempo(acc, voc)
	if opts.AccompTempo != nil {
		accTempo = *opts.AccompTempo
	}

	g, gctx := errgroup.WithContext(ctx)
	var vocStem, accStem string
	g.Go(func() error {
		path, err := voc.CreateMashStem(gctx, r, StemVocals, opts.VocalSpan, vocShift, vocTempo)
		vocStem = path
		return err
	})
	g.Go(func() error {
		path, err := acc.CreateMashStem(gctx, r, StemAccompaniment, opts.AccompSpan, accShift, accTempo)
		accStem = path
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	if output == "" {
		output = filepath.Join(r.WorkDir, fmt.Sprintf("%s_x_%s.wav", voc.ID, acc.ID))
	}
	if err := r.Overlay(ctx, vocStem, accStem, output); err != nil {
		return "", fmt.Errorf("overlaying mash: %w", err)
	}
	return output, nil
}
