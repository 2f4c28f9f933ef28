package mash

import (
	"context"
	"fmt"
	"path/filepath"
)

// ExportFromTimes slices [start, end) of a stem into exportDir.
func (t *Track) ExportFromTimes(ctx context.Context, r *Renderer, stemType string, start, end float64, exportDir string) (string, error) {
	stemPath, err := t.StemPath(stemType)
	if err != nil {
		return "", err
	}
	out := filepath.Join(exportDir, fmt.Sprintf("%s_%s_%.1f-%.1f.wav", t.ID, stemType, start, end))
	if err := r.CutStem(ctx, stemPath, start, end, out); err != nil {
		return "", fmt.Errorf("exporting %s of %s: %w", stemType, t.ID, err)
	}
	return out, nil
}

// ExportFromMeasures slices measures [from, to) of a stem into exportDir.
func (t *Track) ExportFromMeasures(ctx context.Context, r *Renderer, stemType string, from, to int, exportDir string) (string, error) {
	start, end, err := t.MeasureRange(from, to)
	if err != nil {
		return "", err
	}
	return t.ExportFromTimes(ctx, r, stemType, start, end, exportDir)
}

// ExportFromSections slices sections [from, to] of a stem into exportDir.
func (t *Track) ExportFromSections(ctx context.Context, r *Renderer, stemType string, from, to int, exportDir string) (string, error) {
	start, end, err := t.SectionRange(from, to)
	if err != nil {
		return "", err
	}
	return t.ExportFromTimes(ctx, r, stemType, start, end, exportDir)
}
