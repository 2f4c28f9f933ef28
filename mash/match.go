package mash

import "math"

// Pitch-class modes as reported by the analysis API.
const (
	ModeMinor = 0
	ModeMajor = 1
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// KeyName formats a pitch class (0-11) and mode as a readable key name.
func KeyName(key, mode int) string {
	if key < 0 || key > 11 {
		return "unknown"
	}
	if mode == ModeMajor {
		return noteNames[key] + " major"
	}
	return noteNames[key] + " minor"
}

// ClosestBPM doubles or halves bpm when that lands closer to target.
// 80 against a target of 150 comes back as 160; 140 stays 140.
func ClosestBPM(bpm, target float64) float64 {
	diff := math.Abs(target - bpm)
	if bpm < target {
		if math.Abs(target-bpm*2) < diff {
			return bpm * 2
		}
	} else if math.Abs(target-bpm/2) < diff {
		return bpm / 2
	}
	return bpm
}

// wrapSemitones folds a pitch-class difference into [-6, 6].
func wrapSemitones(d int) int {
	d = ((d % 12) + 12) % 12
	if d > 6 {
		d -= 12
	}
	return d
}

// relativeRoot returns the tonic of the relative key: the relative
// minor of a major key sits 9 semitones up, the relative major of a
// minor key 3 semitones up.
func relativeRoot(key, mode int) int {
	if mode == ModeMajor {
		return (key + 9) % 12
	}
	return (key + 3) % 12
}

// ClosestKeyShift returns the minimal semitone shift in [-6, 6] that
// moves (key1, mode1) into agreement with (key2, mode2). With equal
// modes the only aligning shift lands on the target tonic. With
// opposite modes two shifts align: onto the target's relative key
// (same signature) or onto its parallel key (same tonic); the smaller
// magnitude wins. A key of -1 means the analysis found no key, so no
// shift is applied.
func ClosestKeyShift(key1, mode1, key2, mode2 int) int {
	if key1 < 0 || key2 < 0 {
		return 0
	}
	if mode1 == mode2 {
		return wrapSemitones(key2 - key1)
	}
	relative := wrapSemitones(relativeRoot(key2, mode2) - key1)
	parallel := wrapSemitones(key2 - key1)
	if absInt(parallel) < absInt(relative) {
		return parallel
	}
	return relative
}

// ShiftedKey returns the pitch class reached after shifting key by n
// semitones.
func ShiftedKey(key, shift int) int {
	if key < 0 {
		return key
	}
	return ((key+shift)%12 + 12) % 12
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
