package stems

import (
	"os"
	"path/filepath"
	"testing"

	"mashsong/mash"
)

func TestPath(t *testing.T) {
	got := Path("/data", "SongArtist", mash.StemVocals)
	want := filepath.Join("/data", "stems", "SongArtist_Vocals.wav")
	if got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestDiscover(t *testing.T) {
	dataDir := t.TempDir()
	stemsDir := filepath.Join(dataDir, "stems")
	if err := os.MkdirAll(stemsDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(dataDir, "tr1", mash.StemVocals), []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	found := Discover(dataDir, "tr1")
	if _, ok := found[mash.StemVocals]; !ok {
		t.Error("vocals stem not discovered")
	}
	if _, ok := found[mash.StemAccompaniment]; ok {
		t.Error("accompaniment stem discovered but never written")
	}

	if len(Discover(dataDir, "missing")) != 0 {
		t.Error("stems discovered for a track with none")
	}
}
