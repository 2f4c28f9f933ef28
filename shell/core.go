package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"mashsong/logger"
	"mashsong/mash"
)

// New builds a shell session around two analyzed tracks. Roles default
// to track 1 donating vocals; when track 1 has no vocal stem but
// track 2 does, the roles start swapped.
func New(track1, track2 *mash.Track, deps Deps) *Shell {
	s := &Shell{
		Deps:    deps,
		Track1:  track1,
		Track2:  track2,
		Role1:   mash.StemVocals,
		Role2:   mash.StemAccompaniment,
		Volume1: 100,
		Volume2: 100,
		log:     logger.Named("shell"),
	}

	_, has1 := track1.Stems[mash.StemVocals]
	_, has2 := track2.Stems[mash.StemVocals]
	if !has1 && has2 {
		s.swapRoles()
	}

	s.resetSpans()
	return s
}

func (s *Shell) swapRoles() {
	s.Role1, s.Role2 = s.Role2, s.Role1
}

// resetSpans picks each track's longest section as the starting range.
func (s *Shell) resetSpans() {
	if sec, err := s.Track1.LongestSection(0); err == nil {
		s.Span1 = mash.SectionSpan{From: sec.Index, To: sec.Index}
	}
	if sec, err := s.Track2.LongestSection(0); err == nil {
		s.Span2 = mash.SectionSpan{From: sec.Index, To: sec.Index}
	}
}

// Run starts the readline loop and blocks until exit.
func (s *Shell) Run() error {
	historyFile := filepath.Join(os.TempDir(), ".mashsong_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mash> ",
		HistoryFile:     historyFile,
		AutoComplete:    buildCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	s.ShowStatus()
	fmt.Println("Type 'help' for commands.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if done := s.HandleCommand(line); done {
			break
		}
	}
	return nil
}

// ShowStatus prints the two tracks and the current mash parameters.
func (s *Shell) ShowStatus() {
	fmt.Println()
	s.printTrack(1, s.Track1, s.Role1, s.Span1, s.Pitch1, s.Tempo1, s.Volume1)
	s.printTrack(2, s.Track2, s.Role2, s.Span2, s.Pitch2, s.Tempo2, s.Volume2)

	shift1, ratio1, shift2, ratio2 := s.matchPlan()
	fmt.Printf("\nAuto match: track 1 %+d st x%.3f, track 2 %+d st x%.3f\n",
		shift1, ratio1, shift2, ratio2)
	fmt.Println()
}

func (s *Shell) printTrack(num int, t *mash.Track, role string, span mash.SectionSpan, pitch int, tempo, volume float64) {
	fmt.Printf("[%d] %s - %s\n", num, t.Artist, t.Title)
	fmt.Printf("    %s | %.1f BPM | %.0fs | %d sections | role: %s\n",
		t.KeyName(), t.BPM, t.Duration, len(t.Sections), role)
	fmt.Printf("    range: sections %d..%d", span.From, span.To)
	if pitch != 0 {
		fmt.Printf(" | pitch %+d", pitch)
	}
	if tempo != 0 {
		fmt.Printf(" | tempo %+.0f%%", tempo)
	}
	if volume != 100 {
		fmt.Printf(" | volume %.0f%%", volume)
	}
	fmt.Println()
}
