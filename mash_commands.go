package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mashsong/config"
	"mashsong/mash"
	"mashsong/shell"
	"mashsong/util"
	"mashsong/web"
)

func newRenderer(cfg *config.Config) *mash.Renderer {
	return mash.NewRenderer(cfg.FFmpegBin, cfg.RubberbandBin,
		filepath.Join(cfg.DataDir, "mash"), cfg.SampleRate)
}

// parseSpanArg parses "from:to" (or a single index) into a span.
func parseSpanArg(arg string) (mash.SectionSpan, error) {
	parts := strings.SplitN(arg, ":", 2)
	from, err := strconv.Atoi(parts[0])
	if err != nil {
		return mash.SectionSpan{}, fmt.Errorf("bad index %q", parts[0])
	}
	to := from
	if len(parts) == 2 {
		if to, err = strconv.Atoi(parts[1]); err != nil {
			return mash.SectionSpan{}, fmt.Errorf("bad index %q", parts[1])
		}
	}
	if from > to {
		return mash.SectionSpan{}, fmt.Errorf("range %s is backwards", arg)
	}
	return mash.SectionSpan{From: from, To: to}, nil
}

// handleMashCommand renders a mashup of two library tracks: the first
// donates vocals, the second accompaniment.
func handleMashCommand(cfg *config.Config, db *util.Database, args []string) {
	fs := flag.NewFlagSet("mash", flag.ExitOnError)
	vocSpanArg := fs.String("voc", "", "vocal section range, e.g. 2:4 (default: longest section)")
	accSpanArg := fs.String("acc", "", "accompaniment section range (default: longest section)")
	output := fs.String("out", "", "output file (default: data/mash/<id1>_x_<id2>.wav)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Println("Usage: mashsong mash <vocal-id> <accomp-id> [-voc from:to] [-acc from:to] [-out file]")
		os.Exit(1)
	}

	voc := loadTrackOrExit(cfg, db, fs.Arg(0))
	acc := loadTrackOrExit(cfg, db, fs.Arg(1))

	var opts mash.Options
	var err error
	if *vocSpanArg != "" {
		if opts.VocalSpan, err = parseSpanArg(*vocSpanArg); err != nil {
			fmt.Printf("Bad -voc range: %v\n", err)
			os.Exit(1)
		}
	} else if sec, serr := voc.LongestSection(0); serr == nil {
		opts.VocalSpan = mash.SectionSpan{From: sec.Index, To: sec.Index}
	}
	if *accSpanArg != "" {
		if opts.AccompSpan, err = parseSpanArg(*accSpanArg); err != nil {
			fmt.Printf("Bad -acc range: %v\n", err)
			os.Exit(1)
		}
	} else if sec, serr := acc.LongestSection(0); serr == nil {
		opts.AccompSpan = mash.SectionSpan{From: sec.Index, To: sec.Index}
	}

	fmt.Printf("Mashing %s vocals over %s...\n", voc.Title, acc.Title)
	path, err := mash.Mash(context.Background(), newRenderer(cfg), *output, voc, acc, opts)
	if err != nil {
		fmt.Printf("Mash error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

// handleExportCommand slices a stem by sections, measures, or times.
func handleExportCommand(cfg *config.Config, db *util.Database, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	stemType := fs.String("stem", mash.StemVocals, "stem to export (Vocals or Accompaniment)")
	sectionsArg := fs.String("sections", "", "section range, e.g. 2:4")
	measuresArg := fs.String("measures", "", "measure range, e.g. 8:16")
	timesArg := fs.String("times", "", "time range in seconds, e.g. 30.5:60")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: mashsong export <id> [-stem type] [-sections a:b | -measures a:b | -times a:b]")
		os.Exit(1)
	}
	track := loadTrackOrExit(cfg, db, fs.Arg(0))
	renderer := newRenderer(cfg)
	exportDir := filepath.Join(cfg.DataDir, "export")
	ctx := context.Background()

	var (
		out string
		err error
	)
	switch {
	case *timesArg != "":
		var start, end float64
		if _, scanErr := fmt.Sscanf(*timesArg, "%f:%f", &start, &end); scanErr != nil {
			fmt.Printf("Bad -times range %q\n", *timesArg)
			os.Exit(1)
		}
		out, err = track.ExportFromTimes(ctx, renderer, *stemType, start, end, exportDir)
	case *measuresArg != "":
		span, parseErr := parseSpanArg(*measuresArg)
		if parseErr != nil {
			fmt.Printf("Bad -measures range: %v\n", parseErr)
			os.Exit(1)
		}
		out, err = track.ExportFromMeasures(ctx, renderer, *stemType, span.From, span.To, exportDir)
	case *sectionsArg != "":
		span, parseErr := parseSpanArg(*sectionsArg)
		if parseErr != nil {
			fmt.Printf("Bad -sections range: %v\n", parseErr)
			os.Exit(1)
		}
		out, err = track.ExportFromSections(ctx, renderer, *stemType, span.From, span.To, exportDir)
	default:
		fmt.Println("One of -sections, -measures, or -times is required")
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Export error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", out)
}

// handleShellCommand starts the interactive mash shell on two tracks.
func handleShellCommand(cfg *config.Config, db *util.Database, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: mashsong shell <id1> <id2>")
		os.Exit(1)
	}
	track1 := loadTrackOrExit(cfg, db, args[0])
	track2 := loadTrackOrExit(cfg, db, args[1])

	sh := shell.New(track1, track2, shell.Deps{
		Renderer:   newRenderer(cfg),
		DataDir:    cfg.DataDir,
		FFplay:     cfg.FFplayBin,
		SampleRate: cfg.SampleRate,
	})
	if err := sh.Run(); err != nil {
		fmt.Printf("Shell error: %v\n", err)
		os.Exit(1)
	}
}

// handleRmCommand removes a track row and all of its files.
func handleRmCommand(cfg *config.Config, db *util.Database, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: mashsong rm <id>")
		os.Exit(1)
	}
	id := args[0]

	files := util.TrackFiles(cfg.DataDir, id)
	_, inLibrary := db.GetTrack(id)
	if len(files) == 0 && !inLibrary {
		fmt.Printf("Nothing found for ID: %s\n", id)
		return
	}

	fmt.Printf("Removing %s:\n", id)
	for _, path := range files {
		fmt.Printf("  %s\n", path)
	}
	fmt.Printf("Remove? (y/N): ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" && response != "yes" {
		fmt.Println("Cancelled.")
		return
	}

	removed, err := util.RemoveTrackFiles(cfg.DataDir, id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
	if err := db.DeleteTrack(id); err != nil {
		fmt.Printf("Database error: %v\n", err)
	}
	fmt.Printf("Removed %d files\n", len(removed))
}

// handleServeCommand starts the HTTP mash job server.
func handleServeCommand(cfg *config.Config, db *util.Database) {
	server := web.NewServer(cfg, db, newRenderer(cfg))
	fmt.Printf("Serving on port %d\n", cfg.Port)
	if err := server.ListenAndServe(); err != nil {
		fmt.Printf("Server error: %v\n", err)
		os.Exit(1)
	}
}
