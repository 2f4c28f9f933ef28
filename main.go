package main

import (
	"fmt"
	"os"

	"mashsong/config"
	"mashsong/logger"
	"mashsong/util"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Env); err != nil {
		fmt.Printf("Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := util.EnsureDataDirs(cfg.DataDir); err != nil {
		fmt.Printf("Data directory error: %v\n", err)
		os.Exit(1)
	}

	db, err := util.InitDatabase(cfg.DataDir)
	if err != nil {
		fmt.Printf("Database error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "fetch":
		handleFetchCommand(cfg, db, args)
	case "dl":
		handleDlCommand(cfg, db, args)
	case "separate":
		handleSeparateCommand(cfg, db, args)
	case "analyze":
		handleAnalyzeCommand(cfg, db, args)
	case "sections":
		handleSectionsCommand(cfg, db, args)
	case "measures":
		handleMeasuresCommand(cfg, db, args)
	case "ls":
		handleLsCommand(cfg, db, args)
	case "mash":
		handleMashCommand(cfg, db, args)
	case "export":
		handleExportCommand(cfg, db, args)
	case "shell":
		handleShellCommand(cfg, db, args)
	case "rm":
		handleRmCommand(cfg, db, args)
	case "serve":
		handleServeCommand(cfg, db)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("mashsong - two-track song mashup pipeline")
	fmt.Println()
	fmt.Println("Usage: mashsong <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  fetch <title> [-artist name]   fetch analysis + audio for a track")
	fmt.Println("  dl <id|url>                    download audio only")
	fmt.Println("  separate <id>                  split a track into stems")
	fmt.Println("  analyze <id>                   show a track's analysis summary")
	fmt.Println("  sections <id>                  list grid-synced sections")
	fmt.Println("  measures <id>                  list measure boundaries")
	fmt.Println("  ls [pattern]                   list the library")
	fmt.Println("  mash <id1> <id2> [flags]       render a mashup of two tracks")
	fmt.Println("  export <id> [flags]            export a stem slice")
	fmt.Println("  shell <id1> <id2>              interactive mash shell")
	fmt.Println("  rm <id>                        remove a track and its files")
	fmt.Println("  serve                          start the mash job server")
	fmt.Println("  help                           show this help")
}
