package shell

import "github.com/chzyer/readline"

func buildCompleter() *readline.PrefixCompleter {
	trackArg := []readline.PrefixCompleterInterface{
		readline.PcItem("1"),
		readline.PcItem("2"),
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("status"),
		readline.PcItem("sections", trackArg...),
		readline.PcItem("measures", trackArg...),
		readline.PcItem("match",
			readline.PcItem("auto"),
			readline.PcItem("key1to2"),
			readline.PcItem("key2to1"),
			readline.PcItem("bpm1to2"),
			readline.PcItem("bpm2to1"),
		),
		readline.PcItem("pitch", trackArg...),
		readline.PcItem("tempo", trackArg...),
		readline.PcItem("volume", trackArg...),
		readline.PcItem("range", trackArg...),
		readline.PcItem("roles", readline.PcItem("swap")),
		readline.PcItem("preview", trackArg...),
		readline.PcItem("mash"),
		readline.PcItem("reset"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}
