package shell

import (
	"github.com/chzyer/readline"
)

// commandNames lists every command the shell understands, in help order.
var commandNames = []string{
	"new", "load", "save", "show", "play", "ai", "hint", "points", "check", "help", "exit",
}

func newCompleter() *readline.PrefixCompleter {
	axes := func() []readline.PrefixCompleterInterface {
		return []readline.PrefixCompleterInterface{readline.PcItem("row"), readline.PcItem("col")}
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("new"),
		readline.PcItem("load"),
		readline.PcItem("save"),
		readline.PcItem("show"),
		readline.PcItem("play", axes()...),
		readline.PcItem("ai"),
		readline.PcItem("hint", readline.PcItem("-log")),
		readline.PcItem("points"),
		readline.PcItem("check"),
		readline.PcItem("help",
			readline.PcItem("new"), readline.PcItem("load"),
			readline.PcItem("play"), readline.PcItem("hint")),
		readline.PcItem("exit"),
	)
}
