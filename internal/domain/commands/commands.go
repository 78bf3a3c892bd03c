// Package commands classifies free-text chat input into the closed command
// vocabulary the session state machines dispatch on.
package commands

import "strings"

// Command is one member of the chat command vocabulary.
type Command string

const (
	Yes      Command = "yes"
	No       Command = "no"
	Pay      Command = "pay"
	Describe Command = "describe"
	Help     Command = "help"
	Privacy  Command = "privacy"
	Refund   Command = "refund"
	Chart    Command = "chart"
	Info     Command = "info"
	Terms    Command = "terms"
	Name     Command = "name"
)

// defaultAliases maps each command to the case-insensitive literals that
// select it.
var defaultAliases = map[Command][]string{
	Yes:      {"yes", "y"},
	No:       {"no", "n", "cancel", "c"},
	Pay:      {"pay"},
	Describe: {"describe"},
	Help:     {"help", "?"},
	Privacy:  {"privacy", "p"},
	Refund:   {"refund"},
	Chart:    {"chart"},
	Info:     {"info"},
	Terms:    {"terms"},
	Name:     {"name"},
}

// Router resolves free text to a Command. Resolution is a total function:
// unmatched input yields the router's configured fallback, never an error.
type Router struct {
	byAlias  map[string]Command
	fallback Command
}

// NewRouter builds a router over the default alias table with an explicit
// fallback command.
func NewRouter(fallback Command) *Router {
	byAlias := make(map[string]Command)
	for cmd, aliases := range defaultAliases {
		for _, a := range aliases {
			byAlias[a] = cmd
		}
	}
	return &Router{byAlias: byAlias, fallback: fallback}
}

// Resolve maps text to a command, case-insensitively, falling back to the
// router's default for anything unrecognized.
func (r *Router) Resolve(text string) Command {
	if cmd, ok := r.byAlias[strings.ToLower(strings.TrimSpace(text))]; ok {
		return cmd
	}
	return r.fallback
}

// Matches reports whether text resolves to cmd specifically, not via fallback.
func (r *Router) Matches(text string, cmd Command) bool {
	resolved, ok := r.byAlias[strings.ToLower(strings.TrimSpace(text))]
	return ok && resolved == cmd
}
