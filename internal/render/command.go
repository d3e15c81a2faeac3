package render

import (
	"slices"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// CommandSplit is a message split into a leading slash command and the rest
// of its text.
type CommandSplit struct {
	Command     string   // command name without the slash, empty if none
	Rest        string   // text following the command token
	Known       bool     // Command is one of the known commands
	Suggestions []string // near matches when the command is unknown
}

// SplitCommand detects a leading "/name" token in text. The token ends at the
// first whitespace; tokens containing other characters (paths such as
// "/usr/bin") are not commands. Unknown commands get fuzzy suggestions from
// known. Names compare case-insensitively.
func SplitCommand(text string, known []string) CommandSplit {
	if !strings.HasPrefix(text, "/") {
		return CommandSplit{Rest: text}
	}

	end := strings.IndexFunc(text, unicode.IsSpace)
	if end < 0 {
		end = len(text)
	}
	name := text[1:end]
	if !isCommandName(name) {
		return CommandSplit{Rest: text}
	}

	split := CommandSplit{Command: name, Rest: text[end:]}
	lower := strings.ToLower(name)
	for _, k := range known {
		if strings.ToLower(strings.TrimPrefix(k, "/")) == lower {
			split.Known = true
			return split
		}
	}
	split.Suggestions = SuggestCommands(name, known)
	return split
}

// SuggestCommands returns the known commands that fuzzy-match query, best
// match first. When nothing matches, commands sharing the query as a prefix
// are returned instead.
func SuggestCommands(query string, known []string) []string {
	names := make([]string, len(known))
	for i, k := range known {
		names[i] = strings.TrimPrefix(k, "/")
	}

	query = strings.ToLower(strings.TrimPrefix(query, "/"))
	if query == "" {
		return names
	}

	var result []string
	for _, match := range fuzzy.Find(query, names) {
		result = append(result, names[match.Index])
	}

	if len(result) == 0 {
		for _, name := range names {
			if strings.HasPrefix(strings.ToLower(name), query) {
				result = append(result, name)
			}
		}
	}
	return slices.Compact(result)
}

func isCommandName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '_'):
		default:
			return false
		}
	}
	return true
}
