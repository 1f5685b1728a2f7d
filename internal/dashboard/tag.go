// ABOUTME: Source tag mapping for the engine that answered a user
// ABOUTME: Uppercase label plus web and terminal colors

package dashboard

import (
	"strings"

	"github.com/fatih/color"
)

// Tag is the rendered fallback source.
type Tag struct {
	Label string
	// Color is the CSS class for the web badge.
	Color string
	// Known is false for sources outside the recognized set.
	Known bool
}

const neutralColor = "bg-gray-400"

var sourceColors = map[string]string{
	"RASA":   "bg-green-600",
	"RAG":    "bg-blue-500",
	"LLM":    "bg-purple-500",
	"PLUGIN": "bg-pink-600",
	"LOCAL":  "bg-yellow-600",
	"NONE":   "bg-gray-500",
	"ERROR":  "bg-red-600",
}

var terminalColors = map[string]color.Attribute{
	"RASA":   color.FgGreen,
	"RAG":    color.FgBlue,
	"LLM":    color.FgMagenta,
	"PLUGIN": color.FgHiMagenta,
	"LOCAL":  color.FgYellow,
	"NONE":   color.FgHiBlack,
	"ERROR":  color.FgRed,
}

// SourceTag maps a backend source value to its tag. An empty source is
// labeled UNKNOWN.
func SourceTag(source string) Tag {
	label := strings.ToUpper(source)
	if label == "" {
		label = "UNKNOWN"
	}
	c, ok := sourceColors[label]
	if !ok {
		c = neutralColor
	}
	return Tag{Label: label, Color: c, Known: ok}
}

// ErrorTag is shown when the lookup itself failed.
func ErrorTag() Tag {
	return SourceTag("ERROR")
}

// Terminal returns the label colored for a terminal.
func (t Tag) Terminal() string {
	attr, ok := terminalColors[t.Label]
	if !ok {
		attr = color.FgWhite
	}
	return color.New(attr, color.Bold).Sprint(t.Label)
}
