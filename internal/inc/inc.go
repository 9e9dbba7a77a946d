// Package inc builds simulator include-file text for the inverse
// (table-to-deck) emitters. Output is plain keyword blocks with comment
// headers, written so the deck reader parses them back to equivalent
// tables.
package inc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Builder accumulates include-file text keyword by keyword.
type Builder struct {
	sb strings.Builder
}

// FileHeader writes the conventional provenance comment block.
func (b *Builder) FileHeader(tool string) {
	fmt.Fprintf(&b.sb, "-- File printed by %s\n-- at %s\n\n",
		tool, time.Now().Format("2006-01-02 15:04:05"))
}

// Comment writes one comment line.
func (b *Builder) Comment(text string) {
	b.sb.WriteString("-- " + text + "\n")
}

// Keyword opens a keyword block, with an optional column-name comment.
func (b *Builder) Keyword(name string, columns ...string) {
	b.sb.WriteString(name + "\n")
	if len(columns) > 0 {
		b.sb.WriteString("-- " + strings.Join(columns, " ") + "\n")
	}
}

// Record writes one slash-terminated record line.
func (b *Builder) Record(cells ...string) {
	b.sb.WriteString("  " + strings.Join(cells, " ") + " /\n")
}

// Row writes one data line without a terminator, for multi-line records.
func (b *Builder) Row(cells ...string) {
	b.sb.WriteString("  " + strings.Join(cells, " ") + "\n")
}

// Slash writes a lone record terminator.
func (b *Builder) Slash() {
	b.sb.WriteString("/\n")
}

// Blank writes an empty line between keyword blocks.
func (b *Builder) Blank() {
	b.sb.WriteString("\n")
}

func (b *Builder) String() string {
	return b.sb.String()
}

// Num formats a numeric cell. Missing values become the defaulting
// token so they survive a parse back.
func Num(v float64) string {
	if math.IsNaN(v) {
		return "1*"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Int formats an integer cell.
func Int(v int) string {
	return strconv.Itoa(v)
}

// Str formats a string cell, quoted.
func Str(v string) string {
	return "'" + v + "'"
}
