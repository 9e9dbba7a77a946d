package deck

import (
	"strconv"
	"strings"
	"unicode"
)

// token is one lexical element of a deck: a word, a quoted string, or a
// record-terminating slash.
type token struct {
	text    string
	quoted  bool
	slash   bool
	repeat  int  // expansion count from N*value syntax
	defmark bool // a defaulted item (N* or 1*)
	line    int
}

// scan tokenizes deck text. Comments (-- to end of line) are dropped, and
// everything following a record-terminating slash on the same line is
// treated as comment.
func scan(input string) []token {
	var tokens []token
	for lineno, line := range strings.Split(input, "\n") {
		tokens = appendLineTokens(tokens, line, lineno+1)
	}
	return tokens
}

func appendLineTokens(tokens []token, line string, lineno int) []token {
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '-' && i+1 < len(line) && line[i+1] == '-':
			return tokens // comment to end of line
		case c == '/':
			// Record terminator. The rest of the line is comment.
			return append(tokens, token{slash: true, line: lineno})
		case c == '\'' || c == '"':
			quote := c
			end := i + 1
			for end < len(line) && line[end] != quote {
				end++
			}
			tokens = append(tokens, token{text: line[i+1 : end], quoted: true, line: lineno})
			i = end + 1
		default:
			end := i
			for end < len(line) && !unicode.IsSpace(rune(line[end])) && line[end] != '/' {
				end++
			}
			tokens = append(tokens, splitRepeat(line[i:end], lineno))
			i = end
		}
	}
	return tokens
}

// splitRepeat interprets the N*value repeat syntax and the N* (or lone *)
// defaulting syntax.
func splitRepeat(word string, lineno int) token {
	star := strings.IndexByte(word, '*')
	if star < 0 {
		return token{text: word, line: lineno}
	}
	count := 1
	if star > 0 {
		n, err := strconv.Atoi(word[:star])
		if err != nil {
			// Not a repeat, e.g. a wildcard well name like 'OP*'
			// outside quotes.
			return token{text: word, line: lineno}
		}
		count = n
	}
	rest := word[star+1:]
	if rest == "" {
		return token{defmark: true, repeat: count, line: lineno}
	}
	return token{text: rest, repeat: count, line: lineno}
}
