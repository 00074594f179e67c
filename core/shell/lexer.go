// Package shell tokenizes raw command lines.
//
// Token recognition loosely follows
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
// restricted to the word, pipe, and redirection forms the interpreter
// understands.
package shell

import (
	"strings"
	"unicode"

	"github.com/ImranSah/gosh/core/interp"
)

// Split tokenizes one command line into words.
//
// Single quotes preserve everything literally. Inside double quotes a
// backslash escapes only `"` and `\`. Outside quotes a backslash
// escapes the next character and whitespace separates words. A quote
// left open at the end of the line closes implicitly.
//
// Words that consumed a quote or an escape are marked Quoted, so the
// pipeline builder treats them as data even when they spell an
// operator.
func Split(line string) []interp.Token {
	var (
		toks     []interp.Token
		cur      strings.Builder
		quoted   bool
		inSingle bool
		inDouble bool
	)

	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, interp.Token{Val: cur.String(), Quoted: quoted})
		}
		cur.Reset()
		quoted = false
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '\\' && !inSingle && !inDouble:
			i++
			if i < len(runes) {
				cur.WriteRune(runes[i])
				quoted = true
			}

		case ch == '\\' && inDouble:
			if i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\') {
				i++
				cur.WriteRune(runes[i])
			} else {
				cur.WriteRune(ch)
			}

		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			quoted = true

		case ch == '"' && !inSingle:
			inDouble = !inDouble
			quoted = true

		case unicode.IsSpace(ch) && !inSingle && !inDouble:
			flush()

		default:
			cur.WriteRune(ch)
		}
	}
	flush()

	return toks
}
