package interp

// Token is one word of a command line as produced by the lexer.
//
// Quoted records whether any part of the word was quoted or escaped.
// The pipeline builder needs it to tell the pipe operator | from the
// literal word "|", and a redirection operator from a file named ">".
type Token struct {
	Val    string
	Quoted bool
}

// IsPipe reports whether the token is an unquoted pipe operator.
func (t Token) IsPipe() bool {
	return !t.Quoted && t.Val == "|"
}

// Words is a convenience constructor for token streams where no word
// was quoted, the common case in tests.
func Words(words ...string) []Token {
	toks := make([]Token, 0, len(words))
	for _, w := range words {
		toks = append(toks, Token{Val: w})
	}
	return toks
}
