package lexer

import (
	"regexp"
	"strings"
)

type tokenRegex struct {
	Pattern *regexp.Regexp
}

// identifier characters allowed by IPPcode23 for variables and labels
const identRaw = `[a-zA-Z_\-$&%*!?][a-zA-Z0-9_\-$&%*!?]*`

func newTokenRegex(raw string) tokenRegex {
	return tokenRegex{regexp.MustCompile(raw)}
}

// Token regex patterns
var tokenRegexes = map[TokenType]tokenRegex{
	HEADER: newTokenRegex(`^(?i)\.ippcode23`),

	VAR:    newTokenRegex(`^(GF|LF|TF)@` + identRaw),
	INT:    newTokenRegex(`^int@[+-]?[0-9]+`),
	BOOL:   newTokenRegex(`^bool@(true|false)`),
	NIL:    newTokenRegex(`^nil@nil`),
	STRING: newTokenRegex(`^string@([^\s#\\]|\\[0-9]{3})*`),

	ID: newTokenRegex(`^` + identRaw),
}

var (
	whitespaceRegex = regexp.MustCompile(`^[ \t\r\f\v]+`)
	commentRegex    = regexp.MustCompile(`^#[^\n]*`)
	// a token must end at whitespace, a comment or the end of the line
	boundaryRegex = regexp.MustCompile(`^([\s#]|$)`)
)

// Token precedence order for matching (typed forms before bare identifiers)
var tokenPrecedenceOrder = []TokenType{
	HEADER, VAR, INT, BOOL, NIL, STRING, ID,
}

// MatchToken matches the token at the start of the string. Whitespace and
// comments are reported as EOF with matched set so the caller can skip them.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	} else if s[0] == '\n' {
		return NEWLINE, "\n", true
	} else if match := whitespaceRegex.FindString(s); match != "" {
		return EOF, match, true
	} else if match := commentRegex.FindString(s); match != "" {
		return EOF, match, true
	}

	for _, tokenType := range tokenPrecedenceOrder {
		regex := tokenRegexes[tokenType]
		match := regex.Pattern.FindString(s)
		if match == "" || !boundaryRegex.MatchString(s[len(match):]) {
			continue
		}
		return tokenType, match, true
	}

	return ILLEGAL, illegalRun(s), false
}

// illegalRun returns the text up to the next token boundary
func illegalRun(s string) string {
	if i := strings.IndexAny(s, " \t\r\n#"); i > 0 {
		return s[:i]
	}
	return s
}
