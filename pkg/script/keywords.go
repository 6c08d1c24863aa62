// Package script reads novarum config scripts: it splits the byte stream
// into numbered logical lines, tokenizes each line into a keyword and its
// argument, and defines the fatal error kinds raised while interpreting.
package script

// Recognized keywords.
const (
	KeywordOption       = "-"
	KeywordShell        = "shell"
	KeywordSelect       = "select"
	KeywordMultiSelect  = "multiselect"
	KeywordSearchSelect = "searchselect"
	KeywordPrint        = "print"
	KeywordMessage      = "message"
	KeywordEnd          = "end"
	KeywordIf           = "if"
	KeywordChdir        = "chdir"
)

// Keywords lists every recognized keyword in documentation order.
var Keywords = []string{
	KeywordSelect,
	KeywordMultiSelect,
	KeywordSearchSelect,
	KeywordOption,
	KeywordMessage,
	KeywordEnd,
	KeywordIf,
	KeywordPrint,
	KeywordShell,
	KeywordChdir,
}

// IsKeyword reports whether word is a recognized keyword.
func IsKeyword(word string) bool {
	for _, k := range Keywords {
		if k == word {
			return true
		}
	}
	return false
}

// OpensBlock reports whether keyword starts a block closed by "end".
func OpensBlock(keyword string) bool {
	switch keyword {
	case KeywordSelect, KeywordMultiSelect, KeywordSearchSelect, KeywordIf:
		return true
	}
	return false
}
