package script

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"
)

// Line is one physical line of a script.
type Line struct {
	Number int    // 1-based
	Text   string // left-trimmed, newline characters removed
}

// Token is a parsed line: its keyword and the whitespace-trimmed remainder.
type Token struct {
	Line     int
	Keyword  string
	Argument string
}

func (t Token) String() string {
	if t.Argument == "" {
		return t.Keyword
	}
	return t.Keyword + " " + t.Argument
}

// Reader yields the non-empty lines of a script one at a time. It is lazy and
// cannot be restarted; create a new Reader to read the input again. Lines
// have no length limit.
type Reader struct {
	br     *bufio.Reader
	number int
	done   bool
	err    error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next line with content. Lines of zero length are skipped
// without being counted as content, but their numbers are consumed. ok is
// false at end of input or after a read error (see Err).
func (r *Reader) Next() (line Line, ok bool) {
	for !r.done {
		raw, err := r.br.ReadString('\n')
		if err != nil {
			r.done = true
			if !errors.Is(err, io.EOF) {
				r.err = &Error{Kind: ErrReadFailed, Line: r.number + 1, Err: err}
				return Line{}, false
			}
			if raw == "" {
				break
			}
		}
		r.number++
		raw = strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if len(raw) == 0 {
			continue
		}
		text := strings.TrimLeftFunc(raw, unicode.IsSpace)
		text = strings.NewReplacer("\n", "", "\r", "").Replace(text)
		return Line{Number: r.number, Text: text}, true
	}
	return Line{}, false
}

// Err returns the read error that stopped the Reader, if any. It is a
// *Error of kind ErrReadFailed naming the line being read.
func (r *Reader) Err() error {
	return r.err
}

// IsComment reports whether the line is a comment.
func (l Line) IsComment() bool {
	return strings.HasPrefix(l.Text, "#")
}

// Tokenize splits a line into keyword and argument. A whitespace-only line
// yields ErrMalformedLine.
func Tokenize(l Line) (Token, error) {
	fields := Fields(l.Text)
	if len(fields) == 0 {
		return Token{}, Errorf(ErrMalformedLine, l.Number, "no keyword found")
	}
	keyword := fields[0]
	rest := strings.TrimPrefix(l.Text, keyword)
	return Token{
		Line:     l.Number,
		Keyword:  keyword,
		Argument: strings.TrimSpace(rest),
	}, nil
}

// Fields splits s around runs of ASCII whitespace. Other Unicode spaces,
// such as U+00A0, are part of a word.
func Fields(s string) []string {
	return strings.FieldsFunc(s, isASCIISpace)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// ReadAll reads every line of r, skipping blank lines and comments, and
// tokenizes the rest. It stops at the first malformed line.
func ReadAll(r io.Reader) ([]Token, error) {
	rd := NewReader(r)
	var tokens []Token
	for {
		line, ok := rd.Next()
		if !ok {
			break
		}
		if line.IsComment() {
			continue
		}
		tok, err := Tokenize(line)
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, rd.Err()
}

// Header returns the leading comment block of a script with the comment
// markers removed, one entry per line. Blank lines inside the block are kept
// as empty strings; the block ends at the first non-comment line.
func Header(r io.Reader) ([]string, error) {
	rd := NewReader(r)
	var out []string
	last := 0
	for {
		line, ok := rd.Next()
		if !ok {
			break
		}
		if line.Number > last+1 && len(out) > 0 {
			out = append(out, "")
		}
		last = line.Number
		text := strings.TrimSpace(line.Text)
		if text == "" {
			if len(out) > 0 {
				out = append(out, "")
			}
			continue
		}
		if !strings.HasPrefix(text, "#") {
			break
		}
		body := strings.TrimPrefix(text, "#")
		body = strings.TrimPrefix(body, " ")
		out = append(out, body)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out, rd.Err()
}
