package script

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

func TestReaderSkipsEmptyLinesKeepsNumbering(t *testing.T) {
	rd := NewReader(strings.NewReader("print a\n\n\nprint b\r\n\r\n  # note\n"))
	var got []Line
	for {
		l, ok := rd.Next()
		if !ok {
			break
		}
		got = append(got, l)
	}
	if err := rd.Err(); err != nil {
		t.Fatal(err)
	}
	want := []Line{
		{Number: 1, Text: "print a"},
		{Number: 4, Text: "print b"},
		{Number: 6, Text: "# note"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if !got[2].IsComment() {
		t.Error("expected line 6 to be a comment")
	}
}

func TestReaderLongLine(t *testing.T) {
	long := "print " + strings.Repeat("x", 2<<20)
	rd := NewReader(strings.NewReader("print a\n" + long))
	var got []Line
	for {
		l, ok := rd.Next()
		if !ok {
			break
		}
		got = append(got, l)
	}
	if err := rd.Err(); err != nil {
		t.Fatalf("Err = %v", err)
	}
	if len(got) != 2 || got[1].Number != 2 || got[1].Text != long {
		t.Errorf("got %d lines, want the 2 MiB line intact at line 2", len(got))
	}
}

func TestReaderErrorNamesLine(t *testing.T) {
	src := io.MultiReader(strings.NewReader("print a\n\nprint b\n"), iotest.ErrReader(errors.New("disk gone")))
	rd := NewReader(src)
	n := 0
	for {
		if _, ok := rd.Next(); !ok {
			break
		}
		n++
	}
	if n != 2 {
		t.Errorf("read %d lines before the error, want 2", n)
	}
	err := rd.Err()
	var se *Error
	if !errors.As(err, &se) || !errors.Is(err, ErrReadFailed) {
		t.Fatalf("err = %v, want *Error of kind ErrReadFailed", err)
	}
	if se.Line != 4 {
		t.Errorf("line = %d, want 4", se.Line)
	}
}

func TestFieldsASCIIOnly(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b", "c"}, Fields(" a\tb \f c\r")); diff != "" {
		t.Errorf("ascii split mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"print\u00a0hi"}, Fields("print\u00a0hi")); diff != "" {
		t.Errorf("nbsp should not split:\n%s", diff)
	}
	tok, err := Tokenize(Line{Number: 3, Text: "print\u00a0hi"})
	if err != nil {
		t.Fatal(err)
	}
	if tok.Keyword != "print\u00a0hi" || tok.Argument != "" {
		t.Errorf("token = %+v, want a single unknown word", tok)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text    string
		keyword string
		arg     string
	}{
		{"select color", "select", "color"},
		{"-   light  blue  ", "-", "light  blue"},
		{"end", "end", ""},
		{"if langs Go", "if", "langs Go"},
		{"shell\tgo mod init x", "shell", "go mod init x"},
	}
	for _, tt := range tests {
		tok, err := Tokenize(Line{Number: 3, Text: tt.text})
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", tt.text, err)
		}
		if tok.Keyword != tt.keyword || tok.Argument != tt.arg {
			t.Errorf("Tokenize(%q) = (%q, %q), want (%q, %q)", tt.text, tok.Keyword, tok.Argument, tt.keyword, tt.arg)
		}
		if tok.Line != 3 {
			t.Errorf("Tokenize(%q).Line = %d, want 3", tt.text, tok.Line)
		}
	}
}

func TestTokenizeWhitespaceOnlyIsMalformed(t *testing.T) {
	_, err := Tokenize(Line{Number: 7, Text: " \t "})
	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("expected ErrMalformedLine, got %v", err)
	}
	if LineOf(err) != 7 {
		t.Errorf("LineOf = %d, want 7", LineOf(err))
	}
}

func TestReadAllIsDeterministic(t *testing.T) {
	src := "# header\nselect color\n- red\n- blue\nend\nif color red\nprint matched\nend\n"
	a, err := ReadAll(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ReadAll(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("token streams differ:\n%s", diff)
	}
	if len(a) != 7 {
		t.Fatalf("got %d tokens, want 7", len(a))
	}
	if a[0].Line != 2 || a[0].Keyword != "select" {
		t.Errorf("first token = %+v", a[0])
	}
}

func TestHeader(t *testing.T) {
	src := "# Project setup\n#\n# Creates a **Go** module.\n\nselect x\n# not header\n"
	got, err := Header(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Project setup", "", "Creates a **Go** module."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: ErrCommandFailed, Line: 4, Detail: `"false"`, Err: errors.New("exit status 1")}
	want := `line 4: command failed: "false": exit status 1`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Error("errors.Is should match kind")
	}
}
