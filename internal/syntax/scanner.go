package syntax

import (
	"fmt"

	"fortio.org/safecast"

	"annot/internal/diag"
	"annot/internal/rewrite"
	"annot/internal/source"
)

// Options configures scanning.
type Options struct {
	// Reporter receives scan diagnostics (unterminated strings and
	// block comments). Nil drops them.
	Reporter diag.Reporter
}

// Scan splits the file into a token tree. Every byte of the input is
// covered: trivia rides on the following token, trailing trivia on the
// file node itself, so a verbatim rewrite reproduces the file exactly.
func Scan(f *source.File, opts Options) *File {
	s := scanner{
		file:     f,
		content:  f.Content,
		reporter: opts.Reporter,
	}
	// One guarded conversion up front; per-byte offsets stay within it.
	length, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	s.length = length
	return s.scanFile()
}

type scanner struct {
	file     *source.File
	content  []byte
	length   uint32
	pos      uint32
	reporter diag.Reporter
}

func (s *scanner) scanFile() *File {
	out := &File{end: s.length}
	fullStart := uint32(0)
	for {
		s.skipTrivia()
		if s.pos >= s.length {
			break
		}
		tok := s.scanToken(fullStart)
		out.children = append(out.children, tok)
		fullStart = tok.end
	}
	if len(out.children) > 0 {
		out.start = out.children[0].(*Token).start
	}
	return out
}

// skipTrivia advances past whitespace and comments without emitting.
func (s *scanner) skipTrivia() {
	for s.pos < s.length {
		c := s.content[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.pos++
		case c == '/' && s.pos+1 < s.length && s.content[s.pos+1] == '/':
			for s.pos < s.length && s.content[s.pos] != '\n' {
				s.pos++
			}
		case c == '/' && s.pos+1 < s.length && s.content[s.pos+1] == '*':
			start := s.pos
			s.pos += 2
			closed := false
			for s.pos+1 < s.length {
				if s.content[s.pos] == '*' && s.content[s.pos+1] == '/' {
					s.pos += 2
					closed = true
					break
				}
				s.pos++
			}
			if !closed {
				s.pos = s.length
				s.report(diag.ScanUnterminatedComment, start, "unterminated block comment")
			}
		default:
			return
		}
	}
}

func (s *scanner) scanToken(fullStart uint32) *Token {
	start := s.pos
	c := s.content[s.pos]
	var kind rewrite.Kind
	switch {
	case isIdentStart(c):
		kind = KindIdent
		for s.pos < s.length && isIdentPart(s.content[s.pos]) {
			s.pos++
		}
	case c >= '0' && c <= '9':
		kind = KindNumber
		for s.pos < s.length && (isDigit(s.content[s.pos]) || s.content[s.pos] == '.') {
			s.pos++
		}
	case c == '"' || c == '\'' || c == '`':
		kind = KindString
		s.scanString(c)
	default:
		kind = KindPunct
		s.pos++
	}
	return &Token{kind: kind, fullStart: fullStart, start: start, end: s.pos}
}

func (s *scanner) scanString(quote byte) {
	start := s.pos
	s.pos++
	for s.pos < s.length {
		c := s.content[s.pos]
		if c == '\\' && s.pos+1 < s.length {
			s.pos += 2
			continue
		}
		s.pos++
		if c == quote {
			return
		}
	}
	s.report(diag.ScanUnterminatedString, start, "unterminated string literal")
}

func (s *scanner) report(code diag.Code, start uint32, msg string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Report(code, diag.SevWarning,
		source.MakeSpan(s.file.ID, start, s.pos), msg, nil)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
