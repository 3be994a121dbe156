package card

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Extract parses a model response into a list of Examples. The response
// is free text that should contain a Python-style list of 4-string
// tuples somewhere inside it; everything outside the first '[' and the
// last ']' is ignored.
//
// The scanner accepts exactly the shape [("s","s","s","s"), ...] with
// single- or double-quoted strings, backslash escapes, optional
// trailing commas and arbitrary whitespace. Anything else, including a
// single malformed tuple, rejects the whole response. Extract never
// returns an error: model output is unreliable by nature and a bad
// response is treated the same as no response.
func Extract(text string) []Example {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return nil
	}

	s := &scanner{src: text[start : end+1]}
	examples, ok := s.list()
	if !ok {
		return nil
	}
	return examples
}

type scanner struct {
	src string
	pos int
}

// list = "[" ( tuple ( "," tuple )* ","? )? "]"
func (s *scanner) list() ([]Example, bool) {
	if !s.expect('[') {
		return nil, false
	}

	var examples []Example
	s.skipSpace()
	for s.peek() != ']' {
		ex, ok := s.tuple()
		if !ok {
			return nil, false
		}
		examples = append(examples, ex)

		s.skipSpace()
		if s.peek() == ',' {
			s.pos++
			s.skipSpace()
			continue
		}
		break
	}

	if !s.expect(']') {
		return nil, false
	}
	s.skipSpace()
	if s.pos != len(s.src) {
		return nil, false
	}
	return examples, true
}

// tuple = "(" string "," string "," string "," string ","? ")"
func (s *scanner) tuple() (Example, bool) {
	if !s.expect('(') {
		return Example{}, false
	}

	var fields [4]string
	for i := range fields {
		str, ok := s.quoted()
		if !ok {
			return Example{}, false
		}
		fields[i] = str

		s.skipSpace()
		if i < len(fields)-1 {
			if !s.expect(',') {
				return Example{}, false
			}
		} else if s.peek() == ',' {
			s.pos++
		}
	}

	if !s.expect(')') {
		return Example{}, false
	}
	return Example{
		TargetSentence: fields[0],
		BaseSentence:   fields[1],
		TargetWord:     fields[2],
		BaseWord:       fields[3],
	}, true
}

func (s *scanner) quoted() (string, bool) {
	s.skipSpace()
	quote := s.peek()
	if quote != '\'' && quote != '"' {
		return "", false
	}
	s.pos++

	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case quote:
			s.pos++
			return b.String(), true
		case '\\':
			s.pos++
			if s.pos >= len(s.src) {
				return "", false
			}
			if !s.unescape(&b) {
				return "", false
			}
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return "", false // unterminated string
}

// unescape decodes one escape sequence the way Python string literals
// do: named escapes and \xNN/\uXXXX/\UXXXXXXXX become their character,
// an unrecognized escape keeps its backslash, and a malformed hex
// escape rejects the string (and with it the whole response).
func (s *scanner) unescape(b *strings.Builder) bool {
	c := s.src[s.pos]
	s.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '\'', '"', '\\':
		b.WriteByte(c)
	case 'x':
		return s.hexEscape(b, 2)
	case 'u':
		return s.hexEscape(b, 4)
	case 'U':
		return s.hexEscape(b, 8)
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return true
}

func (s *scanner) hexEscape(b *strings.Builder, digits int) bool {
	if s.pos+digits > len(s.src) {
		return false
	}
	v, err := strconv.ParseUint(s.src[s.pos:s.pos+digits], 16, 32)
	if err != nil || v > utf8.MaxRune {
		return false
	}
	s.pos += digits
	b.WriteRune(rune(v))
	return true
}

func (s *scanner) expect(c byte) bool {
	s.skipSpace()
	if s.peek() != c {
		return false
	}
	s.pos++
	return true
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}
