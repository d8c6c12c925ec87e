// Package asm reads, writes and disassembles Intcode program text.
package asm

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrEmpty is the cause of a ParseError for a program with no tokens or a
// token with no digits.
var ErrEmpty = errors.New("empty token")

// Parse reads comma separated decimal integers into a memory image.
// Whitespace around tokens is ignored.
func Parse(text string) ([]int64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Pos: Position{Line: 1, Col: 1}, Err: errors.Wrap(ErrEmpty, "no program")}
	}

	program := make([]int64, 0, strings.Count(text, ",")+1)
	pos := Position{Line: 1, Col: 1}

	for {
		end := strings.IndexByte(text[pos.Offset:], ',')
		if end < 0 {
			end = len(text)
		} else {
			end += pos.Offset
		}

		raw := text[pos.Offset:end]
		token := strings.TrimSpace(raw)
		tokenPos := advance(pos, raw[:strings.Index(raw, token)])

		v, err := ParseNumber(token)
		if err != nil {
			return nil, &ParseError{Pos: tokenPos, Token: token, Err: err}
		}
		program = append(program, v)

		if end == len(text) {
			return program, nil
		}

		pos = advance(pos, text[pos.Offset:end+1])
		pos.Index++
	}
}

// ParseNumber parses a single signed decimal token.
func ParseNumber(token string) (int64, error) {
	if token == "" {
		return 0, ErrEmpty
	}
	v, err := strconv.ParseInt(token, 10, 64)
	if ne, ok := err.(*strconv.NumError); ok {
		return 0, ne.Err
	}
	return v, err
}

// advance moves pos past s, tracking lines and columns.
func advance(pos Position, s string) Position {
	pos.Offset += len(s)
	for _, r := range s {
		if r == '\n' {
			pos.Line++
			pos.Col = 1
		} else {
			pos.Col++
		}
	}
	return pos
}
