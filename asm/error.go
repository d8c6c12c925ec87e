package asm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrParse matches every *ParseError with errors.Is.
var ErrParse = errors.New("parse error")

// Position defines the source position of a program token.
type Position struct {
	Index  int // Zero-based token index; equals the memory address the token loads into.
	Offset int // Byte offset of the token.
	Line   int // Line number of the token, starting at 1.
	Col    int // Column number of the token, starting at 1.
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// ParseError defines a program text error with source context.
type ParseError struct {
	Pos   Position
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: token %d %q: %v", e.Pos, e.Pos.Index, e.Token, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
