package parser

import (
	"errors"
	"fmt"
	"go/token"
)

var (
	// ErrUnsupportedShape is reported for declarations the generator cannot
	// describe: unit structs, unions, aliases, generic interfaces and
	// function or channel types.
	ErrUnsupportedShape = errors.New("unsupported shape")

	// ErrMalformedAttribute is reported, in strict mode, for namespace
	// attributes that cannot be parsed.
	ErrMalformedAttribute = errors.New("malformed attribute")

	// ErrMissingCapability is reported when a non-ignored field type does
	// not provide RTTI.
	ErrMissingCapability = errors.New("missing capability")

	// ErrConflict is reported when generated declarations would collide
	// with existing ones.
	ErrConflict = errors.New("conflicting declaration")
)

// Diagnostic is a positioned error about one declaration.
type Diagnostic struct {
	Pos  token.Position
	Decl string
	Err  error
	Msg  string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %v: %s", d.Pos, d.Decl, d.Err, d.Msg)
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}
