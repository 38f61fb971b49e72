package models

import "fmt"

// ElementKind distinguishes the two documentable declaration kinds.
type ElementKind string

const (
	ElementClass  ElementKind = "class"
	ElementMethod ElementKind = "method"
)

// JavaElement is a class or method declaration discovered while parsing a
// source file. It lives only for the duration of one file's processing.
type JavaElement struct {
	Kind       ElementKind
	Name       string
	Signature  string
	Line       int // 1-based declaration line
	HasJavadoc bool
}

// Ident is the stable identifier used in reports and logs.
func (e JavaElement) Ident() string {
	return fmt.Sprintf("%s: %s (line %d)", e.Kind, e.Name, e.Line)
}
