// Package syntax produces rewriter node trees from raw source text: one
// composite file node whose leaves are tokens, with whitespace and
// comments attached to tokens as leading trivia.
package syntax

import (
	"annot/internal/rewrite"
)

const (
	// KindFile is the composite root covering the whole file.
	KindFile rewrite.Kind = iota + 1
	KindIdent
	KindNumber
	KindString
	KindPunct
)

// Token is a leaf node. FullStart..Start is the token's leading trivia.
type Token struct {
	kind      rewrite.Kind
	fullStart uint32
	start     uint32
	end       uint32
}

func (t *Token) Kind() rewrite.Kind     { return t.kind }
func (t *Token) Children() []rewrite.Node { return nil }
func (t *Token) FullStart() uint32      { return t.fullStart }
func (t *Token) Start() uint32          { return t.start }
func (t *Token) End() uint32            { return t.end }

// File is the composite root node.
type File struct {
	children []rewrite.Node
	start    uint32
	end      uint32
}

func (f *File) Kind() rewrite.Kind       { return KindFile }
func (f *File) Children() []rewrite.Node { return f.children }
func (f *File) FullStart() uint32        { return 0 }
func (f *File) Start() uint32            { return f.start }
func (f *File) End() uint32              { return f.end }
