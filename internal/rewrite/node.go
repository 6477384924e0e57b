// Package rewrite walks a parsed source tree and re-emits it as text,
// byte-for-byte, except where a processor intercepts a node.
package rewrite

// Kind identifies a node's syntactic category. The tree supplier owns
// the kind space; the engine only ever reports kinds in diagnostics.
type Kind uint16

// Node is one element of the parsed source tree. Offsets are absolute
// byte positions into the file the tree was parsed from.
//
// FullStart includes the node's leading trivia (whitespace, comments);
// Start is the first significant byte. For any two adjacent children in
// traversal order, the first child's End is <= the second's FullStart.
type Node interface {
	Kind() Kind
	Children() []Node
	FullStart() uint32
	Start() uint32
	End() uint32
}

// Processor decides, per node, between "consume/transform" and "recurse
// and copy verbatim". Returning handled=true means the processor already
// emitted whatever output it wants for the node; the rewriter will not
// descend into it. An error aborts the traversal.
type Processor interface {
	MaybeProcess(r *Rewriter, n Node) (handled bool, err error)
}

// NopProcessor never intercepts; a rewriter driven by it reproduces the
// source exactly.
type NopProcessor struct{}

func (NopProcessor) MaybeProcess(*Rewriter, Node) (bool, error) { return false, nil }
