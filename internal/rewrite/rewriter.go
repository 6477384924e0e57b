package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"annot/internal/diag"
	"annot/internal/source"
)

// ErrUnbalancedTraversal reports that Output was called while a visit
// was still in flight — a processor swallowed the traversal somewhere.
var ErrUnbalancedTraversal = errors.New("rewrite: traversal depth not zero at output")

// CompositeSkipCommentsError reports a skip-comments write on a node
// with children. Trivia for composite nodes lives only around the
// individual leaves, so the combination is a hard precondition
// violation, not a degradable request.
type CompositeSkipCommentsError struct {
	Kind Kind
}

func (e *CompositeSkipCommentsError) Error() string {
	return fmt.Sprintf("rewrite: skipComments is not supported for composite nodes (kind %d)", e.Kind)
}

// Result is the rewriter's final product: the output text and the
// diagnostics collected along the way, in insertion order.
type Result struct {
	Text        string
	Diagnostics []diag.Diagnostic
}

// Rewriter owns one traversal: the source file, the processor strategy,
// the accumulated output fragments, and the diagnostics bag. Untouched
// source reaches the output only through WriteRange, which is what
// guarantees verbatim reproduction of everything the processor leaves
// alone.
type Rewriter struct {
	file  *source.File
	proc  Processor
	bag   *diag.Bag
	out   []string
	depth int
}

// New constructs a rewriter over one file. proc may be nil, in which
// case every node is copied verbatim.
func New(file *source.File, proc Processor, maxDiagnostics int) *Rewriter {
	return &Rewriter{
		file: file,
		proc: proc,
		bag:  diag.NewBag(maxDiagnostics),
	}
}

// File returns the source file under rewrite.
func (r *Rewriter) File() *source.File {
	return r.file
}

// Visit hands the node to the processor and falls back to WriteNode when
// the processor declines. Depth bookkeeping survives every exit path,
// including processor errors.
func (r *Rewriter) Visit(n Node) error {
	r.depth++
	defer func() { r.depth-- }()

	if r.proc != nil {
		handled, err := r.proc.MaybeProcess(r, n)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return r.WriteNode(n, false)
}

// WriteNode copies the node to the output. Leaves emit their text
// directly; with skipComments only the significant text is emitted,
// preceded by one newline if leading trivia was actually dropped, so a
// transformed leaf stays visually separated from whatever came before.
// Composite nodes interleave verbatim gap copies with child visits.
func (r *Rewriter) WriteNode(n Node, skipComments bool) error {
	children := n.Children()
	if len(children) == 0 {
		if !skipComments {
			r.WriteRange(n.FullStart(), n.End())
			return nil
		}
		if n.Start() > n.FullStart() {
			r.Emit("\n")
		}
		r.WriteRange(n.Start(), n.End())
		return nil
	}

	if skipComments {
		return &CompositeSkipCommentsError{Kind: n.Kind()}
	}

	pos := n.FullStart()
	for _, child := range children {
		// The gap: separators, whitespace, comments between siblings.
		r.WriteRange(pos, child.FullStart())
		if err := r.Visit(child); err != nil {
			return err
		}
		pos = child.End()
	}
	r.WriteRange(pos, n.End())
	return nil
}

// WriteRange emits the literal source slice [from, to). Empty or
// inverted ranges are no-ops.
func (r *Rewriter) WriteRange(from, to uint32) {
	if from >= to {
		return
	}
	content := r.file.Content
	if int(to) > len(content) {
		to = uint32(len(content))
	}
	if from >= to {
		return
	}
	r.out = append(r.out, string(content[from:to]))
}

// Emit appends text to the output buffer.
func (r *Rewriter) Emit(text string) {
	r.out = append(r.out, text)
}

// Error records a diagnostic covering the node's significant text.
// Non-fatal: traversal continues.
func (r *Rewriter) Error(n Node, msg string) {
	r.ErrorAt(n, msg, n.Start(), n.End()-n.Start())
}

// ErrorAt records a diagnostic at an explicit position.
func (r *Rewriter) ErrorAt(n Node, msg string, start, length uint32) {
	_ = n
	r.bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.RewriteNodeError,
		Message:  msg,
		Primary:  source.MakeSpan(r.file.ID, start, start+length),
	})
}

// ErrorUnimplementedKind marks a node kind the processor should never
// see; processors use it as an exhaustiveness check.
func (r *Rewriter) ErrorUnimplementedKind(n Node, where string) {
	r.bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.RewriteUnimplementedKind,
		Message:  fmt.Sprintf("node kind %d is not implemented in %s", n.Kind(), where),
		Primary:  source.MakeSpan(r.file.ID, n.Start(), n.End()),
	})
}

// Bag exposes the diagnostics bag, mainly for merging into per-run
// collections.
func (r *Rewriter) Bag() *diag.Bag {
	return r.bag
}

// Output concatenates the buffered fragments exactly once and returns
// them with the diagnostics. It fails when traversal depth never
// returned to zero.
func (r *Rewriter) Output() (Result, error) {
	if r.depth != 0 {
		return Result{}, ErrUnbalancedTraversal
	}
	return Result{
		Text:        strings.Join(r.out, ""),
		Diagnostics: r.bag.Items(),
	}, nil
}
