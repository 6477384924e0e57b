// Package annotate renders a frontend's type model into the annotation
// dialect consumed by the downstream analyzer.
package annotate

import (
	"fmt"
	"strings"

	"annot/internal/types"
)

// Model is the read-only query surface the translator needs from the
// type model. *types.Interner satisfies it.
type Model interface {
	Lookup(id types.TypeID) (types.Type, bool)
	Reference(id types.TypeID) (*types.ReferenceInfo, bool)
	UnionMembers(id types.TypeID) []types.TypeID
	Symbol(id types.SymbolID) (*types.Symbol, bool)
	SymbolName(id types.SymbolID) string
	TypeOfSymbol(id types.SymbolID) types.TypeID
	Members(id types.SymbolID) []types.SymbolID
	CallSignatures(id types.TypeID) []types.Signature
	StringIndexType(id types.TypeID) types.TypeID
	NumberIndexType(id types.TypeID) types.TypeID
	Describe(id types.TypeID) string
}

// WarnFunc receives non-fatal translation warnings. The engine still
// produces a usable annotation after every warning.
type WarnFunc func(msg string)

// Wildcard is the annotation for "any value"; unhandled shapes degrade
// to it.
const Wildcard = "?"

// EmptyObject is the annotation for a structural type with no members.
// The analyzer treats it differently from the bare wildcard, so the two
// must never be conflated.
const EmptyObject = "Object"

// ReferenceLoopError reports a reference type whose target is itself.
// This is a frontend logic error; translation of the whole type aborts.
type ReferenceLoopError struct {
	Type string // debug string of the offending type
}

func (e *ReferenceLoopError) Error() string {
	return "annotate: reference type points at itself: " + e.Type
}

// Translator converts types into annotation strings. One translator may
// serve many Translate calls; it holds no per-call state.
type Translator struct {
	model Model
	warn  WarnFunc
}

// New constructs a translator over the model. A nil warn hook drops
// warnings.
func New(model Model, warn WarnFunc) *Translator {
	if warn == nil {
		warn = func(string) {}
	}
	return &Translator{model: model, warn: warn}
}

// Translate renders the type as an annotation string. notNull requests
// the known-non-null prefix on reference and structural annotations.
// The only error is *ReferenceLoopError; every other unexpected shape
// warns and degrades to the wildcard.
func (t *Translator) Translate(id types.TypeID, notNull bool) (string, error) {
	tt, ok := t.model.Lookup(id)
	if !ok {
		t.warnf("unknown type id %d", id)
		return Wildcard, nil
	}

	switch tt.Kind {
	case types.KindAny:
		return Wildcard, nil
	case types.KindString:
		return "string", nil
	case types.KindNumber:
		return "number", nil
	case types.KindBoolean:
		return "boolean", nil
	case types.KindVoid:
		return "void", nil
	case types.KindUndefined:
		return "undefined", nil
	case types.KindNull:
		return "null", nil
	case types.KindEnum:
		return "number", nil
	case types.KindStringLiteral:
		return "string", nil
	case types.KindInterface, types.KindClass:
		// Type arguments belong to the referencing Reference type and
		// are rendered there, not here.
		name := t.model.SymbolName(tt.Symbol)
		if name == "" {
			t.warnf("named type without a name: %s", t.model.Describe(id))
			return Wildcard, nil
		}
		return name, nil
	case types.KindReference:
		return t.translateReference(id, notNull)
	case types.KindAnonymous:
		return t.translateAnonymous(id, tt.Symbol, notNull)
	case types.KindUnion:
		return t.translateUnion(id)
	default:
		t.warnf("unhandled type: %s", t.model.Describe(id))
		return Wildcard, nil
	}
}

func (t *Translator) translateReference(id types.TypeID, notNull bool) (string, error) {
	info, ok := t.model.Reference(id)
	if !ok {
		t.warnf("reference without target: %s", t.model.Describe(id))
		return Wildcard, nil
	}
	if info.Target == id {
		return "", &ReferenceLoopError{Type: t.model.Describe(id)}
	}

	base, err := t.Translate(info.Target, notNull)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if notNull {
		b.WriteString("!")
	}
	b.WriteString(base)
	if len(info.Args) > 0 {
		args := make([]string, len(info.Args))
		for i, arg := range info.Args {
			args[i], err = t.Translate(arg, notNull)
			if err != nil {
				return "", err
			}
		}
		b.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	return b.String(), nil
}

func (t *Translator) translateAnonymous(id types.TypeID, symID types.SymbolID, notNull bool) (string, error) {
	sym, ok := t.model.Symbol(symID)
	if !ok {
		// Synthetic/inferred shapes arrive without a symbol; nothing to name.
		t.warnf("anonymous type without symbol: %s", t.model.Describe(id))
		return Wildcard, nil
	}

	if sym.Flags&types.SymTypeLiteral != 0 {
		lit, err := t.translateTypeLiteral(id, symID)
		if err != nil {
			return "", err
		}
		if notNull {
			return "!" + lit, nil
		}
		return lit, nil
	}

	if sym.Flags&types.SymFunction != 0 {
		sigs := t.model.CallSignatures(id)
		if len(sigs) == 1 {
			return t.translateSignature(sigs[0])
		}
		t.warnf("unhandled anonymous function with %d call signatures: %s",
			len(sigs), t.model.Describe(id))
		return Wildcard, nil
	}

	t.warnf("unhandled anonymous type: %s", t.model.Describe(id))
	return Wildcard, nil
}

func (t *Translator) translateUnion(id types.TypeID) (string, error) {
	members := t.model.UnionMembers(id)
	parts := make([]string, len(members))
	for i, m := range members {
		// Union members are rendered without the forced non-null prefix.
		part, err := t.Translate(m, false)
		if err != nil {
			return "", err
		}
		parts[i] = part
	}
	return "(" + strings.Join(parts, "|") + ")", nil
}

func (t *Translator) warnf(format string, args ...any) {
	t.warn(fmt.Sprintf(format, args...))
}
