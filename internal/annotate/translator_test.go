package annotate

import (
	"errors"
	"strings"
	"testing"

	"annot/internal/types"
)

func newTranslator(t *testing.T) (*types.Interner, *Translator, *[]string) {
	t.Helper()
	in := types.NewInterner()
	var warnings []string
	tr := New(in, func(msg string) { warnings = append(warnings, msg) })
	return in, tr, &warnings
}

func mustTranslate(t *testing.T, tr *Translator, id types.TypeID, notNull bool) string {
	t.Helper()
	got, err := tr.Translate(id, notNull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

func TestPrimitiveTable(t *testing.T) {
	in, tr, _ := newTranslator(t)
	b := in.Builtins()

	cases := []struct {
		id   types.TypeID
		want string
	}{
		{b.Any, "?"},
		{b.String, "string"},
		{b.Number, "number"},
		{b.Boolean, "boolean"},
		{b.Void, "void"},
		{b.Undefined, "undefined"},
		{b.Null, "null"},
		{b.Enum, "number"},
		{b.StringLiteral, "string"},
	}
	for _, tc := range cases {
		if got := mustTranslate(t, tr, tc.id, false); got != tc.want {
			t.Errorf("translate(%d) = %q, want %q", tc.id, got, tc.want)
		}
		// The table ignores notNull.
		if got := mustTranslate(t, tr, tc.id, true); got != tc.want {
			t.Errorf("translate(%d, notNull) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestNamedTypeRendersSymbolName(t *testing.T) {
	in, tr, _ := newTranslator(t)
	iface := in.RegisterNamed(types.KindInterface, in.NewSymbol("Duck", 0, types.NoTypeID))
	if got := mustTranslate(t, tr, iface, false); got != "Duck" {
		t.Fatalf("got %q", got)
	}
	cls := in.RegisterNamed(types.KindClass, in.NewSymbol("Swan", 0, types.NoTypeID))
	if got := mustTranslate(t, tr, cls, false); got != "Swan" {
		t.Fatalf("got %q", got)
	}
}

func TestReferenceWithArguments(t *testing.T) {
	in, tr, _ := newTranslator(t)
	arr := in.RegisterNamed(types.KindInterface, in.NewSymbol("Array", 0, types.NoTypeID))
	ref := in.RegisterReference(arr, []types.TypeID{in.Builtins().Number})
	if got := mustTranslate(t, tr, ref, false); got != "Array<number>" {
		t.Fatalf("got %q", got)
	}
}

func TestReferenceNotNullPrefix(t *testing.T) {
	in, tr, _ := newTranslator(t)
	m := in.RegisterNamed(types.KindClass, in.NewSymbol("Map", 0, types.NoTypeID))
	ref := in.RegisterReference(m, []types.TypeID{in.Builtins().String, in.Builtins().Number})

	plain := mustTranslate(t, tr, ref, false)
	if strings.HasPrefix(plain, "!") {
		t.Fatalf("notNull=false must not prefix: %q", plain)
	}
	forced := mustTranslate(t, tr, ref, true)
	if !strings.HasPrefix(forced, "!") {
		t.Fatalf("notNull=true must prefix: %q", forced)
	}
	if forced != "!Map<string, number>" {
		t.Fatalf("got %q", forced)
	}
}

func TestReferenceLoopFails(t *testing.T) {
	in, tr, _ := newTranslator(t)
	ref := in.RegisterReference(types.NoTypeID, nil)
	in.SetReferenceTarget(ref, ref)

	_, err := tr.Translate(ref, false)
	var loopErr *ReferenceLoopError
	if !errors.As(err, &loopErr) {
		t.Fatalf("expected ReferenceLoopError, got %v", err)
	}
	if loopErr.Type == "" {
		t.Fatalf("loop error must carry the debug string")
	}
}

func TestReferenceLoopInsideArgumentFails(t *testing.T) {
	in, tr, _ := newTranslator(t)
	loop := in.RegisterReference(types.NoTypeID, nil)
	in.SetReferenceTarget(loop, loop)
	arr := in.RegisterNamed(types.KindInterface, in.NewSymbol("Array", 0, types.NoTypeID))
	outer := in.RegisterReference(arr, []types.TypeID{loop})

	var loopErr *ReferenceLoopError
	if _, err := tr.Translate(outer, false); !errors.As(err, &loopErr) {
		t.Fatalf("loop in type argument must surface, got %v", err)
	}
}

func TestUnionOrderingAndParens(t *testing.T) {
	in, tr, _ := newTranslator(t)
	b := in.Builtins()
	u := in.RegisterUnion([]types.TypeID{b.String, b.Number, b.Null})
	if got := mustTranslate(t, tr, u, false); got != "(string|number|null)" {
		t.Fatalf("got %q", got)
	}
}

func TestUnionResetsNotNullForMembers(t *testing.T) {
	in, tr, _ := newTranslator(t)
	arr := in.RegisterNamed(types.KindInterface, in.NewSymbol("Array", 0, types.NoTypeID))
	ref := in.RegisterReference(arr, nil)
	u := in.RegisterUnion([]types.TypeID{ref, in.Builtins().Null})
	if got := mustTranslate(t, tr, u, true); got != "(Array|null)" {
		t.Fatalf("members must render without the forced prefix: %q", got)
	}
}

func TestRecordLiteral(t *testing.T) {
	in, tr, _ := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	a := in.NewSymbol("a", types.SymProperty, in.Builtins().Number)
	b := in.NewSymbol("b", types.SymProperty, in.Builtins().String)
	in.SetMembers(owner, []types.SymbolID{a, b})
	lit := in.RegisterAnonymous(owner)

	if got := mustTranslate(t, tr, lit, false); got != "{a: number, b: string}" {
		t.Fatalf("got %q", got)
	}
	if got := mustTranslate(t, tr, lit, true); got != "!{a: number, b: string}" {
		t.Fatalf("notNull literal got %q", got)
	}
}

func TestOptionalFieldRendering(t *testing.T) {
	in, tr, _ := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	opt := in.NewSymbol("optional", types.SymProperty|types.SymOptional, in.Builtins().Boolean)
	in.SetMembers(owner, []types.SymbolID{opt})
	lit := in.RegisterAnonymous(owner)

	if got := mustTranslate(t, tr, lit, false); got != "{optional: (boolean|undefined)}" {
		t.Fatalf("got %q", got)
	}
}

func TestEmptyObjectLiteral(t *testing.T) {
	in, tr, warnings := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	lit := in.RegisterAnonymous(owner)

	got := mustTranslate(t, tr, lit, false)
	if got != "Object" {
		t.Fatalf("empty literal must render the dedicated object annotation, got %q", got)
	}
	if got == "?" {
		t.Fatalf("empty literal must never degrade to the wildcard")
	}
	if len(*warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", *warnings)
	}
}

func TestCallOnlyLiteral(t *testing.T) {
	in, tr, _ := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	call := in.NewSymbol(types.CallMemberName, 0, types.NoTypeID)
	in.SetMembers(owner, []types.SymbolID{call})
	lit := in.RegisterAnonymous(owner)
	x := in.NewSymbol("x", types.SymProperty, in.Builtins().Number)
	in.SetCallSignatures(lit, []types.Signature{{Params: []types.SymbolID{x}, Result: in.Builtins().String}})

	if got := mustTranslate(t, tr, lit, false); got != "function(number): string" {
		t.Fatalf("got %q", got)
	}
}

func TestCallOnlyLiteralWithOverloadsWarns(t *testing.T) {
	in, tr, warnings := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	call := in.NewSymbol(types.CallMemberName, 0, types.NoTypeID)
	in.SetMembers(owner, []types.SymbolID{call})
	lit := in.RegisterAnonymous(owner)
	in.SetCallSignatures(lit, []types.Signature{
		{Result: in.Builtins().String},
		{Result: in.Builtins().Number},
	})

	if got := mustTranslate(t, tr, lit, false); got != "?" {
		t.Fatalf("overloaded literal must degrade, got %q", got)
	}
	if len(*warnings) == 0 {
		t.Fatalf("expected a warning")
	}
}

func TestStringIndexLiteral(t *testing.T) {
	in, tr, _ := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	index := in.NewSymbol(types.IndexMemberName, 0, types.NoTypeID)
	in.SetMembers(owner, []types.SymbolID{index})
	lit := in.RegisterAnonymous(owner)
	in.SetIndexTypes(lit, in.Builtins().Number, types.NoTypeID)

	if got := mustTranslate(t, tr, lit, false); got != "Mapping<string, number>" {
		t.Fatalf("got %q", got)
	}
}

func TestNumberIndexFallback(t *testing.T) {
	in, tr, _ := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	index := in.NewSymbol(types.IndexMemberName, 0, types.NoTypeID)
	in.SetMembers(owner, []types.SymbolID{index})
	lit := in.RegisterAnonymous(owner)
	in.SetIndexTypes(lit, types.NoTypeID, in.Builtins().Boolean)

	if got := mustTranslate(t, tr, lit, false); got != "Mapping<number, boolean>" {
		t.Fatalf("got %q", got)
	}
}

func TestIndexLiteralWithoutIndexTypesDegrades(t *testing.T) {
	in, tr, warnings := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	index := in.NewSymbol(types.IndexMemberName, 0, types.NoTypeID)
	in.SetMembers(owner, []types.SymbolID{index})
	lit := in.RegisterAnonymous(owner)

	if got := mustTranslate(t, tr, lit, false); got != "Mapping<?, ?>" {
		t.Fatalf("got %q", got)
	}
	if len(*warnings) == 0 {
		t.Fatalf("expected a warning")
	}
}

func TestFieldsPlusCallableWarns(t *testing.T) {
	in, tr, warnings := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	call := in.NewSymbol(types.CallMemberName, 0, types.NoTypeID)
	f := in.NewSymbol("f", types.SymProperty, in.Builtins().Number)
	in.SetMembers(owner, []types.SymbolID{call, f})
	lit := in.RegisterAnonymous(owner)

	if got := mustTranslate(t, tr, lit, false); got != "?" {
		t.Fatalf("got %q", got)
	}
	if len(*warnings) == 0 {
		t.Fatalf("expected a warning")
	}
}

func TestAnonymousFunctionSymbol(t *testing.T) {
	in, tr, _ := newTranslator(t)
	fn := in.NewSymbol("", types.SymFunction, types.NoTypeID)
	id := in.RegisterAnonymous(fn)
	x := in.NewSymbol("x", types.SymProperty, in.Builtins().Number)
	in.SetCallSignatures(id, []types.Signature{{Params: []types.SymbolID{x}, Result: in.Builtins().String}})

	if got := mustTranslate(t, tr, id, false); got != "function(number): string" {
		t.Fatalf("got %q", got)
	}
}

func TestAnonymousWithoutSymbolWarns(t *testing.T) {
	in, tr, warnings := newTranslator(t)
	id := in.RegisterAnonymous(types.NoSymbolID)
	if got := mustTranslate(t, tr, id, false); got != "?" {
		t.Fatalf("got %q", got)
	}
	if len(*warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", *warnings)
	}
}

func TestSignatureWithVoidReturnKeepsSuffix(t *testing.T) {
	in, tr, _ := newTranslator(t)
	fn := in.NewSymbol("", types.SymFunction, types.NoTypeID)
	id := in.RegisterAnonymous(fn)
	in.SetCallSignatures(id, []types.Signature{{Result: in.Builtins().Void}})

	if got := mustTranslate(t, tr, id, false); got != "function(): void" {
		t.Fatalf("got %q", got)
	}
}

func TestWarningsDoNotAbortSiblings(t *testing.T) {
	in, tr, warnings := newTranslator(t)
	owner := in.NewSymbol("", types.SymTypeLiteral, types.NoTypeID)
	bad := in.NewSymbol("bad", types.SymProperty, in.RegisterAnonymous(types.NoSymbolID))
	good := in.NewSymbol("good", types.SymProperty, in.Builtins().Number)
	in.SetMembers(owner, []types.SymbolID{bad, good})
	lit := in.RegisterAnonymous(owner)

	if got := mustTranslate(t, tr, lit, false); got != "{bad: ?, good: number}" {
		t.Fatalf("got %q", got)
	}
	if len(*warnings) == 0 {
		t.Fatalf("expected a warning from the degraded field")
	}
}

func TestDefaultWarnHookIsNoOp(t *testing.T) {
	in := types.NewInterner()
	tr := New(in, nil)
	if got, err := tr.Translate(in.RegisterAnonymous(types.NoSymbolID), false); err != nil || got != "?" {
		t.Fatalf("got %q, %v", got, err)
	}
}
