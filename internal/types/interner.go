package types

import (
	"fmt"

	"fortio.org/safecast"

	"annot/internal/source"
)

// Builtins stores TypeIDs for the primitive types every model shares.
type Builtins struct {
	Any           TypeID
	String        TypeID
	Number        TypeID
	Boolean       TypeID
	Void          TypeID
	Undefined     TypeID
	Null          TypeID
	Enum          TypeID
	StringLiteral TypeID
}

// ReferenceInfo stores metadata for a generic instantiation.
type ReferenceInfo struct {
	Target TypeID
	Args   []TypeID
}

// UnionInfo stores the member types of a union in declared order.
type UnionInfo struct {
	Members []TypeID
}

// IndexInfo stores declared index-signature value types.
type IndexInfo struct {
	String TypeID
	Number TypeID
}

// Interner owns the type model for one translation session: types,
// symbols, signatures, and interned names. The translation engine reads
// it through the annotate.Model interface; the frontend adapter fills it
// through the Register*/Set* API.
type Interner struct {
	types    []Type
	refs     []ReferenceInfo
	unions   []UnionInfo
	symbols  []Symbol
	sigs     map[TypeID][]Signature
	indexes  map[TypeID]IndexInfo
	builtins Builtins

	// Strings interns all symbol names.
	Strings *source.Interner
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		sigs:    make(map[TypeID][]Signature),
		indexes: make(map[TypeID]IndexInfo),
		Strings: source.NewInterner(),
	}
	in.types = append(in.types, Type{Kind: KindInvalid}) // reserve NoTypeID
	in.refs = append(in.refs, ReferenceInfo{})           // reserve 0 as invalid sentinel
	in.unions = append(in.unions, UnionInfo{})
	in.symbols = append(in.symbols, Symbol{}) // reserve NoSymbolID
	in.builtins.Any = in.add(Type{Kind: KindAny})
	in.builtins.String = in.add(Type{Kind: KindString})
	in.builtins.Number = in.add(Type{Kind: KindNumber})
	in.builtins.Boolean = in.add(Type{Kind: KindBoolean})
	in.builtins.Void = in.add(Type{Kind: KindVoid})
	in.builtins.Undefined = in.add(Type{Kind: KindUndefined})
	in.builtins.Null = in.add(Type{Kind: KindNull})
	in.builtins.Enum = in.add(Type{Kind: KindEnum})
	in.builtins.StringLiteral = in.add(Type{Kind: KindStringLiteral})
	return in
}

// Builtins returns TypeIDs for the primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

func (in *Interner) add(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// SetPattern marks the type as originating from a destructuring pattern.
func (in *Interner) SetPattern(id TypeID, pattern bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return
	}
	in.types[id].Pattern = pattern
}

// RegisterNamed allocates an interface or class type bound to a symbol.
func (in *Interner) RegisterNamed(kind Kind, sym SymbolID) TypeID {
	if kind != KindInterface && kind != KindClass {
		panic(fmt.Errorf("types: RegisterNamed on %v", kind))
	}
	return in.add(Type{Kind: kind, Symbol: sym})
}

// RegisterReference allocates a generic instantiation of target with the
// given type arguments.
func (in *Interner) RegisterReference(target TypeID, args []TypeID) TypeID {
	slot := in.appendRefInfo(ReferenceInfo{Target: target, Args: cloneTypeIDs(args)})
	return in.add(Type{Kind: KindReference, Payload: slot})
}

// SetReferenceTarget repoints an already-registered reference. The
// frontend adapter needs this when a generic's target becomes known only
// after the instantiation was allocated.
func (in *Interner) SetReferenceTarget(id, target TypeID) {
	info := in.refInfo(id)
	if info == nil {
		return
	}
	info.Target = target
}

// Reference returns metadata for the provided reference TypeID.
func (in *Interner) Reference(id TypeID) (*ReferenceInfo, bool) {
	info := in.refInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

// RegisterAnonymous allocates a structural type carrying only a symbol.
// NoSymbolID is allowed: synthetic/inferred shapes have no symbol at all.
func (in *Interner) RegisterAnonymous(sym SymbolID) TypeID {
	return in.add(Type{Kind: KindAnonymous, Symbol: sym})
}

// RegisterUnion allocates a union over members in declared order.
func (in *Interner) RegisterUnion(members []TypeID) TypeID {
	slot := in.appendUnionInfo(UnionInfo{Members: cloneTypeIDs(members)})
	return in.add(Type{Kind: KindUnion, Payload: slot})
}

// UnionMembers returns the union's member types in declared order.
func (in *Interner) UnionMembers(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.unions) {
		return nil
	}
	return in.unions[tt.Payload].Members
}

// NewSymbol allocates a symbol with the given name, flags, and use-site type.
func (in *Interner) NewSymbol(name string, flags SymbolFlags, typ TypeID) SymbolID {
	lenSyms, err := safecast.Conv[uint32](len(in.symbols))
	if err != nil {
		panic(fmt.Errorf("len(symbols) overflow: %w", err))
	}
	id := SymbolID(lenSyms)
	in.symbols = append(in.symbols, Symbol{
		Name:  in.Strings.Intern(name),
		Flags: flags,
		Type:  typ,
	})
	return id
}

// Symbol returns the descriptor for a SymbolID.
func (in *Interner) Symbol(id SymbolID) (*Symbol, bool) {
	if id == NoSymbolID || int(id) >= len(in.symbols) {
		return nil, false
	}
	return &in.symbols[id], true
}

// SymbolName resolves the symbol's interned name, "" when absent.
func (in *Interner) SymbolName(id SymbolID) string {
	sym, ok := in.Symbol(id)
	if !ok {
		return ""
	}
	name, _ := in.Strings.Lookup(sym.Name)
	return name
}

// TypeOfSymbol resolves the symbol's type at its use site.
func (in *Interner) TypeOfSymbol(id SymbolID) TypeID {
	sym, ok := in.Symbol(id)
	if !ok {
		return NoTypeID
	}
	return sym.Type
}

// SetSymbolType updates a symbol's use-site type.
func (in *Interner) SetSymbolType(id SymbolID, typ TypeID) {
	if sym, ok := in.Symbol(id); ok {
		sym.Type = typ
	}
}

// SetMembers stores the symbol's members in declaration order.
func (in *Interner) SetMembers(id SymbolID, members []SymbolID) {
	sym, ok := in.Symbol(id)
	if !ok {
		return
	}
	sym.Members = cloneSymbolIDs(members)
}

// Members returns the symbol's members in declaration order.
func (in *Interner) Members(id SymbolID) []SymbolID {
	sym, ok := in.Symbol(id)
	if !ok {
		return nil
	}
	return sym.Members
}

// SetCallSignatures stores the call signatures declared on a type.
func (in *Interner) SetCallSignatures(id TypeID, sigs []Signature) {
	cp := make([]Signature, len(sigs))
	for i, sig := range sigs {
		cp[i] = Signature{Params: cloneSymbolIDs(sig.Params), Result: sig.Result}
	}
	in.sigs[id] = cp
}

// CallSignatures returns the call signatures declared on a type.
func (in *Interner) CallSignatures(id TypeID) []Signature {
	return in.sigs[id]
}

// SetIndexTypes stores the string/number index-signature value types.
// NoTypeID means the index signature is absent.
func (in *Interner) SetIndexTypes(id TypeID, stringIndex, numberIndex TypeID) {
	in.indexes[id] = IndexInfo{String: stringIndex, Number: numberIndex}
}

// StringIndexType returns the declared string-index value type.
func (in *Interner) StringIndexType(id TypeID) TypeID {
	return in.indexes[id].String
}

// NumberIndexType returns the declared numeric-index value type.
func (in *Interner) NumberIndexType(id TypeID) TypeID {
	return in.indexes[id].Number
}

func (in *Interner) refInfo(id TypeID) *ReferenceInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindReference {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.refs) {
		return nil
	}
	return &in.refs[tt.Payload]
}

func (in *Interner) appendRefInfo(info ReferenceInfo) uint32 {
	in.refs = append(in.refs, info)
	slot, err := safecast.Conv[uint32](len(in.refs) - 1)
	if err != nil {
		panic(fmt.Errorf("reference info overflow: %w", err))
	}
	return slot
}

func (in *Interner) appendUnionInfo(info UnionInfo) uint32 {
	in.unions = append(in.unions, info)
	slot, err := safecast.Conv[uint32](len(in.unions) - 1)
	if err != nil {
		panic(fmt.Errorf("union info overflow: %w", err))
	}
	return slot
}

func cloneTypeIDs(ids []TypeID) []TypeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TypeID, len(ids))
	copy(out, ids)
	return out
}

func cloneSymbolIDs(ids []SymbolID) []SymbolID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]SymbolID, len(ids))
	copy(out, ids)
	return out
}
