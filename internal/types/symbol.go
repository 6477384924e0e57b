package types

import (
	"annot/internal/source"
)

// SymbolID uniquely identifies a symbol inside the interner.
type SymbolID uint32

// NoSymbolID marks the absence of a symbol.
const NoSymbolID SymbolID = 0

// SymbolFlags classify a symbol declaration.
type SymbolFlags uint16

const (
	// SymOptional marks an optional member (name?: T).
	SymOptional SymbolFlags = 1 << iota
	// SymTypeLiteral marks a plain structural literal symbol.
	SymTypeLiteral
	// SymFunction marks a function-only symbol.
	SymFunction
	// SymProperty marks a named field member.
	SymProperty
)

// Member names the frontend uses as sentinels inside structural literals.
const (
	CallMemberName  = "__call"
	IndexMemberName = "__index"
)

// Symbol describes a named declaration: its name, classification flags,
// the type it resolves to at the use site, and member symbols in
// declaration order.
type Symbol struct {
	Name    source.StringID
	Flags   SymbolFlags
	Type    TypeID
	Members []SymbolID
}

// Signature is an ordered parameter list plus a return type.
type Signature struct {
	Params []SymbolID
	Result TypeID
}
