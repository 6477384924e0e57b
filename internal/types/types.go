package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types. The frontend's bit-flag
// classification arrives here already collapsed into a closed tagged set;
// every kind the translator does not handle explicitly degrades through
// its unhandled-shape arm.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindAny
	KindString
	KindNumber
	KindBoolean
	KindVoid
	KindUndefined
	KindNull
	KindEnum
	KindStringLiteral
	KindInterface
	KindClass
	KindReference
	KindAnonymous
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindVoid:
		return "void"
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindEnum:
		return "enum"
	case KindStringLiteral:
		return "string literal"
	case KindInterface:
		return "interface"
	case KindClass:
		return "class"
	case KindReference:
		return "reference"
	case KindAnonymous:
		return "anonymous"
	case KindUnion:
		return "union"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type. Reference and
// union payloads live in side tables keyed by Payload.
type Type struct {
	Kind    Kind
	Symbol  SymbolID // named declaration, NoSymbolID when unnamed
	Payload uint32   // side-table slot for references/unions
	Pattern bool     // destructuring origin; affects diagnostics only
}
