package types

import (
	"strings"
)

// Describe renders a type as a diagnostic string: kind, symbol name,
// structural markers. Only ever used in warnings and error messages,
// never in program output.
func Describe(in *Interner, id TypeID) string {
	return describeDepth(in, id, 0)
}

// Describe is the method form used through the model interface.
func (in *Interner) Describe(id TypeID) string {
	return Describe(in, id)
}

func describeDepth(in *Interner, id TypeID, depth int) string {
	if in == nil || id == NoTypeID {
		return "<none>"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}

	var b strings.Builder
	if tt.Pattern {
		b.WriteString("pattern ")
	}
	switch tt.Kind {
	case KindInterface, KindClass:
		b.WriteString(tt.Kind.String())
		writeSymbolName(&b, in, tt.Symbol)
	case KindReference:
		b.WriteString("reference")
		if info, ok := in.Reference(id); ok {
			if info.Target != id {
				b.WriteString(" to ")
				b.WriteString(describeDepth(in, info.Target, depth+1))
			} else {
				b.WriteString(" to itself")
			}
			if len(info.Args) > 0 {
				parts := make([]string, len(info.Args))
				for i, arg := range info.Args {
					parts[i] = describeDepth(in, arg, depth+1)
				}
				b.WriteString("<" + strings.Join(parts, ", ") + ">")
			}
		}
	case KindAnonymous:
		b.WriteString("anonymous")
		writeSymbolName(&b, in, tt.Symbol)
		if sym, ok := in.Symbol(tt.Symbol); ok {
			b.WriteString(describeSymbolFlags(sym.Flags))
		}
	case KindUnion:
		members := in.UnionMembers(id)
		parts := make([]string, len(members))
		for i, m := range members {
			parts[i] = describeDepth(in, m, depth+1)
		}
		b.WriteString("union(" + strings.Join(parts, " | ") + ")")
	default:
		b.WriteString(tt.Kind.String())
		writeSymbolName(&b, in, tt.Symbol)
	}
	return b.String()
}

func writeSymbolName(b *strings.Builder, in *Interner, sym SymbolID) {
	if name := in.SymbolName(sym); name != "" {
		b.WriteString(" ")
		b.WriteString(name)
	}
}

func describeSymbolFlags(flags SymbolFlags) string {
	var marks []string
	if flags&SymTypeLiteral != 0 {
		marks = append(marks, "literal")
	}
	if flags&SymFunction != 0 {
		marks = append(marks, "function")
	}
	if flags&SymOptional != 0 {
		marks = append(marks, "optional")
	}
	if len(marks) == 0 {
		return ""
	}
	return " [" + strings.Join(marks, " ") + "]"
}
