package annotate

import (
	"strings"

	"annot/internal/types"
)

// translateTypeLiteral renders a plain structural literal: named fields,
// a lone call signature, an index signature, or the empty object.
func (t *Translator) translateTypeLiteral(id types.TypeID, symID types.SymbolID) (string, error) {
	var callable, indexable bool
	var fields []string

	for _, memberID := range t.model.Members(symID) {
		member, ok := t.model.Symbol(memberID)
		if !ok {
			continue
		}
		name := t.model.SymbolName(memberID)
		switch name {
		case types.CallMemberName:
			callable = true
		case types.IndexMemberName:
			indexable = true
		default:
			rendered, err := t.Translate(t.model.TypeOfSymbol(memberID), false)
			if err != nil {
				return "", err
			}
			if member.Flags&types.SymOptional != 0 {
				rendered = "(" + rendered + "|undefined)"
			}
			fields = append(fields, name+": "+rendered)
		}
	}

	if len(fields) == 0 {
		switch {
		case callable && !indexable:
			sigs := t.model.CallSignatures(id)
			if len(sigs) == 1 {
				return t.translateSignature(sigs[0])
			}
			// More than one signature: handled by the fallthrough warning below.
		case indexable && !callable:
			return t.translateIndex(id)
		case !callable && !indexable:
			return EmptyObject, nil
		}
	}

	if !callable && !indexable {
		return "{" + strings.Join(fields, ", ") + "}", nil
	}

	t.warnf("unhandled anonymous type: %s", t.model.Describe(id))
	return Wildcard, nil
}

// translateIndex renders an index-only literal as a two-parameter map
// annotation. Either index flavor may supply the value type; the string
// index wins when both are declared.
func (t *Translator) translateIndex(id types.TypeID) (string, error) {
	keyType := "string"
	valueID := t.model.StringIndexType(id)
	if valueID == types.NoTypeID {
		keyType = "number"
		valueID = t.model.NumberIndexType(id)
	}
	if valueID == types.NoTypeID {
		t.warnf("unknown index type: %s", t.model.Describe(id))
		return "Mapping<" + Wildcard + ", " + Wildcard + ">", nil
	}
	valueType, err := t.Translate(valueID, false)
	if err != nil {
		return "", err
	}
	return "Mapping<" + keyType + ", " + valueType + ">", nil
}

// translateSignature renders a call signature in function-annotation form.
func (t *Translator) translateSignature(sig types.Signature) (string, error) {
	params := make([]string, len(sig.Params))
	for i, p := range sig.Params {
		rendered, err := t.Translate(t.model.TypeOfSymbol(p), false)
		if err != nil {
			return "", err
		}
		params[i] = rendered
	}
	out := "function(" + strings.Join(params, ", ") + ")"
	ret, err := t.Translate(sig.Result, false)
	if err != nil {
		return "", err
	}
	// A return annotation can in principle render empty; omit the suffix then.
	if ret != "" {
		out += ": " + ret
	}
	return out, nil
}
