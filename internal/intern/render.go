package intern

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var primitiveNames = map[TypeId]string{
	INT: "Int", FLOAT: "Float", BOOL: "Bool", STR: "Str",
	CHAR: "Char", BYTE: "Byte", UNIT: "Unit", NEVER: "Never",
	INFER: "?infer", ERROR: "?error",
}

// String renders id for diagnostics and debug dumps. Grounded on the
// teacher's per-variant String() methods in typesystem/types.go, collapsed
// into one function since TypeData is a single tagged struct rather than a
// closed interface hierarchy.
//
// testMode normalizes fresh variable names to "t?" the way the teacher's
// TVar.String() does under config.IsTestMode/IsLSPMode, for deterministic
// golden output.
func String(strs *Strings, types *Types, id TypeId, testMode bool) string {
	if name, ok := primitiveNames[id]; ok {
		return name
	}
	d := types.Lookup(id)
	switch d.Kind {
	case KindVar:
		if testMode {
			return "t?"
		}
		return "t" + strconv.FormatUint(uint64(d.VarId), 10)
	case KindList:
		return "List<" + String(strs, types, d.Elem, testMode) + ">"
	case KindSet:
		return "Set<" + String(strs, types, d.Elem, testMode) + ">"
	case KindOption:
		return "Option<" + String(strs, types, d.Elem, testMode) + ">"
	case KindMap:
		return fmt.Sprintf("Map<%s, %s>", String(strs, types, d.Key, testMode), String(strs, types, d.Value, testMode))
	case KindResult:
		return fmt.Sprintf("Result<%s, %s>", String(strs, types, d.Ok, testMode), String(strs, types, d.Err, testMode))
	case KindRange:
		return "Range<" + String(strs, types, d.Elem, testMode) + ">"
	case KindChannel:
		return "Channel<" + String(strs, types, d.Elem, testMode) + ">"
	case KindTuple:
		parts := make([]string, len(d.Elems))
		for i, e := range d.Elems {
			parts[i] = String(strs, types, e, testMode)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindFunction:
		params := make([]string, len(d.Params))
		for i, p := range d.Params {
			params[i] = String(strs, types, p, testMode)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), String(strs, types, d.Ret, testMode))
	case KindNamed:
		return strs.Lookup(d.TypeName)
	case KindApplied:
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = String(strs, types, a, testMode)
		}
		return fmt.Sprintf("%s<%s>", strs.Lookup(d.TypeName), strings.Join(args, ", "))
	case KindProjection:
		return fmt.Sprintf("<%s as %s>::%s", String(strs, types, d.Base, testMode), strs.Lookup(d.Trait), strs.Lookup(d.Assoc))
	case KindModuleNamespace:
		return "module"
	case KindRow:
		fields := append([]FieldType(nil), d.Fields...)
		sort.Slice(fields, func(i, j int) bool { return strs.Lookup(fields[i].Name) < strs.Lookup(fields[j].Name) })
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = fmt.Sprintf("%s: %s", strs.Lookup(f.Name), String(strs, types, f.Field, testMode))
		}
		suffix := ""
		if d.RowVar != INVALID {
			suffix = " | " + String(strs, types, d.RowVar, testMode)
		} else if d.IsOpen {
			suffix = ", ..."
		}
		return "{ " + strings.Join(parts, ", ") + suffix + " }"
	case KindUnion:
		parts := make([]string, len(d.Members))
		for i, m := range d.Members {
			parts[i] = String(strs, types, m, testMode)
		}
		return strings.Join(parts, " | ")
	case KindError:
		return "?error"
	default:
		return "?"
	}
}
