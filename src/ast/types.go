// types.go defines the closed set of Crux types as a tagged union and the double-dispatch typed
// operations over it (§4.2, §9 Design Notes). The source this compiler was modelled on gives Type
// a virtual method per operation overridden by subclasses; here each operation is a function doing
// an exhaustive switch over variant kinds, with the unhandled-pair arm producing an Error type.
// Only the variant pairs the operation is actually defined for bother to override that fallback.

package ast

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind tags the variant of a Type value.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindVoid
	KindArray
	KindFunc
	KindError
)

// Type is a Crux type. Array carries its element Kind (Int or Bool) and a fixed extent; Func
// carries its parameter types and return type; Error carries a diagnostic message and poisons any
// operation it participates in.
type Type struct {
	Kind    Kind
	Base    *Type   // Array: element type.
	Extent  int64   // Array: number of elements.
	Params  []*Type // Func: parameter types in order.
	Ret     *Type   // Func: return type.
	Message string  // Error: human readable detail.
}

// ---------------------
// ----- Constants -----
// ---------------------

// Int, Bool and Void are the three scalar types; they carry no per-instance state so one shared
// value of each is safe to reuse everywhere.
var (
	Int  = &Type{Kind: KindInt}
	Bool = &Type{Kind: KindBool}
	Void = &Type{Kind: KindVoid}
)

// ---------------------
// ----- functions -----
// ---------------------

// NewArray returns an array type of the given element base type and extent.
func NewArray(base *Type, extent int64) *Type {
	return &Type{Kind: KindArray, Base: base, Extent: extent}
}

// NewFunc returns a function type with the given parameter types and return type.
func NewFunc(params []*Type, ret *Type) *Type {
	return &Type{Kind: KindFunc, Params: params, Ret: ret}
}

// Errorf returns an Error type carrying a formatted diagnostic message.
func Errorf(format string, args ...interface{}) *Type {
	return &Type{Kind: KindError, Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether t is the Error variant.
func (t *Type) IsError() bool {
	return t.Kind == KindError
}

// String renders a type the way it appears in diagnostic detail strings.
func (t *Type) String() string {
	switch t.Kind {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindArray:
		return fmt.Sprintf("%s[%d]", t.Base, t.Extent)
	case KindFunc:
		return fmt.Sprintf("func(%s)%s", joinTypes(t.Params), t.Ret)
	default:
		return "error"
	}
}

func joinTypes(ts []*Type) string {
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s
}

// equivalent reports structural equivalence: scalars compare by kind, arrays compare by element
// type only (the extent is metadata, not part of equivalence per §3). Func equivalence is never
// required outside of call-site argument checking, which compares parameter lists directly
// instead of going through this method (§9 Design Notes, "open question — equivalent on FuncType").
func equivalent(a, b *Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindArray:
		return equivalent(a.Base, b.Base)
	case KindFunc:
		return false
	default:
		return true
	}
}

// Add implements the "add" typed operation: Int + Int -> Int, else Error.
func Add(lhs, rhs *Type) *Type { return arith("add", lhs, rhs) }

// Sub implements the "sub" typed operation: Int - Int -> Int, else Error.
func Sub(lhs, rhs *Type) *Type { return arith("sub", lhs, rhs) }

// Mul implements the "mul" typed operation: Int * Int -> Int, else Error.
func Mul(lhs, rhs *Type) *Type { return arith("mul", lhs, rhs) }

// Div implements the "div" typed operation: Int / Int -> Int, else Error.
func Div(lhs, rhs *Type) *Type { return arith("div", lhs, rhs) }

func arith(op string, lhs, rhs *Type) *Type {
	if lhs.Kind == KindInt && rhs.Kind == KindInt {
		return Int
	}
	return Errorf("cannot %s %s with %s", op, lhs, rhs)
}

// Relational implements the ordering comparisons ("<", "<=", ">", ">="): Int op Int -> Bool.
func Relational(op string, lhs, rhs *Type) *Type {
	if lhs.Kind == KindInt && rhs.Kind == KindInt {
		return Bool
	}
	return Errorf("cannot compare %s with %s using %s", lhs, rhs, op)
}

// Compare implements "==" and "!=": same-variant scalars -> Bool. Per the §4.2 dispatch note,
// equality is routed through the lhs type's compare method and extended to cover Bool as well as
// Int, rather than living in a table of its own.
func Compare(lhs, rhs *Type) *Type {
	if (lhs.Kind == KindInt || lhs.Kind == KindBool) && lhs.Kind == rhs.Kind {
		return Bool
	}
	return Errorf("cannot compare %s with %s", lhs, rhs)
}

// And implements "&&": Bool && Bool -> Bool.
func And(lhs, rhs *Type) *Type { return logical("and", lhs, rhs) }

// Or implements "||": Bool || Bool -> Bool.
func Or(lhs, rhs *Type) *Type { return logical("or", lhs, rhs) }

func logical(op string, lhs, rhs *Type) *Type {
	if lhs.Kind == KindBool && rhs.Kind == KindBool {
		return Bool
	}
	return Errorf("cannot %s %s with %s", op, lhs, rhs)
}

// Not implements "!": !Bool -> Bool.
func Not(operand *Type) *Type {
	if operand.Kind == KindBool {
		return Bool
	}
	return Errorf("cannot negate %s", operand)
}

// Index implements array indexing: Array[T,_] indexed by Int -> T.
func Index(arr, idx *Type) *Type {
	if arr.Kind != KindArray {
		return Errorf("cannot index non-array %s", arr)
	}
	if idx.Kind != KindInt {
		return Errorf("array index must be int, got %s", idx)
	}
	return arr.Base
}

// Assign implements assignment: lhs equivalent to rhs -> lhs type.
func Assign(lhs, rhs *Type) *Type {
	if lhs.Kind == KindError || rhs.Kind == KindError {
		return Errorf("cannot assign %s to %s", rhs, lhs)
	}
	if !equivalent(lhs, rhs) {
		return Errorf("cannot assign %s to %s", rhs, lhs)
	}
	return lhs
}

// Call implements call typing: callee must be Func(params, ret) and the argument types must be
// structurally equivalent to params, pairwise and in count; result is ret.
func Call(callee *Type, args []*Type) *Type {
	if callee.Kind != KindFunc {
		return Errorf("cannot call non-function %s", callee)
	}
	if len(args) != len(callee.Params) {
		return Errorf("function expects %d argument(s), got %d", len(callee.Params), len(args))
	}
	for i, p := range callee.Params {
		if !equivalent(p, args[i]) {
			return Errorf("argument %d: cannot use %s as %s", i+1, args[i], p)
		}
	}
	return callee.Ret
}
