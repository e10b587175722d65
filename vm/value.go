package vm

import (
	"fmt"
	"strconv"
)

// ValueKind tags the active member of a Value.
type ValueKind int

const (
	ValNil ValueKind = iota
	ValBool
	ValNumber
	ValObj
)

// Value is a tagged union over the language's runtime values. Unlike the
// NaN-boxed encoding some bytecode VMs use, heap references are held as a
// real *Obj so Go's garbage collector can see and trace them; only one of
// Bool/Num/Obj is meaningful at a time, selected by Kind.
type Value struct {
	Kind ValueKind
	Bool bool
	Num  float64
	Obj  *Obj
}

var NilVal = Value{Kind: ValNil}

func BoolVal(b bool) Value {
	return Value{Kind: ValBool, Bool: b}
}

func NumberVal(n float64) Value {
	return Value{Kind: ValNumber, Num: n}
}

func ObjVal(o *Obj) Value {
	return Value{Kind: ValObj, Obj: o}
}

func (v Value) IsNil() bool    { return v.Kind == ValNil }
func (v Value) IsBool() bool   { return v.Kind == ValBool }
func (v Value) IsNumber() bool { return v.Kind == ValNumber }
func (v Value) IsObj() bool    { return v.Kind == ValObj }

func (v Value) AsBool() bool      { return v.Bool }
func (v Value) AsNumber() float64 { return v.Num }
func (v Value) AsObj() *Obj       { return v.Obj }

func (v Value) IsString() bool {
	return v.Kind == ValObj && v.Obj.Type == ObjTypeString
}

func (v Value) AsString() *ObjString {
	return v.Obj.AsString()
}

// TypeName reports the runtime type name used in error messages.
func (v Value) TypeName() string {
	switch v.Kind {
	case ValNil:
		return "nil"
	case ValBool:
		return "bool"
	case ValNumber:
		return "number"
	case ValObj:
		return v.Obj.TypeName()
	default:
		return "unknown"
	}
}

// String renders v the way PRINT does: numbers with %g, booleans and nil as
// bare words, strings with their raw contents.
func (v Value) String() string {
	switch v.Kind {
	case ValNil:
		return "nil"
	case ValBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case ValNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValObj:
		return v.Obj.String()
	default:
		return fmt.Sprintf("<unknown value kind %d>", v.Kind)
	}
}

// IsFalsey reports whether v is treated as false in a boolean context: nil
// and the boolean false are falsey, everything else is truthy.
func (v Value) IsFalsey() bool {
	return v.IsNil() || (v.IsBool() && !v.AsBool())
}

// Equals implements Lox equality: values of different kinds are never equal,
// and object equality is by identity (the interning table is what makes
// identity equivalent to content equality for strings).
func Equals(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ValNil:
		return true
	case ValBool:
		return a.Bool == b.Bool
	case ValNumber:
		return a.Num == b.Num
	case ValObj:
		return a.Obj == b.Obj
	default:
		return false
	}
}
