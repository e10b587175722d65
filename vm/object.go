package vm

import "strings"

// ObjType tags the kind of heap object an Obj points at. Only strings exist
// at this stage of the language.
type ObjType int

const (
	ObjTypeString ObjType = iota
)

// Obj is the header every heap object embeds. next threads every allocated
// object into a single intrusive list rooted at VM.objects. The VM has no
// teardown step that walks this list; the objects are reclaimed by Go's GC
// together with the VM.
type Obj struct {
	Type ObjType
	next *Obj

	str *ObjString
}

func (o *Obj) TypeName() string {
	switch o.Type {
	case ObjTypeString:
		return "string"
	default:
		return "object"
	}
}

func (o *Obj) String() string {
	switch o.Type {
	case ObjTypeString:
		return o.str.Chars
	default:
		return "<object>"
	}
}

func (o *Obj) AsString() *ObjString {
	return o.str
}

// ObjString is an interned, immutable string. Two ObjStrings with equal
// contents are always the same *ObjString once they have passed through the
// VM's string table, which is what lets Value equality compare string
// objects by pointer instead of by content.
type ObjString struct {
	obj   *Obj
	Chars string
	Hash  uint32
}

// Obj returns the heap object header wrapping s, for building a Value with
// ObjVal.
func (s *ObjString) Obj() *Obj {
	return s.obj
}

// hashString implements the FNV-1a variant the original bytecode format
// uses for string keys.
func hashString(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}

// allocateString wraps chars in a new heap object, links it into the VM's
// object list, and returns the Obj wrapper alongside it.
func (vm *VM) allocateString(chars string, hash uint32) *ObjString {
	str := &ObjString{Chars: chars, Hash: hash}
	obj := &Obj{Type: ObjTypeString, str: str}
	str.obj = obj

	obj.next = vm.objects
	vm.objects = obj

	return str
}

// TakeString interns chars, which the caller is done with and does not
// intend to reuse (e.g. the result of a concatenation). If an equal string
// is already interned, the freshly built one is discarded and the existing
// object is returned.
func (vm *VM) TakeString(chars string) *ObjString {
	hash := hashString(chars)
	if existing := vm.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	return vm.internNew(chars, hash)
}

// CopyString interns a string the caller does not own (e.g. a lexeme slice
// of the source text), copying it into the heap only if it is not already
// interned.
func (vm *VM) CopyString(chars string) *ObjString {
	hash := hashString(chars)
	if existing := vm.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	return vm.internNew(strings.Clone(chars), hash)
}

func (vm *VM) internNew(chars string, hash uint32) *ObjString {
	str := vm.allocateString(chars, hash)
	vm.strings.Set(str, NilVal)
	return str
}
