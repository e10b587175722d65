package vm

import "testing"

func internedKey(t *testing.T, vm *VM, s string) *ObjString {
	t.Helper()
	return vm.CopyString(s)
}

func TestTable_SetGetDelete(t *testing.T) {
	var tbl Table
	machine := New()
	key := internedKey(t, machine, "answer")

	if _, ok := tbl.Get(key); ok {
		t.Fatalf("expected miss on empty table")
	}

	isNew := tbl.Set(key, NumberVal(42))
	if !isNew {
		t.Fatalf("first Set should report a new key")
	}

	value, ok := tbl.Get(key)
	if !ok || value.AsNumber() != 42 {
		t.Fatalf("got (%v, %v), want (42, true)", value, ok)
	}

	if tbl.Set(key, NumberVal(43)) {
		t.Fatalf("overwriting an existing key should report isNewKey=false")
	}

	if !tbl.Delete(key) {
		t.Fatalf("Delete on a present key should succeed")
	}
	if _, ok := tbl.Get(key); ok {
		t.Fatalf("deleted key should no longer be found")
	}
}

func TestTable_TombstoneAllowsReuseAndDoesNotHideLaterEntries(t *testing.T) {
	var tbl Table
	machine := New()
	a := internedKey(t, machine, "a")
	b := internedKey(t, machine, "b")

	tbl.Set(a, NumberVal(1))
	tbl.Set(b, NumberVal(2))
	tbl.Delete(a)

	if _, ok := tbl.Get(a); ok {
		t.Fatalf("deleted key should not be found")
	}
	value, ok := tbl.Get(b)
	if !ok || value.AsNumber() != 2 {
		t.Fatalf("probing past a tombstone should still find b, got (%v, %v)", value, ok)
	}

	if !tbl.Set(a, NumberVal(3)) {
		t.Fatalf("re-setting a deleted key should report a new key")
	}
	if tbl.Count() != 2 {
		t.Fatalf("reusing a tombstone should not grow the count, got %d", tbl.Count())
	}
	value, ok = tbl.Get(a)
	if !ok || value.AsNumber() != 3 {
		t.Fatalf("re-set key should be found in the reused slot, got (%v, %v)", value, ok)
	}
}

func TestTable_GrowsPastLoadFactor(t *testing.T) {
	var tbl Table
	machine := New()

	for i := 0; i < 64; i++ {
		key := internedKey(t, machine, string(rune('a'+i%26))+string(rune('A'+i)))
		tbl.Set(key, NumberVal(float64(i)))
	}

	if tbl.Count() != 64 {
		t.Fatalf("expected 64 entries, got %d", tbl.Count())
	}
	for i := 0; i < 64; i++ {
		key := internedKey(t, machine, string(rune('a'+i%26))+string(rune('A'+i)))
		value, ok := tbl.Get(key)
		if !ok || value.AsNumber() != float64(i) {
			t.Fatalf("entry %d missing or wrong after growth: (%v, %v)", i, value, ok)
		}
	}
}

func TestTable_FindString(t *testing.T) {
	var tbl Table
	machine := New()
	key := internedKey(t, machine, "hello")
	tbl.Set(key, BoolVal(true))

	found := tbl.FindString("hello", hashString("hello"))
	if found != key {
		t.Fatalf("FindString did not return the interned key by identity")
	}

	if tbl.FindString("nope", hashString("nope")) != nil {
		t.Fatalf("FindString should miss on absent content")
	}
}
