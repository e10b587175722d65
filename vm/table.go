package vm

// tableMaxLoad is the load factor past which Table grows its backing array.
const tableMaxLoad = 0.75

// entry is one slot of a Table. A nil Key with a Nil Value marks an empty
// slot that was never occupied; a nil Key with a non-Nil Value (Bool(true))
// marks a tombstone left by Delete, which findEntry must probe past but
// which Set is free to reuse.
type entry struct {
	Key   *ObjString
	Value Value
}

// Table is an open-addressed hash map keyed by interned strings, with
// linear probing and tombstone deletion. It backs both the VM's global
// variable bindings and its string-interning set.
type Table struct {
	count   int
	entries []entry
}

func (t *Table) Count() int { return t.count }

func findEntry(entries []entry, key *ObjString) *entry {
	capacity := len(entries)
	index := int(key.Hash) % capacity
	var tombstone *entry

	for {
		e := &entries[index]

		if e.Key == nil {
			if e.Value.IsNil() {
				if tombstone != nil {
					return tombstone
				}
				return e
			}
			if tombstone == nil {
				tombstone = e
			}
		} else if e.Key == key {
			return e
		}

		index = (index + 1) % capacity
	}
}

func (t *Table) adjustCapacity(capacity int) {
	entries := make([]entry, capacity)
	for i := range entries {
		entries[i] = entry{Key: nil, Value: NilVal}
	}

	t.count = 0
	for i := range t.entries {
		old := &t.entries[i]
		if old.Key == nil {
			continue
		}
		dest := findEntry(entries, old.Key)
		dest.Key = old.Key
		dest.Value = old.Value
		t.count++
	}

	t.entries = entries
}

// Get looks up key, returning the bound value and whether it was present.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if len(t.entries) == 0 {
		return NilVal, false
	}

	e := findEntry(t.entries, key)
	if e.Key == nil {
		return NilVal, false
	}
	return e.Value, true
}

// Set binds key to value, growing the table first if doing so would push it
// past its load factor. Reports whether key was not already present.
func (t *Table) Set(key *ObjString, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*tableMaxLoad {
		capacity := growCapacity(len(t.entries))
		t.adjustCapacity(capacity)
	}

	e := findEntry(t.entries, key)
	isNewKey := e.Key == nil
	if isNewKey && e.Value.IsNil() {
		t.count++
	}

	e.Key = key
	e.Value = value
	return isNewKey
}

// Delete removes key, leaving a tombstone behind so later probes for
// colliding keys still find their slot.
func (t *Table) Delete(key *ObjString) bool {
	if t.count == 0 {
		return false
	}

	e := findEntry(t.entries, key)
	if e.Key == nil {
		return false
	}

	e.Key = nil
	e.Value = BoolVal(true)
	return true
}

// FindString probes for a previously interned string with the given
// contents and hash, without allocating an ObjString to compare against.
// This is what makes string interning possible: new lexemes are hashed and
// looked up by content before any heap object is built for them.
func (t *Table) FindString(chars string, hash uint32) *ObjString {
	if len(t.entries) == 0 {
		return nil
	}

	capacity := len(t.entries)
	index := int(hash) % capacity

	for {
		e := &t.entries[index]

		if e.Key == nil {
			if e.Value.IsNil() {
				return nil
			}
		} else if e.Key.Hash == hash && e.Key.Chars == chars {
			return e.Key
		}

		index = (index + 1) % capacity
	}
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}
