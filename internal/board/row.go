// internal/board/row.go
package board

// Row is one flattened board item. Keys keep the order in which the item
// declared them; a key may be present with a null value, which is distinct
// from the key being absent.
type Row struct {
	keys   []string
	values map[string]*string
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]*string)}
}

// RowFrom builds a row from alternating key/value pairs. Used mostly by tests.
func RowFrom(pairs ...string) *Row {
	r := NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Set binds key to text, keeping the original position if the key exists.
func (r *Row) Set(key, text string) {
	r.put(key, &text)
}

// SetNull binds key to a null cell.
func (r *Row) SetNull(key string) {
	r.put(key, nil)
}

func (r *Row) put(key string, v *string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Keys returns the row's keys in declaration order.
func (r *Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Lookup reports the raw cell. present is false when the key is absent;
// value is nil when the key is present but null.
func (r *Row) Lookup(key string) (value *string, present bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Text returns the cell text with absent and null both coerced to "".
func (r *Row) Text(key string) string {
	v, ok := r.Lookup(key)
	if !ok || v == nil {
		return ""
	}
	return *v
}

// Len returns the number of keys in the row.
func (r *Row) Len() int {
	return len(r.keys)
}

// Collection is an ordered set of rows fetched from one board.
type Collection []*Row

// Schema returns the keys of the first row, which define column scan order.
func (c Collection) Schema() []string {
	if len(c) == 0 {
		return nil
	}
	return c[0].Keys()
}
