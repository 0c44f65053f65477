/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package value

// Object is a string-keyed map that preserves member insertion order.
// The zero value is not usable; construct with NewObject.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Kind returns KindObject.
func (o *Object) Kind() Kind { return KindObject }

func (o *Object) sealed() {}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns member names in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)

	return keys
}

// Get returns the member value for key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]

	return v, ok
}

// Has reports whether key is a member.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]

	return ok
}

// Set adds or replaces a member. A new key is appended; replacing an
// existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.values[key] = v
}

// Delete removes a member and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}

	delete(o.values, key)

	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}

	return true
}

// Copy returns a deep copy of the object.
func (o *Object) Copy() *Object {
	cp := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]Value, len(o.values)),
	}

	copy(cp.keys, o.keys)

	for k, v := range o.values {
		cp.values[k] = Copy(v)
	}

	return cp
}

// Equal reports whether two objects have the same members, in the same
// order, with equal values.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}

	if len(o.keys) != len(other.keys) {
		return false
	}

	for i, k := range o.keys {
		if other.keys[i] != k {
			return false
		}

		if !Equal(o.values[k], other.values[k]) {
			return false
		}
	}

	return true
}
