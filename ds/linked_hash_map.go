package ds

import (
	"bytes"
	"encoding/json"
)

// LinkedHashMap is a map that remembers the order keys were first put in,
// both for Keys and for its JSON form.
type LinkedHashMap[K comparable, V any] struct {
	hashMap  map[K]V
	ordering []K
}

func NewLinkedHashMap[K comparable, V any]() *LinkedHashMap[K, V] {
	return &LinkedHashMap[K, V]{
		hashMap:  map[K]V{},
		ordering: make([]K, 0),
	}
}

func (r *LinkedHashMap[K, V]) Len() int {
	return len(r.ordering)
}

func (r *LinkedHashMap[K, V]) Keys() []K {
	return ShallowCopy(r.ordering)
}

// Put keeps the position of a key that is already present.
func (r *LinkedHashMap[K, V]) Put(key K, value V) {
	if _, existed := r.hashMap[key]; !existed {
		r.ordering = append(r.ordering, key)
	}
	r.hashMap[key] = value
}

func (r *LinkedHashMap[K, V]) Get(key K) (V, bool) {
	value, ok := r.hashMap[key]
	return value, ok
}

// Update replaces the value of key with f of its current value, the zero
// value when absent.
func (r *LinkedHashMap[K, V]) Update(key K, f func(V) V) V {
	value, _ := r.Get(key)
	value = f(value)
	r.Put(key, value)
	return value
}

func (r LinkedHashMap[K, V]) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}

	buf.WriteRune('{')
	for i, key := range r.ordering {
		keyBs, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		if len(keyBs) == 0 || keyBs[0] != '"' {
			// object keys must be strings
			keyBs, err = json.Marshal(string(keyBs))
			if err != nil {
				return nil, err
			}
		}
		buf.Write(keyBs)

		buf.WriteRune(':')

		valueBs, err := json.Marshal(r.hashMap[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valueBs)

		if i < len(r.ordering)-1 {
			buf.WriteRune(',')
		}
	}
	buf.WriteRune('}')

	return buf.Bytes(), nil
}
