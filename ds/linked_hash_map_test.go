package ds

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedHashMap_Keys(t *testing.T) {
	lhm := NewLinkedHashMap[string, int]()

	assert.Empty(t, lhm.Keys())

	lhm.Put("b", 1)
	lhm.Put("a", 2)
	lhm.Put("b", 3)

	assert.Equal(t, []string{"b", "a"}, lhm.Keys())
	assert.Equal(t, 2, lhm.Len())
	value, ok := lhm.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, value)
}

func TestLinkedHashMap_Update(t *testing.T) {
	lhm := NewLinkedHashMap[string, int]()
	increment := func(count int) int { return count + 1 }
	lhm.Update("DOOR", increment)
	lhm.Update("ROOM", increment)
	assert.Equal(t, 2, lhm.Update("DOOR", increment))

	assert.Equal(t, map[string]int{"DOOR": 2, "ROOM": 1}, lhm.hashMap)
}

func TestLinkedHashMap_MarshalJSON(t *testing.T) {
	lhm := NewLinkedHashMap[string, any]()
	lhm.Put("def", 1)
	lhm.Put("abc", "x")

	bs, err := json.Marshal(lhm)
	require.NoError(t, err)
	assert.Equal(t, `{"def":1,"abc":"x"}`, string(bs))

	numbered := NewLinkedHashMap[int, bool]()
	numbered.Put(7, true)
	bs, err = numbered.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"7":true}`, string(bs))
}
