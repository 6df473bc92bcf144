package dgeom

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendwg/dwg/dobject"
)

func doubleBytes(values ...float64) []byte {
	bs := make([]byte, 0, 8*len(values))
	for _, value := range values {
		bs = binary.LittleEndian.AppendUint64(bs, math.Float64bits(value))
	}
	return bs
}

func TestEEDString(t *testing.T) {
	type TestCase struct {
		Name     string
		Data     []byte
		Expected string
	}
	testCases := []TestCase{
		{Name: "empty", Data: nil, Expected: ""},
		{Name: "string", Data: []byte{0, 3, 0x1E, 0x00, 'a', 'b', 'c'}, Expected: "abc"},
		{Name: "truncated string", Data: []byte{0, 10, 0x1E, 0x00, 'a'}, Expected: ""},
		{Name: "invalid", Data: []byte{1, 0, 0}, Expected: ""},
		{Name: "open brace", Data: []byte{2, 0}, Expected: "{"},
		{Name: "close brace", Data: []byte{2, 1}, Expected: "}"},
		{
			Name:     "layer reference",
			Data:     []byte{3, 0, 0, 0, 0, 0, 0, 0, 0x1F},
			Expected: "Layer table ref (handle):000000000000001f",
		},
		{Name: "binary chunk", Data: []byte{4, 2, 0xAB, 0xCD}, Expected: "Binary chunk (chars):abcd"},
		{Name: "truncated binary chunk", Data: []byte{4, 5, 0xAB}, Expected: ""},
		{
			Name:     "entity reference",
			Data:     []byte{5, 0, 0, 0, 0, 0, 0, 0x01, 0x02},
			Expected: "Entity handle ref (handle):0000000000000102",
		},
		{
			Name:     "point",
			Data:     append([]byte{10}, doubleBytes(1, 2.5, -3)...),
			Expected: "Point: {1.000000;2.500000;-3.000000}",
		},
		{Name: "double", Data: append([]byte{41}, doubleBytes(0.25)...), Expected: "Double:0.250000"},
		{Name: "short", Data: []byte{70, 0xFE, 0xFF}, Expected: "Short:-2"},
		{Name: "long", Data: []byte{71, 0x10, 0x27, 0, 0}, Expected: "Long Int:10000"},
		{Name: "truncated long", Data: []byte{71, 0x10}, Expected: ""},
		{Name: "unknown tag", Data: []byte{99, 1, 2, 3}, Expected: ""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			assert.Equal(t, testCase.Expected, EEDString(testCase.Data))
		})
	}
}

func TestEEDStrings(t *testing.T) {
	assert.Nil(t, EEDStrings(nil))
	records := []dobject.EED{
		{Data: []byte{2, 0}},
		{Data: []byte{99}},
		{Data: []byte{2, 1}},
	}
	assert.Equal(t, []string{"{", "", "}"}, EEDStrings(records))
}

func TestEEDList_MarshalJSON(t *testing.T) {
	list := EEDList{{Data: []byte{2, 0}}, {Data: []byte{0, 2, 0x1E, 0x00, 'o', 'k'}}}
	data, err := json.Marshal(struct {
		EED EEDList `json:"eed,omitempty"`
	}{list})
	require.NoError(t, err)
	assert.JSONEq(t, `{"eed": ["{", "ok"]}`, string(data))
	assert.Equal(t, []string{"{", "ok"}, list.Strings())
}
