package dgeom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"opendwg/dwg/dobject"
)

func TestPalette(t *testing.T) {
	assert.Equal(t, RGB{255, 0, 0}, Palette[1])
	assert.Equal(t, RGB{255, 255, 255}, Palette[7])
	assert.Equal(t, RGB{255, 0, 0}, Palette[10])
	assert.Equal(t, RGB{255, 170, 170}, Palette[11])
	assert.Equal(t, RGB{0, 0, 255}, Palette[170])
	assert.Equal(t, RGB{51, 51, 51}, Palette[250])
	assert.Equal(t, RGB{255, 255, 255}, Palette[255])
}

func TestResolveColor(t *testing.T) {
	type TestCase struct {
		Name        string
		EntityColor int16
		LayerColor  int16
		Expected    *RGB
	}
	testCases := []TestCase{
		{
			Name:        "by layer",
			EntityColor: dobject.ColorByLayer,
			LayerColor:  5,
			Expected:    &Palette[5],
		},
		{
			Name:        "by layer of a layer that is off",
			EntityColor: dobject.ColorByLayer,
			LayerColor:  -3,
			Expected:    &Palette[3],
		},
		{
			Name:        "explicit index ignores the layer",
			EntityColor: 1,
			LayerColor:  5,
			Expected:    &Palette[1],
		},
		{
			Name:        "by block",
			EntityColor: dobject.ColorByBlock,
			LayerColor:  5,
			Expected:    &Palette[0],
		},
		{
			Name:        "out of range",
			EntityColor: 300,
			LayerColor:  5,
			Expected:    nil,
		},
		{
			Name:        "negative",
			EntityColor: -7,
			LayerColor:  5,
			Expected:    nil,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			assert.Equal(t, testCase.Expected, ResolveColor(testCase.EntityColor, testCase.LayerColor))
		})
	}
}
