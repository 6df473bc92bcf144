package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendwg/dwg"
	"opendwg/dwg/dobject"
	"opendwg/dwg/dwgtest"
	"opendwg/dwg/lbits"
)

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func createBytes(t *testing.T) []byte {
	extrusion := lbits.Vector{Z: 1}
	drawing := dwgtest.NewDrawing(
		0x40, 0x42,
		&dobject.Line{
			Entity:    dobject.NewEntity(dobject.TypeLine, 0x40, dwgtest.WallsLayer),
			End:       lbits.Vector{X: 10, Y: 10},
			Extrusion: extrusion,
		},
		&dobject.Circle{
			Entity:    dobject.NewEntity(dobject.TypeCircle, 0x41, dwgtest.DefaultLayer),
			Radius:    1,
			Extrusion: extrusion,
		},
		&dobject.Text{
			Entity: dobject.NewEntity(dobject.TypeText, 0x42, dwgtest.WallsLayer),
			TextData: dobject.TextData{
				Extrusion:   extrusion,
				Height:      1,
				WidthFactor: 1,
				Value:       "NORTH WING",
			},
		},
	)
	data, err := drawing.Bytes()
	require.NoError(t, err)
	return data
}

func update(t *testing.T, model tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		next, cmd := model.Update(msg)
		assert.Nil(t, cmd)
		model = next
	}
	return model
}

func TestLayerBrowser_Update(t *testing.T) {
	file, err := dwg.Open(createBytes(t), dwg.Options{})
	require.NoError(t, err)
	browser := CreateLayerBrowser(file)
	assert.Contains(t, browser.View(), "> 0 ")

	model := update(t, browser, keyDown, keyEnter)
	view := model.View()
	assert.Contains(t, view, "Layer WALLS, 2 geometries")
	assert.Contains(t, view, "line")
	assert.Contains(t, view, `"NORTH WING"`)

	model = update(t, model, keyDown, keyEsc)
	assert.Contains(t, model.View(), "> WALLS")

	_, cmd := model.Update(keyQuit)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestReadDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.dwg", "B.DWG", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "x.dwg"), 0o755))

	files, err := ReadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []FileName{"B.DWG", "a.dwg"}, files)

	_, err = ReadDirectory(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestFileSelector_Open(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.dwg"), []byte("AC1015"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan.dwg"), createBytes(t), 0o644))

	selector, err := CreateFileSelector(dir, dwg.Options{})
	require.NoError(t, err)

	model := update(t, selector, keyEnter)
	require.IsType(t, FileSelector{}, model)
	assert.Error(t, model.(FileSelector).err)

	model = update(t, model, keyDown, keyEnter)
	require.IsType(t, LayerBrowser{}, model)
	assert.Contains(t, model.View(), "WALLS")
}
