package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"opendwg/dwg"
	"opendwg/dwg/dgeom"
	"opendwg/dwg/dlayer"
	"opendwg/export"
)

// LayerBrowser lists the layers of an opened drawing. Enter shows the
// geometries of the layer under the cursor, esc goes back.
type LayerBrowser struct {
	file   *dwg.File
	cursor int
	// layer is the index of the layer being shown, -1 on the layer list.
	layer  int
	rows   []string
	offset int
	err    error
}

const (
	pageSize = 20
)

func CreateLayerBrowser(file *dwg.File) LayerBrowser {
	return LayerBrowser{
		file:  file,
		layer: -1,
	}
}

func describe(member dlayer.Member, geometry dgeom.Geometry) string {
	row := fmt.Sprintf("%-11s %6X", geometry.Kind(), geometry.Common().Handle)
	if member.Insert != 0 {
		row += fmt.Sprintf("  via %X", member.Insert)
	}
	if value, _, _, ok := export.Label(geometry); ok {
		row += fmt.Sprintf("  %q", value)
	}
	return row
}

func (b LayerBrowser) open(index int) LayerBrowser {
	rows := make([]string, 0)
	err := b.file.EachGeometry(index, func(member dlayer.Member, geometry dgeom.Geometry) bool {
		rows = append(rows, describe(member, geometry))
		return true
	})
	if err != nil {
		b.err = err
		return b
	}
	b.err = nil
	b.layer = index
	b.rows = rows
	b.offset = 0
	return b
}

func (b LayerBrowser) View() string {
	if b.layer < 0 {
		return b.viewLayers()
	}
	return b.viewGeometries()
}

func (b LayerBrowser) viewLayers() string {
	metadata := b.file.Metadata()
	output := fmt.Sprintf("OPENDWG %s, %d layers\n\n", metadata.Version, len(b.file.Layers()))
	for i, layer := range b.file.Layers() {
		flags := make([]string, 0, 3)
		if !layer.On {
			flags = append(flags, "off")
		}
		if layer.Frozen {
			flags = append(flags, "frozen")
		}
		if layer.Locked {
			flags = append(flags, "locked")
		}
		output += fmt.Sprintf(
			"%s %-24s %4d members  color %d %s\n",
			pointer(i == b.cursor), layer.Name, len(layer.Members), layer.Color, strings.Join(flags, " "),
		)
	}
	if b.err != nil {
		output += "\n" + b.err.Error() + "\n"
	}
	output += "\nenter: geometries, q: quit\n"
	return output
}

func (b LayerBrowser) viewGeometries() string {
	layer := b.file.Layers()[b.layer]
	output := fmt.Sprintf("Layer %s, %d geometries\n\n", layer.Name, len(b.rows))
	end := b.offset + pageSize
	if end > len(b.rows) {
		end = len(b.rows)
	}
	for _, row := range b.rows[b.offset:end] {
		output += row + "\n"
	}
	output += "\nup/down: scroll, esc: layers, q: quit\n"
	return output
}

func (b LayerBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}
	switch key.String() {
	case "ctrl+c", "q":
		return b, tea.Quit
	}

	if b.layer < 0 {
		switch key.String() {
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < len(b.file.Layers())-1 {
				b.cursor++
			}
		case "enter":
			if len(b.file.Layers()) > 0 {
				b = b.open(b.cursor)
			}
		}
		return b, nil
	}

	switch key.String() {
	case "up", "k":
		if b.offset > 0 {
			b.offset--
		}
	case "down", "j":
		if b.offset+pageSize < len(b.rows) {
			b.offset++
		}
	case "esc", "backspace":
		b.layer = -1
		b.rows = nil
	}
	return b, nil
}

func (b LayerBrowser) Init() tea.Cmd {
	return nil
}
