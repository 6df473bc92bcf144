package export

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"opendwg/dwg"
	"opendwg/dwg/dgeom"
	"opendwg/dwg/dobject"
	"opendwg/dwg/dwgtest"
	"opendwg/dwg/lbits"
)

func openDrawing(t *testing.T, drawing *dwgtest.Drawing) *dwg.File {
	data, err := drawing.Bytes()
	require.NoError(t, err)
	file, err := dwg.Open(data, dwg.Options{})
	require.NoError(t, err)
	return file
}

func createFile(t *testing.T) *dwg.File {
	extrusion := lbits.Vector{Z: 1}
	objects := []dobject.Object{
		&dobject.Line{
			Entity:    dobject.NewEntity(dobject.TypeLine, 0x40, dwgtest.WallsLayer),
			End:       lbits.Vector{X: 100, Y: 50},
			Extrusion: extrusion,
		},
		&dobject.Circle{
			Entity:    dobject.NewEntity(dobject.TypeCircle, 0x41, dwgtest.DefaultLayer),
			Center:    lbits.Vector{X: 50, Y: 25},
			Radius:    10,
			Extrusion: extrusion,
		},
		&dobject.Arc{
			Entity:     dobject.NewEntity(dobject.TypeArc, 0x42, dwgtest.DefaultLayer),
			Center:     lbits.Vector{X: 20, Y: 20},
			Radius:     5,
			Extrusion:  extrusion,
			EndAngle:   math.Pi / 2,
		},
		&dobject.Text{
			Entity: dobject.NewEntity(dobject.TypeText, 0x43, dwgtest.WallsLayer),
			TextData: dobject.TextData{
				Insertion:   lbits.Vector{X: 5, Y: 45},
				Extrusion:   extrusion,
				Height:      2.5,
				WidthFactor: 1,
				Value:       "NORTH WING",
			},
		},
		&dobject.LWPolyline{
			Entity:    dobject.NewEntity(dobject.TypeLWPolyline, 0x44, dwgtest.DefaultLayer),
			Flags:     0x200,
			Extrusion: extrusion,
			Vertices:  []lbits.Vector{{X: 60}, {X: 90}, {X: 90, Y: 10}},
		},
	}
	return openDrawing(t, dwgtest.NewDrawing(0x40, 0x44, objects...))
}

func TestOutline(t *testing.T) {
	circle := Outline(&dgeom.Circle{Center: lbits.Vector{X: 1, Y: 1}, Radius: 2})
	require.Len(t, circle, 1)
	require.Len(t, circle[0], arcSegments+1)
	assert.InDelta(t, 3, circle[0][0].X, 1e-9)
	assert.InDelta(t, 1, circle[0][0].Y, 1e-9)
	assert.InDelta(t, circle[0][0].X, circle[0][arcSegments].X, 1e-9)

	quarter := Outline(&dgeom.Arc{Radius: 1, StartAngle: 0, EndAngle: math.Pi / 2})
	require.Len(t, quarter[0], arcSegments/4+1)
	last := quarter[0][len(quarter[0])-1]
	assert.InDelta(t, 0, last.X, 1e-9)
	assert.InDelta(t, 1, last.Y, 1e-9)

	vertices := []lbits.Vector{{X: 0}, {X: 1}, {X: 1, Y: 1}}
	polyline := Outline(&dgeom.LWPolyline{Closed: true, Vertices: vertices})
	assert.Equal(t, append(vertices, vertices[0]), polyline[0])
	assert.Len(t, vertices, 3)

	solid := Outline(&dgeom.Solid{Corners: [4]lbits.Vector{{X: 0}, {X: 1}, {Y: 1}, {X: 1, Y: 1}}})
	assert.Equal(t, []lbits.Vector{{X: 0}, {X: 1}, {X: 1, Y: 1}, {Y: 1}, {X: 0}}, solid[0])

	assert.Nil(t, Outline(&dgeom.Text{}))
	assert.Nil(t, Outline(&dgeom.Unknown{}))
}

func TestOutline_UnboundedAngles(t *testing.T) {
	for _, g := range []dgeom.Geometry{
		&dgeom.Arc{Radius: 1, StartAngle: 1e17, EndAngle: 0},
		&dgeom.Arc{Radius: 1, StartAngle: 0, EndAngle: 1e12},
		&dgeom.Ellipse{MajorAxis: lbits.Vector{X: 2}, AxisRatio: 0.5, StartAngle: -1e300, EndAngle: 1e300},
	} {
		outline := Outline(g)
		require.Len(t, outline, 1)
		assert.LessOrEqual(t, len(outline[0]), arcSegments+1)
		assert.GreaterOrEqual(t, len(outline[0]), 2)
		for _, v := range outline[0] {
			assert.LessOrEqual(t, math.Hypot(v.X, v.Y), 2+1e-9)
		}
	}

	for _, g := range []dgeom.Geometry{
		&dgeom.Arc{Radius: 1, StartAngle: math.NaN(), EndAngle: 1},
		&dgeom.Arc{Radius: 1, StartAngle: 0, EndAngle: math.Inf(1)},
		&dgeom.Ellipse{MajorAxis: lbits.Vector{X: 1}, AxisRatio: 1, EndAngle: math.Inf(-1)},
	} {
		assert.Nil(t, Outline(g))
	}

	full := Outline(&dgeom.Arc{Radius: 1, StartAngle: 1, EndAngle: 1})
	assert.Len(t, full[0], arcSegments+1)
}

func TestExtentsOf(t *testing.T) {
	drawn, err := Collect(createFile(t))
	require.NoError(t, err)
	require.Len(t, drawn, 2)
	assert.Len(t, drawn[0].Geometries, 3)
	assert.Len(t, drawn[1].Geometries, 2)

	extents := ExtentsOf(drawn)
	require.True(t, extents.Valid())
	assert.InDelta(t, 0, extents.Min.X, 1e-9)
	assert.InDelta(t, 0, extents.Min.Y, 1e-9)
	assert.InDelta(t, 100, extents.Max.X, 1e-9)
	assert.InDelta(t, 50, extents.Max.Y, 1e-9)

	empty := Extents{}
	empty.Add(lbits.Vector{X: math.NaN()})
	assert.False(t, empty.Valid())
}

func TestToOrderedMap(t *testing.T) {
	root, err := ToOrderedMap(createFile(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"metadata", "header", "tables", "classes", "layers"}, root.Keys())

	bs, err := json.Marshal(root)
	require.NoError(t, err)
	var decoded struct {
		Metadata dwg.Metadata `json:"metadata"`
		Layers   []struct {
			Name       string `json:"name"`
			Geometries []struct {
				Kind string `json:"kind"`
			} `json:"geometries"`
		} `json:"layers"`
	}
	require.NoError(t, json.Unmarshal(bs, &decoded))
	assert.Equal(t, 4, decoded.Metadata.Units)
	require.Len(t, decoded.Layers, 2)
	assert.Equal(t, "WALLS", decoded.Layers[1].Name)
	require.Len(t, decoded.Layers[1].Geometries, 2)
	assert.Equal(t, "line", decoded.Layers[1].Geometries[0].Kind)
	assert.Equal(t, "text", decoded.Layers[1].Geometries[1].Kind)
}

func TestWriteJSON_Compressed(t *testing.T) {
	file := createFile(t)
	plain := bytes.Buffer{}
	require.NoError(t, WriteJSON(&plain, file, false))
	compressed := bytes.Buffer{}
	require.NoError(t, WriteJSON(&compressed, file, true))

	decoder, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer decoder.Close()
	decompressed, err := decoder.DecodeAll(compressed.Bytes(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, plain.String(), string(decompressed))
}

func TestWriteXLSX(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, WriteXLSX(&buf, createFile(t)))

	workbook, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer workbook.Close()

	layers, err := workbook.GetRows(SheetLayers)
	require.NoError(t, err)
	require.Len(t, layers, 3)
	assert.Equal(t, "Name", layers[0][0])
	assert.Equal(t, []string{"0", "10", "7"}, layers[1][:3])
	assert.Equal(t, "WALLS", layers[2][0])
	assert.Equal(t, "9", layers[2][7])

	entities, err := workbook.GetRows(SheetEntities)
	require.NoError(t, err)
	require.Len(t, entities, 6)
	assert.Equal(t, []string{"0", "41", "", "circle"}, entities[1])
	assert.Equal(t, []string{"WALLS", "43", "", "text"}, entities[5])
}

func TestWriteDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dxf")
	require.NoError(t, WriteDXF(path, createFile(t), DefaultOptions()))

	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(bs)
	for _, expected := range []string{"WALLS", "LINE", "CIRCLE", "ARC", "TEXT", "NORTH WING"} {
		assert.Contains(t, content, expected)
	}
}

func TestWritePDF(t *testing.T) {
	buf := bytes.Buffer{}
	require.NoError(t, WritePDF(&buf, createFile(t), DefaultOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	empty := openDrawing(t, dwgtest.NewDrawing(0, 0))
	err := WritePDF(&bytes.Buffer{}, empty, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyDrawing)
}
