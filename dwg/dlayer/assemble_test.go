package dlayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opendwg/dwg/dgeom"
	"opendwg/dwg/dlimit"
	"opendwg/dwg/dmap"
	"opendwg/dwg/dobject"
	"opendwg/dwg/lbits"
)

const (
	layerControlHandle = 0x02
	defaultLayer       = 0x10
	wallsLayer         = 0x11
	modelSpaceHandle   = 0x1F
)

func createLayers() []dobject.Object {
	control := &dobject.Control{
		Record:     dobject.NewRecord(dobject.TypeLayerControl, layerControlHandle, 0),
		NumEntries: 2,
		Entries: []lbits.Handle{
			lbits.NewHandle(lbits.HandleCodeSoftOwner, defaultLayer),
			lbits.NewHandle(lbits.HandleCodeSoftOwner, wallsLayer),
		},
	}
	return []dobject.Object{
		control,
		&dobject.Layer{
			Record: dobject.NewRecord(dobject.TypeLayer, defaultLayer, layerControlHandle),
			Name:   "0",
			Flags:  0x02,
			Color:  7,
		},
		&dobject.Layer{
			Record: dobject.NewRecord(dobject.TypeLayer, wallsLayer, layerControlHandle),
			Name:   "WALLS",
			Flags:  0x02 | 0x08 | 9<<5,
			Color:  3,
		},
	}
}

func createBlockHeader(handle uint64, name string, first uint64, last uint64) *dobject.BlockHeader {
	return &dobject.BlockHeader{
		Record:      dobject.NewRecord(dobject.TypeBlockHeader, handle, 0x01),
		Name:        name,
		FirstEntity: lbits.NewHandle(lbits.HandleCodeSoftPointer, first),
		LastEntity:  lbits.NewHandle(lbits.HandleCodeSoftPointer, last),
	}
}

func createLine(handle uint64, layer uint64, start lbits.Vector, end lbits.Vector) *dobject.Line {
	return &dobject.Line{
		Entity:    dobject.NewEntity(dobject.TypeLine, handle, layer),
		Start:     start,
		End:       end,
		Extrusion: lbits.Vector{Z: 1},
	}
}

func createInsert(handle uint64, layer uint64, block uint64, insertion lbits.Vector, scale float64) *dobject.Insert {
	return &dobject.Insert{
		Entity:         dobject.NewEntity(dobject.TypeInsert, handle, layer),
		InsertionPoint: insertion,
		Scale:          lbits.Vector{X: scale, Y: scale, Z: scale},
		Extrusion:      lbits.Vector{Z: 1},
		BlockHeader:    lbits.NewHandle(lbits.HandleCodeSoftPointer, block),
	}
}

func createSource(t *testing.T, objects ...dobject.Object) dobject.Source {
	objects = append(createLayers(), objects...)
	data, entries, err := dobject.EncodeAll(0, objects...)
	require.NoError(t, err)
	return dobject.NewDecoder(data, dmap.IndexOf(entries...), nil, 0)
}

func memberHandles(layer *Layer) []uint64 {
	handles := make([]uint64, 0, len(layer.Members))
	for _, member := range layer.Members {
		handles = append(handles, member.Entity)
	}
	return handles
}

func TestAssemble_Classify(t *testing.T) {
	source := createSource(t,
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x42),
		createLine(0x40, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
		&dobject.Circle{
			Entity:    dobject.NewEntity(dobject.TypeCircle, 0x41, wallsLayer),
			Radius:    1,
			Extrusion: lbits.Vector{Z: 1},
		},
		createLine(0x42, wallsLayer, lbits.Vector{}, lbits.Vector{Y: 1}),
		createLine(0x43, defaultLayer, lbits.Vector{}, lbits.Vector{Y: 2}),
	)

	layers, err := Assemble(source, layerControlHandle, modelSpaceHandle, Options{})
	require.NoError(t, err)
	require.Len(t, layers, 2)

	assert.Equal(t, "0", layers[0].Name)
	assert.Equal(t, uint64(defaultLayer), layers[0].Handle)
	assert.Equal(t, int16(7), layers[0].Color)
	assert.Equal(t, []uint64{0x40}, memberHandles(layers[0]))
	assert.Nil(t, layers[0].Members[0].Transform)
	assert.Zero(t, layers[0].Members[0].Insert)

	assert.Equal(t, "WALLS", layers[1].Name)
	assert.True(t, layers[1].On)
	assert.True(t, layers[1].Locked)
	assert.False(t, layers[1].Frozen)
	assert.Equal(t, uint8(9), layers[1].LineWeight)
	assert.Equal(t, []uint64{0x41, 0x42}, memberHandles(layers[1]))
}

func TestAssemble_Cycle(t *testing.T) {
	a := createLine(0x40, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1})
	a.NoLinks = false
	a.Previous = lbits.NewHandle(lbits.HandleCodeHardPointer, 0x41)
	a.Next = lbits.NewHandle(lbits.HandleCodeHardPointer, 0x41)
	b := createLine(0x41, wallsLayer, lbits.Vector{}, lbits.Vector{X: 2})
	b.NoLinks = false
	b.Previous = lbits.NewHandle(lbits.HandleCodeHardPointer, 0x40)
	b.Next = lbits.NewHandle(lbits.HandleCodeHardPointer, 0x40)
	source := createSource(t, createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x99), a, b)

	layers, err := Assemble(source, layerControlHandle, modelSpaceHandle, Options{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x40}, memberHandles(layers[0]))
	assert.Equal(t, []uint64{0x41}, memberHandles(layers[1]))
}

func TestAssemble_InsertExpansion(t *testing.T) {
	source := createSource(t,
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x40),
		createBlockHeader(0x30, "DOOR", 0x60, 0x60),
		createInsert(0x40, wallsLayer, 0x30, lbits.Vector{X: 10}, 2),
		createLine(0x60, defaultLayer, lbits.Vector{X: 1, Y: 2}, lbits.Vector{X: 3, Y: 4, Z: 5}),
	)

	layers, err := Assemble(source, layerControlHandle, modelSpaceHandle, Options{})
	require.NoError(t, err)
	assert.Empty(t, layers[0].Members)
	require.Len(t, layers[1].Members, 1)
	member := layers[1].Members[0]
	assert.Equal(t, uint64(0x60), member.Entity)
	assert.Equal(t, uint64(0x40), member.Insert)
	require.NotNil(t, member.Transform)

	geometry, err := dgeom.NewMaterializer(source).Materialize(member.Entity, layers[1].Placement(member))
	require.NoError(t, err)
	line, ok := geometry.(*dgeom.Line)
	require.True(t, ok)
	assert.Equal(t, lbits.Vector{X: 12, Y: 4}, line.Start)
	assert.Equal(t, lbits.Vector{X: 16, Y: 8, Z: 10}, line.End)
	assert.Equal(t, dgeom.Palette[3], *line.Color)
}

func TestAssemble_InsertedTwice(t *testing.T) {
	source := createSource(t,
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x41),
		createBlockHeader(0x30, "DOOR", 0x60, 0x60),
		createInsert(0x40, wallsLayer, 0x30, lbits.Vector{X: 10}, 1),
		createInsert(0x41, wallsLayer, 0x30, lbits.Vector{Y: -10}, 1),
		createLine(0x60, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
	)

	layers, err := Assemble(source, layerControlHandle, modelSpaceHandle, Options{})
	require.NoError(t, err)
	require.Len(t, layers[1].Members, 2)
	first, second := layers[1].Members[0], layers[1].Members[1]
	assert.Equal(t, first.Entity, second.Entity)
	assert.Equal(t, uint64(0x40), first.Insert)
	assert.Equal(t, uint64(0x41), second.Insert)
	assert.Equal(t, lbits.Vector{X: 10}, first.Transform.Apply(lbits.Vector{}))
	assert.Equal(t, lbits.Vector{Y: -10}, second.Transform.Apply(lbits.Vector{}))
}

func TestAssemble_NestedInsert(t *testing.T) {
	source := createSource(t,
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x40),
		createBlockHeader(0x30, "ROOM", 0x60, 0x60),
		createBlockHeader(0x31, "DOOR", 0x70, 0x70),
		createInsert(0x40, wallsLayer, 0x30, lbits.Vector{X: 100}, 1),
		createInsert(0x60, defaultLayer, 0x31, lbits.Vector{Y: 10}, 3),
		createLine(0x70, defaultLayer, lbits.Vector{X: 1, Y: 1}, lbits.Vector{X: 2, Y: 2}),
	)

	layers, err := Assemble(source, layerControlHandle, modelSpaceHandle, Options{})
	require.NoError(t, err)
	require.Len(t, layers[1].Members, 1)
	member := layers[1].Members[0]
	assert.Equal(t, uint64(0x70), member.Entity)
	assert.Equal(t, uint64(0x40), member.Insert)
	assert.Equal(t, lbits.Vector{X: 103, Y: 13}, member.Transform.Apply(lbits.Vector{X: 1, Y: 1}))
}

func TestAssemble_RecursiveBlock(t *testing.T) {
	source := createSource(t,
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x40),
		createBlockHeader(0x30, "LOOP", 0x60, 0x61),
		createInsert(0x40, wallsLayer, 0x30, lbits.Vector{}, 1),
		createLine(0x60, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
		createInsert(0x61, defaultLayer, 0x30, lbits.Vector{X: 5}, 1),
	)

	layers, err := Assemble(source, layerControlHandle, modelSpaceHandle, Options{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x60}, memberHandles(layers[1]))
}

func TestAssemble_MInsert(t *testing.T) {
	minsert := createInsert(0x40, wallsLayer, 0x30, lbits.Vector{X: 1, Y: 1}, 1)
	minsert.Kind = dobject.TypeMInsert
	minsert.NumColumns = 2
	minsert.NumRows = 1
	minsert.ColumnSpacing = 5
	source := createSource(t,
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x40),
		createBlockHeader(0x30, "POST", 0x60, 0x60),
		minsert,
		createLine(0x60, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
	)

	layers, err := Assemble(source, layerControlHandle, modelSpaceHandle, Options{})
	require.NoError(t, err)
	require.Len(t, layers[1].Members, 2)
	assert.Equal(t, lbits.Vector{X: 1, Y: 1}, layers[1].Members[0].Transform.Apply(lbits.Vector{}))
	assert.Equal(t, lbits.Vector{X: 6, Y: 1}, layers[1].Members[1].Transform.Apply(lbits.Vector{}))
}

func TestAssemble_Attributes(t *testing.T) {
	insert := createInsert(0x40, wallsLayer, 0x30, lbits.Vector{}, 1)
	insert.HasAttribs = true
	insert.FirstAttrib = lbits.NewHandle(lbits.HandleCodeHardPointer, 0x41)
	insert.LastAttrib = lbits.NewHandle(lbits.HandleCodeHardPointer, 0x42)
	insert.SeqEnd = lbits.NewHandle(lbits.HandleCodeHardOwner, 0x43)
	createAttrib := func(kind dobject.Type, handle uint64, tag string) *dobject.Attrib {
		return &dobject.Attrib{
			Entity: dobject.NewEntity(kind, handle, defaultLayer),
			TextData: dobject.TextData{
				Extrusion: lbits.Vector{Z: 1},
				Height:    1,
				Value:     "x",
			},
			Tag: tag,
		}
	}
	source := createSource(t,
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x40),
		createBlockHeader(0x30, "ROOM", 0x60, 0x61),
		insert,
		createAttrib(dobject.TypeAttrib, 0x41, "ROOM"),
		createAttrib(dobject.TypeAttrib, 0x42, "AREA"),
		createAttrib(dobject.TypeAttdef, 0x60, "ROOM"),
		createLine(0x61, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
	)

	layers, err := Assemble(source, layerControlHandle, modelSpaceHandle, Options{})
	require.NoError(t, err)
	walls := layers[1]
	assert.Equal(t, []string{"ROOM", "AREA"}, walls.TagNames())
	count, ok := walls.Tags.Get("ROOM")
	require.True(t, ok)
	assert.Equal(t, 2, count)
	assert.Equal(t, []uint64{0x61}, memberHandles(walls))
}

func TestAssemble_Unsupported(t *testing.T) {
	objects := []dobject.Object{
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x41),
		&dobject.GenericEntity{Entity: dobject.NewEntity(dobject.TypeHatch, 0x40, defaultLayer)},
		createLine(0x41, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
	}

	layers, err := Assemble(createSource(t, objects...), layerControlHandle, modelSpaceHandle, Options{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x41}, memberHandles(layers[0]))

	layers, err = Assemble(createSource(t, objects...), layerControlHandle, modelSpaceHandle, Options{IncludeUnsupported: true})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x40, 0x41}, memberHandles(layers[0]))
}

func TestAssemble_MissingTables(t *testing.T) {
	source := createSource(t)

	_, err := Assemble(source, layerControlHandle, modelSpaceHandle, Options{})
	assert.ErrorIs(t, err, ErrNoModelSpace)

	_, err = Assemble(source, 0x99, modelSpaceHandle, Options{})
	assert.ErrorIs(t, err, ErrNoLayerControl)

	_, err = Assemble(source, defaultLayer, modelSpaceHandle, Options{})
	assert.ErrorIs(t, err, ErrNoLayerControl)
}

func TestAssemble_ExpansionCeiling(t *testing.T) {
	const depth = 30
	objects := []dobject.Object{
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x42),
		createInsert(0x40, wallsLayer, 0x100, lbits.Vector{}, 1),
		createInsert(0x41, wallsLayer, 0x100, lbits.Vector{X: 1}, 1),
		createLine(0x42, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
	}
	// every block inserts the next one twice, doubling the work per level
	for i := uint64(0); i < depth; i++ {
		first := 0x200 + 2*i
		objects = append(objects,
			createBlockHeader(0x100+i, "FAN", first, first+1),
			createInsert(first, defaultLayer, 0x101+i, lbits.Vector{}, 1),
			createInsert(first+1, defaultLayer, 0x101+i, lbits.Vector{Y: 1}, 1),
		)
	}
	objects = append(objects,
		createBlockHeader(0x100+depth, "LEAF", 0x300, 0x300),
		createLine(0x300, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
	)
	source := createSource(t, objects...)

	limits := ceilings{members: dlimit.MaxChainLength, expansions: 200}
	layers, err := assemble(source, layerControlHandle, modelSpaceHandle, Options{}, limits)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x42}, memberHandles(layers[0]))
	assert.NotEmpty(t, layers[1].Members)
	assert.LessOrEqual(t, len(layers[1].Members), 200)
	for _, member := range layers[1].Members {
		assert.Equal(t, uint64(0x300), member.Entity)
		assert.Equal(t, uint64(0x40), member.Insert)
	}
}

func TestAssemble_MemberCeiling(t *testing.T) {
	minsert := createInsert(0x40, wallsLayer, 0x30, lbits.Vector{}, 1)
	minsert.Kind = dobject.TypeMInsert
	minsert.NumColumns = 2
	minsert.NumRows = 2
	minsert.ColumnSpacing = 5
	minsert.RowSpacing = 5
	source := createSource(t,
		createBlockHeader(modelSpaceHandle, "*Model_Space", 0x40, 0x41),
		createBlockHeader(0x30, "POSTS", 0x60, 0x61),
		minsert,
		createLine(0x41, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
		createLine(0x60, defaultLayer, lbits.Vector{}, lbits.Vector{X: 1}),
		createLine(0x61, defaultLayer, lbits.Vector{}, lbits.Vector{Y: 1}),
	)

	limits := ceilings{members: 3, expansions: dlimit.MaxExpansions}
	layers, err := assemble(source, layerControlHandle, modelSpaceHandle, Options{}, limits)
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, []uint64{0x60, 0x61, 0x60}, memberHandles(layers[1]))
	assert.Empty(t, layers[0].Members)
}
