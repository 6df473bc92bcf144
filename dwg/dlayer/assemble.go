package dlayer

import (
	"github.com/pkg/errors"

	"opendwg/dlog"
	"opendwg/ds"
	"opendwg/dwg/dgeom"
	"opendwg/dwg/dlimit"
	"opendwg/dwg/dobject"
	"opendwg/dwg/lbits"
)

type (
	// expansion is an insert waiting to be replaced by the entities of its
	// block. root is the model space insert it descends from, blocks the
	// block headers being expanded above it.
	expansion struct {
		insert uint64
		root   uint64
		layer  int
		parent dgeom.Matrix
		blocks []uint64
	}

	// ceilings bound the work one table may take: placed members and insert
	// expansions.
	ceilings struct {
		members    int
		expansions int
	}

	assembler struct {
		source     dobject.Source
		options    Options
		ceilings   ceilings
		layers     []*Layer
		pending    *ds.Stack[expansion]
		members    int
		expansions int
		// full is set once no more members can be placed, exhausted once no
		// more inserts may be expanded.
		full      bool
		exhausted bool
	}
)

var defaultCeilings = ceilings{
	members:    dlimit.MaxChainLength,
	expansions: dlimit.MaxExpansions,
}

// Assemble reads the layers listed by the layer control object and places
// every model space entity on its layer. Inserts are replaced by the
// entities of their block, nested inserts included. Only an unreadable
// layer control or model space block header fails the whole table; entities
// that cannot be read are skipped, and a table that outgrows its ceilings
// keeps what was placed so far.
func Assemble(source dobject.Source, layerControl uint64, modelSpace uint64, options Options) ([]*Layer, error) {
	return assemble(source, layerControl, modelSpace, options, defaultCeilings)
}

func assemble(source dobject.Source, layerControl uint64, modelSpace uint64, options Options, limits ceilings) ([]*Layer, error) {
	a := &assembler{
		source:   source,
		options:  options,
		ceilings: limits,
		layers:   make([]*Layer, 0),
		pending:  ds.NewStack[expansion](),
	}
	if err := a.readLayers(layerControl); err != nil {
		return nil, errors.Wrap(err, "dlayer.Assemble error")
	}

	header, err := a.blockHeader(modelSpace)
	if err != nil {
		return nil, errors.Wrapf(ErrNoModelSpace, "dlayer.Assemble handle %X: %v", modelSpace, err)
	}
	err = a.walk(header, func(entity dobject.EntityObject) bool {
		data := entity.EntityData()
		index := a.classify(data.Resolve(data.Layer))
		if index < 0 {
			dlog.Debugf("entity %X is on unknown layer %X", data.Handle, data.Resolve(data.Layer))
			return true
		}
		if !a.place(index, entity, 0, nil, nil) {
			return false
		}
		a.drain()
		return !a.full
	})
	if err != nil {
		dlog.Logf("model space %X: %v", modelSpace, err)
	}
	return a.layers, nil
}

func (a *assembler) readLayers(handle uint64) error {
	object, err := a.source.Decode(handle, false)
	if err != nil {
		return errors.Wrapf(ErrNoLayerControl, "handle %X: %v", handle, err)
	}
	control, err := dobject.As[*dobject.Control](object)
	if err != nil || control.ObjectType() != dobject.TypeLayerControl {
		return errors.Wrapf(ErrNoLayerControl, "handle %X is %s", handle, object.ObjectType())
	}

	seen := ds.NewSet[uint64]()
	for _, entry := range control.Entries {
		layerHandle := control.Resolve(entry)
		if layerHandle == 0 || !seen.Add(layerHandle) {
			continue
		}
		object, err := a.source.Decode(layerHandle, false)
		if err != nil {
			dlog.Debugf("layer %X: %v", layerHandle, err)
			continue
		}
		record, err := dobject.As[*dobject.Layer](object)
		if err != nil {
			dlog.Debugf("layer %X: %v", layerHandle, err)
			continue
		}
		a.layers = append(a.layers, &Layer{
			Name:                 record.Name,
			Handle:               layerHandle,
			Frozen:               record.Frozen(),
			On:                   record.On(),
			FrozenInNewViewports: record.FrozenInNewViewports(),
			Locked:               record.Locked(),
			Plotting:             record.Plotting(),
			Color:                record.Color,
			LineWeight:           record.LineWeight(),
			Members:              make([]Member, 0),
			Tags:                 ds.NewLinkedHashMap[string, int](),
		})
	}
	return nil
}

func (a *assembler) blockHeader(handle uint64) (*dobject.BlockHeader, error) {
	object, err := a.source.Decode(handle, false)
	if err != nil {
		return nil, err
	}
	return dobject.As[*dobject.BlockHeader](object)
}

func (a *assembler) walk(header *dobject.BlockHeader, visit func(dobject.EntityObject) bool) error {
	if !header.HasEntities() {
		return nil
	}
	first := header.Resolve(header.FirstEntity)
	last := header.Resolve(header.LastEntity)
	return dobject.WalkChain(a.source, first, last, true, visit)
}

// classify finds the layer by its handle.
func (a *assembler) classify(layerHandle uint64) int {
	for i, layer := range a.layers {
		if layer.Handle == layerHandle {
			return i
		}
	}
	return -1
}

// place puts an entity on layer index. Inserts are queued for expansion.
// It reports false once the table cannot grow anymore.
func (a *assembler) place(index int, entity dobject.EntityObject, root uint64, transform *dgeom.Matrix, blocks []uint64) bool {
	data := entity.EntityData()
	switch entity.ObjectType() {
	case dobject.TypeAttrib, dobject.TypeAttdef:
		a.collectTag(index, data.Handle)
	case dobject.TypeInsert, dobject.TypeMInsert:
		if a.exhausted {
			return true
		}
		e := expansion{
			insert: data.Handle,
			root:   root,
			layer:  index,
			parent: dgeom.Identity(),
			blocks: blocks,
		}
		if root == 0 {
			e.root = data.Handle
		}
		if transform != nil {
			e.parent = *transform
		}
		a.pending.Push(e)
	case dobject.TypeBlock, dobject.TypeEndBlock, dobject.TypeSeqEnd:
	default:
		if !a.options.IncludeUnsupported && !dgeom.Materializable(entity.ObjectType()) {
			dlog.Debugf("skipping %s entity %X", entity.ObjectType(), data.Handle)
			return true
		}
		if a.members >= a.ceilings.members {
			if !a.full {
				dlog.Logf("more than %d layer members, entity %X and the rest are dropped", a.ceilings.members, data.Handle)
				a.full = true
			}
			return false
		}
		a.members++
		layer := a.layers[index]
		layer.Members = append(layer.Members, Member{
			Entity:    data.Handle,
			Insert:    root,
			Transform: transform,
		})
	}
	return true
}

func (a *assembler) collectTag(index int, handle uint64) {
	object, err := a.source.Decode(handle, false)
	if err != nil {
		dlog.Debugf("attribute %X: %v", handle, err)
		return
	}
	attrib, err := dobject.As[*dobject.Attrib](object)
	if err != nil {
		dlog.Debugf("attribute %X: %v", handle, err)
		return
	}
	a.layers[index].addTag(attrib.Tag)
}

func (a *assembler) drain() {
	for !a.full && !a.exhausted {
		next, ok := a.pending.Pop()
		if !ok {
			return
		}
		a.expand(next)
	}
	a.pending = ds.NewStack[expansion]()
}

func (a *assembler) expand(e expansion) {
	if a.expansions >= a.ceilings.expansions {
		dlog.Logf("more than %d insert expansions, insert %X and the rest are not expanded", a.ceilings.expansions, e.insert)
		a.exhausted = true
		return
	}
	a.expansions++
	if len(e.blocks) >= dlimit.MaxBlockDepth {
		dlog.Debugf("insert %X is nested deeper than %d blocks", e.insert, dlimit.MaxBlockDepth)
		return
	}
	object, err := a.source.Decode(e.insert, false)
	if err != nil {
		dlog.Debugf("insert %X: %v", e.insert, err)
		return
	}
	insert, err := dobject.As[*dobject.Insert](object)
	if err != nil {
		dlog.Debugf("insert %X: %v", e.insert, err)
		return
	}
	if insert.HasAttribs {
		a.insertTags(e.layer, insert)
	}

	blockHandle := insert.Resolve(insert.BlockHeader)
	for _, block := range e.blocks {
		if block == blockHandle {
			dlog.Debugf("insert %X expands block %X inside itself", e.insert, blockHandle)
			return
		}
	}
	header, err := a.blockHeader(blockHandle)
	if err != nil {
		dlog.Debugf("block of insert %X: %v", e.insert, err)
		return
	}

	children := make([]dobject.EntityObject, 0)
	err = a.walk(header, func(entity dobject.EntityObject) bool {
		children = append(children, entity)
		return true
	})
	if err != nil {
		dlog.Debugf("block %X of insert %X: %v", blockHandle, e.insert, err)
		return
	}

	blocks := append(append(make([]uint64, 0, len(e.blocks)+1), e.blocks...), blockHandle)
	for _, cell := range insertTransforms(insert, header.BasePoint) {
		transform := e.parent.Multiply(cell)
		for _, child := range children {
			if !a.place(e.layer, child, e.root, &transform, blocks) {
				return
			}
		}
	}
}

func (a *assembler) insertTags(index int, insert *dobject.Insert) {
	err := dobject.WalkChain(
		a.source, insert.Resolve(insert.FirstAttrib), insert.Resolve(insert.LastAttrib), false,
		func(entity dobject.EntityObject) bool {
			if attrib, ok := entity.(*dobject.Attrib); ok {
				a.layers[index].addTag(attrib.Tag)
			}
			return true
		},
	)
	if err != nil {
		dlog.Debugf("attributes of insert %X: %v", insert.Handle, err)
	}
}

// insertTransforms places the block once for an INSERT and once per grid
// cell for a MINSERT. Grid spacing is measured along the rotated axes.
func insertTransforms(insert *dobject.Insert, base lbits.Vector) []dgeom.Matrix {
	columns, rows := 1, 1
	if insert.ObjectType() == dobject.TypeMInsert {
		columns = max(int(insert.NumColumns), 1)
		rows = max(int(insert.NumRows), 1)
	}
	if columns*rows > dlimit.MaxInsertCount {
		dlog.Debugf("insert %X has a %dx%d grid, placing it once", insert.Handle, columns, rows)
		columns, rows = 1, 1
	}

	rotation := dgeom.Identity().Rotate(insert.Rotation)
	transforms := make([]dgeom.Matrix, 0, columns*rows)
	for row := 0; row < rows; row++ {
		for column := 0; column < columns; column++ {
			offset := rotation.ApplyDirection(lbits.Vector{
				X: float64(column) * insert.ColumnSpacing,
				Y: float64(row) * insert.RowSpacing,
			})
			transforms = append(transforms, dgeom.InsertTransform(
				insert.InsertionPoint.Add(offset), insert.Scale, insert.Rotation, base,
			))
		}
	}
	return transforms
}
