package dwg

import (
	"bytes"

	"github.com/pkg/errors"

	"opendwg/dlog"
	"opendwg/dwg/dgeom"
	"opendwg/dwg/dheader"
	"opendwg/dwg/dlayer"
	"opendwg/dwg/dobject"
	"opendwg/dwg/dpreview"
)

// Object decodes the object stored under handle.
func (f *File) Object(handle uint64, handlesOnly bool) (dobject.Object, error) {
	return f.decoder.Decode(handle, handlesOnly)
}

func (f *File) Layers() []*dlayer.Layer {
	return f.layers
}

func (f *File) Layer(index int) (*dlayer.Layer, error) {
	if index < 0 || index >= len(f.layers) {
		return nil, errors.Wrapf(ErrLayerIndex, "%d of %d", index, len(f.layers))
	}
	return f.layers[index], nil
}

// EachGeometry materializes the members of a layer in order until visit
// returns false. Members that cannot be materialized are skipped.
func (f *File) EachGeometry(layerIndex int, visit func(dlayer.Member, dgeom.Geometry) bool) error {
	layer, err := f.Layer(layerIndex)
	if err != nil {
		return errors.Wrap(err, "File.EachGeometry error")
	}
	for _, member := range layer.Members {
		geometry, err := f.materializer.Materialize(member.Entity, layer.Placement(member))
		if err != nil {
			dlog.Debugf("layer %s: skipping %X: %v", layer.Name, member.Entity, err)
			continue
		}
		if !visit(member, geometry) {
			break
		}
	}
	return nil
}

func (f *File) Geometries(layerIndex int) ([]dgeom.Geometry, error) {
	geometries := make([]dgeom.Geometry, 0)
	err := f.EachGeometry(layerIndex, func(_ dlayer.Member, geometry dgeom.Geometry) bool {
		geometries = append(geometries, geometry)
		return true
	})
	if err != nil {
		return nil, err
	}
	return geometries, nil
}

// NamedObject looks name up in the named object dictionary and decodes the
// object it points at.
func (f *File) NamedObject(name string) (dobject.Object, error) {
	handle, ok := f.Header.Tables[dheader.TableNamedObjects]
	if !ok || handle == 0 {
		return nil, errors.Wrap(ErrNoNamedObjects, "File.NamedObject error")
	}
	object, err := f.decoder.Decode(handle, false)
	if err != nil {
		return nil, errors.Wrap(err, "File.NamedObject error reading dictionary")
	}
	dictionary, err := dobject.As[*dobject.Dictionary](object)
	if err != nil {
		return nil, errors.Wrap(err, "File.NamedObject error")
	}
	entry, ok := dictionary.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(dobject.ErrNotFound, `named object "%s"`, name)
	}
	return f.decoder.Decode(entry, false)
}

// ESRISpatialRef returns the projection stored in the ESRI_PRJ record, or
// "" when there is none.
func (f *File) ESRISpatialRef() string {
	object, err := f.NamedObject(ESRIRecordName)
	if err != nil {
		dlog.Debugf("no spatial reference: %v", err)
		return ""
	}
	record, err := dobject.As[*dobject.XRecord](object)
	if err != nil {
		dlog.Debugf("no spatial reference: %v", err)
		return ""
	}
	start := bytes.Index(record.Data, []byte("GE"))
	if start < 0 {
		return ""
	}
	return string(bytes.TrimRight(record.Data[start:], "\x00"))
}

func (f *File) Metadata() Metadata {
	metadata := Metadata{
		Version:     f.Preamble.Version,
		CodePage:    f.Preamble.CodePage,
		Units:       f.Header.Int("INSUNITS", UnitsUnitless),
		PreviewSeek: f.Preamble.PreviewSeek,
	}
	if len(f.Preamble.Maintenance) > 0 {
		metadata.Maintenance = int(f.Preamble.Maintenance[0])
	}
	return metadata
}

// Preview reads the thumbnail section the preamble points at.
func (f *File) Preview() (*dpreview.Preview, error) {
	if f.Preamble.PreviewSeek <= 0 {
		return nil, errors.Wrap(dpreview.ErrNoPreview, "File.Preview error")
	}
	preview, err := dpreview.Decode(f.data, f.Preamble.PreviewSeek)
	if err != nil {
		return nil, errors.Wrap(err, "File.Preview error")
	}
	return preview, nil
}
