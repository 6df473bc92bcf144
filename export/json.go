package export

import (
	"encoding/json"
	"io"

	"github.com/iancoleman/orderedmap"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"opendwg/dwg"
)

// ToOrderedMap lays the whole drawing out in a fixed key order: metadata,
// header variables, table handles, classes, then the layers with their
// geometries.
func ToOrderedMap(file *dwg.File) (*orderedmap.OrderedMap, error) {
	drawn, err := Collect(file)
	if err != nil {
		return nil, errors.Wrap(err, "export.ToOrderedMap error")
	}

	layers := lo.Map(drawn, func(d Drawn, _ int) *orderedmap.OrderedMap {
		layer := orderedmap.New()
		layer.Set("name", d.Layer.Name)
		layer.Set("handle", d.Layer.Handle)
		layer.Set("color", d.Layer.Color)
		layer.Set("frozen", d.Layer.Frozen)
		layer.Set("on", d.Layer.On)
		layer.Set("locked", d.Layer.Locked)
		layer.Set("plotting", d.Layer.Plotting)
		layer.Set("line_weight", d.Layer.LineWeight)
		layer.Set("tags", d.Layer.Tags)
		geometries := make([]*orderedmap.OrderedMap, 0, len(d.Geometries))
		for i, geometry := range d.Geometries {
			entry := orderedmap.New()
			entry.Set("kind", geometry.Kind())
			if d.Members[i].Insert != 0 {
				entry.Set("insert", d.Members[i].Insert)
			}
			entry.Set("geometry", geometry)
			geometries = append(geometries, entry)
		}
		layer.Set("geometries", geometries)
		return layer
	})

	root := orderedmap.New()
	root.Set("metadata", file.Metadata())
	root.Set("header", file.Header.Values)
	root.Set("tables", file.Header.Tables)
	root.Set("classes", file.Classes.Classes)
	root.Set("layers", layers)
	return root, nil
}

// WriteJSON writes the ordered map of file to w, zstd compressed when
// compress is set.
func WriteJSON(w io.Writer, file *dwg.File, compress bool) error {
	root, err := ToOrderedMap(file)
	if err != nil {
		return errors.Wrap(err, "export.WriteJSON error")
	}
	if !compress {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(root), "export.WriteJSON error")
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "export.WriteJSON error")
	}
	if err := json.NewEncoder(zw).Encode(root); err != nil {
		zw.Close()
		return errors.Wrap(err, "export.WriteJSON error")
	}
	return errors.Wrap(zw.Close(), "export.WriteJSON error")
}
