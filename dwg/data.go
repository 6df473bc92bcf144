// Package dwg opens R2000 drawings and exposes their objects, layers and
// geometries.
package dwg

import (
	"github.com/pkg/errors"

	"opendwg/dwg/dclass"
	"opendwg/dwg/dgeom"
	"opendwg/dwg/dheader"
	"opendwg/dwg/dlayer"
	"opendwg/dwg/dmap"
	"opendwg/dwg/dobject"
)

type (
	Options struct {
		ReadMode           dheader.ReadMode `yaml:"read_mode"`
		IncludeUnsupported bool             `yaml:"include_unsupported"`
	}

	// File is an opened drawing. Nothing in it changes after Open.
	File struct {
		Preamble dheader.FileHeader
		Header   dheader.Header
		Classes  dclass.Table
		Index    *dmap.Index

		data         []byte
		options      Options
		decoder      *dobject.Decoder
		materializer *dgeom.Materializer
		layers       []*dlayer.Layer
	}

	Metadata struct {
		Version     string `json:"version"`
		Maintenance int    `json:"maintenance"`
		CodePage    int16  `json:"code_page"`
		Units       int    `json:"units"`
		PreviewSeek int32  `json:"preview_seek"`
	}
)

const (
	// ESRIRecordName is the named object holding the projection of the
	// drawing.
	ESRIRecordName = "ESRI_PRJ"
	// UnitsUnitless is INSUNITS when the drawing does not say.
	UnitsUnitless = 0
)

var (
	ErrInvalidReadMode = errors.New("invalid read mode")
	ErrLayerIndex      = errors.New("layer index out of range")
	ErrNoNamedObjects  = errors.New("drawing has no named object dictionary")
)
