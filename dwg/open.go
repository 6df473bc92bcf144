package dwg

import (
	"os"

	"github.com/pkg/errors"

	"opendwg/dlog"
	"opendwg/dwg/dclass"
	"opendwg/dwg/dgeom"
	"opendwg/dwg/dheader"
	"opendwg/dwg/dlayer"
	"opendwg/dwg/dmap"
	"opendwg/dwg/dobject"
	"opendwg/dwg/lbits"
)

func OpenFile(path string, options Options) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "dwg.OpenFile error")
	}
	return Open(data, options)
}

// Open reads the container sections of data in file order and assembles
// the layers. Any error in the preamble, the header, the classes or the
// object map fails the whole call.
func Open(data []byte, options Options) (*File, error) {
	if options.ReadMode == "" {
		options.ReadMode = dheader.ReadAll
	}
	if !options.ReadMode.IsValid() {
		return nil, errors.Wrapf(ErrInvalidReadMode, `"%s"`, options.ReadMode)
	}

	preamble, err := dheader.Decode(lbits.NewBitsReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "dwg.Open error reading preamble")
	}
	codePage := int(preamble.CodePage)

	locator, err := preamble.Locator(dheader.LocatorHeader)
	if err != nil {
		return nil, errors.Wrap(err, "dwg.Open error")
	}
	payload, err := dheader.DecodeSection(data, locator.Offset, dheader.HeaderStart, dheader.HeaderEnd)
	if err != nil {
		return nil, errors.Wrap(err, "dwg.Open error reading header section")
	}
	header, err := dheader.DecodeVariables(payload, options.ReadMode, codePage)
	if err != nil {
		return nil, errors.Wrap(err, "dwg.Open error reading header variables")
	}

	classes := &dclass.Table{}
	if options.ReadMode != dheader.ReadFastest {
		locator, err = preamble.Locator(dheader.LocatorClasses)
		if err != nil {
			return nil, errors.Wrap(err, "dwg.Open error")
		}
		classes, err = dclass.Decode(data, locator.Offset, codePage)
		if err != nil {
			return nil, errors.Wrap(err, "dwg.Open error reading classes")
		}
	}

	locator, err = preamble.Locator(dheader.LocatorObjectMap)
	if err != nil {
		return nil, errors.Wrap(err, "dwg.Open error")
	}
	index, err := dmap.Decode(data, locator.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "dwg.Open error reading object map")
	}
	dlog.Debugf("object map lists %d objects, %d classes", index.Len(), len(classes.Classes))

	decoder := dobject.NewDecoder(data, index, classes, codePage)
	layers, err := dlayer.Assemble(
		decoder,
		header.Tables[dheader.TableLayers],
		header.Tables[dheader.TableModelSpace],
		dlayer.Options{IncludeUnsupported: options.IncludeUnsupported},
	)
	if err != nil {
		return nil, errors.Wrap(err, "dwg.Open error assembling layers")
	}

	return &File{
		Preamble:     *preamble,
		Header:       *header,
		Classes:      *classes,
		Index:        index,
		data:         data,
		options:      options,
		decoder:      decoder,
		materializer: dgeom.NewMaterializer(decoder),
		layers:       layers,
	}, nil
}
