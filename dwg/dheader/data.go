package dheader

import (
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
)

type (
	ReadMode string

	FileHeader struct {
		Version      string    `json:"version"`
		Maintenance  []byte    `json:"maintenance"`
		PreviewSeek  int32     `json:"preview_seek"`
		Reserved     []byte    `json:"reserved"`
		CodePage     int16     `json:"code_page"`
		NumLocators  int32     `json:"num_locators"`
		Locators     []Locator `json:"locators"`
	}
	Locator struct {
		Number uint8 `json:"number"`
		Offset int32 `json:"offset"`
		Size   int32 `json:"size"`
	}

	// Header holds the decoded header variables in file order, plus the
	// object handles of the tables and dictionaries the variables point at.
	Header struct {
		Values *orderedmap.OrderedMap `json:"values"`
		Tables Tables                 `json:"tables"`
	}
	Tables map[string]uint64

	Date struct {
		Day          int32 `json:"day"`
		Milliseconds int32 `json:"milliseconds"`
	}
)

const (
	ReadAll     ReadMode = "read_all"
	ReadFast    ReadMode = "read_fast"
	ReadFastest ReadMode = "read_fastest"
)

const (
	VersionR2000   = "AC1015"
	SentinelLength = 16
	MinLocators    = 3

	LocatorHeader    = 0
	LocatorClasses   = 1
	LocatorObjectMap = 2
)

const (
	TableCurrentViewport = "CURRENT_VIEWPORT"
	TableBlocks          = "BLOCK_CONTROL"
	TableLayers          = "LAYER_CONTROL"
	TableStyles          = "STYLE_CONTROL"
	TableLineTypes       = "LTYPE_CONTROL"
	TableViews           = "VIEW_CONTROL"
	TableUCS             = "UCS_CONTROL"
	TableViewports       = "VPORT_CONTROL"
	TableAppIDs          = "APPID_CONTROL"
	TableViewportHeaders = "VPENTHDR_CONTROL"
	TableGroups          = "ACAD_GROUP"
	TableMLineStyles     = "ACAD_MLINESTYLE"
	TableNamedObjects    = "NAMED_OBJECTS"
	TableLayouts         = "ACAD_LAYOUT"
	TablePlotSettings    = "ACAD_PLOTSETTINGS"
	TablePlotStyles      = "ACAD_PLOTSTYLENAME"
	TablePaperSpace      = "PAPER_SPACE"
	TableModelSpace      = "MODEL_SPACE"
)

var (
	HeaderStart = []byte{
		0xCF, 0x7B, 0x1F, 0x23, 0xFD, 0xDE, 0x38, 0xA9,
		0x5F, 0x7C, 0x68, 0xB8, 0x4E, 0x6D, 0x33, 0x5F,
	}
	HeaderEnd = []byte{
		0x30, 0x84, 0xE0, 0xDC, 0x02, 0x21, 0xC7, 0x56,
		0xA0, 0x83, 0x97, 0x47, 0xB1, 0x92, 0xCC, 0xA0,
	}
	FileHeaderEnd = []byte{
		0x95, 0xA0, 0x4E, 0x28, 0x99, 0x82, 0x1A, 0xE5,
		0x5E, 0x41, 0xE0, 0x5F, 0x9D, 0x3A, 0x4D, 0x00,
	}
)

var (
	ErrUnsupportedVersion = errors.New("unsupported drawing version")
	ErrTooFewLocators     = errors.New("too few section locator records")
	ErrSentinelMismatch   = errors.New("section sentinel mismatch")
	ErrCRCMismatch        = errors.New("section CRC mismatch")
	ErrMissingSection     = errors.New("section locator missing")
)

func (m ReadMode) IsValid() bool {
	return m == ReadAll || m == ReadFast || m == ReadFastest
}

// Time converts the julian day and milliseconds pair to UTC.
func (d Date) Time() time.Time {
	const unixEpochJulianDay = 2440588
	seconds := int64(d.Day-unixEpochJulianDay) * 86400
	return time.Unix(seconds, int64(d.Milliseconds)*int64(time.Millisecond)).UTC()
}

// Locator returns the locator record with the given number, falling back to
// its position in the table.
func (h FileHeader) Locator(number uint8) (Locator, error) {
	for _, locator := range h.Locators {
		if locator.Number == number {
			return locator, nil
		}
	}
	if int(number) < len(h.Locators) {
		return h.Locators[number], nil
	}
	return Locator{}, errors.Wrapf(ErrMissingSection, "locator %d", number)
}
