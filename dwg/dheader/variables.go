package dheader

import (
	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"opendwg/ds"
	"opendwg/dwg/lbits"
)

type (
	Kind     int
	Variable struct {
		Name     string
		Kind     Kind
		FullOnly bool
		Table    string
	}
)

const (
	KindBit Kind = iota
	KindBitShort
	KindBitLong
	KindBitDouble
	KindText
	KindHandle
	KindHandle8
	KindVector
	KindPoint2D
	KindDate
	// KindFlags is the packed line weight / display flags long.
	KindFlags
	// KindPlotStyle is a handle present only when CEPSNTYPE is 3.
	KindPlotStyle
)

func always(kind Kind, names ...string) []Variable {
	return lo.Map(names, func(name string, _ int) Variable {
		return Variable{Name: name, Kind: kind}
	})
}

func fullOnly(kind Kind, names ...string) []Variable {
	return lo.Map(names, func(name string, _ int) Variable {
		return Variable{Name: name, Kind: kind, FullOnly: true}
	})
}

func table(name string) []Variable {
	return []Variable{{Name: name, Kind: KindHandle, Table: name}}
}

func concat(groups ...[]Variable) []Variable {
	return lo.Flatten(groups)
}

// Variables lists the R2000 header variables in file order.
var Variables = concat(
	fullOnly(KindBitDouble, "UNKNOWN1", "UNKNOWN2", "UNKNOWN3", "UNKNOWN4"),
	fullOnly(KindText, "UNKNOWN5", "UNKNOWN6", "UNKNOWN7", "UNKNOWN8"),
	fullOnly(KindBitLong, "UNKNOWN9", "UNKNOWN10"),
	table(TableCurrentViewport),
	fullOnly(
		KindBit,
		"DIMASO", "DIMSHO", "PLINEGEN", "ORTHOMODE", "REGENMODE", "FILLMODE", "QTEXTMODE",
		"PSLTSCALE", "LIMCHECK", "USRTIMER", "SKPOLY", "ANGDIR", "SPLFRAME", "MIRRTEXT",
		"WORLDVIEW", "TILEMODE", "PLIMCHECK", "VISRETAIN", "DISPSILH", "PELLIPSE",
	),
	fullOnly(KindBitShort, "PROXYGRAPHICS", "TREEDEPTH", "LUNITS", "LUPREC", "AUNITS", "AUPREC"),
	always(KindBitShort, "ATTMODE", "PDMODE"),
	fullOnly(
		KindBitShort,
		"USERI1", "USERI2", "USERI3", "USERI4", "USERI5", "SPLINESEGS", "SURFU", "SURFV",
		"SURFTYPE", "SURFTAB1", "SURFTAB2", "SPLINETYPE", "SHADEDGE", "SHADEDIF", "UNITMODE",
		"MAXACTVP", "ISOLINES", "CMLJUST", "TEXTQLTY",
	),
	always(
		KindBitDouble,
		"LTSCALE", "TEXTSIZE", "TRACEWID", "SKETCHINC", "FILLETRAD", "THICKNESS", "ANGBASE",
		"PDSIZE", "PLINEWID",
	),
	fullOnly(
		KindBitDouble,
		"USERR1", "USERR2", "USERR3", "USERR4", "USERR5", "CHAMFERA", "CHAMFERB", "CHAMFERC",
		"CHAMFERD", "FACETRES", "CMLSCALE", "CELTSCALE",
	),
	fullOnly(KindText, "MENU"),
	always(KindDate, "TDCREATE", "TDUPDATE", "TDINDWG", "TDUSRTIMER"),
	always(KindBitShort, "CECOLOR"),
	always(KindHandle8, "HANDSEED"),
	always(KindHandle, "CLAYER", "TEXTSTYLE", "CELTYPE", "DIMSTYLE", "CMLSTYLE"),
	always(KindBitDouble, "PSVPSCALE"),
	always(KindVector, "PINSBASE", "PEXTMIN", "PEXTMAX"),
	always(KindPoint2D, "PLIMMIN", "PLIMMAX"),
	always(KindBitDouble, "PELEVATION"),
	always(KindVector, "PUCSORG", "PUCSXDIR", "PUCSYDIR"),
	always(KindHandle, "PUCSNAME", "PUCSORTHOREF"),
	always(KindBitShort, "PUCSORTHOVIEW"),
	always(KindHandle, "PUCSBASE"),
	always(
		KindVector,
		"PUCSORGTOP", "PUCSORGBOTTOM", "PUCSORGLEFT", "PUCSORGRIGHT", "PUCSORGFRONT", "PUCSORGBACK",
		"INSBASE", "EXTMIN", "EXTMAX",
	),
	always(KindPoint2D, "LIMMIN", "LIMMAX"),
	always(KindBitDouble, "ELEVATION"),
	always(KindVector, "UCSORG", "UCSXDIR", "UCSYDIR"),
	always(KindHandle, "UCSNAME", "UCSORTHOREF"),
	always(KindBitShort, "UCSORTHOVIEW"),
	always(KindHandle, "UCSBASE"),
	always(
		KindVector,
		"UCSORGTOP", "UCSORGBOTTOM", "UCSORGLEFT", "UCSORGRIGHT", "UCSORGFRONT", "UCSORGBACK",
	),
	fullOnly(KindText, "DIMPOST", "DIMAPOST"),
	fullOnly(
		KindBitDouble,
		"DIMSCALE", "DIMASZ", "DIMEXO", "DIMDLI", "DIMEXE", "DIMRND", "DIMDLE", "DIMTP", "DIMTM",
	),
	fullOnly(KindBit, "DIMTOL", "DIMLIM", "DIMTIH", "DIMTOH", "DIMSE1", "DIMSE2"),
	fullOnly(KindBitShort, "DIMTAD", "DIMZIN", "DIMAZIN"),
	fullOnly(
		KindBitDouble,
		"DIMTXT", "DIMCEN", "DIMTSZ", "DIMALTF", "DIMLFAC", "DIMTVP", "DIMTFAC", "DIMGAP",
		"DIMALTRND",
	),
	fullOnly(KindBit, "DIMALT"),
	fullOnly(KindBitShort, "DIMALTD"),
	fullOnly(KindBit, "DIMTOFL", "DIMSAH", "DIMTIX", "DIMSOXD"),
	fullOnly(
		KindBitShort,
		"DIMCLRD", "DIMCLRE", "DIMCLRT", "DIMADEC", "DIMDEC", "DIMTDEC", "DIMALTU", "DIMALTTD",
		"DIMAUNIT", "DIMFRAC", "DIMLUNIT", "DIMDSEP", "DIMTMOVE", "DIMJUST",
	),
	fullOnly(KindBit, "DIMSD1", "DIMSD2"),
	fullOnly(KindBitShort, "DIMTOLJ", "DIMTZIN", "DIMALTZ", "DIMALTTZ"),
	fullOnly(KindBit, "DIMUPT"),
	fullOnly(KindBitShort, "DIMATFIT"),
	fullOnly(KindHandle, "DIMTXSTY", "DIMLDRBLK", "DIMBLK", "DIMBLK1", "DIMBLK2"),
	fullOnly(KindBitShort, "DIMLWD", "DIMLWE"),
	table(TableBlocks),
	table(TableLayers),
	table(TableStyles),
	table(TableLineTypes),
	table(TableViews),
	table(TableUCS),
	table(TableViewports),
	table(TableAppIDs),
	fullOnly(KindHandle, "DIMSTYLE_CONTROL"),
	table(TableViewportHeaders),
	table(TableGroups),
	table(TableMLineStyles),
	table(TableNamedObjects),
	fullOnly(KindBitShort, "TSTACKALIGN", "TSTACKSIZE"),
	always(KindText, "HYPERLINKBASE", "STYLESHEET"),
	table(TableLayouts),
	table(TablePlotSettings),
	table(TablePlotStyles),
	[]Variable{{Name: "FLAGS", Kind: KindFlags, FullOnly: true}},
	always(KindBitShort, "INSUNITS", "CEPSNTYPE"),
	[]Variable{{Name: "CEPSNID", Kind: KindPlotStyle}},
	always(KindText, "FINGERPRINTGUID", "VERSIONGUID"),
	table(TablePaperSpace),
	table(TableModelSpace),
	fullOnly(KindHandle, "LTYPE_BYLAYER", "LTYPE_BYBLOCK", "LTYPE_CONTINUOUS"),
	fullOnly(KindBitShort, "UNKNOWN11", "UNKNOWN12", "UNKNOWN13", "UNKNOWN14"),
)

type variableDecoder struct {
	reader *lbits.Reader
	header *Header
}

// DecodeVariables reads the header variables section payload. In the fast
// modes the variables marked FullOnly are skipped, keeping every later
// field at the same bit offset.
func DecodeVariables(payload []byte, mode ReadMode, codePage int) (*Header, error) {
	reader := lbits.NewBitsReader(payload)
	reader.SetCodePage(codePage)
	decoder := variableDecoder{
		reader: reader,
		header: &Header{
			Values: orderedmap.New(),
			Tables: Tables{},
		},
	}

	for _, variable := range Variables {
		var err error
		if variable.FullOnly && mode != ReadAll {
			err = decoder.skip(variable)
		} else {
			err = decoder.read(variable)
		}
		if err != nil {
			return nil, errors.Wrapf(err, `DecodeVariables error at "%s"`, variable.Name)
		}
	}

	return decoder.header, nil
}

func (d variableDecoder) read(variable Variable) error {
	var (
		value any
		err   error
	)
	switch variable.Kind {
	case KindBit:
		value, err = d.reader.ReadBit()
	case KindBitShort:
		value, err = d.reader.ReadBitShort()
	case KindBitLong:
		value, err = d.reader.ReadBitLong()
	case KindBitDouble:
		value, err = d.reader.ReadBitDouble()
	case KindText:
		value, err = d.reader.ReadText()
	case KindHandle:
		var handle lbits.Handle
		handle, err = d.reader.ReadHandle()
		value = handle.Uint()
		if err == nil && variable.Table != "" {
			d.header.Tables[variable.Table] = handle.Uint()
			return nil
		}
	case KindHandle8:
		var handle lbits.Handle
		handle, err = d.reader.ReadHandle8()
		value = handle.Uint()
	case KindVector:
		value, err = d.reader.ReadVector()
	case KindPoint2D:
		value, err = d.reader.ReadRawVector()
	case KindDate:
		value, err = d.readDate()
	case KindFlags:
		return d.readFlags()
	case KindPlotStyle:
		plotStyleType, ok := d.header.Values.Get("CEPSNTYPE")
		if !ok || plotStyleType != int16(3) {
			return nil
		}
		var handle lbits.Handle
		handle, err = d.reader.ReadHandle()
		value = handle.Uint()
	default:
		return ds.ErrUnreachableCode{Caller: "variableDecoder.read", Value: variable.Kind}
	}
	if err != nil {
		return err
	}
	d.header.Values.Set(variable.Name, value)
	return nil
}

func (d variableDecoder) skip(variable Variable) error {
	switch variable.Kind {
	case KindBit:
		return d.reader.SeekBits(1)
	case KindBitShort:
		return d.reader.SkipBitShort()
	case KindBitLong, KindFlags:
		return d.reader.SkipBitLong()
	case KindBitDouble:
		return d.reader.SkipBitDouble()
	case KindText:
		return d.reader.SkipText()
	case KindHandle:
		return d.reader.SkipHandle()
	default:
		// every other kind is always read
		return d.read(variable)
	}
}

func (d variableDecoder) readDate() (Date, error) {
	day, err := d.reader.ReadBitLong()
	if err != nil {
		return Date{}, err
	}
	milliseconds, err := d.reader.ReadBitLong()
	if err != nil {
		return Date{}, err
	}
	return Date{Day: day, Milliseconds: milliseconds}, nil
}

func (d variableDecoder) readFlags() error {
	flags, err := d.reader.ReadBitLong()
	if err != nil {
		return err
	}
	values := d.header.Values
	values.Set("CELWEIGHT", flags&0x001F)
	values.Set("ENDCAPS", flags&0x0060 != 0)
	values.Set("JOINSTYLE", flags&0x0180 != 0)
	values.Set("LWDISPLAY", flags&0x0200 == 0)
	values.Set("XEDIT", flags&0x0400 == 0)
	values.Set("EXTNAMES", flags&0x0800 != 0)
	values.Set("PSTYLEMODE", flags&0x2000 != 0)
	values.Set("OLESTARTUP", flags&0x4000 != 0)
	return nil
}

// Int returns a numeric header variable as int, or def when it is absent.
func (h Header) Int(name string, def int) int {
	value, ok := h.Values.Get(name)
	if !ok {
		return def
	}
	switch v := value.(type) {
	case int16:
		return int(v)
	case int32:
		return int(v)
	default:
		return def
	}
}

func (h Header) String(name string) string {
	value, ok := h.Values.Get(name)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

func (h Header) Vector(name string) (lbits.Vector, bool) {
	value, ok := h.Values.Get(name)
	if !ok {
		return lbits.Vector{}, false
	}
	v, ok := value.(lbits.Vector)
	return v, ok
}
