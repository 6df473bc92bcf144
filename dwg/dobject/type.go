package dobject

import (
	"fmt"
)

// Type is the object type code as stored in the drawing. Codes of custom
// classes (500 and above) that the decoder understands are folded into the
// pseudo codes at the end of the list.
type Type int16

const (
	TypeUnused              Type = 0x00
	TypeText                Type = 0x01
	TypeAttrib              Type = 0x02
	TypeAttdef              Type = 0x03
	TypeBlock               Type = 0x04
	TypeEndBlock            Type = 0x05
	TypeSeqEnd              Type = 0x06
	TypeInsert              Type = 0x07
	TypeMInsert             Type = 0x08
	TypeVertex2D            Type = 0x0A
	TypeVertex3D            Type = 0x0B
	TypeVertexMesh          Type = 0x0C
	TypeVertexPFace         Type = 0x0D
	TypeVertexPFaceFace     Type = 0x0E
	TypePolyline2D          Type = 0x0F
	TypePolyline3D          Type = 0x10
	TypeArc                 Type = 0x11
	TypeCircle              Type = 0x12
	TypeLine                Type = 0x13
	TypeDimensionOrdinate   Type = 0x14
	TypeDimensionLinear     Type = 0x15
	TypeDimensionAligned    Type = 0x16
	TypeDimensionAngular3Pt Type = 0x17
	TypeDimensionAngular2Ln Type = 0x18
	TypeDimensionRadius     Type = 0x19
	TypeDimensionDiameter   Type = 0x1A
	TypePoint               Type = 0x1B
	TypeFace3D              Type = 0x1C
	TypePolylinePFace       Type = 0x1D
	TypePolylineMesh        Type = 0x1E
	TypeSolid               Type = 0x1F
	TypeTrace               Type = 0x20
	TypeShape               Type = 0x21
	TypeViewport            Type = 0x22
	TypeEllipse             Type = 0x23
	TypeSpline              Type = 0x24
	TypeRegion              Type = 0x25
	TypeSolid3D             Type = 0x26
	TypeBody                Type = 0x27
	TypeRay                 Type = 0x28
	TypeXLine               Type = 0x29
	TypeDictionary          Type = 0x2A
	TypeOLEFrame            Type = 0x2B
	TypeMText               Type = 0x2C
	TypeLeader              Type = 0x2D
	TypeTolerance           Type = 0x2E
	TypeMLine               Type = 0x2F
	TypeBlockControl        Type = 0x30
	TypeBlockHeader         Type = 0x31
	TypeLayerControl        Type = 0x32
	TypeLayer               Type = 0x33
	TypeStyleControl        Type = 0x34
	TypeStyle               Type = 0x35
	TypeLTypeControl        Type = 0x38
	TypeLType               Type = 0x39
	TypeViewControl         Type = 0x3C
	TypeView                Type = 0x3D
	TypeUCSControl          Type = 0x3E
	TypeUCS                 Type = 0x3F
	TypeVPortControl        Type = 0x40
	TypeVPort               Type = 0x41
	TypeAppIDControl        Type = 0x42
	TypeAppID               Type = 0x43
	TypeDimStyleControl     Type = 0x44
	TypeDimStyle            Type = 0x45
	TypeVPEntHdrControl     Type = 0x46
	TypeVPEntHdr            Type = 0x47
	TypeGroup               Type = 0x48
	TypeMLineStyle          Type = 0x49
	TypeOLE2Frame           Type = 0x4A
	TypeDummy               Type = 0x4B
	TypeLongTransaction     Type = 0x4C
	TypeLWPolyline          Type = 0x4D
	TypeHatch               Type = 0x4E
	TypeXRecord             Type = 0x4F
	TypePlaceholder         Type = 0x50
	TypeVBAProject          Type = 0x51
	TypeLayout              Type = 0x52

	TypeImage           Type = 0x7F01
	TypeImageDef        Type = 0x7F02
	TypeImageDefReactor Type = 0x7F03
	TypeWipeout         Type = 0x7F04
)

var (
	typeNames = map[Type]string{
		TypeUnused:              "UNUSED",
		TypeText:                "TEXT",
		TypeAttrib:              "ATTRIB",
		TypeAttdef:              "ATTDEF",
		TypeBlock:               "BLOCK",
		TypeEndBlock:            "ENDBLK",
		TypeSeqEnd:              "SEQEND",
		TypeInsert:              "INSERT",
		TypeMInsert:             "MINSERT",
		TypeVertex2D:            "VERTEX_2D",
		TypeVertex3D:            "VERTEX_3D",
		TypeVertexMesh:          "VERTEX_MESH",
		TypeVertexPFace:         "VERTEX_PFACE",
		TypeVertexPFaceFace:     "VERTEX_PFACE_FACE",
		TypePolyline2D:          "POLYLINE_2D",
		TypePolyline3D:          "POLYLINE_3D",
		TypeArc:                 "ARC",
		TypeCircle:              "CIRCLE",
		TypeLine:                "LINE",
		TypeDimensionOrdinate:   "DIMENSION_ORDINATE",
		TypeDimensionLinear:     "DIMENSION_LINEAR",
		TypeDimensionAligned:    "DIMENSION_ALIGNED",
		TypeDimensionAngular3Pt: "DIMENSION_ANG_3PT",
		TypeDimensionAngular2Ln: "DIMENSION_ANG_2LN",
		TypeDimensionRadius:     "DIMENSION_RADIUS",
		TypeDimensionDiameter:   "DIMENSION_DIAMETER",
		TypePoint:               "POINT",
		TypeFace3D:              "3DFACE",
		TypePolylinePFace:       "POLYLINE_PFACE",
		TypePolylineMesh:        "POLYLINE_MESH",
		TypeSolid:               "SOLID",
		TypeTrace:               "TRACE",
		TypeShape:               "SHAPE",
		TypeViewport:            "VIEWPORT",
		TypeEllipse:             "ELLIPSE",
		TypeSpline:              "SPLINE",
		TypeRegion:              "REGION",
		TypeSolid3D:             "3DSOLID",
		TypeBody:                "BODY",
		TypeRay:                 "RAY",
		TypeXLine:               "XLINE",
		TypeDictionary:          "DICTIONARY",
		TypeOLEFrame:            "OLEFRAME",
		TypeMText:               "MTEXT",
		TypeLeader:              "LEADER",
		TypeTolerance:           "TOLERANCE",
		TypeMLine:               "MLINE",
		TypeBlockControl:        "BLOCK_CONTROL",
		TypeBlockHeader:         "BLOCK_HEADER",
		TypeLayerControl:        "LAYER_CONTROL",
		TypeLayer:               "LAYER",
		TypeStyleControl:        "STYLE_CONTROL",
		TypeStyle:               "STYLE",
		TypeLTypeControl:        "LTYPE_CONTROL",
		TypeLType:               "LTYPE",
		TypeViewControl:         "VIEW_CONTROL",
		TypeView:                "VIEW",
		TypeUCSControl:          "UCS_CONTROL",
		TypeUCS:                 "UCS",
		TypeVPortControl:        "VPORT_CONTROL",
		TypeVPort:               "VPORT",
		TypeAppIDControl:        "APPID_CONTROL",
		TypeAppID:               "APPID",
		TypeDimStyleControl:     "DIMSTYLE_CONTROL",
		TypeDimStyle:            "DIMSTYLE",
		TypeVPEntHdrControl:     "VP_ENT_HDR_CONTROL",
		TypeVPEntHdr:            "VP_ENT_HDR",
		TypeGroup:               "GROUP",
		TypeMLineStyle:          "MLINESTYLE",
		TypeOLE2Frame:           "OLE2FRAME",
		TypeDummy:               "DUMMY",
		TypeLongTransaction:     "LONG_TRANSACTION",
		TypeLWPolyline:          "LWPOLYLINE",
		TypeHatch:               "HATCH",
		TypeXRecord:             "XRECORD",
		TypePlaceholder:         "ACDBPLACEHOLDER",
		TypeVBAProject:          "VBA_PROJECT",
		TypeLayout:              "LAYOUT",
		TypeImage:               "IMAGE",
		TypeImageDef:            "IMAGEDEF",
		TypeImageDefReactor:     "IMAGEDEFREACTOR",
		TypeWipeout:             "WIPEOUT",
	}
	// classTypes folds the custom classes the decoder knows about into
	// pseudo type codes.
	classTypes = map[string]Type{
		"AcDbRasterImage":           TypeImage,
		"AcDbRasterImageDef":        TypeImageDef,
		"AcDbRasterImageDefReactor": TypeImageDefReactor,
		"AcDbWipeout":               TypeWipeout,
	}
)

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_%d", int16(t))
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// IsEntity reports whether objects of type t start with the common entity
// data. Custom classes are not covered; the class table flags those.
func (t Type) IsEntity() bool {
	switch {
	case t >= TypeText && t <= TypeXLine:
		return true
	case t >= TypeOLEFrame && t <= TypeMLine:
		return true
	}
	switch t {
	case TypeOLE2Frame, TypeLWPolyline, TypeHatch, TypeImage, TypeWipeout:
		return true
	}
	return false
}

// IsDimension covers the seven dimension variants.
func (t Type) IsDimension() bool {
	return t >= TypeDimensionOrdinate && t <= TypeDimensionDiameter
}
