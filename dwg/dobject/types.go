package dobject

import (
	"opendwg/dwg/lbits"
)

type (
	// GenericEntity is an entity decoded no further than its common data:
	// ENDBLK, SEQEND, types without a field decoder and custom entity
	// classes.
	GenericEntity struct {
		Entity
	}
	// Unsupported is a non-entity object without a field decoder.
	Unsupported struct {
		Record
	}

	Block struct {
		Entity
		Name string `json:"name"`
	}
	Ellipse struct {
		Entity
		Center     lbits.Vector `json:"center"`
		MajorAxis  lbits.Vector `json:"major_axis"`
		Extrusion  lbits.Vector `json:"extrusion"`
		AxisRatio  float64      `json:"axis_ratio"`
		StartAngle float64      `json:"start_angle"`
		EndAngle   float64      `json:"end_angle"`
	}
	Solid struct {
		Entity
		Thickness float64         `json:"thickness"`
		Elevation float64         `json:"elevation"`
		Corners   [4]lbits.Vector `json:"corners"`
		Extrusion lbits.Vector    `json:"extrusion"`
	}
	Point struct {
		Entity
		Position   lbits.Vector `json:"position"`
		Thickness  float64      `json:"thickness"`
		Extrusion  lbits.Vector `json:"extrusion"`
		XAxisAngle float64      `json:"x_axis_angle"`
	}
	// Polyline3D owns a chain of VERTEX_3D entities.
	Polyline3D struct {
		Entity
		SplinedFlags uint8        `json:"splined_flags"`
		ClosedFlags  uint8        `json:"closed_flags"`
		FirstVertex  lbits.Handle `json:"first_vertex"`
		LastVertex   lbits.Handle `json:"last_vertex"`
		SeqEnd       lbits.Handle `json:"seq_end"`
	}
	// Ray is shared by RAY and XLINE.
	Ray struct {
		Entity
		Position  lbits.Vector `json:"position"`
		Direction lbits.Vector `json:"direction"`
	}
	Line struct {
		Entity
		Start     lbits.Vector `json:"start"`
		End       lbits.Vector `json:"end"`
		Thickness float64      `json:"thickness"`
		Extrusion lbits.Vector `json:"extrusion"`
	}
	// TextData is the part TEXT, ATTRIB and ATTDEF have in common. The bits of
	// DataFlags mark fields left at their default.
	TextData struct {
		DataFlags       uint8        `json:"data_flags"`
		Elevation       float64      `json:"elevation"`
		Insertion       lbits.Vector `json:"insertion"`
		Alignment       lbits.Vector `json:"alignment"`
		Extrusion       lbits.Vector `json:"extrusion"`
		Thickness       float64      `json:"thickness"`
		ObliqueAngle    float64      `json:"oblique_angle"`
		RotationAngle   float64      `json:"rotation_angle"`
		Height          float64      `json:"height"`
		WidthFactor     float64      `json:"width_factor"`
		Value           string       `json:"value"`
		Generation      int16        `json:"generation"`
		HorizontalAlign int16        `json:"horizontal_align"`
		VerticalAlign   int16        `json:"vertical_align"`
	}
	Text struct {
		Entity
		TextData
		Style lbits.Handle `json:"style"`
	}
	// Attrib is shared by ATTRIB and ATTDEF; only the latter has a prompt.
	Attrib struct {
		Entity
		TextData
		Tag         string       `json:"tag"`
		FieldLength int16        `json:"field_length"`
		Flags       uint8        `json:"flags"`
		Prompt      string       `json:"prompt,omitempty"`
		Style       lbits.Handle `json:"style"`
	}
	// Vertex is shared by VERTEX_3D, VERTEX_MESH and VERTEX_PFACE.
	Vertex struct {
		Entity
		Flags    uint8        `json:"flags"`
		Position lbits.Vector `json:"position"`
	}
	Circle struct {
		Entity
		Center    lbits.Vector `json:"center"`
		Radius    float64      `json:"radius"`
		Thickness float64      `json:"thickness"`
		Extrusion lbits.Vector `json:"extrusion"`
	}
	Polyline2D struct {
		Entity
		Flags       int16        `json:"flags"`
		CurveType   int16        `json:"curve_type"`
		StartWidth  float64      `json:"start_width"`
		EndWidth    float64      `json:"end_width"`
		Thickness   float64      `json:"thickness"`
		Elevation   float64      `json:"elevation"`
		Extrusion   lbits.Vector `json:"extrusion"`
		FirstVertex lbits.Handle `json:"first_vertex"`
		LastVertex  lbits.Handle `json:"last_vertex"`
		SeqEnd      lbits.Handle `json:"seq_end"`
	}
	Width struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	}
	LWPolyline struct {
		Entity
		Flags      int16          `json:"flags"`
		ConstWidth float64        `json:"const_width"`
		Elevation  float64        `json:"elevation"`
		Thickness  float64        `json:"thickness"`
		Extrusion  lbits.Vector   `json:"extrusion"`
		Vertices   []lbits.Vector `json:"vertices"`
		Bulges     []float64      `json:"bulges,omitempty"`
		Widths     []Width        `json:"widths,omitempty"`
	}
	Arc struct {
		Entity
		Center     lbits.Vector `json:"center"`
		Radius     float64      `json:"radius"`
		Thickness  float64      `json:"thickness"`
		Extrusion  lbits.Vector `json:"extrusion"`
		StartAngle float64      `json:"start_angle"`
		EndAngle   float64      `json:"end_angle"`
	}
	// Spline is stored either by fit points (scenario 2) or by control
	// points and knots (scenario 1).
	Spline struct {
		Entity
		Scenario         int32          `json:"scenario"`
		Degree           int32          `json:"degree"`
		FitTolerance     float64        `json:"fit_tolerance"`
		BeginTangent     lbits.Vector   `json:"begin_tangent"`
		EndTangent       lbits.Vector   `json:"end_tangent"`
		Rational         bool           `json:"rational"`
		Closed           bool           `json:"closed"`
		Periodic         bool           `json:"periodic"`
		KnotTolerance    float64        `json:"knot_tolerance"`
		ControlTolerance float64        `json:"control_tolerance"`
		Weighted         bool           `json:"weighted"`
		Knots            []float64      `json:"knots,omitempty"`
		ControlPoints    []lbits.Vector `json:"control_points,omitempty"`
		Weights          []float64      `json:"weights,omitempty"`
		FitPoints        []lbits.Vector `json:"fit_points,omitempty"`
	}
	// Insert is shared by INSERT and MINSERT; the grid fields are only
	// stored for the latter.
	Insert struct {
		Entity
		InsertionPoint lbits.Vector `json:"insertion_point"`
		ScaleFlags     uint8        `json:"scale_flags"`
		Scale          lbits.Vector `json:"scale"`
		Rotation       float64      `json:"rotation"`
		Extrusion      lbits.Vector `json:"extrusion"`
		HasAttribs     bool         `json:"has_attribs"`
		NumColumns     int16        `json:"num_columns,omitempty"`
		NumRows        int16        `json:"num_rows,omitempty"`
		ColumnSpacing  float64      `json:"column_spacing,omitempty"`
		RowSpacing     float64      `json:"row_spacing,omitempty"`
		BlockHeader    lbits.Handle `json:"block_header"`
		FirstAttrib    lbits.Handle `json:"first_attrib"`
		LastAttrib     lbits.Handle `json:"last_attrib"`
		SeqEnd         lbits.Handle `json:"seq_end"`
	}
	MLineStyleParams struct {
		SegmentParams  []float64 `json:"segment_params"`
		AreaFillParams []float64 `json:"area_fill_params"`
	}
	MLineVertex struct {
		Position        lbits.Vector       `json:"position"`
		Direction       lbits.Vector       `json:"direction"`
		MiterDirection  lbits.Vector       `json:"miter_direction"`
		LineStyleParams []MLineStyleParams `json:"line_style_params"`
	}
	MLine struct {
		Entity
		Scale         float64       `json:"scale"`
		Justification uint8         `json:"justification"`
		BasePoint     lbits.Vector  `json:"base_point"`
		Extrusion     lbits.Vector  `json:"extrusion"`
		OpenClosed    int16         `json:"open_closed"`
		LinesInStyle  uint8         `json:"lines_in_style"`
		Vertices      []MLineVertex `json:"vertices"`
	}
	PolylinePFace struct {
		Entity
		NumVertices int16        `json:"num_vertices"`
		NumFaces    int16        `json:"num_faces"`
		FirstVertex lbits.Handle `json:"first_vertex"`
		LastVertex  lbits.Handle `json:"last_vertex"`
		SeqEnd      lbits.Handle `json:"seq_end"`
	}
	// Image is shared by IMAGE and WIPEOUT. A clip boundary of type 1 is a
	// rectangle given by two corners, anything else a polygon.
	Image struct {
		Entity
		ClassVersion     int32          `json:"class_version"`
		Insertion        lbits.Vector   `json:"insertion"`
		UDirection       lbits.Vector   `json:"u_direction"`
		VDirection       lbits.Vector   `json:"v_direction"`
		SizeX            float64        `json:"size_x"`
		SizeY            float64        `json:"size_y"`
		DisplayProps     int16          `json:"display_props"`
		Clipping         bool           `json:"clipping"`
		Brightness       uint8          `json:"brightness"`
		Contrast         uint8          `json:"contrast"`
		Fade             uint8          `json:"fade"`
		ClipBoundaryType int16          `json:"clip_boundary_type"`
		ClipVertices     []lbits.Vector `json:"clip_vertices"`
		ImageDef         lbits.Handle   `json:"image_def"`
		ImageDefReactor  lbits.Handle   `json:"image_def_reactor"`
	}
	Face3D struct {
		Entity
		HasNoFlags     bool            `json:"has_no_flags"`
		ZIsZero        bool            `json:"z_is_zero"`
		Corners        [4]lbits.Vector `json:"corners"`
		InvisibleFlags int16           `json:"invisible_flags"`
	}
	MText struct {
		Entity
		Insertion         lbits.Vector `json:"insertion"`
		Extrusion         lbits.Vector `json:"extrusion"`
		XAxisDirection    lbits.Vector `json:"x_axis_direction"`
		RectWidth         float64      `json:"rect_width"`
		TextHeight        float64      `json:"text_height"`
		Attachment        int16        `json:"attachment"`
		DrawingDirection  int16        `json:"drawing_direction"`
		Extents           float64      `json:"extents"`
		ExtentsWidth      float64      `json:"extents_width"`
		Value             string       `json:"value"`
		LineSpacingStyle  int16        `json:"line_spacing_style"`
		LineSpacingFactor float64      `json:"line_spacing_factor"`
		UnknownBit        bool         `json:"unknown_bit"`
	}
	DimensionData struct {
		Extrusion           lbits.Vector `json:"extrusion"`
		TextMidpoint        lbits.Vector `json:"text_midpoint"`
		Elevation           float64      `json:"elevation"`
		Flags               uint8        `json:"flags"`
		UserText            string       `json:"user_text"`
		TextRotation        float64      `json:"text_rotation"`
		HorizontalDirection float64      `json:"horizontal_direction"`
		InsertScale         lbits.Vector `json:"insert_scale"`
		InsertRotation      float64      `json:"insert_rotation"`
		AttachmentPoint     int16        `json:"attachment_point"`
		LineSpacingStyle    int16        `json:"line_spacing_style"`
		LineSpacingFactor   float64      `json:"line_spacing_factor"`
		ActualMeasurement   float64      `json:"actual_measurement"`
		Point12             lbits.Vector `json:"point_12"`
	}
	// Dimension holds every dimension variant. The numbered points follow
	// the DXF group codes; which of them are stored depends on the type.
	Dimension struct {
		Entity
		DimensionData
		Point10           lbits.Vector `json:"point_10"`
		Point13           lbits.Vector `json:"point_13"`
		Point14           lbits.Vector `json:"point_14"`
		Point15           lbits.Vector `json:"point_15"`
		Point16           lbits.Vector `json:"point_16"`
		Flags2            uint8        `json:"flags_2,omitempty"`
		ExtLineRotation   float64      `json:"ext_line_rotation,omitempty"`
		DimensionRotation float64      `json:"dimension_rotation,omitempty"`
		LeaderLength      float64      `json:"leader_length,omitempty"`
		DimStyle          lbits.Handle `json:"dim_style"`
		AnonymousBlock    lbits.Handle `json:"anonymous_block"`
	}

	Dictionary struct {
		Record
		CloningFlag   int16          `json:"cloning_flag"`
		HardOwnerFlag uint8          `json:"hard_owner_flag"`
		ItemNames     []string       `json:"item_names"`
		ItemHandles   []lbits.Handle `json:"item_handles"`
	}
	Layer struct {
		Record
		Name                   string       `json:"name"`
		Flag64                 bool         `json:"flag_64"`
		XRefIndex              int16        `json:"xref_index"`
		XDep                   bool         `json:"xdep"`
		Flags                  int16        `json:"flags"`
		Color                  int16        `json:"color"`
		ExternalReferenceBlock lbits.Handle `json:"external_reference_block"`
		PlotStyle              lbits.Handle `json:"plot_style"`
		Linetype               lbits.Handle `json:"linetype"`
	}
	// Control is the table object listing the entries of a symbol table.
	// Block and linetype controls list two trailing entries beyond
	// NumEntries: model and paper space, or BYLAYER and BYBLOCK.
	Control struct {
		Record
		NumEntries int32          `json:"num_entries"`
		Entries    []lbits.Handle `json:"entries"`
	}
	BlockHeader struct {
		Record
		Name         string         `json:"name"`
		Flag64       bool           `json:"flag_64"`
		XRefIndex    int16          `json:"xref_index"`
		XDep         bool           `json:"xdep"`
		Anonymous    bool           `json:"anonymous"`
		HasAttribs   bool           `json:"has_attribs"`
		IsXRef       bool           `json:"is_xref"`
		XRefOverlaid bool           `json:"xref_overlaid"`
		Loaded       bool           `json:"loaded"`
		BasePoint    lbits.Vector   `json:"base_point"`
		XRefPath     string         `json:"xref_path"`
		InsertCounts []uint8        `json:"insert_counts,omitempty"`
		Description  string         `json:"description"`
		PreviewData  []byte         `json:"preview_data,omitempty"`
		Null         lbits.Handle   `json:"null"`
		BlockEntity  lbits.Handle   `json:"block_entity"`
		FirstEntity  lbits.Handle   `json:"first_entity"`
		LastEntity   lbits.Handle   `json:"last_entity"`
		EndBlock     lbits.Handle   `json:"end_block"`
		Inserts      []lbits.Handle `json:"inserts,omitempty"`
		Layout       lbits.Handle   `json:"layout"`
	}
	Dash struct {
		Length    float64 `json:"length"`
		ShapeCode int16   `json:"shape_code"`
		XOffset   float64 `json:"x_offset"`
		YOffset   float64 `json:"y_offset"`
		Scale     float64 `json:"scale"`
		Rotation  float64 `json:"rotation"`
		ShapeFlag int16   `json:"shape_flag"`
	}
	LType struct {
		Record
		Name          string       `json:"name"`
		Flag64        bool         `json:"flag_64"`
		XRefIndex     int16        `json:"xref_index"`
		XDep          bool         `json:"xdep"`
		Description   string       `json:"description"`
		PatternLength float64      `json:"pattern_length"`
		Alignment     uint8        `json:"alignment"`
		Dashes        []Dash       `json:"dashes"`
		TextArea      []byte       `json:"text_area"`
		XRefBlock     lbits.Handle `json:"xref_block"`
	}
	ImageDef struct {
		Record
		ClassVersion    int32   `json:"class_version"`
		ImageWidth      float64 `json:"image_width"`
		ImageHeight     float64 `json:"image_height"`
		FilePath        string  `json:"file_path"`
		IsLoaded        bool    `json:"is_loaded"`
		ResolutionUnits uint8   `json:"resolution_units"`
		PixelWidth      float64 `json:"pixel_width"`
		PixelHeight     float64 `json:"pixel_height"`
	}
	ImageDefReactor struct {
		Record
		ClassVersion int32 `json:"class_version"`
	}
	XRecord struct {
		Record
		Data        []byte         `json:"data"`
		CloningFlag int16          `json:"cloning_flag"`
		ObjectIDs   []lbits.Handle `json:"object_ids,omitempty"`
	}
)

const (
	textNoElevation  = 0x01
	textNoAlignment  = 0x02
	textNoOblique    = 0x04
	textNoRotation   = 0x08
	textNoWidth      = 0x10
	textNoGeneration = 0x20
	textNoHorizontal = 0x40
	textNoVertical   = 0x80

	lwPolylineExtrusion  = 0x01
	lwPolylineThickness  = 0x02
	lwPolylineConstWidth = 0x04
	lwPolylineElevation  = 0x08
	lwPolylineBulges     = 0x10
	lwPolylineWidths     = 0x20

	// ClipRectangle is the clip boundary type stored as two corners.
	ClipRectangle = 1
	// textAreaSize is the fixed size of the linetype text area.
	textAreaSize = 256
)

func (l *Layer) Frozen() bool {
	return l.Flags&0x01 != 0
}

func (l *Layer) On() bool {
	return l.Flags&0x02 != 0
}

func (l *Layer) FrozenInNewViewports() bool {
	return l.Flags&0x04 != 0
}

func (l *Layer) Locked() bool {
	return l.Flags&0x08 != 0
}

func (l *Layer) Plotting() bool {
	return l.Flags&0x10 != 0
}

// LineWeight is stored in bits 5 to 9 of the flags.
func (l *Layer) LineWeight() uint8 {
	return uint8((l.Flags & 0x03E0) >> 5)
}

// HasEntities is false for external references, whose header does not
// store an entity chain.
func (b *BlockHeader) HasEntities() bool {
	return !b.IsXRef && !b.XRefOverlaid
}

func (i *Image) IsRectangleClip() bool {
	return i.ClipBoundaryType == ClipRectangle
}
