package dobject

import (
	"github.com/pkg/errors"

	"opendwg/ds"
	"opendwg/dwg/lbits"
)

type (
	// Object is any decoded object. Entities additionally implement
	// EntityObject, table records and other non-entities RecordObject.
	Object interface {
		ObjectType() Type
		ObjectHandle() uint64
		CRCValid() bool
		frame() *Frame
	}
	EntityObject interface {
		Object
		EntityData() *Entity
	}
	RecordObject interface {
		Object
		RecordData() *Record
	}

	// Frame carries what every object has regardless of its type: where it
	// came from and whether its trailing CRC matched.
	Frame struct {
		Kind          Type   `json:"type"`
		RawType       int16  `json:"raw_type"`
		Handle        uint64 `json:"handle"`
		Size          int    `json:"size"`
		StoredCRC     uint16 `json:"stored_crc"`
		CalculatedCRC uint16 `json:"calculated_crc"`
		HandlesOnly   bool   `json:"handles_only,omitempty"`
	}
	EED struct {
		Application lbits.Handle `json:"application"`
		Data        []byte       `json:"data"`
	}

	// Entity is the common entity data and the common entity handle block.
	Entity struct {
		Frame
		SizeInBits      int32   `json:"size_in_bits"`
		EED             []EED   `json:"eed,omitempty"`
		GraphicsPresent bool    `json:"graphics_present"`
		EntityMode      uint8   `json:"entity_mode"`
		NumReactors     int32   `json:"num_reactors"`
		NoLinks         bool    `json:"no_links"`
		Color           int16   `json:"color"`
		LinetypeScale   float64 `json:"linetype_scale"`
		LinetypeFlags   uint8   `json:"linetype_flags"`
		PlotStyleFlags  uint8   `json:"plot_style_flags"`
		Invisibility    int16   `json:"invisibility"`
		LineWeight      uint8   `json:"line_weight"`

		Owner       lbits.Handle   `json:"owner"`
		Reactors    []lbits.Handle `json:"reactors,omitempty"`
		XDictionary lbits.Handle   `json:"xdictionary"`
		Previous    lbits.Handle   `json:"previous"`
		Next        lbits.Handle   `json:"next"`
		Layer       lbits.Handle   `json:"layer"`
		Linetype    lbits.Handle   `json:"linetype"`
		PlotStyle   lbits.Handle   `json:"plot_style"`
	}

	// Record is the common part of non-entity objects. Owner is the parent
	// handle, which for table entries is their control object.
	Record struct {
		Frame
		SizeInBits  int32          `json:"size_in_bits"`
		EED         []EED          `json:"eed,omitempty"`
		NumReactors int32          `json:"num_reactors"`
		Owner       lbits.Handle   `json:"owner"`
		Reactors    []lbits.Handle `json:"reactors,omitempty"`
		XDictionary lbits.Handle   `json:"xdictionary"`
	}
)

const (
	// EntityModeOwned is the entity mode of entities whose owner handle is
	// stored explicitly.
	EntityModeOwned = 0
	// ColorByBlock and ColorByLayer are the reserved color indices.
	ColorByBlock = 0
	ColorByLayer = 256
	// flagsHandlePresent marks linetype and plot style flags that are
	// followed by an explicit handle.
	flagsHandlePresent = 0x03
)

var (
	ErrNotFound       = errors.New("object handle not in the object map")
	ErrObjectTooLarge = errors.New("object declared size exceeds sanity limit")
	ErrTypeMismatch   = errors.New("object has an unexpected type")
)

func (f *Frame) ObjectType() Type {
	return f.Kind
}

func (f *Frame) ObjectHandle() uint64 {
	return f.Handle
}

// CRCValid reports whether the CRC stored after the object matches its bytes.
func (f *Frame) CRCValid() bool {
	return f.StoredCRC == f.CalculatedCRC
}

func (f *Frame) frame() *Frame {
	return f
}

func (e *Entity) EntityData() *Entity {
	return e
}

// Resolve turns a handle stored by this entity into an absolute one.
func (e *Entity) Resolve(h lbits.Handle) uint64 {
	return h.Resolve(e.Handle)
}

// NextHandle is the handle of the next entity in the owner's chain.
func (e *Entity) NextHandle() uint64 {
	if e.NoLinks {
		return ds.SaturatingAdd(e.Handle, 1)
	}
	return e.Resolve(e.Next)
}

func (r *Record) RecordData() *Record {
	return r
}

func (r *Record) Resolve(h lbits.Handle) uint64 {
	return h.Resolve(r.Handle)
}

// As type-asserts an object, failing with ErrTypeMismatch.
func As[T Object](object Object) (T, error) {
	var zero T
	if object == nil {
		return zero, errors.Wrap(ErrTypeMismatch, "nil object")
	}
	t, ok := object.(T)
	if !ok {
		return t, errors.Wrapf(ErrTypeMismatch, "object %X is %s", object.ObjectHandle(), object.ObjectType())
	}
	return t, nil
}
