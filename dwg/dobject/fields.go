package dobject

import (
	"github.com/pkg/errors"

	"opendwg/dwg/dlimit"
	"opendwg/dwg/lbits"
)

// fieldReader keeps the first error hit while reading a run of fields, so
// per-type decoders can read their fields in order and check once at the end.
type fieldReader struct {
	reader *lbits.Reader
	err    error
	// base is the bit position right after the size prefix; handle stream
	// offsets are relative to it.
	base         int
	handleStream int
}

func read[T any](r *fieldReader, f func() (T, error)) T {
	var zero T
	if r.err != nil {
		return zero
	}
	value, err := f()
	if err != nil {
		r.err = err
		return zero
	}
	return value
}

func (r *fieldReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *fieldReader) bit() bool {
	return read(r, r.reader.ReadBit)
}

func (r *fieldReader) twoBits() uint8 {
	return read(r, r.reader.Read2Bits)
}

func (r *fieldReader) rawChar() uint8 {
	return read(r, r.reader.ReadRawChar)
}

func (r *fieldReader) rawShort() int16 {
	return read(r, r.reader.ReadRawShort)
}

func (r *fieldReader) rawLong() int32 {
	return read(r, r.reader.ReadRawLong)
}

func (r *fieldReader) rawDouble() float64 {
	return read(r, r.reader.ReadRawDouble)
}

func (r *fieldReader) bitShort() int16 {
	return read(r, r.reader.ReadBitShort)
}

func (r *fieldReader) bitLong() int32 {
	return read(r, r.reader.ReadBitLong)
}

func (r *fieldReader) bitDouble() float64 {
	return read(r, r.reader.ReadBitDouble)
}

func (r *fieldReader) defaultDouble(def float64) float64 {
	return read(r, func() (float64, error) {
		return r.reader.ReadDefaultDouble(def)
	})
}

func (r *fieldReader) text() string {
	return read(r, r.reader.ReadText)
}

func (r *fieldReader) handle() lbits.Handle {
	return read(r, r.reader.ReadHandle)
}

func (r *fieldReader) handle8() lbits.Handle {
	return read(r, r.reader.ReadHandle8)
}

func (r *fieldReader) vector() lbits.Vector {
	return read(r, r.reader.ReadVector)
}

func (r *fieldReader) rawVector() lbits.Vector {
	return read(r, r.reader.ReadRawVector)
}

func (r *fieldReader) extrusion() lbits.Vector {
	return read(r, r.reader.ReadExtrusion)
}

func (r *fieldReader) thickness() float64 {
	return read(r, r.reader.ReadThickness)
}

func (r *fieldReader) bytes(n int) []byte {
	return read(r, func() ([]byte, error) {
		return r.reader.ReadBytes(n)
	})
}

// count validates a count read from the object against its ceiling before it
// is used as a loop bound. A failed check yields 0 and sticks.
func (r *fieldReader) count(name string, value int64, ceiling int64) int {
	if r.err != nil {
		return 0
	}
	if err := dlimit.Check(name, value, ceiling); err != nil {
		r.err = err
		return 0
	}
	return int(value)
}

func (r *fieldReader) handles(n int) []lbits.Handle {
	if r.err != nil {
		return nil
	}
	hs := make([]lbits.Handle, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		hs = append(hs, r.handle())
	}
	return hs
}

func (r *fieldReader) skip(bits int) {
	if r.err != nil {
		return
	}
	if err := r.reader.SeekBits(bits); err != nil {
		r.err = errors.Wrap(err, "skip")
	}
}

func (r *fieldReader) seek(bitPosition int) {
	if r.err != nil {
		return
	}
	if err := r.reader.Seek(bitPosition); err != nil {
		r.err = errors.Wrap(err, "seek to handle stream")
	}
}

// textData reads the fields TEXT, ATTRIB and ATTDEF share.
func (r *fieldReader) textData() TextData {
	var t TextData
	t.DataFlags = r.rawChar()
	if t.DataFlags&textNoElevation == 0 {
		t.Elevation = r.rawDouble()
	}
	t.Insertion = r.rawVector()
	if t.DataFlags&textNoAlignment == 0 {
		t.Alignment.X = r.defaultDouble(t.Insertion.X)
		t.Alignment.Y = r.defaultDouble(t.Insertion.Y)
	}
	t.Extrusion = r.extrusion()
	t.Thickness = r.thickness()
	if t.DataFlags&textNoOblique == 0 {
		t.ObliqueAngle = r.rawDouble()
	}
	if t.DataFlags&textNoRotation == 0 {
		t.RotationAngle = r.rawDouble()
	}
	t.Height = r.rawDouble()
	if t.DataFlags&textNoWidth == 0 {
		t.WidthFactor = r.rawDouble()
	}
	t.Value = r.text()
	if t.DataFlags&textNoGeneration == 0 {
		t.Generation = r.bitShort()
	}
	if t.DataFlags&textNoHorizontal == 0 {
		t.HorizontalAlign = r.bitShort()
	}
	if t.DataFlags&textNoVertical == 0 {
		t.VerticalAlign = r.bitShort()
	}
	return t
}

func (r *fieldReader) eed() []EED {
	records := make([]EED, 0)
	for r.err == nil {
		size := r.bitShort()
		if size == 0 || r.err != nil {
			break
		}
		n := r.count("eed size", int64(size), dlimit.MaxEEDSize)
		if len(records) >= dlimit.MaxEEDRecords {
			r.fail(errors.Wrapf(dlimit.ErrLimitExceeded, "more than %d eed records", dlimit.MaxEEDRecords))
			break
		}
		application := r.handle()
		data := r.bytes(n)
		records = append(records, EED{Application: application, Data: data})
	}
	return records
}
