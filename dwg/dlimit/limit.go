package dlimit

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Ceilings applied to sizes and counts read from a drawing. They are not
// protocol limits; anything above them is treated as corruption of the object
// being read.
const (
	MaxSectionSize   = 65536
	MaxObjectSize    = 65536
	MaxReactors      = 5000
	MaxVertices      = 100000
	MaxEEDSize       = 65536
	MaxEEDRecords    = 1000
	MaxGraphicsSize  = 10 * 1024 * 1024
	MaxItems         = 100000
	MaxKnots         = 100000
	MaxDashes        = 256
	MaxFaces         = 100000
	MaxInsertCount   = 100000
	MaxPreviewSize   = 10 * 1024 * 1024
	MaxDataBytes     = 1024 * 1024
	MaxChainLength   = 1000000
	MaxBlockDepth    = 64
	MaxExpansions    = 100000
	MaxLocators      = 64
	MaxClipVertices  = 100000
	MaxMLineLines    = 16
	MaxMLineSegParms = 1000
)

var ErrLimitExceeded = errors.New("value exceeds sanity limit")

// Check fails when value is negative or above ceiling. Unsigned values too
// large for an int64 count as negative.
func Check[T constraints.Integer](name string, value T, ceiling int64) error {
	v := int64(value)
	if v < 0 || v > ceiling {
		return errors.Wrapf(ErrLimitExceeded, "%s = %v (allowed 0..%d)", name, value, ceiling)
	}
	return nil
}
