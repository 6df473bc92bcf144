package dlimit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	assert.NoError(t, Check("vertices", int32(0), MaxVertices))
	assert.NoError(t, Check("vertices", int32(MaxVertices), MaxVertices))
	assert.ErrorIs(t, Check("vertices", int32(MaxVertices+1), MaxVertices), ErrLimitExceeded)
	assert.ErrorIs(t, Check("vertices", int32(-1), MaxVertices), ErrLimitExceeded)
	assert.ErrorIs(t, Check("size", uint64(math.MaxUint64), MaxObjectSize), ErrLimitExceeded)
}
