package dlayer

import (
	"github.com/pkg/errors"

	"opendwg/ds"
	"opendwg/dwg/dgeom"
)

type (
	// Member is an entity placed on a layer. Entities reached through an
	// insert keep the handle of the model space insert and the transform
	// composed down to them.
	Member struct {
		Entity    uint64        `json:"entity"`
		Insert    uint64        `json:"insert,omitempty"`
		Transform *dgeom.Matrix `json:"transform,omitempty"`
	}

	Layer struct {
		Name                 string `json:"name"`
		Handle               uint64 `json:"handle"`
		Frozen               bool   `json:"frozen"`
		On                   bool   `json:"on"`
		FrozenInNewViewports bool   `json:"frozen_in_new_viewports"`
		Locked               bool   `json:"locked"`
		Plotting             bool   `json:"plotting"`
		// Color is the palette index, negative when the layer is off.
		Color      int16    `json:"color"`
		LineWeight uint8    `json:"line_weight"`
		Members    []Member `json:"members"`
		// Tags counts the attribute tags seen on the layer, in the order they
		// were first seen.
		Tags *ds.LinkedHashMap[string, int] `json:"tags"`
	}

	Options struct {
		IncludeUnsupported bool
	}
)

var (
	ErrNoLayerControl = errors.New("layer control object cannot be read")
	ErrNoModelSpace   = errors.New("model space block header cannot be read")
)

func (l *Layer) TagNames() []string {
	return l.Tags.Keys()
}

func (l *Layer) addTag(tag string) {
	l.Tags.Update(tag, func(count int) int {
		return count + 1
	})
}

// Placement is what the materializer needs to know about where m sits.
func (l *Layer) Placement(m Member) dgeom.Placement {
	return dgeom.Placement{
		LayerColor: l.Color,
		Insert:     m.Insert,
		Transform:  m.Transform,
	}
}
