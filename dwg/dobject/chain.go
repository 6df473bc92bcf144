package dobject

import (
	"github.com/pkg/errors"

	"opendwg/dlog"
	"opendwg/ds"
	"opendwg/dwg/dlimit"
)

// Source is anything objects can be decoded from by handle.
type Source interface {
	Decode(handle uint64, handlesOnly bool) (Object, error)
}

// WalkChain visits the entities linked from first to last, last included.
// The walk stops at a null handle, at a handle it has already visited, at an
// object that cannot be decoded or is not an entity, or when visit returns
// false. Only a chain longer than dlimit.MaxChainLength is an error.
func WalkChain(source Source, first uint64, last uint64, handlesOnly bool, visit func(EntityObject) bool) error {
	visited := ds.NewSet[uint64]()
	handle := first
	for handle != 0 {
		if !visited.Add(handle) {
			dlog.Debugf("entity chain %X..%X loops back to %X", first, last, handle)
			return nil
		}
		if visited.Len() > dlimit.MaxChainLength {
			return errors.Wrapf(dlimit.ErrLimitExceeded, "entity chain from %X", first)
		}
		object, err := source.Decode(handle, handlesOnly)
		if err != nil {
			dlog.Debugf("entity chain %X..%X stops at %X: %v", first, last, handle, err)
			return nil
		}
		entity, ok := object.(EntityObject)
		if !ok {
			dlog.Debugf("entity chain %X..%X reaches %s object %X", first, last, object.ObjectType(), handle)
			return nil
		}
		if !visit(entity) || handle == last {
			return nil
		}
		handle = entity.EntityData().NextHandle()
	}
	return nil
}
