package ds

import (
	"encoding/json"
	"fmt"
)

// DumpJSON renders t for humans, indented when indent is set. Marshalling
// errors are rendered in place of the value.
func DumpJSON[T any](t T, indent bool) string {
	var (
		tBytes []byte
		err    error
	)
	if indent {
		tBytes, err = json.MarshalIndent(t, "", "  ")
	} else {
		tBytes, err = json.Marshal(t)
	}
	if err != nil {
		return fmt.Errorf("DumpJSON error %w", err).Error()
	}

	return string(tBytes)
}
