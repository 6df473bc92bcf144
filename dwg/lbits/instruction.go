package lbits

import (
	"encoding/json"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
)

// ExecuteInstructions fills a T from fixed-layout fields: the values are
// read in order into a map whose keys are the JSON names of the fields of T,
// and the map goes through JSON into T.
func ExecuteInstructions[T any](instructions []Instruction) (*T, error) {
	tMap, err := ExecuteOrderedInstructions(instructions)
	if err != nil {
		return nil, err
	}
	tBytes, err := json.Marshal(tMap)
	if err != nil {
		err := errors.Wrapf(err, `ExecuteInstructions error marshalling map "%v" to JSON`, tMap)
		return nil, err
	}

	var t T
	if err := json.Unmarshal(tBytes, &t); err != nil {
		err := errors.Wrapf(
			err, `ExecuteInstructions error unmarshalling bytes "%s" to type "%T"`,
			string(tBytes), t,
		)
		return nil, err
	}

	return &t, nil
}

// ExecuteOrderedInstructions runs the read functions in order and keeps the
// values keyed in that same order.
func ExecuteOrderedInstructions(instructions []Instruction) (*orderedmap.OrderedMap, error) {
	tMap := orderedmap.New()
	for _, instruction := range instructions {
		value, err := instruction.ReadFunction()
		if err != nil {
			err := errors.Wrapf(err, `ExecuteInstructions error reading key "%v"`, instruction.Key)
			return nil, err
		}
		tMap.Set(instruction.Key, value)
	}
	return tMap, nil
}

func CreateNBytesReadFunction(reader *Reader, n int) ReadFunction {
	return func() (any, error) {
		return reader.ReadBytes(n)
	}
}

func CreateRawCharReadFunction(reader *Reader) ReadFunction {
	return func() (any, error) {
		return reader.ReadRawChar()
	}
}

func CreateRawShortReadFunction(reader *Reader) ReadFunction {
	return func() (any, error) {
		return reader.ReadRawShort()
	}
}

func CreateRawLongReadFunction(reader *Reader) ReadFunction {
	return func() (any, error) {
		return reader.ReadRawLong()
	}
}
