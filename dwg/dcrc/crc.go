package dcrc

import (
	"github.com/samber/lo"
)

const (
	// Seed is the initial value of every checksum the format stores.
	Seed       uint16 = 0xC0C1
	polynomial uint16 = 0xA001
)

var table [256]uint16

func init() {
	for i := range table {
		table[i] = lo.Reduce(
			make([]struct{}, 8),
			func(crc uint16, _ struct{}, _ int) uint16 {
				if crc&1 == 1 {
					return (crc >> 1) ^ polynomial
				}
				return crc >> 1
			},
			uint16(i),
		)
	}
}

// Checksum continues crc over bs. The format calls it CRC-8 although the
// result is 16 bits wide.
func Checksum(crc uint16, bs []byte) uint16 {
	for _, b := range bs {
		crc = (crc >> 8) ^ table[b^byte(crc)]
	}
	return crc
}
