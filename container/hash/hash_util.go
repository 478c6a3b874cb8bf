package hash

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// GenHashMurMur hashes a key the way every consumer of the extendible hash
// table is expected to: the first 32 bits (little endian) of the 128 bit
// murmur3 digest, which the directory masks.
func GenHashMurMur(key []byte) uint32 {
	h := murmur3.New128()
	h.Write(key)

	hash := h.Sum(nil)

	return binary.LittleEndian.Uint32(hash)
}
