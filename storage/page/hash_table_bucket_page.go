package page

import (
	pair "github.com/notEpsilon/go-pair"

	"github.com/AlanFreySpace/DataBase/common"
)

// HashTablePair is one (key, value) slot of a bucket page. The key is the
// 32bit hash of the indexed key and the value is an opaque 32bit payload.
// Non-unique keys are supported.
type HashTablePair struct {
	key   uint32
	value uint32
}

const sizeOfHashTablePair = 8

// BucketArraySize is the largest number of pairs such that the pair array
// plus the two bitmaps (one bit per slot each) fit in one page.
const BucketArraySize = 4 * common.PageSize / (4*sizeOfHashTablePair + 1)

// KeyComparator compares two stored keys, returning 0 when they are equal
type KeyComparator func(lhs uint32, rhs uint32) int

// IntComparator is the comparator for the plain 32bit keys the bucket stores
func IntComparator(lhs uint32, rhs uint32) int {
	if lhs < rhs {
		return -1
	} else if lhs > rhs {
		return 1
	}
	return 0
}

/**
 * Bucket page for the extendible hash table.
 *
 * Bucket page format:
 *  ----------------------------------------------------------------
 * | occupied bitmap | readable bitmap | KEY(1)+VALUE(1) | ... | KEY(n)+VALUE(n)
 *  ----------------------------------------------------------------
 *
 * Bit i of a bitmap lives at byte i/8, bit i%8 (LSB first). The occupied
 * bit records "slot was ever used" and is never cleared by removal, the
 * readable bit records "slot currently holds a live pair".
 */
type HashTableBucketPage struct {
	occupied [(BucketArraySize-1)/8 + 1]byte
	readable [(BucketArraySize-1)/8 + 1]byte
	array    [BucketArraySize]HashTablePair
}

// GetValue appends to result the value of every readable slot whose key
// compares equal. Returns true iff at least one value was appended.
func (page *HashTableBucketPage) GetValue(key uint32, cmp KeyComparator, result *[]uint32) bool {
	ret := false
	for i := uint32(0); i < BucketArraySize; i++ {
		if page.IsReadable(i) && cmp(key, page.array[i].key) == 0 {
			*result = append(*result, page.array[i].value)
			ret = true
		}
	}
	return ret
}

// Insert scans all slots once. An exact (key, value) duplicate rejects the
// insert. Otherwise the pair lands in the first non-readable slot seen
// during the scan. Returns false on duplicate or when the bucket is full.
func (page *HashTableBucketPage) Insert(key uint32, value uint32, cmp KeyComparator) bool {
	available := int64(-1)
	for i := uint32(0); i < BucketArraySize; i++ {
		if page.IsReadable(i) {
			if cmp(key, page.array[i].key) == 0 && value == page.array[i].value {
				return false
			}
		} else if available == -1 {
			available = int64(i)
		}
	}

	if available == -1 {
		// bucket is full. the caller has to split
		return false
	}

	page.array[available] = HashTablePair{key, value}
	page.SetOccupied(uint32(available))
	page.SetReadable(uint32(available))
	return true
}

// Remove clears the readable bit of the first readable slot matching
// (key, value). The occupied bit is intentionally left set: iteration may
// stop at the first never-used slot and removal must not reopen that cut.
func (page *HashTableBucketPage) Remove(key uint32, value uint32, cmp KeyComparator) bool {
	for i := uint32(0); i < BucketArraySize; i++ {
		if page.IsReadable(i) {
			if cmp(key, page.array[i].key) == 0 && value == page.array[i].value {
				page.RemoveAt(i)
				return true
			}
		}
	}
	return false
}

// KeyAt returns the key at the slot. Undefined if the slot is not readable.
func (page *HashTableBucketPage) KeyAt(bucketIdx uint32) uint32 {
	return page.array[bucketIdx].key
}

// ValueAt returns the value at the slot. Undefined if the slot is not readable.
func (page *HashTableBucketPage) ValueAt(bucketIdx uint32) uint32 {
	return page.array[bucketIdx].value
}

// RemoveAt clears the readable bit at the slot
func (page *HashTableBucketPage) RemoveAt(bucketIdx uint32) {
	page.readable[bucketIdx/8] &= ^(1 << (bucketIdx % 8))
}

// IsOccupied returns whether the slot was ever used
func (page *HashTableBucketPage) IsOccupied(bucketIdx uint32) bool {
	return (page.occupied[bucketIdx/8] & (1 << (bucketIdx % 8))) != 0
}

// SetOccupied sets the occupied bit at the slot
func (page *HashTableBucketPage) SetOccupied(bucketIdx uint32) {
	page.occupied[bucketIdx/8] |= (1 << (bucketIdx % 8))
}

// IsReadable returns whether the slot holds a live pair
func (page *HashTableBucketPage) IsReadable(bucketIdx uint32) bool {
	return (page.readable[bucketIdx/8] & (1 << (bucketIdx % 8))) != 0
}

// SetReadable sets the readable bit at the slot
func (page *HashTableBucketPage) SetReadable(bucketIdx uint32) {
	page.readable[bucketIdx/8] |= (1 << (bucketIdx % 8))
}

// IsFull is true iff every readable bit is set
func (page *HashTableBucketPage) IsFull() bool {
	iNum := uint32(BucketArraySize / 8)
	for i := uint32(0); i < iNum; i++ {
		if page.readable[i] != 0xff {
			return false
		}
	}

	iRemain := uint32(BucketArraySize % 8)
	if iRemain > 0 {
		c := page.readable[iNum]
		for j := uint32(0); j < iRemain; j++ {
			if (c & 1) != 1 {
				return false
			}
			c >>= 1
		}
	}
	return true
}

// IsEmpty is true iff no readable bit is set
func (page *HashTableBucketPage) IsEmpty() bool {
	for i := 0; i < len(page.readable); i++ {
		if page.readable[i] != 0 {
			return false
		}
	}
	return true
}

// NumReadable returns the number of live pairs in the bucket
func (page *HashTableBucketPage) NumReadable() uint32 {
	num := uint32(0)
	for i := 0; i < len(page.readable); i++ {
		c := page.readable[i]
		for c != 0 {
			num += uint32(c & 1)
			c >>= 1
		}
	}
	return num
}

// GetAllPairs exports every live pair. The split path of the hash table
// uses this to redistribute a bucket's content.
func (page *HashTableBucketPage) GetAllPairs() []pair.Pair[uint32, uint32] {
	pairs := make([]pair.Pair[uint32, uint32], 0, page.NumReadable())
	for i := uint32(0); i < BucketArraySize; i++ {
		if page.IsReadable(i) {
			pairs = append(pairs, pair.Pair[uint32, uint32]{First: page.array[i].key, Second: page.array[i].value})
		}
	}
	return pairs
}

// PrintBucket prints occupancy counters. Iteration stops at the first
// never-used slot.
func (page *HashTableBucketPage) PrintBucket() {
	size := uint32(0)
	taken := uint32(0)
	free := uint32(0)
	for bucketIdx := uint32(0); bucketIdx < BucketArraySize; bucketIdx++ {
		if !page.IsOccupied(bucketIdx) {
			break
		}

		size++

		if page.IsReadable(bucketIdx) {
			taken++
		} else {
			free++
		}
	}

	common.ShPrintf(common.DEBUG_INFO, "Bucket Capacity: %d, Size: %d, Taken: %d, Free: %d\n", BucketArraySize, size, taken, free)
}
