package hash

import (
	"unsafe"

	"github.com/AlanFreySpace/DataBase/common"
	"github.com/AlanFreySpace/DataBase/storage/buffer"
	"github.com/AlanFreySpace/DataBase/storage/page"
	"github.com/AlanFreySpace/DataBase/types"
)

/**
 * Implementation of extendible hashing that is backed by a buffer pool
 * manager. Non-unique keys are supported. Supports insert and delete. The
 * table grows and shrinks dynamically as buckets become full and empty.
 *
 * The directory and the buckets are plain pages of the pool; the table
 * refers to them by page id only and never keeps a raw pointer across
 * operations.
 */
type ExtendibleHashTable struct {
	directoryPageId types.PageID
	bpm             buffer.BufferPoolManager
	table_latch     common.ReaderWriterLatch
}

// NewExtendibleHashTable bootstraps a directory at global depth zero with a
// single empty bucket
func NewExtendibleHashTable(bpm buffer.BufferPoolManager) *ExtendibleHashTable {
	dirRaw := bpm.NewPage()
	common.SH_Assert(dirRaw != nil, "buffer pool can not hold the directory page")
	directory := (*page.HashTableDirectoryPage)(unsafe.Pointer(dirRaw.Data()))
	directory.SetPageId(dirRaw.GetPageId())

	bucketRaw := bpm.NewPage()
	common.SH_Assert(bucketRaw != nil, "buffer pool can not hold the first bucket page")
	directory.SetBucketPageId(0, bucketRaw.GetPageId())
	directory.SetLocalDepth(0, 0)

	bpm.UnpinPage(bucketRaw.GetPageId(), true)
	bpm.UnpinPage(dirRaw.GetPageId(), true)

	return &ExtendibleHashTable{dirRaw.GetPageId(), bpm, common.NewRWLatch()}
}

// GetValue returns every value stored under key
func (ht *ExtendibleHashTable) GetValue(key []byte) []uint32 {
	ht.table_latch.RLock()
	defer ht.table_latch.RUnlock()

	hash := GenHashMurMur(key)

	dirRaw := ht.bpm.FetchPage(ht.directoryPageId)
	directory := (*page.HashTableDirectoryPage)(unsafe.Pointer(dirRaw.Data()))

	bucketIdx := hash & directory.GetGlobalDepthMask()
	bucketPageId := directory.GetBucketPageId(bucketIdx)
	bucketRaw := ht.bpm.FetchPage(bucketPageId)
	bucket := (*page.HashTableBucketPage)(unsafe.Pointer(bucketRaw.Data()))

	result := make([]uint32, 0)
	bucket.GetValue(hash, page.IntComparator, &result)

	ht.bpm.UnpinPage(bucketPageId, false)
	ht.bpm.UnpinPage(ht.directoryPageId, false)

	return result
}

// Insert stores (key, value). An exact duplicate pair is rejected. A full
// bucket is split, doubling the directory when the bucket's local depth has
// reached the global depth. A full bucket which can not be split fails the
// insert: the directory is at MaxBucketDepth or no frame is free for the
// new bucket page.
func (ht *ExtendibleHashTable) Insert(key []byte, value uint32) bool {
	ht.table_latch.WLock()
	defer ht.table_latch.WUnlock()

	hash := GenHashMurMur(key)

	dirRaw := ht.bpm.FetchPage(ht.directoryPageId)
	directory := (*page.HashTableDirectoryPage)(unsafe.Pointer(dirRaw.Data()))

	dirDirty := false
	ret := false
	for {
		bucketIdx := hash & directory.GetGlobalDepthMask()
		bucketPageId := directory.GetBucketPageId(bucketIdx)
		bucketRaw := ht.bpm.FetchPage(bucketPageId)
		bucket := (*page.HashTableBucketPage)(unsafe.Pointer(bucketRaw.Data()))

		if bucket.Insert(hash, value, page.IntComparator) {
			ht.bpm.UnpinPage(bucketPageId, true)
			ret = true
			break
		}
		if !bucket.IsFull() {
			// exact duplicate
			ht.bpm.UnpinPage(bucketPageId, false)
			break
		}

		ht.bpm.UnpinPage(bucketPageId, false)
		ok := ht.splitBucket(directory, bucketIdx)
		// the directory may have doubled even when the split gave up
		dirDirty = true
		if !ok {
			break
		}
	}

	ht.bpm.UnpinPage(ht.directoryPageId, dirDirty)
	return ret
}

// Remove deletes the exact (key, value) pair. A bucket left empty is merged
// into its split image and the directory shrinks while it can.
func (ht *ExtendibleHashTable) Remove(key []byte, value uint32) bool {
	ht.table_latch.WLock()
	defer ht.table_latch.WUnlock()

	hash := GenHashMurMur(key)

	dirRaw := ht.bpm.FetchPage(ht.directoryPageId)
	directory := (*page.HashTableDirectoryPage)(unsafe.Pointer(dirRaw.Data()))

	bucketIdx := hash & directory.GetGlobalDepthMask()
	bucketPageId := directory.GetBucketPageId(bucketIdx)
	bucketRaw := ht.bpm.FetchPage(bucketPageId)
	bucket := (*page.HashTableBucketPage)(unsafe.Pointer(bucketRaw.Data()))

	removed := bucket.Remove(hash, value, page.IntComparator)
	empty := bucket.IsEmpty()
	ht.bpm.UnpinPage(bucketPageId, removed)

	dirDirty := false
	if removed && empty {
		dirDirty = ht.mergeBucket(directory, bucketIdx)
	}

	ht.bpm.UnpinPage(ht.directoryPageId, dirDirty)
	return removed
}

// VerifyIntegrity checks the directory invariants
func (ht *ExtendibleHashTable) VerifyIntegrity() {
	ht.table_latch.RLock()
	defer ht.table_latch.RUnlock()

	dirRaw := ht.bpm.FetchPage(ht.directoryPageId)
	directory := (*page.HashTableDirectoryPage)(unsafe.Pointer(dirRaw.Data()))
	directory.VerifyIntegrity()
	ht.bpm.UnpinPage(ht.directoryPageId, false)
}

// GetGlobalDepth returns the directory's current global depth
func (ht *ExtendibleHashTable) GetGlobalDepth() uint32 {
	ht.table_latch.RLock()
	defer ht.table_latch.RUnlock()

	dirRaw := ht.bpm.FetchPage(ht.directoryPageId)
	directory := (*page.HashTableDirectoryPage)(unsafe.Pointer(dirRaw.Data()))
	depth := directory.GetGlobalDepth()
	ht.bpm.UnpinPage(ht.directoryPageId, false)
	return depth
}

// splitBucket splits the full bucket at bucketIdx into itself and a fresh
// split image, repointing every directory slot that shared the bucket and
// redistributing its pairs by the newly consulted hash bit. The directory
// doubles first when the bucket already consumed every globally consulted
// bit. False when the directory is at MaxBucketDepth or no frame is free.
func (ht *ExtendibleHashTable) splitBucket(directory *page.HashTableDirectoryPage, bucketIdx uint32) bool {
	if directory.GetLocalDepth(bucketIdx) == directory.GetGlobalDepth() {
		if directory.GetGlobalDepth() >= page.MaxBucketDepth {
			return false
		}
		directory.IncrGlobalDepth()
	}

	oldPageId := directory.GetBucketPageId(bucketIdx)
	oldRaw := ht.bpm.FetchPage(oldPageId)
	oldBucket := (*page.HashTableBucketPage)(unsafe.Pointer(oldRaw.Data()))

	newRaw := ht.bpm.NewPage()
	if newRaw == nil {
		ht.bpm.UnpinPage(oldPageId, false)
		return false
	}
	newPageId := newRaw.GetPageId()
	newBucket := (*page.HashTableBucketPage)(unsafe.Pointer(newRaw.Data()))

	newLocalDepth := directory.GetLocalDepth(bucketIdx) + 1
	splitBit := uint32(1) << (newLocalDepth - 1)

	// slots with the split bit clear keep the old bucket, slots with it set
	// get the new one
	for i := uint32(0); i < directory.Size(); i++ {
		if directory.GetBucketPageId(i) == oldPageId {
			if i&splitBit != 0 {
				directory.SetBucketPageId(i, newPageId)
			}
			directory.SetLocalDepth(i, uint8(newLocalDepth))
		}
	}

	pairs := oldBucket.GetAllPairs()
	oldRaw.ResetMemory()
	for _, pr := range pairs {
		if pr.First&splitBit != 0 {
			newBucket.Insert(pr.First, pr.Second, page.IntComparator)
		} else {
			oldBucket.Insert(pr.First, pr.Second, page.IntComparator)
		}
	}

	ht.bpm.UnpinPage(oldPageId, true)
	ht.bpm.UnpinPage(newPageId, true)
	return true
}

// mergeBucket folds the empty bucket at bucketIdx into its split image when
// both record the same local depth, then shrinks the directory while every
// local depth is below the global depth. Returns whether the directory
// changed.
func (ht *ExtendibleHashTable) mergeBucket(directory *page.HashTableDirectoryPage, bucketIdx uint32) bool {
	localDepth := directory.GetLocalDepth(bucketIdx)
	if localDepth == 0 {
		return false
	}

	splitIdx := directory.GetSplitImageIndex(bucketIdx)
	if directory.GetLocalDepth(splitIdx) != localDepth {
		return false
	}

	bucketPageId := directory.GetBucketPageId(bucketIdx)
	imagePageId := directory.GetBucketPageId(splitIdx)
	if bucketPageId == imagePageId {
		return false
	}

	for i := uint32(0); i < directory.Size(); i++ {
		if directory.GetBucketPageId(i) == bucketPageId {
			directory.SetBucketPageId(i, imagePageId)
		}
	}
	newDepth := uint8(localDepth - 1)
	for i := uint32(0); i < directory.Size(); i++ {
		if directory.GetBucketPageId(i) == imagePageId {
			directory.SetLocalDepth(i, newDepth)
		}
	}

	ht.bpm.DeletePage(bucketPageId)

	for directory.CanShrink() {
		directory.DecrGlobalDepth()
	}
	return true
}
