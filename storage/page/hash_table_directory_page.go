package page

import (
	"github.com/AlanFreySpace/DataBase/common"
	"github.com/AlanFreySpace/DataBase/types"
)

// MaxBucketDepth bounds the directory growth. With depth 9 the directory
// arrays below still fit in a single 4KB page.
const MaxBucketDepth = 9

// DirectoryArraySize is the number of directory slots physically present
// on the page. Only the first 1 << globalDepth of them are addressable.
const DirectoryArraySize = 1 << MaxBucketDepth

/**
 * Directory page for the extendible hash table.
 *
 * Directory page format (size in byte):
 * --------------------------------------------------------------------------------------------
 * | PageId (4) | LSN (4) | GlobalDepth(4) | LocalDepths(512) | BucketPageIds(2048) | Free(1524)
 * --------------------------------------------------------------------------------------------
 */
type HashTableDirectoryPage struct {
	pageId        types.PageID
	lsn           types.LSN
	globalDepth   uint32
	localDepths   [DirectoryArraySize]uint8
	bucketPageIds [DirectoryArraySize]types.PageID
}

// GetPageId returns the page id of this directory page
func (page *HashTableDirectoryPage) GetPageId() types.PageID {
	return page.pageId
}

// SetPageId sets the page id of this directory page
func (page *HashTableDirectoryPage) SetPageId(pageId types.PageID) {
	page.pageId = pageId
}

// GetLSN returns the log sequence number of this directory page
func (page *HashTableDirectoryPage) GetLSN() types.LSN {
	return page.lsn
}

// SetLSN sets the log sequence number of this directory page
func (page *HashTableDirectoryPage) SetLSN(lsn types.LSN) {
	page.lsn = lsn
}

// GetGlobalDepth returns the number of key hash bits the directory consults
func (page *HashTableDirectoryPage) GetGlobalDepth() uint32 {
	return page.globalDepth
}

// GetGlobalDepthMask returns a mask of globalDepth 1's and the rest 0's.
//
// In the extendible hash the directory index of a key is
// Hash(key) & GetGlobalDepthMask().
func (page *HashTableDirectoryPage) GetGlobalDepthMask() uint32 {
	return (1 << page.globalDepth) - 1
}

// GetLocalDepthMask is like GetGlobalDepthMask but uses the local depth of
// the bucket at bucketIdx
func (page *HashTableDirectoryPage) GetLocalDepthMask(bucketIdx uint32) uint32 {
	return (1 << page.localDepths[bucketIdx]) - 1
}

// Size returns the number of addressable directory slots
func (page *HashTableDirectoryPage) Size() uint32 {
	return 1 << page.globalDepth
}

// IncrGlobalDepth doubles the directory. The entries of the current
// half are duplicated into the newly exposed upper half so that every
// existing bucket keeps the same number of pointers times two.
func (page *HashTableDirectoryPage) IncrGlobalDepth() {
	common.SH_Assert(page.globalDepth < MaxBucketDepth, "directory can not grow beyond MaxBucketDepth")
	orgNum := page.Size()
	for orgIdx, newIdx := uint32(0), orgNum; orgIdx < orgNum; orgIdx, newIdx = orgIdx+1, newIdx+1 {
		page.bucketPageIds[newIdx] = page.bucketPageIds[orgIdx]
		page.localDepths[newIdx] = page.localDepths[orgIdx]
	}
	page.globalDepth++
}

// DecrGlobalDepth halves the directory. Contents of the now hidden upper
// half are left as they are and simply become unaddressable.
func (page *HashTableDirectoryPage) DecrGlobalDepth() {
	common.SH_Assert(page.globalDepth > 0, "directory depth is already zero")
	page.globalDepth--
}

// CanShrink is true iff every addressable slot has a local depth strictly
// below the global depth
func (page *HashTableDirectoryPage) CanShrink() bool {
	for i := uint32(0); i < page.Size(); i++ {
		if uint32(page.localDepths[i]) >= page.globalDepth {
			return false
		}
	}
	return true
}

// GetBucketPageId looks up the bucket page id at the directory slot
func (page *HashTableDirectoryPage) GetBucketPageId(bucketIdx uint32) types.PageID {
	return page.bucketPageIds[bucketIdx]
}

// SetBucketPageId updates the directory slot with the bucket page id
func (page *HashTableDirectoryPage) SetBucketPageId(bucketIdx uint32, bucketPageId types.PageID) {
	page.bucketPageIds[bucketIdx] = bucketPageId
}

// GetLocalDepth returns the local depth recorded at the directory slot
func (page *HashTableDirectoryPage) GetLocalDepth(bucketIdx uint32) uint32 {
	return uint32(page.localDepths[bucketIdx])
}

// SetLocalDepth sets the local depth at the directory slot
func (page *HashTableDirectoryPage) SetLocalDepth(bucketIdx uint32, localDepth uint8) {
	common.SH_Assert(uint32(localDepth) <= page.globalDepth, "local depth can not exceed global depth")
	page.localDepths[bucketIdx] = localDepth
}

// IncrLocalDepth increments the local depth at the directory slot
func (page *HashTableDirectoryPage) IncrLocalDepth(bucketIdx uint32) {
	common.SH_Assert(uint32(page.localDepths[bucketIdx]) < page.globalDepth, "local depth can not exceed global depth")
	page.localDepths[bucketIdx]++
}

// DecrLocalDepth decrements the local depth at the directory slot
func (page *HashTableDirectoryPage) DecrLocalDepth(bucketIdx uint32) {
	page.localDepths[bucketIdx]--
}

// GetSplitImageIndex returns the sibling slot which shares bucketIdx's
// bucket before a split and receives the new bucket after one
func (page *HashTableDirectoryPage) GetSplitImageIndex(bucketIdx uint32) uint32 {
	return bucketIdx ^ (1 << (page.localDepths[bucketIdx] - 1))
}

// VerifyIntegrity checks the directory invariants:
// (1) all local depths <= global depth
// (2) each bucket has precisely 2^(GD - LD) pointers pointing to it
// (3) the local depth is the same at each slot with the same bucket page id
func (page *HashTableDirectoryPage) VerifyIntegrity() {
	pageIdToCount := make(map[types.PageID]uint32)
	pageIdToLD := make(map[types.PageID]uint32)

	for currIdx := uint32(0); currIdx < page.Size(); currIdx++ {
		currPageId := page.bucketPageIds[currIdx]
		currLD := uint32(page.localDepths[currIdx])
		common.SH_Assert(currLD <= page.globalDepth, "local depth exceeds global depth")

		pageIdToCount[currPageId] = pageIdToCount[currPageId] + 1

		if oldLD, exist := pageIdToLD[currPageId]; exist && currLD != oldLD {
			common.ShPrintf(common.WARN, "VerifyIntegrity: curr_local_depth: %d, old_local_depth %d, for page_id: %d\n", currLD, oldLD, currPageId)
			page.PrintDirectory()
			common.SH_Assert(currLD == oldLD, "all pointers to a bucket must record the same local depth")
		} else {
			pageIdToLD[currPageId] = currLD
		}
	}

	for currPageId, currCount := range pageIdToCount {
		currLD := pageIdToLD[currPageId]
		requiredCount := uint32(1) << (page.globalDepth - currLD)
		if currCount != requiredCount {
			common.ShPrintf(common.WARN, "VerifyIntegrity: curr_count: %d, required_count %d, for page_id: %d\n", currCount, requiredCount, currPageId)
			page.PrintDirectory()
			common.SH_Assert(currCount == requiredCount, "a bucket must be pointed at by 2^(GD-LD) slots")
		}
	}
}

// PrintDirectory prints the addressable part of the directory
func (page *HashTableDirectoryPage) PrintDirectory() {
	common.ShPrintf(common.DEBUG_INFO, "======== DIRECTORY (global_depth: %d) ========\n", page.globalDepth)
	common.ShPrintf(common.DEBUG_INFO, "| bucket_idx | page_id | local_depth |\n")
	for idx := uint32(0); idx < page.Size(); idx++ {
		common.ShPrintf(common.DEBUG_INFO, "|      %d     |     %d     |     %d     |\n", idx, page.bucketPageIds[idx], page.localDepths[idx])
	}
	common.ShPrintf(common.DEBUG_INFO, "================ END DIRECTORY ================\n")
}
