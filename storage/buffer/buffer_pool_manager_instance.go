// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"github.com/golang-collections/collections/queue"
	"github.com/sasha-s/go-deadlock"

	"github.com/AlanFreySpace/DataBase/common"
	"github.com/AlanFreySpace/DataBase/recovery"
	"github.com/AlanFreySpace/DataBase/storage/disk"
	"github.com/AlanFreySpace/DataBase/storage/page"
	"github.com/AlanFreySpace/DataBase/types"
)

// BufferPoolManagerInstance owns poolSize frames and mediates access to the
// pages resident in them. When it is one shard of a parallel pool it only
// mints page ids congruent to its instanceIndex modulo numInstances.
type BufferPoolManagerInstance struct {
	poolSize      uint32
	numInstances  uint32
	instanceIndex uint32
	nextPageID    types.PageID
	diskManager   disk.DiskManager
	logManager    *recovery.LogManager
	pages         []*page.Page
	pageTable     map[types.PageID]FrameID
	freeList      *queue.Queue
	replacer      *LRUReplacer
	latch         deadlock.Mutex
}

// NewBufferPoolManagerInstance returns a stand-alone buffer pool manager
func NewBufferPoolManagerInstance(poolSize uint32, diskManager disk.DiskManager, logManager *recovery.LogManager) *BufferPoolManagerInstance {
	return NewBufferPoolManagerInstanceForPool(poolSize, 1, 0, diskManager, logManager)
}

// NewBufferPoolManagerInstanceForPool returns a buffer pool manager which is
// shard instanceIndex of a parallel pool of numInstances shards
func NewBufferPoolManagerInstanceForPool(poolSize uint32, numInstances uint32, instanceIndex uint32, diskManager disk.DiskManager, logManager *recovery.LogManager) *BufferPoolManagerInstance {
	common.SH_Assert(numInstances > 0, "if instance is not part of a pool, numInstances should just be 1")
	common.SH_Assert(instanceIndex < numInstances, "instanceIndex cannot be greater than the number of instances in the pool")

	pages := make([]*page.Page, poolSize)
	freeList := queue.New()
	for i := uint32(0); i < poolSize; i++ {
		pages[i] = page.NewInvalid()
		freeList.Enqueue(FrameID(i))
	}

	return &BufferPoolManagerInstance{
		poolSize:      poolSize,
		numInstances:  numInstances,
		instanceIndex: instanceIndex,
		nextPageID:    types.PageID(instanceIndex),
		diskManager:   diskManager,
		logManager:    logManager,
		pages:         pages,
		pageTable:     make(map[types.PageID]FrameID),
		freeList:      freeList,
		replacer:      NewLRUReplacer(poolSize),
	}
}

// FetchPage fetches the requested page from the buffer pool
func (b *BufferPoolManagerInstance) FetchPage(pageID types.PageID) *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	// if it is on buffer pool return it
	if frameID, ok := b.pageTable[pageID]; ok {
		pg := b.pages[frameID]
		pg.IncPinCount()
		b.replacer.Pin(frameID)
		return pg
	}

	frameID := b.getFrameID()
	if frameID == nil {
		return nil
	}

	pg := b.pages[*frameID]
	data := pg.Data()
	err := b.diskManager.ReadPage(pageID, data[:])
	if err != nil {
		// the drawn frame goes back to the free list, it holds no page now
		pg.SetPageId(types.InvalidPageID)
		b.freeList.Enqueue(*frameID)
		return nil
	}
	pg.SetPageId(pageID)
	pg.SetPinCount(1)
	pg.SetIsDirty(false)

	b.pageTable[pageID] = *frameID
	b.replacer.Pin(*frameID)

	return pg
}

// NewPage allocates a new page in the buffer pool
func (b *BufferPoolManagerInstance) NewPage() *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID := b.getFrameID()
	if frameID == nil {
		return nil // the buffer is full, it can't find a frame
	}

	pageID := b.allocatePage()
	pg := b.pages[*frameID]
	pg.SetPageId(pageID)
	pg.SetPinCount(1)
	pg.SetIsDirty(false)
	pg.ResetMemory()

	b.pageTable[pageID] = *frameID
	b.replacer.Pin(*frameID)

	return pg
}

// UnpinPage unpins the target page from the buffer pool
func (b *BufferPoolManagerInstance) UnpinPage(pageID types.PageID, isDirty bool) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return false
	}

	pg := b.pages[frameID]
	if pg.PinCount() <= 0 {
		return false
	}
	pg.DecPinCount()

	// never clear an already-dirty page via unpin
	if isDirty {
		pg.SetIsDirty(true)
	}

	if pg.PinCount() <= 0 {
		b.replacer.Unpin(frameID)
	}
	return true
}

// FlushPage flushes the target page to disk and clears its dirty flag.
// The pin state is left untouched.
func (b *BufferPoolManagerInstance) FlushPage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	return b.flushPage(pageID)
}

// FlushAllPages flushes all the pages in the buffer pool to disk.
// Dirty flags are left as they are.
func (b *BufferPoolManagerInstance) FlushAllPages() {
	b.latch.Lock()
	defer b.latch.Unlock()

	for pageID, frameID := range b.pageTable {
		pg := b.pages[frameID]
		data := pg.Data()
		b.diskManager.WritePage(pageID, data[:])
	}
}

// DeletePage deletes a page from the buffer pool and deallocates its id
func (b *BufferPoolManagerInstance) DeletePage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	b.diskManager.DeallocatePage(pageID)

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return true
	}

	pg := b.pages[frameID]
	if pg.PinCount() > 0 {
		return false
	}

	// the id is being deallocated but the disk manager may reuse it lazily,
	// so a dirty page is still written back
	if pg.IsDirty() {
		data := pg.Data()
		b.diskManager.WritePage(pageID, data[:])
	}

	b.replacer.Pin(frameID)
	delete(b.pageTable, pageID)
	pg.SetPageId(types.InvalidPageID)
	pg.SetPinCount(0)
	pg.SetIsDirty(false)
	pg.ResetMemory()
	b.freeList.Enqueue(frameID)

	return true
}

// GetPoolSize returns the number of frames this instance owns
func (b *BufferPoolManagerInstance) GetPoolSize() uint32 {
	return b.poolSize
}

func (b *BufferPoolManagerInstance) flushPage(pageID types.PageID) bool {
	if pageID == types.InvalidPageID {
		return false
	}
	frameID, ok := b.pageTable[pageID]
	if !ok {
		return false
	}

	pg := b.pages[frameID]
	data := pg.Data()
	b.diskManager.WritePage(pageID, data[:])
	pg.SetIsDirty(false)
	return true
}

// getFrameID obtains a frame for incoming content: the free list first,
// then an LRU victim which is written back when dirty and evicted from
// the page table. nil when every frame is pinned.
func (b *BufferPoolManagerInstance) getFrameID() *FrameID {
	if b.freeList.Len() > 0 {
		frameID := b.freeList.Dequeue().(FrameID)
		return &frameID
	}

	victim := b.replacer.Victim()
	if victim == nil {
		return nil
	}

	currentPage := b.pages[*victim]
	if currentPage.GetPageId() != types.InvalidPageID {
		if currentPage.IsDirty() {
			data := currentPage.Data()
			b.diskManager.WritePage(currentPage.GetPageId(), data[:])
		}
		delete(b.pageTable, currentPage.GetPageId())
	}
	return victim
}

// allocatePage mints the next page id of this instance's residue class
func (b *BufferPoolManagerInstance) allocatePage() types.PageID {
	nextPageID := b.nextPageID
	b.nextPageID += types.PageID(b.numInstances)
	b.validatePageID(nextPageID)
	return nextPageID
}

func (b *BufferPoolManagerInstance) validatePageID(pageID types.PageID) {
	// allocated pages mod back to this instance
	common.SH_Assert(uint32(pageID)%b.numInstances == b.instanceIndex, "allocated page id belongs to another instance")
}
