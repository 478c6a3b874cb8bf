package buffer

import (
	"github.com/sasha-s/go-deadlock"

	"github.com/AlanFreySpace/DataBase/recovery"
	"github.com/AlanFreySpace/DataBase/storage/disk"
	"github.com/AlanFreySpace/DataBase/storage/page"
	"github.com/AlanFreySpace/DataBase/types"
)

// ParallelBufferPoolManager shards a logical pool across numInstances
// independent instances selected by pageID mod numInstances. Operations on
// distinct shards proceed in parallel, the only shared state is the
// round-robin cursor used by NewPage.
type ParallelBufferPoolManager struct {
	numInstances uint32
	poolSize     uint32
	managers     []*BufferPoolManagerInstance
	nextInstance uint32
	latch        deadlock.Mutex
}

// NewParallelBufferPoolManager creates numInstances buffer pool instances of
// poolSize frames each, all sharing the disk manager and the log manager
func NewParallelBufferPoolManager(numInstances uint32, poolSize uint32, diskManager disk.DiskManager, logManager *recovery.LogManager) *ParallelBufferPoolManager {
	managers := make([]*BufferPoolManagerInstance, 0, numInstances)
	for i := uint32(0); i < numInstances; i++ {
		managers = append(managers, NewBufferPoolManagerInstanceForPool(poolSize, numInstances, i, diskManager, logManager))
	}
	return &ParallelBufferPoolManager{
		numInstances: numInstances,
		poolSize:     poolSize,
		managers:     managers,
	}
}

// getBufferPoolManager returns the shard responsible for the page id
func (p *ParallelBufferPoolManager) getBufferPoolManager(pageID types.PageID) *BufferPoolManagerInstance {
	return p.managers[uint32(pageID)%p.numInstances]
}

// FetchPage fetches the page from the responsible shard
func (p *ParallelBufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	return p.getBufferPoolManager(pageID).FetchPage(pageID)
}

// UnpinPage unpins the page at the responsible shard
func (p *ParallelBufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) bool {
	return p.getBufferPoolManager(pageID).UnpinPage(pageID, isDirty)
}

// FlushPage flushes the page at the responsible shard
func (p *ParallelBufferPoolManager) FlushPage(pageID types.PageID) bool {
	return p.getBufferPoolManager(pageID).FlushPage(pageID)
}

// NewPage asks the shards in round-robin order for a new page. The cursor
// advances after every attempt whether or not it succeeds: advancing on
// failure spreads contention, advancing on success distributes growth.
func (p *ParallelBufferPoolManager) NewPage() *page.Page {
	p.latch.Lock()
	defer p.latch.Unlock()

	for i := uint32(0); i < p.numInstances; i++ {
		manager := p.managers[p.nextInstance]
		pg := manager.NewPage()
		p.nextInstance = (p.nextInstance + 1) % p.numInstances
		if pg != nil {
			return pg
		}
	}
	return nil
}

// DeletePage deletes the page at the responsible shard
func (p *ParallelBufferPoolManager) DeletePage(pageID types.PageID) bool {
	return p.getBufferPoolManager(pageID).DeletePage(pageID)
}

// FlushAllPages flushes the resident pages of every shard
func (p *ParallelBufferPoolManager) FlushAllPages() {
	for i := uint32(0); i < p.numInstances; i++ {
		p.managers[i].FlushAllPages()
	}
}

// GetPoolSize returns the logical pool size
func (p *ParallelBufferPoolManager) GetPoolSize() uint32 {
	return p.numInstances * p.poolSize
}
