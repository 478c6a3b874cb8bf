// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"sync/atomic"

	"github.com/AlanFreySpace/DataBase/common"
	"github.com/AlanFreySpace/DataBase/types"
)

/**
 * Page is the basic unit of storage within the database system. Page provides a wrapper for actual data pages being
 * held in main memory. Page also contains book-keeping information that is used by the buffer pool manager, e.g.
 * pin count, dirty flag, page id, etc.
 */
type Page struct {
	id       types.PageID // idenfies the page. It is used to find the offset of the page on disk
	pinCount int32        // counts how many goroutines are accessing it
	isDirty  bool         // the page was modified but not flushed
	data     *[common.PageSize]byte
	rwlatch_ common.ReaderWriterLatch
}

// IncPinCount increments pin count
func (p *Page) IncPinCount() {
	atomic.AddInt32(&p.pinCount, 1)
}

// DecPinCount decrements pin count
func (p *Page) DecPinCount() {
	if p.pinCount > 0 {
		atomic.AddInt32(&p.pinCount, -1)
	}
}

// PinCount returns the pin count
func (p *Page) PinCount() int32 {
	return atomic.LoadInt32(&p.pinCount)
}

// GetPageId returns the page id
func (p *Page) GetPageId() types.PageID {
	return p.id
}

// SetPageId sets the page id of the frame content
func (p *Page) SetPageId(pageId types.PageID) {
	p.id = pageId
}

// SetPinCount overwrites the pin count
func (p *Page) SetPinCount(count int32) {
	atomic.StoreInt32(&p.pinCount, count)
}

// Data returns the data of the page
func (p *Page) Data() *[common.PageSize]byte {
	return p.data
}

// SetIsDirty sets the isDirty bit
func (p *Page) SetIsDirty(isDirty bool) {
	p.isDirty = isDirty
}

// IsDirty checks if page is dirty
func (p *Page) IsDirty() bool {
	return p.isDirty
}

// ResetMemory zero-clears the page content
func (p *Page) ResetMemory() {
	for i := 0; i < common.PageSize; i++ {
		p.data[i] = 0
	}
}

// Copy copies data to the page's data area
func (p *Page) Copy(offset uint32, data []byte) {
	copy(p.data[offset:], data)
}

func (p *Page) WLatch() {
	p.rwlatch_.WLock()
}

func (p *Page) WUnlatch() {
	p.rwlatch_.WUnlock()
}

func (p *Page) RLatch() {
	p.rwlatch_.RLock()
}

func (p *Page) RUnlatch() {
	p.rwlatch_.RUnlock()
}

// New creates a page with the corresponding metadata
func New(id types.PageID, isDirty bool, data *[common.PageSize]byte) *Page {
	return &Page{id, int32(1), isDirty, data, common.NewRWLatch()}
}

// NewEmpty creates a new empty page
func NewEmpty(id types.PageID) *Page {
	return &Page{id, int32(1), false, &[common.PageSize]byte{}, common.NewRWLatch()}
}

// NewInvalid creates an unused frame object. The buffer pool allocates
// all of its frames through this at construction time.
func NewInvalid() *Page {
	return &Page{types.InvalidPageID, int32(0), false, &[common.PageSize]byte{}, common.NewRWLatch()}
}
