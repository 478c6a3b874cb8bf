package buffer

import (
	"github.com/AlanFreySpace/DataBase/storage/page"
	"github.com/AlanFreySpace/DataBase/types"
)

// BufferPoolManager mediates all access to the paged on-disk heap. Every
// page returned by NewPage or FetchPage is pinned until the caller unpins
// it. Implemented by BufferPoolManagerInstance and ParallelBufferPoolManager.
type BufferPoolManager interface {
	// FetchPage returns the requested page pinned, nil when the page can not
	// be brought into the pool
	FetchPage(pageID types.PageID) *page.Page
	// NewPage allocates and returns a fresh zeroed page pinned, nil when no
	// frame can be obtained
	NewPage() *page.Page
	// UnpinPage drops one pin. False when the page is not resident or its
	// pin count is already zero.
	UnpinPage(pageID types.PageID, isDirty bool) bool
	// FlushPage writes the page to disk. False when the page is not resident.
	FlushPage(pageID types.PageID) bool
	// FlushAllPages writes every resident page to disk
	FlushAllPages()
	// DeletePage drops the page from the pool and deallocates its id.
	// False when the page is pinned.
	DeletePage(pageID types.PageID) bool
	// GetPoolSize returns the number of frames the manager owns
	GetPoolSize() uint32
}
