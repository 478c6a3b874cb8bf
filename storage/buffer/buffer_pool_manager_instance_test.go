// this code is based on https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"crypto/rand"
	"testing"

	testingpkg "github.com/AlanFreySpace/DataBase/testing/testing_assert"

	"github.com/AlanFreySpace/DataBase/common"
	"github.com/AlanFreySpace/DataBase/recovery"
	"github.com/AlanFreySpace/DataBase/storage/disk"
	"github.com/AlanFreySpace/DataBase/storage/page"
	"github.com/AlanFreySpace/DataBase/types"
)

func newTestBPM(poolSize uint32) (*BufferPoolManagerInstance, disk.DiskManager) {
	dm := disk.NewDiskManagerTest()
	lm := recovery.NewLogManager(&dm)
	return NewBufferPoolManagerInstance(poolSize, dm, lm), dm
}

func TestBinaryData(t *testing.T) {
	poolSize := uint32(10)

	bpm, dm := newTestBPM(poolSize)
	defer dm.ShutDown()

	page0 := bpm.NewPage()

	// Scenario: The buffer pool is empty. We should be able to create a new page.
	testingpkg.Equals(t, types.PageID(0), page0.GetPageId())

	// Generate random binary data
	randomBinaryData := make([]byte, common.PageSize)
	rand.Read(randomBinaryData)

	// Insert terminal characters both in the middle and at end
	randomBinaryData[common.PageSize/2] = '0'
	randomBinaryData[common.PageSize-1] = '0'

	var fixedRandomBinaryData [common.PageSize]byte
	copy(fixedRandomBinaryData[:], randomBinaryData[:common.PageSize])

	// Scenario: Once we have a page, we should be able to read and write content.
	page0.Copy(0, randomBinaryData)
	testingpkg.Equals(t, fixedRandomBinaryData, *page0.Data())

	// Scenario: We should be able to create new pages until we fill up the buffer pool.
	for i := uint32(1); i < poolSize; i++ {
		p := bpm.NewPage()
		testingpkg.Equals(t, types.PageID(i), p.GetPageId())
	}

	// Scenario: Once the buffer pool is full, we should not be able to create any new pages.
	for i := poolSize; i < poolSize*2; i++ {
		testingpkg.Equals(t, (*page.Page)(nil), bpm.NewPage())
	}

	// Scenario: After unpinning pages {0, 1, 2, 3, 4} and pinning another 4 new pages,
	// there would still be one buffer frame left for reading page 0.
	for i := 0; i < 5; i++ {
		testingpkg.Ok(t, bpm.UnpinPage(types.PageID(i), true))
		bpm.FlushPage(types.PageID(i))
	}
	for i := 0; i < 4; i++ {
		p := bpm.NewPage()
		bpm.UnpinPage(p.GetPageId(), false)
	}

	// Scenario: We should be able to fetch the data we wrote a while ago.
	page0 = bpm.FetchPage(types.PageID(0))
	testingpkg.Equals(t, fixedRandomBinaryData, *page0.Data())
	testingpkg.Ok(t, bpm.UnpinPage(types.PageID(0), true))
}

func TestSample(t *testing.T) {
	poolSize := uint32(10)

	bpm, dm := newTestBPM(poolSize)
	defer dm.ShutDown()

	page0 := bpm.NewPage()

	// Scenario: The buffer pool is empty. We should be able to create a new page.
	testingpkg.Equals(t, types.PageID(0), page0.GetPageId())

	// Scenario: Once we have a page, we should be able to read and write content.
	page0.Copy(0, []byte("Hello"))
	testingpkg.Equals(t, [common.PageSize]byte{'H', 'e', 'l', 'l', 'o'}, *page0.Data())

	// Scenario: We should be able to create new pages until we fill up the buffer pool.
	for i := uint32(1); i < poolSize; i++ {
		p := bpm.NewPage()
		testingpkg.Equals(t, types.PageID(i), p.GetPageId())
	}

	// Scenario: Once the buffer pool is full, we should not be able to create any new pages.
	for i := poolSize; i < poolSize*2; i++ {
		testingpkg.Equals(t, (*page.Page)(nil), bpm.NewPage())
	}

	// Scenario: After unpinning pages {0, 1, 2, 3, 4} we should be able to create 4 new pages.
	for i := 0; i < 5; i++ {
		testingpkg.Ok(t, bpm.UnpinPage(types.PageID(i), true))
		bpm.FlushPage(types.PageID(i))
	}
	for i := 0; i < 4; i++ {
		bpm.NewPage()
	}

	// Scenario: We should be able to fetch the data we wrote a while ago.
	page0 = bpm.FetchPage(types.PageID(0))
	testingpkg.Equals(t, [common.PageSize]byte{'H', 'e', 'l', 'l', 'o'}, *page0.Data())

	// Scenario: If we unpin page 0 and then make a new page, all the buffer pages should
	// now be pinned. Fetching page 0 again should fail.
	testingpkg.Ok(t, bpm.UnpinPage(types.PageID(0), true))

	testingpkg.Equals(t, types.PageID(14), bpm.NewPage().GetPageId())
	testingpkg.Equals(t, (*page.Page)(nil), bpm.NewPage())
	testingpkg.Equals(t, (*page.Page)(nil), bpm.FetchPage(types.PageID(0)))
}

func TestVictimWriteBack(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl("test.db")
	lm := recovery.NewLogManager(&dm)
	bpm := NewBufferPoolManagerInstance(1, dm, lm)

	// Scenario: a dirty page survives its eviction.
	page0 := bpm.NewPage()
	pageID0 := page0.GetPageId()
	page0.Copy(0, []byte{0xAB, 0xAB, 0xAB})
	testingpkg.Ok(t, bpm.UnpinPage(pageID0, true))

	page1 := bpm.NewPage()
	testingpkg.Assert(t, page1 != nil, "eviction should free the only frame")
	testingpkg.Ok(t, bpm.UnpinPage(page1.GetPageId(), true))

	page0 = bpm.FetchPage(pageID0)
	testingpkg.Assert(t, page0 != nil, "evicted page should be readable again")
	testingpkg.Equals(t, byte(0xAB), page0.Data()[2])
	testingpkg.Ok(t, bpm.UnpinPage(pageID0, false))
}

func TestDeletePage(t *testing.T) {
	poolSize := uint32(10)

	dm := disk.NewVirtualDiskManagerImpl("test.db")
	lm := recovery.NewLogManager(&dm)
	bpm := NewBufferPoolManagerInstance(poolSize, dm, lm)

	pages := make([]*page.Page, 0, poolSize)
	for i := uint32(0); i < poolSize; i++ {
		pages = append(pages, bpm.NewPage())
	}

	// Scenario: a page someone is still using can not be deleted.
	target := pages[3].GetPageId()
	bpm.FetchPage(target) // second pin
	testingpkg.Equals(t, false, bpm.DeletePage(target))

	testingpkg.Ok(t, bpm.UnpinPage(target, false))
	testingpkg.Equals(t, false, bpm.DeletePage(target))
	testingpkg.Ok(t, bpm.UnpinPage(target, false))

	// Scenario: with the pin count at zero the page goes away and its frame
	// becomes reusable even though every other frame stays pinned.
	testingpkg.Equals(t, true, bpm.DeletePage(target))
	testingpkg.Assert(t, bpm.NewPage() != nil, "freed frame should be reusable")
	testingpkg.Equals(t, (*page.Page)(nil), bpm.NewPage())

	// Scenario: deleting a page which is not resident succeeds.
	testingpkg.Equals(t, true, bpm.DeletePage(types.PageID(9999)))
}

func TestUnpinBookkeeping(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl("test.db")
	lm := recovery.NewLogManager(&dm)
	bpm := NewBufferPoolManagerInstance(2, dm, lm)

	page0 := bpm.NewPage()
	pageID0 := page0.GetPageId()

	// Scenario: unpinning a page which is not resident fails.
	testingpkg.Equals(t, false, bpm.UnpinPage(types.PageID(42), false))

	// Scenario: the pin count can not go below zero.
	testingpkg.Ok(t, bpm.UnpinPage(pageID0, true))
	testingpkg.Equals(t, false, bpm.UnpinPage(pageID0, false))

	// Scenario: a clean unpin does not launder the dirty flag away.
	pg := bpm.FetchPage(pageID0)
	testingpkg.Assert(t, pg.IsDirty(), "dirty flag must survive a clean unpin")
	testingpkg.Ok(t, bpm.UnpinPage(pageID0, false))
	testingpkg.Assert(t, pg.IsDirty(), "dirty flag must survive a clean unpin")
}

func TestPoolConservation(t *testing.T) {
	poolSize := uint32(8)

	dm := disk.NewVirtualDiskManagerImpl("test.db")
	lm := recovery.NewLogManager(&dm)
	bpm := NewBufferPoolManagerInstance(poolSize, dm, lm)

	checkConservation := func() {
		testingpkg.Equals(t, int(poolSize), len(bpm.pageTable)+bpm.freeList.Len())
	}

	checkConservation()
	ids := make([]types.PageID, 0)
	for i := 0; i < 5; i++ {
		p := bpm.NewPage()
		ids = append(ids, p.GetPageId())
		checkConservation()
	}
	for _, id := range ids {
		testingpkg.Ok(t, bpm.UnpinPage(id, true))
		checkConservation()
	}
	for i := 0; i < 3; i++ {
		bpm.NewPage()
		checkConservation()
	}
	testingpkg.Ok(t, bpm.DeletePage(ids[4]))
	checkConservation()
}

func TestAllocatePageSharded(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl("test.db")
	lm := recovery.NewLogManager(&dm)

	// Scenario: shard 2 of 4 only ever mints ids of its residue class.
	bpm := NewBufferPoolManagerInstanceForPool(4, 4, 2, dm, lm)
	for i := 0; i < 4; i++ {
		p := bpm.NewPage()
		testingpkg.Equals(t, types.PageID(2+4*i), p.GetPageId())
		testingpkg.Equals(t, uint32(2), uint32(p.GetPageId())%4)
	}
}
