package page

import (
	"testing"

	testingpkg "github.com/AlanFreySpace/DataBase/testing/testing_assert"

	"github.com/AlanFreySpace/DataBase/types"
)

// builds a directory at global depth 2 with four distinct buckets b0..b3,
// every slot at local depth 2
func newDepthTwoDirectory() *HashTableDirectoryPage {
	dir := &HashTableDirectoryPage{}
	dir.SetPageId(types.PageID(0))
	dir.IncrGlobalDepth()
	dir.IncrGlobalDepth()
	for i := uint32(0); i < 4; i++ {
		dir.SetBucketPageId(i, types.PageID(10+i))
		dir.SetLocalDepth(i, 2)
	}
	return dir
}

func TestDirectoryMasksAndSize(t *testing.T) {
	dir := &HashTableDirectoryPage{}

	testingpkg.Equals(t, uint32(0), dir.GetGlobalDepth())
	testingpkg.Equals(t, uint32(1), dir.Size())
	testingpkg.Equals(t, uint32(0), dir.GetGlobalDepthMask())

	dir.IncrGlobalDepth()
	dir.IncrGlobalDepth()
	dir.IncrGlobalDepth()
	testingpkg.Equals(t, uint32(8), dir.Size())
	testingpkg.Equals(t, uint32(0x7), dir.GetGlobalDepthMask())

	dir.SetLocalDepth(5, 2)
	testingpkg.Equals(t, uint32(0x3), dir.GetLocalDepthMask(5))
}

func TestDirectoryDoubling(t *testing.T) {
	dir := newDepthTwoDirectory()
	dir.VerifyIntegrity()

	// Scenario: doubling exposes a mirrored upper half and keeps the local
	// depths untouched.
	dir.IncrGlobalDepth()
	testingpkg.Equals(t, uint32(3), dir.GetGlobalDepth())
	testingpkg.Equals(t, uint32(8), dir.Size())
	for i := uint32(0); i < 4; i++ {
		testingpkg.Equals(t, dir.GetBucketPageId(i), dir.GetBucketPageId(i+4))
		testingpkg.Equals(t, dir.GetLocalDepth(i), dir.GetLocalDepth(i+4))
		testingpkg.Equals(t, uint32(2), dir.GetLocalDepth(i))
	}
	dir.VerifyIntegrity()

	// Scenario: every local depth is below the global depth now, so the
	// directory may shrink again.
	testingpkg.Equals(t, true, dir.CanShrink())
	dir.DecrGlobalDepth()
	testingpkg.Equals(t, uint32(2), dir.GetGlobalDepth())
	testingpkg.Equals(t, false, dir.CanShrink())
	dir.VerifyIntegrity()
}

func TestSplitImageInvolution(t *testing.T) {
	dir := newDepthTwoDirectory()

	for i := uint32(0); i < dir.Size(); i++ {
		image := dir.GetSplitImageIndex(i)
		testingpkg.Assert(t, image != i, "split image of %d must be a sibling slot", i)
		testingpkg.Equals(t, i, dir.GetSplitImageIndex(image))
	}

	// at local depth 2 the sibling differs in bit 1
	testingpkg.Equals(t, uint32(2), dir.GetSplitImageIndex(0))
	testingpkg.Equals(t, uint32(3), dir.GetSplitImageIndex(1))
}

func TestDirectoryLocalDepthBookkeeping(t *testing.T) {
	dir := newDepthTwoDirectory()

	dir.IncrGlobalDepth()
	dir.IncrLocalDepth(0)
	testingpkg.Equals(t, uint32(3), dir.GetLocalDepth(0))
	dir.DecrLocalDepth(0)
	testingpkg.Equals(t, uint32(2), dir.GetLocalDepth(0))

	dir.SetLSN(types.LSN(7))
	testingpkg.Equals(t, types.LSN(7), dir.GetLSN())
}
