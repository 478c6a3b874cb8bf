package buffer

import (
	"testing"

	testingpkg "github.com/AlanFreySpace/DataBase/testing/testing_assert"
)

func TestLRUReplacer(t *testing.T) {
	lruReplacer := NewLRUReplacer(7)

	// Scenario: unpin six elements, i.e. add them to the replacer.
	// Unpinning an element twice must not move it.
	lruReplacer.Unpin(1)
	lruReplacer.Unpin(2)
	lruReplacer.Unpin(3)
	lruReplacer.Unpin(4)
	lruReplacer.Unpin(5)
	lruReplacer.Unpin(6)
	lruReplacer.Unpin(1)
	testingpkg.Equals(t, uint32(6), lruReplacer.Size())

	// Scenario: get three victims from the lru.
	value := lruReplacer.Victim()
	testingpkg.Equals(t, FrameID(1), *value)
	value = lruReplacer.Victim()
	testingpkg.Equals(t, FrameID(2), *value)
	value = lruReplacer.Victim()
	testingpkg.Equals(t, FrameID(3), *value)

	// Scenario: pin elements in the replacer.
	// Note that 3 has already been victimized, so pinning 3 should have no effect.
	lruReplacer.Pin(3)
	lruReplacer.Pin(4)
	testingpkg.Equals(t, uint32(2), lruReplacer.Size())

	// Scenario: unpin 4. We expect that the frame is returned to the front.
	lruReplacer.Unpin(4)

	// Scenario: continue looking for victims. We expect these victims.
	value = lruReplacer.Victim()
	testingpkg.Equals(t, FrameID(5), *value)
	value = lruReplacer.Victim()
	testingpkg.Equals(t, FrameID(6), *value)
	value = lruReplacer.Victim()
	testingpkg.Equals(t, FrameID(4), *value)

	// Scenario: the replacer is drained now.
	testingpkg.Equals(t, (*FrameID)(nil), lruReplacer.Victim())
	testingpkg.Equals(t, uint32(0), lruReplacer.Size())
}

func TestLRUReplacerCapacity(t *testing.T) {
	lruReplacer := NewLRUReplacer(3)

	lruReplacer.Unpin(1)
	lruReplacer.Unpin(2)
	lruReplacer.Unpin(3)
	// a full replacer silently rejects further frames
	lruReplacer.Unpin(4)
	testingpkg.Equals(t, uint32(3), lruReplacer.Size())

	value := lruReplacer.Victim()
	testingpkg.Equals(t, FrameID(1), *value)
}
