package buffer

import (
	"container/list"

	"github.com/sasha-s/go-deadlock"
)

// FrameID is the type for frame id
type FrameID int32

// LRUReplacer picks the least recently unpinned frame for eviction.
// The list keeps evictable frames in recency order (front = most recently
// unpinned) and the side map gives O(1) membership and middle removal.
type LRUReplacer struct {
	numPages uint32
	lruList  *list.List
	lruMap   map[FrameID]*list.Element
	mutex    deadlock.Mutex
}

// NewLRUReplacer instantiates a replacer able to track up to numPages frames
func NewLRUReplacer(numPages uint32) *LRUReplacer {
	return &LRUReplacer{
		numPages: numPages,
		lruList:  list.New(),
		lruMap:   make(map[FrameID]*list.Element),
	}
}

// Victim removes and returns the least recently unpinned frame.
// Returns nil when no frame is evictable.
func (l *LRUReplacer) Victim() *FrameID {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.lruList.Len() == 0 {
		return nil
	}

	elem := l.lruList.Back()
	frameID := elem.Value.(FrameID)
	l.lruList.Remove(elem)
	delete(l.lruMap, frameID)
	return &frameID
}

// Pin removes the frame from the replacer. Pinning a frame which is not
// tracked is a no-op: NewPage and FetchPage pin frames drawn from the
// free list which were never evictable.
func (l *LRUReplacer) Pin(frameID FrameID) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	elem, ok := l.lruMap[frameID]
	if !ok {
		return
	}
	l.lruList.Remove(elem)
	delete(l.lruMap, frameID)
}

// Unpin marks the frame evictable, inserting it at the front of the list.
// A frame already present keeps its position: a second unpin is a client
// bug but must not corrupt the one-position-per-frame invariant.
func (l *LRUReplacer) Unpin(frameID FrameID) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if _, ok := l.lruMap[frameID]; ok {
		return
	}
	if uint32(l.lruList.Len()) >= l.numPages {
		return
	}
	elem := l.lruList.PushFront(frameID)
	l.lruMap[frameID] = elem
}

// Size returns the number of evictable frames
func (l *LRUReplacer) Size() uint32 {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return uint32(l.lruList.Len())
}
