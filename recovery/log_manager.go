package recovery

import (
	"github.com/AlanFreySpace/DataBase/common"
	"github.com/AlanFreySpace/DataBase/storage/disk"
	"github.com/AlanFreySpace/DataBase/types"
)

/**
 * LogManager hands out log sequence numbers and buffers log data until it is
 * flushed through the disk manager. The buffer pool holds a reference to it;
 * recovery itself lives outside this core.
 */
type LogManager struct {
	offset         uint32
	log_buffer_lsn types.LSN
	next_lsn       types.LSN
	persistent_lsn types.LSN
	log_buffer     []byte
	flush_buffer   []byte
	latch          common.ReaderWriterLatch
	disk_manager   *disk.DiskManager
}

func NewLogManager(disk_manager *disk.DiskManager) *LogManager {
	ret := new(LogManager)
	ret.next_lsn = 0
	ret.persistent_lsn = common.InvalidLSN
	ret.disk_manager = disk_manager
	ret.log_buffer = make([]byte, common.LogBufferSize)
	ret.flush_buffer = make([]byte, common.LogBufferSize)
	ret.latch = common.NewRWLatch()
	ret.offset = 0
	return ret
}

func (log_manager *LogManager) GetNextLSN() types.LSN       { return log_manager.next_lsn }
func (log_manager *LogManager) GetPersistentLSN() types.LSN { return log_manager.persistent_lsn }

// AppendLogBytes copies raw log data into the log buffer and assigns it the
// next LSN. The caller is responsible for record framing.
func (log_manager *LogManager) AppendLogBytes(log_data []byte) types.LSN {
	log_manager.latch.WLock()
	defer log_manager.latch.WUnlock()

	if log_manager.offset+uint32(len(log_data)) > uint32(len(log_manager.log_buffer)) {
		log_manager.flushLocked()
	}

	lsn := log_manager.next_lsn
	log_manager.next_lsn += 1
	copy(log_manager.log_buffer[log_manager.offset:], log_data)
	log_manager.offset += uint32(len(log_data))
	log_manager.log_buffer_lsn = lsn
	return lsn
}

// Flush forces the buffered log data to the disk manager
func (log_manager *LogManager) Flush() {
	log_manager.latch.WLock()
	defer log_manager.latch.WUnlock()

	log_manager.flushLocked()
}

func (log_manager *LogManager) flushLocked() {
	lsn := log_manager.log_buffer_lsn
	offset := log_manager.offset
	log_manager.offset = 0

	// swap the two buffers so appends can go on while data is written out
	tmp_p := log_manager.flush_buffer
	log_manager.flush_buffer = log_manager.log_buffer
	log_manager.log_buffer = tmp_p

	if offset > 0 {
		(*log_manager.disk_manager).WriteLog(log_manager.flush_buffer[:offset])
		log_manager.persistent_lsn = lsn
	}
}
