package test_util

import (
	"github.com/AlanFreySpace/DataBase/common"
	"github.com/AlanFreySpace/DataBase/recovery"
	"github.com/AlanFreySpace/DataBase/storage/buffer"
	"github.com/AlanFreySpace/DataBase/storage/disk"
)

// DBInstance bundles the collaborators a storage-engine test needs: a disk
// manager, a log manager and a buffer pool on top of them.
type DBInstance struct {
	disk_manager *disk.DiskManager
	log_manager  *recovery.LogManager
	bpm          *buffer.BufferPoolManagerInstance
}

func NewDBInstance(dbName string) *DBInstance {
	common.TuneDeadlockDetection()
	disk_manager := disk.NewDiskManagerImpl(dbName)
	log_manager := recovery.NewLogManager(&disk_manager)
	bpm := buffer.NewBufferPoolManagerInstance(uint32(32), disk_manager, log_manager)
	return &DBInstance{&disk_manager, log_manager, bpm}
}

// NewVirtualDBInstance keeps everything in memory. Tests which churn many
// pages use this to avoid file I/O.
func NewVirtualDBInstance(dbName string) *DBInstance {
	common.TuneDeadlockDetection()
	disk_manager := disk.NewVirtualDiskManagerImpl(dbName)
	log_manager := recovery.NewLogManager(&disk_manager)
	bpm := buffer.NewBufferPoolManagerInstance(uint32(32), disk_manager, log_manager)
	return &DBInstance{&disk_manager, log_manager, bpm}
}

func (di *DBInstance) GetDiskManager() *disk.DiskManager {
	return di.disk_manager
}

func (di *DBInstance) GetLogManager() *recovery.LogManager {
	return di.log_manager
}

func (di *DBInstance) GetBufferPoolManager() *buffer.BufferPoolManagerInstance {
	return di.bpm
}

// Finalize shuts the disk manager down and optionally removes the files it
// created
func (di *DBInstance) Finalize(removeFiles bool) {
	(*di.disk_manager).ShutDown()
	if removeFiles {
		if impl, ok := (*di.disk_manager).(*disk.DiskManagerImpl); ok {
			impl.RemoveDBFile()
			impl.RemoveLogFile()
		}
	}
}
