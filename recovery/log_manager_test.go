package recovery

import (
	"testing"

	testingpkg "github.com/AlanFreySpace/DataBase/testing/testing_assert"

	"github.com/AlanFreySpace/DataBase/storage/disk"
	"github.com/AlanFreySpace/DataBase/types"
)

func TestLogManagerAppendAndFlush(t *testing.T) {
	dm := disk.NewVirtualDiskManagerImpl("test.db")
	defer dm.ShutDown()
	log_manager := NewLogManager(&dm)

	testingpkg.Equals(t, types.LSN(0), log_manager.GetNextLSN())
	testingpkg.Equals(t, types.InvalidLSN, log_manager.GetPersistentLSN())

	lsn := log_manager.AppendLogBytes([]byte("insert tuple"))
	testingpkg.Equals(t, types.LSN(0), lsn)
	lsn = log_manager.AppendLogBytes([]byte("delete tuple"))
	testingpkg.Equals(t, types.LSN(1), lsn)

	// nothing is persistent until a flush happens
	testingpkg.Equals(t, types.InvalidLSN, log_manager.GetPersistentLSN())
	log_manager.Flush()
	testingpkg.Equals(t, types.LSN(1), log_manager.GetPersistentLSN())
	testingpkg.Equals(t, types.LSN(2), log_manager.GetNextLSN())
}
