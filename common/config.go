// this code is based on https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

var CycleDetectionInterval time.Duration
var EnableLogging bool = false
var LogTimeout time.Duration
var EnableDebug bool = false

const (
	// invalid page id
	InvalidPageID = -1
	// invalid log sequence number
	InvalidLSN = -1
	// size of a data page in byte
	PageSize = 4096
	// size of buffer pool
	LogBufferPoolSize = 32
	// size of a log buffer in byte
	LogBufferSize = ((LogBufferPoolSize + 1) * PageSize)
)

// TuneDeadlockDetection applies the debug toggles to the deadlock-aware
// mutexes used in the buffer layer. Detection is kept off on normal runs.
func TuneDeadlockDetection() {
	deadlock.Opts.Disable = !EnableDebug
	if CycleDetectionInterval != 0 {
		deadlock.Opts.DeadlockTimeout = CycleDetectionInterval
	}
}
