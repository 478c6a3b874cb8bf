package types

// LSN is the type of the log sequence number
type LSN int32

// InvalidLSN represents a LSN which is not written to the log yet
const InvalidLSN = LSN(-1)
