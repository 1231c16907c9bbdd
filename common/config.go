package common

const EnableDebug bool = false //true

// log kinds which are printed by ShPrintf
var LogLevelSetting = WARN | ERROR | FATAL //| INFO | FOREIGN_BOUNDARY | DEBUG_INFO

// when true, descriptors received across the foreign boundary are validated
// before views are built over them. LoadOption can override this per call
var StrictForeignContract = false

const (
	// rows per chunk laid out by the native CSV producer
	CSVChunkRows = 4096
	// rows per sub-chunk inside a chunk
	CSVSubChunkRows = 1024
	// max number of compiled plans held by an engine
	PlanCacheCapacity = 256
	// alignment of every buffer placed in a producer arena
	ForeignBufferAlign = 8
)
