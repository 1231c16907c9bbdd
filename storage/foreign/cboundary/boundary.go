//go:build cgo && nativecsv

package cboundary

/*
#cgo LDFLAGS: -lnative_csv
#include "foreign_table.h"
*/
import "C"

import (
	"unsafe"

	"github.com/ryogrid/QueryCore/storage/foreign"
)

// both sides must agree on the layout. a mismatch fails to compile
var (
	_ [unsafe.Sizeof(C.ForeignTableView{}) - unsafe.Sizeof(foreign.TableView{})]byte
	_ [unsafe.Sizeof(foreign.TableView{}) - unsafe.Sizeof(C.ForeignTableView{})]byte
	_ [unsafe.Sizeof(C.ForeignColumnView{}) - unsafe.Sizeof(foreign.ColumnView{})]byte
	_ [unsafe.Sizeof(foreign.ColumnView{}) - unsafe.Sizeof(C.ForeignColumnView{})]byte
	_ [unsafe.Sizeof(C.ForeignChunkView{}) - unsafe.Sizeof(foreign.ChunkView{})]byte
	_ [unsafe.Sizeof(foreign.ChunkView{}) - unsafe.Sizeof(C.ForeignChunkView{})]byte
	_ [unsafe.Sizeof(C.ForeignSubChunkView{}) - unsafe.Sizeof(foreign.SubChunkView{})]byte
	_ [unsafe.Sizeof(foreign.SubChunkView{}) - unsafe.Sizeof(C.ForeignSubChunkView{})]byte
)

// Boundary calls the native parse_csv. The native side has no way to
// report failure, so Parse never returns an error; a file it could not
// read comes back as whatever table the native side chose to return.
// The native parser owns the returned memory and never frees it.
type Boundary struct{}

func (Boundary) Parse(path *byte) (foreign.TableView, error) {
	ct := C.parse_csv((*C.char)(unsafe.Pointer(path)))
	return *(*foreign.TableView)(unsafe.Pointer(&ct)), nil
}
