// Package cboundary crosses the foreign boundary into a native CSV parser
// through cgo. The parser is linked as libnative_csv and must export
// parse_csv as declared in foreign_table.h.
//
// The package is only built with the nativecsv build tag:
//
//	go build -tags nativecsv ./...
package cboundary
