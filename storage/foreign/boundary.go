package foreign

// Boundary is the single entry point of a columnar table producer.
//
// path points at a NUL terminated byte string. The returned descriptors and
// every buffer reachable from them must stay valid and unmodified for as long
// as views built over them are in use. Counts must match the real lengths of
// the arrays they describe, and string ranges must lie inside their data
// buffer and hold valid UTF-8. None of this is checked by the consumer unless
// it is asked to.
type Boundary interface {
	Parse(path *byte) (TableView, error)
}

// BoundaryFunc adapts a plain function to Boundary.
type BoundaryFunc func(path *byte) (TableView, error)

func (f BoundaryFunc) Parse(path *byte) (TableView, error) {
	return f(path)
}
