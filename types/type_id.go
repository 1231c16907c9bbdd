package types

type TypeID int

// types a literal value can carry
const (
	Invalid TypeID = iota
	Boolean
	Integer
	Float
	Varchar
)

func (t TypeID) String() string {
	switch t {
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Varchar:
		return "Varchar"
	}
	return "Invalid"
}
