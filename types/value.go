package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// A Value is an immutable literal which appears in query text,
// such as the 5 of "SELECT 5;". Values are kept verbatim: no coercion
// between types is ever done.
type Value struct {
	valueType TypeID
	integer   *int32
	boolean   *bool
	varchar   *string
	float     *float32
}

func NewInteger(value int32) Value {
	return Value{Integer, &value, nil, nil, nil}
}

func NewFloat(value float32) Value {
	return Value{Float, nil, nil, nil, &value}
}

func NewBoolean(value bool) Value {
	return Value{Boolean, nil, &value, nil, nil}
}

func NewVarchar(value string) Value {
	return Value{Varchar, nil, nil, &value, nil}
}

func (v Value) ValueType() TypeID {
	return v.valueType
}

func (v Value) ToInteger() int32 {
	return *v.integer
}

func (v Value) ToFloat() float32 {
	return *v.float
}

func (v Value) ToBoolean() bool {
	return *v.boolean
}

func (v Value) ToVarchar() string {
	return *v.varchar
}

// CompareEquals reports whether both values have the same type and
// the same content. Float NaN equals NaN here because values are
// compared as literals, not as SQL expressions.
func (v Value) CompareEquals(right Value) bool {
	if v.valueType != right.valueType {
		return false
	}
	switch v.valueType {
	case Integer:
		return *v.integer == *right.integer
	case Float:
		if *v.float != *v.float {
			return *right.float != *right.float
		}
		return *v.float == *right.float
	case Varchar:
		return *v.varchar == *right.varchar
	case Boolean:
		return *v.boolean == *right.boolean
	}
	return false
}

func (v Value) ToString() string {
	switch v.valueType {
	case Integer:
		return strconv.FormatInt(int64(*v.integer), 10)
	case Float:
		return strconv.FormatFloat(float64(*v.float), 'g', -1, 32)
	case Varchar:
		return *v.varchar
	case Boolean:
		return strconv.FormatBool(*v.boolean)
	}
	return "<invalid>"
}

func (v Value) String() string {
	if v.valueType == Varchar {
		return fmt.Sprintf("%s(%q)", v.valueType, *v.varchar)
	}
	return fmt.Sprintf("%s(%s)", v.valueType, v.ToString())
}

func (v Value) MarshalJSON() ([]byte, error) {
	var content interface{}
	switch v.valueType {
	case Integer:
		content = *v.integer
	case Float:
		content = v.ToString()
	case Varchar:
		content = *v.varchar
	case Boolean:
		content = *v.boolean
	}
	return json.Marshal(struct {
		Type  string
		Value interface{}
	}{v.valueType.String(), content})
}
