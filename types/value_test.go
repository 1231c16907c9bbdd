package types

import (
	"math"
	"testing"

	testingpkg "github.com/ryogrid/QueryCore/testing/testing_assert"
)

func TestValueCompareEquals(t *testing.T) {
	testingpkg.Assert(t, NewInteger(5).CompareEquals(NewInteger(5)), "same integers must be equal")
	testingpkg.AssertFalse(t, NewInteger(5).CompareEquals(NewFloat(5)), "integer and float must differ")
	testingpkg.Assert(t, NewVarchar("世界").CompareEquals(NewVarchar("世界")), "same strings must be equal")
	nan := float32(math.NaN())
	testingpkg.Assert(t, NewFloat(nan).CompareEquals(NewFloat(nan)), "NaN literal must equal NaN literal")
	testingpkg.AssertFalse(t, NewFloat(nan).CompareEquals(NewFloat(1.5)), "NaN must not equal 1.5")
}

func TestValueToString(t *testing.T) {
	testingpkg.Equals(t, "5", NewInteger(5).ToString())
	testingpkg.Equals(t, "0.5", NewFloat(.5).ToString())
	testingpkg.Equals(t, "Varchar(\"column\")", NewVarchar("column").String())
	testingpkg.Equals(t, "true", NewBoolean(true).ToString())
}

func TestValueMarshalJSON(t *testing.T) {
	b, err := NewInteger(-3).MarshalJSON()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, `{"Type":"Integer","Value":-3}`, string(b))
}
