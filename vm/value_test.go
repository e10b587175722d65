package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_IsFalsey(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", NilVal, true},
		{"false", BoolVal(false), true},
		{"true", BoolVal(true), false},
		{"zero is truthy", NumberVal(0), false},
		{"string is truthy", ObjVal(&Obj{Type: ObjTypeString, str: &ObjString{Chars: ""}}), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, c.v.IsFalsey())
		})
	}
}

func TestValue_Equals(t *testing.T) {
	require.True(t, Equals(NilVal, NilVal))
	require.True(t, Equals(NumberVal(1), NumberVal(1)))
	require.False(t, Equals(NumberVal(1), NumberVal(2)))
	require.False(t, Equals(NumberVal(1), BoolVal(true)))
	require.True(t, Equals(BoolVal(true), BoolVal(true)))
}

func TestValue_StringRendering(t *testing.T) {
	require.Equal(t, "nil", NilVal.String())
	require.Equal(t, "true", BoolVal(true).String())
	require.Equal(t, "false", BoolVal(false).String())
	require.Equal(t, "3.5", NumberVal(3.5).String())
	require.Equal(t, "3", NumberVal(3).String())
}

func TestValue_TypeName(t *testing.T) {
	require.Equal(t, "nil", NilVal.TypeName())
	require.Equal(t, "bool", BoolVal(true).TypeName())
	require.Equal(t, "number", NumberVal(1).TypeName())
}
