package gocqldrv

import (
	"net"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassgate/cassgate/internal/driver"
	"github.com/cassgate/cassgate/internal/result"
)

func nativeType(t gocql.Type) gocql.TypeInfo {
	return gocql.NewNativeType(4, t, "")
}

func TestConvertNullKeepsDeclaredType(t *testing.T) {
	tests := []struct {
		name string
		ti   gocql.TypeInfo
		want driver.Type
	}{
		{"int", nativeType(gocql.TypeInt), driver.TypeInt},
		{"text", nativeType(gocql.TypeText), driver.TypeText},
		{"uuid", nativeType(gocql.TypeUUID), driver.TypeUUID},
		{"inet", nativeType(gocql.TypeInet), driver.TypeInet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := convertValue(tt.ti, nil)
			assert.True(t, v.Null)
			assert.Equal(t, tt.want, v.Type)
			assert.Nil(t, v.Data)
		})
	}
}

func TestConvertInt(t *testing.T) {
	// gocql decodes the 32-bit int type into a Go int.
	v := convertValue(nativeType(gocql.TypeInt), 7)
	require.False(t, v.Null)
	n, err := result.AsInt32(&v)
	require.NoError(t, err)
	assert.Equal(t, int32(7), n)
}

func TestConvertInet(t *testing.T) {
	// gocql decodes inet columns into their string form; the typed
	// getter expects a net.IP.
	v := convertValue(nativeType(gocql.TypeInet), "10.0.0.1")
	require.False(t, v.Null)
	ip, err := result.AsInet(&v)
	require.NoError(t, err)
	assert.True(t, net.ParseIP("10.0.0.1").Equal(ip))

	v = convertValue(nativeType(gocql.TypeInet), net.ParseIP("::1"))
	ip, err = result.AsInet(&v)
	require.NoError(t, err)
	assert.True(t, net.ParseIP("::1").Equal(ip))
}

func TestConvertUUID(t *testing.T) {
	u, err := gocql.RandomUUID()
	require.NoError(t, err)

	v := convertValue(nativeType(gocql.TypeUUID), u)
	got, err := result.AsUUID(&v)
	require.NoError(t, err)
	assert.Equal(t, [16]byte(u), got)
}

func TestConvertListWithNullElement(t *testing.T) {
	ti := gocql.CollectionType{
		NativeType: gocql.NewNativeType(4, gocql.TypeList, ""),
		Elem:       nativeType(gocql.TypeText),
	}

	v := convertValue(ti, []any{"a", nil})
	require.Equal(t, driver.TypeList, v.Type)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "a", v.Items[0].Data)
	assert.True(t, v.Items[1].Null)
	assert.Equal(t, driver.TypeText, v.Items[1].Type)
}
