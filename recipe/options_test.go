package recipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"true", True},
		{"On", True},
		{"False", False},
		{"no", False},
		{"none", NoneValue},
		{"~", NoneValue},
		{"openssl", Value("openssl")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseValue(tt.in), tt.in)
	}
}

func TestValueTruthy(t *testing.T) {
	assert.True(t, True.Truthy())
	assert.True(t, Value("mbedtls").Truthy())
	assert.False(t, False.Truthy())
	assert.False(t, NoneValue.Truthy())
	assert.False(t, Value("").Truthy())
}

func newLibOptions() *Options {
	d := &Descriptor{Name: "zlib"}
	d.LibraryOptions().Option("tls", "openssl", "openssl", "mbedtls", False)
	return d.NewOptions()
}

func TestOptionsDefaults(t *testing.T) {
	o := newLibOptions()
	assert.Equal(t, []string{"fPIC", "shared", "tls"}, o.Names())
	assert.True(t, o.Bool("fPIC"))
	assert.False(t, o.Bool("shared"))
	assert.Equal(t, "openssl", o.String("tls"))

	undeclared := NewOptions(map[string][]Value{"extra": {Any}}, nil)
	assert.True(t, undeclared.Is("extra", NoneValue))
}

func TestOptionsSet(t *testing.T) {
	o := newLibOptions()
	require.NoError(t, o.Set("tls", "mbedtls"))
	assert.True(t, o.Is("tls", "mbedtls"))

	err := o.Set("tls", "wolfssl")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	err = o.Set("nope", True)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Reason, "does not exist")

	anyOpts := NewOptions(map[string][]Value{"prefix": {Any}}, map[string]Value{"prefix": "x"})
	require.NoError(t, anyOpts.Set("prefix", "whatever"))
}

func TestOptionsRemove(t *testing.T) {
	o := newLibOptions()
	require.NoError(t, o.Remove("fPIC"))
	assert.False(t, o.Has("fPIC"))
	assert.False(t, o.Get("fPIC").IsSome())
	assert.True(t, o.BoolOr("fPIC", true))
	assert.Error(t, o.Remove("fPIC"))

	o.RmSafe("fPIC")
	assert.Equal(t, []string{"shared", "tls"}, o.Names())
	assert.Error(t, o.Set("fPIC", True))
}

func TestOptionsCloneEqual(t *testing.T) {
	o := newLibOptions()
	c := o.Clone()
	assert.True(t, o.Equal(c))

	require.NoError(t, c.Set("shared", True))
	assert.False(t, o.Equal(c))
	assert.False(t, o.Bool("shared"))

	c = o.Clone()
	c.RmSafe("fPIC")
	assert.False(t, o.Equal(c))
	assert.True(t, o.Has("fPIC"))
}

func TestOptionsCanonical(t *testing.T) {
	o := newLibOptions()
	assert.Equal(t, "fPIC=True\nshared=False\ntls=openssl\n", o.Canonical())
}
