package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("openssl/3.2.1")
	require.NoError(t, err)
	assert.Equal(t, Reference{Name: "openssl", Version: "3.2.1"}, ref)
	assert.Equal(t, "openssl/3.2.1", ref.String())

	ref, err = ParseReference("zlib")
	require.NoError(t, err)
	assert.Equal(t, "zlib", ref.String())

	for _, s := range []string{"", "/1.0", "a/b/c", "Zlib/1.0"} {
		_, err := ParseReference(s)
		assert.Error(t, err, s)
	}
}

func TestRequirementsOrder(t *testing.T) {
	var reqs Requirements
	reqs.Requires("openssl/3.2.1")
	reqs.Requires("zlib/1.3.1", WithOption("shared", True))
	reqs.ToolRequires("pkgconf/2.1.0")
	reqs.TestRequires("gtest/1.14.0")

	assert.Equal(t, []string{"openssl/3.2.1", "zlib/1.3.1", "pkgconf/2.1.0", "gtest/1.14.0"}, reqs.Refs())
	deps := reqs.List()
	assert.Equal(t, Link, deps[1].Visibility)
	assert.Equal(t, True, deps[1].Options["shared"])
	assert.Equal(t, Build, deps[2].Visibility)
	assert.Equal(t, "gtest/1.14.0 (test)", deps[3].String())
	assert.True(t, reqs.Has("zlib"))
	assert.False(t, reqs.Has("brotli"))
	assert.Empty(t, reqs.Errs())

	deps[1].Options["shared"] = False
	assert.Equal(t, True, reqs.List()[1].Options["shared"])
}

func TestRequirementsMissingVersion(t *testing.T) {
	var reqs Requirements
	reqs.Requires("openssl")
	assert.Empty(t, reqs.List())
	require.Len(t, reqs.Errs(), 1)
	assert.ErrorContains(t, reqs.Errs()[0], "missing version")
}
