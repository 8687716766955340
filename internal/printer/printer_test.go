package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Success("built %s", "zlib/1.3.1")
	p.Step("generate")
	p.Header("zlib")
	p.Field("version", "1.3.1")
	p.Warning("unpinned source")
	p.Println("done")

	want := "✓ built zlib/1.3.1\n" +
		"→ generate\n" +
		"zlib\n" +
		"  version: 1.3.1\n" +
		"⚠ unpinned source\n" +
		"done\n"
	assert.Equal(t, want, buf.String())
}

func TestError(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &Printer{Out: &out, Err: &errOut}
	err := p.Error("invalid configuration", "hiredis does not support Windows",
		"use -s os=Linux", "pick another recipe")

	assert.EqualError(t, err, "invalid configuration")
	assert.Empty(t, out.String())
	assert.Equal(t, "invalid configuration\n\nhiredis does not support Windows\n\nEither:\n  1. use -s os=Linux\n  2. pick another recipe\n", errOut.String())
}
