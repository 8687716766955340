// Package recipes registers the built-in recipes. Import it for its side
// effect:
//
//	import _ "github.com/goplus/cppkg/recipes"
package recipes

import (
	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/recipes/atspi2core"
	"github.com/goplus/cppkg/recipes/cppcmd"
	"github.com/goplus/cppkg/recipes/hiredis"
	"github.com/goplus/cppkg/recipes/ixwebsocket"
	"github.com/goplus/cppkg/recipes/librhash"
	"github.com/goplus/cppkg/recipes/libsass"
)

func init() {
	recipe.Register("at-spi2-core", atspi2core.New)
	recipe.Register("cppcmd", cppcmd.New)
	recipe.Register("hiredis", hiredis.New)
	recipe.Register("ixwebsocket", ixwebsocket.New)
	recipe.Register("librhash", librhash.New)
	recipe.Register("libsass", libsass.New)
}
