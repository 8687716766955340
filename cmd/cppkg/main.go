// Command cppkg builds C and C++ packages from recipes.
package main

import "github.com/goplus/cppkg/cmd/cppkg/internal"

func main() {
	internal.Execute()
}
