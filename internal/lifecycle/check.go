package lifecycle

import (
	"os"
	"path/filepath"

	"github.com/goplus/cppkg/recipe"
)

// CheckPackage resolves the default directories of info against the
// package folder root and checks that everything info references exists
// and that root/licenses holds at least one file.
func CheckPackage(root string, info *recipe.LinkDescriptor) error {
	info.ResolveDefaults(root)
	if err := info.Check(root); err != nil {
		return err
	}
	licenses := filepath.Join(root, "licenses")
	entries, err := os.ReadDir(licenses)
	if err != nil || len(entries) == 0 {
		return &recipe.ArtifactMissingError{Path: licenses, What: "license"}
	}
	return nil
}
