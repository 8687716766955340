package recipe

import (
	"fmt"
	"slices"

	"github.com/goplus/cppkg/x/ver"
	"gopkg.in/yaml.v3"
)

// Data is the per-version source table shipped next to a recipe as
// sources.yml.
type Data struct {
	Sources map[string]SourceEntry  `yaml:"sources"`
	Patches map[string][]PatchEntry `yaml:"patches,omitempty"`
}

// SourceEntry locates the upstream archive of one version.
type SourceEntry struct {
	URL       URLs   `yaml:"url"`
	SHA256    string `yaml:"sha256,omitempty"`
	StripRoot bool   `yaml:"strip_root,omitempty"`
}

// PatchEntry is a local patch applied on top of the upstream sources.
type PatchEntry struct {
	File        string `yaml:"patch_file"`
	Description string `yaml:"patch_description,omitempty"`
	Type        string `yaml:"patch_type,omitempty"`
	Base        string `yaml:"base_path,omitempty"`
}

// URLs is a list of mirrors. In YAML it may be written as a single string.
type URLs []string

func (u *URLs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*u = URLs{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*u = list
	return nil
}

// ParseData decodes a sources.yml document.
func ParseData(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to parse sources: %w", err)
	}
	for v, src := range d.Sources {
		if len(src.URL) == 0 {
			return nil, fmt.Errorf("failed to parse sources: version %s has no url", v)
		}
	}
	for v := range d.Patches {
		if _, ok := d.Sources[v]; !ok {
			return nil, fmt.Errorf("failed to parse sources: patches for unknown version %s", v)
		}
	}
	return &d, nil
}

// Versions returns the known versions, newest first.
func (d *Data) Versions() []string {
	vers := sortedKeys(d.Sources)
	ver.Sort(vers)
	slices.Reverse(vers)
	return vers
}

// Latest returns the newest known version, or "" when there is none.
func (d *Data) Latest() string {
	if vers := d.Versions(); len(vers) > 0 {
		return vers[0]
	}
	return ""
}

// Source returns the source entry of version.
func (d *Data) Source(version string) (SourceEntry, bool) {
	src, ok := d.Sources[version]
	return src, ok
}

// PatchesFor returns the patches of version in declaration order.
func (d *Data) PatchesFor(version string) []PatchEntry {
	return d.Patches[version]
}
