package msbuild

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/goplus/cppkg/recipe"
	"github.com/goplus/cppkg/x/files"
)

// ToolchainFile is the generated property sheet, relative to the generators
// folder.
const ToolchainFile = "cppkg_toolchain.props"

const cppTargets = `<Import Project="$(VCTargetsPath)\Microsoft.Cpp.targets" />`

var toolsets = map[string]string{
	"190": "v140",
	"191": "v141",
	"192": "v142",
	"193": "v143",
	"194": "v143",
}

// Toolset returns the platform toolset of an msvc compiler version such as
// "193", or "" when unknown.
func Toolset(version string) string {
	return toolsets[version]
}

// Toolchain is the content of the property sheet.
type Toolchain struct {
	Toolset       string
	RuntimeLib    string
	CppStd        string
	Defines       []string
	IncludeDirs   []string
	LibDirs       []string
	Libs          []string
	Configuration string
}

// NewToolchain derives the runtime library, language standard and toolset
// from the settings, and include/lib dirs from built link dependencies.
func NewToolchain(ctx *recipe.Context) *Toolchain {
	s := ctx.Settings
	t := &Toolchain{
		Toolset:       Toolset(s.Compiler.Version.OrElse("")),
		Configuration: Configuration(s.BuildTypeOr(recipe.Release)),
	}
	debug := s.BuildTypeOr(recipe.Release) == recipe.Debug
	switch s.Compiler.Runtime.OrElse("") {
	case "static":
		t.RuntimeLib = "MultiThreaded"
	case "dynamic":
		t.RuntimeLib = "MultiThreadedDLL"
	}
	if t.RuntimeLib != "" && debug {
		t.RuntimeLib = strings.Replace(t.RuntimeLib, "MultiThreaded", "MultiThreadedDebug", 1)
	}
	if std, ok := s.Compiler.CppStd.Get(); ok {
		t.CppStd = "stdcpp" + strings.TrimPrefix(std, "gnu")
	}
	for _, dep := range ctx.Dependencies() {
		if !dep.Built() || dep.Link == nil || dep.Visibility != recipe.Link {
			continue
		}
		for _, dir := range dep.Link.IncludeDirs {
			t.IncludeDirs = append(t.IncludeDirs, filepath.Join(dep.PackageFolder, dir))
		}
		for _, dir := range dep.Link.LibDirs {
			t.LibDirs = append(t.LibDirs, filepath.Join(dep.PackageFolder, dir))
		}
		t.Defines = append(t.Defines, dep.Link.Defines...)
		for _, lib := range dep.Link.AllLibs() {
			t.Libs = append(t.Libs, lib+".lib")
		}
		for _, lib := range dep.Link.SystemLibs {
			t.Libs = append(t.Libs, lib+".lib")
		}
	}
	return t
}

type project struct {
	XMLName  xml.Name        `xml:"Project"`
	Xmlns    string          `xml:"xmlns,attr"`
	ItemDefs itemDefGroup    `xml:"ItemDefinitionGroup"`
	Props    []propertyGroup `xml:"PropertyGroup,omitempty"`
}

type itemDefGroup struct {
	Condition string    `xml:"Condition,attr,omitempty"`
	ClCompile clCompile `xml:"ClCompile"`
	Link      link      `xml:"Link"`
}

type clCompile struct {
	PreprocessorDefinitions      string `xml:"PreprocessorDefinitions,omitempty"`
	AdditionalIncludeDirectories string `xml:"AdditionalIncludeDirectories,omitempty"`
	RuntimeLibrary               string `xml:"RuntimeLibrary,omitempty"`
	LanguageStandard             string `xml:"LanguageStandard,omitempty"`
}

type link struct {
	AdditionalLibraryDirectories string `xml:"AdditionalLibraryDirectories,omitempty"`
	AdditionalDependencies       string `xml:"AdditionalDependencies,omitempty"`
}

type propertyGroup struct {
	Label           string `xml:"Label,attr,omitempty"`
	PlatformToolset string `xml:"PlatformToolset,omitempty"`
}

// Render returns the property sheet as XML.
func (t *Toolchain) Render() (string, error) {
	p := project{
		Xmlns: "http://schemas.microsoft.com/developer/msbuild/2003",
		ItemDefs: itemDefGroup{
			Condition: "'$(Configuration)' == '" + t.Configuration + "'",
			ClCompile: clCompile{
				PreprocessorDefinitions:      inherit(t.Defines, "PreprocessorDefinitions"),
				AdditionalIncludeDirectories: inherit(t.IncludeDirs, "AdditionalIncludeDirectories"),
				RuntimeLibrary:               t.RuntimeLib,
				LanguageStandard:             t.CppStd,
			},
			Link: link{
				AdditionalLibraryDirectories: inherit(t.LibDirs, "AdditionalLibraryDirectories"),
				AdditionalDependencies:       inherit(t.Libs, "AdditionalDependencies"),
			},
		},
	}
	if t.Toolset != "" {
		p.Props = append(p.Props, propertyGroup{Label: "Configuration", PlatformToolset: t.Toolset})
	}
	out, err := xml.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", ToolchainFile, err)
	}
	return xml.Header + string(out) + "\n", nil
}

// Generate writes the property sheet and records it in plan.
func (t *Toolchain) Generate(ctx *recipe.Context, plan *recipe.BuildPlan) error {
	content, err := t.Render()
	if err != nil {
		return err
	}
	if err := files.Save(ctx.GeneratorsPath(ToolchainFile), content); err != nil {
		return fmt.Errorf("failed to write %s: %w", ToolchainFile, err)
	}
	plan.AddFile(ToolchainFile)
	return nil
}

var toolsetPattern = regexp.MustCompile(`<PlatformToolset>v\d+</PlatformToolset>`)

// Inject makes a project file import the generated property sheet and use
// the toolchain's platform toolset.
func (t *Toolchain) Inject(ctx *recipe.Context, vcxproj string) error {
	props := ctx.GeneratorsPath(ToolchainFile)
	if err := files.ReplaceInFile(vcxproj, cppTargets,
		`<Import Project="`+props+`" />`+cppTargets, true); err != nil {
		return fmt.Errorf("failed to inject %s: %w", ToolchainFile, err)
	}
	if t.Toolset == "" {
		return nil
	}
	content, err := files.Load(vcxproj)
	if err != nil {
		return err
	}
	content = toolsetPattern.ReplaceAllString(content, "<PlatformToolset>"+t.Toolset+"</PlatformToolset>")
	return files.Save(vcxproj, content)
}

func inherit(items []string, name string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, ";") + ";%(" + name + ")"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
