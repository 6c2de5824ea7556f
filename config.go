package mdserve

import "slices"

const (
	// DefaultTitle is used for documents that do not come from a named file.
	DefaultTitle = "Markdown"
	// DefaultStyleExt is appended to style names to find the template file.
	DefaultStyleExt = ".html"
	// DefaultDirectoryIndex is read when a directory is requested.
	DefaultDirectoryIndex = "index.md"
	// DefaultTOCStarting is the shallowest heading level listed in a table of contents.
	DefaultTOCStarting = 2
	// DefaultTOCNesting is the deepest heading level listed in a table of contents.
	DefaultTOCNesting = 6
)

// StyleConfig locates style templates: Path/Name+Ext.
type StyleConfig struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
	Ext  string `yaml:"ext"`
}

// ClassConfig holds CSS class overrides for lists.
type ClassConfig struct {
	UL   string `yaml:"ul"`
	OL   string `yaml:"ol"`
	Task string `yaml:"task"`
}

// TOCConfig holds the table of contents defaults.
type TOCConfig struct {
	Starting int    `yaml:"starting"`
	Nesting  int    `yaml:"nesting"`
	Header   string `yaml:"header"`
	Footer   string `yaml:"footer"`
}

// Config is the resolved configuration of one location. It is built once, then shared read-only between
// requests.
type Config struct {
	Extensions ExtensionSet `yaml:"extensions"`
	Render     RenderSet    `yaml:"render"`
	Style      StyleConfig  `yaml:"style"`
	Class      ClassConfig  `yaml:"class"`
	TOC        TOCConfig    `yaml:"toc"`

	// Raw allows clients to ask for the unrendered source with the "raw" parameter.
	Raw bool `yaml:"raw"`
	// DefaultPage is served when the requested document yields no content.
	DefaultPage string `yaml:"defaultPage"`
	// DirectoryIndex is appended to directory requests. Empty forbids directory requests.
	DirectoryIndex string `yaml:"directoryIndex"`
	// IgnoreFetchErrors makes failing "url" fetches non-fatal. Nil means true.
	IgnoreFetchErrors *bool `yaml:"ignoreFetchErrors"`
	// Match restricts the handler to paths with one of these suffixes. Empty matches everything.
	Match []string `yaml:"match"`
}

// DefaultConfig returns the configuration every location starts from.
func DefaultConfig() *Config {
	return &Config{
		Style:          StyleConfig{Ext: DefaultStyleExt},
		TOC:            TOCConfig{Starting: DefaultTOCStarting, Nesting: DefaultTOCNesting},
		DirectoryIndex: DefaultDirectoryIndex,
	}
}

// FetchErrorsIgnored reports whether failing fetches are tolerated.
func (c *Config) FetchErrorsIgnored() bool {
	return c.IgnoreFetchErrors == nil || *c.IgnoreFetchErrors
}

// Merge returns a new configuration where every field of override that differs from its default replaces the
// value in base. Neither argument is modified.
func Merge(base, override *Config) *Config {
	switch {
	case base == nil && override == nil:
		return DefaultConfig()
	case base == nil:
		base = DefaultConfig()
	case override == nil:
		override = &Config{}
	}

	cfg := *base
	cfg.Match = slices.Clone(base.Match)

	if !override.Extensions.Empty() {
		cfg.Extensions = override.Extensions
	}
	if !override.Render.Empty() {
		cfg.Render = override.Render
	}

	cfg.Style.Path = mergeString(base.Style.Path, override.Style.Path, "")
	cfg.Style.Name = mergeString(base.Style.Name, override.Style.Name, "")
	cfg.Style.Ext = mergeString(base.Style.Ext, override.Style.Ext, DefaultStyleExt)

	cfg.Class.UL = mergeString(base.Class.UL, override.Class.UL, "")
	cfg.Class.OL = mergeString(base.Class.OL, override.Class.OL, "")
	cfg.Class.Task = mergeString(base.Class.Task, override.Class.Task, "")

	cfg.TOC.Starting = mergeInt(base.TOC.Starting, override.TOC.Starting, DefaultTOCStarting)
	cfg.TOC.Nesting = mergeInt(base.TOC.Nesting, override.TOC.Nesting, DefaultTOCNesting)
	cfg.TOC.Header = mergeString(base.TOC.Header, override.TOC.Header, "")
	cfg.TOC.Footer = mergeString(base.TOC.Footer, override.TOC.Footer, "")

	cfg.Raw = base.Raw || override.Raw
	cfg.DefaultPage = mergeString(base.DefaultPage, override.DefaultPage, "")
	cfg.DirectoryIndex = mergeString(base.DirectoryIndex, override.DirectoryIndex, DefaultDirectoryIndex)

	if override.IgnoreFetchErrors != nil {
		v := *override.IgnoreFetchErrors
		cfg.IgnoreFetchErrors = &v
	}
	if len(override.Match) > 0 {
		cfg.Match = slices.Clone(override.Match)
	}

	return &cfg
}

func mergeString(base, override, def string) string {
	if override == "" || override == def {
		return base
	}
	return override
}

func mergeInt(base, override, def int) int {
	if override == 0 || override == def {
		return base
	}
	return override
}

// RenderOptions is everything the renderer needs besides the source.
type RenderOptions struct {
	Extensions ExtensionSet
	Render     RenderSet
	Classes    ClassConfig
	TOC        TOCOptions
}

// RenderOptions assembles the options of the body render pass. Class overrides are only carried when the
// feature they style is enabled.
func (c *Config) RenderOptions() RenderOptions {
	opts := RenderOptions{
		Extensions: c.Extensions,
		Render:     c.Render,
		Classes: ClassConfig{
			UL: c.Class.UL,
			OL: c.Class.OL,
		},
	}

	if c.Render.Has(RenderUseTaskList) {
		opts.Classes.Task = c.Class.Task
	}

	return opts
}

// TOCRenderOptions assembles the options of the table of contents render pass.
func (c *Config) TOCRenderOptions(toc TOCOptions) RenderOptions {
	opts := c.RenderOptions()
	opts.TOC = toc
	return opts
}
