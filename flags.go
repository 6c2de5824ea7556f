package mdserve

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Extension is a Markdown dialect toggle: it decides which non-standard syntax the parser recognizes.
type Extension uint8

const (
	ExtNoIntraEmphasis Extension = iota
	ExtTables
	ExtFencedCode
	ExtAutolink
	ExtStrikethrough
	ExtUnderline
	ExtSpaceHeaders
	ExtSuperscript
	ExtLaxSpacing
	ExtDisableIndentedCode
	ExtHighlight
	ExtFootnotes
	ExtQuote
	ExtSpecialAttribute
	numExtensions
)

var extensionNames = [numExtensions]string{
	ExtNoIntraEmphasis:     "no-intra-emphasis",
	ExtTables:              "tables",
	ExtFencedCode:          "fenced-code",
	ExtAutolink:            "autolink",
	ExtStrikethrough:       "strikethrough",
	ExtUnderline:           "underline",
	ExtSpaceHeaders:        "space-headers",
	ExtSuperscript:         "superscript",
	ExtLaxSpacing:          "lax-spacing",
	ExtDisableIndentedCode: "disable-indented-code",
	ExtHighlight:           "highlight",
	ExtFootnotes:           "footnotes",
	ExtQuote:               "quote",
	ExtSpecialAttribute:    "special-attribute",
}

func (e Extension) String() string {
	if e >= numExtensions {
		return "unknown"
	}
	return extensionNames[e]
}

// RenderFlag is an HTML output toggle, independent of the parsing dialect.
type RenderFlag uint8

const (
	RenderSkipHTML RenderFlag = iota
	RenderSkipStyle
	RenderSkipImages
	RenderSkipLinks
	RenderExpandTabs
	RenderSafelink
	RenderTOC
	RenderHardWrap
	RenderUseXHTML
	RenderEscape
	RenderPrettify
	RenderUseTaskList
	RenderSkipEOL
	RenderTOCSkipEscape
	numRenderFlags
)

var renderFlagNames = [numRenderFlags]string{
	RenderSkipHTML:      "skip-html",
	RenderSkipStyle:     "skip-style",
	RenderSkipImages:    "skip-images",
	RenderSkipLinks:     "skip-links",
	RenderExpandTabs:    "expand-tabs",
	RenderSafelink:      "safelink",
	RenderTOC:           "toc",
	RenderHardWrap:      "hard-wrap",
	RenderUseXHTML:      "use-xhtml",
	RenderEscape:        "escape",
	RenderPrettify:      "prettify",
	RenderUseTaskList:   "use-task-list",
	RenderSkipEOL:       "skip-eol",
	RenderTOCSkipEscape: "toc-skip-escape",
}

func (f RenderFlag) String() string {
	if f >= numRenderFlags {
		return "unknown"
	}
	return renderFlagNames[f]
}

// ExtensionSet is an immutable set of extensions.
type ExtensionSet struct{ bits uint32 }

// Extensions builds a set from the given extensions.
func Extensions(exts ...Extension) ExtensionSet {
	return ExtensionSet{}.With(exts...)
}

// With returns a copy of the set that also contains exts.
func (s ExtensionSet) With(exts ...Extension) ExtensionSet {
	for _, e := range exts {
		s.bits |= 1 << e
	}
	return s
}

// Has reports whether e is in the set.
func (s ExtensionSet) Has(e Extension) bool { return s.bits&(1<<e) != 0 }

// Empty reports whether no extension is enabled.
func (s ExtensionSet) Empty() bool { return s.bits == 0 }

// Names lists the enabled extensions by name, in declaration order.
func (s ExtensionSet) Names() []string {
	return lo.FilterMap(extensionNames[:], func(name string, i int) (string, bool) {
		return name, s.Has(Extension(i))
	})
}

func (s ExtensionSet) String() string { return strings.Join(s.Names(), ",") }

// UnmarshalYAML reads a list of extension names.
func (s *ExtensionSet) UnmarshalYAML(unmarshal func(any) error) error {
	var names []string
	if err := unmarshal(&names); err != nil {
		return errors.Wrap(err, "extensions must be a list of names")
	}

	set, err := ParseExtensions(names...)
	if err != nil {
		return err
	}

	*s = set
	return nil
}

// ParseExtensions maps extension names onto a set.
func ParseExtensions(names ...string) (ExtensionSet, error) {
	var set ExtensionSet
	for _, name := range names {
		idx := lo.IndexOf(extensionNames[:], normalizeFlagName(name))
		if idx < 0 {
			return set, errors.Newf("unknown markdown extension %q", name)
		}
		set = set.With(Extension(idx))
	}
	return set, nil
}

// RenderSet is an immutable set of render flags.
type RenderSet struct{ bits uint32 }

// RenderFlags builds a set from the given flags.
func RenderFlags(flags ...RenderFlag) RenderSet {
	return RenderSet{}.With(flags...)
}

// With returns a copy of the set that also contains flags.
func (s RenderSet) With(flags ...RenderFlag) RenderSet {
	for _, f := range flags {
		s.bits |= 1 << f
	}
	return s
}

// Has reports whether f is in the set.
func (s RenderSet) Has(f RenderFlag) bool { return s.bits&(1<<f) != 0 }

// Empty reports whether no render flag is enabled.
func (s RenderSet) Empty() bool { return s.bits == 0 }

// Names lists the enabled flags by name, in declaration order.
func (s RenderSet) Names() []string {
	return lo.FilterMap(renderFlagNames[:], func(name string, i int) (string, bool) {
		return name, s.Has(RenderFlag(i))
	})
}

func (s RenderSet) String() string { return strings.Join(s.Names(), ",") }

// UnmarshalYAML reads a list of render flag names.
func (s *RenderSet) UnmarshalYAML(unmarshal func(any) error) error {
	var names []string
	if err := unmarshal(&names); err != nil {
		return errors.Wrap(err, "render flags must be a list of names")
	}

	set, err := ParseRenderFlags(names...)
	if err != nil {
		return err
	}

	*s = set
	return nil
}

// ParseRenderFlags maps render flag names onto a set.
func ParseRenderFlags(names ...string) (RenderSet, error) {
	var set RenderSet
	for _, name := range names {
		idx := lo.IndexOf(renderFlagNames[:], normalizeFlagName(name))
		if idx < 0 {
			return set, errors.Newf("unknown render flag %q", name)
		}
		set = set.With(RenderFlag(idx))
	}
	return set, nil
}

// normalizeFlagName accepts "FencedCode", "fenced_code" and "fenced-code" alike.
func normalizeFlagName(name string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(name) {
		switch {
		case r == '_' || r == ' ':
			b.WriteByte('-')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
