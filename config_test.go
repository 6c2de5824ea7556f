package mdserve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/advdv/mdserve"
)

func TestMerge(t *testing.T) {
	base := mdserve.DefaultConfig()
	base.Extensions = mdserve.Extensions(mdserve.ExtTables)
	base.Style.Name = "site"
	base.DirectoryIndex = "home.md"
	base.Raw = true
	base.Match = []string{".md"}

	ignore := false
	override := &mdserve.Config{
		Render:            mdserve.RenderFlags(mdserve.RenderHardWrap),
		Style:             mdserve.StyleConfig{Ext: mdserve.DefaultStyleExt, Path: "styles"},
		DirectoryIndex:    mdserve.DefaultDirectoryIndex,
		TOC:               mdserve.TOCConfig{Starting: 3, Nesting: mdserve.DefaultTOCNesting},
		IgnoreFetchErrors: &ignore,
	}

	cfg := mdserve.Merge(base, override)

	assert.Equal(t, mdserve.Extensions(mdserve.ExtTables), cfg.Extensions)
	assert.Equal(t, mdserve.RenderFlags(mdserve.RenderHardWrap), cfg.Render)
	assert.Equal(t, mdserve.StyleConfig{Path: "styles", Name: "site", Ext: ".html"}, cfg.Style)
	assert.Equal(t, "home.md", cfg.DirectoryIndex, "a default value never overrides")
	assert.Equal(t, mdserve.TOCConfig{Starting: 3, Nesting: 6}, cfg.TOC)
	assert.True(t, cfg.Raw)
	assert.False(t, cfg.FetchErrorsIgnored())
	assert.Equal(t, []string{".md"}, cfg.Match)

	cfg.Match[0] = ".markdown"
	assert.Equal(t, []string{".md"}, base.Match)
	assert.True(t, base.FetchErrorsIgnored())
}

func TestMergeNil(t *testing.T) {
	assert.Equal(t, mdserve.DefaultConfig(), mdserve.Merge(nil, nil))

	base := mdserve.DefaultConfig()
	base.DefaultPage = "welcome.md"
	assert.Equal(t, base, mdserve.Merge(base, nil))

	override := &mdserve.Config{Match: []string{".txt"}, DefaultPage: "welcome.md"}
	cfg := mdserve.Merge(nil, override)
	assert.Equal(t, []string{".txt"}, cfg.Match)
	assert.Equal(t, "welcome.md", cfg.DefaultPage)
	assert.Equal(t, mdserve.DefaultDirectoryIndex, cfg.DirectoryIndex)
}

func TestRenderOptions(t *testing.T) {
	cfg := mdserve.DefaultConfig()
	cfg.Extensions = mdserve.Extensions(mdserve.ExtFootnotes)
	cfg.Class = mdserve.ClassConfig{UL: "list", OL: "numbers", Task: "task"}

	opts := cfg.RenderOptions()
	assert.Equal(t, mdserve.Extensions(mdserve.ExtFootnotes), opts.Extensions)
	assert.Equal(t, mdserve.ClassConfig{UL: "list", OL: "numbers"}, opts.Classes)

	cfg.Render = mdserve.RenderFlags(mdserve.RenderUseTaskList)
	assert.Equal(t, "task", cfg.RenderOptions().Classes.Task)

	toc := mdserve.TOCOptions{StartingLevel: 1, NestingLevel: 3}
	assert.Equal(t, toc, cfg.TOCRenderOptions(toc).TOC)
}
