package checker

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rchen/sitecheck/internal/models"
)

// Extraction grammar. Deliberately regex-based: the bounded support for
// one level of nested brackets/parens is a documented limitation, not a
// parser waiting to happen.
var (
	// ![alt](path), ![alt](path "title"), ![alt](<path with spaces>).
	// alt may contain one level of nested brackets; a plain path may
	// contain one level of nested parens, e.g. image(1).png.
	markdownImagePattern = regexp.MustCompile(
		`!\[(?:[^\[\]]|\[[^\]]*\])*\]\(` +
			`(?:` +
			`<(?P<angle>[^>]+)>` +
			`|` +
			`(?P<plain>(?:[^()\s"]|\([^()]*\))+)` +
			`)` +
			`(?:\s+["'][^"']*["'])?` +
			`\)`)

	// <img ... src="path" ...>, any attribute order, either quoting.
	htmlImgPattern = regexp.MustCompile(
		`(?i)<img\s+(?:[^>]*?\s+)?src=["'](?P<path>[^"']+)["'][^>]*/?>`)

	// <video ... poster="path" ...>.
	htmlVideoPosterPattern = regexp.MustCompile(
		`(?i)<video\s+(?:[^>]*?\s+)?poster=["'](?P<path>[^"']+)["'][^>]*>`)

	// A fence marker line, optionally indented.
	codeFencePattern = regexp.MustCompile("^\\s*```")

	// Backtick-delimited inline code spans.
	inlineCodePattern = regexp.MustCompile("`[^`]+`")

	// Trailing #anchor on a reference path.
	anchorSuffixPattern = regexp.MustCompile(`#[\w-]+$`)
)

var (
	markdownAngleIdx = markdownImagePattern.SubexpIndex("angle")
	markdownPlainIdx = markdownImagePattern.SubexpIndex("plain")
	htmlImgPathIdx   = htmlImgPattern.SubexpIndex("path")
	videoPathIdx     = htmlVideoPosterPattern.SubexpIndex("path")
)

// ImageChecker finds broken image references in Markdown and HTML and
// suggests fuzzy-matched replacements.
type ImageChecker struct {
	IgnoreExternal   bool
	FuzzyThreshold   float64
	SkipCodeBlocks   bool
	SkipInlineCode   bool
	CheckHTMLImg     bool
	CheckVideoPoster bool

	Disabled bool
}

// NewImageChecker creates an image checker with the standard defaults.
func NewImageChecker() *ImageChecker {
	return &ImageChecker{
		IgnoreExternal:   true,
		FuzzyThreshold:   0.6,
		SkipCodeBlocks:   true,
		SkipInlineCode:   true,
		CheckHTMLImg:     true,
		CheckVideoPoster: true,
	}
}

func (c *ImageChecker) Name() string        { return "image" }
func (c *ImageChecker) Description() string { return "Check image paths in Markdown and HTML" }
func (c *ImageChecker) Enabled() bool       { return !c.Disabled }

// SupportsFile accepts Markdown documents only.
func (c *ImageChecker) SupportsFile(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

// Check scans content line by line, tracking code-fence state and
// blanking inline code spans before matching.
func (c *ImageChecker) Check(file, content string, ctx *Context) ([]models.Issue, error) {
	var issues []models.Issue

	inCodeBlock := false
	for i, line := range splitLines(content) {
		lineNum := i + 1

		// A fence line toggles state. Plain boolean toggle: resilient
		// to odd fence counts, not nesting-aware.
		if c.SkipCodeBlocks && codeFencePattern.MatchString(line) {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		checkLine := line
		if c.SkipInlineCode {
			checkLine = inlineCodePattern.ReplaceAllString(line, "")
		}

		issues = append(issues, c.checkMarkdownImages(checkLine, line, file, lineNum, ctx)...)
		if c.CheckHTMLImg {
			issues = append(issues, c.checkPatternMatches(htmlImgPattern, htmlImgPathIdx, checkLine, line, file, lineNum, ctx)...)
		}
		if c.CheckVideoPoster {
			issues = append(issues, c.checkPatternMatches(htmlVideoPosterPattern, videoPathIdx, checkLine, line, file, lineNum, ctx)...)
		}
	}

	return issues, nil
}

func (c *ImageChecker) checkMarkdownImages(checkLine, originalLine, file string, lineNum int, ctx *Context) []models.Issue {
	var issues []models.Issue

	for _, m := range markdownImagePattern.FindAllStringSubmatchIndex(checkLine, -1) {
		// Prefer the angle-bracket path group over the plain one.
		path := submatch(checkLine, m, markdownAngleIdx)
		if path == "" {
			path = submatch(checkLine, m, markdownPlainIdx)
		}
		if path == "" {
			continue
		}

		// Column in the original line; inline-code blanking may have
		// shifted offsets in the matched line.
		column := strings.Index(originalLine, path)
		if column < 0 {
			column = m[0]
		}

		if issue := c.checkPath(path, file, lineNum, column, originalLine, ctx); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

func (c *ImageChecker) checkPatternMatches(pattern *regexp.Regexp, pathIdx int, checkLine, originalLine, file string, lineNum int, ctx *Context) []models.Issue {
	var issues []models.Issue

	for _, m := range pattern.FindAllStringSubmatchIndex(checkLine, -1) {
		path := submatch(checkLine, m, pathIdx)
		if path == "" {
			continue
		}

		column := strings.Index(originalLine, path)
		if column < 0 {
			column = m[2*pathIdx]
		}

		if issue := c.checkPath(path, file, lineNum, column, originalLine, ctx); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// checkPath validates one reference and builds an issue when it is
// broken. Returns nil for external and existing references.
func (c *ImageChecker) checkPath(path, file string, line, column int, lineContent string, ctx *Context) *models.Issue {
	cleanPath := c.cleanPath(path)

	if c.IgnoreExternal && ctx.Resolver.IsExternal(cleanPath) {
		return nil
	}
	if ctx.Resolver.Exists(cleanPath, file) {
		return nil
	}

	return &models.Issue{
		File:       file,
		Line:       line,
		Column:     column,
		Type:       "broken_image",
		Message:    fmt.Sprintf("Image not found: `%s`", cleanPath),
		Original:   path,
		Suggestion: c.findSuggestion(cleanPath, file, ctx),
		Severity:   models.SeverityError,
		Checker:    c.Name(),
		Metadata: map[string]string{
			"clean_path":   cleanPath,
			"line_content": lineContent,
		},
	}
}

// cleanPath strips surrounding whitespace and a trailing #anchor.
func (c *ImageChecker) cleanPath(path string) string {
	return anchorSuffixPattern.ReplaceAllString(strings.TrimSpace(path), "")
}

func (c *ImageChecker) findSuggestion(path, file string, ctx *Context) string {
	similar := ctx.Resolver.FindSimilar(path, file, c.FuzzyThreshold)
	if len(similar) == 0 {
		return ""
	}
	return similar[0]
}

// submatch extracts a capture group from FindAllStringSubmatchIndex
// output, empty when the group did not participate.
func submatch(s string, m []int, group int) string {
	if group < 0 || 2*group+1 >= len(m) || m[2*group] < 0 {
		return ""
	}
	return s[m[2*group]:m[2*group+1]]
}
