// Package htmlsanitize cleans rich-text descriptions produced by the admin
// editor (Quill). It uses bluemonday to strip dangerous HTML while keeping
// the editor's formatting.
package htmlsanitize

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	strict     *bluemonday.Policy
	policyOnce sync.Once
)

// quillClass matches the class names Quill emits for alignment, indent,
// font size and code blocks.
var quillClass = regexp.MustCompile(`^(ql-[a-z0-9-]+)( ql-[a-z0-9-]+)*$`)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		policy.AllowElements("u", "s", "sub", "sup", "mark", "span")
		policy.AllowAttrs("class").Matching(quillClass).OnElements("p", "span", "li", "ol", "ul", "pre", "h1", "h2", "h3", "blockquote")
		policy.AllowAttrs("data-list").Matching(regexp.MustCompile(`^(bullet|ordered|checked|unchecked)$`)).OnElements("li")
		policy.AllowAttrs("spellcheck").Matching(bluemonday.Paragraph).OnElements("pre")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)

		strict = bluemonday.StrictPolicy()
	})
	return policy, strict
}

// Sanitize cleans HTML input, removing potentially dangerous elements and attributes.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	p, _ := policies()
	return p.Sanitize(s)
}

// PlainText strips every tag and returns the visible text, trimmed.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	_, st := policies()
	return strings.TrimSpace(html.UnescapeString(st.Sanitize(s)))
}

// IsBlank reports whether s has no visible text. An editor left empty
// submits markup such as "<p><br></p>".
func IsBlank(s string) bool {
	return PlainText(s) == ""
}
