package main

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
// Catalog dumps carry descriptions as raw HTML fragments more often than not.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// cleanDescription converts an HTML description to Markdown.
// Plain-text input is returned unchanged.
func cleanDescription(s string) string {
	if s == "" || !containsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		// If conversion fails, keep the original string
		return s
	}

	return strings.TrimSpace(markdown)
}
