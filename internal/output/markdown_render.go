// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md renders model output. Raw HTML in the source is dropped.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderMarkdown converts model output to HTML. If conversion fails the text
// is returned escaped.
func RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped above
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark omits raw HTML by default
}
