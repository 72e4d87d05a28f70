// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package page

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md     = goldmark.New(goldmark.WithExtensions(extension.Typographer))
	policy = bluemonday.UGCPolicy()
)

// markdown converts Markdown text to sanitized HTML.
func markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// bullets converts items to a sanitized HTML bullet list. Each item
// may contain inline Markdown.
func bullets(items []string) (template.HTML, error) {
	if len(items) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(strings.ReplaceAll(it, "\n", " "))
		b.WriteString("\n")
	}
	return markdown(b.String())
}
