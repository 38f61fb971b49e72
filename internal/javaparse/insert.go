package javaparse

import (
	"strings"

	"javadocbot/internal/models"
)

// NormalizeJavadoc turns a raw model response into a well-formed Javadoc
// block: summary and tag lines prefixed with " * " between "/**" and " */".
// Existing comment markers in the response are stripped first so a model
// that already framed its answer does not end up double-framed.
func NormalizeJavadoc(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")
	text = strings.TrimSpace(text)

	var out []string
	out = append(out, "/**")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimSuffix(line, "*")
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line == "" {
			out = append(out, " *")
		} else {
			out = append(out, " * "+line)
		}
	}
	// drop a trailing blank continuation left by the marker strip
	for len(out) > 1 && out[len(out)-1] == " *" {
		out = out[:len(out)-1]
	}
	out = append(out, " */")
	return strings.Join(out, "\n")
}

// InsertJavadoc places a normalized Javadoc block immediately before the
// element's declaration, above any annotations, reproducing the declaration
// line's indentation. Everything else in the file is left untouched.
func InsertJavadoc(content string, el models.JavaElement, javadoc string) string {
	lines := strings.Split(content, "\n")
	if el.Line < 1 || el.Line > len(lines) {
		return content
	}

	insertIdx := el.Line - 1
	for insertIdx > 0 {
		prev := strings.TrimSpace(lines[insertIdx-1])
		if strings.HasPrefix(prev, "@") {
			insertIdx--
			continue
		}
		break
	}

	declLine := lines[el.Line-1]
	indent := declLine[:len(declLine)-len(strings.TrimLeft(declLine, " \t"))]

	docLines := strings.Split(javadoc, "\n")
	indented := make([]string, len(docLines))
	for i, dl := range docLines {
		indented[i] = indent + dl
	}

	out := make([]string, 0, len(lines)+len(indented))
	out = append(out, lines[:insertIdx]...)
	out = append(out, indented...)
	out = append(out, lines[insertIdx:]...)
	return strings.Join(out, "\n")
}

// ExtractContext returns the source lines surrounding the element, used as
// the prompt context for generation.
func ExtractContext(content string, el models.JavaElement, contextLines int) string {
	lines := strings.Split(content, "\n")
	start := el.Line - contextLines - 1
	if start < 0 {
		start = 0
	}
	end := el.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}
