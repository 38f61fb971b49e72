package javaparse

import (
	"regexp"
	"strings"

	"javadocbot/internal/models"
)

// Pattern fallback for files the structured scanner rejects, e.g. sources
// with a syntax error mid-file. Less precise, but a half-broken file can
// still get its intact declarations documented.
var (
	fallbackClassRegex  = regexp.MustCompile(`^\s*(?:@\w+(?:\([^)]*\))?\s+)*(?:public|private|protected)?\s*(?:abstract|final)?\s*(class|interface|enum)\s+(\w+)`)
	fallbackMethodRegex = regexp.MustCompile(`^\s*(?:@\w+(?:\([^)]*\))?\s+)*(?:public|private|protected)?\s*(?:static|final|abstract)?\s*(?:\w+(?:<[^>]+>)?)\s+(\w+)\s*\([^)]*\)`)
)

func parseWithRegex(content string) []models.JavaElement {
	lines := strings.Split(content, "\n")
	var elements []models.JavaElement

	for i, line := range lines {
		if m := fallbackClassRegex.FindStringSubmatch(line); m != nil {
			elements = append(elements, models.JavaElement{
				Kind:       models.ElementClass,
				Name:       m[2],
				Signature:  m[1] + " " + m[2],
				Line:       i + 1,
				HasJavadoc: hasJavadocBefore(lines, i),
			})
			continue
		}
		if !strings.Contains(line, "{") {
			continue
		}
		if m := fallbackMethodRegex.FindStringSubmatch(line); m != nil && !statementKeywords[m[1]] {
			first := strings.Fields(strings.TrimSpace(line))
			if len(first) > 0 && statementKeywords[strings.TrimSuffix(first[0], "(")] {
				continue
			}
			elements = append(elements, models.JavaElement{
				Kind:       models.ElementMethod,
				Name:       m[1],
				Signature:  methodSignature(strings.TrimSpace(line)),
				Line:       i + 1,
				HasJavadoc: hasJavadocBefore(lines, i),
			})
		}
	}
	return elements
}
