package javaparse

import (
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"javadocbot/internal/models"
)

var (
	typeDeclRegex = regexp.MustCompile(`^\s*(?:(?:public|protected|private|abstract|final|static|strictfp|sealed|non-sealed)\s+)*(class|interface|enum|record)\s+([A-Za-z_$][\w$]*)`)

	methodDeclRegex = regexp.MustCompile(`^\s*(?:(?:public|protected|private|abstract|final|static|synchronized|native|default|strictfp)\s+)*(?:<[^>]+>\s+)?([\w$.<>\[\],?\s]+?)\s+([A-Za-z_$][\w$]*)\s*\(`)
)

// statementKeywords are tokens that rule a line out as a declaration even
// when the shape matches. "return foo(x);" and "throw new X(...)" both look
// like "<type> <name>(" to a pattern.
var statementKeywords = map[string]bool{
	"return": true, "throw": true, "new": true, "if": true, "else": true,
	"for": true, "while": true, "switch": true, "case": true, "do": true,
	"try": true, "catch": true, "finally": true, "break": true,
	"continue": true, "assert": true, "yield": true, "super": true,
	"this": true,
}

// leadingAnnotations matches annotations written on the declaration line
// itself, e.g. "@Override public void f() {".
var leadingAnnotations = regexp.MustCompile(`^(\s*)(?:@[A-Za-z_$][\w$.]*(?:\([^)]*\))?\s+)+`)

func stripLeadingAnnotations(line string) string {
	return leadingAnnotations.ReplaceAllString(line, "$1")
}

func parenBalance(s string) int {
	bal := 0
	for _, r := range s {
		switch r {
		case '(':
			bal++
		case ')':
			bal--
		}
	}
	return bal
}

// maxDeclWrapLines bounds how far a wrapped parameter list is followed.
const maxDeclWrapLines = 8

// joinWrapped stitches a declaration whose parameter list continues on the
// following lines back into a single line, so the shape match sees the
// whole signature.
func joinWrapped(lines []string, i int) string {
	joined := lines[i]
	bal := parenBalance(joined)
	for j := i + 1; bal > 0 && j < len(lines) && j-i <= maxDeclWrapLines; j++ {
		joined += " " + strings.TrimSpace(lines[j])
		bal = parenBalance(joined)
	}
	return joined
}

// ParseFile extracts documentable class and method declarations from a Java
// source file. The structured scanner runs first; when it cannot make sense
// of the file the pattern fallback takes over. An error is returned only
// when the scanner rejected the file and the fallback found nothing either.
func ParseFile(path, content string) ([]models.JavaElement, error) {
	elements, err := parseStructured(content)
	if err == nil {
		return elements, nil
	}
	log.Printf("structured parse of %s failed (%v), falling back to pattern scan", path, err)
	fallback := parseWithRegex(content)
	if len(fallback) == 0 {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fallback, nil
}

// ElementsNeedingDocumentation filters parsed elements down to the ones the
// session should generate for. With updateExisting false, elements that
// already carry a Javadoc are never touched.
func ElementsNeedingDocumentation(elements []models.JavaElement, updateExisting bool) []models.JavaElement {
	if updateExisting {
		return elements
	}
	var out []models.JavaElement
	for _, el := range elements {
		if !el.HasJavadoc {
			out = append(out, el)
		}
	}
	return out
}

// parseStructured is a brace-aware scan of the file. It strips comments and
// string literals before matching so declaration shapes inside text never
// register, tracks nesting depth so methods are only recognized inside a
// type body, and rejects files whose braces do not balance.
func parseStructured(content string) ([]models.JavaElement, error) {
	rawLines := strings.Split(content, "\n")
	scrubbed := scrubLines(rawLines)

	var elements []models.JavaElement
	depth := 0
	typesSeen := 0

	for i, line := range scrubbed {
		trimmed := strings.TrimSpace(line)

		if trimmed != "" {
			candidate := stripLeadingAnnotations(line)
			if parenBalance(candidate) > 0 {
				candidate = stripLeadingAnnotations(joinWrapped(scrubbed, i))
			}
			if m := typeDeclRegex.FindStringSubmatch(candidate); m != nil {
				typesSeen++
				elements = append(elements, models.JavaElement{
					Kind:       models.ElementClass,
					Name:       m[2],
					Signature:  m[1] + " " + m[2],
					Line:       i + 1,
					HasJavadoc: hasJavadocBefore(rawLines, i),
				})
			} else if depth >= 1 && looksLikeMethod(candidate, strings.TrimSpace(candidate)) {
				m := methodDeclRegex.FindStringSubmatch(candidate)
				elements = append(elements, models.JavaElement{
					Kind:       models.ElementMethod,
					Name:       m[2],
					Signature:  methodSignature(strings.TrimSpace(candidate)),
					Line:       i + 1,
					HasJavadoc: hasJavadocBefore(rawLines, i),
				})
			}
		}

		for _, r := range line {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
				if depth < 0 {
					return nil, fmt.Errorf("unbalanced braces at line %d", i+1)
				}
			}
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unbalanced braces at end of file (depth %d)", depth)
	}
	if typesSeen == 0 && hasCode(scrubbed) {
		return nil, fmt.Errorf("no type declaration found")
	}

	sort.SliceStable(elements, func(a, b int) bool { return elements[a].Line < elements[b].Line })
	return elements, nil
}

// looksLikeMethod applies the shape match plus the statement-keyword guard.
// A declaration must open its body or end abstract on the same line.
func looksLikeMethod(line, trimmed string) bool {
	if !strings.HasSuffix(trimmed, "{") && !strings.HasSuffix(trimmed, ";") {
		return false
	}
	m := methodDeclRegex.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	// bare calls like "log(x);" have no return type before the name
	if strings.TrimSpace(m[1]) == "" {
		return false
	}
	if statementKeywords[m[2]] {
		return false
	}
	for _, tok := range strings.Fields(m[1]) {
		if statementKeywords[strings.Trim(tok, "<>,")] {
			return false
		}
	}
	return true
}

// methodSignature trims the declaration line down to "... name(params)".
func methodSignature(trimmed string) string {
	sig := strings.TrimSuffix(trimmed, "{")
	sig = strings.TrimSuffix(strings.TrimSpace(sig), ";")
	return strings.TrimSpace(sig)
}

// scrubLines blanks out block comments, line comments, and string/char
// literals while keeping line numbering and brace structure intact.
func scrubLines(lines []string) []string {
	out := make([]string, len(lines))
	inBlock := false

	for i, line := range lines {
		var b strings.Builder
		runes := []rune(line)
		j := 0
		for j < len(runes) {
			if inBlock {
				if runes[j] == '*' && j+1 < len(runes) && runes[j+1] == '/' {
					inBlock = false
					j += 2
					continue
				}
				j++
				continue
			}
			r := runes[j]
			switch {
			case r == '/' && j+1 < len(runes) && runes[j+1] == '*':
				inBlock = true
				j += 2
			case r == '/' && j+1 < len(runes) && runes[j+1] == '/':
				j = len(runes)
			case r == '"' || r == '\'':
				quote := r
				j++
				for j < len(runes) {
					if runes[j] == '\\' {
						j += 2
						continue
					}
					if runes[j] == quote {
						j++
						break
					}
					j++
				}
			default:
				b.WriteRune(r)
				j++
			}
		}
		out[i] = b.String()
	}
	return out
}

func hasCode(scrubbed []string) bool {
	for _, line := range scrubbed {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "package ") || strings.HasPrefix(t, "import ") {
			continue
		}
		return true
	}
	return false
}

// hasJavadocBefore walks upward from the declaration, past annotations, line
// comments, and blank lines, and reports whether the block it lands on is a
// Javadoc comment.
func hasJavadocBefore(lines []string, declIdx int) bool {
	i := declIdx - 1
	for i >= 0 {
		t := strings.TrimSpace(lines[i])
		if t == "" || strings.HasPrefix(t, "@") || strings.HasPrefix(t, "//") {
			i--
			continue
		}
		break
	}
	if i < 0 {
		return false
	}

	t := strings.TrimSpace(lines[i])
	if strings.HasPrefix(t, "/**") {
		return true
	}
	if !strings.HasSuffix(t, "*/") {
		return false
	}
	for j := i; j >= 0; j-- {
		u := strings.TrimSpace(lines[j])
		if strings.HasPrefix(u, "/**") {
			return true
		}
		if strings.HasPrefix(u, "/*") {
			return false
		}
	}
	return false
}
