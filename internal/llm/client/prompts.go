package client

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/element.txt
var elementPromptTemplate string

// BuildPrompt renders the per-element prompt sent as the user message.
func BuildPrompt(req GenerationRequest) string {
	r := strings.NewReplacer(
		"{kind}", req.ElementKind,
		"{name}", req.ElementName,
		"{signature}", req.Signature,
		"{file}", req.FilePath,
		"{context}", req.CodeContext,
	)
	return r.Replace(elementPromptTemplate)
}

// ValidateResponse rejects model output that cannot possibly be a Javadoc
// body, so obviously broken answers never reach the source file.
func ValidateResponse(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("empty javadoc response")
	}
	if strings.Contains(trimmed, "```") {
		// tolerate fenced responses, the fence gets stripped later
		return nil
	}
	if strings.Count(trimmed, "/**") > 1 {
		return fmt.Errorf("response contains multiple javadoc blocks")
	}
	return nil
}

// StripCodeFence removes a markdown code fence a model sometimes wraps its
// answer in.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	trimmed = strings.TrimPrefix(trimmed, "```java")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
