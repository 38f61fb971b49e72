package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptSubstitutesAllFields(t *testing.T) {
	p := BuildPrompt(GenerationRequest{
		FilePath:    "src/main/java/OrderService.java",
		ElementKind: "method",
		ElementName: "countOrders",
		Signature:   "public int countOrders()",
		CodeContext: "public int countOrders() { return 0; }",
	})

	assert.Contains(t, p, "method")
	assert.Contains(t, p, "countOrders")
	assert.Contains(t, p, "public int countOrders()")
	assert.Contains(t, p, "src/main/java/OrderService.java")
	assert.NotContains(t, p, "{kind}")
	assert.NotContains(t, p, "{context}")
}

func TestValidateResponse(t *testing.T) {
	require.Error(t, ValidateResponse("   "))
	require.Error(t, ValidateResponse("/** a */ trailing /** b */"))
	require.NoError(t, ValidateResponse("Counts orders.\n@return count"))
	require.NoError(t, ValidateResponse("```java\n/** x */\n```"))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, "/** x */", StripCodeFence("```java\n/** x */\n```"))
	assert.Equal(t, "/** x */", StripCodeFence("```\n/** x */\n```"))
	assert.Equal(t, "plain text", StripCodeFence("plain text"))
}

func TestGenerationErrorInfraDetection(t *testing.T) {
	infra := &GenerationError{Provider: ProviderOpenAI, Err: assert.AnError}
	assert.False(t, infra.Infra())

	for _, msg := range []string{"401 unauthorized", "rate limit exceeded", "dial tcp: connection refused"} {
		e := &GenerationError{Provider: ProviderClaude, Err: errString(msg)}
		assert.True(t, e.Infra(), msg)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
