package client

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"

	"javadocbot/internal/llm/tools"
)

// AgentGenerator implements Generator with a ReAct agent that can read
// other repository files before answering. Slower and costlier than the
// plain ChatGenerator, but better on elements whose behavior depends on
// collaborating classes.
type AgentGenerator struct {
	cfg   Config
	agent *react.Agent
}

// NewAgentGenerator builds a tool-using generator rooted at repoDir.
func NewAgentGenerator(ctx context.Context, cfg Config, repoDir string) (*AgentGenerator, error) {
	cm, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tools.SetRepositoryRoot(repoDir)
	readTool, err := tools.NewReadFileTool()
	if err != nil {
		return nil, fmt.Errorf("failed to build read_file tool: %w", err)
	}
	listTool, err := tools.NewListDirectoryTool()
	if err != nil {
		return nil, fmt.Errorf("failed to build list_directory tool: %w", err)
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: cm,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: []tool.BaseTool{readTool, listTool},
		},
		MaxStep: 8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create react agent: %w", err)
	}
	return &AgentGenerator{cfg: cfg, agent: agent}, nil
}

func (a *AgentGenerator) GenerateJavadoc(ctx context.Context, req GenerationRequest) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(BuildPrompt(req)),
	}

	resp, err := a.agent.Generate(ctx, messages)
	if err != nil {
		return "", &GenerationError{Provider: a.cfg.Provider, Reason: fmt.Sprintf("%s %s", req.ElementKind, req.ElementName), Err: err}
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", &GenerationError{Provider: a.cfg.Provider, Reason: fmt.Sprintf("empty response for %s %s", req.ElementKind, req.ElementName), Err: fmt.Errorf("agent returned no content")}
	}
	log.Printf("agent generated javadoc for %s %s in %s", req.ElementKind, req.ElementName, req.FilePath)
	return resp.Content, nil
}
