package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
)

type readFileParams struct {
	Path string `json:"path" jsonschema:"description=Repository-relative path of the file to read"`
}

func readFile(_ context.Context, params *readFileParams) (string, error) {
	full, err := resolveInRoot(params.Path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", params.Path, err)
	}
	const maxToolFileBytes = 64 * 1024
	if len(data) > maxToolFileBytes {
		data = data[:maxToolFileBytes]
	}
	return string(data), nil
}

// NewReadFileTool exposes repository file reads to the agent.
func NewReadFileTool() (tool.InvokableTool, error) {
	return utils.InferTool(readFileToolName, readFileToolDesc, readFile)
}
