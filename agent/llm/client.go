package llm

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
	promptx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/prompt"
)

// Client is the generative backend shared by the SQL generator and the info
// agent. Each role gets its own compiled prompt graph and chat model so model
// and temperature overrides apply per role.
type Client struct {
	sqlRunner  compose.Runnable[map[string]any, *schema.Message]
	infoRunner compose.Runnable[map[string]any, *schema.Message]
}

var _ contractx.GenerativeBackend = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()

	sqlModel, err := buildChatModel(ctx, cfg, RoleSQLGenerator)
	if err != nil {
		return nil, err
	}
	infoModel, err := buildChatModel(ctx, cfg, RoleInfo)
	if err != nil {
		return nil, err
	}

	sqlRunner, err := compilePromptGraph(ctx, sqlModel, prompts.SQLGenerator, "llm.sql_generator_graph")
	if err != nil {
		return nil, err
	}
	infoRunner, err := compilePromptGraph(ctx, infoModel, prompts.Info, "llm.info_graph")
	if err != nil {
		return nil, err
	}

	return &Client{sqlRunner: sqlRunner, infoRunner: infoRunner}, nil
}

// GenerateSQL asks the model for one SQLite query against the properties
// table. The raw content is returned untouched; the caller owns sanitization.
func (c *Client) GenerateSQL(ctx context.Context, query string) (string, error) {
	msg, err := c.sqlRunner.Invoke(ctx, map[string]any{"input": query})
	if err != nil {
		return "", fmt.Errorf("%w: generate sql: %v", contractx.ErrModelInvoke, err)
	}
	return msg.Content, nil
}

func (c *Client) Answer(ctx context.Context, question string) (string, error) {
	msg, err := c.infoRunner.Invoke(ctx, map[string]any{"input": question})
	if err != nil {
		return "", fmt.Errorf("%w: answer question: %v", contractx.ErrModelInvoke, err)
	}
	return msg.Content, nil
}

func buildChatModel(ctx context.Context, cfg Config, role Role) (einomodel.ToolCallingChatModel, error) {
	orCfg := cfg.OpenRouterFor(role)
	m, err := orCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("build %s chat model: %w", role, err)
	}
	return m, nil
}

func compilePromptGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", graphName, err)
	}
	return runner, nil
}
