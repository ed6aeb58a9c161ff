package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

const defaultMaxIterations = 10

// Client drives a provider, running the tool-call loop when the provider
// supports tools and tools are registered.
type Client struct {
	provider Provider
	tools    map[string]Tool
}

func New(provider Provider) *Client {
	return &Client{
		provider: provider,
		tools:    make(map[string]Tool),
	}
}

func (c *Client) RegisterTool(tool Tool) {
	c.tools[tool.Name()] = tool
}

func (c *Client) Complete(ctx context.Context, prompt string, opts ...CompletionOption) (*CompletionResponse, error) {
	req := CompletionRequest{
		Messages: []Message{
			{Role: RoleUser, Content: prompt},
		},
		MaxIterations: defaultMaxIterations,
	}
	for _, opt := range opts {
		opt(&req)
	}

	for _, t := range c.tools {
		req.Tools = append(req.Tools, t)
	}

	if len(req.Tools) == 0 || !c.provider.SupportsTools() {
		return c.provider.Complete(ctx, req)
	}
	return c.completeWithToolLoop(ctx, req)
}

type CompletionOption func(*CompletionRequest)

func WithSystemPrompt(prompt string) CompletionOption {
	return func(req *CompletionRequest) {
		req.SystemPrompt = prompt
	}
}

func WithTemperature(temp float64) CompletionOption {
	return func(req *CompletionRequest) {
		req.Temperature = temp
	}
}

func WithMaxIterations(max int) CompletionOption {
	return func(req *CompletionRequest) {
		req.MaxIterations = max
	}
}

func (c *Client) completeWithToolLoop(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	messages := make([]Message, len(req.Messages))
	copy(messages, req.Messages)

	if req.SystemPrompt != "" {
		messages = append([]Message{{Role: RoleSystem, Content: req.SystemPrompt}}, messages...)
	}

	for i := 0; i < req.MaxIterations; i++ {
		resp, err := c.provider.Complete(ctx, CompletionRequest{
			Messages:    messages,
			Tools:       req.Tools,
			Temperature: req.Temperature,
		})
		if err != nil {
			return nil, err
		}

		if len(resp.Message.ToolCalls) == 0 {
			return resp, nil
		}

		messages = append(messages, resp.Message)
		for _, tc := range resp.Message.ToolCalls {
			messages = append(messages, c.executeToolCall(ctx, tc))
		}
	}

	return nil, fmt.Errorf("max iterations (%d) reached", req.MaxIterations)
}

func (c *Client) executeToolCall(ctx context.Context, tc ToolCall) Message {
	msg := Message{
		Role:       RoleTool,
		ToolCallID: tc.ID,
		Name:       tc.Function.Name,
	}

	tool, ok := c.tools[tc.Function.Name]
	if !ok {
		msg.Content = fmt.Sprintf(`{"error": "tool not found: %s"}`, tc.Function.Name)
		return msg
	}

	result, err := tool.Execute(ctx, tc.Function.Arguments)
	if err != nil {
		msg.Content = fmt.Sprintf(`{"error": %q}`, err.Error())
		return msg
	}

	payload, err := json.Marshal(result)
	if err != nil {
		msg.Content = fmt.Sprintf(`{"error": "failed to marshal result: %s"}`, err.Error())
		return msg
	}
	msg.Content = string(payload)
	return msg
}
