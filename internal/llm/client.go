// Package llm wraps the OpenAI chat completions API behind two narrow
// operations: structured extraction through a forced function tool call
// and plain text completion.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4.1-nano"

// ErrNoToolCall marks a response with no usable tool call: absent
// tool_calls, a mismatched function name or empty choices. Callers
// treat it as "no data extracted", not as a fatal error.
var ErrNoToolCall = errors.New("llm: no matching tool call in response")

// ToolSpec declares the function tool the model is forced to call. The
// Parameters map is a JSON schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type Client struct {
	client  openai.Client
	model   string
	baseURL string
	timeout time.Duration
}

type Option func(*Client)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds every completion round-trip. Zero disables the
// per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBaseURL points the client at a compatible API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func New(apiKey string, options ...Option) *Client {
	c := &Client{
		model:   DefaultModel,
		timeout: 90 * time.Second,
	}
	for _, opt := range options {
		opt(c)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if c.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(c.baseURL))
	}
	c.client = openai.NewClient(reqOpts...)
	return c
}

func defineTool(name, description string, parameters map[string]any) openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        name,
				Description: openai.String(description),
				Parameters:  openai.FunctionParameters(parameters),
			},
		},
	}
}

func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

// chatParams builds the request shared by every completion call. The
// seed is pinned so repeated runs stay as stable as the provider
// allows.
func (c *Client) chatParams(system, user string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Seed:  openai.Int(0),
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	}
}

// CallTool sends the prompt with a single function tool the model must
// call and unmarshals the call arguments into out.
func (c *Client) CallTool(ctx context.Context, system, user string, tool ToolSpec, out any) error {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	params := c.chatParams(system, user)
	params.Tools = []openai.ChatCompletionToolUnionParam{
		defineTool(tool.Name, tool.Description, tool.Parameters),
	}
	params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
		OfFunctionToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
			Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
				Name: tool.Name,
			},
		},
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return err
	}
	if len(completion.Choices) == 0 {
		return ErrNoToolCall
	}

	for _, call := range completion.Choices[0].Message.ToolCalls {
		if call.Function.Name != tool.Name {
			continue
		}
		if err := tryUnmarshal(call.Function.Arguments, out); err != nil {
			return fmt.Errorf("llm: decoding %s arguments: %w", tool.Name, err)
		}
		return nil
	}
	return ErrNoToolCall
}

// Complete sends the prompt without tools and returns the text content
// of the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(ctx, c.chatParams(system, user))
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

// tryUnmarshal unmarshals the data into v. If it fails, it will try to
// repair the data and unmarshal it again.
func tryUnmarshal(data string, v any) error {
	err := json.Unmarshal([]byte(data), v)
	if err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(data)
	if err != nil {
		return fmt.Errorf("failed to repair JSON: %v", err)
	}
	return json.Unmarshal([]byte(repaired), v)
}
