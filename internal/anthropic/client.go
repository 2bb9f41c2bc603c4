// Package anthropic wraps the Anthropic Messages API for the single call
// this system needs: Gmail's extract_dates_from_email, which sends
// either an image or accumulated text to a vision-or-text-capable model
// and gets back a short response that the Gmail handler parses as JSON
// for dates. Grounded on
// goadesign-goa-ai/features/model/anthropic/client.go, trimmed down from
// that file's full streaming/tool-use apparatus to a single non-
// streaming call — this system never calls a tool from within a model
// turn.
package anthropic

import (
	"context"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// MessagesClient captures the subset of the Anthropic SDK client this
// package uses, so tests can substitute a fake instead of calling the
// network.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Client issues single-turn completion requests against Anthropic's
// Messages API.
type Client struct {
	msg   MessagesClient
	model sdk.Model
}

// New builds a Client around an arbitrary MessagesClient (real or fake).
func New(msg MessagesClient, model sdk.Model) *Client {
	return &Client{msg: msg, model: model}
}

// NewFromAPIKey builds a Client using apiKey and the given model (e.g.
// sdk.ModelClaude3_5SonnetLatest) against the real Anthropic API.
func NewFromAPIKey(apiKey string, model sdk.Model) *Client {
	ac := sdk.NewClient(option.WithAPIKey(apiKey))
	return New(&ac.Messages, model)
}

// CompleteText sends prompt plus a block of plain text and returns the
// model's text response.
func (c *Client) CompleteText(ctx context.Context, prompt, text string) (string, error) {
	msg, err := c.msg.New(ctx, sdk.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewTextBlock(prompt),
				sdk.NewTextBlock(text),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: completing text: %w", err)
	}
	return extractText(msg), nil
}

// CompleteImage sends prompt plus a standard-base64-encoded image and
// returns the model's text response. mediaType is the image's MIME type
// (e.g. "image/png").
func (c *Client) CompleteImage(ctx context.Context, prompt, mediaType, base64Image string) (string, error) {
	msg, err := c.msg.New(ctx, sdk.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewImageBlockBase64(mediaType, base64Image),
				sdk.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: completing image: %w", err)
	}
	return extractText(msg), nil
}

func extractText(msg *sdk.Message) string {
	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}
