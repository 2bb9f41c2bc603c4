package anthropic

import (
	"context"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/require"
)

type fakeMessagesClient struct {
	lastParams sdk.MessageNewParams
	response   *sdk.Message
}

func (f *fakeMessagesClient) New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error) {
	f.lastParams = body
	return f.response, nil
}

func textMessage(text string) *sdk.Message {
	return &sdk.Message{
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: text},
		},
	}
}

func TestCompleteText_ReturnsConcatenatedTextBlocks(t *testing.T) {
	fake := &fakeMessagesClient{response: textMessage("meeting is on March 3rd")}
	c := New(fake, sdk.ModelClaude3_5SonnetLatest)

	out, err := c.CompleteText(context.Background(), "extract dates", "Let's meet March 3rd")
	require.NoError(t, err)
	require.Equal(t, "meeting is on March 3rd", out)
	require.Equal(t, sdk.ModelClaude3_5SonnetLatest, fake.lastParams.Model)
}

func TestCompleteImage_ReturnsTextFromSingleMessage(t *testing.T) {
	fake := &fakeMessagesClient{response: textMessage("itinerary date: 2026-08-01")}
	c := New(fake, sdk.ModelClaude3_5SonnetLatest)

	out, err := c.CompleteImage(context.Background(), "extract dates", "image/png", "aGVsbG8=")
	require.NoError(t, err)
	require.Equal(t, "itinerary date: 2026-08-01", out)
	require.Len(t, fake.lastParams.Messages, 1)
}
