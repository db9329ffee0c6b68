package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iachat/chat-widget/internal/model/chat"
)

type stubChatModel struct {
	reply    string
	err      error
	received []*schema.Message
}

func (m *stubChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.received = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *stubChatModel) BindTools([]*schema.ToolInfo) error { return nil }

func TestReplyRunsChainThroughModel(t *testing.T) {
	stub := &stubChatModel{reply: "  Te recomiendo **Fibra 600 Mb**.\n"}
	svc, err := NewServiceWithModel(context.Background(), stub)
	require.NoError(t, err)

	offers := []chat.Offer{{Title: "Fibra 600 Mb", Description: "Internet simétrico", Price: "$29.990/mes"}}
	reply, err := svc.Reply(context.Background(), "Acme", "quiero fibra", offers)
	require.NoError(t, err)
	assert.Equal(t, "Te recomiendo **Fibra 600 Mb**.", reply)

	require.Len(t, stub.received, 2)
	assert.Equal(t, schema.System, stub.received[0].Role)
	assert.Equal(t, DefaultTemplate().BuildSystemPrompt("Acme", offers), stub.received[0].Content)
	assert.Equal(t, schema.User, stub.received[1].Role)
	assert.Equal(t, "quiero fibra", stub.received[1].Content)
}

func TestReplyWrapsModelError(t *testing.T) {
	boom := errors.New("ark unavailable")
	svc, err := NewServiceWithModel(context.Background(), &stubChatModel{err: boom})
	require.NoError(t, err)

	_, err = svc.Reply(context.Background(), "Acme", "hola", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run AI chain")
	assert.Contains(t, err.Error(), boom.Error())
}
