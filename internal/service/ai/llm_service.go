package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/iachat/chat-widget/internal/config"
	"github.com/iachat/chat-widget/internal/model/chat"
)

// Service encapsulates LLM-backed reply generation
type Service struct {
	template *PromptTemplate
	chain    compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates a new AI service instance from Ark configuration
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel)
}

// NewServiceWithModel compiles the prompt chain around an existing model.
func NewServiceWithModel(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		template: DefaultTemplate(),
		chain:    runnable,
	}, nil
}

// Reply generates the assistant text for one visitor message.
func (s *Service) Reply(ctx context.Context, company, message string, offers []chat.Offer) (string, error) {
	input := map[string]any{
		"system": s.template.BuildSystemPrompt(company, offers),
		"query":  message,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	log.Debug().Str("company", company).Int("length", len(reply)).Int("offers", len(offers)).Msg("[ai] generated reply")
	return reply, nil
}
