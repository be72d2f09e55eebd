// Package feedback integrates the external LLM coach that reviews closed
// trades. The collaborator is treated as unreliable: any failure degrades to
// a fixed fallback string, and the caller never sees an error.
package feedback

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"crypto-journal/internal/models"
	"crypto-journal/pkg/utils"
)

// Fallback is returned whenever the service fails. It is never cached on the
// trade, so a later retry stays possible.
const Fallback = "Error generating AI feedback. Please check your connection or try again later."

const systemPrompt = "You are a professional trading coach with expertise in trading psychology " +
	"and risk management. Your goal is to help traders improve their mental game."

// Coach fetches psychological trade reviews from an LLM.
type Coach struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewCoach creates a feedback coach. apiKey must be non-empty.
func NewCoach(apiKey, model string, logger zerolog.Logger) *Coach {
	return &Coach{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// BuildPrompt renders the trade summary sent to the coach.
func BuildPrompt(t *models.Trade) string {
	return fmt.Sprintf(`Analyze this cryptocurrency trade and provide psychological feedback for the trader.

Trade Details:
- Symbol: %s
- Direction: %s
- Leverage: %.0fx
- Result: %.2f%%
- Strategy: %s
- Trader's Review Notes: %q

Please provide a short, professional, and encouraging psychological review (max 100 words).
Focus on discipline, emotional management, and strategy adherence.`,
		t.Symbol, t.Direction, t.Leverage, t.PnLPercent, t.Strategy, t.Review)
}

// Review fetches feedback for a trade. The second return value reports
// whether the text is a genuine response safe to cache on the trade; it is
// false when the fallback string is returned.
func (c *Coach) Review(ctx context.Context, t *models.Trade) (string, bool) {
	resp, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() (openai.ChatCompletionResponse, error) {
		return c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(t)},
			},
			Temperature: 0.7,
		})
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("trade_id", t.ID).Msg("Feedback service failed")
		return Fallback, false
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn().Str("trade_id", t.ID).Msg("Feedback service returned no content")
		return Fallback, false
	}
	return resp.Choices[0].Message.Content, true
}
