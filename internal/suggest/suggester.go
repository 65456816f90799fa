package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

const systemPrompt = "あなたは日本のアフィリエイトマーケティングの専門家です。創造的で実用的なアイデアを提供します。"

const promptTemplate = `日本のアフィリエイトマーケティングにおいて、以下の条件を満たす有望なジャンルを%d個リストアップし、JSONフォーマットで返してください：

1. 十分なニーズがある（または今後成長が見込める）
2. 比較的競合が少ない
3. アフィリエイト収益化が可能

以下の形式のJSONで出力してください:

{
  "genres": [
    {
      "ジャンル名": "ジャンル1",
      "説明": "このジャンルが有望な理由",
      "想定ターゲット層": "このジャンルの対象となる人々",
      "関連するキーワード例": ["キーワード1", "キーワード2", "キーワード3", "キーワード4", "キーワード5"]
    }
  ]
}

厳密にJSON形式で出力してください。他の説明は不要です。`

// Messager is the slice of the Anthropic client the suggester needs.
type Messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicSuggester asks Claude for promising affiliate genres. The
// model reply is returned as an untyped payload: shape validation is
// the normalizer's job, not the suggester's.
type AnthropicSuggester struct {
	messages Messager
	model    anthropic.Model
	logger   *logger.Logger
}

// New creates a suggester from configuration.
func New(cfg *config.Config, log *logger.Logger) (*AnthropicSuggester, error) {
	if cfg.Anthropic.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not configured")
	}
	client := anthropic.NewClient(option.WithAPIKey(cfg.Anthropic.APIKey))
	return &AnthropicSuggester{
		messages: &client.Messages,
		model:    anthropic.Model(cfg.Anthropic.Model),
		logger:   log.WithField("module", "suggest"),
	}, nil
}

// NewWithMessager creates a suggester over an explicit message client.
func NewWithMessager(messages Messager, model anthropic.Model, log *logger.Logger) *AnthropicSuggester {
	return &AnthropicSuggester{
		messages: messages,
		model:    model,
		logger:   log.WithField("module", "suggest"),
	}
}

// Suggest requests count genre ideas and returns the decoded JSON from
// the model's reply. Prose around the JSON object is tolerated; a reply
// with no parseable JSON is an error.
func (s *AnthropicSuggester) Suggest(ctx context.Context, count int) (any, error) {
	if count < 1 {
		count = 10
	}

	s.logger.WithField("count", count).Info("Requesting genre suggestions")

	resp, err := s.messages.New(ctx, anthropic.MessageNewParams{
		Model:       s.model,
		MaxTokens:   4000,
		Temperature: anthropic.Float(0.7),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(promptTemplate, count))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	raw := sb.String()

	payload, err := extractJSON(raw)
	if err != nil {
		s.logger.WithError(err).Warn("Model reply contained no usable JSON")
		return nil, err
	}

	return payload, nil
}

// extractJSON pulls the outermost JSON object out of a model reply that
// may wrap it in prose or code fences.
func extractJSON(raw string) (any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var payload any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}
	return payload, nil
}
