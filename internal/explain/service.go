package explain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/futable/internal/llm"
)

// Fetcher turns a concept name into an Explanation. Failures are
// *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, conceptName string) (*Explanation, error)
}

// Service is the Fetcher backed by an llm.Provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates an explanation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// ModelID names the model answering Fetch calls.
func (s *Service) ModelID() string {
	return s.provider.ModelID()
}

func (s *Service) Fetch(ctx context.Context, conceptName string) (*Explanation, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeExplanation)
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(conceptName)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, &FetchError{Concept: conceptName, Err: err}
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &FetchError{Concept: conceptName, Err: fmt.Errorf("parse explanation: %w", err)}
	}
	if err := out.Validate(); err != nil {
		return nil, &FetchError{Concept: conceptName, Err: err}
	}
	return &out, nil
}

// SampleJSON is served by the mock provider in offline runs.
var SampleJSON = json.RawMessage(`{
	"definition": "这是离线示例内容。配置 API Key 后将显示由 AI 生成的讲解。",
	"analogy": "就像先看样板间，再决定要不要买房。",
	"keyPoint": "离线模式只用于体验界面和语音播放流程。",
	"example": "设置 FUTABLE_GEMINI_API_KEY 后重新打开本元素即可获得真实讲解。"
}`)
