package tts

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/abhisek/futable/internal/llm"
)

// Gemini TTS returns raw 16-bit mono PCM at 24 kHz.
const geminiDefaultMIME = "audio/L16;codec=pcm;rate=24000"

// GeminiSynthesizer uses a Gemini TTS model with a prebuilt voice.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSynthesizer creates a Gemini speech backend.
func NewGeminiSynthesizer(ctx context.Context, cfg GeminiConfig) (*GeminiSynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiSynthesizer{client: client, model: cfg.Model, voice: cfg.Voice}, nil
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.voice},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), config)
	if err != nil {
		return nil, llm.MapGeminiError(err)
	}

	clip, err := clipFromResponse(result)
	if err != nil {
		return nil, err
	}
	clip.Model = g.model
	return clip, nil
}

func (g *GeminiSynthesizer) ModelID() string {
	return g.model
}

func clipFromResponse(result *genai.GenerateContentResponse) (*Clip, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, &llm.ErrInvalidResponse{Err: errors.New("no audio candidate in Gemini response")}
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		clip := &Clip{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}
		if clip.MIMEType == "" {
			clip.MIMEType = geminiDefaultMIME
		}
		if result.UsageMetadata != nil {
			clip.Usage = llm.Usage{
				InputTokens:  int(result.UsageMetadata.PromptTokenCount),
				OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
				TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
			}
		}
		return clip, nil
	}
	return nil, &llm.ErrInvalidResponse{Err: errors.New("Gemini response carried no audio data")}
}
