package tts

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/futable/internal/llm"
)

// OpenAISynthesizer uses the OpenAI audio/speech endpoint and asks for raw PCM.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
	voice  string
}

// NewOpenAISynthesizer creates an OpenAI speech backend.
func NewOpenAISynthesizer(cfg OpenAIConfig) (*OpenAISynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		voice:  cfg.Voice,
	}, nil
}

// openAIPCMType describes the raw pcm response format: 24 kHz 16-bit
// little-endian mono with no header.
const openAIPCMType = "audio/pcm;rate=24000"

func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (*Clip, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, llm.MapOpenAIError(err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, &llm.ErrProviderUnavailable{Err: fmt.Errorf("read speech body: %w", err)}
	}
	if len(data) == 0 {
		return nil, &llm.ErrInvalidResponse{Err: errors.New("empty speech body")}
	}
	return &Clip{Data: data, MIMEType: openAIPCMType, Model: o.model}, nil
}

func (o *OpenAISynthesizer) ModelID() string {
	return o.model
}
