package provider

import (
	"context"
	"errors"
	"time"

	openai_provider "github.com/callummcdougall/arena-heroku/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
)

// Message is one turn of a chat conversation.
type Message = openai_provider.Message

// Provider is the interface that all LLM implementations must satisfy.
// StreamChat invokes fn for every content chunk as it arrives; fn
// returning an error aborts the stream.
type Provider interface {
	StreamChat(ctx context.Context, model string, messages []Message, fn func(chunk string) error) error
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(client Client, apiKey string, timeout time.Duration) (Provider, error) {
	switch client {
	case OpenAI:
		if apiKey == "" {
			return nil, errors.New("OpenAI API key not set")
		}
		return openai_provider.NewClient(apiKey, timeout), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
