package clients

import (
	openai "github.com/sashabaranov/go-openai"
	config "github.com/tendermesh/matching-backend/internal/cfg"
)

func NewOpenAIClient(cfg *config.OpenAICfg) *openai.Client {
	return openai.NewClient(cfg.ApiKey)
}
