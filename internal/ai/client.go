package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// CompletionRequest описывает один запрос к chat-completion API
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// JSONOnly включает response_format=json_object: провайдер обязан
	// вернуть JSON-объект (что не избавляет от необходимости ремонта)
	JSONOnly bool
}

// ChatClient определяет интерфейс LLM-клиента, потребляемый сервисами.
// Реализация с nil-значением недопустима: отсутствие учётных данных
// выражается отсутствием клиента на этапе конструирования сервисов.
type ChatClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Config содержит настройки подключения к LLM-провайдеру
type Config struct {
	APIKey     string
	BaseURL    string // например https://api.openai.com
	Model      string
	TimeoutSec int
}

// Client — HTTP-клиент OpenAI-совместимого chat-completion API
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient создает новый LLM-клиент. Возвращает ошибку при пустом ключе:
// решение о работе без LLM принимает вызывающая сторона, а не клиент.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("AI API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 15
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponseChoice struct {
	Message chatMessage `json:"message"`
}

type chatResponse struct {
	ID      string               `json:"id,omitempty"`
	Choices []chatResponseChoice `json:"choices"`
}

// Complete выполняет один запрос к chat-completion API и возвращает текст
// первого ответа. Таймаут обеспечивается контекстом вызывающей стороны
// и собственным таймаутом HTTP-клиента; ретраев нет.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSONOnly {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	reqJSON, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	url := c.cfg.BaseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Printf("[AIClient] Request timed out after %v", time.Since(started))
			return "", fmt.Errorf("completion request timed out: %w", err)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	log.Printf("[AIClient] model=%s status=%d duration=%v", c.cfg.Model, resp.StatusCode, time.Since(started))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 300))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response contains no choices")
	}

	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("completion response content is empty")
	}
	return content, nil
}

// truncate обрезает строку для логирования
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
