package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"xsmb-bot/internal/config"
	"xsmb-bot/internal/logger"
)

// systemPrompt 模型系统提示
const systemPrompt = "Bạn là chuyên gia xổ số. Chỉ trả lời đúng 3 cặp số dự đoán, không hơn không kém. Format rõ ràng."

// chatCaller 模型调用接口，便于测试替换
type chatCaller interface {
	Chat(ctx context.Context, modelID, prompt string) (string, error)
}

// Client OpenAI兼容chat-completions客户端
type Client struct {
	cfg        *config.AI
	httpClient *http.Client
}

// NewClient 创建模型服务客户端
func NewClient(cfg *config.AI) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat 调用chat-completions接口并返回回复文本
func (c *Client) Chat(ctx context.Context, modelID, prompt string) (string, error) {
	logger.Infof("Calling AI model: %s", modelID)

	reqBody := chatRequest{
		Model: modelID,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("AI request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read AI response: %v", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse AI response (status %d): %v", resp.StatusCode, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("AI error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI request failed with status %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("AI response has no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
