package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Roshan1923/BillBrain/internal/config"
)

const systemPrompt = "You are a receipt OCR assistant. Extract data from receipt images and return ONLY valid JSON. " +
	"Extract: merchant_name (string), date (YYYY-MM-DD string), total (number), " +
	"tax (number, GST/HST if visible), items (array of {name: string, price: number}), " +
	"payment_method (string like 'Visa', 'Cash', 'Debit', etc). " +
	"If a field is not visible, use empty string for strings, 0 for numbers, empty array for items. " +
	"Return ONLY the JSON object, no markdown, no explanation."

// Client calls an OpenAI-compatible vision chat endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds the extraction client, or returns nil when no API key is
// configured (the handler reports the service as unavailable).
func NewClient(cfg config.OCRConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the image to the vision endpoint and decodes the reply.
// A reply that is not valid JSON yields ErrUnparsable.
func (c *Client) Extract(ctx context.Context, imageBase64 string) (Fields, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []any{
				map[string]any{
					"type": "text",
					"text": "Extract all receipt data from this image. Return only valid JSON.",
				},
				map[string]any{
					"type": "image_url",
					"image_url": map[string]any{
						"url": "data:image/jpeg;base64," + imageBase64,
					},
				},
			}},
		},
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return Fields{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf))
	if err != nil {
		return Fields{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Fields{}, fmt.Errorf("call extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Fields{}, fmt.Errorf("extraction service returned %d", resp.StatusCode)
	}

	var reply chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return Fields{}, fmt.Errorf("decode response: %w", err)
	}
	if len(reply.Choices) == 0 {
		return Fields{}, ErrUnparsable
	}

	return parseFields(reply.Choices[0].Message.Content)
}
