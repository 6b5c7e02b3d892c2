package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// TextbeltSender delivers SMS through the Textbelt HTTP API.
type TextbeltSender struct {
	url    string
	key    string
	client *http.Client
}

func NewTextbeltSender(url, key string) *TextbeltSender {
	return &TextbeltSender{url: url, key: key, client: &http.Client{Timeout: 10 * time.Second}}
}

func (t *TextbeltSender) Send(ctx context.Context, phone, message string) error {
	postBody, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     t.key,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(postBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("textbelt request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("textbelt response (status %d): %w", resp.StatusCode, err)
	}
	if !result.Success {
		return fmt.Errorf("textbelt rejected message: %s", result.Error)
	}
	return nil
}

// LogSender only logs messages. Used when no SMS key is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (l *LogSender) Send(_ context.Context, phone, message string) error {
	l.logger.Info("SMS not sent: no provider configured",
		zap.String("phone", phone),
		zap.String("message", message))
	return nil
}
