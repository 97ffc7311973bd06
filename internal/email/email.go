package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider is an interface for sending contact-form emails.
type Provider interface {
	SendContactMessage(ctx context.Context, name, from, message string) (json.RawMessage, error)
}

// ResendService implements Provider for the Resend HTTP API.
type ResendService struct {
	apiKey string
	from   string
	to     string
	client *http.Client
	apiURL string
}

// NewResendService creates a new Resend client. from must be a verified
// sender in Resend; to is the inbox receiving contact messages.
func NewResendService(apiKey, from, to string) *ResendService {
	return &ResendService{
		apiKey: apiKey,
		from:   from,
		to:     to,
		client: &http.Client{Timeout: 15 * time.Second},
		apiURL: "https://api.resend.com/emails",
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendContactMessage forwards one contact-form submission and returns the
// provider's response body.
func (s *ResendService) SendContactMessage(ctx context.Context, name, from, message string) (json.RawMessage, error) {
	payload := resendRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: fmt.Sprintf("New message from %s (%s)", name, from),
		HTML: fmt.Sprintf(
			"<p><strong>Name:</strong> %s</p><p><strong>Email:</strong> %s</p><p><strong>Message:</strong> %s</p>",
			name, from, message,
		),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("email API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// MockProvider is a mock implementation for testing. It records sent
// messages and can be told to fail.
type MockProvider struct {
	Sent []MockMessage
	Err  error
}

type MockMessage struct {
	Name    string
	From    string
	Message string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) SendContactMessage(_ context.Context, name, from, message string) (json.RawMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Sent = append(m.Sent, MockMessage{Name: name, From: from, Message: message})
	return json.RawMessage(`{"id":"mock-email-id"}`), nil
}
