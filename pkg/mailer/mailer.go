// Package mailer sends transactional email through the Resend HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	resendAPIURL     = "https://api.resend.com"
	pathResendEmails = "/emails"

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	authBearerPrefix    = "Bearer "
	mimeApplicationJSON = "application/json"

	jsonFrom    = "from"
	jsonTo      = "to"
	jsonSubject = "subject"
	jsonHTML    = "html"
	jsonText    = "text"

	errAPIKeyRequired          = "mailer API key is required"
	errFailedMarshalPayloadFmt = "failed to marshal email payload: %w"
	errFailedCreateRequestFmt  = "failed to create email request: %w"
	errRequestFailedFmt        = "email request failed: %w"
	errAPIStatusFmt            = "mail API returned status %d: %s"
)

type EmailData struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

type Result struct {
	ID       string
	Provider string
}

type Resend struct {
	apiKey string
	apiURL string
	from   string
	client *http.Client
}

func NewResend(apiKey, from string, timeout time.Duration) *Resend {
	return &Resend{
		apiKey: apiKey,
		apiURL: resendAPIURL,
		from:   from,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *Resend) Send(ctx context.Context, data *EmailData) (*Result, error) {
	if r.apiKey == "" {
		return nil, fmt.Errorf(errAPIKeyRequired)
	}

	from := data.From
	if from == "" {
		from = r.from
	}

	payload := map[string]any{
		jsonFrom:    from,
		jsonTo:      data.To,
		jsonSubject: data.Subject,
		jsonHTML:    data.HTML,
	}
	if data.Text != "" {
		payload[jsonText] = data.Text
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf(errFailedMarshalPayloadFmt, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL+pathResendEmails, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateRequestFmt, err)
	}

	req.Header.Set(headerAuthorization, authBearerPrefix+r.apiKey)
	req.Header.Set(headerContentType, mimeApplicationJSON)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errRequestFailedFmt, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf(errAPIStatusFmt, resp.StatusCode, string(body))
	}

	var parsed struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &parsed)

	return &Result{ID: parsed.ID, Provider: "resend"}, nil
}
