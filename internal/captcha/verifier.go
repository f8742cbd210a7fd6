// Package captcha checks proof-of-work tokens against a Cap site-verify endpoint.
package captcha

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrMissingToken = errors.New("missing captcha token")
	ErrRejected     = errors.New("captcha verification failed")
)

type Verifier struct {
	SiteVerifyURL string
	Secret        string
	Client        *http.Client
}

type verifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
}

type verifyResponse struct {
	Success bool `json:"success"`
}

func NewVerifier(siteVerifyURL, secret string) *Verifier {
	return &Verifier{
		SiteVerifyURL: siteVerifyURL,
		Secret:        secret,
		Client:        &http.Client{Timeout: 5 * time.Second},
	}
}

func (v *Verifier) Enabled() bool {
	return v != nil && v.SiteVerifyURL != "" && v.Secret != ""
}

// Verify is a no-op when the verifier is not configured.
func (v *Verifier) Verify(ctx context.Context, token string) error {
	if !v.Enabled() {
		return nil
	}
	if token == "" {
		return ErrMissingToken
	}

	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}

	payload, err := json.Marshal(verifyRequest{Secret: v.Secret, Response: token})
	if err != nil {
		return fmt.Errorf("encode verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.SiteVerifyURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: site-verify returned status %d", ErrRejected, resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode verify response: %w", err)
	}
	if !result.Success {
		return ErrRejected
	}

	return nil
}
