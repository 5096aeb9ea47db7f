// Package sms sends text messages through the Twilio Messages API.
package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

var ErrMissingCredentials = errors.New("twilio credentials are not configured")

// Client posts messages on behalf of one Twilio account.
type Client struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	http       *http.Client
}

// NewClient fails when any credential is empty so misconfiguration aborts
// startup instead of the first send.
func NewClient(accountSID, authToken, from string) (*Client, error) {
	var missing []string
	if accountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if authToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if from == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    defaultBaseURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send delivers body to the E.164 number to.
func (c *Client) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(c.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr apiError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("send sms: twilio %d: %s", apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("send sms: unexpected status %d", resp.StatusCode)
	}
	return nil
}
