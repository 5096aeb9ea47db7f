package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type subscription struct {
	Status  string    `json:"status"`
	EndDate time.Time `json:"endDate"`
}

type envelope struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	Order         int    `json:"order"`
}

type loginSuccessMsg struct{ token string }
type dashboardMsg struct {
	sub       subscription
	envelopes []envelope
}
type envelopeChangedMsg struct{ note string }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// apiClient talks to the budget server with a bearer token.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *apiClient) do(method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable at %s", c.baseURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func loginUser(c *apiClient, email, password string) tea.Cmd {
	return func() tea.Msg {
		var result struct {
			AccessToken string `json:"accessToken"`
		}
		err := c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, &result)
		if err != nil {
			return errMsg{err}
		}
		return loginSuccessMsg{token: result.AccessToken}
	}
}

func loadDashboard(c *apiClient) tea.Cmd {
	return func() tea.Msg {
		var sub subscription
		if err := c.do(http.MethodGet, "/api/subscription/status", nil, &sub); err != nil {
			return errMsg{err}
		}
		var list struct {
			Data []envelope `json:"data"`
		}
		if err := c.do(http.MethodGet, "/api/envelopes", nil, &list); err != nil {
			return errMsg{err}
		}
		return dashboardMsg{sub: sub, envelopes: list.Data}
	}
}

func createEnvelope(c *apiClient, name, target string) tea.Cmd {
	return func() tea.Msg {
		body := map[string]string{"name": name, "targetAmount": target}
		if err := c.do(http.MethodPost, "/api/envelopes", body, nil); err != nil {
			return errMsg{err}
		}
		return envelopeChangedMsg{note: "Created " + name}
	}
}

func deleteEnvelope(c *apiClient, e envelope) tea.Cmd {
	return func() tea.Msg {
		if err := c.do(http.MethodDelete, "/api/envelopes/"+e.ID, nil, nil); err != nil {
			return errMsg{err}
		}
		return envelopeChangedMsg{note: "Deleted " + e.Name}
	}
}
