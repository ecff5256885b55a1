package classify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	gigaChatAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	gigaChatAPIURL  = "https://gigachat.devices.sberbank.ru/api/v1"
	gigaChatScope   = "GIGACHAT_API_PERS"
	gigaChatModel   = "GigaChat"

	// Tokens live 30 minutes; refresh a bit before expiry.
	tokenExpirySlack = 30 * time.Second
)

// GigaChat is a minimal client for the GigaChat chat-completions API.
// Access tokens are fetched lazily and cached until close to expiry.
type GigaChat struct {
	authKey string // base64 authorization key, sent as Basic credentials
	client  *http.Client

	authURL string
	apiURL  string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewGigaChat creates a client. The Sber API endpoints use a certificate
// chain that is commonly absent from system trust stores, so verification
// is optional and off by default in the bot's configuration.
func NewGigaChat(authKey string, skipTLSVerify bool) *GigaChat {
	transport := http.DefaultTransport
	if skipTLSVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}
	return &GigaChat{
		authKey: authKey,
		client:  &http.Client{Transport: transport, Timeout: 30 * time.Second},
		authURL: gigaChatAuthURL,
		apiURL:  gigaChatAPIURL,
	}
}

type oauthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix milliseconds
}

func (g *GigaChat) accessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token != "" && time.Now().Before(g.tokenExpiry.Add(-tokenExpirySlack)) {
		return g.token, nil
	}

	form := url.Values{"scope": {gigaChatScope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.authURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build oauth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", uuid.NewString())
	req.Header.Set("Authorization", "Basic "+g.authKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("oauth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("oauth status %d: %s", resp.StatusCode, body)
	}

	var token oauthResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode oauth response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("oauth response without access token")
	}

	g.token = token.AccessToken
	g.tokenExpiry = time.UnixMilli(token.ExpiresAt)
	return g.token, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a single-turn prompt and returns the model's reply text.
func (g *GigaChat) Complete(ctx context.Context, prompt string) (string, error) {
	token, err := g.accessToken(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(chatRequest{
		Model:    gigaChatModel,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.apiURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat status %d: %s", resp.StatusCode, body)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat response without choices")
	}
	return out.Choices[0].Message.Content, nil
}
