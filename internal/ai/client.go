package ai

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/workchoque/workchoque-api/internal/config"
	"go.uber.org/zap"
)

// NoResponseSentinel is returned when the API answers 2xx but carries no
// candidate text.
const NoResponseSentinel = "Sem resposta da IA."

const requestTimeout = 15 * time.Second

// Client talks to the generative-text API. Models are tried in order; the
// first successful call wins.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	models     []string
	creds      *serviceAccount
	log        *zap.Logger
}

type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`

	key *rsa.PrivateKey
}

func NewClient(cfg *config.Config, log *zap.Logger) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    cfg.GeminiAPIBase,
		apiKey:     cfg.GeminiAPIKey,
		models:     cfg.GeminiModels,
		log:        log,
	}

	if cfg.GeminiServiceAccount != "" {
		creds, err := loadServiceAccount(cfg.GeminiServiceAccount)
		if err != nil {
			return nil, fmt.Errorf("loading service account: %w", err)
		}
		c.creds = creds
	}

	return c, nil
}

func loadServiceAccount(path string) (*serviceAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sa serviceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, err
	}

	sa.key, err = jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return &sa, nil
}

// bearerToken mints a short-lived RS256 assertion for the service account.
func (c *Client) bearerToken() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.creds.ClientEmail,
		Subject:   c.creds.ClientEmail,
		Audience:  jwt.ClaimStrings{c.baseURL + "/"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.creds.key)
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends the prompt to each configured model in order and returns the
// first successful answer. Only after every model has failed does it return an
// error, carrying the last failure.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	if len(c.models) == 0 {
		return "", fmt.Errorf("no models configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 2048,
		},
	})
	if err != nil {
		return "", err
	}

	var bearer string
	if c.creds != nil {
		bearer, err = c.bearerToken()
		if err != nil {
			return "", fmt.Errorf("minting bearer token: %w", err)
		}
	}

	c.log.Info("ai: analyze", zap.Int("promptLen", len(prompt)))

	var lastErr error
	for _, model := range c.models {
		text, err := c.tryModel(ctx, model, body, bearer)
		if err != nil {
			c.log.Warn("ai: model failed", zap.String("model", model), zap.Error(err))
			lastErr = err
			continue
		}
		c.log.Info("ai: analyze done", zap.String("model", model), zap.Int("responseLen", len(text)))
		return text, nil
	}

	return "", fmt.Errorf("all models failed: %w", lastErr)
}

func (c *Client) tryModel(ctx context.Context, model string, body []byte, bearer string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	if bearer == "" {
		url += "?key=" + c.apiKey
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Surface the API's own message when present.
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error != nil {
			return "", fmt.Errorf("model %s: %s", model, parsed.Error.Message)
		}
		return "", fmt.Errorf("model %s: status %d", model, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("model %s: decoding response: %w", model, err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return NoResponseSentinel, nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
