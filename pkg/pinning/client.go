package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Strategy string

const (
	StrategyPinata Strategy = "pinata"
	StrategyPublic Strategy = "public"

	DefaultPinataBaseURL   = "https://api.pinata.cloud"
	DefaultPublicUploadURL = "https://ipfs.io/ipfs"
	DefaultGatewayURL      = "https://ipfs.io"

	pinFilePath     = "/pinning/pinFileToIPFS"
	defaultFileName = "data"
)

type Config struct {
	PinataJWT       string
	PinataBaseURL   string
	PublicUploadURL string
	GatewayURL      string
	HTTPClient      *http.Client
}

type Client struct {
	strategy        Strategy
	pinataJWT       string
	pinataBaseURL   string
	publicUploadURL string
	gatewayURL      string
	httpClient      *http.Client
}

type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// NewClient creates a new Client. The Pinata strategy is used when a JWT is
// configured, otherwise the public upload endpoint.
func NewClient(config Config) (*Client, error) {
	pinataBaseURL, err := normalizeEndpoint(config.PinataBaseURL, DefaultPinataBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid pinata base URL: %w", err)
	}
	publicUploadURL, err := normalizeEndpoint(config.PublicUploadURL, DefaultPublicUploadURL)
	if err != nil {
		return nil, fmt.Errorf("invalid public upload URL: %w", err)
	}
	gatewayURL, err := normalizeEndpoint(config.GatewayURL, DefaultGatewayURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway URL: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	jwt := strings.TrimSpace(config.PinataJWT)
	strategy := StrategyPublic
	if jwt != "" {
		strategy = StrategyPinata
	}

	return &Client{
		strategy:        strategy,
		pinataJWT:       jwt,
		pinataBaseURL:   pinataBaseURL,
		publicUploadURL: publicUploadURL,
		gatewayURL:      gatewayURL,
		httpClient:      httpClient,
	}, nil
}

func (c *Client) Strategy() Strategy {
	return c.strategy
}

// Pin uploads data once through the configured provider. There are no
// retries; callers decide whether to try again.
func (c *Client) Pin(ctx context.Context, data []byte, name string) (Locator, error) {
	if c.strategy == StrategyPinata {
		return c.pinWithPinata(ctx, data, name)
	}
	return c.pinPublic(ctx, data)
}

func (c *Client) pinWithPinata(ctx context.Context, data []byte, name string) (Locator, error) {
	fileName := strings.TrimSpace(name)
	if fileName == "" {
		fileName = defaultFileName
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write multipart file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pinataBaseURL+pinFilePath, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.pinataJWT)

	responseBody, err := c.do(request, StrategyPinata)
	if err != nil {
		return "", err
	}

	var decoded pinataResponse
	if err := json.Unmarshal(responseBody, &decoded); err != nil {
		return "", &ProviderError{
			Provider: StrategyPinata,
			Body:     string(responseBody),
			Message:  fmt.Sprintf("failed to decode response: %v", err),
		}
	}
	return c.locatorFromHash(StrategyPinata, decoded.IpfsHash, responseBody)
}

func (c *Client) pinPublic(ctx context.Context, data []byte) (Locator, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.publicUploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/octet-stream")

	responseBody, err := c.do(request, StrategyPublic)
	if err != nil {
		return "", err
	}
	return c.locatorFromHash(StrategyPublic, string(responseBody), responseBody)
}

func (c *Client) do(request *http.Request, provider Strategy) ([]byte, error) {
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: err}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &TransportError{Provider: provider, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &ProviderError{
			Provider: provider,
			Status:   response.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

func (c *Client) locatorFromHash(provider Strategy, hash string, body []byte) (Locator, error) {
	locator, err := NormalizeLocator(hash)
	if err != nil {
		return "", &ProviderError{
			Provider: provider,
			Body:     strings.TrimSpace(string(body)),
			Message:  err.Error(),
		}
	}
	return locator, nil
}

func normalizeEndpoint(raw string, fallback string) (string, error) {
	value := strings.TrimRight(strings.TrimSpace(raw), "/")
	if value == "" {
		value = fallback
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("scheme must be http or https")
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", fmt.Errorf("host is required")
	}
	return value, nil
}
