package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashgraph-online/asset-publisher-go/pkg/shared"
)

type Config struct {
	Network    string
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
	Headers    map[string]string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	headers    map[string]string
}

// HTTPError is a non-2xx mirror node answer.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("mirror node request failed with status %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err is a 404 from the mirror node.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL, err = shared.DefaultMirrorBaseURL(network)
		if err != nil {
			return nil, err
		}
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mirror base URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid mirror base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid mirror base URL: host is required")
	}
	baseURL = strings.TrimRight(parsedBaseURL.String(), "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		headers[key] = value
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(config.APIKey),
		headers:    headers,
	}, nil
}

// BaseURL performs the requested operation.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetToken returns the token, or nil when the mirror node does not know it.
func (c *Client) GetToken(ctx context.Context, tokenID string) (*TokenInfo, error) {
	normalized := strings.TrimSpace(tokenID)
	if normalized == "" {
		return nil, fmt.Errorf("token ID is required")
	}

	var token TokenInfo
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/tokens/%s", normalized), &token); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

// GetNft returns one NFT of a token, or nil when it has not been minted.
func (c *Client) GetNft(ctx context.Context, tokenID string, serialNumber int64) (*Nft, error) {
	normalized := strings.TrimSpace(tokenID)
	if normalized == "" {
		return nil, fmt.Errorf("token ID is required")
	}
	if serialNumber <= 0 {
		return nil, fmt.Errorf("serial number must be positive")
	}

	var nft Nft
	path := fmt.Sprintf("/api/v1/tokens/%s/nfts/%d", normalized, serialNumber)
	if err := c.getJSON(ctx, path, &nft); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &nft, nil
}

// DecodeNftMetadata decodes the base64 metadata of an NFT.
func DecodeNftMetadata(nft Nft) ([]byte, error) {
	if strings.TrimSpace(nft.Metadata) == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(nft.Metadata)
}

// GetLatestBlock returns the most recent record file, or nil when the mirror
// node has none.
func (c *Client) GetLatestBlock(ctx context.Context) (*Block, error) {
	var response blocksResponse
	if err := c.getJSON(ctx, "/api/v1/blocks?order=desc&limit=1", &response); err != nil {
		return nil, err
	}
	if len(response.Blocks) == 0 {
		return nil, nil
	}
	return &response.Blocks[0], nil
}

// GetBlockTransactions returns every transaction whose consensus timestamp
// falls inside block, following pagination links.
func (c *Client) GetBlockTransactions(ctx context.Context, block Block) ([]Transaction, error) {
	if strings.TrimSpace(block.Timestamp.From) == "" || strings.TrimSpace(block.Timestamp.To) == "" {
		return nil, fmt.Errorf("block timestamp range is required")
	}

	values := url.Values{}
	values.Add("timestamp", "gte:"+block.Timestamp.From)
	values.Add("timestamp", "lte:"+block.Timestamp.To)
	values.Set("order", "asc")
	values.Set("limit", "100")

	result := make([]Transaction, 0)
	next := "/api/v1/transactions?" + values.Encode()
	for next != "" {
		var page transactionsResponse
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		result = append(result, page.Transactions...)
		next = page.Links.Next
	}
	return result, nil
}

// GetTransaction returns the requested value.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	normalized := strings.TrimSpace(transactionID)
	if normalized == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}

	var response transactionsResponse
	path := fmt.Sprintf("/api/v1/transactions/%s", normalized)
	if err := c.getJSON(ctx, path, &response); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if len(response.Transactions) == 0 {
		return nil, nil
	}

	return &response.Transactions[0], nil
}

func (c *Client) getJSON(ctx context.Context, pathOrURL string, target any) error {
	requestURL := c.resolveURL(pathOrURL)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("mirror node request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read mirror node response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &HTTPError{Status: response.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode mirror node response: %w", err)
	}

	return nil
}

func (c *Client) resolveURL(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}

	path := pathOrURL
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}
