package pinning

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

const gatewayProvider Strategy = "gateway"

// Fetch reads pinned content back through the configured HTTP gateway.
// Brotli and gzip encoded bodies are decoded.
func (c *Client) Fetch(ctx context.Context, locator Locator) ([]byte, error) {
	contentID, err := locator.CID()
	if err != nil {
		return nil, fmt.Errorf("invalid locator %q: %w", locator, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gatewayURL+"/ipfs/"+contentID.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept-Encoding", "br, gzip")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{Provider: gatewayProvider, Err: err}
	}
	defer response.Body.Close()

	reader, err := decodingReader(response)
	if err != nil {
		return nil, &ProviderError{Provider: gatewayProvider, Status: response.StatusCode, Message: err.Error()}
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &TransportError{Provider: gatewayProvider, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &ProviderError{
			Provider: gatewayProvider,
			Status:   response.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}

func decodingReader(response *http.Response) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(response.Header.Get("Content-Encoding"))) {
	case "br":
		return brotli.NewReader(response.Body), nil
	case "gzip":
		return gzip.NewReader(response.Body)
	default:
		return response.Body, nil
	}
}
