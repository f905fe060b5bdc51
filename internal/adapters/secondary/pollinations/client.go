package pollinations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"collectible-mint-service/internal/config"
	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

// client calls a pollinations-style prompt-to-image endpoint. The service
// renders the image on GET, so one request both triggers generation and
// proves the artifact exists; the returned URL is the stable source
// reference handed to the content store.
type client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg *config.GeneratorConfig) ports.ArtifactGenerator {
	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *client) Generate(ctx context.Context, prompt string) (*domain.GeneratedArtifact, error) {
	sourceURL := fmt.Sprintf("%s/prompt/%s", c.baseURL, url.PathEscape(prompt))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build generator request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrGeneratorTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGeneratorUnavailable, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused; the content store re-fetches
	// the bytes from the source URL.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrGeneratorUnavailable, resp.StatusCode)
	}

	return &domain.GeneratedArtifact{
		SourceURL:  sourceURL,
		ProducedAt: time.Now(),
	}, nil
}
