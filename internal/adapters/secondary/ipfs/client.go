package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	log "github.com/sirupsen/logrus"

	"collectible-mint-service/internal/config"
	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

// maxArtifactSize caps the fetched artifact at 32 MiB.
const maxArtifactSize = 32 << 20

// client pins artifacts to an IPFS node over its HTTP API.
//
// CID contract: CIDv1, raw multicodec, sha2-256 multihash. The CID is
// computed locally from the fetched bytes and checked against the node's
// answer, so the identifier is deterministic in the bytes regardless of which
// node pinned them. That determinism is what makes retried stores
// idempotent: the same bytes can be added any number of times and always
// resolve to the same id.
type client struct {
	apiURL     string
	gatewayURL string
	http       *http.Client
}

func NewClient(cfg *config.ContentStoreConfig) ports.ContentStore {
	return &client{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		gatewayURL: strings.TrimRight(cfg.GatewayURL, "/"),
		http:       &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *client) Store(ctx context.Context, sourceURL string, meta ports.ContentMetadata) (*domain.StoredContent, error) {
	data, err := c.fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	localID, err := cidV1RawSHA256(data)
	if err != nil {
		return nil, fmt.Errorf("%w: compute cid: %v", domain.ErrUploadFailed, err)
	}

	nodeID, err := c.add(ctx, data)
	if err != nil {
		return nil, err
	}
	if !nodeID.Equals(localID) {
		return nil, fmt.Errorf("%w: node returned cid %s, expected %s", domain.ErrUploadFailed, nodeID, localID)
	}

	log.WithFields(log.Fields{
		"request_id": meta.RequestID,
		"account_id": meta.AccountID,
		"content_id": localID.String(),
		"bytes":      len(data),
	}).Debug("artifact pinned")

	return &domain.StoredContent{
		ID:         localID.String(),
		BackingURL: c.gatewayURL + "/ipfs/" + localID.String(),
	}, nil
}

func (c *client) fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch artifact: %v", domain.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch artifact: status %d", domain.ErrUploadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact: %v", domain.ErrUploadFailed, err)
	}
	return data, nil
}

// add pins the bytes as a single raw block so the node's CID matches the
// local computation.
func (c *client) add(ctx context.Context, data []byte) (cid.Cid, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "artifact")
	if err != nil {
		return cid.Undef, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return cid.Undef, fmt.Errorf("build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return cid.Undef, fmt.Errorf("build multipart: %w", err)
	}

	addURL := c.apiURL + "/api/v0/add?cid-version=1&raw-leaves=true&hash=sha2-256&pin=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addURL, &body)
	if err != nil {
		return cid.Undef, fmt.Errorf("build add request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return cid.Undef, fmt.Errorf("%w: %v", domain.ErrContentStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cid.Undef, fmt.Errorf("%w: add returned status %d", domain.ErrContentStoreUnavailable, resp.StatusCode)
	}

	var out struct {
		Hash string `json:"Hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return cid.Undef, fmt.Errorf("%w: decode add response: %v", domain.ErrUploadFailed, err)
	}

	id, err := cid.Decode(out.Hash)
	if err != nil {
		return cid.Undef, fmt.Errorf("%w: unexpected add response hash: %v", domain.ErrUploadFailed, err)
	}
	return id, nil
}

func cidV1RawSHA256(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
