package ipfs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"collectible-mint-service/internal/config"
	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/ports/output"
)

// fakeNode answers /api/v0/add with the CID it actually computed from the
// uploaded bytes, like a real node would.
func fakeNode(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/add", r.URL.Path)
		file, _, err := r.FormFile("file")
		assert.NoError(t, err)
		data, err := io.ReadAll(file)
		assert.NoError(t, err)

		id, err := cidV1RawSHA256(data)
		assert.NoError(t, err)
		json.NewEncoder(w).Encode(map[string]string{"Hash": id.String()})
	}))
}

func newTestClient(nodeSrv *httptest.Server) ports.ContentStore {
	return NewClient(&config.ContentStoreConfig{
		APIURL:     nodeSrv.URL,
		GatewayURL: "https://ipfs.io",
		Timeout:    5 * time.Second,
	})
}

func TestClient_Store(t *testing.T) {
	artifact := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer artifact.Close()
	node := fakeNode(t)
	defer node.Close()

	c := newTestClient(node)

	content, err := c.Store(context.Background(), artifact.URL, ports.ContentMetadata{})
	assert.NoError(t, err)

	expected, err := cidV1RawSHA256([]byte("png-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, expected.String(), content.ID)
	assert.Equal(t, "https://ipfs.io/ipfs/"+expected.String(), content.BackingURL)
}

func TestClient_Store_SameBytesSameID(t *testing.T) {
	artifact := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("identical-bytes"))
	}))
	defer artifact.Close()
	node := fakeNode(t)
	defer node.Close()

	c := newTestClient(node)

	first, err := c.Store(context.Background(), artifact.URL, ports.ContentMetadata{})
	assert.NoError(t, err)
	second, err := c.Store(context.Background(), artifact.URL, ports.ContentMetadata{})
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestClient_Store_FetchFails(t *testing.T) {
	artifact := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer artifact.Close()
	node := fakeNode(t)
	defer node.Close()

	c := newTestClient(node)

	_, err := c.Store(context.Background(), artifact.URL, ports.ContentMetadata{})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestClient_Store_NodeUnavailable(t *testing.T) {
	artifact := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer artifact.Close()
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer node.Close()

	c := newTestClient(node)

	_, err := c.Store(context.Background(), artifact.URL, ports.ContentMetadata{})
	assert.ErrorIs(t, err, domain.ErrContentStoreUnavailable)
}

func TestClient_Store_CIDMismatch(t *testing.T) {
	artifact := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer artifact.Close()
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		other, err := cidV1RawSHA256([]byte("different-bytes"))
		assert.NoError(t, err)
		json.NewEncoder(w).Encode(map[string]string{"Hash": other.String()})
	}))
	defer node.Close()

	c := newTestClient(node)

	_, err := c.Store(context.Background(), artifact.URL, ports.ContentMetadata{})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}
