package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"collectible-mint-service/internal/core/domain"
	"collectible-mint-service/internal/core/services"
	"collectible-mint-service/internal/testutil"
)

type mintRouterFixture struct {
	router     *gin.Engine
	sagas      *testutil.MemorySagaRepo
	provenance *testutil.MockProvenanceRepo
	accounts   *testutil.MockAccountRepo
	generator  *testutil.MockArtifactGenerator
	store      *testutil.MockContentStore
	ledger     *testutil.MockLedgerClient
	accountID  uuid.UUID
}

func setupMintRouter() *mintRouterFixture {
	gin.SetMode(gin.TestMode)

	f := &mintRouterFixture{
		sagas:      testutil.NewMemorySagaRepo(),
		provenance: new(testutil.MockProvenanceRepo),
		accounts:   new(testutil.MockAccountRepo),
		generator:  new(testutil.MockArtifactGenerator),
		store:      new(testutil.MockContentStore),
		ledger:     new(testutil.MockLedgerClient),
		accountID:  uuid.New(),
	}
	f.accounts.On("GetByID", mock.Anything, f.accountID).
		Return(&domain.Account{ID: f.accountID, Email: "user@test.com"}, nil)

	mintSvc := services.NewMintSagaService(f.sagas, f.provenance, f.accounts, f.generator, f.store, f.ledger, services.Policy{
		PaymentLamports: 5000,
		RetryAttempts:   1,
		RetryBackoff:    time.Millisecond,
		ConfirmTimeout:  50 * time.Millisecond,
	})
	accountSvc := services.NewAccountService(f.accounts)
	provenanceSvc := services.NewProvenanceService(f.provenance, f.accounts)

	h := New(accountSvc, mintSvc, provenanceSvc)
	f.router = gin.New()
	api := f.router.Group("/api/v1")
	h.RegisterRoutes(api)

	return f
}

func (f *mintRouterFixture) postMint(t *testing.T, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req, _ := http.NewRequest("POST", "/api/v1/mints", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreateMint_Recorded(t *testing.T) {
	f := setupMintRouter()
	f.generator.On("Generate", mock.Anything, "sunset").
		Return(&domain.GeneratedArtifact{SourceURL: "https://gen.test/prompt/sunset", ProducedAt: time.Now()}, nil)
	f.store.On("Store", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.StoredContent{ID: "bafy-1"}, nil)
	f.ledger.On("Sign", mock.Anything, "bafy-1", uint64(5000)).
		Return(&domain.SignedTransaction{ID: "sig-1", Payload: []byte("signed-tx")}, nil)
	f.ledger.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.ledger.On("AwaitConfirmation", mock.Anything, "sig-1", mock.Anything).
		Return(&domain.TransactionReceipt{TransactionID: "sig-1", Status: domain.TransactionStatusConfirmed}, nil)
	f.provenance.On("Append", mock.Anything, mock.Anything).Return(nil)

	w := f.postMint(t, map[string]string{
		"accountId": f.accountID.String(),
		"prompt":    "sunset",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, string(domain.SagaStateRecorded), resp["status"])
	assert.Equal(t, "bafy-1", resp["contentId"])
	assert.Equal(t, "sig-1", resp["transactionId"])
}

func TestCreateMint_EmptyPrompt(t *testing.T) {
	f := setupMintRouter()

	w := f.postMint(t, map[string]string{
		"accountId": f.accountID.String(),
		"prompt":    "  ",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestCreateMint_ConfirmationPending(t *testing.T) {
	f := setupMintRouter()
	f.generator.On("Generate", mock.Anything, "sunset").
		Return(&domain.GeneratedArtifact{SourceURL: "https://gen.test/prompt/sunset", ProducedAt: time.Now()}, nil)
	f.store.On("Store", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.StoredContent{ID: "bafy-1"}, nil)
	f.ledger.On("Sign", mock.Anything, "bafy-1", uint64(5000)).
		Return(&domain.SignedTransaction{ID: "sig-1", Payload: []byte("signed-tx")}, nil)
	f.ledger.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.ledger.On("AwaitConfirmation", mock.Anything, "sig-1", mock.Anything).
		Return(nil, domain.ErrConfirmationTimeout)

	w := f.postMint(t, map[string]string{
		"accountId": f.accountID.String(),
		"prompt":    "sunset",
	})

	// Paid but unconfirmed must read as pending, never as success or failure.
	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, string(domain.SagaStateAwaitingConfirmation), resp["status"])
	assert.Equal(t, "sig-1", resp["transactionId"])
}

func TestCreateMint_InsufficientFunds(t *testing.T) {
	f := setupMintRouter()
	f.generator.On("Generate", mock.Anything, "sunset").
		Return(&domain.GeneratedArtifact{SourceURL: "https://gen.test/prompt/sunset", ProducedAt: time.Now()}, nil)
	f.store.On("Store", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.StoredContent{ID: "bafy-1"}, nil)
	f.ledger.On("Sign", mock.Anything, "bafy-1", uint64(5000)).
		Return(&domain.SignedTransaction{ID: "sig-1", Payload: []byte("signed-tx")}, nil)
	f.ledger.On("Send", mock.Anything, mock.Anything).
		Return(domain.ErrInsufficientFunds)

	w := f.postMint(t, map[string]string{
		"accountId": f.accountID.String(),
		"prompt":    "sunset",
	})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestGetMint_NotFound(t *testing.T) {
	f := setupMintRouter()

	req, _ := http.NewRequest("GET", "/api/v1/mints/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMint_InvalidID(t *testing.T) {
	f := setupMintRouter()

	req, _ := http.NewRequest("GET", "/api/v1/mints/not-a-uuid", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
