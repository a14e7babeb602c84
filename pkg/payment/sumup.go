package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.sumup.com"

var (
	// ErrDuplicateReference means the gateway already holds a checkout for
	// this reference: another caller got there first, recover via
	// FindCheckoutByReference instead of retrying the create.
	ErrDuplicateReference = errors.New("payment: checkout reference already in use")
	ErrCheckoutNotFound   = errors.New("payment: checkout not found")
)

type CheckoutParams struct {
	Reference    string  `json:"checkout_reference"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	MerchantCode string  `json:"merchant_code,omitempty"`
	Description  string  `json:"description,omitempty"`
	ReturnURL    string  `json:"return_url,omitempty"`
}

type Checkout struct {
	ID        string  `json:"id"`
	Reference string  `json:"checkout_reference"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	HostedURL string  `json:"hosted_checkout_url,omitempty"`
}

type Config struct {
	APIKey       string
	MerchantCode string
	BaseURL      string        // defaults to the SumUp production API
	Timeout      time.Duration // per-request bound, defaults to 15s
}

type SumUpService struct {
	apiKey       string
	merchantCode string
	baseURL      string
	client       *http.Client
	logger       *zap.Logger
}

func NewSumUpService(cfg Config, logger *zap.Logger) *SumUpService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &SumUpService{
		apiKey:       cfg.APIKey,
		merchantCode: cfg.MerchantCode,
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       client,
		logger:       logger,
	}
}

// CreateCheckout opens a hosted checkout for the given reference. The
// reference acts as the idempotency key on the gateway side; a rejected
// duplicate surfaces as ErrDuplicateReference.
func (s *SumUpService) CreateCheckout(ctx context.Context, params CheckoutParams) (*Checkout, error) {
	if params.MerchantCode == "" {
		params.MerchantCode = s.merchantCode
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("sumup: failed to encode checkout params: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, "/v0.1/checkouts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		s.logger.Info("sumup rejected duplicate checkout reference",
			zap.String("reference", params.Reference))
		return nil, ErrDuplicateReference
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		if isDuplicateBody(text) {
			s.logger.Info("sumup rejected duplicate checkout reference",
				zap.String("reference", params.Reference))
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("sumup: create checkout failed: %d %s", resp.StatusCode, text)
	}

	var checkout Checkout
	if err := json.NewDecoder(resp.Body).Decode(&checkout); err != nil {
		return nil, fmt.Errorf("sumup: failed to decode checkout: %w", err)
	}
	return &checkout, nil
}

func (s *SumUpService) GetCheckout(ctx context.Context, checkoutID string) (*Checkout, error) {
	resp, err := s.do(ctx, http.MethodGet, "/v0.1/checkouts/"+url.PathEscape(checkoutID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCheckoutNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sumup: get checkout failed: %d %s", resp.StatusCode, text)
	}

	var checkout Checkout
	if err := json.NewDecoder(resp.Body).Decode(&checkout); err != nil {
		return nil, fmt.Errorf("sumup: failed to decode checkout: %w", err)
	}
	return &checkout, nil
}

// FindCheckoutByReference is the recovery path after a duplicate-reference
// rejection: it looks up the checkout another caller (or a crashed earlier
// attempt) already created for this reference.
func (s *SumUpService) FindCheckoutByReference(ctx context.Context, reference string) (*Checkout, error) {
	path := "/v0.1/checkouts?checkout_reference=" + url.QueryEscape(reference)
	resp, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sumup: find checkout by reference failed: %d %s", resp.StatusCode, text)
	}

	var checkouts []Checkout
	if err := json.NewDecoder(resp.Body).Decode(&checkouts); err != nil {
		return nil, fmt.Errorf("sumup: failed to decode checkout list: %w", err)
	}
	if len(checkouts) == 0 {
		return nil, ErrCheckoutNotFound
	}
	return &checkouts[0], nil
}

func (s *SumUpService) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("sumup: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sumup: request failed: %w", err)
	}
	return resp, nil
}

func isDuplicateBody(body []byte) bool {
	return bytes.Contains(bytes.ToUpper(body), []byte("DUPLICATED_CHECKOUT"))
}
