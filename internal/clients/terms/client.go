// Package terms provides a client for the terms service API
package terms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/terms/internal/clients/transport"
	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/interfaces"
	"github.com/bobmcallan/terms/internal/models"
)

// APIVersion is the service API version segment appended to the base URL
const APIVersion = "v1"

// Client implements the TermsClient interface
type Client struct {
	serviceURL string
	transport  interfaces.Transport
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a terms client for the service at baseURL. Requests
// are sent through the supplied transport, which owns auth and rate
// limiting. A trailing slash on baseURL is tolerated: the versioned
// service URL always has exactly one separator per segment.
func NewClient(baseURL string, tr interfaces.Transport, opts ...ClientOption) *Client {
	c := &Client{
		serviceURL: strings.TrimRight(baseURL, "/") + "/" + APIVersion,
		transport:  tr,
		logger:     common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a terms service error. Message carries the
// service's own error text when the response payload provides one.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return e.Message
}

// apiError converts a transport failure into an APIError. The service
// reports errors as {"Message": "..."}; when the payload does not match
// that shape the raw body (or status text) is used instead.
func (c *Client) apiError(err error, endpoint string) error {
	var reqErr *transport.RequestError
	if !errors.As(err, &reqErr) {
		return err
	}

	msg := strings.TrimSpace(string(reqErr.Body))
	var payload struct {
		Message string `json:"Message"`
	}
	if jsonErr := json.Unmarshal(reqErr.Body, &payload); jsonErr == nil && payload.Message != "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = http.StatusText(reqErr.StatusCode)
	}

	return &APIError{
		StatusCode: reqErr.StatusCode,
		Message:    msg,
		Endpoint:   endpoint,
	}
}

// ShowTerms retrieves a terms document by name. Without WithRevision the
// latest revision is returned; WithRevision(0) explicitly requests
// revision zero. A nil result with nil error means the service knows no
// document by that name.
func (c *Client) ShowTerms(ctx context.Context, name string, opts ...interfaces.TermsOption) (*models.Term, error) {
	params := &interfaces.TermsParams{}
	for _, opt := range opts {
		opt(params)
	}

	endpoint := fmt.Sprintf("/terms/%s", name)
	reqURL := c.serviceURL + endpoint
	if params.HasRevision {
		reqURL += "?revision=" + strconv.Itoa(params.Revision)
	}

	c.logger.Debug().Str("name", name).Bool("has_revision", params.HasRevision).Msg("terms lookup")

	data, err := c.transport.SendGetRequest(ctx, reqURL)
	if err != nil {
		return nil, c.apiError(err, endpoint)
	}

	var records []termRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// The service answers unknown names with an empty list
	if len(records) == 0 {
		return nil, nil
	}

	return records[0].toModel(), nil
}

// GetAgreements retrieves all agreements recorded for the
// authenticated user
func (c *Client) GetAgreements(ctx context.Context) ([]*models.Agreement, error) {
	endpoint := "/agreements"
	data, err := c.transport.SendGetRequest(ctx, c.serviceURL+endpoint)
	if err != nil {
		return nil, c.apiError(err, endpoint)
	}

	var records []agreementRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	agreements := make([]*models.Agreement, len(records))
	for i, r := range records {
		agreements[i] = r.toModel()
	}

	return agreements, nil
}

// GetAgreementsByTerms retrieves the authenticated user's agreements
// for the named documents
func (c *Client) GetAgreementsByTerms(ctx context.Context, names []string) ([]*models.Agreement, error) {
	query := url.Values{}
	for _, name := range names {
		query.Add("Terms", name)
	}

	endpoint := "/agreement"
	data, err := c.transport.SendGetRequest(ctx, c.serviceURL+endpoint+"?"+query.Encode())
	if err != nil {
		return nil, c.apiError(err, endpoint)
	}

	var records []agreementRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	agreements := make([]*models.Agreement, len(records))
	for i, r := range records {
		agreements[i] = r.toModel()
	}

	return agreements, nil
}

// SaveAgreement records the authenticated user's agreement to a
// specific revision of a document
func (c *Client) SaveAgreement(ctx context.Context, name string, revision int) (*models.Agreement, error) {
	payload, err := json.Marshal(saveAgreementRequest{
		TermName: name,
		Revision: revision,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := "/agreement"
	data, err := c.transport.SendPostRequest(ctx, c.serviceURL+endpoint, payload)
	if err != nil {
		return nil, c.apiError(err, endpoint)
	}

	var record agreementRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return record.toModel(), nil
}

// PublishTerm publishes content as the next revision of the named
// document and returns the stored term
func (c *Client) PublishTerm(ctx context.Context, name, title, content string) (*models.Term, error) {
	payload, err := json.Marshal(publishTermRequest{
		Name:    name,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := "/terms"
	data, err := c.transport.SendPostRequest(ctx, c.serviceURL+endpoint, payload)
	if err != nil {
		return nil, c.apiError(err, endpoint)
	}

	var record termRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return record.toModel(), nil
}

type termRecord struct {
	Name      string `json:"name"`
	Owner     string `json:"owner,omitempty"`
	Title     string `json:"title"`
	Revision  int    `json:"revision"`
	Content   string `json:"content"`
	CreatedOn string `json:"created-on"`
}

// toModel maps a wire record to the domain model. An absent or
// malformed created-on timestamp maps to the zero time rather than
// failing the whole response.
func (r termRecord) toModel() *models.Term {
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedOn)
	return &models.Term{
		Name:      r.Name,
		Owner:     r.Owner,
		Title:     r.Title,
		Revision:  r.Revision,
		Content:   r.Content,
		CreatedAt: createdAt,
	}
}

type agreementRecord struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Term      string `json:"term"`
	Revision  int    `json:"revision"`
	CreatedOn string `json:"created-on"`
}

func (r agreementRecord) toModel() *models.Agreement {
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedOn)
	return &models.Agreement{
		ID:        r.ID,
		User:      r.User,
		Term:      r.Term,
		Revision:  r.Revision,
		CreatedAt: createdAt,
	}
}

type saveAgreementRequest struct {
	TermName string `json:"termname"`
	Revision int    `json:"revision"`
}

type publishTermRequest struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Ensure Client implements TermsClient
var _ interfaces.TermsClient = (*Client)(nil)
