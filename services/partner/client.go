package partner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"courtflow/models"
	"courtflow/services/reservation"

	"go.uber.org/zap"
)

// Client talks to the partner facility API. It implements the availability
// source, the confirmed-booking sink and the payment-link sink consumed by
// the reservation workflow.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a partner API client.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

type availabilityResponse struct {
	Slots []models.SlotLike `json:"slots"`
}

type apiError struct {
	Message string `json:"message"`
}

// GetAvailability fetches raw candidate slots for a resource, date and
// duration. The response entries are loosely structured; normalization is
// the resolver's job.
func (c *Client) GetAvailability(ctx context.Context, resourceID, date string, durationMinutes int) ([]models.SlotLike, error) {
	endpoint := fmt.Sprintf("%s/v1/resources/%s/availability?%s",
		c.baseURL, url.PathEscape(resourceID),
		url.Values{
			"date":     {date},
			"duration": {strconv.Itoa(durationMinutes)},
		}.Encode())

	var out availabilityResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}

// CreateBooking submits an immediate booking. A 409 means the slot was taken
// between resolution and submission; that is a normal, user-visible failure.
func (c *Client) CreateBooking(ctx context.Context, req models.ImmediateBookingRequest) (*models.BookingConfirmation, error) {
	var out models.BookingConfirmation
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/v1/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePaymentLink requests a time-boxed shareable payment link.
func (c *Client) CreatePaymentLink(ctx context.Context, req models.PaymentLinkRequest) (*models.PaymentLinkDescriptor, error) {
	var out models.PaymentLinkDescriptor
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/v1/payment-links", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("partner request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode partner response: %w", err)
		}
		return nil
	}

	var apiErr apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(raw)
	}
	c.logger.Warn("partner API error",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.String("message", apiErr.Message))

	if resp.StatusCode == http.StatusConflict {
		return &reservation.ReservationConflictError{
			Err: fmt.Errorf("slot no longer available: %s", apiErr.Message),
		}
	}
	return fmt.Errorf("partner returned %d: %s", resp.StatusCode, apiErr.Message)
}
