package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"parkrefund/models"
)

// ParkWhizClient queries the booking provider's bookings endpoint.
type ParkWhizClient struct {
	BaseURL    string
	Tokens     *TokenManager
	HTTPClient *http.Client
}

func (c *ParkWhizClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// SearchBookings fetches bookings for a customer email within a date window.
// Empty window bounds are omitted from the query.
func (c *ParkWhizClient) SearchBookings(ctx context.Context, email, startDate, endDate string) ([]models.Booking, error) {
	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("customer_email", email)
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}

	endpoint := fmt.Sprintf("%s/bookings?%s", c.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build bookings request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if IsTimeout(err) {
			return nil, &TimeoutError{Op: "bookings request", Err: err}
		}
		return nil, fmt.Errorf("bookings request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.Tokens.Invalidate(ctx)
		return nil, NewAuthenticationError(fmt.Sprintf("bookings endpoint returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("bookings endpoint returned %d", resp.StatusCode)
	}

	var bookings []models.Booking
	if err := json.NewDecoder(resp.Body).Decode(&bookings); err != nil {
		return nil, fmt.Errorf("decode bookings response: %w", err)
	}
	return bookings, nil
}
