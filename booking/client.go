// Package booking is the restaurant booking collaborator: listing nearby
// venues, listing time slots of a venue and confirming a booking.
package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/logging"
)

// ID is an identifier the upstream API sends either as number or string.
type ID string

// UnmarshalJSON accepts JSON numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Restaurant is a venue returned by NearbyRestaurants.
type Restaurant struct {
	Name   string `json:"name"`
	ID     ID     `json:"id"`
	Image  string `json:"image"`
	URL    string `json:"url"`
	Rating string `json:"rating"`
}

// Slot is a bookable time slot of a venue.
type Slot struct {
	DateTime        string `json:"date_time"`
	SlotID          ID     `json:"slot_id"`
	BookingOptionID ID     `json:"booking_option_id"`
	RestaurantID    int64  `json:"restaurant_id"`
}

// Booking is a checkout request.
type Booking struct {
	RestaurantID    int64  `json:"restaurant_id"`
	SlotID          string `json:"slot_id"`
	BookingOptionID string `json:"booking_option_id,omitempty"`
	Guests          int64  `json:"guests,omitempty"`
}

// Service is the booking collaborator contract.
type Service interface {
	NearbyRestaurants(ctx context.Context) ([]Restaurant, error)
	Slots(ctx context.Context, restaurantID int64) ([]Slot, error)
	Checkout(ctx context.Context, b Booking) error
}

const (
	DefaultSiteURL   = "https://www.zomato.com"
	DefaultAPIURL    = "https://api.zomato.com"
	DefaultCityPage  = "/chennai/trending-this-week"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:132.0) Gecko/20100101 Firefox/132.0"
)

// Options configure the HTTP booking client.
type Options struct {
	SiteURL    string
	APIURL     string
	CityPage   string
	Cookie     string
	CSRFToken  string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client implements Service against the Zomato web endpoints.
type Client struct {
	opts Options
}

// NewClient creates a booking client.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		SiteURL:   DefaultSiteURL,
		APIURL:    DefaultAPIURL,
		CityPage:  DefaultCityPage,
		UserAgent: DefaultUserAgent,
		Timeout:   15 * time.Second,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Client{opts: opts}
}

type pageResponse struct {
	PageData struct {
		Sections struct {
			Entities []struct {
				Name     string `json:"name"`
				ID       ID     `json:"id"`
				ImageURL string `json:"imageUrl"`
				URL      string `json:"url"`
				Rating   struct {
					RatingText string `json:"rating_text"`
				} `json:"rating"`
			} `json:"SECTION_ENTITIES_DATA"`
		} `json:"sections"`
	} `json:"page_data"`
}

// NearbyRestaurants lists the trending venues of the configured city page.
func (c *Client) NearbyRestaurants(ctx context.Context) ([]Restaurant, error) {
	q := url.Values{}
	q.Set("page_url", c.opts.CityPage)
	q.Set("location", "")
	q.Set("isMobile", "0")
	endpoint := c.opts.SiteURL + "/webroutes/getPage?" + q.Encode()

	var page pageResponse
	if err := c.do(ctx, http.MethodGet, endpoint, c.opts.SiteURL+c.opts.CityPage, nil, &page); err != nil {
		return nil, err
	}

	out := make([]Restaurant, 0, len(page.PageData.Sections.Entities))
	for _, e := range page.PageData.Sections.Entities {
		out = append(out, Restaurant{
			Name:   e.Name,
			ID:     e.ID,
			Image:  e.ImageURL,
			URL:    e.URL,
			Rating: e.Rating.RatingText,
		})
	}
	return out, nil
}

type slotsResponse struct {
	SlotsResponse struct {
		Slots []struct {
			DateTime       string `json:"date_time"`
			SlotID         ID     `json:"slot_id"`
			BookingOptions []struct {
				BookingOptionID ID `json:"booking_option_id"`
			} `json:"booking_options"`
		} `json:"slots"`
	} `json:"slots_response"`
}

// Slots lists bookable slots of a venue. The first booking option of every
// slot is used.
func (c *Client) Slots(ctx context.Context, restaurantID int64) ([]Slot, error) {
	endpoint := c.opts.APIURL + "/dining-gw/consumer/web/tr/slots?res_id=" + strconv.FormatInt(restaurantID, 10)

	var resp slotsResponse
	if err := c.do(ctx, http.MethodGet, endpoint, c.opts.SiteURL+"/", nil, &resp); err != nil {
		return nil, err
	}

	out := make([]Slot, 0, len(resp.SlotsResponse.Slots))
	for _, s := range resp.SlotsResponse.Slots {
		slot := Slot{DateTime: s.DateTime, SlotID: s.SlotID, RestaurantID: restaurantID}
		if len(s.BookingOptions) > 0 {
			slot.BookingOptionID = s.BookingOptions[0].BookingOptionID
		}
		out = append(out, slot)
	}
	return out, nil
}

// Checkout confirms a booking.
func (c *Client) Checkout(ctx context.Context, b Booking) error {
	payload := map[string]any{
		"res_id":            strconv.FormatInt(b.RestaurantID, 10),
		"selected_covers":   b.Guests,
		"slot_id":           b.SlotID,
		"booking_option_id": b.BookingOptionID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var ack map[string]any
	if err := c.do(ctx, http.MethodPost, c.opts.APIURL+"/dining-gw/consumer/web/cart/checkout", c.opts.SiteURL+"/", body, &ack); err != nil {
		return err
	}
	c.opts.Logger.Debug("booking.checkout.response", "response", ack)
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint, referer string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrFetch, err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", referer)
	req.Header.Set("Origin", c.opts.SiteURL)
	if c.opts.CSRFToken != "" {
		req.Header.Set("x-zomato-csrft", c.opts.CSRFToken)
	}
	if c.opts.Cookie != "" {
		req.Header.Set("Cookie", c.opts.Cookie)
	}

	start := time.Now()
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrFetch, err)
	}
	defer resp.Body.Close()

	c.opts.Logger.Debug("booking.http", "method", method, "url", endpoint, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", core.ErrFetch, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
