package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"klsetracker/internal/quote"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// modules covers every key the normalizer can consume:
// price -> regularMarketPrice, regularMarketPreviousClose
// summaryDetail -> previousClose, dayHigh, dayLow
// financialData -> currentPrice
const modules = "price,summaryDetail,financialData"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=yahoo.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches per-symbol quoteSummary payloads from Yahoo Finance.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// ClientOption is a configuration option for the client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// New creates a new Yahoo Finance client.
func New(options ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Name() string { return "YahooFinance" }

// Quote fetches the quoteSummary payload for one ticker and maps the
// optional price fields. A field or module missing from the response
// leaves the matching Raw field nil; only transport, HTTP status, decode
// and provider-reported failures surface as errors.
func (c *Client) Quote(ctx context.Context, ticker string) (quote.Raw, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(modules))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return quote.Raw{}, err
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return quote.Raw{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return quote.Raw{}, fmt.Errorf("GET %s -> %d: %s", u, resp.StatusCode, string(b))
	}

	var api summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return quote.Raw{}, fmt.Errorf("decode: %w", err)
	}
	if api.QuoteSummary.Error != nil {
		return quote.Raw{}, fmt.Errorf("provider error: code=%q msg=%q",
			api.QuoteSummary.Error.Code, api.QuoteSummary.Error.Description)
	}
	if len(api.QuoteSummary.Result) == 0 {
		return quote.Raw{}, fmt.Errorf("empty quoteSummary result for %s", ticker)
	}

	r := api.QuoteSummary.Result[0]
	var raw quote.Raw
	if r.Price != nil {
		raw.RegularMarketPrice = r.Price.RegularMarketPrice.value()
		raw.RegularMarketPreviousClose = r.Price.RegularMarketPreviousClose.value()
	}
	if r.SummaryDetail != nil {
		raw.PreviousClose = r.SummaryDetail.PreviousClose.value()
		raw.DayHigh = r.SummaryDetail.DayHigh.value()
		raw.DayLow = r.SummaryDetail.DayLow.value()
	}
	if r.FinancialData != nil {
		raw.CurrentPrice = r.FinancialData.CurrentPrice.value()
	}
	return raw, nil
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type summaryResult struct {
	Price *struct {
		RegularMarketPrice         *field `json:"regularMarketPrice"`
		RegularMarketPreviousClose *field `json:"regularMarketPreviousClose"`
	} `json:"price"`
	SummaryDetail *struct {
		PreviousClose *field `json:"previousClose"`
		DayHigh       *field `json:"dayHigh"`
		DayLow        *field `json:"dayLow"`
	} `json:"summaryDetail"`
	FinancialData *struct {
		CurrentPrice *field `json:"currentPrice"`
	} `json:"financialData"`
}

// field is Yahoo's {raw, fmt} wrapper around a numeric value. Empty
// objects ({}) decode with a nil Raw and count as absent.
type field struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (f *field) value() *float64 {
	if f == nil {
		return nil
	}
	return f.Raw
}
