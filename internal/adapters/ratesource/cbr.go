package ratesource

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCBRDailyURL is the Bank of Russia daily quotation page.
	DefaultCBRDailyURL = "https://www.cbr.ru/currency_base/daily/"

	defaultTimeout = 10 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/122.0.0.0 Safari/537.36"
)

// Row layout drifts on the source page, so extraction keys off the recognizable
// currency-code cell rather than fixed offsets. A quotation row carries at
// least: numeric code | letter code | units | name | rate.
var (
	tableRowRegex  = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	tableCellRegex = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
)

// CBRClient fetches and parses the daily rate table published by the central
// bank. It is the only place that touches the external source; everything it
// returns is a Quotes value or a typed failure.
type CBRClient struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// CBROption customizes a CBRClient.
type CBROption func(*CBRClient)

// WithURL overrides the daily quotation page URL.
func WithURL(url string) CBROption {
	return func(c *CBRClient) {
		c.url = url
	}
}

// WithTimeout bounds the whole fetch; past it the source counts as unreachable.
func WithTimeout(d time.Duration) CBROption {
	return func(c *CBRClient) {
		c.client.Timeout = d
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(client *http.Client) CBROption {
	return func(c *CBRClient) {
		c.client = client
	}
}

// NewCBRClient creates a CBRClient with sane defaults.
func NewCBRClient(logger *slog.Logger, opts ...CBROption) *CBRClient {
	c := &CBRClient{
		url:    DefaultCBRDailyURL,
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchDaily retrieves the daily page and extracts the quoted-currency rates.
func (c *CBRClient) FetchDaily(ctx context.Context) (Quotes, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Quotes{}, fmt.Errorf("%w: building request: %v", apperrors.ErrSourceUnreachable, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html, */*")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Rate source request failed", slog.String("url", c.url), slog.String("error", err.Error()))
		return Quotes{}, fmt.Errorf("%w: %v", apperrors.ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Rate source returned unexpected status", slog.String("url", c.url), slog.Int("status", resp.StatusCode))
		return Quotes{}, fmt.Errorf("%w: unexpected status %d", apperrors.ErrSourceUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Quotes{}, fmt.Errorf("%w: reading body: %v", apperrors.ErrSourceUnreachable, err)
	}

	quotes, err := parseDailyTable(body, time.Now())
	if err != nil {
		return quotes, err
	}

	c.logger.Info("Fetched daily rates",
		slog.String("url", c.url),
		slog.Int("recovered", len(domain.QuotedCurrencies)-len(quotes.Missing())),
	)
	return quotes, nil
}

// parseDailyTable scans the HTML document for quotation rows and extracts the
// per-unit rate of every supported quoted currency it can find.
func parseDailyTable(body []byte, fetchedAt time.Time) (Quotes, error) {
	quotes := Quotes{FetchedAt: fetchedAt}

	rows := tableRowRegex.FindAllSubmatch(body, -1)
	if len(rows) == 0 {
		return quotes, fmt.Errorf("%w: no table rows found", apperrors.ErrSourceUnparseable)
	}

	for _, row := range rows {
		cells := tableCellRegex.FindAllSubmatch(row[1], -1)
		if len(cells) < 5 {
			continue
		}

		code := domain.CurrencyCode(cellText(cells[1][1]))
		switch code {
		case domain.USD, domain.EUR, domain.BYN:
		default:
			continue
		}

		units, err := decimal.NewFromString(cellText(cells[2][1]))
		if err != nil || units.IsZero() {
			continue
		}
		rate, err := parseRateNumber(cellText(cells[4][1]))
		if err != nil {
			continue
		}

		// Source quotes some currencies per 10/100/10000 units.
		perUnit := rate.Div(units)
		switch code {
		case domain.USD:
			quotes.USD = &perUnit
		case domain.EUR:
			quotes.EUR = &perUnit
		case domain.BYN:
			quotes.BYN = &perUnit
		}
	}

	if quotes.Empty() {
		return quotes, fmt.Errorf("%w: no recognizable currency rows", apperrors.ErrSourceUnparseable)
	}
	if missing := quotes.Missing(); len(missing) > 0 {
		return quotes, fmt.Errorf("%w: missing %v", apperrors.ErrPartialRates, missing)
	}
	return quotes, nil
}

// cellText strips nested markup and whitespace from a table cell.
func cellText(cell []byte) string {
	text := htmlTagRegex.ReplaceAllString(string(cell), "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return strings.TrimSpace(text)
}

// parseRateNumber handles the source's decimal-comma and group-space notation.
func parseRateNumber(text string) (decimal.Decimal, error) {
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, ",", ".")
	return decimal.NewFromString(text)
}
