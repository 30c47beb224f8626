package collector

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/pkg/config"
	"github.com/quantfolio/advisor/pkg/httputil"
	"github.com/quantfolio/advisor/pkg/logger"
)

// TreasuryClient scrapes the daily yield curve table published by the
// US Treasury. Only the 10-year column is used (the GS10 risk-free input).
type TreasuryClient struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewTreasuryClient creates a new treasury yield client.
func NewTreasuryClient(cfg *config.Config, log *logger.Logger, httpClient *httputil.Client) *TreasuryClient {
	return &TreasuryClient{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Treasury.BaseURL,
	}
}

// YieldObservation is one dated yield in percent.
type YieldObservation struct {
	Date  time.Time
	Value float64 // percent, 4.5 means 4.5%
}

// FetchTenYearYield scrapes the current year's daily yield curve page and
// returns the most recent 10-year observation.
func (c *TreasuryClient) FetchTenYearYield(ctx context.Context) (YieldObservation, error) {
	year := time.Now().UTC().Year()
	url := fmt.Sprintf(
		"%s/resource-center/data-chart-center/interest-rates/TextView?type=daily_treasury_yield_curve&field_tdr_date_value=%d",
		c.baseURL, year,
	)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return YieldObservation{}, fmt.Errorf("treasury yield page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return YieldObservation{}, fmt.Errorf("treasury yield page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return YieldObservation{}, fmt.Errorf("parse treasury yield page: %w", err)
	}

	return c.parseYieldTable(doc)
}

// parseYieldTable locates the "10 Yr" column by header text and returns
// the last row's value.
func (c *TreasuryClient) parseYieldTable(doc *goquery.Document) (YieldObservation, error) {
	table := doc.Find("table.usa-table").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return YieldObservation{}, fmt.Errorf("treasury yield page: %w", contracts.ErrDataUnavailable)
	}

	tenYearCol := -1
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		if strings.EqualFold(strings.TrimSpace(th.Text()), "10 Yr") {
			tenYearCol = i
		}
	})
	if tenYearCol < 0 {
		return YieldObservation{}, fmt.Errorf("treasury yield table: 10 Yr column not found")
	}

	var latest YieldObservation
	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= tenYearCol {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		date, err := time.Parse("01/02/2006", dateText)
		if err != nil {
			return
		}

		valueText := strings.TrimSpace(cells.Eq(tenYearCol).Text())
		value, err := strconv.ParseFloat(valueText, 64)
		if err != nil {
			return
		}

		if date.After(latest.Date) {
			latest = YieldObservation{Date: date, Value: value}
		}
	})

	if latest.Date.IsZero() {
		return YieldObservation{}, fmt.Errorf("treasury yield table: no parsable rows: %w", contracts.ErrDataUnavailable)
	}

	c.logger.WithFields(map[string]interface{}{
		"date":  latest.Date.Format("2006-01-02"),
		"yield": latest.Value,
	}).Debug("Fetched 10-year treasury yield")

	return latest, nil
}
