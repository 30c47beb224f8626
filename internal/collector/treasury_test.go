package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/pkg/config"
	"github.com/quantfolio/advisor/pkg/httputil"
	"github.com/quantfolio/advisor/pkg/logger"
)

const yieldTableHTML = `
<html><body>
<table class="usa-table">
	<thead>
		<tr>
			<th>Date</th><th>1 Mo</th><th>3 Mo</th><th>1 Yr</th><th>2 Yr</th><th>5 Yr</th><th>10 Yr</th><th>30 Yr</th>
		</tr>
	</thead>
	<tbody>
		<tr><td>01/02/2026</td><td>4.40</td><td>4.35</td><td>4.20</td><td>4.15</td><td>4.30</td><td>4.52</td><td>4.80</td></tr>
		<tr><td>01/05/2026</td><td>4.41</td><td>4.36</td><td>4.21</td><td>4.16</td><td>4.31</td><td>4.58</td><td>4.82</td></tr>
		<tr><td>bad-date</td><td>x</td><td>x</td><td>x</td><td>x</td><td>x</td><td>x</td><td>x</td></tr>
	</tbody>
</table>
</body></html>`

func newTreasuryTestClient(baseURL string) *TreasuryClient {
	cfg := &config.Config{
		Treasury: config.TreasuryConfig{BaseURL: baseURL},
	}
	httpClient := httputil.New(cfg, logger.NewNop()).DisableRetry()
	return NewTreasuryClient(cfg, logger.NewNop(), httpClient)
}

func TestFetchTenYearYield(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "daily_treasury_yield_curve" {
			t.Errorf("Expected type=daily_treasury_yield_curve, got %s", got)
		}
		w.Write([]byte(yieldTableHTML))
	}))
	defer server.Close()

	client := newTreasuryTestClient(server.URL)

	obs, err := client.FetchTenYearYield(context.Background())
	if err != nil {
		t.Fatalf("FetchTenYearYield() error = %v", err)
	}

	if obs.Value != 4.58 {
		t.Errorf("Expected latest yield 4.58, got %f", obs.Value)
	}
	if obs.Date.Format("2006-01-02") != "2026-01-05" {
		t.Errorf("Expected latest date 2026-01-05, got %s", obs.Date.Format("2006-01-02"))
	}
}

func TestParseYieldTable_NoTenYearColumn(t *testing.T) {
	html := `<html><body><table class="usa-table">
		<thead><tr><th>Date</th><th>1 Mo</th></tr></thead>
		<tbody><tr><td>01/02/2026</td><td>4.40</td></tr></tbody>
	</table></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Failed to build document: %v", err)
	}

	client := newTreasuryTestClient("http://unused")
	_, err = client.parseYieldTable(doc)
	if err == nil {
		t.Fatal("Expected error for missing 10 Yr column, got nil")
	}
}

func TestParseYieldTable_NoTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><p>maintenance</p></body></html>`))
	if err != nil {
		t.Fatalf("Failed to build document: %v", err)
	}

	client := newTreasuryTestClient("http://unused")
	_, err = client.parseYieldTable(doc)
	if err == nil {
		t.Fatal("Expected error for missing table, got nil")
	}
	if !errors.Is(err, contracts.ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable, got %v", err)
	}
}

func TestParseYieldTable_NoParsableRows(t *testing.T) {
	html := `<html><body><table class="usa-table">
		<thead><tr><th>Date</th><th>10 Yr</th></tr></thead>
		<tbody><tr><td>not-a-date</td><td>oops</td></tr></tbody>
	</table></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Failed to build document: %v", err)
	}

	client := newTreasuryTestClient("http://unused")
	_, err = client.parseYieldTable(doc)
	if err == nil {
		t.Fatal("Expected error for unparsable rows, got nil")
	}
	if !errors.Is(err, contracts.ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable, got %v", err)
	}
}
