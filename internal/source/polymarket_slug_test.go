package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardsdesk/oddsbot/internal/domain"
	"github.com/awardsdesk/oddsbot/internal/platform/polymarket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustDenylist(t *testing.T) Denylist {
	t.Helper()
	deny, err := NewDenylist(DefaultDenylistPatterns())
	require.NoError(t, err)
	return deny
}

func TestSlugAdapterQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/events", r.URL.Path)
		require.Equal(t, "best-picture-2026", r.URL.Query().Get("slug"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"id": "evt1",
			"title": "Best Picture 2026",
			"slug": "best-picture-2026",
			"markets": [
				{"id": "m1", "groupItemTitle": "Oppenheimer", "outcomePrices": "[\"0.82\",\"0.18\"]"},
				{"id": "m2", "groupItemTitle": "Barbie", "outcomePrices": "[\"0.04\",\"0.96\"]"},
				{"id": "m3", "groupItemTitle": "Other", "outcomePrices": "[\"0.05\",\"0.95\"]"},
				{"id": "m4", "groupItemTitle": "", "outcomePrices": "[\"0.01\",\"0.99\"]"},
				{"id": "m5", "groupItemTitle": "Poor Things", "outcomePrices": "not json"},
				{"id": "m6", "groupItemTitle": "The Zone of Interest", "outcomePrices": "[\"0\",\"1\"]"}
			]
		}]`))
	}))
	defer srv.Close()

	adapter := NewSlugAdapter(polymarket.NewGammaClient(srv.URL), mustDenylist(t), testLogger())
	assert.Equal(t, domain.SourcePolymarket, adapter.Source())

	quotes, err := adapter.Quotes(context.Background(), domain.Category{
		Source:     domain.SourcePolymarket,
		Identifier: "best-picture-2026",
		Path:       "oscars/best-picture",
	})
	require.NoError(t, err)

	// The placeholder, the unnamed market, the undecodable prices, and the
	// degenerate 0.0 price are all skipped one by one.
	require.Len(t, quotes, 2)
	assert.Equal(t, domain.Quote{Name: "Oppenheimer", Probability: 0.82, Odds: "-456"}, quotes[0])
	assert.Equal(t, domain.Quote{Name: "Barbie", Probability: 0.04, Odds: "+2400"}, quotes[1])
}

func TestSlugAdapterUnknownSlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	adapter := NewSlugAdapter(polymarket.NewGammaClient(srv.URL), mustDenylist(t), testLogger())

	_, err := adapter.Quotes(context.Background(), domain.Category{Identifier: "no-such-event"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSlugAdapterServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := NewSlugAdapter(polymarket.NewGammaClient(srv.URL), mustDenylist(t), testLogger())

	_, err := adapter.Quotes(context.Background(), domain.Category{Identifier: "best-picture-2026"})
	require.Error(t, err)
}
