package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/zrcal/zrcal/pkg/locator"
	"github.com/zrcal/zrcal/pkg/retry"
	"github.com/zrcal/zrcal/pkg/schedule"
	zrcaltesting "github.com/zrcal/zrcal/pkg/testing"
	"github.com/zrcal/zrcal/pkg/waste"
)

type fakeStore struct {
	mu      sync.Mutex
	batches []*schedule.Batch
	err     error
}

func (s *fakeStore) ReplaceWindow(_ context.Context, batch *schedule.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, batch)
	return nil
}

func newTestIngestor(t *testing.T, store EventStore, baseURL string) *Ingestor {
	t.Helper()
	ing, err := New(Config{
		Logger:  zrcaltesting.NewLogger(),
		Clock:   clockwork.NewRealClock(),
		Store:   store,
		BaseURL: baseURL,
		Retry:   retry.Config{MaxAttempts: 1, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
	})
	require.NoError(t, err)
	return ing
}

// portalFixture serves year-only era CSVs keyed by URL path.
func portalFixture(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestZrcal_Ingest_New_Validation(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing logger", Config{}, "logger is required"},
		{"missing clock", Config{Logger: zrcaltesting.NewLogger()}, "clock is required"},
		{"missing store", Config{Logger: zrcaltesting.NewLogger(), Clock: clockwork.NewRealClock()}, "event store is required"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ing, err := New(tc.cfg)
			require.Error(t, err)
			require.Nil(t, ing)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestZrcal_Ingest_Run_StoresParsedBatch(t *testing.T) {
	t.Parallel()

	srv := portalFixture(t, map[string]string{
		"/dataset/erz_entsorgungskalender_papier/download/entsorgungskalender_papier_2024.csv": "PLZ,Abholdatum\n8001,2024-01-10\n8002,2024-01-03\n",
	})
	store := &fakeStore{}
	ing := newTestIngestor(t, store, srv.URL)

	results := ing.Run(context.Background(), []waste.Type{waste.Papier}, 2024)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Equal(t, waste.Papier, results[0].Type)
	require.Equal(t, 2, results[0].Events)
	require.Zero(t, results[0].SkippedRows)

	require.Len(t, store.batches, 1)
	batch := store.batches[0]
	require.Equal(t, waste.Papier, batch.Type)
	require.Len(t, batch.Events, 2)
	require.Equal(t, time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), batch.Earliest)
	require.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), batch.Latest)
}

func TestZrcal_Ingest_Run_IsolatesFailuresPerType(t *testing.T) {
	t.Parallel()

	t.Run("unknown type does not stop the rest", func(t *testing.T) {
		t.Parallel()
		srv := portalFixture(t, map[string]string{
			"/dataset/erz_entsorgungskalender_papier/download/entsorgungskalender_papier_2024.csv": "PLZ,Abholdatum\n8001,2024-01-10\n",
		})
		store := &fakeStore{}
		ing := newTestIngestor(t, store, srv.URL)

		results := ing.Run(context.Background(), []waste.Type{waste.Type("bogus"), waste.Papier}, 2024)
		require.Len(t, results, 2)

		var uerr *locator.UnknownTypeError
		require.ErrorAs(t, results[0].Err, &uerr)
		require.Equal(t, waste.Type("bogus"), uerr.Type)

		require.NoError(t, results[1].Err)
		require.Equal(t, 1, results[1].Events)
		require.Len(t, store.batches, 1)
	})

	t.Run("transport error does not stop the rest", func(t *testing.T) {
		t.Parallel()
		// Only kehricht is served; papier 404s.
		srv := portalFixture(t, map[string]string{
			"/dataset/erz_entsorgungskalender_kehricht/download/entsorgungskalender_kehricht_2024.csv": "PLZ,Abholdatum\n8001,2024-01-17\n",
		})
		store := &fakeStore{}
		ing := newTestIngestor(t, store, srv.URL)

		results := ing.Run(context.Background(), []waste.Type{waste.Papier, waste.Kehricht}, 2024)
		require.Len(t, results, 2)
		require.Error(t, results[0].Err)
		require.Contains(t, results[0].Err.Error(), "status 404")
		require.NoError(t, results[1].Err)
		require.Len(t, store.batches, 1)
		require.Equal(t, waste.Kehricht, store.batches[0].Type)
	})
}

func TestZrcal_Ingest_Run_ReportsStoreFailure(t *testing.T) {
	t.Parallel()

	srv := portalFixture(t, map[string]string{
		"/dataset/erz_entsorgungskalender_papier/download/entsorgungskalender_papier_2024.csv": "PLZ,Abholdatum\n8001,2024-01-10\n",
	})
	store := &fakeStore{err: errors.New("pool exhausted")}
	ing := newTestIngestor(t, store, srv.URL)

	results := ing.Run(context.Background(), []waste.Type{waste.Papier}, 2024)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	require.Contains(t, results[0].Err.Error(), "failed to store batch")
}

func TestZrcal_Ingest_IngestRows(t *testing.T) {
	t.Parallel()

	t.Run("parses and stores without network", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		ing := newTestIngestor(t, store, "")

		res := ing.IngestRows(context.Background(), waste.ETram, "file://fixture.csv", [][]string{
			{"PLZ", "Standort", "Abholdatum"},
			{"8004", "Helvetiaplatz", "Mi, 3. Januar 2024"},
		})
		require.NoError(t, res.Err)
		require.Equal(t, 1, res.Events)
		require.Len(t, store.batches, 1)
		require.Equal(t, "Helvetiaplatz", store.batches[0].Events[0].Location)
	})

	t.Run("surfaces layout errors", func(t *testing.T) {
		t.Parallel()
		store := &fakeStore{}
		ing := newTestIngestor(t, store, "")

		res := ing.IngestRows(context.Background(), waste.Papier, "file://fixture.csv", [][]string{
			{"a", "b", "c", "d"},
		})
		var lerr *schedule.LayoutError
		require.ErrorAs(t, res.Err, &lerr)
		require.Empty(t, store.batches)
	})
}

func TestZrcal_Ingest_DefaultYear(t *testing.T) {
	t.Parallel()

	mkIngestor := func(now time.Time) *Ingestor {
		ing, err := New(Config{
			Logger: zrcaltesting.NewLogger(),
			Clock:  clockwork.NewFakeClockAt(now),
			Store:  &fakeStore{},
		})
		require.NoError(t, err)
		return ing
	}

	// Mid-year the current year is loaded.
	ing := mkIngestor(time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC))
	require.Equal(t, 2024, ing.DefaultYear())

	// From November on the lookahead crosses into next year.
	ing = mkIngestor(time.Date(2024, time.November, 5, 12, 0, 0, 0, time.UTC))
	require.Equal(t, 2025, ing.DefaultYear())
}
