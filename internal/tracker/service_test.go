package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"presence-monitor-backend/config"
	"presence-monitor-backend/internal/store"
)

// mockStore is a mock implementation of the store.Store interface.
type mockStore struct {
	ReplaceSnapshotFunc     func(ctx context.Context, zone string, summary store.ZoneSummary, now time.Time) error
	GetSnapshotFunc         func(ctx context.Context, zone string) (store.ZoneSummary, time.Time, error)
	SeedOfflineSnapshotFunc func(ctx context.Context, zone string, now time.Time) error
}

func (m *mockStore) ReplaceSnapshot(ctx context.Context, zone string, summary store.ZoneSummary, now time.Time) error {
	return m.ReplaceSnapshotFunc(ctx, zone, summary, now)
}

func (m *mockStore) GetSnapshot(ctx context.Context, zone string) (store.ZoneSummary, time.Time, error) {
	return m.GetSnapshotFunc(ctx, zone)
}

func (m *mockStore) SeedOfflineSnapshot(ctx context.Context, zone string, now time.Time) error {
	return m.SeedOfflineSnapshotFunc(ctx, zone, now)
}

func (m *mockStore) DB() *gorm.DB { return nil }

func serviceConfig(upstreamURL string) *config.Config {
	return &config.Config{
		Upstream: config.UpstreamConfig{
			BaseURL:     upstreamURL,
			PageSize:    800,
			PageTimeout: 5 * time.Second,
		},
		Tracker: config.TrackerConfig{
			Enabled:      true,
			CycleTimeout: 10 * time.Second,
			Zones: []config.ZoneConfig{
				{ID: "green", InDevices: []string{"gate_in"}, OutDevices: []string{"gate_out"}},
			},
		},
	}
}

func TestRunCycleOnce_WritesComputedSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var events []RawEvent
		if r.URL.Query().Get("pageNo") == "1" {
			events = []RawEvent{event("P1", "gate_in", "2024-01-01 08:00:00")}
		}
		json.NewEncoder(w).Encode(ApiResponse{Data: events})
	}))
	defer server.Close()

	var written *store.ZoneSummary
	ms := &mockStore{
		ReplaceSnapshotFunc: func(ctx context.Context, zone string, summary store.ZoneSummary, now time.Time) error {
			assert.Equal(t, "green", zone)
			written = &summary
			return nil
		},
	}

	svc, err := NewService(serviceConfig(server.URL), ms, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RunCycleOnce(context.Background(), "green"))
	require.NotNil(t, written)
	assert.Equal(t, 1, written.TotalIn)
	assert.Equal(t, 1, written.TotalCurrentInside)
	assert.False(t, written.Offline)
}

func TestRunCycleOnce_OfflineSkipsWrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ms := &mockStore{
		ReplaceSnapshotFunc: func(ctx context.Context, zone string, summary store.ZoneSummary, now time.Time) error {
			t.Fatal("a failed fetch must not write a snapshot")
			return nil
		},
	}

	svc, err := NewService(serviceConfig(server.URL), ms, nil)
	require.NoError(t, err)

	err = svc.RunCycleOnce(context.Background(), "green")
	assert.ErrorIs(t, err, ErrUpstreamOffline)
}

func TestRunCycleOnce_StoreFailureSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ApiResponse{Data: nil})
	}))
	defer server.Close()

	storeErr := errors.New("disk full")
	ms := &mockStore{
		ReplaceSnapshotFunc: func(ctx context.Context, zone string, summary store.ZoneSummary, now time.Time) error {
			return storeErr
		},
	}

	svc, err := NewService(serviceConfig(server.URL), ms, nil)
	require.NoError(t, err)

	err = svc.RunCycleOnce(context.Background(), "green")
	assert.ErrorIs(t, err, storeErr)
}

func TestRunCycleOnce_UnknownZone(t *testing.T) {
	ms := &mockStore{}
	svc, err := NewService(serviceConfig("http://unused"), ms, nil)
	require.NoError(t, err)

	err = svc.RunCycleOnce(context.Background(), "missing")
	assert.Error(t, err)
}
