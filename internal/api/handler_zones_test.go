package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"presence-monitor-backend/internal/model"
	"presence-monitor-backend/internal/store"
)

func setupZoneRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(&model.ZoneSnapshot{}))

	s := store.NewGormStore(db)
	handler := NewHandler(s, nil, []string{"green", "red"}, "")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/zones", handler.GetZones)
	r.GET("/api/zones/:zone", handler.GetZone)
	return r, s
}

func TestGetZone_ServesStoredSnapshot(t *testing.T) {
	router, s := setupZoneRouter(t)

	summary := store.ZoneSummary{
		TotalIn:            2,
		TotalOut:           1,
		TotalCurrentInside: 1,
		Departments: []store.DepartmentSummary{
			{Department: "IT", InCount: 2, OutCount: 1, CurrentInside: 1, Persons: store.PersonList{Data: []store.PersonDetail{}}},
		},
	}
	require.NoError(t, s.ReplaceSnapshot(context.Background(), "green", summary, time.Now().UTC()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/zones/green", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Last-Modified"))

	var got store.ZoneSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, summary, got)
}

func TestGetZone_UnknownZone(t *testing.T) {
	router, _ := setupZoneRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/zones/nowhere", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"unknown zone"}`, w.Body.String())
}

func TestGetZones_ListsConfiguredZones(t *testing.T) {
	router, s := setupZoneRouter(t)

	require.NoError(t, s.SeedOfflineSnapshot(context.Background(), "green", time.Now().UTC()))
	// "red" has no snapshot yet.

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/zones", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var entries []struct {
		Zone      string     `json:"zone"`
		UpdatedAt *time.Time `json:"updatedAt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "green", entries[0].Zone)
	assert.NotNil(t, entries[0].UpdatedAt)
	assert.Equal(t, "red", entries[1].Zone)
	assert.Nil(t, entries[1].UpdatedAt)
}
