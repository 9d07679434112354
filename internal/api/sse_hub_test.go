package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"evodash/domain/species"
	"evodash/internal/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubStreamsPassEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewSSEHub()
	defer hub.Close()

	router := gin.New()
	router.GET("/events", hub.HandleSSE)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	report := &dashboard.PassReport{
		ID:       uuid.New(),
		State:    species.FilterState{Species: "Homo sapiens", Region: species.All, TimeThreshold: 1.5},
		Records:  3,
		Duration: 1500 * time.Microsecond,
		At:       time.Now(),
	}
	hub.PassCompleted(report)

	scanner := bufio.NewScanner(resp.Body)
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := strings.CutPrefix(line, "event:"); ok {
			event = v
		}
		if v, ok := strings.CutPrefix(line, "data:"); ok {
			data = v
			break
		}
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, EventPass, event)

	var got PassEvent
	require.NoError(t, json.Unmarshal([]byte(data), &got))
	assert.Equal(t, report.ID.String(), got.PassID)
	assert.Equal(t, report.State, got.State)
	assert.Equal(t, 3, got.Records)
	assert.InDelta(t, 1.5, got.DurationMS, 1e-9)

	cancel()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewSSEHub()
	defer hub.Close()
	for i := 0; i < 200; i++ {
		hub.Broadcast(PassEvent{PassID: "x"})
	}
	assert.Zero(t, hub.ClientCount())
}
