package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialLive(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req any) WSMessage {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestLiveAnalysis_Analyze(t *testing.T) {
	conn := dialLive(t)

	msg := roundTrip(t, conn, WSRequest{Type: wsAnalyze, Scenario: hikeScenario()})

	require.Equal(t, wsAnalysis, msg.Type, msg.Error)
	raw, err := json.Marshal(msg.Data)
	require.NoError(t, err)
	var got struct {
		Summary struct {
			NetHikeBps int `json:"netHikeBps"`
		} `json:"summary"`
		DailyRates []json.RawMessage `json:"dailyRates"`
		MarketData struct {
			Monthly struct {
				Outrights []json.RawMessage `json:"outrights"`
			} `json:"monthly"`
		} `json:"marketData"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 25, got.Summary.NetHikeBps)
	assert.Empty(t, got.DailyRates)
	assert.Len(t, got.MarketData.Monthly.Outrights, 24)
}

func TestLiveAnalysis_EachMessageIndependent(t *testing.T) {
	conn := dialLive(t)

	first := roundTrip(t, conn, WSRequest{Type: wsAnalyze, Scenario: hikeScenario()})
	second := roundTrip(t, conn, WSRequest{Type: wsAnalyze, Scenario: hikeScenario()})

	assert.Equal(t, first, second)
}

func TestLiveAnalysis_PingAndErrors(t *testing.T) {
	conn := dialLive(t)

	assert.Equal(t, WSMessage{Type: wsPong}, roundTrip(t, conn, WSRequest{Type: wsPing}))

	msg := roundTrip(t, conn, map[string]string{"type": "bogus"})
	assert.Equal(t, wsError, msg.Type)
	assert.Contains(t, msg.Error, "bogus")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	var bad WSMessage
	require.NoError(t, conn.ReadJSON(&bad))
	assert.Equal(t, wsError, bad.Type)

	// The connection survives bad messages.
	assert.Equal(t, wsPong, roundTrip(t, conn, WSRequest{Type: wsPing}).Type)
}
