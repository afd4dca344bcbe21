package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/jwt"
	"github.com/openride/openride/internal/pkg/models"
	pkgws "github.com/openride/openride/internal/pkg/websocket"
	"github.com/openride/openride/services/drivers"
	driversgw "github.com/openride/openride/services/drivers/gateway"
	driversrepo "github.com/openride/openride/services/drivers/repository"
	driversuc "github.com/openride/openride/services/drivers/usecase"
	matchrepo "github.com/openride/openride/services/match/repository"
	matchuc "github.com/openride/openride/services/match/usecase"
	ridesgw "github.com/openride/openride/services/rides/gateway"
	ridesrepo "github.com/openride/openride/services/rides/repository"
	ridesuc "github.com/openride/openride/services/rides/usecase"
)

// newE2EServer wires the full realtime stack over in-memory repositories
// and exposes it on an httptest listener.
func newE2EServer(t *testing.T) (*httptest.Server, drivers.DriverUC) {
	t.Helper()

	manager := pkgws.NewManager(testJWTConfig)
	rideUC := ridesuc.NewRideUC(ridesrepo.NewMemoryRideRepo(), ridesgw.NewRideGW(nil))
	driverUC := driversuc.NewDriverUC(driversrepo.NewMemoryPresenceRepo(), driversgw.NewDriverGW(nil))
	mUC := matchuc.NewMatchUC(driverUC, matchrepo.NewMemoryCandidateRepo(), NewDispatchNotifier(manager), 5000)
	gateway := NewGateway(manager, rideUC, driverUC, mUC)

	e := echo.New()
	e.HideBanner = true
	e.GET("/ws", gateway.HandleWebSocket)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, driverUC
}

func dialWS(t *testing.T, srv *httptest.Server, userID, role string) *websocket.Conn {
	t.Helper()

	token, err := jwt.GenerateToken(userID, role, testJWTConfig)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Authorization": []string{"Bearer " + token}}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendWS(t *testing.T, conn *websocket.Conn, event string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(models.WSMessage{Event: event, Data: data}))
}

// awaitEvent reads frames until the wanted event arrives, skipping
// interleaved broadcasts from other clients' activity.
func awaitEvent(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))

	for {
		var msg models.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", event, err)
		}
		if msg.Event == event {
			return msg.Data
		}
	}
}

func TestWebSocketEndToEnd_FullRideLifecycle(t *testing.T) {
	srv, _ := newE2EServer(t)

	rider := dialWS(t, srv, "rider-1", models.RoleRider)
	driver := dialWS(t, srv, "driver-1", models.RoleDriver)

	// Driver comes online; the rider hears about it.
	loc := gwPickup.Coordinate()
	sendWS(t, driver, constants.EventDriverStatusChange, models.DriverStatusPayload{IsOnline: true, Location: &loc})

	var statusUpdate models.DriverStatusEvent
	require.NoError(t, json.Unmarshal(awaitEvent(t, rider, constants.EventDriverStatusUpdate), &statusUpdate))
	assert.Equal(t, "driver-1", statusUpdate.DriverID)
	assert.True(t, statusUpdate.IsOnline)

	// Rider requests; both sides hear their half of the dispatch.
	sendWS(t, rider, constants.EventRequestRide, models.RideRequestPayload{
		Pickup:      gwPickup,
		Dropoff:     gwDropoff,
		VehicleType: models.VehicleTypeSedan,
	})

	var created models.RideCreatedEvent
	require.NoError(t, json.Unmarshal(awaitEvent(t, rider, constants.EventRideCreated), &created))
	require.NotEmpty(t, created.RideID)

	var offer models.RideOfferEvent
	require.NoError(t, json.Unmarshal(awaitEvent(t, driver, constants.EventRideRequest), &offer))
	assert.Equal(t, created.RideID, offer.RideID)
	assert.Equal(t, "rider-1", offer.RiderID)
	assert.Greater(t, offer.Fare, int64(0))

	// Driver accepts; the assignment reaches the ride room.
	sendWS(t, driver, constants.EventAcceptRide, models.AcceptRidePayload{RideID: offer.RideID})

	var assigned models.DriverAssignedEvent
	require.NoError(t, json.Unmarshal(awaitEvent(t, rider, constants.EventDriverAssigned), &assigned))
	assert.Equal(t, "driver-1", assigned.DriverID)
	assert.Equal(t, models.RideStatusAccepted, assigned.Status)

	// In-ride chat: the driver hears the rider, not the rider itself.
	sendWS(t, rider, constants.EventSendMessage, models.ChatMessagePayload{RideID: offer.RideID, Message: "where are you?"})

	var chat models.ChatMessageEvent
	require.NoError(t, json.Unmarshal(awaitEvent(t, driver, constants.EventMessageReceived), &chat))
	assert.Equal(t, "rider-1", chat.SenderID)
	assert.Equal(t, "where are you?", chat.Message)

	// Status progression all the way to completed.
	for _, status := range []models.RideStatus{
		models.RideStatusArrived,
		models.RideStatusInProgress,
		models.RideStatusCompleted,
	} {
		sendWS(t, driver, constants.EventUpdateRideStatus, models.RideStatusPayload{RideID: offer.RideID, Status: string(status)})

		var change models.RideStatusChangeEvent
		require.NoError(t, json.Unmarshal(awaitEvent(t, rider, constants.EventRideStatusChange), &change))
		assert.Equal(t, status, change.Status)
	}
}

func TestWebSocketEndToEnd_CancelNotifiesCandidates(t *testing.T) {
	srv, _ := newE2EServer(t)

	rider := dialWS(t, srv, "rider-1", models.RoleRider)
	driver := dialWS(t, srv, "driver-1", models.RoleDriver)

	loc := gwPickup.Coordinate()
	sendWS(t, driver, constants.EventDriverStatusChange, models.DriverStatusPayload{IsOnline: true, Location: &loc})
	awaitEvent(t, rider, constants.EventDriverStatusUpdate)

	sendWS(t, rider, constants.EventRequestRide, models.RideRequestPayload{
		Pickup:      gwPickup,
		Dropoff:     gwDropoff,
		VehicleType: models.VehicleTypeAuto,
	})

	var offer models.RideOfferEvent
	require.NoError(t, json.Unmarshal(awaitEvent(t, driver, constants.EventRideRequest), &offer))

	sendWS(t, rider, constants.EventCancelRide, models.CancelRidePayload{RideID: offer.RideID, Reason: "changed plans"})

	// The rider was in the ride room, so it receives the cancellation; the
	// candidate driver is told the offer is void.
	var cancelled models.RideCancelledEvent
	require.NoError(t, json.Unmarshal(awaitEvent(t, rider, constants.EventRideCancelled), &cancelled))
	assert.Equal(t, "changed plans", cancelled.Reason)

	var taken models.RideTakenEvent
	require.NoError(t, json.Unmarshal(awaitEvent(t, driver, constants.EventRideTaken), &taken))
	assert.Equal(t, offer.RideID, taken.RideID)
}

func TestWebSocketEndToEnd_LosingDriverGetsError(t *testing.T) {
	srv, _ := newE2EServer(t)

	rider := dialWS(t, srv, "rider-1", models.RoleRider)
	winner := dialWS(t, srv, "driver-1", models.RoleDriver)
	loser := dialWS(t, srv, "driver-2", models.RoleDriver)

	loc := gwPickup.Coordinate()
	sendWS(t, winner, constants.EventDriverStatusChange, models.DriverStatusPayload{IsOnline: true, Location: &loc})
	sendWS(t, loser, constants.EventDriverStatusChange, models.DriverStatusPayload{IsOnline: true, Location: &loc})

	// Both drivers must be online before the request goes out.
	awaitEvent(t, rider, constants.EventDriverStatusUpdate)
	awaitEvent(t, rider, constants.EventDriverStatusUpdate)

	sendWS(t, rider, constants.EventRequestRide, models.RideRequestPayload{
		Pickup:      gwPickup,
		Dropoff:     gwDropoff,
		VehicleType: models.VehicleTypeSedan,
	})

	var offer models.RideOfferEvent
	require.NoError(t, json.Unmarshal(awaitEvent(t, winner, constants.EventRideRequest), &offer))
	awaitEvent(t, loser, constants.EventRideRequest)

	sendWS(t, winner, constants.EventAcceptRide, models.AcceptRidePayload{RideID: offer.RideID})
	awaitEvent(t, rider, constants.EventDriverAssigned)

	// The loser accepts too late and gets the unavailable error back.
	sendWS(t, loser, constants.EventAcceptRide, models.AcceptRidePayload{RideID: offer.RideID})

	var wsErr models.WSErrorMessage
	require.NoError(t, json.Unmarshal(awaitEvent(t, loser, constants.EventError), &wsErr))
	assert.Equal(t, constants.ErrorRideUnavailable, wsErr.Code)
}

func TestWebSocketEndToEnd_DisconnectTakesDriverOffline(t *testing.T) {
	srv, driverUC := newE2EServer(t)

	driver := dialWS(t, srv, "driver-1", models.RoleDriver)

	loc := gwPickup.Coordinate()
	sendWS(t, driver, constants.EventDriverStatusChange, models.DriverStatusPayload{IsOnline: true, Location: &loc})

	require.Eventually(t, func() bool {
		nearby, err := driverUC.FindNearby(context.Background(), loc, 5000)
		return err == nil && len(nearby) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, driver.Close())

	require.Eventually(t, func() bool {
		nearby, err := driverUC.FindNearby(context.Background(), loc, 5000)
		return err == nil && len(nearby) == 0
	}, 2*time.Second, 10*time.Millisecond, "disconnect must take the driver out of the directory")
}

func TestWebSocketEndToEnd_HandshakeRejectsBadAuth(t *testing.T) {
	srv, _ := newE2EServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if resp != nil {
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	_, resp, err = websocket.DefaultDialer.Dial(url, http.Header{"Authorization": []string{"Bearer bogus"}})
	require.Error(t, err)
	if resp != nil {
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
