package websocket

import (
	"github.com/openride/openride/internal/pkg/constants"
	"github.com/openride/openride/internal/pkg/models"
	pkgws "github.com/openride/openride/internal/pkg/websocket"
	"github.com/openride/openride/services/match"
)

// dispatchNotifier delivers matching events to driver personal rooms.
type dispatchNotifier struct {
	manager *pkgws.Manager
}

// NewDispatchNotifier adapts the websocket manager to match.Notifier.
func NewDispatchNotifier(manager *pkgws.Manager) match.Notifier {
	return &dispatchNotifier{manager: manager}
}

// OfferRide sends a ride_request offer to one candidate driver.
func (n *dispatchNotifier) OfferRide(driverID string, offer models.RideOfferEvent) {
	n.manager.NotifyClient(driverID, constants.EventRideRequest, offer)
}

// RideTaken tells a losing candidate to stop showing the request.
func (n *dispatchNotifier) RideTaken(driverID, rideID string) {
	n.manager.NotifyClient(driverID, constants.EventRideTaken, models.RideTakenEvent{RideID: rideID})
}
