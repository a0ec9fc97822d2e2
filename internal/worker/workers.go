package worker

import (
	"github.com/spec-kit/gym-access-service/internal/events"
	"github.com/spec-kit/gym-access-service/internal/service"
)

// StartSubscribers registers the event-bus subscribers: notifications, the
// visit recorder and the live-feed broadcaster.
func StartSubscribers(
	dispatcher events.Dispatcher,
	notifications *service.NotificationService,
	visits *service.VisitRecorder,
	broadcasts *service.BroadcastService,
) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if visits != nil {
		visits.RegisterHandlers(dispatcher)
	}
	if broadcasts != nil {
		broadcasts.RegisterHandlers(dispatcher)
	}
}
