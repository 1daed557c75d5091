package worker

import (
	"github.com/serenity-care/wellness-api/internal/events"
	"github.com/serenity-care/wellness-api/internal/service"
)

// RegisterSubscribers attaches the in-process event consumers.
func RegisterSubscribers(dispatcher events.Dispatcher, notifications *service.NotificationService, status *service.AccountStatusService) {
	if dispatcher == nil {
		return
	}
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if status != nil {
		dispatcher.Subscribe(events.EventAccountDeactivated, status.HandleAccountDeactivated)
	}
}
