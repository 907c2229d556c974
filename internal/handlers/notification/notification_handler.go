// internal/handlers/notification/notification_handler.go
package notification

import (
	"net/http"

	"wecamp-service/internal/pkg/response"
	service "wecamp-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// Counts returns the admin dashboard badges.
func (h *NotificationHandler) Counts(c *gin.Context) error {
	counts, err := h.notificationService.Counts(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "notification counts retrieved", counts)
	return nil
}
