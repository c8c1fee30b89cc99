package main

import (
	"net/http"

	"github.com/KaranGhugal/STM/internal/middleware"
	"github.com/KaranGhugal/STM/internal/services"
	"github.com/KaranGhugal/STM/internal/worker"

	"github.com/labstack/echo/v4"
)

// getNotificationsHandler returns the caller's pending tasks due within
// the reminder window.
func getNotificationsHandler(taskSvc *services.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		tasks, err := taskSvc.ListDueSoon(c.Request().Context(), claims.UserID, worker.DueWindow)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, tasks)
	}
}

// scheduleRemindersHandler runs an immediate reminder pass over the
// caller's due-soon tasks.
func scheduleRemindersHandler(reminder *worker.Reminder) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		sent, err := reminder.RemindOwner(c.Request().Context(), claims.UserID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Reminders scheduled successfully", "sent": sent})
	}
}

func registerNotificationRoutes(g *echo.Group, taskSvc *services.TaskService, reminder *worker.Reminder, tokens *middleware.TokenService) {
	n := g.Group("/notifications")
	n.Use(middleware.Auth(tokens))

	n.GET("", getNotificationsHandler(taskSvc))
	n.POST("/schedule", scheduleRemindersHandler(reminder))
}
