package main

import (
	"net/http"
	"time"

	"github.com/KaranGhugal/STM/internal/middleware"
	"github.com/KaranGhugal/STM/internal/services"

	"github.com/labstack/echo/v4"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority,omitempty"`
	Status      string  `json:"status,omitempty"`
	DueDate     string  `json:"dueDate"` // RFC 3339
	SharedWith  []int64 `json:"sharedWith,omitempty"`
}

type updateTaskRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	Status      *string  `json:"status,omitempty"`
	DueDate     *string  `json:"dueDate,omitempty"`
	SharedWith  *[]int64 `json:"sharedWith,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type shareTaskRequest struct {
	SharedWith int64 `json:"sharedWith"`
}

func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func listTasksHandler(taskSvc *services.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		tasks, err := taskSvc.List(c.Request().Context(), claims.UserID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"count": len(tasks), "tasks": tasks})
	}
}

func getTaskHandler(taskSvc *services.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
		}
		task, err := taskSvc.Get(c.Request().Context(), id, claims.UserID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

func createTaskHandler(taskSvc *services.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(createTaskRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid due date required"})
		}

		task, err := taskSvc.Create(c.Request().Context(), claims.UserID, services.CreateTaskInput{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Priority:    req.Priority,
			Status:      req.Status,
			DueDate:     due,
			SharedWith:  req.SharedWith,
		})
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"message": "Task created successfully", "task": task})
	}
}

func updateTaskHandler(taskSvc *services.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
		}
		req := new(updateTaskRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		patch := services.UpdateTaskPatch{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Priority:    req.Priority,
			Status:      req.Status,
			SharedWith:  req.SharedWith,
		}
		if req.DueDate != nil {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid due date required"})
			}
			patch.DueDate = &due
		}

		task, err := taskSvc.Update(c.Request().Context(), id, claims.UserID, patch)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Task updated successfully", "task": task})
	}
}

func updateTaskStatusHandler(taskSvc *services.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
		}
		req := new(updateStatusRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		task, err := taskSvc.UpdateStatus(c.Request().Context(), id, claims.UserID, req.Status)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Task status updated successfully", "task": task})
	}
}

func deleteTaskHandler(taskSvc *services.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
		}
		if err := taskSvc.Delete(c.Request().Context(), id, claims.UserID); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Task permanently deleted", "id": id})
	}
}

func shareTaskHandler(taskSvc *services.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
		}
		req := new(shareTaskRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		task, err := taskSvc.Share(c.Request().Context(), id, claims.UserID, req.SharedWith)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message":    "Task shared successfully",
			"shareCount": len(task.SharedWith),
			"task":       task,
		})
	}
}

func listTasksByCategoryHandler(taskSvc *services.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		category := c.Param("category")
		tasks, err := taskSvc.ListByCategory(c.Request().Context(), claims.UserID, category)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"category": category, "count": len(tasks), "tasks": tasks})
	}
}

func registerTaskRoutes(g *echo.Group, taskSvc *services.TaskService, tokens *middleware.TokenService) {
	tasks := g.Group("/tasks")
	tasks.Use(middleware.Auth(tokens))

	tasks.GET("", listTasksHandler(taskSvc))
	tasks.POST("", createTaskHandler(taskSvc))
	tasks.GET("/category/:category", listTasksByCategoryHandler(taskSvc))
	tasks.GET("/:id", getTaskHandler(taskSvc))
	tasks.PUT("/:id", updateTaskHandler(taskSvc))
	tasks.DELETE("/:id", deleteTaskHandler(taskSvc))
	tasks.PATCH("/:id/status", updateTaskStatusHandler(taskSvc))
	tasks.PATCH("/:id/share", shareTaskHandler(taskSvc))
}
