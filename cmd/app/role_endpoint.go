package main

import (
	"net/http"
	"strconv"

	"github.com/KaranGhugal/STM/internal/middleware"
	"github.com/KaranGhugal/STM/internal/services"

	"github.com/labstack/echo/v4"
)

type createRoleRequest struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role,omitempty"`
}

type updateRoleRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func myRoleHandler(roleSvc *services.RoleService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		role, err := roleSvc.GetMine(c.Request().Context(), claims.UserID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": role})
	}
}

func listRolesHandler(roleSvc *services.RoleService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		roles, err := roleSvc.List(c.Request().Context(), claims.UserID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "count": len(roles), "data": roles})
	}
}

func createRoleHandler(roleSvc *services.RoleService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(createRoleRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		role, err := roleSvc.Create(c.Request().Context(), claims.UserID, req.UserID, req.Role)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": role})
	}
}

func getRoleHandler(roleSvc *services.RoleService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role id"})
		}
		role, err := roleSvc.Get(c.Request().Context(), claims.UserID, id)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": role})
	}
}

func updateRoleHandler(roleSvc *services.RoleService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role id"})
		}
		req := new(updateRoleRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		role, err := roleSvc.UpdateDetails(c.Request().Context(), claims.UserID, id, req.Name, req.Email)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": role})
	}
}

func deleteRoleHandler(roleSvc *services.RoleService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role id"})
		}
		if err := roleSvc.Delete(c.Request().Context(), claims.UserID, id); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{}})
	}
}

func changeRoleHandler(roleSvc *services.RoleService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		id, err := pathID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role id"})
		}
		req := new(changeRoleRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		role, err := roleSvc.ChangeRole(c.Request().Context(), claims.UserID, id, req.Role)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": role})
	}
}

func registerRoleRoutes(g *echo.Group, roleSvc *services.RoleService, tokens *middleware.TokenService) {
	roles := g.Group("/roles")
	roles.Use(middleware.Auth(tokens))

	roles.GET("/me", myRoleHandler(roleSvc))
	roles.GET("", listRolesHandler(roleSvc))
	roles.POST("", createRoleHandler(roleSvc))
	roles.GET("/:id", getRoleHandler(roleSvc))
	roles.PUT("/:id", updateRoleHandler(roleSvc))
	roles.DELETE("/:id", deleteRoleHandler(roleSvc))
	roles.PATCH("/:id/role", changeRoleHandler(roleSvc))
}
