package main

import (
	"errors"
	"net/http"

	"github.com/KaranGhugal/STM/internal/apperr"
	"github.com/KaranGhugal/STM/internal/middleware"
	"github.com/KaranGhugal/STM/internal/services"
	"github.com/KaranGhugal/STM/internal/uploads"

	"github.com/labstack/echo/v4"
)

// jsonError maps a service error onto the {error: message} envelope with
// the status of its kind.
func jsonError(c echo.Context, err error) error {
	return c.JSON(apperr.Status(err), echo.Map{"error": apperr.Message(err)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

// savePhotoIfPresent stores an optional multipart photo and returns its
// URL path, or "" when the form has no photo.
func savePhotoIfPresent(c echo.Context, photos *uploads.Store) (string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", apperr.E(apperr.ErrInvalidArgument, "file upload error")
	}
	path, err := photos.SavePhoto(file)
	if err != nil {
		return "", apperr.E(apperr.ErrInvalidArgument, err.Error())
	}
	return path, nil
}

// registerHandler handles multipart registration with an optional
// profile photo.
func registerHandler(userSvc *services.UserService, photos *uploads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		photo, err := savePhotoIfPresent(c, photos)
		if err != nil {
			return jsonError(c, err)
		}

		in := services.RegisterInput{
			Name:            c.FormValue("name"),
			Email:           c.FormValue("email"),
			Phone:           c.FormValue("phone"),
			Password:        c.FormValue("password"),
			ConfirmPassword: c.FormValue("confirmPassword"),
			Photo:           photo,
		}
		if _, err := userSvc.Register(c.Request().Context(), in); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusCreated, echo.Map{
			"message": "Registration successful. Please verify your email.",
		})
	}
}

func verifyEmailHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Param("token")
		if token == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
		}
		if err := userSvc.VerifyEmail(c.Request().Context(), token); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Email verified successfully"})
	}
}

func resendVerificationHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(emailRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := userSvc.ResendVerification(c.Request().Context(), req.Email); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Verification email resent successfully"})
	}
}

func loginHandler(userSvc *services.UserService, tokens *middleware.TokenService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}

		user, role, err := userSvc.Login(
			c.Request().Context(),
			req.Email,
			req.Password,
			c.RealIP(),
			c.Request().UserAgent(),
		)
		if err != nil {
			return jsonError(c, err)
		}

		token, err := tokens.Generate(user.UserID, role.Role)
		if err != nil {
			return jsonError(c, err)
		}

		return c.JSON(http.StatusOK, echo.Map{
			"token": token,
			"user":  user,
			"role":  role,
		})
	}
}

func forgotPasswordHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(emailRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := userSvc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Password reset email sent successfully"})
	}
}

func resetPasswordHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(resetPasswordRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := userSvc.ResetPassword(c.Request().Context(), c.Param("token"), req.Password, req.ConfirmPassword); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
	}
}

func listUsersHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := userSvc.ListUsers(c.Request().Context())
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, users)
	}
}

func getProfileHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		user, err := userSvc.GetProfile(c.Request().Context(), claims.UserID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}

// updateProfileHandler accepts multipart form fields plus an optional
// replacement photo.
func updateProfileHandler(userSvc *services.UserService, photos *uploads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)

		photo, err := savePhotoIfPresent(c, photos)
		if err != nil {
			return jsonError(c, err)
		}

		in := services.UpdateProfileInput{
			Name:            c.FormValue("name"),
			Email:           c.FormValue("email"),
			Phone:           c.FormValue("phone"),
			CurrentPassword: c.FormValue("currentPassword"),
			Password:        c.FormValue("password"),
			ConfirmPassword: c.FormValue("confirmPassword"),
			Photo:           photo,
		}
		user, err := userSvc.UpdateProfile(c.Request().Context(), claims.UserID, in)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}

func deleteAccountHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(deleteAccountRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
		}
		if err := userSvc.DeleteAccount(c.Request().Context(), claims.UserID, req.Password); err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "User account deleted successfully"})
	}
}

func loginHistoryHandler(userSvc *services.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		entries, err := userSvc.LoginHistory(c.Request().Context(), claims.UserID)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, entries)
	}
}

func registerUserRoutes(g *echo.Group, userSvc *services.UserService, tokens *middleware.TokenService, photos *uploads.Store) {
	users := g.Group("/users")

	// public
	users.POST("/register", registerHandler(userSvc, photos))
	users.GET("/verify-email/:token", verifyEmailHandler(userSvc))
	users.POST("/resend-verification", resendVerificationHandler(userSvc))
	users.POST("/login", loginHandler(userSvc, tokens))
	users.POST("/forgot-password", forgotPasswordHandler(userSvc))
	users.POST("/reset-password/:token", resetPasswordHandler(userSvc))

	// authenticated
	protected := users.Group("")
	protected.Use(middleware.Auth(tokens))
	protected.GET("", listUsersHandler(userSvc))
	protected.GET("/profile", getProfileHandler(userSvc))
	protected.GET("/login-history", loginHistoryHandler(userSvc))
	protected.PUT("/profile", updateProfileHandler(userSvc, photos))
	protected.DELETE("/profile", deleteAccountHandler(userSvc))
}
