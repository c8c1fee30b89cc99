package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/KaranGhugal/STM/internal/apperr"
	"github.com/KaranGhugal/STM/internal/model"
	"github.com/KaranGhugal/STM/internal/repository"
	"github.com/KaranGhugal/STM/internal/uploads"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 8

	VerificationTTL  = 24 * time.Hour
	PasswordResetTTL = time.Hour
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

type UserService struct {
	Users     *repository.UserRepository
	Roles     *repository.RoleRepository
	Verify    *repository.EmailVerificationRepository
	Resets    *repository.PasswordResetRepository
	History   *repository.LoginHistoryRepository
	Tasks     *repository.TaskRepository
	Mailer    EmailSender
	Photos    *uploads.Store
	FrontBase string // frontend base URL for redemption links
}

func NewUserService(
	u *repository.UserRepository,
	r *repository.RoleRepository,
	v *repository.EmailVerificationRepository,
	p *repository.PasswordResetRepository,
	h *repository.LoginHistoryRepository,
	t *repository.TaskRepository,
	mailer EmailSender,
	photos *uploads.Store,
	frontBase string,
) *UserService {
	return &UserService{
		Users: u, Roles: r, Verify: v, Resets: p, History: h, Tasks: t,
		Mailer: mailer, Photos: photos, FrontBase: frontBase,
	}
}

// newOpaqueToken returns a 64-char hex token for email links.
func newOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperr.E(apperr.ErrInvalidArgument, "email is required")
	}
	if !emailRegex.MatchString(email) {
		return apperr.E(apperr.ErrInvalidArgument, "invalid email format")
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return apperr.E(apperr.ErrInvalidArgument,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	}
	return nil
}

// RegisterInput carries the multipart registration fields. Photo is the
// already-stored photo URL path, or empty.
type RegisterInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Photo           string
}

func (in *RegisterInput) validate() error {
	if in.Name == "" {
		return apperr.E(apperr.ErrInvalidArgument, "name is required")
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if in.Phone == "" {
		return apperr.E(apperr.ErrInvalidArgument, "phone number is required")
	}
	if !phoneRegex.MatchString(in.Phone) {
		return apperr.E(apperr.ErrInvalidArgument, "invalid phone number format")
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return apperr.E(apperr.ErrInvalidArgument, "passwords do not match")
	}
	return nil
}

// Register creates the user (unverified), its role projection and a
// verification token in one transaction, then emails the verification
// link. On any failure the transaction rolls back and an uploaded photo
// file is removed.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (userID int64, err error) {
	defer func() {
		if err != nil && in.Photo != "" {
			if rmErr := s.Photos.Remove(in.Photo); rmErr != nil {
				log.Printf("register: remove uploaded photo: %v", rmErr)
			}
		}
	}()

	if err := in.validate(); err != nil {
		return 0, err
	}

	exists, err := s.Users.EmailExists(ctx, in.Email)
	if err != nil {
		return 0, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return 0, apperr.E(apperr.ErrConflict, "user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	token, err := newOpaqueToken()
	if err != nil {
		return 0, fmt.Errorf("generate verification token: %w", err)
	}

	tx, err := s.Users.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	userID, err = s.Users.CreateTx(ctx, tx, in.Name, in.Email, in.Phone, string(hash), in.Photo)
	if err != nil {
		// The EmailExists check above can lose a race against a
		// concurrent registration of the same address.
		if repository.IsUniqueViolation(err) {
			return 0, apperr.E(apperr.ErrConflict, "user already exists")
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	if _, err := s.Roles.CreateTx(ctx, tx, userID, in.Name, in.Email, model.RoleUser); err != nil {
		return 0, fmt.Errorf("create role: %w", err)
	}
	if err := s.Verify.CreateTx(ctx, tx, userID, token, time.Now().Add(VerificationTTL)); err != nil {
		return 0, fmt.Errorf("create verification token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/verify-email/%s", s.FrontBase, token)
	if err := s.Mailer.Send(ctx, in.Email, "Verify Your Email Address",
		verificationEmailHTML(in.Name, verifyURL)); err != nil {
		// account exists; the user can ask for a resend
		log.Printf("register: send verification email: %v", err)
	}
	return userID, nil
}

// VerifyEmail redeems a verification token: flips emailVerified exactly
// once, sends the welcome email, and deletes the token (single-use).
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	rec, err := s.Verify.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.E(apperr.ErrInvalidToken, "invalid verification token")
		}
		return fmt.Errorf("lookup verification token: %w", err)
	}
	if time.Now().After(rec.ExpiresAt) {
		if err := s.Verify.Delete(ctx, rec.ID); err != nil {
			log.Printf("verify email: delete stale token: %v", err)
		}
		return apperr.E(apperr.ErrTokenExpired, "verification token expired")
	}

	user, err := s.Users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.E(apperr.ErrNotFound, "user not found")
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.Users.SetEmailVerified(ctx, user.UserID); err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if err := s.Verify.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("delete verification token: %w", err)
	}

	if err := s.Mailer.Send(ctx, user.Email, "Welcome to Task Manager App!",
		welcomeEmailHTML(user.Name, user.Email, user.Phone)); err != nil {
		log.Printf("verify email: send welcome email: %v", err)
	}
	return nil
}

// ResendVerification invalidates all outstanding verification links for
// the user and emails a fresh one.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.E(apperr.ErrNotFound, "user not found with this email")
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.EmailVerified {
		return apperr.E(apperr.ErrConflict, "email is already verified")
	}

	if err := s.Verify.DeleteForUser(ctx, user.UserID); err != nil {
		return fmt.Errorf("invalidate old tokens: %w", err)
	}

	token, err := newOpaqueToken()
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	if err := s.Verify.Create(ctx, user.UserID, token, time.Now().Add(VerificationTTL)); err != nil {
		return fmt.Errorf("create verification token: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/verify-email/%s", s.FrontBase, token)
	return s.Mailer.Send(ctx, user.Email, "Verify Your Email Address",
		verificationEmailHTML(user.Name, verifyURL))
}

// Login authenticates by email and password. The caller distinguishes an
// unknown email (404) from a wrong password (401) per the API contract.
func (s *UserService) Login(ctx context.Context, email, password, ip, userAgent string) (*model.User, *model.Role, error) {
	if email == "" || password == "" {
		return nil, nil, apperr.E(apperr.ErrInvalidArgument, "email and password are required")
	}
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, nil, apperr.E(apperr.ErrNotFound, "user not found with this email ID please try again")
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.EmailVerified {
		return nil, nil, apperr.E(apperr.ErrForbidden, "email not verified")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperr.E(apperr.ErrUnauthenticated, "entered password is incorrect, try again")
	}

	role, err := s.Roles.GetByUserID(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, nil, apperr.E(apperr.ErrNotFound, "role not found for this user")
		}
		return nil, nil, fmt.Errorf("lookup role: %w", err)
	}

	if err := s.History.Record(ctx, user.UserID, ip, userAgent); err != nil {
		// audit failure must not block login
		log.Printf("login: record history: %v", err)
	}

	user.PasswordHash = ""
	return user, role, nil
}

// ForgotPassword issues a fresh single-use reset token (1h TTL) after
// invalidating any outstanding ones, and emails the reset link.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.E(apperr.ErrNotFound, "user not found with this email")
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.Resets.DeleteForUser(ctx, user.UserID); err != nil {
		return fmt.Errorf("invalidate old tokens: %w", err)
	}

	token, err := newOpaqueToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.Resets.Create(ctx, user.UserID, token, time.Now().Add(PasswordResetTTL)); err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.FrontBase, token)
	return s.Mailer.Send(ctx, user.Email, "Password Reset Request",
		passwordResetEmailHTML(user.Name, resetURL))
}

// ResetPassword redeems a reset token and overwrites the password hash.
func (s *UserService) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	if password != confirmPassword {
		return apperr.E(apperr.ErrInvalidArgument, "passwords do not match")
	}

	rec, err := s.Resets.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.E(apperr.ErrInvalidToken, "invalid reset token")
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if time.Now().After(rec.ExpiresAt) {
		if err := s.Resets.Delete(ctx, rec.ID); err != nil {
			log.Printf("reset password: delete stale token: %v", err)
		}
		return apperr.E(apperr.ErrTokenExpired, "reset token expired")
	}

	user, err := s.Users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.E(apperr.ErrNotFound, "user not found")
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.SetPasswordHash(ctx, user.UserID, string(hash)); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return s.Resets.Delete(ctx, rec.ID)
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.Users.List(ctx)
}

// LoginHistory returns the caller's own login audit trail, newest first.
func (s *UserService) LoginHistory(ctx context.Context, userID int64) ([]model.LoginHistoryEntry, error) {
	return s.History.ListForUser(ctx, userID)
}

// UpdateProfileInput carries the optional profile changes. Photo is the
// freshly stored URL path, or empty when the photo is unchanged.
type UpdateProfileInput struct {
	Name            string
	Email           string
	Phone           string
	CurrentPassword string
	Password        string
	ConfirmPassword string
	Photo           string
}

// UpdateProfile applies profile changes to the user row and keeps the
// role projection's name/email in step, inside one transaction. The old
// photo file is removed only after the transaction commits; a fresh one
// is removed when it fails.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (u *model.User, err error) {
	defer func() {
		if err != nil && in.Photo != "" {
			if rmErr := s.Photos.Remove(in.Photo); rmErr != nil {
				log.Printf("update profile: remove uploaded photo: %v", rmErr)
			}
		}
	}()

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperr.E(apperr.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if in.Email != "" && in.Email != user.Email {
		if err := validateEmail(in.Email); err != nil {
			return nil, err
		}
		taken, err := s.Users.EmailExistsOther(ctx, in.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, apperr.E(apperr.ErrConflict, "email already in use")
		}
	}

	hash := user.PasswordHash
	if in.CurrentPassword != "" && in.Password != "" && in.ConfirmPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			return nil, apperr.E(apperr.ErrUnauthenticated, "entered password is incorrect, try again")
		}
		if in.Password != in.ConfirmPassword {
			return nil, apperr.E(apperr.ErrInvalidArgument, "passwords do not match")
		}
		if err := validatePassword(in.Password); err != nil {
			return nil, err
		}
		newHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(newHash)
	}

	name := user.Name
	if in.Name != "" {
		name = in.Name
	}
	email := user.Email
	if in.Email != "" {
		email = in.Email
	}
	phone := user.Phone
	if in.Phone != "" {
		if !phoneRegex.MatchString(in.Phone) {
			return nil, apperr.E(apperr.ErrInvalidArgument, "invalid phone number format")
		}
		phone = in.Phone
	}
	oldPhoto := ""
	photo := user.Photo
	if in.Photo != "" {
		oldPhoto = user.Photo
		photo = in.Photo
	}

	tx, err := s.Users.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.Users.UpdateProfileTx(ctx, tx, userID, name, email, phone, hash, photo); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.E(apperr.ErrConflict, "email already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := s.Roles.SyncDetailsTx(ctx, tx, userID, name, email); err != nil {
		return nil, fmt.Errorf("sync role: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	if oldPhoto != "" && oldPhoto != photo {
		if err := s.Photos.Remove(oldPhoto); err != nil {
			log.Printf("update profile: remove old photo: %v", err)
		}
	}
	return s.GetProfile(ctx, userID)
}

// DeleteAccount removes the user and everything that hangs off it
// (role projection, login history, outstanding tokens, owned tasks and
// share rows) in one transaction, gated on password re-confirmation.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64, password string) error {
	if password == "" {
		return apperr.E(apperr.ErrInvalidArgument, "current password is required")
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperr.E(apperr.ErrNotFound, "user not found")
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return apperr.E(apperr.ErrUnauthenticated, "entered password is incorrect, try again")
	}

	tx, err := s.Users.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.History.DeleteForUserTx(ctx, tx, userID); err != nil {
		return fmt.Errorf("delete login history: %w", err)
	}
	if err := s.Verify.DeleteForUserTx(ctx, tx, userID); err != nil {
		return fmt.Errorf("delete verification tokens: %w", err)
	}
	if err := s.Resets.DeleteForUserTx(ctx, tx, userID); err != nil {
		return fmt.Errorf("delete reset tokens: %w", err)
	}
	if err := s.Tasks.DeleteForOwnerTx(ctx, tx, userID); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if err := s.Roles.DeleteByUserTx(ctx, tx, userID); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if err := s.Users.DeleteTx(ctx, tx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	if user.Photo != "" {
		if err := s.Photos.Remove(user.Photo); err != nil {
			log.Printf("delete account: remove photo: %v", err)
		}
	}
	return nil
}
