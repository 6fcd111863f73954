package application

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.Mark(errors.New("invalid credentials"), ErrUnauthorized)
)

type UserService struct {
	Repo       repo.UserRepository
	JWT        *helpers.JWTManager
	GCS        *storage.Client
	GCSBucket  string
	Redis      *redis.Client
	SessionTTL time.Duration
	Logger     *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, rdb *redis.Client, sessionTTL time.Duration, logger *logrus.Logger) *UserService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &UserService{
		Repo:       repo,
		JWT:        jwt,
		GCS:        gcs,
		GCSBucket:  gcsBucket,
		Redis:      rdb,
		SessionTTL: sessionTTL,
		Logger:     logger,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Bio      string
	Location string
}

// Register creates a user with a bcrypt password hash. Emails are unique.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, invalidArgument("missing required fields")
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := &entity.User{
		Name:     name,
		Email:    email,
		Phone:    strings.TrimSpace(in.Phone),
		Password: hash,
		Bio:      strings.TrimSpace(in.Bio),
		Location: strings.TrimSpace(in.Location),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, conflict("email already registered")
		}
		return nil, storeFailure(err, "create user")
	}
	s.logger().WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || u == nil {
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			s.logger().WithError(err).Error("load user by email failed")
		}
		helpers.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		s.logger().WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		s.logger().WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"image_url":  u.ImageURL,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := helpers.SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.SessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.logger().WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the session id and both tokens.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, helpers.SessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, ErrInvalidCredentials
		}
	}
	return s.IssueTokens(ctx, u)
}

// Logout drops the session so outstanding access tokens stop passing the gate.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := s.Redis.Del(ctx, helpers.SessionKey(userID)).Err(); err != nil {
		s.logger().WithError(err).WithField("user_id", userID).Warn("delete session failed")
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupFailure(err, "user not found", "load user")
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name     *string
	Phone    *string
	Bio      *string
	Location *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupFailure(err, "user not found", "load user")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Bio != nil {
		u.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Location != nil {
		u.Location = strings.TrimSpace(*in.Location)
		if u.Location == "" {
			u.Location = entity.DefaultLocation
		}
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, lookupFailure(err, "user not found", "update user")
	}
	s.touchSession(ctx, u)
	return u, nil
}

// UploadImage stores the profile image in GCS when configured and otherwise
// embeds it as a data URI, then saves the reference on the user.
func (s *UserService) UploadImage(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return "", lookupFailure(err, "user not found", "load user")
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "read image")
	}
	if len(body) == 0 {
		return "", invalidArgument("image is empty")
	}
	if !helpers.IsImage(body) {
		return "", invalidArgument("file is not an image")
	}

	var ref string
	if s.GCS != nil && s.GCSBucket != "" {
		ref, err = helpers.UploadProfileImage(ctx, s.GCS, s.GCSBucket, userID, filename, contentType, bytes.NewReader(body))
		if err != nil {
			return "", errors.Wrap(err, "upload image")
		}
	} else {
		ref = helpers.DataURI(filename, body)
	}

	u.ImageURL = ref
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", lookupFailure(err, "user not found", "update user")
	}
	s.touchSession(ctx, u)
	return ref, nil
}

// touchSession refreshes cached profile fields while keeping the session TTL.
func (s *UserService) touchSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := helpers.SessionKey(u.ID)
	n, err := s.Redis.Exists(ctx, key).Result()
	if err != nil || n == 0 {
		return
	}
	if err := s.Redis.HSet(ctx, key, map[string]any{
		"name":       u.Name,
		"image_url":  u.ImageURL,
		"updated_at": nowRFC3339(),
	}).Err(); err != nil {
		s.logger().WithError(err).WithField("key", key).Warn("redis session update failed")
	}
}

func (s *UserService) logger() *logrus.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}
