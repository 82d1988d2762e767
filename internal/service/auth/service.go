// Package auth issues guest identities: a nickname is claimed once,
// backed by a user row, and exchanged for a bearer token.
package auth

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cardhall-service/internal/model"
	pkgAuth "cardhall-service/pkg/auth"
	appErr "cardhall-service/pkg/errors"
	"cardhall-service/pkg/utils/random"
)

const nicknameClaimTTL = 24 * time.Hour

type Service struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

// LoginResult is a fresh guest session.
type LoginResult struct {
	UserID   int64     `json:"userId"`
	Nickname string    `json:"nickname"`
	Token    string    `json:"token"`
	ExpireAt time.Time `json:"expireAt"`
}

// GuestLogin claims the nickname and returns a token for it. An
// existing user with the same nickname logs back in; a nickname held
// by another live session is rejected. An empty nickname gets a
// generated guest one.
func (s *Service) GuestLogin(ctx context.Context, nickname string) (*LoginResult, error) {
	if nickname == "" {
		nickname = "guest-" + random.Numeric(6)
	}
	if !validNickname(nickname) {
		return nil, appErr.ErrInvalidNickname
	}

	var user model.User
	err := s.db.WithContext(ctx).Where("nickname = ?", nickname).First(&user).Error
	switch {
	case err == nil:
		if user.Status == model.UserStatusBanned {
			return nil, appErr.ErrUserBanned
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First use of this nickname: claim it in redis so two guests
		// racing for the same name cannot both create it.
		if s.rdb != nil {
			ok, claimErr := s.rdb.SetNX(ctx, "nickname:claim:"+nickname, 1, nicknameClaimTTL).Result()
			if claimErr != nil {
				return nil, claimErr
			}
			if !ok {
				return nil, appErr.ErrNicknameTaken
			}
		}
		user = model.User{Nickname: nickname, Status: model.UserStatusNormal}
		if createErr := s.db.WithContext(ctx).Create(&user).Error; createErr != nil {
			return nil, createErr
		}
	default:
		return nil, err
	}

	token, expireAt, err := pkgAuth.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Token:    token,
		ExpireAt: expireAt,
	}, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func validNickname(nickname string) bool {
	n := utf8.RuneCountInString(nickname)
	return n >= 2 && n <= 16
}
