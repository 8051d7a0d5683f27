package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/petshop-next/internal/apiclient"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/noncritical"
	"github.com/petshop-next/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

// SessionEndReason 会话结束原因
type SessionEndReason string

const (
	// SessionLoggedOut 用户显式登出
	SessionLoggedOut SessionEndReason = "logout"
	// SessionExpired 本地检测到令牌过期
	SessionExpired SessionEndReason = "expired"
	// SessionInvalidated 后端返回 401，只作废令牌
	SessionInvalidated SessionEndReason = "invalidated"
)

// AuthStore 认证会话：令牌与用户资料，持久化在加密存储中
type AuthStore struct {
	api    AuthAPI
	secure storage.Store

	opMu sync.Mutex

	mu    sync.RWMutex
	token string
	user  *models.User
	ended []func(SessionEndReason)
	now   func() time.Time
}

// NewAuthStore 创建认证会话
func NewAuthStore(api AuthAPI, secure storage.Store) *AuthStore {
	return &AuthStore{api: api, secure: secure, now: time.Now}
}

// OnSessionEnd 注册会话结束回调，回调按原因决定是否清理关联状态
func (s *AuthStore) OnSessionEnd(fn func(reason SessionEndReason)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.ended = append(s.ended, fn)
	s.mu.Unlock()
}

// Restore 从加密存储恢复会话，过期令牌直接丢弃
func (s *AuthStore) Restore(ctx context.Context) error {
	token, err := s.secure.Get(ctx, constants.StorageKeyAuthToken)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var user models.User
	hasUser, err := storage.GetJSON(ctx, s.secure, constants.StorageKeyAuthUser, &user)
	if err != nil {
		logger.Warnw("auth_restore_user_failed", "error", err)
		hasUser = false
	}

	s.mu.Lock()
	s.token = strings.TrimSpace(token)
	if hasUser {
		s.user = &user
	}
	expired := s.token != "" && tokenExpired(s.token, s.now())
	s.mu.Unlock()

	if expired {
		logger.Infow("auth_restore_token_expired")
		s.endSession(ctx, SessionExpired)
	}
	return nil
}

// Login 登录并持久化会话
func (s *AuthStore) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	resp, err := s.api.Login(ctx, apiclient.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp), nil
}

// Register 注册并持久化会话
func (s *AuthStore) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	resp, err := s.api.Register(ctx, apiclient.RegisterRequest{Email: email, Password: password, Name: strings.TrimSpace(name)})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp), nil
}

func (s *AuthStore) establish(ctx context.Context, resp *apiclient.AuthResponse) *models.User {
	user := resp.User
	s.mu.Lock()
	s.token = strings.TrimSpace(resp.AccessToken)
	s.user = &user
	s.mu.Unlock()

	if err := s.secure.Set(ctx, constants.StorageKeyAuthToken, resp.AccessToken); err != nil {
		noncritical.Report("auth_token_persist", err)
	}
	if err := storage.SetJSON(ctx, s.secure, constants.StorageKeyAuthUser, user); err != nil {
		noncritical.Report("auth_user_persist", err)
	}
	logger.Infow("auth_session_established", "user_id", user.ID)
	out := user
	return &out
}

// RefreshProfile 重新拉取用户资料
func (s *AuthStore) RefreshProfile(ctx context.Context) (*models.User, error) {
	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return nil, apiclient.ErrUnauthorized
	}
	s.user = user
	s.mu.Unlock()
	if err := storage.SetJSON(ctx, s.secure, constants.StorageKeyAuthUser, user); err != nil {
		noncritical.Report("auth_user_persist", err)
	}
	out := *user
	return &out, nil
}

// Logout 显式登出
func (s *AuthStore) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.endSession(ctx, SessionLoggedOut)
	logger.Infow("auth_logout")
}

// Token 当前令牌
func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// InvalidateToken 后端返回 401 时调用，不加操作锁；调用方可能正持有购物车操作锁
func (s *AuthStore) InvalidateToken() {
	s.mu.RLock()
	had := s.token != ""
	s.mu.RUnlock()
	if !had {
		return
	}
	logger.Infow("auth_token_invalidated")
	s.endSession(context.Background(), SessionInvalidated)
}

// User 当前用户资料副本
func (s *AuthStore) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	out := *s.user
	if s.user.Address != nil {
		addr := *s.user.Address
		out.Address = &addr
	}
	return &out
}

// IsAuthenticated 令牌存在且未过期
func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	return token != "" && !tokenExpired(token, s.now())
}

// ExpireIfNeeded 令牌已过期时结束会话，返回是否结束
func (s *AuthStore) ExpireIfNeeded(ctx context.Context) bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" || !tokenExpired(token, s.now()) {
		return false
	}
	logger.Infow("auth_session_expired")
	s.endSession(ctx, SessionExpired)
	return true
}

func (s *AuthStore) endSession(ctx context.Context, reason SessionEndReason) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	hooks := append([]func(SessionEndReason){}, s.ended...)
	s.mu.Unlock()

	if err := s.secure.Delete(ctx, constants.StorageKeyAuthToken); err != nil {
		noncritical.Report("auth_token_delete", err)
	}
	if err := s.secure.Delete(ctx, constants.StorageKeyAuthUser); err != nil {
		noncritical.Report("auth_user_delete", err)
	}
	for _, hook := range hooks {
		hook(reason)
	}
}

// tokenExpired 仅当令牌为带 exp 的 JWT 时判断过期，不校验签名
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
