// Package auth implements the session state container. It authenticates
// against a read-only user directory with an artificial latency that mocks a
// backend round trip, and persists the session across restarts until an
// explicit logout.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-core/internal/catalog"
	"github.com/angelmondragon/storefront-core/internal/storage"
	"github.com/angelmondragon/storefront-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/angelmondragon/storefront-core/pkg/types"
	"github.com/google/uuid"
)

// StorageKey is the blob-store namespace the session persists under.
const StorageKey = "auth-storage"

const (
	invalidCredentialsMessage = "invalid credentials"
	placeholderAvatar         = "/api/placeholder/100/100"
)

// Directory is the read-only user dataset login and registration consult.
type Directory interface {
	FindByEmail(email string) (*catalog.DirectoryUser, bool)
	EmailTaken(email string) bool
}

// Params bundles the dependencies required to build an auth store.
type Params struct {
	Directory Directory
	Storage   storage.Store
	Logger    *logger.Logger
	// Latency is the simulated backend round trip applied to Login and
	// Register. Zero (the test setting) disables the wait.
	Latency time.Duration
}

// Store owns the session state: at most one authenticated user, or none.
type Store struct {
	mu        sync.Mutex
	user      *User
	directory Directory
	storage   storage.Store
	log       *logger.Logger
	latency   time.Duration
}

// New builds an auth store and rehydrates any persisted session. A missing
// or unreadable blob yields an anonymous session, never an error.
func New(ctx context.Context, params Params) (*Store, error) {
	if params.Directory == nil {
		return nil, fmt.Errorf("directory is required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &Store{
		directory: params.Directory,
		storage:   params.Storage,
		log:       params.Logger,
		latency:   params.Latency,
	}
	s.rehydrate(ctx)
	return s, nil
}

func (s *Store) rehydrate(ctx context.Context) {
	ctx = s.log.WithStore(ctx, "auth")

	blob, err := s.storage.Load(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Error(ctx, "loading persisted session failed, starting anonymous", err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		s.log.Error(ctx, "persisted session is unreadable, starting anonymous", err)
		return
	}

	s.user = snap.User
	if s.user != nil {
		s.log.Info(s.log.WithUserID(ctx, s.user.ID), "session rehydrated")
	}
}

// Login matches the directory by exact email and password equality. On a
// match the session is replaced with the sanitized record; on a miss the
// state is untouched and the returned error carries CodeUnauthorized with no
// hint of which credential was wrong.
func (s *Store) Login(ctx context.Context, email, password string) (*User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	record, ok := s.directory.FindByEmail(email)
	if !ok || record.Password != password {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user := sessionUserFromRecord(record)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.persist(ctx)

	s.log.Info(s.log.WithUserID(s.log.WithStore(ctx, "auth"), user.ID), "login succeeded")
	return user.clone(), nil
}

// Register creates a session for a new identity. The identity is NOT written
// back to the directory: after logout it cannot be recovered by Login. That
// asymmetry is inherited from the mocked backend and kept deliberately.
func (s *Store) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	if s.directory.EmailTaken(input.Email) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	user := &User{
		ID:        uuid.NewString(),
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      enums.UserRoleCustomer,
		Avatar:    placeholderAvatar,
		Phone:     input.Phone,
		Orders:    []types.Order{},
	}
	if input.Address != nil {
		user.Address = *input.Address
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.persist(ctx)

	s.log.Info(s.log.WithUserID(s.log.WithStore(ctx, "auth"), user.ID), "registration succeeded")
	return user.clone(), nil
}

// Logout tears the session down. Always succeeds, even when anonymous.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.persist(ctx)
}

// UpdateProfile merges the non-nil fields into the current user.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}

	if update.FirstName != nil {
		s.user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		s.user.LastName = *update.LastName
	}
	if update.Phone != nil {
		s.user.Phone = *update.Phone
	}
	if update.Avatar != nil {
		s.user.Avatar = *update.Avatar
	}
	if update.Address != nil {
		s.user.Address = *update.Address
	}

	s.persist(ctx)
	return s.user.clone(), nil
}

// CurrentUser returns a copy of the session user, or nil when anonymous.
func (s *Store) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.clone()
}

// IsAuthenticated reports whether a session user is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// wait blocks for the configured simulated latency. The store mutex is not
// held, so overlapping calls race to completion in commit order.
func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// persist writes the full snapshot. A failed write is logged and otherwise
// ignored; the in-memory state stays authoritative for the session.
// Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	ctx = s.log.WithStore(ctx, "auth")

	blob, err := json.Marshal(snapshot{User: s.user, IsAuthenticated: s.user != nil})
	if err != nil {
		s.log.Error(ctx, "serializing session state failed", err)
		return
	}
	if err := s.storage.Save(ctx, StorageKey, blob); err != nil {
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "session persistence write failed, in-memory state remains authoritative")
	}
}

func sessionUserFromRecord(record *catalog.DirectoryUser) *User {
	return &User{
		ID:        record.ID,
		Email:     record.Email,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Role:      record.Role,
		Avatar:    record.Avatar,
		Phone:     record.Phone,
		Address:   record.Address,
		Orders:    append([]types.Order(nil), record.Orders...),
	}
}
