package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/greed/internal/client/models"
	"github.com/dmitrijs2005/greed/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/greed/internal/common"
	"github.com/dmitrijs2005/greed/internal/dbx"
	"github.com/dmitrijs2005/greed/internal/logging"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

var (
	// ErrMalformedSession marks a stored user entry that cannot be decoded.
	// It is logged, never returned by the getters.
	ErrMalformedSession = errors.New("malformed session")

	// ErrIncompleteSession is returned by Save when the token or the user
	// is missing.
	ErrIncompleteSession = errors.New("session requires both token and user")
)

// DB is what the store needs from the database handle. *sql.DB satisfies it.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

type Store struct {
	db     DB
	logger logging.Logger
}

func NewStore(db DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger.With("module", "session_store")}
}

func (s *Store) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// GetToken returns the stored bearer token exactly as it was saved.
func (s *Store) GetToken(ctx context.Context) (string, bool) {
	raw, err := s.repo(s.db).Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "error getting auth token", "error", err)
		}
		return "", false
	}

	if len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

// GetUser returns the stored user record. Malformed JSON counts as absent.
func (s *Store) GetUser(ctx context.Context) (*models.User, bool) {
	raw, err := s.repo(s.db).Get(ctx, UserKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "error getting user data", "error", err)
		}
		return nil, false
	}

	user, err := decodeUser(raw)
	if err != nil {
		s.logger.Warn(ctx, "ignoring stored user", "error", err)
		return nil, false
	}
	return user, true
}

// GetUserID projects GetUser onto the user id. A zero id counts as absent.
func (s *Store) GetUserID(ctx context.Context) (int64, bool) {
	user, ok := s.GetUser(ctx)
	if !ok || user.ID == 0 {
		return 0, false
	}
	return user.ID, true
}

// Load returns the full session when both entries are present.
func (s *Store) Load(ctx context.Context) (*models.Session, bool) {
	token, ok := s.GetToken(ctx)
	if !ok {
		return nil, false
	}
	user, ok := s.GetUser(ctx)
	if !ok {
		s.logger.Warn(ctx, "token present without user, treating session as absent")
		return nil, false
	}
	return &models.Session{Token: token, User: user}, true
}

// Save stores token and user atomically. The token is kept verbatim; a
// blank one is rejected.
func (s *Store) Save(ctx context.Context, token string, user *models.User) error {
	if strings.TrimSpace(token) == "" || user == nil {
		return ErrIncompleteSession
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, UserKey, encoded)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.Debug(ctx, "session saved", "user_id", user.ID)
	return nil
}

// UpdateUser rewrites the stored user record of an existing session.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return ErrIncompleteSession
	}
	if _, ok := s.GetToken(ctx); !ok {
		return ErrIncompleteSession
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.repo(s.db).Set(ctx, UserKey, encoded); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Clear removes both session entries.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo(s.db).Delete(ctx, TokenKey, UserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Debug(ctx, "session cleared")
	return nil
}

func decodeUser(raw []byte) (*models.User, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: empty user entry", ErrMalformedSession)
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	return &user, nil
}
