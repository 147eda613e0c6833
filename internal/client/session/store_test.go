package session

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/greed/internal/client/client"
	"github.com/dmitrijs2005/greed/internal/client/models"
	"github.com/dmitrijs2005/greed/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, logging.NewDiscardLogger()), db
}

func putRaw(t *testing.T, db *sql.DB, key string, value []byte) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO metadata(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	require.NoError(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	user := &models.User{ID: 1, Email: "p1@greed.gg", Name: "Player One", FirstLogin: true}

	require.NoError(t, s.Save(ctx, "t1", user))

	tok, ok := s.GetToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "t1", tok)

	got, ok := s.GetUser(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)

	id, ok := s.GetUserID(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	sess, ok := s.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, &models.Session{Token: "t1", User: user}, sess)
}

func TestSave_TokenIsStoredVerbatim(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, " t1\n", &models.User{ID: 1}))

	tok, ok := s.GetToken(ctx)
	require.True(t, ok)
	assert.Equal(t, " t1\n", tok)

	sess, ok := s.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, " t1\n", sess.Token)
}

func TestSave_StoresUserAsJSON(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "t1", &models.User{ID: 3, Email: "e", Name: "n"}))

	var raw []byte
	require.NoError(t, db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, UserKey).Scan(&raw))
	assert.JSONEq(t, `{"id":3,"email":"e","name":"n","first_login":false}`, string(raw))
}

func TestSave_OverwritesPreviousSession(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "t1", &models.User{ID: 1}))
	require.NoError(t, s.Save(ctx, "t2", &models.User{ID: 2}))

	sess, ok := s.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "t2", sess.Token)
	assert.Equal(t, int64(2), sess.User.ID)
}

func TestSave_RejectsIncompleteSession(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.Save(ctx, "", &models.User{ID: 1}), ErrIncompleteSession)
	require.ErrorIs(t, s.Save(ctx, "   ", &models.User{ID: 1}), ErrIncompleteSession)
	require.ErrorIs(t, s.Save(ctx, "t1", nil), ErrIncompleteSession)

	_, ok := s.GetToken(ctx)
	assert.False(t, ok, "nothing must be written for a rejected session")
}

func TestClear_RemovesBothEntries(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "t1", &models.User{ID: 1}))
	require.NoError(t, s.Clear(ctx))

	_, ok := s.GetToken(ctx)
	assert.False(t, ok)
	_, ok = s.GetUser(ctx)
	assert.False(t, ok)
	_, ok = s.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, s.Clear(ctx), "clearing an empty store is fine")
}

func TestGetters_EmptyStore(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	tok, ok := s.GetToken(ctx)
	assert.False(t, ok)
	assert.Empty(t, tok)

	u, ok := s.GetUser(ctx)
	assert.False(t, ok)
	assert.Nil(t, u)

	_, ok = s.GetUserID(ctx)
	assert.False(t, ok)
}

func TestGetUser_MalformedJSONIsAbsent(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	for _, raw := range []string{`{not json`, ``, `null`, `"just a string"`} {
		putRaw(t, db, UserKey, []byte(raw))

		u, ok := s.GetUser(ctx)
		assert.False(t, ok, "raw=%q", raw)
		assert.Nil(t, u, "raw=%q", raw)
	}
}

func TestGetUser_MalformedJSONIsLogged(t *testing.T) {
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var buf bytes.Buffer
	s := NewStore(db, logging.NewTextLogger(&buf, 0))
	putRaw(t, db, UserKey, []byte(`{broken`))

	_, ok := s.GetUser(context.Background())
	require.False(t, ok)
	assert.Contains(t, buf.String(), "malformed session")
}

func TestLoad_TokenWithoutUserIsAbsent(t *testing.T) {
	s, db := setupStore(t)
	putRaw(t, db, TokenKey, []byte("orphan"))

	_, ok := s.Load(context.Background())
	assert.False(t, ok)
}

func TestGetUserID_ZeroIDIsAbsent(t *testing.T) {
	s, _ := setupStore(t)
	require.NoError(t, s.Save(context.Background(), "t1", &models.User{ID: 0, Email: "x"}))

	_, ok := s.GetUserID(context.Background())
	assert.False(t, ok)
}

func TestGetters_StorageErrorIsAbsent(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "t1", &models.User{ID: 1}))
	require.NoError(t, db.Close())

	_, ok := s.GetToken(ctx)
	assert.False(t, ok)
	_, ok = s.GetUser(ctx)
	assert.False(t, ok)
}

func TestUpdateUser(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.UpdateUser(ctx, &models.User{ID: 1}), ErrIncompleteSession, "no token stored yet")

	require.NoError(t, s.Save(ctx, "t1", &models.User{ID: 1, FirstLogin: true}))
	require.NoError(t, s.UpdateUser(ctx, &models.User{ID: 1, FirstLogin: false}))

	u, ok := s.GetUser(ctx)
	require.True(t, ok)
	assert.False(t, u.FirstLogin)

	tok, _ := s.GetToken(ctx)
	assert.Equal(t, "t1", tok, "token must be untouched")

	require.ErrorIs(t, s.UpdateUser(ctx, nil), ErrIncompleteSession)
}
