package identity

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/greed/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, terminal bool, secret []byte, err error) {
	t.Helper()
	origRead, origIs := readSecret, isTerminal
	readSecret = func(int) ([]byte, error) { return secret, err }
	isTerminal = func(int) bool { return terminal }
	t.Cleanup(func() {
		readSecret = origRead
		isTerminal = origIs
	})
}

/*************
 * StaticProvider
 *************/

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(" Apple ", " tok ")
	assert.Equal(t, "apple", p.Name())

	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", cred)
}

func TestStaticProvider_EmptyIsCancelled(t *testing.T) {
	_, err := NewStaticProvider("apple", "").Credential(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
}

func TestStaticProvider_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStaticProvider("apple", "tok").Credential(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, ErrCancelled)
}

func TestStaticProvider_DeadlineIsNotCancellation(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err := NewStaticProvider("apple", "tok").Credential(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, ErrCancelled)
}

func TestPromptProvider_ContextCancelledIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	p := NewPromptProvider("apple", bufio.NewReader(strings.NewReader("tok\n")), &out)

	_, err := p.Credential(ctx)
	require.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, out.String())
}

/*************
 * PromptProvider
 *************/

func TestPromptProvider_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("  id-token  "), nil)
	var out bytes.Buffer
	p := NewPromptProvider("apple", bufio.NewReader(strings.NewReader("")), &out)

	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id-token", cred)
	assert.Contains(t, out.String(), "Paste the apple identity token")
}

func TestPromptProvider_TerminalEmptyIsCancelled(t *testing.T) {
	stubTerminal(t, true, []byte(""), nil)
	p := NewPromptProvider("apple", bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})

	_, err := p.Credential(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
}

func TestPromptProvider_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("tty gone"))
	p := NewPromptProvider("apple", bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})

	_, err := p.Credential(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCancelled)
	assert.Contains(t, err.Error(), "tty gone")
}

func TestPromptProvider_PipedInput(t *testing.T) {
	stubTerminal(t, false, nil, nil)
	p := NewPromptProvider("google", bufio.NewReader(strings.NewReader("piped-token\nrest\n")), &bytes.Buffer{})

	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "piped-token", cred)
}

func TestPromptProvider_PipedWithoutNewline(t *testing.T) {
	stubTerminal(t, false, nil, nil)
	p := NewPromptProvider("google", bufio.NewReader(strings.NewReader("last-token")), &bytes.Buffer{})

	cred, err := p.Credential(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "last-token", cred)
}

func TestPromptProvider_PipedEOFIsCancelled(t *testing.T) {
	stubTerminal(t, false, nil, nil)
	p := NewPromptProvider("google", bufio.NewReader(strings.NewReader("")), &bytes.Buffer{})

	_, err := p.Credential(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
}

/*************
 * redirect
 *************/

func TestParseRedirect(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "deep link query", raw: "greed://auth?token=abc", want: "abc"},
		{name: "https callback", raw: "https://app.greed.gg/cb?state=1&token=xyz", want: "xyz"},
		{name: "fragment", raw: "greed://auth#token=frag", want: "frag"},
		{name: "repeated token takes first", raw: "greed://auth?token=a&token=b", want: "a"},
		{name: "missing token", raw: "greed://auth?code=1", wantErr: ErrNoRedirectToken},
		{name: "empty token", raw: "greed://auth?token=", wantErr: ErrNoRedirectToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRedirect(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRedirect_InvalidURL(t *testing.T) {
	_, err := ParseRedirect("://nope")
	require.Error(t, err)
}

func signClaims(t *testing.T, claims *common.SessionClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func TestSessionFromToken(t *testing.T) {
	tok := signClaims(t, &common.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           9,
		Email:            "g@greed.gg",
		Name:             "Gee",
		FirstLogin:       true,
	})

	sess, err := SessionFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, tok, sess.Token)
	assert.Equal(t, int64(9), sess.User.ID)
	assert.Equal(t, "g@greed.gg", sess.User.Email)
	assert.Equal(t, "Gee", sess.User.Name)
	assert.True(t, sess.User.FirstLogin)
	assert.True(t, sess.Valid())
}

func TestSessionFromToken_NoUser(t *testing.T) {
	tok := signClaims(t, &common.SessionClaims{Email: "x"})

	_, err := SessionFromToken(tok)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSessionFromToken_Garbage(t *testing.T) {
	_, err := SessionFromToken("not-a-jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
