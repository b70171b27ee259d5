package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/layer-3/porter/adapters/siwe"
	"github.com/layer-3/porter/adapters/store"
	"github.com/layer-3/porter/adapters/tokenizer"
	"github.com/layer-3/porter/adapters/users"
	"github.com/layer-3/porter/core"
	"github.com/layer-3/porter/internal/siwetest"
	"github.com/layer-3/porter/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDomain = "app.example.com"
	testURI    = "https://app.example.com/login"
)

type fixture struct {
	auth     *service.AuthService
	users    *users.MemoryStore
	sessions *store.MemoryStore
	events   *recordingPublisher
	wallet   *siwetest.Wallet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	wallet, err := siwetest.NewWallet()
	require.NoError(t, err)

	userStore := users.NewMemoryStore()
	sessions := store.NewMemoryStore()
	events := &recordingPublisher{}

	auth := service.NewAuthService(
		userStore,
		sessions,
		tokenizer.NewJWTTokenizer(tokenizer.Config{
			AccessSecret:  []byte("access-secret"),
			RefreshSecret: []byte("refresh-secret"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		}),
		siwe.NewVerifier(),
		events,
		nil,
	)

	return &fixture{auth: auth, users: userStore, sessions: sessions, events: events, wallet: wallet}
}

// signIn runs the full nonce + sign challenge + sign-in flow
func (f *fixture) signIn(t *testing.T) *service.SignInResult {
	t.Helper()
	ctx := context.Background()

	nonce, err := f.auth.GetNonce(ctx, f.wallet.Address())
	require.NoError(t, err)

	message, err := f.wallet.SiweMessage(testDomain, testURI, nonce.Nonce)
	require.NoError(t, err)
	signature, err := f.wallet.Sign(message)
	require.NoError(t, err)

	result, err := f.auth.SignIn(ctx, service.SignInInput{
		Message:   message,
		Signature: signature,
		Nonce:     nonce.Nonce,
	})
	require.NoError(t, err)
	return result
}

func TestGetNonceCreatesUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.auth.GetNonce(ctx, f.wallet.Address())
	require.NoError(t, err)

	assert.Equal(t, f.wallet.Address(), result.Address)
	assert.GreaterOrEqual(t, len(result.Nonce), 16)

	user, err := f.users.FindByAddress(ctx, f.wallet.Address())
	require.NoError(t, err)
	assert.Equal(t, result.Nonce, user.Nonce)
	assert.NotEmpty(t, user.Username)
}

func TestGetNonceRotatesEveryCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.auth.GetNonce(ctx, f.wallet.Address())
	require.NoError(t, err)
	second, err := f.auth.GetNonce(ctx, f.wallet.Address())
	require.NoError(t, err)

	assert.NotEqual(t, first.Nonce, second.Nonce)

	user, err := f.users.FindByAddress(ctx, f.wallet.Address())
	require.NoError(t, err)
	assert.Equal(t, second.Nonce, user.Nonce, "only the latest nonce is stored")
}

func TestGetNonceNormalizesAddressCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lower := "0xb794f5ea0ba39494ce839613fffba74279579268"
	result, err := f.auth.GetNonce(ctx, lower)
	require.NoError(t, err)
	assert.Equal(t, "0xb794F5eA0ba39494cE839613fffBA74279579268", result.Address)
}

func TestGetNonceRejectsBadAddress(t *testing.T) {
	f := newFixture(t)

	for _, address := range []string{"", "nonsense", "0x123", "b794F5eA0ba39494cE839613fffBA7427957"} {
		_, err := f.auth.GetNonce(context.Background(), address)
		assert.ErrorIs(t, err, core.ErrInvalidAddress, "address %q", address)
	}
}

func TestSignInIssuesTokenPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)

	assert.Equal(t, f.wallet.Address(), result.Address)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)

	// both slots are persisted with the exact token strings
	access, err := f.sessions.Get(ctx, core.SessionKey(core.TokenTypeAccess, result.Address))
	require.NoError(t, err)
	assert.Equal(t, result.AccessToken, access)

	refresh, err := f.sessions.Get(ctx, core.SessionKey(core.TokenTypeRefresh, result.Address))
	require.NoError(t, err)
	assert.Equal(t, result.RefreshToken, refresh)

	// the mirror worker was notified
	assert.Equal(t, []string{result.Address}, f.events.mirrors)
}

func TestSignInRejectsUnknownUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// no nonce request was ever issued for this wallet
	message, err := f.wallet.SiweMessage(testDomain, testURI, "52ed1bc2b22a4f64b3cfb194")
	require.NoError(t, err)
	signature, err := f.wallet.Sign(message)
	require.NoError(t, err)

	_, err = f.auth.SignIn(ctx, service.SignInInput{
		Message:   message,
		Signature: signature,
		Nonce:     "52ed1bc2b22a4f64b3cfb194",
	})
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestSignInRejectsGarbageMessage(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.SignIn(context.Background(), service.SignInInput{
		Message:   "not a siwe message",
		Signature: "0xdeadbeef",
		Nonce:     "52ed1bc2b22a4f64b3cfb194",
	})
	assert.ErrorIs(t, err, core.ErrInvalidMessage)
}

func TestSignInRejectsStaleNonce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale, err := f.auth.GetNonce(ctx, f.wallet.Address())
	require.NoError(t, err)

	// a second nonce request rotates the stored nonce
	_, err = f.auth.GetNonce(ctx, f.wallet.Address())
	require.NoError(t, err)

	message, err := f.wallet.SiweMessage(testDomain, testURI, stale.Nonce)
	require.NoError(t, err)
	signature, err := f.wallet.Sign(message)
	require.NoError(t, err)

	_, err = f.auth.SignIn(ctx, service.SignInInput{
		Message:   message,
		Signature: signature,
		Nonce:     stale.Nonce,
	})
	assert.ErrorIs(t, err, core.ErrNonceMismatch)
}

func TestSignInRejectsWrongKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nonce, err := f.auth.GetNonce(ctx, f.wallet.Address())
	require.NoError(t, err)

	intruder, err := siwetest.NewWallet()
	require.NoError(t, err)

	message, err := f.wallet.SiweMessage(testDomain, testURI, nonce.Nonce)
	require.NoError(t, err)
	signature, err := intruder.Sign(message)
	require.NoError(t, err)

	_, err = f.auth.SignIn(ctx, service.SignInInput{
		Message:   message,
		Signature: signature,
		Nonce:     nonce.Nonce,
	})
	assert.ErrorIs(t, err, core.ErrSignatureInvalid)
}

func TestSignInConsumesNonce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nonce, err := f.auth.GetNonce(ctx, f.wallet.Address())
	require.NoError(t, err)

	message, err := f.wallet.SiweMessage(testDomain, testURI, nonce.Nonce)
	require.NoError(t, err)
	signature, err := f.wallet.Sign(message)
	require.NoError(t, err)

	input := service.SignInInput{Message: message, Signature: signature, Nonce: nonce.Nonce}

	_, err = f.auth.SignIn(ctx, input)
	require.NoError(t, err)

	// replaying the identical verified message must fail: the nonce was
	// rotated on success
	_, err = f.auth.SignIn(ctx, input)
	assert.ErrorIs(t, err, core.ErrNonceMismatch)
}

func TestSignInFailsWhenPersistenceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	failing := &failingSessionStore{SessionStore: f.sessions}
	auth := service.NewAuthService(
		f.users,
		failing,
		tokenizer.NewJWTTokenizer(tokenizer.Config{
			AccessSecret:  []byte("access-secret"),
			RefreshSecret: []byte("refresh-secret"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		}),
		siwe.NewVerifier(),
		nil,
		nil,
	)

	nonce, err := auth.GetNonce(ctx, f.wallet.Address())
	require.NoError(t, err)

	message, err := f.wallet.SiweMessage(testDomain, testURI, nonce.Nonce)
	require.NoError(t, err)
	signature, err := f.wallet.Sign(message)
	require.NoError(t, err)

	failing.failSet = true
	_, err = auth.SignIn(ctx, service.SignInInput{
		Message:   message,
		Signature: signature,
		Nonce:     nonce.Nonce,
	})
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
}

func TestAuthorizeAcceptsLiveToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)

	user, err := f.auth.Authorize(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.Address, user.PublicAddress)
}

func TestAuthorizeReflectsProfileEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)

	user, err := f.users.FindByAddress(ctx, result.Address)
	require.NoError(t, err)
	user.Username = "renamed"
	require.NoError(t, f.users.Update(ctx, user))

	// the guard resolves the identity by id, not from the token snapshot
	resolved, err := f.auth.Authorize(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "renamed", resolved.Username)
}

func TestAuthorizeRejectsAfterSignOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)

	require.NoError(t, f.auth.SignOut(ctx, result.Address))

	// token signature is still valid, the session entry is gone
	_, err := f.auth.Authorize(ctx, result.AccessToken)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	assert.Equal(t, []string{result.Address}, f.events.signOuts)
}

func TestAuthorizeRejectsSupersededToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.signIn(t)
	second := f.signIn(t)

	_, err := f.auth.Authorize(ctx, first.AccessToken)
	assert.ErrorIs(t, err, core.ErrUnauthorized, "overwritten by the later sign-in")

	_, err = f.auth.Authorize(ctx, second.AccessToken)
	assert.NoError(t, err)
}

func TestAuthorizeRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Authorize(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)

	accessToken, err := f.auth.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.AccessToken, accessToken)

	// the new token passes the guard, the superseded one does not
	_, err = f.auth.Authorize(ctx, accessToken)
	assert.NoError(t, err)
	_, err = f.auth.Authorize(ctx, result.AccessToken)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestRefreshKeepsRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)

	first, err := f.auth.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)

	// refresh does not rotate the refresh token; two back-to-back
	// refreshes with the same token both succeed and differ
	second, err := f.auth.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestRefreshRejectsSupersededToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.signIn(t)
	f.signIn(t)

	// the first refresh token still has a valid signature but was
	// overwritten in the session store by the later sign-in
	_, err := f.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, core.ErrRefreshInvalid)
}

func TestRefreshRejectsAfterSignOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)
	require.NoError(t, f.auth.SignOut(ctx, result.Address))

	_, err := f.auth.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, core.ErrRefreshInvalid)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newFixture(t)

	result := f.signIn(t)

	// an access token is signed with the access secret and carries the
	// wrong audience; it must never pass as a refresh token
	_, err := f.auth.Refresh(context.Background(), result.AccessToken)
	assert.ErrorIs(t, err, core.ErrRefreshInvalid)
}

func TestSignOutIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)

	require.NoError(t, f.auth.SignOut(ctx, result.Address))
	require.NoError(t, f.auth.SignOut(ctx, result.Address))
}

func TestSignOutKeepsNonce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)

	before, err := f.users.FindByAddress(ctx, result.Address)
	require.NoError(t, err)

	require.NoError(t, f.auth.SignOut(ctx, result.Address))

	after, err := f.users.FindByAddress(ctx, result.Address)
	require.NoError(t, err)
	assert.Equal(t, before.Nonce, after.Nonce, "sign-out does not touch the identity record")
}

func TestSignOutTokenIgnoresGarbage(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.auth.SignOutToken(context.Background(), "not.a.token"))
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.signIn(t)

	refreshed, err := f.auth.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.AccessToken, refreshed)

	_, err = f.auth.Authorize(ctx, refreshed)
	require.NoError(t, err)

	require.NoError(t, f.auth.SignOut(ctx, result.Address))

	_, err = f.auth.Authorize(ctx, refreshed)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}
