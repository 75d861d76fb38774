package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/seed"
	"github.com/ferreirogomes/landledger/services"
)

func newAuth(t *testing.T, verifier services.WalletVerifier) *services.AuthService {
	t.Helper()
	data, err := seed.Load()
	require.NoError(t, err)
	mockWallet := services.NewMockWalletService(data.Wallet.Balance, data.Wallet.Network)
	if verifier == nil {
		verifier = mockWallet
	}
	return services.NewAuthService(services.AuthOptions{
		MockUser:   data.MockUser,
		MockWallet: data.Wallet,
		Verifier:   verifier,
		Balances:   mockWallet,
		Tokens:     services.NewTokenIssuer("segredo-de-teste", time.Hour),
	}, zap.NewNop())
}

func TestReduceAuth(t *testing.T) {
	st := services.ReduceAuth(services.AuthState{Error: "antigo"}, services.LoginStart{})
	assert.True(t, st.IsLoading)
	assert.Empty(t, st.Error)

	wallet := &models.WalletInfo{Address: "0xabc", Connected: true}
	st = services.ReduceAuth(st, services.LoginSuccess{User: models.User{ID: "1"}, Wallet: wallet})
	assert.True(t, st.IsAuthenticated)
	assert.False(t, st.IsLoading)
	require.NotNil(t, st.Wallet)

	st = services.ReduceAuth(st, services.LoginSuccess{User: models.User{ID: "2"}})
	require.NotNil(t, st.Wallet, "login sem carteira mantém a anterior")
	assert.Equal(t, "2", st.User.ID)

	name := "Maria"
	st = services.ReduceAuth(st, services.UpdateUser{Patch: models.UserPatch{FirstName: &name}})
	assert.Equal(t, "Maria", st.User.FirstName)

	st = services.ReduceAuth(st, services.WalletDisconnected{})
	assert.Nil(t, st.Wallet)

	st = services.ReduceAuth(st, services.LoginFailure{Message: "falha no login"})
	assert.False(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
	assert.Equal(t, "falha no login", st.Error)

	assert.Equal(t, services.AuthState{}, services.ReduceAuth(st, services.Logout{}))

	anon := services.ReduceAuth(services.AuthState{}, services.UpdateUser{Patch: models.UserPatch{FirstName: &name}})
	assert.Nil(t, anon.User)
}

func TestLogin(t *testing.T) {
	svc := newAuth(t, nil)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "john@example.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.True(t, sess.State.IsAuthenticated)
	assert.Equal(t, "john@example.com", sess.State.User.Email)
	assert.Equal(t, models.KYCApproved, sess.State.User.KYCStatus)

	sid, st, err := svc.Authenticate(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, sid)
	assert.Equal(t, "1", st.User.ID)

	_, err = svc.Logout(ctx, sid)
	require.NoError(t, err)
	_, _, err = svc.Authenticate(sess.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestLogin_Failure(t *testing.T) {
	svc := newAuth(t, nil)

	sess, err := svc.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, services.ErrLoginFailed)
	assert.False(t, sess.State.IsAuthenticated)
	assert.Equal(t, services.ErrLoginFailed.Error(), sess.State.Error)
	assert.Empty(t, sess.Token)
}

func TestAuthenticate_RejectsForeignToken(t *testing.T) {
	svc := newAuth(t, nil)
	other := services.NewTokenIssuer("outro-segredo", time.Hour)
	token, _, err := other.Issue("sid", "1")
	require.NoError(t, err)

	_, _, err = svc.Authenticate(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestWalletLifecycle(t *testing.T) {
	svc := newAuth(t, nil)
	ctx := context.Background()

	sess, err := svc.LoginWithWallet(ctx, "0xfeed", "sig")
	require.NoError(t, err)
	require.NotNil(t, sess.State.Wallet)
	assert.Equal(t, "0xfeed", sess.State.User.WalletAddress)
	assert.Equal(t, 1.5, sess.State.Wallet.Balance)
	assert.Equal(t, models.ProviderMetaMask, sess.State.Wallet.Provider)

	st, err := svc.ConnectWallet(ctx, sess.ID, models.ProviderCoinbase, "")
	require.NoError(t, err)
	assert.Equal(t, "0x742d35Cc6634C0532925a3b8D404d9C3C6EE5b40", st.Wallet.Address)
	assert.Equal(t, models.ProviderCoinbase, st.Wallet.Provider)

	_, err = svc.ConnectWallet(ctx, sess.ID, "phantom", "")
	assert.ErrorIs(t, err, services.ErrInvalidProvider)

	st, err = svc.DisconnectWallet(ctx, sess.ID)
	require.NoError(t, err)
	assert.Nil(t, st.Wallet)
	assert.True(t, st.IsAuthenticated)

	_, err = svc.DisconnectWallet(ctx, "sessao-inexistente")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestLoginWithWallet_EmptySignature(t *testing.T) {
	svc := newAuth(t, nil)

	sess, err := svc.LoginWithWallet(context.Background(), "0xfeed", "")
	assert.ErrorIs(t, err, services.ErrWalletAuthFailed)
	assert.ErrorIs(t, err, services.ErrInvalidSignature)
	assert.Equal(t, services.ErrWalletAuthFailed.Error(), sess.State.Error)
}

func TestUpdateProfile(t *testing.T) {
	svc := newAuth(t, nil)
	ctx := context.Background()
	sess, err := svc.Login(ctx, "john@example.com", "secret")
	require.NoError(t, err)

	email := "novo@example.com"
	st, err := svc.UpdateProfile(ctx, sess.ID, models.UserPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "novo@example.com", st.User.Email)
	assert.Equal(t, "Doe", st.User.LastName)
	assert.Equal(t, "john@example.com", sess.State.User.Email, "estado devolvido antes não muda")
}

func TestSolanaWalletService_VerifySignature(t *testing.T) {
	wallet := solana.NewWallet()
	address := wallet.PublicKey().String()
	sig, err := wallet.PrivateKey.Sign(services.LoginChallenge(address))
	require.NoError(t, err)

	svc := services.NewSolanaWalletService("http://127.0.0.1:0")
	assert.NoError(t, svc.VerifySignature(address, sig.String(), services.LoginChallenge(address)))
	assert.ErrorIs(t, svc.VerifySignature(address, sig.String(), []byte("outra mensagem")), services.ErrInvalidSignature)
	assert.ErrorIs(t, svc.VerifySignature("nao-base58!", sig.String(), nil), services.ErrInvalidSignature)
	assert.ErrorIs(t, svc.VerifySignature(address, "lixo", nil), services.ErrInvalidSignature)
}

func TestLoginWithWallet_Solana(t *testing.T) {
	wallet := solana.NewWallet()
	address := wallet.PublicKey().String()
	sig, err := wallet.PrivateKey.Sign(services.LoginChallenge(address))
	require.NoError(t, err)

	svc := newAuth(t, services.NewSolanaWalletService("http://127.0.0.1:0"))
	sess, err := svc.LoginWithWallet(context.Background(), address, sig.String())
	require.NoError(t, err)
	assert.Equal(t, address, sess.State.User.WalletAddress)
}

func TestSetKYCStatus_UpdatesOpenSessions(t *testing.T) {
	svc := newAuth(t, nil)
	sess, err := svc.Login(context.Background(), "john@example.com", "secret")
	require.NoError(t, err)

	svc.SetKYCStatus("1", models.KYCRejected)
	st, ok := svc.State(sess.ID)
	require.True(t, ok)
	assert.Equal(t, models.KYCRejected, st.User.KYCStatus)
	assert.Equal(t, models.KYCApproved, sess.State.User.KYCStatus, "estado já devolvido não pode mudar")

	svc.SetKYCStatus("99", models.KYCPending)
	st, _ = svc.State(sess.ID)
	assert.Equal(t, models.KYCRejected, st.User.KYCStatus)
}
