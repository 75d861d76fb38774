package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// WalletVerifier confere se signature prova a posse de address.
type WalletVerifier interface {
	VerifySignature(address, signature string, message []byte) error
}

// BalanceProvider consulta o saldo nativo de uma carteira.
type BalanceProvider interface {
	Balance(ctx context.Context, address string) (float64, error)
	Network() string
}

// LoginChallenge é a mensagem que a carteira assina para entrar.
func LoginChallenge(address string) []byte {
	return []byte("landledger:login:" + address)
}

// MockWalletService aceita qualquer assinatura não vazia e devolve sempre o
// mesmo saldo.
type MockWalletService struct {
	balance float64
	network string
}

func NewMockWalletService(balance float64, network string) *MockWalletService {
	return &MockWalletService{balance: balance, network: network}
}

func (m *MockWalletService) VerifySignature(address, signature string, _ []byte) error {
	if address == "" || signature == "" {
		return ErrInvalidSignature
	}
	return nil
}

func (m *MockWalletService) Balance(context.Context, string) (float64, error) {
	return m.balance, nil
}

func (m *MockWalletService) Network() string { return m.network }

// SolanaWalletService verifica assinaturas ed25519 de carteiras Solana e lê
// saldos via RPC.
type SolanaWalletService struct {
	RPCClient *rpc.Client
}

// NewSolanaWalletService cria o serviço apontando para o endpoint RPC dado.
func NewSolanaWalletService(rpcURL string) *SolanaWalletService {
	return &SolanaWalletService{RPCClient: rpc.New(rpcURL)}
}

// VerifySignature decodifica a chave pública e a assinatura em base58 e
// confere a assinatura sobre message.
func (s *SolanaWalletService) VerifySignature(address, signature string, message []byte) error {
	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return fmt.Errorf("%w: endereço inválido: %v", ErrInvalidSignature, err)
	}
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("%w: assinatura malformada: %v", ErrInvalidSignature, err)
	}
	if !sig.Verify(pubKey, message) {
		return ErrInvalidSignature
	}
	return nil
}

// Balance devolve o saldo da carteira em SOL.
func (s *SolanaWalletService) Balance(ctx context.Context, address string) (float64, error) {
	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, fmt.Errorf("endereço de carteira inválido: %w", err)
	}
	out, err := s.RPCClient.GetBalance(ctx, pubKey, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("falha ao obter saldo da carteira: %w", err)
	}
	if out == nil {
		return 0, errors.New("resposta de saldo vazia")
	}
	return float64(out.Value) / float64(solana.LAMPORTS_PER_SOL), nil
}

func (s *SolanaWalletService) Network() string { return "solana" }
