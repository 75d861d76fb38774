package models

import "time"

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleAdmin     UserRole = "admin"
	RoleModerator UserRole = "moderator"
)

type KYCStatus string

const (
	KYCPending    KYCStatus = "pending"
	KYCApproved   KYCStatus = "approved"
	KYCRejected   KYCStatus = "rejected"
	KYCNotStarted KYCStatus = "not_started"
)

// User representa um investidor autenticado na plataforma.
type User struct {
	ID            string    `json:"id" yaml:"id"`
	WalletAddress string    `json:"wallet_address,omitempty" yaml:"wallet_address"`
	Email         string    `json:"email,omitempty" yaml:"email"`
	FirstName     string    `json:"first_name,omitempty" yaml:"first_name"`
	LastName      string    `json:"last_name,omitempty" yaml:"last_name"`
	Avatar        string    `json:"avatar,omitempty" yaml:"avatar"`
	KYCStatus     KYCStatus `json:"kyc_status" yaml:"kyc_status"`
	Role          UserRole  `json:"role" yaml:"role"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// UserPatch carrega uma atualização parcial de perfil. Campos nil não mudam.
type UserPatch struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

// Apply devolve uma cópia de u com os campos do patch aplicados.
func (p UserPatch) Apply(u User) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}

type WalletProvider string

const (
	ProviderMetaMask      WalletProvider = "metamask"
	ProviderWalletConnect WalletProvider = "walletconnect"
	ProviderCoinbase      WalletProvider = "coinbase"
)

func (p WalletProvider) Valid() bool {
	switch p {
	case ProviderMetaMask, ProviderWalletConnect, ProviderCoinbase:
		return true
	}
	return false
}

// WalletInfo descreve a carteira conectada. É substituída por inteiro a cada
// nova conexão.
type WalletInfo struct {
	Address   string         `json:"address"`
	Balance   float64        `json:"balance"`
	Network   string         `json:"network"`
	Provider  WalletProvider `json:"provider"`
	Connected bool           `json:"connected"`
}
