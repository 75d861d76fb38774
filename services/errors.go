package services

import "errors"

var (
	ErrPropertyNotFound   = errors.New("imóvel não encontrado")
	ErrInvalidPropertyID  = errors.New("ID do imóvel é obrigatório")
	ErrInvalidTokenAmount = errors.New("quantidade de tokens deve ser positiva")
	ErrInsufficientTokens = errors.New("tokens insuficientes disponíveis para compra")
	ErrUnsupportedFormat  = errors.New("formato de exportação não suportado")
	ErrGuestIDRequired    = errors.New("visitante sem identificador (cabeçalho X-Guest-ID)")

	ErrLoginFailed      = errors.New("falha no login")
	ErrWalletAuthFailed = errors.New("falha na autenticação da carteira")
	ErrInvalidSignature = errors.New("assinatura da carteira inválida")
	ErrInvalidProvider  = errors.New("provedor de carteira desconhecido")
	ErrSessionNotFound  = errors.New("sessão não encontrada")
	ErrInvalidToken     = errors.New("token de sessão inválido")
	ErrNotAuthenticated = errors.New("usuário não autenticado")

	ErrInvalidDocumentType = errors.New("tipo de documento desconhecido")
	ErrInvalidFileName     = errors.New("nome do arquivo é obrigatório")
	ErrDocumentNotFound    = errors.New("documento não encontrado")
	ErrRequirementsNotMet  = errors.New("por favor envie todos os documentos obrigatórios")
	ErrKYCNotStarted       = errors.New("usuário sem processo de KYC")
	ErrNotPendingReview    = errors.New("KYC não está aguardando análise")
	ErrInvalidDecision     = errors.New("decisão de análise inválida")

	ErrSuggestionNotFound = errors.New("sugestão não encontrada")
	ErrInvalidPreferences = errors.New("preferências inválidas")
)
