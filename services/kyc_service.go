package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/storage"
)

// KYCState é o estado de verificação de identidade de um usuário.
type KYCState struct {
	Status    models.KYCStatus     `json:"kyc_status"`
	Documents []models.KYCDocument `json:"documents"`
	IsLoading bool                 `json:"is_loading"`
	Error     string               `json:"error,omitempty"`
}

// CheckRequirements informa se há ao menos um documento de identidade e um
// comprovante de endereço.
func CheckRequirements(docs []models.KYCDocument) bool {
	var identity, address bool
	for _, d := range docs {
		identity = identity || d.Type.IsIdentity()
		address = address || d.Type.IsAddressProof()
	}
	return identity && address
}

type kycEntry struct {
	status models.KYCStatus
	err    string
}

// KYCService controla os documentos enviados e o status de KYC de cada
// usuário. Os documentos ficam no KYCRepository; o status fica em memória.
type KYCService struct {
	repo     storage.KYCRepository
	seedDocs []models.KYCDocument
	latency  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	entries  map[string]*kycEntry
	onChange []func(userID string, status models.KYCStatus)
}

// NewKYCService cria o serviço. seedDocs são gravados para cada usuário que
// ainda não tem documentos na primeira vez que o estado dele é carregado.
func NewKYCService(repo storage.KYCRepository, seedDocs []models.KYCDocument, latency time.Duration, logger *zap.Logger) *KYCService {
	return &KYCService{
		repo:     repo,
		seedDocs: seedDocs,
		latency:  latency,
		logger:   logger,
		now:      time.Now,
		entries:  make(map[string]*kycEntry),
	}
}

// OnStatusChange registra fn para ser chamada sempre que o status de KYC de
// um usuário mudar. Deve ser chamado antes de o serviço receber requisições.
func (s *KYCService) OnStatusChange(fn func(userID string, status models.KYCStatus)) {
	s.onChange = append(s.onChange, fn)
}

// setStatus altera o status e avisa os observadores. Deve ser chamado com
// s.mu travado.
func (s *KYCService) setStatus(userID string, e *kycEntry, status models.KYCStatus) {
	if e.status == status {
		return
	}
	e.status = status
	for _, fn := range s.onChange {
		fn(userID, status)
	}
}

// entry devolve o estado do usuário, inicializando-o a partir do status do
// cadastro. Deve ser chamado com s.mu travado.
func (s *KYCService) entry(ctx context.Context, user models.User) (*kycEntry, error) {
	if e, ok := s.entries[user.ID]; ok {
		return e, nil
	}

	docs, err := s.repo.ListDocuments(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar documentos: %w", err)
	}
	if len(docs) == 0 {
		for _, d := range s.seedDocs {
			d.ID = uuid.NewString()
			d.UserID = user.ID
			if d.UploadedAt.IsZero() {
				d.UploadedAt = s.now()
			}
			if err := s.repo.SaveDocument(ctx, d); err != nil {
				return nil, fmt.Errorf("falha ao gravar documento inicial: %w", err)
			}
		}
	}

	status := user.KYCStatus
	if status == "" {
		status = models.KYCNotStarted
	}
	e := &kycEntry{status: status}
	s.entries[user.ID] = e
	return e, nil
}

func (s *KYCService) snapshot(ctx context.Context, userID string, e *kycEntry) (KYCState, error) {
	docs, err := s.repo.ListDocuments(ctx, userID)
	if err != nil {
		return KYCState{}, fmt.Errorf("falha ao carregar documentos: %w", err)
	}
	if docs == nil {
		docs = []models.KYCDocument{}
	}
	return KYCState{Status: e.status, Documents: docs, Error: e.err}, nil
}

// State devolve o status e os documentos do usuário.
func (s *KYCService) State(ctx context.Context, user models.User) (KYCState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(ctx, user)
	if err != nil {
		return KYCState{}, err
	}
	return s.snapshot(ctx, user.ID, e)
}

// Status devolve apenas o status de KYC do usuário.
func (s *KYCService) Status(ctx context.Context, user models.User) (models.KYCStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(ctx, user)
	if err != nil {
		return "", err
	}
	return e.status, nil
}

// Upload registra um novo documento pendente. Se com ele os requisitos
// passam a ser atendidos, o status vai para pending, exceto quando o usuário
// já está aprovado.
func (s *KYCService) Upload(ctx context.Context, user models.User, fileName string, docType models.DocumentType) (models.KYCDocument, KYCState, error) {
	if !docType.Valid() {
		return models.KYCDocument{}, KYCState{}, fmt.Errorf("%w: %q", ErrInvalidDocumentType, docType)
	}
	if fileName == "" {
		return models.KYCDocument{}, KYCState{}, ErrInvalidFileName
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return models.KYCDocument{}, KYCState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(ctx, user)
	if err != nil {
		return models.KYCDocument{}, KYCState{}, err
	}

	doc := models.KYCDocument{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Type:       docType,
		FileName:   fileName,
		UploadedAt: s.now(),
		Status:     models.DocumentPending,
	}
	if err := s.repo.SaveDocument(ctx, doc); err != nil {
		return models.KYCDocument{}, KYCState{}, fmt.Errorf("falha ao enviar documento: %w", err)
	}
	e.err = ""

	state, err := s.snapshot(ctx, user.ID, e)
	if err != nil {
		return doc, KYCState{}, err
	}
	if CheckRequirements(state.Documents) && e.status != models.KYCApproved {
		s.setStatus(user.ID, e, models.KYCPending)
		state.Status = e.status
	}

	s.logger.Info("documento KYC enviado",
		zap.String("user_id", user.ID),
		zap.String("document_id", doc.ID),
		zap.String("type", string(docType)),
	)
	return doc, state, nil
}

// Delete remove um documento do usuário.
func (s *KYCService) Delete(ctx context.Context, user models.User, docID string) (KYCState, error) {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return KYCState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(ctx, user)
	if err != nil {
		return KYCState{}, err
	}
	found, err := s.repo.DeleteDocument(ctx, user.ID, docID)
	if err != nil {
		return KYCState{}, fmt.Errorf("falha ao apagar documento: %w", err)
	}
	if !found {
		return KYCState{}, ErrDocumentNotFound
	}
	return s.snapshot(ctx, user.ID, e)
}

// SubmitForReview envia os documentos para análise. Sem os documentos
// obrigatórios o status não muda e o estado carrega o erro.
func (s *KYCService) SubmitForReview(ctx context.Context, user models.User) (KYCState, error) {
	if err := simulateLatency(ctx, s.latency); err != nil {
		return KYCState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.entry(ctx, user)
	if err != nil {
		return KYCState{}, err
	}
	state, err := s.snapshot(ctx, user.ID, e)
	if err != nil {
		return KYCState{}, err
	}
	if !CheckRequirements(state.Documents) {
		e.err = ErrRequirementsNotMet.Error()
		state.Error = e.err
		return state, ErrRequirementsNotMet
	}

	s.setStatus(user.ID, e, models.KYCPending)
	e.err = ""
	state.Status, state.Error = e.status, ""

	s.logger.Info("KYC enviado para análise", zap.String("user_id", user.ID))
	return state, nil
}

// Review registra a decisão de um moderador sobre um KYC pendente. Os
// documentos pendentes recebem o mesmo resultado.
func (s *KYCService) Review(ctx context.Context, userID string, decision models.KYCStatus, notes string) (KYCState, error) {
	var docStatus models.DocumentStatus
	switch decision {
	case models.KYCApproved:
		docStatus = models.DocumentApproved
	case models.KYCRejected:
		docStatus = models.DocumentRejected
	default:
		return KYCState{}, fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		return KYCState{}, ErrKYCNotStarted
	}
	if e.status != models.KYCPending {
		return KYCState{}, fmt.Errorf("%w: status atual %s", ErrNotPendingReview, e.status)
	}

	docs, err := s.repo.ListDocuments(ctx, userID)
	if err != nil {
		return KYCState{}, fmt.Errorf("falha ao carregar documentos: %w", err)
	}
	for _, d := range docs {
		if d.Status != models.DocumentPending {
			continue
		}
		d.Status = docStatus
		d.Notes = notes
		if err := s.repo.SaveDocument(ctx, d); err != nil {
			return KYCState{}, fmt.Errorf("falha ao atualizar documento %s: %w", d.ID, err)
		}
	}
	s.setStatus(userID, e, decision)

	s.logger.Info("KYC analisado", zap.String("user_id", userID), zap.String("decision", string(decision)))
	return s.snapshot(ctx, userID, e)
}
