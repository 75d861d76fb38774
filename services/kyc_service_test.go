package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ferreirogomes/landledger/models"
	"github.com/ferreirogomes/landledger/seed"
	"github.com/ferreirogomes/landledger/services"
	"github.com/ferreirogomes/landledger/storage"
)

// MockKYCRepository é uma implementação mock de storage.KYCRepository.
type MockKYCRepository struct {
	mock.Mock
}

func (m *MockKYCRepository) ListDocuments(ctx context.Context, userID string) ([]models.KYCDocument, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.KYCDocument), args.Error(1)
}

func (m *MockKYCRepository) SaveDocument(ctx context.Context, doc models.KYCDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockKYCRepository) DeleteDocument(ctx context.Context, userID, docID string) (bool, error) {
	args := m.Called(ctx, userID, docID)
	return args.Bool(0), args.Error(1)
}

func newKYC(t *testing.T) *services.KYCService {
	t.Helper()
	data, err := seed.Load()
	require.NoError(t, err)
	return services.NewKYCService(storage.NewMemoryStore(), data.KYCDocuments, 0, zap.NewNop())
}

func TestCheckRequirements(t *testing.T) {
	doc := func(tp models.DocumentType) models.KYCDocument { return models.KYCDocument{Type: tp} }

	assert.False(t, services.CheckRequirements(nil))
	assert.False(t, services.CheckRequirements([]models.KYCDocument{doc(models.DocPassport)}))
	assert.False(t, services.CheckRequirements([]models.KYCDocument{doc(models.DocUtilityBill), doc(models.DocBankStatement)}))
	assert.True(t, services.CheckRequirements([]models.KYCDocument{doc(models.DocDriversLicense), doc(models.DocBankStatement)}))
	assert.True(t, services.CheckRequirements([]models.KYCDocument{doc(models.DocUtilityBill), doc(models.DocPassport)}))
}

func TestKYCState_SeedsMockPassport(t *testing.T) {
	svc := newKYC(t)
	user := models.User{ID: "5", KYCStatus: models.KYCNotStarted}

	st, err := svc.State(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, models.KYCNotStarted, st.Status)
	require.Len(t, st.Documents, 1)
	assert.Equal(t, models.DocPassport, st.Documents[0].Type)
	assert.False(t, st.Documents[0].UploadedAt.IsZero())
}

func TestKYCUpload_CompletingRequirementsMovesToPending(t *testing.T) {
	svc := newKYC(t)
	ctx := context.Background()
	user := models.User{ID: "5", KYCStatus: models.KYCNotStarted}

	doc, st, err := svc.Upload(ctx, user, "conta-de-luz.pdf", models.DocUtilityBill)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentPending, doc.Status)
	assert.NotEmpty(t, doc.ID)
	assert.Len(t, st.Documents, 2)
	assert.Equal(t, models.KYCPending, st.Status, "o documento novo conta para os requisitos")

	status, err := svc.Status(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.KYCPending, status)
}

func TestKYCUpload_ApprovedUserStaysApproved(t *testing.T) {
	svc := newKYC(t)
	user := models.User{ID: "1", KYCStatus: models.KYCApproved}

	_, st, err := svc.Upload(context.Background(), user, "extrato.pdf", models.DocBankStatement)
	require.NoError(t, err)
	assert.Equal(t, models.KYCApproved, st.Status)
}

func TestKYCUpload_Validation(t *testing.T) {
	svc := newKYC(t)
	user := models.User{ID: "1"}

	_, _, err := svc.Upload(context.Background(), user, "x.pdf", "selfie")
	assert.ErrorIs(t, err, services.ErrInvalidDocumentType)

	_, _, err = svc.Upload(context.Background(), user, "", models.DocPassport)
	assert.ErrorIs(t, err, services.ErrInvalidFileName)
}

func TestKYCDeleteAndSubmit(t *testing.T) {
	svc := newKYC(t)
	ctx := context.Background()
	user := models.User{ID: "9", KYCStatus: models.KYCNotStarted}

	st, err := svc.State(ctx, user)
	require.NoError(t, err)
	passportID := st.Documents[0].ID

	st, err = svc.Delete(ctx, user, passportID)
	require.NoError(t, err)
	assert.Empty(t, st.Documents)

	_, err = svc.Delete(ctx, user, passportID)
	assert.ErrorIs(t, err, services.ErrDocumentNotFound)

	st, err = svc.SubmitForReview(ctx, user)
	assert.ErrorIs(t, err, services.ErrRequirementsNotMet)
	assert.Equal(t, models.KYCNotStarted, st.Status)
	assert.Equal(t, services.ErrRequirementsNotMet.Error(), st.Error)

	_, _, err = svc.Upload(ctx, user, "cnh.pdf", models.DocDriversLicense)
	require.NoError(t, err)
	_, st, err = svc.Upload(ctx, user, "extrato.pdf", models.DocBankStatement)
	require.NoError(t, err)
	assert.Empty(t, st.Error)

	st, err = svc.SubmitForReview(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.KYCPending, st.Status)
}

func TestKYC_RepositoryError(t *testing.T) {
	repo := new(MockKYCRepository)
	boom := errors.New("timeout")
	repo.On("ListDocuments", mock.Anything, "1").Return([]models.KYCDocument(nil), boom)

	svc := services.NewKYCService(repo, nil, 0, zap.NewNop())
	_, err := svc.State(context.Background(), models.User{ID: "1"})
	assert.ErrorIs(t, err, boom)
	repo.AssertExpectations(t)
}

func TestKYCReview(t *testing.T) {
	svc := newKYC(t)
	ctx := context.Background()
	user := models.User{ID: "3", KYCStatus: models.KYCNotStarted}

	_, err := svc.Review(ctx, "3", models.KYCApproved, "")
	assert.ErrorIs(t, err, services.ErrKYCNotStarted)

	_, st, err := svc.Upload(ctx, user, "conta.pdf", models.DocUtilityBill)
	require.NoError(t, err)
	require.Equal(t, models.KYCPending, st.Status)

	_, err = svc.Review(ctx, "3", models.KYCPending, "")
	assert.ErrorIs(t, err, services.ErrInvalidDecision)

	st, err = svc.Review(ctx, "3", models.KYCApproved, "ok")
	require.NoError(t, err)
	assert.Equal(t, models.KYCApproved, st.Status)
	for _, d := range st.Documents {
		assert.NotEqual(t, models.DocumentPending, d.Status)
	}

	_, err = svc.Review(ctx, "3", models.KYCRejected, "")
	assert.ErrorIs(t, err, services.ErrNotPendingReview)
}

func TestKYC_StatusChangesReachObservers(t *testing.T) {
	svc := newKYC(t)
	ctx := context.Background()
	user := models.User{ID: "5", KYCStatus: models.KYCNotStarted}

	var changes []models.KYCStatus
	svc.OnStatusChange(func(userID string, status models.KYCStatus) {
		assert.Equal(t, "5", userID)
		changes = append(changes, status)
	})

	_, _, err := svc.Upload(ctx, user, "conta.pdf", models.DocUtilityBill)
	require.NoError(t, err)
	_, err = svc.SubmitForReview(ctx, user)
	require.NoError(t, err)
	_, err = svc.Review(ctx, "5", models.KYCApproved, "")
	require.NoError(t, err)

	assert.Equal(t, []models.KYCStatus{models.KYCPending, models.KYCApproved}, changes)
}
