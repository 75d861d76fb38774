package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ferreirogomes/landledger/models"
)

// SmartPickPreferences são as preferências de investimento informadas pelo
// usuário. São validadas, mas ainda não influenciam a lista devolvida.
type SmartPickPreferences struct {
	RiskTolerance      models.RiskRating `json:"risk_tolerance"`
	InvestmentRange    Range             `json:"investment_range"`
	PreferredYield     float64           `json:"preferred_yield"`
	PreferredLocations []string          `json:"preferred_locations"`
	PropertyTypes      []string          `json:"property_types"`
}

func (p SmartPickPreferences) Validate() error {
	switch p.RiskTolerance {
	case "", models.RiskLow, models.RiskMedium, models.RiskHigh:
	default:
		return fmt.Errorf("%w: tolerância a risco %q", ErrInvalidPreferences, p.RiskTolerance)
	}
	if p.InvestmentRange.Min < 0 || p.InvestmentRange.Max < p.InvestmentRange.Min {
		return fmt.Errorf("%w: faixa de investimento", ErrInvalidPreferences)
	}
	if p.PreferredYield < 0 {
		return fmt.Errorf("%w: rendimento preferido negativo", ErrInvalidPreferences)
	}
	return nil
}

// Recommendations é o par de listas exibido no painel de sugestões.
type Recommendations struct {
	Suggestions []models.AIInsight `json:"suggestions"`
	SmartPicks  []models.Property  `json:"smart_picks"`
}

// SuggestionService devolve os insights e as "smart picks" estáticos,
// lembrando quais insights cada usuário descartou.
type SuggestionService struct {
	insights   []models.AIInsight
	smartPicks []models.Property
	latency    time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu        sync.RWMutex
	dismissed map[string]map[string]bool
}

func NewSuggestionService(insights []models.AIInsight, smartPicks []models.Property, latency time.Duration, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{
		insights:   slices.Clone(insights),
		smartPicks: slices.Clone(smartPicks),
		latency:    latency,
		logger:     logger,
		now:        time.Now,
		dismissed:  make(map[string]map[string]bool),
	}
}

// Suggestions devolve os insights do usuário que ele ainda não descartou.
func (s *SuggestionService) Suggestions(ctx context.Context, userID string) ([]models.AIInsight, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}

	now := s.now()
	s.mu.RLock()
	dismissed := s.dismissed[userID]
	out := make([]models.AIInsight, 0, len(s.insights))
	for _, in := range s.insights {
		if in.Dismissed || dismissed[in.ID] {
			continue
		}
		in.UserID = userID
		in.CreatedAt = now
		out = append(out, in)
	}
	s.mu.RUnlock()
	return out, nil
}

// SmartPicks devolve os imóveis recomendados. prefs pode ser nil.
func (s *SuggestionService) SmartPicks(ctx context.Context, prefs *SmartPickPreferences) ([]models.Property, error) {
	if prefs != nil {
		if err := prefs.Validate(); err != nil {
			return nil, err
		}
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return nil, err
	}
	return slices.Clone(s.smartPicks), nil
}

// Dismiss esconde o insight id para o usuário. Descartar de novo não é erro.
func (s *SuggestionService) Dismiss(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if !slices.ContainsFunc(s.insights, func(in models.AIInsight) bool { return in.ID == id }) {
		return ErrSuggestionNotFound
	}
	if err := simulateLatency(ctx, s.latency); err != nil {
		return err
	}

	s.mu.Lock()
	if s.dismissed[userID] == nil {
		s.dismissed[userID] = make(map[string]bool)
	}
	s.dismissed[userID][id] = true
	s.mu.Unlock()

	s.logger.Debug("sugestão descartada", zap.String("user_id", userID), zap.String("suggestion_id", id))
	return nil
}

// Refresh recarrega as duas listas em paralelo. Os descartes do usuário são
// esquecidos, como numa nova sessão.
func (s *SuggestionService) Refresh(ctx context.Context, userID string) (Recommendations, error) {
	if userID == "" {
		return Recommendations{}, ErrNotAuthenticated
	}
	s.mu.Lock()
	delete(s.dismissed, userID)
	s.mu.Unlock()

	var rec Recommendations
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.Suggestions(gctx, userID)
		if err != nil {
			return fmt.Errorf("falha ao carregar sugestões: %w", err)
		}
		rec.Suggestions = list
		return nil
	})
	g.Go(func() error {
		picks, err := s.SmartPicks(gctx, nil)
		if err != nil {
			return fmt.Errorf("falha ao gerar smart picks: %w", err)
		}
		rec.SmartPicks = picks
		return nil
	})
	if err := g.Wait(); err != nil {
		return Recommendations{}, err
	}
	return rec, nil
}
