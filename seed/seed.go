// Package seed carrega os dados estáticos do marketplace e os mocks usados
// enquanto o backend real não existe.
package seed

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ferreirogomes/landledger/models"
)

//go:embed properties.yaml
var propertiesYAML []byte

//go:embed fixtures.yaml
var fixturesYAML []byte

// MockWallet é a carteira devolvida pelas conexões simuladas.
type MockWallet struct {
	Address string  `yaml:"address"`
	Balance float64 `yaml:"balance"`
	Network string  `yaml:"network"`
}

// Data reúne o catálogo de imóveis e os mocks de usuário.
type Data struct {
	Properties   []models.Property     `yaml:"properties"`
	MockUser     models.User           `yaml:"mock_user"`
	Wallet       MockWallet            `yaml:"wallet"`
	UserWishlist []string              `yaml:"user_wishlist"`
	KYCDocuments []models.KYCDocument  `yaml:"kyc_documents"`
	Holdings     []models.TokenHolding `yaml:"holdings"`
	RentPayments []models.RentPayment  `yaml:"rent_payments"`
	Insights     []models.AIInsight    `yaml:"insights"`
	SmartPicks   []models.Property     `yaml:"smart_picks"`
}

// Load decodifica os arquivos embutidos e valida os invariantes dos dados.
func Load() (*Data, error) {
	return Parse(propertiesYAML, fixturesYAML)
}

// Parse decodifica um catálogo e um arquivo de fixtures arbitrários.
func Parse(properties, fixtures []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(properties, &d); err != nil {
		return nil, fmt.Errorf("falha ao decodificar catálogo de imóveis: %w", err)
	}
	if err := yaml.Unmarshal(fixtures, &d); err != nil {
		return nil, fmt.Errorf("falha ao decodificar fixtures: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Data) validate() error {
	if len(d.Properties) == 0 {
		return errors.New("catálogo de imóveis vazio")
	}
	seen := make(map[string]bool, len(d.Properties))
	for _, p := range d.Properties {
		if seen[p.ID] {
			return fmt.Errorf("imóvel duplicado no catálogo: %s", p.ID)
		}
		seen[p.ID] = true
		if err := validateProperty(p); err != nil {
			return err
		}
	}
	for _, p := range d.SmartPicks {
		if err := validateProperty(p); err != nil {
			return err
		}
	}
	for _, h := range d.Holdings {
		if err := validateProperty(h.Property); err != nil {
			return fmt.Errorf("posição %s: %w", h.ID, err)
		}
	}
	for _, in := range d.Insights {
		if in.Confidence < 0 || in.Confidence > 1 {
			return fmt.Errorf("insight %s com confiança fora de [0,1]: %v", in.ID, in.Confidence)
		}
	}
	for _, doc := range d.KYCDocuments {
		if !doc.Type.Valid() {
			return fmt.Errorf("documento %s com tipo desconhecido: %q", doc.ID, doc.Type)
		}
	}
	return nil
}

func validateProperty(p models.Property) error {
	if p.ID == "" {
		return errors.New("imóvel sem ID")
	}
	if p.TotalTokens <= 0 {
		return fmt.Errorf("imóvel %s sem tokens emitidos", p.ID)
	}
	if p.SoldTokens < 0 || p.SoldTokens > p.TotalTokens {
		return fmt.Errorf("imóvel %s vendeu %d de %d tokens", p.ID, p.SoldTokens, p.TotalTokens)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("imóvel %s com status desconhecido: %q", p.ID, p.Status)
	}
	return nil
}
