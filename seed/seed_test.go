package seed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferreirogomes/landledger/seed"
)

func TestLoadEmbedded(t *testing.T) {
	d, err := seed.Load()
	require.NoError(t, err)

	assert.Len(t, d.Properties, 40)
	assert.Equal(t, "prop1", d.Properties[0].ID)
	assert.Equal(t, "Miami", d.Properties[0].City)
	assert.Len(t, d.Holdings, 2)
	assert.Len(t, d.RentPayments, 2)
	assert.Len(t, d.Insights, 3)
	assert.Len(t, d.SmartPicks, 2)
	assert.Equal(t, []string{"prop1", "prop3"}, d.UserWishlist)
	assert.Equal(t, "1", d.MockUser.ID)

	for _, p := range d.Properties {
		assert.LessOrEqual(t, p.SoldTokens, p.TotalTokens, p.ID)
		assert.GreaterOrEqual(t, p.TokenPrice, 0.0, p.ID)
		assert.LessOrEqual(t, p.TokenPrice, 1000.0, p.ID)
		assert.GreaterOrEqual(t, p.AnnualYield, 0.0, p.ID)
		assert.LessOrEqual(t, p.AnnualYield, 15.0, p.ID)
	}
}

func TestParseRejectsOversold(t *testing.T) {
	props := []byte(`
properties:
  - id: x
    total_tokens: 10
    sold_tokens: 11
    status: active
`)
	_, err := seed.Parse(props, []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vendeu 11 de 10")
}

func TestParseRejectsConfidence(t *testing.T) {
	props := []byte(`
properties:
  - id: x
    total_tokens: 10
    sold_tokens: 1
    status: active
`)
	fixtures := []byte(`
insights:
  - id: i1
    confidence: 1.5
`)
	_, err := seed.Parse(props, fixtures)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confiança")
}

func TestParseRejectsDuplicates(t *testing.T) {
	props := []byte(`
properties:
  - {id: x, total_tokens: 10, sold_tokens: 1, status: active}
  - {id: x, total_tokens: 10, sold_tokens: 1, status: active}
`)
	_, err := seed.Parse(props, []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicado")
}
