package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestImovelPreco(t *testing.T) {
	tests := []struct {
		name     string
		imovel   Imovel
		expected float64
	}{
		{
			name:     "venda uses preco_venda",
			imovel:   Imovel{TipoNegocio: TipoNegocioVenda, PrecoVenda: floatPtr(350000), ValorAluguel: floatPtr(1500)},
			expected: 350000,
		},
		{
			name:     "aluguel uses valor_aluguel",
			imovel:   Imovel{TipoNegocio: TipoNegocioAluguel, PrecoVenda: floatPtr(350000), ValorAluguel: floatPtr(1500)},
			expected: 1500,
		},
		{
			name:     "venda without price resolves to zero",
			imovel:   Imovel{TipoNegocio: TipoNegocioVenda},
			expected: 0,
		},
		{
			name:     "aluguel without price resolves to zero",
			imovel:   Imovel{TipoNegocio: TipoNegocioAluguel},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.imovel.Preco())
		})
	}
}

func TestImovelImagemPrincipal(t *testing.T) {
	id := uuid.New()

	t.Run("no images returns nil", func(t *testing.T) {
		imovel := Imovel{ID: id}
		assert.Nil(t, imovel.ImagemPrincipal())
	})

	t.Run("flagged image wins over order", func(t *testing.T) {
		imovel := Imovel{ID: id, Imagens: []ImovelImagem{
			{ImagemURL: "/uploads/a.jpg", Ordem: 0},
			{ImagemURL: "/uploads/b.jpg", Ordem: 1, Principal: true},
		}}
		url := imovel.ImagemPrincipal()
		assert.NotNil(t, url)
		assert.Equal(t, "/uploads/b.jpg", *url)
	})

	t.Run("falls back to first image", func(t *testing.T) {
		imovel := Imovel{ID: id, Imagens: []ImovelImagem{
			{ImagemURL: "/uploads/a.jpg", Ordem: 0},
			{ImagemURL: "/uploads/b.jpg", Ordem: 1},
		}}
		url := imovel.ImagemPrincipal()
		assert.NotNil(t, url)
		assert.Equal(t, "/uploads/a.jpg", *url)
	})
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, TipoImovelCasa.Valid())
	assert.True(t, TipoNegocioAluguel.Valid())
	assert.False(t, TipoImovel("mansao").Valid())
	assert.False(t, TipoNegocio("leilao").Valid())

	assert.True(t, LeadStatusVisitaAgendada.Valid())
	assert.False(t, LeadStatus("pendente").Valid())

	assert.True(t, VisitaStatusRealizada.Valid())
	assert.False(t, VisitaStatus("remarcada").Valid())
}
