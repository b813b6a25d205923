package models

import (
	"time"

	"github.com/google/uuid"
)

// TipoImovel represents the property type
type TipoImovel string

const (
	TipoImovelCasa        TipoImovel = "casa"
	TipoImovelApartamento TipoImovel = "apartamento"
	TipoImovelTerreno     TipoImovel = "terreno"
	TipoImovelComercial   TipoImovel = "comercial"
)

// Valid reports whether the value is a known property type
func (t TipoImovel) Valid() bool {
	switch t {
	case TipoImovelCasa, TipoImovelApartamento, TipoImovelTerreno, TipoImovelComercial:
		return true
	}
	return false
}

// TipoNegocio represents the deal type
type TipoNegocio string

const (
	TipoNegocioVenda   TipoNegocio = "venda"
	TipoNegocioAluguel TipoNegocio = "aluguel"
)

// Valid reports whether the value is a known deal type
func (t TipoNegocio) Valid() bool {
	return t == TipoNegocioVenda || t == TipoNegocioAluguel
}

// Imovel represents a property listing
type Imovel struct {
	ID          uuid.UUID   `json:"id"`
	Titulo      string      `json:"titulo"`
	Descricao   string      `json:"descricao"`
	TipoImovel  TipoImovel  `json:"tipo_imovel"`
	TipoNegocio TipoNegocio `json:"tipo_negocio"`

	// Prices: exactly one is active depending on TipoNegocio
	PrecoVenda   *float64 `json:"preco_venda"`
	ValorAluguel *float64 `json:"valor_aluguel"`

	// Attributes
	AreaTotal      float64  `json:"area_total"`
	AreaConstruida *float64 `json:"area_construida"`
	Quartos        int      `json:"quartos"`
	Banheiros      int      `json:"banheiros"`
	VagasGaragem   int      `json:"vagas_garagem"`

	// Address
	Rua         string  `json:"rua"`
	Numero      string  `json:"numero"`
	Complemento *string `json:"complemento"`
	Bairro      string  `json:"bairro"`
	Cidade      string  `json:"cidade"`
	Estado      string  `json:"estado"`
	CEP         string  `json:"cep"`

	// Amenities
	Piscina    bool `json:"piscina"`
	AceitaPets bool `json:"aceita_pets"`
	Mobiliado  bool `json:"mobiliado"`
	Destaque   bool `json:"destaque"`

	CriadoEm     time.Time  `json:"criado_em"`
	AtualizadoEm *time.Time `json:"atualizado_em"`

	Imagens []ImovelImagem `json:"imagens"`
}

// Preco returns the effective price for the deal type. A missing price
// resolves to zero, matching the public listing payload.
func (i *Imovel) Preco() float64 {
	if i.TipoNegocio == TipoNegocioVenda {
		if i.PrecoVenda != nil {
			return *i.PrecoVenda
		}
		return 0
	}
	if i.ValorAluguel != nil {
		return *i.ValorAluguel
	}
	return 0
}

// ImagemPrincipal returns the URL of the representative image: the one
// flagged principal, else the first by stored order, else nil.
func (i *Imovel) ImagemPrincipal() *string {
	for idx := range i.Imagens {
		if i.Imagens[idx].Principal {
			return &i.Imagens[idx].ImagemURL
		}
	}
	if len(i.Imagens) > 0 {
		return &i.Imagens[0].ImagemURL
	}
	return nil
}

// ImovelImagem represents an image attached to a listing
type ImovelImagem struct {
	ID        uuid.UUID `json:"id"`
	ImovelID  uuid.UUID `json:"imovel_id"`
	ImagemURL string    `json:"imagem_url"`
	Ordem     int       `json:"ordem"`
	Principal bool      `json:"principal"`
	CreatedAt time.Time `json:"created_at"`
}
