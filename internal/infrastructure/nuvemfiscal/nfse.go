package nuvemfiscal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/fiscal"
)

// aliquotaIssPadrao é o fallback quando nem o serviço nem o perfil definem a
// alíquota. Valor usual de municípios para serviços de reparação no Simples.
const aliquotaIssPadrao = "2.00"

// ── Entrada do builder ────────────────────────────────────────────────────────

// ItemServico é um serviço prestado na ordem.
type ItemServico struct {
	Codigo      string // código LC 116, ex.: "14.01"
	Descricao   string
	Valor       decimal.Decimal
	AliquotaIss decimal.Decimal // zero = usar a alíquota padrão do perfil
}

// TomadorServico identifica quem contratou o serviço.
type TomadorServico struct {
	Documento string // CPF ou CNPJ
	Nome      string
	Endereco  *entity.Endereco // obrigatório para alguns municípios
}

// ── Payload (esquema do gateway) ──────────────────────────────────────────────

// NfsePedido é o pedido de emissão de DPS no esquema do gateway.
type NfsePedido struct {
	Ambiente string `json:"ambiente"`
	InfDPS   InfDPS `json:"infDPS"`
}

// InfDPS declaração de prestação de serviço.
type InfDPS struct {
	TpAmb   int          `json:"tpAmb"`
	DhEmi   string       `json:"dhEmi"`
	Serie   string       `json:"serie"`
	NDPS    int64        `json:"nDPS"`
	CLocEmi string       `json:"cLocEmi"` // localidade do emitente no gateway (com override municipal)
	Prest   Prestador    `json:"prest"`
	Toma    *Tomador     `json:"toma,omitempty"`
	Serv    ServicoDPS   `json:"serv"`
	Valores ValoresNfse `json:"valores"`
}

// Prestador bloco do prestador.
type Prestador struct {
	CNPJ               string `json:"CNPJ"`
	InscricaoMunicipal string `json:"IM,omitempty"`
	XNome              string `json:"xNome"`
}

// Tomador bloco do tomador, endereço incluso quando o município exige.
type Tomador struct {
	CPF      string           `json:"CPF,omitempty"`
	CNPJ     string           `json:"CNPJ,omitempty"`
	XNome    string           `json:"xNome"`
	Endereco *EnderecoGateway `json:"end,omitempty"`
}

// ServicoDPS bloco do serviço: os dois códigos normalizados e a descrição
// única do documento.
type ServicoDPS struct {
	CTribNac  string `json:"cTribNac"`
	CTribMun  string `json:"cTribMun"`
	CLocIncid string `json:"cLocIncid"` // município de incidência do ISS
	XDescServ string `json:"xDescServ"`
}

// ValoresNfse valores do serviço e bloco tributário.
type ValoresNfse struct {
	VServ float64 `json:"vServ"`
	Trib  TribIss `json:"trib"`
}

// TribIss ISS: não retido e zerado na retenção, premissa de Simples Nacional.
type TribIss struct {
	PAliq      float64 `json:"pAliq"`
	TpRetISSQN int     `json:"tpRetISSQN"` // 1 = não retido
	VRetISSQN  float64 `json:"vRetISSQN"`
}

// ── Builder ───────────────────────────────────────────────────────────────────

// MontarNfse transforma os serviços da ordem no documento de prestação de
// serviço do gateway. O esquema aceita uma descrição por documento, então as
// descrições dos itens são concatenadas com seus valores num texto único.
// Função pura: nenhum I/O, erro apenas por entrada obrigatória ausente.
func MontarNfse(
	empresa *entity.EmpresaFiscal,
	tomador *TomadorServico,
	servicos []ItemServico,
	ambiente string,
	numero int64,
	agora time.Time,
) (*NfsePedido, error) {
	if empresa == nil {
		return nil, fmt.Errorf("montar nfse: perfil fiscal ausente")
	}
	if len(servicos) == 0 {
		return nil, fmt.Errorf("montar nfse: nenhum serviço informado")
	}
	if empresa.CNPJ == "" || empresa.Endereco.CodigoMunicipio == "" {
		return nil, fmt.Errorf("montar nfse: perfil fiscal sem CNPJ ou município")
	}

	codigoMunicipio := fiscal.SomenteDigitos(empresa.Endereco.CodigoMunicipio)

	// O código de tributação segue o primeiro serviço; a normalização depende
	// do município do prestador (regra por município, ver pkg/fiscal).
	nacional, municipal := fiscal.NormalizarCodigoServico(codigoMunicipio, servicos[0].Codigo)

	total := decimal.Zero
	descricoes := make([]string, 0, len(servicos))
	for _, s := range servicos {
		valor := s.Valor.Round(2)
		total = total.Add(valor)
		descricoes = append(descricoes, fmt.Sprintf("%s (R$ %s)", s.Descricao, valor.StringFixed(2)))
	}

	aliquota := servicos[0].AliquotaIss
	if aliquota.IsZero() {
		aliquota = aliquotaPerfil(empresa)
	}

	tpAmb := 2
	if ambiente == entity.AmbienteProducao {
		tpAmb = 1
	}

	pedido := &NfsePedido{
		Ambiente: ambiente,
		InfDPS: InfDPS{
			TpAmb:   tpAmb,
			DhEmi:   agora.Format(time.RFC3339),
			Serie:   "1",
			NDPS:    numero,
			CLocEmi: fiscal.CodigoLocalidade(codigoMunicipio),
			Prest: Prestador{
				CNPJ:               fiscal.SomenteDigitos(empresa.CNPJ),
				InscricaoMunicipal: empresa.InscricaoMunicipal,
				XNome:              empresa.RazaoSocial,
			},
			Toma: tomadorDPS(tomador),
			Serv: ServicoDPS{
				CTribNac:  nacional,
				CTribMun:  municipal,
				CLocIncid: fiscal.CodigoLocalidade(codigoMunicipio),
				XDescServ: strings.Join(descricoes, "; "),
			},
			Valores: ValoresNfse{
				VServ: total.InexactFloat64(),
				Trib: TribIss{
					PAliq:      aliquota.InexactFloat64(),
					TpRetISSQN: 1,
					VRetISSQN:  0,
				},
			},
		},
	}
	return pedido, nil
}

func tomadorDPS(t *TomadorServico) *Tomador {
	if t == nil {
		return nil
	}
	doc := fiscal.SomenteDigitos(t.Documento)
	if doc == "" && t.Nome == "" {
		return nil
	}
	out := &Tomador{XNome: t.Nome}
	if len(doc) == 14 {
		out.CNPJ = doc
	} else if doc != "" {
		out.CPF = doc
	}
	if t.Endereco != nil {
		end := enderecoGateway(*t.Endereco)
		out.Endereco = &end
	}
	return out
}

// aliquotaPerfil resolve a alíquota padrão do perfil, com último fallback fixo.
func aliquotaPerfil(empresa *entity.EmpresaFiscal) decimal.Decimal {
	if empresa.AliquotaIssPad != "" {
		if d, err := decimal.NewFromString(empresa.AliquotaIssPad); err == nil && !d.IsZero() {
			return d
		}
	}
	d, _ := decimal.NewFromString(aliquotaIssPadrao)
	return d
}
