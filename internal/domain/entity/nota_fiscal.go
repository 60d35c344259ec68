package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
)

// Tipos de documento fiscal emitidos pelo sistema.
const (
	TipoNfce = "nfce" // cupom fiscal de venda de mercadorias (modelo 65)
	TipoNfse = "nfse" // nota de serviço, autorizada pela prefeitura
)

// Ambientes do gateway fiscal. Fixado na criação da nota e imutável depois.
const (
	AmbienteProducao    = "producao"
	AmbienteHomologacao = "homologacao"
)

// Estados do ciclo de vida de uma nota fiscal.
// processando → {autorizada, rejeitada, erro}; autorizada → cancelada;
// os demais são terminais. Nunca se volta a processando.
const (
	StatusProcessando = "processando"
	StatusAutorizada  = "autorizada"
	StatusRejeitada   = "rejeitada"
	StatusErro        = "erro"
	StatusCancelada   = "cancelada"
)

// transicoes é o grafo fechado de transições válidas de status.
var transicoes = map[string][]string{
	StatusProcessando: {StatusAutorizada, StatusRejeitada, StatusErro},
	StatusAutorizada:  {StatusCancelada},
}

// TransicaoValida informa se a mudança de status de uma nota é permitida.
// Repetir o mesmo status é permitido (reconsulta idempotente).
func TransicaoValida(de, para string) bool {
	if de == para {
		return true
	}
	for _, s := range transicoes[de] {
		if s == para {
			return true
		}
	}
	return false
}

// StatusTerminal informa se o status não admite mais transições de emissão.
// Autorizada ainda admite cancelamento, mas a emissão em si está concluída.
func StatusTerminal(status string) bool {
	return status != StatusProcessando
}

// NotaFiscal representa uma tentativa de emissão e seu ciclo de vida completo.
// Uma linha por tentativa; o payload enviado ao gateway fica gravado para
// auditoria e nunca é alterado após o envio.
type NotaFiscal struct {
	ID             string
	OrganizationID string
	OrdemServicoID string // vazio para emissões avulsas
	Tipo           string // TipoNfce | TipoNfse
	Ambiente       string // AmbienteProducao | AmbienteHomologacao
	Status         string

	Payload    string          // JSON exato enviado ao gateway (imutável)
	ValorTotal decimal.Decimal // total do documento, para listagem e recibo

	GatewayID   string // id do documento no gateway, usado na reconsulta e no cancelamento
	ChaveAcesso string
	Numero      string
	Serie       string
	URLXml      string // XML autorizado (representação estruturada)
	URLPdf      string // DANFE/DANFSe (representação legível)

	MensagemErro   string // populado apenas em StatusErro
	MotivoRejeicao string // populado apenas em StatusRejeitada (código + texto da autoridade)

	CreatedAt time.Time // base da janela de cancelamento
	UpdatedAt time.Time
}

// AlterarStatus aplica uma transição validando o grafo de ciclo de vida.
func (n *NotaFiscal) AlterarStatus(para string) error {
	if !TransicaoValida(n.Status, para) {
		return fmt.Errorf("%w: de %q para %q", domain.ErrTransicaoInvalida, n.Status, para)
	}
	n.Status = para
	return nil
}
