package nuvemfiscal

import (
	"fmt"
	"strings"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
)

// Status de negócio devolvidos pelo gateway no campo "status" do corpo.
// Conjunto fechado: qualquer valor fora dele é tratado como transitório
// (ainda em processamento), nunca como sucesso ou falha.
const (
	GatewayStatusAutorizado  = "autorizado"
	GatewayStatusRejeitado   = "rejeitado"
	GatewayStatusProcessando = "processando"
)

// Autorizacao é o veredito da autoridade fiscal dentro de uma resposta 2xx.
type Autorizacao struct {
	CodigoStatus int    `json:"codigo_status"`
	MotivoStatus string `json:"motivo_status"`
}

// Resposta é o corpo de emissão/consulta de documento no gateway.
// HTTP 2xx não significa autorização: o campo Status decide.
type Resposta struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Numero      string       `json:"numero"`
	Serie       string       `json:"serie"`
	ChaveAcesso string       `json:"chave_acesso"`
	Autorizacao *Autorizacao `json:"autorizacao,omitempty"`
	URLXml      string       `json:"url_xml"`
	URLPdf      string       `json:"url_pdf"`
}

// Classificar reduz o status de negócio do gateway ao status do razão:
//
//	"autorizado" -> autorizada
//	"rejeitado"  -> rejeitada
//	qualquer outro (inclusive "processando") -> processando
func (r *Resposta) Classificar() string {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case GatewayStatusAutorizado:
		return entity.StatusAutorizada
	case GatewayStatusRejeitado:
		return entity.StatusRejeitada
	default:
		return entity.StatusProcessando
	}
}

// MotivoCompleto combina o código numérico da autoridade com o texto do
// motivo, no formato exigido para exibição ao operador.
func (r *Resposta) MotivoCompleto() string {
	if r.Autorizacao == nil {
		return ""
	}
	if r.Autorizacao.CodigoStatus == 0 {
		return r.Autorizacao.MotivoStatus
	}
	return fmt.Sprintf("%d - %s", r.Autorizacao.CodigoStatus, r.Autorizacao.MotivoStatus)
}

// ── Payloads de cadastro de empresa ───────────────────────────────────────────

// EnderecoGateway endereço no esquema do gateway.
type EnderecoGateway struct {
	Logradouro      string `json:"logradouro"`
	Numero          string `json:"numero"`
	Complemento     string `json:"complemento,omitempty"`
	Bairro          string `json:"bairro"`
	CodigoMunicipio string `json:"codigo_municipio"`
	CidadeNome      string `json:"cidade_nome"`
	UF              string `json:"uf"`
	CEP             string `json:"cep"`
}

// EmpresaGateway payload de cadastro/atualização de empresa no gateway.
type EmpresaGateway struct {
	CNPJ               string          `json:"cpf_cnpj"`
	RazaoSocial        string          `json:"razao_social"`
	NomeFantasia       string          `json:"nome_fantasia,omitempty"`
	InscricaoEstadual  string          `json:"inscricao_estadual,omitempty"`
	InscricaoMunicipal string          `json:"inscricao_municipal,omitempty"`
	Fone               string          `json:"fone,omitempty"`
	Email              string          `json:"email,omitempty"`
	Endereco           EnderecoGateway `json:"endereco"`
}

// ConfigNfce credenciais do módulo NFC-e (código de segurança do contribuinte).
type ConfigNfce struct {
	Ambiente string `json:"ambiente"`
	IDCsc    string `json:"sefaz_nfce_id_csc"`
	Csc      string `json:"sefaz_nfce_csc"`
}

// ConfigNfse credenciais do módulo NFS-e (prefeitura).
type ConfigNfse struct {
	Ambiente string `json:"ambiente"`
	Login    string `json:"prefeitura_login"`
	Senha    string `json:"prefeitura_senha"`
}

// ── Payloads de cancelamento ──────────────────────────────────────────────────

// cancelamentoNfce corpo do cancelamento de NFC-e: justificativa livre.
type cancelamentoNfce struct {
	Justificativa string `json:"justificativa"`
}

// cancelamentoNfse corpo do cancelamento de NFS-e: código de motivo + texto.
type cancelamentoNfse struct {
	CodigoMotivo string `json:"cod_motivo"`
	Motivo       string `json:"motivo"`
}
