package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Perfil fiscal ─────────────────────────────────────────────────────────────

// EnderecoDTO endereço completo com código IBGE do município.
type EnderecoDTO struct {
	Logradouro      string `json:"logradouro"`
	Numero          string `json:"numero"`
	Complemento     string `json:"complemento,omitempty"`
	Bairro          string `json:"bairro"`
	CodigoMunicipio string `json:"codigo_municipio"`
	Municipio       string `json:"municipio"`
	UF              string `json:"uf"`
	CEP             string `json:"cep"`
}

// CredenciaisDTO segredos de um ambiente. Na leitura sempre voltam mascarados;
// mandar o valor mascarado de volta significa "não alterar".
type CredenciaisDTO struct {
	CscID     string `json:"csc_id,omitempty"`
	CscToken  string `json:"csc_token,omitempty"`
	NfseLogin string `json:"nfse_login,omitempty"`
	NfseSenha string `json:"nfse_senha,omitempty"`
}

// EmpresaFiscalRequest cadastro/atualização do perfil fiscal do emitente.
type EmpresaFiscalRequest struct {
	CNPJ               string      `json:"cnpj"`
	RazaoSocial        string      `json:"razao_social"`
	NomeFantasia       string      `json:"nome_fantasia,omitempty"`
	InscricaoEstadual  string      `json:"inscricao_estadual,omitempty"`
	InscricaoMunicipal string      `json:"inscricao_municipal,omitempty"`
	RegimeTributario   string      `json:"regime_tributario,omitempty"` // CRT; padrão "1" (Simples)
	Endereco           EnderecoDTO `json:"endereco"`
	Fone               string      `json:"fone,omitempty"`
	Email              string      `json:"email,omitempty"`

	EmitirNfce bool `json:"emitir_nfce"`
	EmitirNfse bool `json:"emitir_nfse"`

	SerieNfce         string `json:"serie_nfce,omitempty"`
	AliquotaIssPadrao string `json:"aliquota_iss_padrao,omitempty"`

	Producao    CredenciaisDTO `json:"producao"`
	Homologacao CredenciaisDTO `json:"homologacao"`
}

// AmbienteResultado desfecho da configuração de um ambiente no gateway.
// Os dois ambientes são configurados de forma independente: um pode falhar
// sem impedir o outro.
type AmbienteResultado struct {
	Ambiente string `json:"ambiente"`
	Sucesso  bool   `json:"sucesso"`
	Mensagem string `json:"mensagem,omitempty"`
}

// RegistroEmpresaResponse resultado agregado do registro.
type RegistroEmpresaResponse struct {
	Mensagem  string              `json:"mensagem"`
	Ambientes []AmbienteResultado `json:"ambientes"`
}

// EmpresaFiscalResponse leitura do perfil; segredos sempre mascarados.
type EmpresaFiscalResponse struct {
	ID                 string      `json:"id"`
	CNPJ               string      `json:"cnpj"`
	RazaoSocial        string      `json:"razao_social"`
	NomeFantasia       string      `json:"nome_fantasia,omitempty"`
	InscricaoEstadual  string      `json:"inscricao_estadual,omitempty"`
	InscricaoMunicipal string      `json:"inscricao_municipal,omitempty"`
	RegimeTributario   string      `json:"regime_tributario"`
	Endereco           EnderecoDTO `json:"endereco"`
	Fone               string      `json:"fone,omitempty"`
	Email              string      `json:"email,omitempty"`
	EmitirNfce         bool        `json:"emitir_nfce"`
	EmitirNfse         bool        `json:"emitir_nfse"`
	SerieNfce          string      `json:"serie_nfce,omitempty"`
	AliquotaIssPadrao  string      `json:"aliquota_iss_padrao,omitempty"`

	Producao    CredenciaisDTO `json:"producao"`
	Homologacao CredenciaisDTO `json:"homologacao"`
}

// ── Emissão ───────────────────────────────────────────────────────────────────

// ItemVendaRequest linha de mercadoria da NFC-e.
type ItemVendaRequest struct {
	Codigo        string          `json:"codigo,omitempty"`
	Descricao     string          `json:"descricao"`
	NCM           string          `json:"ncm,omitempty"`
	CFOP          string          `json:"cfop,omitempty"`
	Unidade       string          `json:"unidade,omitempty"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
}

// EmitirNfceRequest emissão de cupom fiscal de mercadorias.
type EmitirNfceRequest struct {
	OrdemServicoID     string             `json:"ordem_servico_id,omitempty"`
	Ambiente           string             `json:"ambiente,omitempty"` // padrão homologacao
	CompradorDocumento string             `json:"comprador_documento,omitempty"`
	CompradorNome      string             `json:"comprador_nome,omitempty"`
	Itens              []ItemVendaRequest `json:"itens"`
	MeioPagamento      string             `json:"meio_pagamento,omitempty"` // código fiscal; padrão "01" dinheiro
	ValorPago          decimal.Decimal    `json:"valor_pago"`
}

// ItemServicoRequest serviço prestado na NFS-e.
type ItemServicoRequest struct {
	Codigo      string          `json:"codigo"` // LC 116, ex.: "14.01"
	Descricao   string          `json:"descricao"`
	Valor       decimal.Decimal `json:"valor"`
	AliquotaIss decimal.Decimal `json:"aliquota_iss,omitempty"`
}

// TomadorRequest tomador do serviço.
type TomadorRequest struct {
	Documento string       `json:"documento,omitempty"`
	Nome      string       `json:"nome,omitempty"`
	Endereco  *EnderecoDTO `json:"endereco,omitempty"`
}

// EmitirNfseRequest emissão de nota de serviço.
type EmitirNfseRequest struct {
	OrdemServicoID string               `json:"ordem_servico_id,omitempty"`
	Ambiente       string               `json:"ambiente,omitempty"`
	Tomador        *TomadorRequest      `json:"tomador,omitempty"`
	Servicos       []ItemServicoRequest `json:"servicos"`
}

// CancelarNotaRequest cancelamento com justificativa.
type CancelarNotaRequest struct {
	Justificativa string `json:"justificativa,omitempty"`
}

// NotaFiscalResponse estado de uma nota do razão. status "processando" ainda
// não é final: não apresentar como sucesso nem como falha.
type NotaFiscalResponse struct {
	ID             string          `json:"id"`
	OrdemServicoID string          `json:"ordem_servico_id,omitempty"`
	Tipo           string          `json:"tipo"`
	Ambiente       string          `json:"ambiente"`
	Status         string          `json:"status"`
	ValorTotal     decimal.Decimal `json:"valor_total"`
	Numero         string          `json:"numero,omitempty"`
	Serie          string          `json:"serie,omitempty"`
	ChaveAcesso    string          `json:"chave_acesso,omitempty"`
	URLXml         string          `json:"url_xml,omitempty"`
	URLPdf         string          `json:"url_pdf,omitempty"`
	MensagemErro   string          `json:"mensagem_erro,omitempty"`
	MotivoRejeicao string          `json:"motivo_rejeicao,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NotaFiscalListResponse lista paginada de notas do tenant.
type NotaFiscalListResponse struct {
	Items []NotaFiscalResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
