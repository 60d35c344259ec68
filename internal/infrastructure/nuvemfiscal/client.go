package nuvemfiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/fiscal"
)

// Client fala com a API REST do gateway fiscal. Cada ambiente tem URL base
// própria; todas as chamadas carregam o bearer token do ProvedorToken.
// O timeout de rede é generoso: a SEFAZ e as prefeituras podem demorar.
type Client struct {
	httpClient     *http.Client
	urlProducao    string
	urlHomologacao string
	tokens         ProvedorToken
}

// NewClient constrói o cliente do gateway.
func NewClient(urlProducao, urlHomologacao string, tokens ProvedorToken) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		urlProducao:    urlProducao,
		urlHomologacao: urlHomologacao,
		tokens:         tokens,
	}
}

func (c *Client) baseURL(ambiente string) string {
	if ambiente == entity.AmbienteProducao {
		return c.urlProducao
	}
	return c.urlHomologacao
}

// do executa uma chamada JSON autenticada. Respostas não-2xx viram *ErroGateway
// com o corpo estruturado quando parseável.
func (c *Client) do(ctx context.Context, ambiente, method, path string, in, out interface{}) error {
	token, err := c.tokens.Token(ctx, ambiente)
	if err != nil {
		return fmt.Errorf("obter token do gateway: %w", err)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("serializar payload: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL(ambiente)+path, body)
	if err != nil {
		return fmt.Errorf("criar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chamada HTTP ao gateway falhou: %w", err)
	}
	defer resp.Body.Close()

	corpo, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("ler resposta do gateway: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return novoErroGateway(resp.StatusCode, corpo)
	}
	if out != nil && len(corpo) > 0 {
		if err := json.Unmarshal(corpo, out); err != nil {
			// corpo fora do formato esperado: retido cru para diagnóstico
			return &ErroGateway{StatusHTTP: resp.StatusCode, Mensagem: "resposta fora do formato esperado", Corpo: string(corpo)}
		}
	}
	return nil
}

// ── Cadastro de empresa ───────────────────────────────────────────────────────

// CriarEmpresa registra o emitente no gateway. 409 indica que já existe.
func (c *Client) CriarEmpresa(ctx context.Context, ambiente string, emp EmpresaGateway) error {
	return c.do(ctx, ambiente, http.MethodPost, "/empresas", emp, nil)
}

// AtualizarEmpresa atualiza um emitente já registrado.
func (c *Client) AtualizarEmpresa(ctx context.Context, ambiente, cnpj string, emp EmpresaGateway) error {
	return c.do(ctx, ambiente, http.MethodPut, "/empresas/"+fiscal.SomenteDigitos(cnpj), emp, nil)
}

// ConfigurarNfce grava o código de segurança do contribuinte (CSC) do emitente.
func (c *Client) ConfigurarNfce(ctx context.Context, ambiente, cnpj string, cfg ConfigNfce) error {
	return c.do(ctx, ambiente, http.MethodPut, "/empresas/"+fiscal.SomenteDigitos(cnpj)+"/nfce", cfg, nil)
}

// AtualizarConfigNfse atualiza as credenciais de prefeitura; 404 quando o
// módulo ainda não foi criado (usar CriarConfigNfse).
func (c *Client) AtualizarConfigNfse(ctx context.Context, ambiente, cnpj string, cfg ConfigNfse) error {
	return c.do(ctx, ambiente, http.MethodPut, "/empresas/"+fiscal.SomenteDigitos(cnpj)+"/nfse", cfg, nil)
}

// CriarConfigNfse cria a configuração do módulo NFS-e do emitente.
func (c *Client) CriarConfigNfse(ctx context.Context, ambiente, cnpj string, cfg ConfigNfse) error {
	return c.do(ctx, ambiente, http.MethodPost, "/empresas/"+fiscal.SomenteDigitos(cnpj)+"/nfse", cfg, nil)
}

// ── Emissão, consulta e cancelamento ──────────────────────────────────────────

// EmitirNfce envia o cupom fiscal; a resposta pode vir autorizada, rejeitada
// ou ainda em processamento (campo status do corpo).
func (c *Client) EmitirNfce(ctx context.Context, ambiente string, pedido *NfcePedido) (*Resposta, error) {
	var out Resposta
	if err := c.do(ctx, ambiente, http.MethodPost, "/nfce", pedido, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EmitirNfse envia a DPS; a autorização de NFS-e é sempre assíncrona na
// prática, a resposta normalmente volta "processando".
func (c *Client) EmitirNfse(ctx context.Context, ambiente string, pedido *NfsePedido) (*Resposta, error) {
	var out Resposta
	if err := c.do(ctx, ambiente, http.MethodPost, "/nfse/dps", pedido, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConsultarNfce consulta o cupom pelo id devolvido na emissão.
func (c *Client) ConsultarNfce(ctx context.Context, ambiente, gatewayID string) (*Resposta, error) {
	var out Resposta
	if err := c.do(ctx, ambiente, http.MethodGet, "/nfce/"+gatewayID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConsultarNfse consulta o documento pelo id devolvido na emissão.
func (c *Client) ConsultarNfse(ctx context.Context, ambiente, gatewayID string) (*Resposta, error) {
	var out Resposta
	if err := c.do(ctx, ambiente, http.MethodGet, "/nfse/"+gatewayID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelarNfce cancela um cupom autorizado com justificativa livre.
func (c *Client) CancelarNfce(ctx context.Context, ambiente, gatewayID, justificativa string) (*Resposta, error) {
	var out Resposta
	body := cancelamentoNfce{Justificativa: justificativa}
	if err := c.do(ctx, ambiente, http.MethodPost, "/nfce/"+gatewayID+"/cancelar", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelarNfse cancela uma NFS-e com código de motivo + texto.
func (c *Client) CancelarNfse(ctx context.Context, ambiente, gatewayID, codigoMotivo, motivo string) (*Resposta, error) {
	var out Resposta
	body := cancelamentoNfse{CodigoMotivo: codigoMotivo, Motivo: motivo}
	if err := c.do(ctx, ambiente, http.MethodPost, "/nfse/"+gatewayID+"/cancelar", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BaixarArtefato baixa uma representação do documento (XML ou PDF) a partir da
// URL devolvida pelo gateway na autorização.
func (c *Client) BaixarArtefato(ctx context.Context, ambiente, urlArtefato string) ([]byte, error) {
	token, err := c.tokens.Token(ctx, ambiente)
	if err != nil {
		return nil, fmt.Errorf("obter token do gateway: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlArtefato, nil)
	if err != nil {
		return nil, fmt.Errorf("criar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("baixar artefato: %w", err)
	}
	defer resp.Body.Close()

	corpo, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("ler artefato: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, novoErroGateway(resp.StatusCode, corpo)
	}
	return corpo, nil
}
