package nuvemfiscal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
)

// ProvedorToken fornece o bearer token do gateway, escopado por ambiente.
// Implementação concreta abaixo; para testes injeta-se um fake.
type ProvedorToken interface {
	Token(ctx context.Context, ambiente string) (string, error)
}

// CredencialOAuth par client_credentials de um ambiente.
type CredencialOAuth struct {
	ClientID     string
	ClientSecret string
}

// TokenOAuth obtém tokens via client_credentials e os guarda em cache até
// perto da expiração. Produção e homologação têm credenciais independentes.
type TokenOAuth struct {
	httpClient  *http.Client
	urlAuth     string
	credenciais map[string]CredencialOAuth // por ambiente

	mu    sync.Mutex
	cache map[string]tokenCacheado
}

type tokenCacheado struct {
	valor  string
	expira time.Time
}

// NewTokenOAuth constrói o provedor com credenciais para os dois ambientes.
func NewTokenOAuth(urlAuth string, producao, homologacao CredencialOAuth) *TokenOAuth {
	return &TokenOAuth{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		urlAuth:    urlAuth,
		credenciais: map[string]CredencialOAuth{
			entity.AmbienteProducao:    producao,
			entity.AmbienteHomologacao: homologacao,
		},
		cache: make(map[string]tokenCacheado),
	}
}

// Token devolve um bearer token válido para o ambiente, reusando o cache
// enquanto não expirar.
func (t *TokenOAuth) Token(ctx context.Context, ambiente string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.cache[ambiente]; ok && time.Now().Before(c.expira) {
		return c.valor, nil
	}

	cred, ok := t.credenciais[ambiente]
	if !ok || cred.ClientID == "" || cred.ClientSecret == "" {
		return "", fmt.Errorf("token: credenciais OAuth não configuradas para o ambiente %q", ambiente)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "empresa nfce nfse")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.urlAuth,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("token: criar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(cred.ClientID, cred.ClientSecret)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token: chamada HTTP falhou: %w", err)
	}
	defer resp.Body.Close()

	corpo, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("token: ler resposta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", novoErroGateway(resp.StatusCode, corpo)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(corpo, &body); err != nil || body.AccessToken == "" {
		return "", fmt.Errorf("token: resposta fora do formato esperado: %s", string(corpo))
	}

	// renova 60 s antes de expirar
	expira := time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	t.cache[ambiente] = tokenCacheado{valor: body.AccessToken, expira: expira}
	return body.AccessToken, nil
}
