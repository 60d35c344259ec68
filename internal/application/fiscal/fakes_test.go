package fiscal_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/nuvemfiscal"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/logger"
)

// logTeste logger silencioso para os casos de uso.
func logTeste() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ──────────────────────────────────────────────────────────────────────────────
// Fake do gateway
// ──────────────────────────────────────────────────────────────────────────────

// gatewayFake implementa GatewayEmpresas e GatewayNotas. Cada método registra
// a chamada e delega para o hook configurado; sem hook, devolve sucesso.
type gatewayFake struct {
	mu       sync.Mutex
	chamadas []string

	criarEmpresaFn     func(ambiente string, emp nuvemfiscal.EmpresaGateway) error
	atualizarEmpresaFn func(ambiente, cnpj string, emp nuvemfiscal.EmpresaGateway) error
	configurarNfceFn   func(ambiente, cnpj string, cfg nuvemfiscal.ConfigNfce) error
	atualizarNfseFn    func(ambiente, cnpj string, cfg nuvemfiscal.ConfigNfse) error
	criarNfseFn        func(ambiente, cnpj string, cfg nuvemfiscal.ConfigNfse) error

	emitirNfceFn   func(ambiente string, pedido *nuvemfiscal.NfcePedido) (*nuvemfiscal.Resposta, error)
	emitirNfseFn   func(ambiente string, pedido *nuvemfiscal.NfsePedido) (*nuvemfiscal.Resposta, error)
	consultarFn    func(tipo, ambiente, gatewayID string) (*nuvemfiscal.Resposta, error)
	cancelarNfceFn func(ambiente, gatewayID, justificativa string) (*nuvemfiscal.Resposta, error)
	cancelarNfseFn func(ambiente, gatewayID, codigoMotivo, motivo string) (*nuvemfiscal.Resposta, error)
	baixarFn       func(ambiente, urlArtefato string) ([]byte, error)
}

func (g *gatewayFake) registrar(nome string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.chamadas = append(g.chamadas, nome)
}

// conta devolve quantas vezes o método foi chamado.
func (g *gatewayFake) conta(nome string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.chamadas {
		if c == nome {
			n++
		}
	}
	return n
}

// totalChamadas devolve o número total de chamadas ao gateway.
func (g *gatewayFake) totalChamadas() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.chamadas)
}

func (g *gatewayFake) CriarEmpresa(_ context.Context, ambiente string, emp nuvemfiscal.EmpresaGateway) error {
	g.registrar("CriarEmpresa")
	if g.criarEmpresaFn != nil {
		return g.criarEmpresaFn(ambiente, emp)
	}
	return nil
}

func (g *gatewayFake) AtualizarEmpresa(_ context.Context, ambiente, cnpj string, emp nuvemfiscal.EmpresaGateway) error {
	g.registrar("AtualizarEmpresa")
	if g.atualizarEmpresaFn != nil {
		return g.atualizarEmpresaFn(ambiente, cnpj, emp)
	}
	return nil
}

func (g *gatewayFake) ConfigurarNfce(_ context.Context, ambiente, cnpj string, cfg nuvemfiscal.ConfigNfce) error {
	g.registrar("ConfigurarNfce")
	if g.configurarNfceFn != nil {
		return g.configurarNfceFn(ambiente, cnpj, cfg)
	}
	return nil
}

func (g *gatewayFake) AtualizarConfigNfse(_ context.Context, ambiente, cnpj string, cfg nuvemfiscal.ConfigNfse) error {
	g.registrar("AtualizarConfigNfse")
	if g.atualizarNfseFn != nil {
		return g.atualizarNfseFn(ambiente, cnpj, cfg)
	}
	return nil
}

func (g *gatewayFake) CriarConfigNfse(_ context.Context, ambiente, cnpj string, cfg nuvemfiscal.ConfigNfse) error {
	g.registrar("CriarConfigNfse")
	if g.criarNfseFn != nil {
		return g.criarNfseFn(ambiente, cnpj, cfg)
	}
	return nil
}

func (g *gatewayFake) EmitirNfce(_ context.Context, ambiente string, pedido *nuvemfiscal.NfcePedido) (*nuvemfiscal.Resposta, error) {
	g.registrar("EmitirNfce")
	if g.emitirNfceFn != nil {
		return g.emitirNfceFn(ambiente, pedido)
	}
	return &nuvemfiscal.Resposta{ID: "gw-nfce", Status: nuvemfiscal.GatewayStatusAutorizado}, nil
}

func (g *gatewayFake) EmitirNfse(_ context.Context, ambiente string, pedido *nuvemfiscal.NfsePedido) (*nuvemfiscal.Resposta, error) {
	g.registrar("EmitirNfse")
	if g.emitirNfseFn != nil {
		return g.emitirNfseFn(ambiente, pedido)
	}
	return &nuvemfiscal.Resposta{ID: "gw-nfse", Status: nuvemfiscal.GatewayStatusProcessando}, nil
}

func (g *gatewayFake) ConsultarNfce(_ context.Context, ambiente, gatewayID string) (*nuvemfiscal.Resposta, error) {
	g.registrar("ConsultarNfce")
	if g.consultarFn != nil {
		return g.consultarFn(entity.TipoNfce, ambiente, gatewayID)
	}
	return &nuvemfiscal.Resposta{ID: gatewayID, Status: nuvemfiscal.GatewayStatusAutorizado}, nil
}

func (g *gatewayFake) ConsultarNfse(_ context.Context, ambiente, gatewayID string) (*nuvemfiscal.Resposta, error) {
	g.registrar("ConsultarNfse")
	if g.consultarFn != nil {
		return g.consultarFn(entity.TipoNfse, ambiente, gatewayID)
	}
	return &nuvemfiscal.Resposta{ID: gatewayID, Status: nuvemfiscal.GatewayStatusAutorizado}, nil
}

func (g *gatewayFake) CancelarNfce(_ context.Context, ambiente, gatewayID, justificativa string) (*nuvemfiscal.Resposta, error) {
	g.registrar("CancelarNfce")
	if g.cancelarNfceFn != nil {
		return g.cancelarNfceFn(ambiente, gatewayID, justificativa)
	}
	return &nuvemfiscal.Resposta{ID: gatewayID, Status: "cancelado"}, nil
}

func (g *gatewayFake) CancelarNfse(_ context.Context, ambiente, gatewayID, codigoMotivo, motivo string) (*nuvemfiscal.Resposta, error) {
	g.registrar("CancelarNfse")
	if g.cancelarNfseFn != nil {
		return g.cancelarNfseFn(ambiente, gatewayID, codigoMotivo, motivo)
	}
	return &nuvemfiscal.Resposta{ID: gatewayID, Status: "cancelado"}, nil
}

func (g *gatewayFake) BaixarArtefato(_ context.Context, ambiente, urlArtefato string) ([]byte, error) {
	g.registrar("BaixarArtefato")
	if g.baixarFn != nil {
		return g.baixarFn(ambiente, urlArtefato)
	}
	return []byte("artefato"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de repositório (em memória, cópias defensivas)
// ──────────────────────────────────────────────────────────────────────────────

type notaRepoFake struct {
	mu        sync.Mutex
	notas     map[string]entity.NotaFiscal
	numeracao map[string]int64
}

func novoNotaRepoFake() *notaRepoFake {
	return &notaRepoFake{
		notas:     map[string]entity.NotaFiscal{},
		numeracao: map[string]int64{},
	}
}

func (r *notaRepoFake) Criar(_ context.Context, nota *entity.NotaFiscal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notas[nota.ID]; ok {
		return domain.ErrDuplicado
	}
	r.notas[nota.ID] = *nota
	return nil
}

func (r *notaRepoFake) Atualizar(_ context.Context, nota *entity.NotaFiscal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notas[nota.ID]; !ok {
		return domain.ErrNaoEncontrado
	}
	r.notas[nota.ID] = *nota
	return nil
}

func (r *notaRepoFake) BuscarPorID(_ context.Context, id string) (*entity.NotaFiscal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notas[id]
	if !ok {
		return nil, nil
	}
	copia := n
	return &copia, nil
}

func (r *notaRepoFake) ListarPorOrganizacao(_ context.Context, organizationID string, limit, offset int) ([]*entity.NotaFiscal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.NotaFiscal
	for _, n := range r.notas {
		if n.OrganizationID == organizationID {
			copia := n
			out = append(out, &copia)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notaRepoFake) ProximoNumero(_ context.Context, organizationID, tipo, serie string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chave := organizationID + "/" + tipo + "/" + serie
	r.numeracao[chave]++
	return r.numeracao[chave], nil
}

// semear grava uma nota diretamente, sem passar pelo fluxo de emissão.
func (r *notaRepoFake) semear(nota entity.NotaFiscal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notas[nota.ID] = nota
}

// estado devolve a nota como está persistida.
func (r *notaRepoFake) estado(id string) entity.NotaFiscal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notas[id]
}

type empresaRepoFake struct {
	mu       sync.Mutex
	empresas map[string]entity.EmpresaFiscal // por organização
}

func novoEmpresaRepoFake() *empresaRepoFake {
	return &empresaRepoFake{empresas: map[string]entity.EmpresaFiscal{}}
}

func (r *empresaRepoFake) Salvar(_ context.Context, empresa *entity.EmpresaFiscal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for org, e := range r.empresas {
		if org == empresa.OrganizationID || e.CNPJ != empresa.CNPJ {
			continue
		}
		if org != "" {
			return domain.ErrDuplicado
		}
		// Linha pré-provisionada adotada: sai da chave vazia.
		delete(r.empresas, org)
	}
	r.empresas[empresa.OrganizationID] = *empresa
	return nil
}

func (r *empresaRepoFake) BuscarPorOrganizacao(_ context.Context, organizationID string) (*entity.EmpresaFiscal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.empresas[organizationID]
	if !ok {
		return nil, nil
	}
	copia := e
	return &copia, nil
}

func (r *empresaRepoFake) BuscarPorCNPJ(_ context.Context, cnpj string) (*entity.EmpresaFiscal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.empresas {
		if e.CNPJ == cnpj {
			copia := e
			return &copia, nil
		}
	}
	return nil, nil
}
