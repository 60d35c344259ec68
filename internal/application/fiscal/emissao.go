package fiscal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/dto"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/repository"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/nuvemfiscal"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/logger"
)

// EmissaoUseCase emite NFC-e e NFS-e. O contrato central do fluxo: a linha da
// nota é criada em processando, com o payload de auditoria, ANTES de qualquer
// chamada ao gateway. A partir daí toda falha vira estado da nota, nunca uma
// emissão perdida.
type EmissaoUseCase struct {
	notaRepo    repository.NotaFiscalRepository
	empresaRepo repository.EmpresaFiscalRepository
	gateway     GatewayNotas
	reconsulta  *ReconsultaUseCase
	log         *logger.Logger
}

// NewEmissaoUseCase constrói o caso de uso.
func NewEmissaoUseCase(
	notaRepo repository.NotaFiscalRepository,
	empresaRepo repository.EmpresaFiscalRepository,
	gateway GatewayNotas,
	reconsulta *ReconsultaUseCase,
	log *logger.Logger,
) *EmissaoUseCase {
	return &EmissaoUseCase{
		notaRepo:    notaRepo,
		empresaRepo: empresaRepo,
		gateway:     gateway,
		reconsulta:  reconsulta,
		log:         log,
	}
}

// EmitirNfce emite o cupom fiscal de uma venda de mercadorias.
func (uc *EmissaoUseCase) EmitirNfce(ctx context.Context, organizationID string, req dto.EmitirNfceRequest) (*dto.NotaFiscalResponse, error) {
	empresa, ambiente, err := uc.prepararEmissao(ctx, organizationID, req.Ambiente, entity.TipoNfce)
	if err != nil {
		return nil, err
	}

	itens := make([]nuvemfiscal.ItemVenda, 0, len(req.Itens))
	total := decimal.Zero
	for _, it := range req.Itens {
		if !it.Quantidade.IsPositive() || !it.ValorUnitario.IsPositive() {
			return nil, fmt.Errorf("%w: quantidade e valor unitário devem ser positivos", domain.ErrEntradaInvalida)
		}
		total = total.Add(it.Quantidade.Mul(it.ValorUnitario).Round(2))
		itens = append(itens, nuvemfiscal.ItemVenda{
			Codigo:        it.Codigo,
			Descricao:     it.Descricao,
			NCM:           it.NCM,
			CFOP:          it.CFOP,
			Unidade:       it.Unidade,
			Quantidade:    it.Quantidade,
			ValorUnitario: it.ValorUnitario,
		})
	}

	var comprador *nuvemfiscal.Comprador
	if req.CompradorDocumento != "" || req.CompradorNome != "" {
		comprador = &nuvemfiscal.Comprador{Documento: req.CompradorDocumento, Nome: req.CompradorNome}
	}
	valorPago := req.ValorPago
	if valorPago.IsZero() {
		valorPago = total
	}

	// Número da sequência do tenant: duas emissões no mesmo instante nunca
	// compartilham número de documento.
	numero, err := uc.notaRepo.ProximoNumero(ctx, organizationID, entity.TipoNfce, nuvemfiscal.SerieNfce(empresa))
	if err != nil {
		return nil, fmt.Errorf("numerar documento: %w", err)
	}

	pedido, err := nuvemfiscal.MontarNfce(empresa, comprador, itens, nuvemfiscal.PagamentoVenda{
		Meio:  req.MeioPagamento,
		Valor: valorPago,
	}, ambiente, numero, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEntradaInvalida, err)
	}

	nota, err := uc.criarNota(ctx, organizationID, req.OrdemServicoID, entity.TipoNfce, ambiente, pedido, total)
	if err != nil {
		return nil, err
	}

	resp, errEmissao := uc.gateway.EmitirNfce(ctx, ambiente, pedido)
	uc.aplicarResposta(ctx, nota, resp, errEmissao)
	return respostaDaNota(nota), nil
}

// EmitirNfse emite a nota de serviço de uma ordem.
func (uc *EmissaoUseCase) EmitirNfse(ctx context.Context, organizationID string, req dto.EmitirNfseRequest) (*dto.NotaFiscalResponse, error) {
	empresa, ambiente, err := uc.prepararEmissao(ctx, organizationID, req.Ambiente, entity.TipoNfse)
	if err != nil {
		return nil, err
	}

	servicos := make([]nuvemfiscal.ItemServico, 0, len(req.Servicos))
	total := decimal.Zero
	for _, s := range req.Servicos {
		if !s.Valor.IsPositive() {
			return nil, fmt.Errorf("%w: valor do serviço deve ser positivo", domain.ErrEntradaInvalida)
		}
		total = total.Add(s.Valor.Round(2))
		servicos = append(servicos, nuvemfiscal.ItemServico{
			Codigo:      s.Codigo,
			Descricao:   s.Descricao,
			Valor:       s.Valor,
			AliquotaIss: s.AliquotaIss,
		})
	}

	var tomador *nuvemfiscal.TomadorServico
	if req.Tomador != nil {
		tomador = &nuvemfiscal.TomadorServico{
			Documento: req.Tomador.Documento,
			Nome:      req.Tomador.Nome,
		}
		if req.Tomador.Endereco != nil {
			end := enderecoDoDTO(*req.Tomador.Endereco)
			tomador.Endereco = &end
		}
	}

	numero, err := uc.notaRepo.ProximoNumero(ctx, organizationID, entity.TipoNfse, "1")
	if err != nil {
		return nil, fmt.Errorf("numerar documento: %w", err)
	}

	pedido, err := nuvemfiscal.MontarNfse(empresa, tomador, servicos, ambiente, numero, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEntradaInvalida, err)
	}

	nota, err := uc.criarNota(ctx, organizationID, req.OrdemServicoID, entity.TipoNfse, ambiente, pedido, total)
	if err != nil {
		return nil, err
	}

	resp, errEmissao := uc.gateway.EmitirNfse(ctx, ambiente, pedido)
	uc.aplicarResposta(ctx, nota, resp, errEmissao)
	return respostaDaNota(nota), nil
}

// prepararEmissao valida o ambiente e carrega o perfil fiscal com o módulo
// do tipo pedido ativo.
func (uc *EmissaoUseCase) prepararEmissao(ctx context.Context, organizationID, ambiente, tipo string) (*entity.EmpresaFiscal, string, error) {
	if organizationID == "" {
		return nil, "", domain.ErrNaoAutorizado
	}
	if ambiente == "" {
		ambiente = entity.AmbienteHomologacao
	}
	if ambiente != entity.AmbienteProducao && ambiente != entity.AmbienteHomologacao {
		return nil, "", fmt.Errorf("%w: ambiente %q desconhecido", domain.ErrEntradaInvalida, ambiente)
	}

	empresa, err := uc.empresaRepo.BuscarPorOrganizacao(ctx, organizationID)
	if err != nil {
		return nil, "", err
	}
	if empresa == nil {
		return nil, "", fmt.Errorf("%w: organização sem perfil fiscal cadastrado", domain.ErrConfiguracaoFiscal)
	}
	if tipo == entity.TipoNfce && !empresa.EmitirNfce {
		return nil, "", fmt.Errorf("%w: emissão de nfce desativada para a organização", domain.ErrConfiguracaoFiscal)
	}
	if tipo == entity.TipoNfse && !empresa.EmitirNfse {
		return nil, "", fmt.Errorf("%w: emissão de nfse desativada para a organização", domain.ErrConfiguracaoFiscal)
	}
	return empresa, ambiente, nil
}

// criarNota persiste a linha inicial da tentativa com o payload exato que será
// enviado. Se a persistência falha, a emissão não acontece.
func (uc *EmissaoUseCase) criarNota(ctx context.Context, organizationID, ordemServicoID, tipo, ambiente string, pedido interface{}, total decimal.Decimal) (*entity.NotaFiscal, error) {
	payload, err := json.Marshal(pedido)
	if err != nil {
		return nil, fmt.Errorf("serializar payload: %w", err)
	}
	agora := time.Now()
	nota := &entity.NotaFiscal{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		OrdemServicoID: ordemServicoID,
		Tipo:           tipo,
		Ambiente:       ambiente,
		Status:         entity.StatusProcessando,
		Payload:        string(payload),
		ValorTotal:     total,
		CreatedAt:      agora,
		UpdatedAt:      agora,
	}
	if err := uc.notaRepo.Criar(ctx, nota); err != nil {
		return nil, fmt.Errorf("persistir nota: %w", err)
	}
	return nota, nil
}

// aplicarResposta traduz o desfecho da chamada de emissão em estado da nota e
// persiste. Erro de transporte, de persistência ou resposta rejeitada nunca
// sobem como erro: a linha já existe e carrega o desfecho.
func (uc *EmissaoUseCase) aplicarResposta(ctx context.Context, nota *entity.NotaFiscal, resp *nuvemfiscal.Resposta, errEmissao error) {
	if errEmissao != nil {
		if err := nota.AlterarStatus(entity.StatusErro); err == nil {
			nota.MensagemErro = errEmissao.Error()
		}
		uc.log.Warn().Err(errEmissao).Str("nota_id", nota.ID).Str("tipo", nota.Tipo).Msg("emissão falhou no gateway")
	} else {
		preencherDaResposta(nota, resp)
		switch resp.Classificar() {
		case entity.StatusAutorizada:
			_ = nota.AlterarStatus(entity.StatusAutorizada)
			uc.log.Info().Str("nota_id", nota.ID).Str("chave_acesso", nota.ChaveAcesso).Msg("nota autorizada")
		case entity.StatusRejeitada:
			if err := nota.AlterarStatus(entity.StatusRejeitada); err == nil {
				nota.MotivoRejeicao = resp.MotivoCompleto()
			}
			uc.log.Info().Str("nota_id", nota.ID).Str("motivo", nota.MotivoRejeicao).Msg("nota rejeitada")
		default:
			// Ainda em processamento no gateway: a reconsulta resolve depois.
			if uc.reconsulta != nil {
				uc.reconsulta.Agendar(nota.ID)
			}
		}
	}

	nota.UpdatedAt = time.Now()
	if err := uc.notaRepo.Atualizar(ctx, nota); err != nil {
		uc.log.Error().Err(err).Str("nota_id", nota.ID).Msg("falha ao persistir desfecho da emissão")
	}
}

// preencherDaResposta copia os identificadores devolvidos pelo gateway.
// Campos vazios na resposta não apagam valores já gravados.
func preencherDaResposta(nota *entity.NotaFiscal, resp *nuvemfiscal.Resposta) {
	if resp == nil {
		return
	}
	if resp.ID != "" {
		nota.GatewayID = resp.ID
	}
	if resp.ChaveAcesso != "" {
		nota.ChaveAcesso = resp.ChaveAcesso
	}
	if resp.Numero != "" {
		nota.Numero = resp.Numero
	}
	if resp.Serie != "" {
		nota.Serie = resp.Serie
	}
	if resp.URLXml != "" {
		nota.URLXml = resp.URLXml
	}
	if resp.URLPdf != "" {
		nota.URLPdf = resp.URLPdf
	}
}

// respostaDaNota mapeia a entidade para o DTO de leitura.
func respostaDaNota(n *entity.NotaFiscal) *dto.NotaFiscalResponse {
	return &dto.NotaFiscalResponse{
		ID:             n.ID,
		OrdemServicoID: n.OrdemServicoID,
		Tipo:           n.Tipo,
		Ambiente:       n.Ambiente,
		Status:         n.Status,
		ValorTotal:     n.ValorTotal,
		Numero:         n.Numero,
		Serie:          n.Serie,
		ChaveAcesso:    n.ChaveAcesso,
		URLXml:         n.URLXml,
		URLPdf:         n.URLPdf,
		MensagemErro:   n.MensagemErro,
		MotivoRejeicao: n.MotivoRejeicao,
		CreatedAt:      n.CreatedAt,
	}
}
