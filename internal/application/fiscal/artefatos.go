package fiscal

import (
	"context"
	"fmt"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/repository"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/nuvemfiscal"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/logger"
)

// ArtefatosUseCase baixa as representações autorizadas (XML, DANFE) e gera o
// recibo interno em PDF.
type ArtefatosUseCase struct {
	notaRepo    repository.NotaFiscalRepository
	empresaRepo repository.EmpresaFiscalRepository
	gateway     GatewayNotas
	recibos     GeradorRecibo
	log         *logger.Logger
}

// NewArtefatosUseCase constrói o caso de uso.
func NewArtefatosUseCase(
	notaRepo repository.NotaFiscalRepository,
	empresaRepo repository.EmpresaFiscalRepository,
	gateway GatewayNotas,
	recibos GeradorRecibo,
	log *logger.Logger,
) *ArtefatosUseCase {
	return &ArtefatosUseCase{
		notaRepo:    notaRepo,
		empresaRepo: empresaRepo,
		gateway:     gateway,
		recibos:     recibos,
		log:         log,
	}
}

// ObterXml baixa o XML autorizado da nota e confere a chave de acesso do
// documento contra a gravada no razão antes de entregá-lo.
func (uc *ArtefatosUseCase) ObterXml(ctx context.Context, organizationID, notaID string) ([]byte, error) {
	nota, err := uc.notaAutorizada(ctx, organizationID, notaID)
	if err != nil {
		return nil, err
	}
	if nota.URLXml == "" {
		return nil, fmt.Errorf("%w: nota sem XML disponível", domain.ErrNaoEncontrado)
	}

	xmlBytes, err := uc.gateway.BaixarArtefato(ctx, nota.Ambiente, nota.URLXml)
	if err != nil {
		return nil, fmt.Errorf("baixar xml: %w", err)
	}

	if nota.ChaveAcesso != "" {
		chave, err := nuvemfiscal.ExtrairChaveAcesso(xmlBytes)
		if err == nil && chave != "" && chave != nota.ChaveAcesso {
			uc.log.Error().
				Str("nota_id", nota.ID).
				Str("chave_esperada", nota.ChaveAcesso).
				Str("chave_recebida", chave).
				Msg("xml baixado não corresponde à nota")
			return nil, fmt.Errorf("%w: chave de acesso do XML diverge da nota", domain.ErrConflito)
		}
	}
	return xmlBytes, nil
}

// ObterPdf baixa o documento auxiliar (DANFE / DANFSe) da nota.
func (uc *ArtefatosUseCase) ObterPdf(ctx context.Context, organizationID, notaID string) ([]byte, error) {
	nota, err := uc.notaAutorizada(ctx, organizationID, notaID)
	if err != nil {
		return nil, err
	}
	if nota.URLPdf == "" {
		return nil, fmt.Errorf("%w: nota sem PDF disponível", domain.ErrNaoEncontrado)
	}
	pdf, err := uc.gateway.BaixarArtefato(ctx, nota.Ambiente, nota.URLPdf)
	if err != nil {
		return nil, fmt.Errorf("baixar pdf: %w", err)
	}
	return pdf, nil
}

// GerarRecibo monta o recibo interno em PDF com os dados do razão, sem tocar
// no gateway.
func (uc *ArtefatosUseCase) GerarRecibo(ctx context.Context, organizationID, notaID string) ([]byte, error) {
	nota, err := uc.notaAutorizada(ctx, organizationID, notaID)
	if err != nil {
		return nil, err
	}
	empresa, err := uc.empresaRepo.BuscarPorOrganizacao(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if empresa == nil {
		return nil, fmt.Errorf("%w: organização sem perfil fiscal", domain.ErrConfiguracaoFiscal)
	}
	return uc.recibos.GerarRecibo(nota, empresa)
}

// notaAutorizada carrega a nota do tenant exigindo emissão concluída com
// sucesso (autorizada, ou cancelada depois de autorizada).
func (uc *ArtefatosUseCase) notaAutorizada(ctx context.Context, organizationID, notaID string) (*entity.NotaFiscal, error) {
	nota, err := uc.notaRepo.BuscarPorID(ctx, notaID)
	if err != nil {
		return nil, err
	}
	if nota == nil || nota.OrganizationID != organizationID {
		return nil, domain.ErrNaoEncontrado
	}
	if nota.Status != entity.StatusAutorizada && nota.Status != entity.StatusCancelada {
		return nil, fmt.Errorf("%w: nota em %q não tem artefatos", domain.ErrConflito, nota.Status)
	}
	return nota, nil
}
