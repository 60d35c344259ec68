package fiscal

import (
	"context"
	"fmt"
	"time"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/dto"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/repository"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/logger"
)

// JanelaCancelamentoNfce é o prazo legal para cancelar uma NFC-e depois da
// autorização. Verificado localmente, antes de qualquer chamada ao gateway.
const JanelaCancelamentoNfce = 30 * time.Minute

// justificativaPadrao cobre pedidos de cancelamento sem texto; a SEFAZ exige
// no mínimo 15 caracteres.
const justificativaPadrao = "Cancelamento solicitado pelo emitente"

// codigoMotivoNfse é o código de motivo usado em todo cancelamento de NFS-e
// (1 = erro na emissão).
const codigoMotivoNfse = "1"

// CancelamentoUseCase cancela notas autorizadas.
type CancelamentoUseCase struct {
	notaRepo repository.NotaFiscalRepository
	gateway  GatewayNotas
	log      *logger.Logger
}

// NewCancelamentoUseCase constrói o caso de uso.
func NewCancelamentoUseCase(notaRepo repository.NotaFiscalRepository, gateway GatewayNotas, log *logger.Logger) *CancelamentoUseCase {
	return &CancelamentoUseCase{notaRepo: notaRepo, gateway: gateway, log: log}
}

// Cancelar cancela uma nota autorizada do tenant. Para NFC-e o prazo de
// cancelamento é verificado localmente: fora da janela, o gateway não é
// chamado.
func (uc *CancelamentoUseCase) Cancelar(ctx context.Context, organizationID, notaID string, req dto.CancelarNotaRequest) (*dto.NotaFiscalResponse, error) {
	nota, err := uc.notaRepo.BuscarPorID(ctx, notaID)
	if err != nil {
		return nil, err
	}
	if nota == nil || nota.OrganizationID != organizationID {
		return nil, domain.ErrNaoEncontrado
	}
	if nota.Status != entity.StatusAutorizada {
		return nil, fmt.Errorf("%w: status atual %q", domain.ErrNotaNaoCancelavel, nota.Status)
	}
	if nota.GatewayID == "" {
		return nil, fmt.Errorf("%w: nota sem identificador no gateway", domain.ErrNotaNaoCancelavel)
	}
	if nota.Tipo == entity.TipoNfce && time.Since(nota.CreatedAt) > JanelaCancelamentoNfce {
		return nil, fmt.Errorf("%w: janela de %s expirada", domain.ErrPrazoCancelamento, JanelaCancelamentoNfce)
	}

	justificativa := req.Justificativa
	if len(justificativa) < 15 {
		justificativa = justificativaPadrao
	}

	var errCancel error
	if nota.Tipo == entity.TipoNfce {
		_, errCancel = uc.gateway.CancelarNfce(ctx, nota.Ambiente, nota.GatewayID, justificativa)
	} else {
		_, errCancel = uc.gateway.CancelarNfse(ctx, nota.Ambiente, nota.GatewayID, codigoMotivoNfse, justificativa)
	}
	if errCancel != nil {
		uc.log.Warn().Err(errCancel).Str("nota_id", nota.ID).Msg("cancelamento recusado pelo gateway")
		return nil, fmt.Errorf("cancelar no gateway: %w", errCancel)
	}

	if err := nota.AlterarStatus(entity.StatusCancelada); err != nil {
		return nil, err
	}
	// Mensagens de tentativas anteriores não descrevem mais o estado da nota.
	nota.MensagemErro = ""
	nota.MotivoRejeicao = ""
	nota.UpdatedAt = time.Now()
	if err := uc.notaRepo.Atualizar(ctx, nota); err != nil {
		return nil, err
	}

	uc.log.Info().Str("nota_id", nota.ID).Str("tipo", nota.Tipo).Msg("nota cancelada")
	return respostaDaNota(nota), nil
}
