package fiscal

import (
	"context"
	"time"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/dto"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/repository"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/logger"
)

// maxTentativasReconsulta limita as reconsultas automáticas de uma nota.
// Depois disso a nota fica em processando e a consulta manual resolve.
const maxTentativasReconsulta = 10

// ReconsultaUseCase resolve notas presas em processando consultando o gateway.
// É idempotente: reconsultar uma nota já terminal não altera nada.
type ReconsultaUseCase struct {
	notaRepo  repository.NotaFiscalRepository
	gateway   GatewayNotas
	intervalo time.Duration
	log       *logger.Logger
}

// NewReconsultaUseCase constrói o caso de uso. intervalo é o tempo entre
// tentativas automáticas.
func NewReconsultaUseCase(
	notaRepo repository.NotaFiscalRepository,
	gateway GatewayNotas,
	intervalo time.Duration,
	log *logger.Logger,
) *ReconsultaUseCase {
	return &ReconsultaUseCase{notaRepo: notaRepo, gateway: gateway, intervalo: intervalo, log: log}
}

// Reconsultar consulta o gateway e aplica o veredito atual na nota.
// Nota terminal devolve o estado gravado sem tocar na rede.
func (uc *ReconsultaUseCase) Reconsultar(ctx context.Context, notaID string) (*dto.NotaFiscalResponse, error) {
	nota, err := uc.notaRepo.BuscarPorID(ctx, notaID)
	if err != nil {
		return nil, err
	}
	if nota == nil {
		return nil, domain.ErrNaoEncontrado
	}
	if entity.StatusTerminal(nota.Status) {
		return respostaDaNota(nota), nil
	}
	if nota.GatewayID == "" {
		// A emissão nem chegou a receber id do gateway; não há o que consultar.
		return respostaDaNota(nota), nil
	}

	consultar := uc.gateway.ConsultarNfse
	if nota.Tipo == entity.TipoNfce {
		consultar = uc.gateway.ConsultarNfce
	}
	resp, err := consultar(ctx, nota.Ambiente, nota.GatewayID)
	if err != nil {
		// Falha de consulta não muda o estado: a nota segue processando.
		uc.log.Warn().Err(err).Str("nota_id", nota.ID).Msg("reconsulta falhou")
		return respostaDaNota(nota), nil
	}

	preencherDaResposta(nota, resp)
	switch resp.Classificar() {
	case entity.StatusAutorizada:
		_ = nota.AlterarStatus(entity.StatusAutorizada)
		uc.log.Info().Str("nota_id", nota.ID).Str("chave_acesso", nota.ChaveAcesso).Msg("nota autorizada na reconsulta")
	case entity.StatusRejeitada:
		if err := nota.AlterarStatus(entity.StatusRejeitada); err == nil {
			nota.MotivoRejeicao = resp.MotivoCompleto()
		}
		uc.log.Info().Str("nota_id", nota.ID).Str("motivo", nota.MotivoRejeicao).Msg("nota rejeitada na reconsulta")
	default:
		return respostaDaNota(nota), nil
	}

	nota.UpdatedAt = time.Now()
	if err := uc.notaRepo.Atualizar(ctx, nota); err != nil {
		return nil, err
	}
	return respostaDaNota(nota), nil
}

// Agendar dispara a reconsulta automática numa goroutine independente do ciclo
// HTTP, com contexto e timeout próprios. Erros são registrados e engolidos;
// a consulta manual continua disponível como fallback.
func (uc *ReconsultaUseCase) Agendar(notaID string) {
	go func() {
		for tentativa := 1; tentativa <= maxTentativasReconsulta; tentativa++ {
			time.Sleep(uc.intervalo)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			resp, err := uc.Reconsultar(ctx, notaID)
			cancel()
			if err != nil {
				uc.log.Warn().Err(err).Str("nota_id", notaID).Int("tentativa", tentativa).Msg("reconsulta automática falhou")
				return
			}
			if resp.Status != entity.StatusProcessando {
				return
			}
		}
		uc.log.Warn().Str("nota_id", notaID).Msg("nota segue processando após o limite de reconsultas")
	}()
}
