package fiscal_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/dto"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/fiscal"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/nuvemfiscal"
)

// notaAutorizadaTeste nota autorizada emitida há pouco.
func notaAutorizadaTeste(tipo string, emitidaHa time.Duration) entity.NotaFiscal {
	criadaEm := time.Now().Add(-emitidaHa)
	return entity.NotaFiscal{
		ID:             "nota-0001",
		OrganizationID: orgTeste,
		Tipo:           tipo,
		Ambiente:       entity.AmbienteHomologacao,
		Status:         entity.StatusAutorizada,
		ValorTotal:     decimal.RequireFromString("159.70"),
		GatewayID:      "gw-123",
		ChaveAcesso:    "41250811222333000181650010000000771000000779",
		CreatedAt:      criadaEm,
		UpdatedAt:      criadaEm,
	}
}

func TestCancelar_NfceDentroDaJanela(t *testing.T) {
	notas := novoNotaRepoFake()
	notas.semear(notaAutorizadaTeste(entity.TipoNfce, 5*time.Minute))
	gw := &gatewayFake{}
	uc := fiscal.NewCancelamentoUseCase(notas, gw, logTeste())

	resp, err := uc.Cancelar(context.Background(), orgTeste, "nota-0001", dto.CancelarNotaRequest{
		Justificativa: "Valor lançado incorretamente na venda",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCancelada, resp.Status)
	assert.Equal(t, 1, gw.conta("CancelarNfce"))
	assert.Equal(t, entity.StatusCancelada, notas.estado("nota-0001").Status)
}

func TestCancelar_NfceForaDaJanelaNaoTocaORede(t *testing.T) {
	notas := novoNotaRepoFake()
	notas.semear(notaAutorizadaTeste(entity.TipoNfce, fiscal.JanelaCancelamentoNfce+time.Minute))
	gw := &gatewayFake{}
	uc := fiscal.NewCancelamentoUseCase(notas, gw, logTeste())

	_, err := uc.Cancelar(context.Background(), orgTeste, "nota-0001", dto.CancelarNotaRequest{})
	assert.ErrorIs(t, err, domain.ErrPrazoCancelamento)
	assert.Zero(t, gw.totalChamadas(), "prazo expirado é decidido localmente")
	assert.Equal(t, entity.StatusAutorizada, notas.estado("nota-0001").Status)
}

func TestCancelar_NfseSemJanela(t *testing.T) {
	notas := novoNotaRepoFake()
	notas.semear(notaAutorizadaTeste(entity.TipoNfse, 48*time.Hour))
	gw := &gatewayFake{}
	var codigoEnviado string
	gw.cancelarNfseFn = func(_, _, codigoMotivo, motivo string) (*nuvemfiscal.Resposta, error) {
		codigoEnviado = codigoMotivo
		assert.GreaterOrEqual(t, len(motivo), 15)
		return &nuvemfiscal.Resposta{Status: "cancelado"}, nil
	}
	uc := fiscal.NewCancelamentoUseCase(notas, gw, logTeste())

	resp, err := uc.Cancelar(context.Background(), orgTeste, "nota-0001", dto.CancelarNotaRequest{})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCancelada, resp.Status)
	assert.Equal(t, "1", codigoEnviado)
}

func TestCancelar_LimpaMensagensAntigas(t *testing.T) {
	nota := notaAutorizadaTeste(entity.TipoNfse, time.Hour)
	nota.MotivoRejeicao = "sobra de uma tentativa anterior"
	notas := novoNotaRepoFake()
	notas.semear(nota)
	uc := fiscal.NewCancelamentoUseCase(notas, &gatewayFake{}, logTeste())

	resp, err := uc.Cancelar(context.Background(), orgTeste, "nota-0001", dto.CancelarNotaRequest{})
	require.NoError(t, err)

	assert.Empty(t, resp.MotivoRejeicao)
	assert.Empty(t, resp.MensagemErro)
}

func TestCancelar_StatusNaoCancelavel(t *testing.T) {
	for _, status := range []string{entity.StatusProcessando, entity.StatusRejeitada, entity.StatusErro, entity.StatusCancelada} {
		t.Run(status, func(t *testing.T) {
			nota := notaAutorizadaTeste(entity.TipoNfce, time.Minute)
			nota.Status = status
			notas := novoNotaRepoFake()
			notas.semear(nota)
			gw := &gatewayFake{}
			uc := fiscal.NewCancelamentoUseCase(notas, gw, logTeste())

			_, err := uc.Cancelar(context.Background(), orgTeste, "nota-0001", dto.CancelarNotaRequest{})
			assert.ErrorIs(t, err, domain.ErrNotaNaoCancelavel)
			assert.Zero(t, gw.totalChamadas())
		})
	}
}

func TestCancelar_NotaDeOutroTenantRespondeComoInexistente(t *testing.T) {
	notas := novoNotaRepoFake()
	notas.semear(notaAutorizadaTeste(entity.TipoNfce, time.Minute))
	uc := fiscal.NewCancelamentoUseCase(notas, &gatewayFake{}, logTeste())

	_, err := uc.Cancelar(context.Background(), "org-intrusa", "nota-0001", dto.CancelarNotaRequest{})
	assert.ErrorIs(t, err, domain.ErrNaoEncontrado)
}

func TestCancelar_RecusaDoGatewayNaoMudaEstado(t *testing.T) {
	notas := novoNotaRepoFake()
	notas.semear(notaAutorizadaTeste(entity.TipoNfce, time.Minute))
	gw := &gatewayFake{}
	gw.cancelarNfceFn = func(string, string, string) (*nuvemfiscal.Resposta, error) {
		return nil, assert.AnError
	}
	uc := fiscal.NewCancelamentoUseCase(notas, gw, logTeste())

	_, err := uc.Cancelar(context.Background(), orgTeste, "nota-0001", dto.CancelarNotaRequest{})
	require.Error(t, err)
	assert.Equal(t, entity.StatusAutorizada, notas.estado("nota-0001").Status)
}
