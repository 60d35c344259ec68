package fiscal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/fiscal"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/nuvemfiscal"
)

func notaProcessandoTeste(tipo string) entity.NotaFiscal {
	agora := time.Now()
	return entity.NotaFiscal{
		ID:             "nota-proc",
		OrganizationID: orgTeste,
		Tipo:           tipo,
		Ambiente:       entity.AmbienteHomologacao,
		Status:         entity.StatusProcessando,
		GatewayID:      "gw-dps-9",
		CreatedAt:      agora,
		UpdatedAt:      agora,
	}
}

func TestReconsultar_AutorizaNotaPendente(t *testing.T) {
	notas := novoNotaRepoFake()
	notas.semear(notaProcessandoTeste(entity.TipoNfse))
	gw := &gatewayFake{}
	gw.consultarFn = func(tipo, ambiente, gatewayID string) (*nuvemfiscal.Resposta, error) {
		assert.Equal(t, entity.TipoNfse, tipo)
		assert.Equal(t, "gw-dps-9", gatewayID)
		return &nuvemfiscal.Resposta{
			ID:          gatewayID,
			Status:      nuvemfiscal.GatewayStatusAutorizado,
			Numero:      "15",
			ChaveAcesso: "31250811222333000181990010000000159000000159",
			URLXml:      "https://gw/nfse/gw-dps-9.xml",
		}, nil
	}
	uc := fiscal.NewReconsultaUseCase(notas, gw, time.Millisecond, logTeste())

	resp, err := uc.Reconsultar(context.Background(), "nota-proc")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusAutorizada, resp.Status)
	assert.Equal(t, "15", resp.Numero)

	persistida := notas.estado("nota-proc")
	assert.Equal(t, entity.StatusAutorizada, persistida.Status)
	assert.Equal(t, "https://gw/nfse/gw-dps-9.xml", persistida.URLXml)
}

func TestReconsultar_RejeicaoDaPrefeitura(t *testing.T) {
	notas := novoNotaRepoFake()
	notas.semear(notaProcessandoTeste(entity.TipoNfse))
	gw := &gatewayFake{}
	gw.consultarFn = func(_, _, gatewayID string) (*nuvemfiscal.Resposta, error) {
		return &nuvemfiscal.Resposta{
			ID:     gatewayID,
			Status: nuvemfiscal.GatewayStatusRejeitado,
			Autorizacao: &nuvemfiscal.Autorizacao{
				CodigoStatus: 999,
				MotivoStatus: "Inscrição municipal inválida",
			},
		}, nil
	}
	uc := fiscal.NewReconsultaUseCase(notas, gw, time.Millisecond, logTeste())

	resp, err := uc.Reconsultar(context.Background(), "nota-proc")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusRejeitada, resp.Status)
	assert.Contains(t, resp.MotivoRejeicao, "999")
	assert.Contains(t, resp.MotivoRejeicao, "Inscrição municipal inválida")
}

func TestReconsultar_NotaTerminalEhNoOp(t *testing.T) {
	for _, status := range []string{entity.StatusAutorizada, entity.StatusRejeitada, entity.StatusErro, entity.StatusCancelada} {
		t.Run(status, func(t *testing.T) {
			nota := notaProcessandoTeste(entity.TipoNfce)
			nota.Status = status
			notas := novoNotaRepoFake()
			notas.semear(nota)
			gw := &gatewayFake{}
			uc := fiscal.NewReconsultaUseCase(notas, gw, time.Millisecond, logTeste())

			resp, err := uc.Reconsultar(context.Background(), "nota-proc")
			require.NoError(t, err)

			assert.Equal(t, status, resp.Status, "estado terminal não muda")
			assert.Zero(t, gw.totalChamadas(), "nota terminal não toca a rede")
		})
	}
}

func TestReconsultar_FalhaDeConsultaMantemProcessando(t *testing.T) {
	notas := novoNotaRepoFake()
	notas.semear(notaProcessandoTeste(entity.TipoNfce))
	gw := &gatewayFake{}
	gw.consultarFn = func(string, string, string) (*nuvemfiscal.Resposta, error) {
		return nil, assert.AnError
	}
	uc := fiscal.NewReconsultaUseCase(notas, gw, time.Millisecond, logTeste())

	resp, err := uc.Reconsultar(context.Background(), "nota-proc")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessando, resp.Status)
	assert.Equal(t, 1, gw.conta("ConsultarNfce"))
}

func TestReconsultar_NotaSemIDDeGateway(t *testing.T) {
	nota := notaProcessandoTeste(entity.TipoNfse)
	nota.GatewayID = ""
	notas := novoNotaRepoFake()
	notas.semear(nota)
	gw := &gatewayFake{}
	uc := fiscal.NewReconsultaUseCase(notas, gw, time.Millisecond, logTeste())

	resp, err := uc.Reconsultar(context.Background(), "nota-proc")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessando, resp.Status)
	assert.Zero(t, gw.totalChamadas())
}

func TestReconsultar_NotaInexistente(t *testing.T) {
	uc := fiscal.NewReconsultaUseCase(novoNotaRepoFake(), &gatewayFake{}, time.Millisecond, logTeste())

	_, err := uc.Reconsultar(context.Background(), "nao-existe")
	assert.ErrorIs(t, err, domain.ErrNaoEncontrado)
}

func TestAgendar_ResolveNotaPendente(t *testing.T) {
	notas := novoNotaRepoFake()
	notas.semear(notaProcessandoTeste(entity.TipoNfse))
	gw := &gatewayFake{}
	gw.consultarFn = func(_, _, gatewayID string) (*nuvemfiscal.Resposta, error) {
		return &nuvemfiscal.Resposta{ID: gatewayID, Status: nuvemfiscal.GatewayStatusAutorizado}, nil
	}
	uc := fiscal.NewReconsultaUseCase(notas, gw, time.Millisecond, logTeste())

	uc.Agendar("nota-proc")

	assert.Eventually(t, func() bool {
		return notas.estado("nota-proc").Status == entity.StatusAutorizada
	}, 2*time.Second, 5*time.Millisecond)
}
