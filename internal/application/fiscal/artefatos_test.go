package fiscal_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/fiscal"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
)

// chaveTeste chave de acesso usada nas notas dos testes de artefatos.
const chaveTeste = "41250811222333000181650010000000771000000779"

func xmlAutorizadoTeste(chave string) []byte {
	return []byte(fmt.Sprintf(`<nfeProc><NFe><infNFe Id="NFe%s" versao="4.00"></infNFe></NFe></nfeProc>`, chave))
}

type reciboFake struct {
	chamadas int
}

func (r *reciboFake) GerarRecibo(nota *entity.NotaFiscal, empresa *entity.EmpresaFiscal) ([]byte, error) {
	r.chamadas++
	return []byte("%PDF-1.7 recibo"), nil
}

func novoArtefatos(t *testing.T, gw *gatewayFake, recibos fiscal.GeradorRecibo) (*fiscal.ArtefatosUseCase, *notaRepoFake) {
	t.Helper()
	notas := novoNotaRepoFake()
	empresas := novoEmpresaRepoFake()
	perfil := perfilFiscalTeste()
	require.NoError(t, empresas.Salvar(context.Background(), &perfil))
	return fiscal.NewArtefatosUseCase(notas, empresas, gw, recibos, logTeste()), notas
}

func notaComArtefatos() entity.NotaFiscal {
	nota := notaAutorizadaTeste(entity.TipoNfce, time.Minute)
	nota.ChaveAcesso = chaveTeste
	nota.URLXml = "https://gw/nfce/gw-123.xml"
	nota.URLPdf = "https://gw/nfce/gw-123.pdf"
	return nota
}

func TestObterXml_ConfereAChaveDeAcesso(t *testing.T) {
	gw := &gatewayFake{}
	gw.baixarFn = func(_, urlArtefato string) ([]byte, error) {
		assert.Equal(t, "https://gw/nfce/gw-123.xml", urlArtefato)
		return xmlAutorizadoTeste(chaveTeste), nil
	}
	uc, notas := novoArtefatos(t, gw, &reciboFake{})
	notas.semear(notaComArtefatos())

	xmlBytes, err := uc.ObterXml(context.Background(), orgTeste, "nota-0001")
	require.NoError(t, err)
	assert.Contains(t, string(xmlBytes), chaveTeste)
}

func TestObterXml_ChaveDivergenteEhRecusada(t *testing.T) {
	gw := &gatewayFake{}
	gw.baixarFn = func(string, string) ([]byte, error) {
		return xmlAutorizadoTeste("41250899999999000191650010000000019000000012"), nil
	}
	uc, notas := novoArtefatos(t, gw, &reciboFake{})
	notas.semear(notaComArtefatos())

	_, err := uc.ObterXml(context.Background(), orgTeste, "nota-0001")
	assert.ErrorIs(t, err, domain.ErrConflito)
}

func TestObterXml_NotaSemEmissaoConcluida(t *testing.T) {
	gw := &gatewayFake{}
	uc, notas := novoArtefatos(t, gw, &reciboFake{})
	nota := notaComArtefatos()
	nota.Status = entity.StatusProcessando
	notas.semear(nota)

	_, err := uc.ObterXml(context.Background(), orgTeste, "nota-0001")
	assert.ErrorIs(t, err, domain.ErrConflito)
	assert.Zero(t, gw.totalChamadas())
}

func TestObterPdf_NotaCanceladaAindaTemArtefatos(t *testing.T) {
	gw := &gatewayFake{}
	uc, notas := novoArtefatos(t, gw, &reciboFake{})
	nota := notaComArtefatos()
	nota.Status = entity.StatusCancelada
	notas.semear(nota)

	pdf, err := uc.ObterPdf(context.Background(), orgTeste, "nota-0001")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

func TestGerarRecibo_NaoTocaOGateway(t *testing.T) {
	gw := &gatewayFake{}
	recibos := &reciboFake{}
	uc, notas := novoArtefatos(t, gw, recibos)
	notas.semear(notaComArtefatos())

	pdf, err := uc.GerarRecibo(context.Background(), orgTeste, "nota-0001")
	require.NoError(t, err)

	assert.Contains(t, string(pdf), "%PDF")
	assert.Equal(t, 1, recibos.chamadas)
	assert.Zero(t, gw.totalChamadas())
}

func TestArtefatos_NotaDeOutroTenant(t *testing.T) {
	uc, notas := novoArtefatos(t, &gatewayFake{}, &reciboFake{})
	notas.semear(notaComArtefatos())

	_, err := uc.ObterXml(context.Background(), "org-intrusa", "nota-0001")
	assert.ErrorIs(t, err, domain.ErrNaoEncontrado)
}
