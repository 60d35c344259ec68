package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
)

// TestTransicaoValida percorre o grafo completo do ciclo de vida: nenhuma
// combinação fora das arestas permitidas pode passar, e nada volta a
// processando depois de um estado terminal.
func TestTransicaoValida(t *testing.T) {
	todos := []string{
		entity.StatusProcessando, entity.StatusAutorizada, entity.StatusRejeitada,
		entity.StatusErro, entity.StatusCancelada,
	}
	permitidas := map[[2]string]bool{
		{entity.StatusProcessando, entity.StatusAutorizada}: true,
		{entity.StatusProcessando, entity.StatusRejeitada}:  true,
		{entity.StatusProcessando, entity.StatusErro}:       true,
		{entity.StatusAutorizada, entity.StatusCancelada}:   true,
	}

	for _, de := range todos {
		for _, para := range todos {
			esperado := de == para || permitidas[[2]string{de, para}]
			assert.Equal(t, esperado, entity.TransicaoValida(de, para),
				"transição %s para %s", de, para)
		}
	}
}

func TestAlterarStatus_RejeitaVoltaParaProcessando(t *testing.T) {
	n := &entity.NotaFiscal{Status: entity.StatusAutorizada}

	err := n.AlterarStatus(entity.StatusProcessando)

	require.ErrorIs(t, err, domain.ErrTransicaoInvalida)
	assert.Equal(t, entity.StatusAutorizada, n.Status, "status não deve mudar quando a transição é inválida")
}

func TestAlterarStatus_CancelamentoAposAutorizacao(t *testing.T) {
	n := &entity.NotaFiscal{Status: entity.StatusProcessando}

	require.NoError(t, n.AlterarStatus(entity.StatusAutorizada))
	require.NoError(t, n.AlterarStatus(entity.StatusCancelada))
	assert.Equal(t, entity.StatusCancelada, n.Status)

	// cancelada é terminal
	assert.ErrorIs(t, n.AlterarStatus(entity.StatusAutorizada), domain.ErrTransicaoInvalida)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, entity.StatusTerminal(entity.StatusProcessando))
	assert.True(t, entity.StatusTerminal(entity.StatusAutorizada))
	assert.True(t, entity.StatusTerminal(entity.StatusRejeitada))
	assert.True(t, entity.StatusTerminal(entity.StatusErro))
	assert.True(t, entity.StatusTerminal(entity.StatusCancelada))
}

// TestSegredo valida o padrão write-only: leitura devolve sentinela e um
// sentinela submetido de volta não sobrescreve o valor real.
func TestSegredo(t *testing.T) {
	var vazio entity.Segredo
	assert.False(t, vazio.Definido())
	assert.Equal(t, "", vazio.Exibir())

	real := entity.Segredo("csc-token-secreto")
	assert.True(t, real.Definido())
	assert.Equal(t, entity.SegredoMascarado, real.Exibir())

	// round-trip: o sentinela devolvido pela leitura volta na atualização
	assert.Equal(t, real, real.Mesclar(entity.Segredo(entity.SegredoMascarado)))
	// vazio também preserva
	assert.Equal(t, real, real.Mesclar(""))
	// valor novo de verdade sobrescreve
	assert.Equal(t, entity.Segredo("novo"), real.Mesclar("novo"))
}

func TestCredenciaisAmbiente(t *testing.T) {
	c := entity.CredenciaisAmbiente{CscID: "000001", CscToken: "ABCD"}
	assert.True(t, c.TemCsc())
	assert.False(t, c.TemNfse())

	// mescla campo a campo: sentinela mantém, valor real troca
	m := c.Mesclar(entity.CredenciaisAmbiente{
		CscID:     entity.Segredo(entity.SegredoMascarado),
		CscToken:  "EFGH",
		NfseLogin: "prefeitura-user",
	})
	assert.Equal(t, entity.Segredo("000001"), m.CscID)
	assert.Equal(t, entity.Segredo("EFGH"), m.CscToken)
	assert.Equal(t, entity.Segredo("prefeitura-user"), m.NfseLogin)
}
