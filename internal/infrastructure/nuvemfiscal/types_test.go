package nuvemfiscal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/nuvemfiscal"
)

// TestClassificar: o conjunto de status do gateway é fechado; qualquer valor
// desconhecido é transitório, nunca sucesso ou falha.
func TestClassificar(t *testing.T) {
	casos := map[string]string{
		"autorizado":  entity.StatusAutorizada,
		"AUTORIZADO":  entity.StatusAutorizada,
		" autorizado": entity.StatusAutorizada,
		"rejeitado":   entity.StatusRejeitada,
		"processando": entity.StatusProcessando,
		"pendente":    entity.StatusProcessando,
		"":            entity.StatusProcessando,
		"qualquer":    entity.StatusProcessando,
	}
	for status, esperado := range casos {
		r := &nuvemfiscal.Resposta{Status: status}
		assert.Equal(t, esperado, r.Classificar(), "status %q", status)
	}
}

func TestMotivoCompleto(t *testing.T) {
	r := &nuvemfiscal.Resposta{
		Status:      "rejeitado",
		Autorizacao: &nuvemfiscal.Autorizacao{CodigoStatus: 204, MotivoStatus: "Duplicidade de NF-e"},
	}
	motivo := r.MotivoCompleto()
	assert.Contains(t, motivo, "204")
	assert.Contains(t, motivo, "Duplicidade de NF-e")

	assert.Empty(t, (&nuvemfiscal.Resposta{}).MotivoCompleto())
}

func TestExtrairChaveAcesso_Nfce(t *testing.T) {
	xml := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe">
  <NFe><infNFe Id="NFe41260811222333000181650010000123451000123456" versao="4.00"></infNFe></NFe>
</nfeProc>`)

	chave, err := nuvemfiscal.ExtrairChaveAcesso(xml)
	require.NoError(t, err)
	assert.Equal(t, "41260811222333000181650010000123451000123456", chave)
}

func TestExtrairChaveAcesso_NfseElemento(t *testing.T) {
	xml := []byte(`<NFSe><infNFSe><chNFSe>41260811222333000181000000000012345678901234567890</chNFSe></infNFSe></NFSe>`)

	chave, err := nuvemfiscal.ExtrairChaveAcesso(xml)
	require.NoError(t, err)
	assert.Equal(t, "41260811222333000181000000000012345678901234567890", chave)
}

func TestExtrairChaveAcesso_Invalido(t *testing.T) {
	_, err := nuvemfiscal.ExtrairChaveAcesso([]byte("não é xml"))
	assert.Error(t, err)

	_, err = nuvemfiscal.ExtrairChaveAcesso([]byte("<doc><outro/></doc>"))
	assert.Error(t, err)
}
