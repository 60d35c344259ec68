package fiscal

import (
	"context"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/nuvemfiscal"
)

// GatewayEmpresas é a porta de cadastro e configuração da empresa no gateway
// fiscal. Implementada por nuvemfiscal.Client; os fakes dos testes implementam
// a mesma interface.
type GatewayEmpresas interface {
	CriarEmpresa(ctx context.Context, ambiente string, emp nuvemfiscal.EmpresaGateway) error
	AtualizarEmpresa(ctx context.Context, ambiente, cnpj string, emp nuvemfiscal.EmpresaGateway) error
	ConfigurarNfce(ctx context.Context, ambiente, cnpj string, cfg nuvemfiscal.ConfigNfce) error
	AtualizarConfigNfse(ctx context.Context, ambiente, cnpj string, cfg nuvemfiscal.ConfigNfse) error
	CriarConfigNfse(ctx context.Context, ambiente, cnpj string, cfg nuvemfiscal.ConfigNfse) error
}

// GatewayNotas é a porta de emissão, consulta, cancelamento e download de
// artefatos de documentos fiscais no gateway.
type GatewayNotas interface {
	EmitirNfce(ctx context.Context, ambiente string, pedido *nuvemfiscal.NfcePedido) (*nuvemfiscal.Resposta, error)
	EmitirNfse(ctx context.Context, ambiente string, pedido *nuvemfiscal.NfsePedido) (*nuvemfiscal.Resposta, error)
	ConsultarNfce(ctx context.Context, ambiente, gatewayID string) (*nuvemfiscal.Resposta, error)
	ConsultarNfse(ctx context.Context, ambiente, gatewayID string) (*nuvemfiscal.Resposta, error)
	CancelarNfce(ctx context.Context, ambiente, gatewayID, justificativa string) (*nuvemfiscal.Resposta, error)
	CancelarNfse(ctx context.Context, ambiente, gatewayID, codigoMotivo, motivo string) (*nuvemfiscal.Resposta, error)
	BaixarArtefato(ctx context.Context, ambiente, urlArtefato string) ([]byte, error)
}

// GeradorRecibo gera o recibo interno em PDF de uma nota autorizada.
type GeradorRecibo interface {
	GerarRecibo(nota *entity.NotaFiscal, empresa *entity.EmpresaFiscal) ([]byte, error)
}
