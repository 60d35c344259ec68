package repository

import (
	"context"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
)

// NotaFiscalRepository é a porta de persistência do razão de notas fiscais.
// Todos os componentes leem e escrevem notas por aqui; nenhuma cópia
// independente de linha vive fora do repositório.
type NotaFiscalRepository interface {
	// Criar persiste a linha inicial (status processando, payload de auditoria).
	Criar(ctx context.Context, nota *entity.NotaFiscal) error
	// Atualizar grava status, identificadores e mensagens do ciclo de vida.
	Atualizar(ctx context.Context, nota *entity.NotaFiscal) error
	// BuscarPorID devolve (nil, nil) quando a nota não existe.
	BuscarPorID(ctx context.Context, id string) (*entity.NotaFiscal, error)
	// ListarPorOrganizacao pagina as notas do tenant, mais recentes primeiro.
	ListarPorOrganizacao(ctx context.Context, organizationID string, limit, offset int) ([]*entity.NotaFiscal, error)
	// ProximoNumero devolve o próximo número do documento na sequência do
	// tenant para o tipo e série, atômico entre emissões concorrentes.
	ProximoNumero(ctx context.Context, organizationID, tipo, serie string) (int64, error)
}
