package repository

import (
	"context"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
)

// EmpresaFiscalRepository é a porta de persistência do perfil fiscal do emitente.
type EmpresaFiscalRepository interface {
	// Salvar faz upsert do perfil (insere ou atualiza pela organização).
	Salvar(ctx context.Context, empresa *entity.EmpresaFiscal) error
	// BuscarPorOrganizacao devolve (nil, nil) quando o tenant não tem perfil.
	BuscarPorOrganizacao(ctx context.Context, organizationID string) (*entity.EmpresaFiscal, error)
	// BuscarPorCNPJ cobre perfis pré-provisionados ainda sem organização.
	BuscarPorCNPJ(ctx context.Context, cnpj string) (*entity.EmpresaFiscal, error)
}
