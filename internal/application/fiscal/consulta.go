package fiscal

import (
	"context"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/dto"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/repository"
)

// ConsultaUseCase leitura do razão de notas do tenant.
type ConsultaUseCase struct {
	notaRepo repository.NotaFiscalRepository
}

// NewConsultaUseCase constrói o caso de uso.
func NewConsultaUseCase(notaRepo repository.NotaFiscalRepository) *ConsultaUseCase {
	return &ConsultaUseCase{notaRepo: notaRepo}
}

// Obter devolve uma nota do tenant. Nota de outro tenant responde como
// inexistente.
func (uc *ConsultaUseCase) Obter(ctx context.Context, organizationID, notaID string) (*dto.NotaFiscalResponse, error) {
	nota, err := uc.notaRepo.BuscarPorID(ctx, notaID)
	if err != nil {
		return nil, err
	}
	if nota == nil || nota.OrganizationID != organizationID {
		return nil, domain.ErrNaoEncontrado
	}
	return respostaDaNota(nota), nil
}

// Listar pagina as notas do tenant, mais recentes primeiro.
func (uc *ConsultaUseCase) Listar(ctx context.Context, organizationID string, limit, offset int) (*dto.NotaFiscalListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	notas, err := uc.notaRepo.ListarPorOrganizacao(ctx, organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotaFiscalResponse, 0, len(notas))
	for _, n := range notas {
		items = append(items, *respostaDaNota(n))
	}
	return &dto.NotaFiscalListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}
