package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/repository"
)

var _ repository.NotaFiscalRepository = (*NotaFiscalRepo)(nil)

// NotaFiscalRepo implementação do porto NotaFiscalRepository sobre PostgreSQL.
type NotaFiscalRepo struct {
	q Querier
}

// NewNotaFiscalRepository constrói o adaptador de persistência do razão de
// notas. Aceita pool ou tx (Querier).
func NewNotaFiscalRepository(q Querier) *NotaFiscalRepo {
	return &NotaFiscalRepo{q: q}
}

const colunasNota = `
	id, organization_id, ordem_servico_id, tipo, ambiente, status,
	payload, valor_total, gateway_id, chave_acesso, numero, serie,
	url_xml, url_pdf, mensagem_erro, motivo_rejeicao, created_at, updated_at`

// Criar persiste a linha inicial da tentativa de emissão.
func (r *NotaFiscalRepo) Criar(ctx context.Context, nota *entity.NotaFiscal) error {
	query := `
		INSERT INTO notas_fiscais (` + colunasNota + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		nota.ID, nota.OrganizationID, nota.OrdemServicoID, nota.Tipo, nota.Ambiente, nota.Status,
		nota.Payload, nota.ValorTotal, nota.GatewayID, nota.ChaveAcesso, nota.Numero, nota.Serie,
		nota.URLXml, nota.URLPdf, nota.MensagemErro, nota.MotivoRejeicao, nota.CreatedAt, nota.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("insert nota fiscal: %w", err)
	}
	return nil
}

// Atualizar grava o estado corrente do ciclo de vida. O payload não está na
// lista de colunas: é imutável depois do insert.
func (r *NotaFiscalRepo) Atualizar(ctx context.Context, nota *entity.NotaFiscal) error {
	query := `
		UPDATE notas_fiscais SET
			status = $2, gateway_id = $3, chave_acesso = $4, numero = $5, serie = $6,
			url_xml = $7, url_pdf = $8, mensagem_erro = $9, motivo_rejeicao = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		nota.ID, nota.Status, nota.GatewayID, nota.ChaveAcesso, nota.Numero, nota.Serie,
		nota.URLXml, nota.URLPdf, nota.MensagemErro, nota.MotivoRejeicao, nota.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update nota fiscal: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNaoEncontrado
	}
	return nil
}

// BuscarPorID devolve (nil, nil) quando a nota não existe.
func (r *NotaFiscalRepo) BuscarPorID(ctx context.Context, id string) (*entity.NotaFiscal, error) {
	query := `SELECT ` + colunasNota + ` FROM notas_fiscais WHERE id = $1`
	nota, err := scanNota(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nota fiscal: %w", err)
	}
	return nota, nil
}

// ListarPorOrganizacao pagina as notas do tenant, mais recentes primeiro.
func (r *NotaFiscalRepo) ListarPorOrganizacao(ctx context.Context, organizationID string, limit, offset int) ([]*entity.NotaFiscal, error) {
	query := `
		SELECT ` + colunasNota + `
		FROM notas_fiscais WHERE organization_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notas fiscais: %w", err)
	}
	defer rows.Close()

	var notas []*entity.NotaFiscal
	for rows.Next() {
		nota, err := scanNota(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nota fiscal: %w", err)
		}
		notas = append(notas, nota)
	}
	return notas, rows.Err()
}

// ProximoNumero incrementa e devolve o contador do tenant para o tipo e série.
// O upsert com RETURNING é atômico: emissões no mesmo segundo recebem números
// distintos.
func (r *NotaFiscalRepo) ProximoNumero(ctx context.Context, organizationID, tipo, serie string) (int64, error) {
	query := `
		INSERT INTO numeracao_documentos (organization_id, tipo, serie, proximo)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (organization_id, tipo, serie)
		DO UPDATE SET proximo = numeracao_documentos.proximo + 1
		RETURNING proximo`
	var numero int64
	if err := r.q.QueryRow(ctx, query, organizationID, tipo, serie).Scan(&numero); err != nil {
		return 0, fmt.Errorf("próximo número do documento: %w", err)
	}
	return numero, nil
}

func scanNota(row pgx.Row) (*entity.NotaFiscal, error) {
	var n entity.NotaFiscal
	err := row.Scan(
		&n.ID, &n.OrganizationID, &n.OrdemServicoID, &n.Tipo, &n.Ambiente, &n.Status,
		&n.Payload, &n.ValorTotal, &n.GatewayID, &n.ChaveAcesso, &n.Numero, &n.Serie,
		&n.URLXml, &n.URLPdf, &n.MensagemErro, &n.MotivoRejeicao, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
