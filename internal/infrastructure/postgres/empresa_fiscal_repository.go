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

var _ repository.EmpresaFiscalRepository = (*EmpresaFiscalRepo)(nil)

// EmpresaFiscalRepo implementação do porto EmpresaFiscalRepository sobre
// PostgreSQL. Os segredos já chegam mesclados pela camada de aplicação; aqui
// são colunas comuns.
type EmpresaFiscalRepo struct {
	q Querier
}

// NewEmpresaFiscalRepository constrói o adaptador. Aceita pool ou tx (Querier).
func NewEmpresaFiscalRepository(q Querier) *EmpresaFiscalRepo {
	return &EmpresaFiscalRepo{q: q}
}

const colunasEmpresa = `
	id, organization_id, cnpj, razao_social, nome_fantasia,
	inscricao_estadual, inscricao_municipal, regime_tributario,
	logradouro, numero, complemento, bairro, codigo_municipio, municipio, uf, cep,
	fone, email, emitir_nfce, emitir_nfse, serie_nfce, aliquota_iss_padrao,
	prod_csc_id, prod_csc_token, prod_nfse_login, prod_nfse_senha,
	hom_csc_id, hom_csc_token, hom_nfse_login, hom_nfse_senha,
	created_at, updated_at`

// Salvar faz upsert pelo id da linha, para que a adoção de um perfil
// pré-provisionado atualize a organização no lugar em vez de duplicar o CNPJ.
// Violação de unique (CNPJ ou organização de outro tenant) vira ErrDuplicado.
func (r *EmpresaFiscalRepo) Salvar(ctx context.Context, e *entity.EmpresaFiscal) error {
	query := `
		INSERT INTO empresas_fiscais (` + colunasEmpresa + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)
		ON CONFLICT (id) DO UPDATE SET
			organization_id = EXCLUDED.organization_id,
			cnpj = EXCLUDED.cnpj,
			razao_social = EXCLUDED.razao_social,
			nome_fantasia = EXCLUDED.nome_fantasia,
			inscricao_estadual = EXCLUDED.inscricao_estadual,
			inscricao_municipal = EXCLUDED.inscricao_municipal,
			regime_tributario = EXCLUDED.regime_tributario,
			logradouro = EXCLUDED.logradouro,
			numero = EXCLUDED.numero,
			complemento = EXCLUDED.complemento,
			bairro = EXCLUDED.bairro,
			codigo_municipio = EXCLUDED.codigo_municipio,
			municipio = EXCLUDED.municipio,
			uf = EXCLUDED.uf,
			cep = EXCLUDED.cep,
			fone = EXCLUDED.fone,
			email = EXCLUDED.email,
			emitir_nfce = EXCLUDED.emitir_nfce,
			emitir_nfse = EXCLUDED.emitir_nfse,
			serie_nfce = EXCLUDED.serie_nfce,
			aliquota_iss_padrao = EXCLUDED.aliquota_iss_padrao,
			prod_csc_id = EXCLUDED.prod_csc_id,
			prod_csc_token = EXCLUDED.prod_csc_token,
			prod_nfse_login = EXCLUDED.prod_nfse_login,
			prod_nfse_senha = EXCLUDED.prod_nfse_senha,
			hom_csc_id = EXCLUDED.hom_csc_id,
			hom_csc_token = EXCLUDED.hom_csc_token,
			hom_nfse_login = EXCLUDED.hom_nfse_login,
			hom_nfse_senha = EXCLUDED.hom_nfse_senha,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.OrganizationID, e.CNPJ, e.RazaoSocial, e.NomeFantasia,
		e.InscricaoEstadual, e.InscricaoMunicipal, e.RegimeTributario,
		e.Endereco.Logradouro, e.Endereco.Numero, e.Endereco.Complemento, e.Endereco.Bairro,
		e.Endereco.CodigoMunicipio, e.Endereco.Municipio, e.Endereco.UF, e.Endereco.CEP,
		e.Fone, e.Email, e.EmitirNfce, e.EmitirNfse, e.SerieNfce, e.AliquotaIssPad,
		string(e.Producao.CscID), string(e.Producao.CscToken), string(e.Producao.NfseLogin), string(e.Producao.NfseSenha),
		string(e.Homologacao.CscID), string(e.Homologacao.CscToken), string(e.Homologacao.NfseLogin), string(e.Homologacao.NfseSenha),
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicado
		}
		return fmt.Errorf("upsert empresa fiscal: %w", err)
	}
	return nil
}

// BuscarPorOrganizacao devolve (nil, nil) quando o tenant não tem perfil.
func (r *EmpresaFiscalRepo) BuscarPorOrganizacao(ctx context.Context, organizationID string) (*entity.EmpresaFiscal, error) {
	query := `SELECT ` + colunasEmpresa + ` FROM empresas_fiscais WHERE organization_id = $1`
	return r.buscar(ctx, query, organizationID)
}

// BuscarPorCNPJ devolve (nil, nil) quando o CNPJ não está cadastrado.
func (r *EmpresaFiscalRepo) BuscarPorCNPJ(ctx context.Context, cnpj string) (*entity.EmpresaFiscal, error) {
	query := `SELECT ` + colunasEmpresa + ` FROM empresas_fiscais WHERE cnpj = $1`
	return r.buscar(ctx, query, cnpj)
}

func (r *EmpresaFiscalRepo) buscar(ctx context.Context, query, arg string) (*entity.EmpresaFiscal, error) {
	var e entity.EmpresaFiscal
	var prodCscID, prodCscToken, prodNfseLogin, prodNfseSenha string
	var homCscID, homCscToken, homNfseLogin, homNfseSenha string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&e.ID, &e.OrganizationID, &e.CNPJ, &e.RazaoSocial, &e.NomeFantasia,
		&e.InscricaoEstadual, &e.InscricaoMunicipal, &e.RegimeTributario,
		&e.Endereco.Logradouro, &e.Endereco.Numero, &e.Endereco.Complemento, &e.Endereco.Bairro,
		&e.Endereco.CodigoMunicipio, &e.Endereco.Municipio, &e.Endereco.UF, &e.Endereco.CEP,
		&e.Fone, &e.Email, &e.EmitirNfce, &e.EmitirNfse, &e.SerieNfce, &e.AliquotaIssPad,
		&prodCscID, &prodCscToken, &prodNfseLogin, &prodNfseSenha,
		&homCscID, &homCscToken, &homNfseLogin, &homNfseSenha,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa fiscal: %w", err)
	}
	e.Producao = entity.CredenciaisAmbiente{
		CscID:     entity.Segredo(prodCscID),
		CscToken:  entity.Segredo(prodCscToken),
		NfseLogin: entity.Segredo(prodNfseLogin),
		NfseSenha: entity.Segredo(prodNfseSenha),
	}
	e.Homologacao = entity.CredenciaisAmbiente{
		CscID:     entity.Segredo(homCscID),
		CscToken:  entity.Segredo(homCscToken),
		NfseLogin: entity.Segredo(homNfseLogin),
		NfseSenha: entity.Segredo(homNfseSenha),
	}
	return &e, nil
}
