package fiscal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/dto"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/repository"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/nuvemfiscal"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/fiscal"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/logger"
)

// RegistrarEmpresaUseCase grava o perfil fiscal do tenant e o replica no
// gateway. Os dois ambientes são configurados em paralelo e de forma isolada:
// a falha de um não interrompe nem invalida o outro.
type RegistrarEmpresaUseCase struct {
	empresaRepo repository.EmpresaFiscalRepository
	gateway     GatewayEmpresas
	log         *logger.Logger
}

// NewRegistrarEmpresaUseCase constrói o caso de uso.
func NewRegistrarEmpresaUseCase(
	empresaRepo repository.EmpresaFiscalRepository,
	gateway GatewayEmpresas,
	log *logger.Logger,
) *RegistrarEmpresaUseCase {
	return &RegistrarEmpresaUseCase{empresaRepo: empresaRepo, gateway: gateway, log: log}
}

// Registrar valida e persiste o perfil localmente antes de qualquer chamada de
// rede; o que o gateway fizer depois não desfaz o cadastro local. Os segredos
// submetidos como sentinela mascarado preservam o valor já gravado.
func (uc *RegistrarEmpresaUseCase) Registrar(ctx context.Context, organizationID string, req dto.EmpresaFiscalRequest) (*dto.RegistroEmpresaResponse, error) {
	if organizationID == "" {
		return nil, domain.ErrNaoAutorizado
	}
	cnpj := fiscal.SomenteDigitos(req.CNPJ)
	if err := fiscal.ValidarCNPJ(cnpj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEntradaInvalida, err)
	}
	if req.RazaoSocial == "" || req.Endereco.CodigoMunicipio == "" {
		return nil, fmt.Errorf("%w: razão social e município são obrigatórios", domain.ErrEntradaInvalida)
	}
	if !req.EmitirNfce && !req.EmitirNfse {
		return nil, fmt.Errorf("%w: pelo menos um módulo de emissão deve estar ativo", domain.ErrEntradaInvalida)
	}

	atual, err := uc.empresaRepo.BuscarPorOrganizacao(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if atual == nil {
		// Sem linha do tenant: um perfil pré-provisionado pelo CNPJ (ainda sem
		// organização) pode ser adotado, mantendo id, histórico e segredos.
		atual, err = uc.empresaRepo.BuscarPorCNPJ(ctx, cnpj)
		if err != nil {
			return nil, err
		}
		if atual != nil && atual.OrganizationID != "" && atual.OrganizationID != organizationID {
			return nil, fmt.Errorf("%w: cnpj já cadastrado por outra organização", domain.ErrConflito)
		}
	}

	empresa := montarEmpresa(organizationID, cnpj, req, atual)
	if err := uc.empresaRepo.Salvar(ctx, empresa); err != nil {
		if errors.Is(err, domain.ErrDuplicado) {
			return nil, fmt.Errorf("%w: cnpj já cadastrado por outra organização", domain.ErrConflito)
		}
		return nil, err
	}

	// Replica nos dois ambientes em paralelo; cada um registra seu desfecho.
	ambientes := []string{entity.AmbienteHomologacao, entity.AmbienteProducao}
	resultados := make([]dto.AmbienteResultado, len(ambientes))

	var wg sync.WaitGroup
	for i, ambiente := range ambientes {
		wg.Add(1)
		go func(i int, ambiente string) {
			defer wg.Done()
			resultados[i] = uc.configurarAmbiente(ctx, ambiente, empresa)
		}(i, ambiente)
	}
	wg.Wait()

	sucesso := 0
	for _, r := range resultados {
		if r.Sucesso {
			sucesso++
		}
	}
	uc.log.Info().
		Str("organization_id", organizationID).
		Str("cnpj", cnpj).
		Int("ambientes_ok", sucesso).
		Msg("perfil fiscal registrado")

	return &dto.RegistroEmpresaResponse{
		Mensagem:  fmt.Sprintf("perfil fiscal salvo; %d de %d ambientes configurados no gateway", sucesso, len(ambientes)),
		Ambientes: resultados,
	}, nil
}

// configurarAmbiente executa a sequência de cadastro de um ambiente:
// empresa (POST, PUT em conflito), depois os módulos ativos. Devolve o
// desfecho em vez de erro para o chamador agregar.
func (uc *RegistrarEmpresaUseCase) configurarAmbiente(ctx context.Context, ambiente string, empresa *entity.EmpresaFiscal) dto.AmbienteResultado {
	resultado := dto.AmbienteResultado{Ambiente: ambiente}
	cnpj := fiscal.SomenteDigitos(empresa.CNPJ)

	if err := uc.gateway.CriarEmpresa(ctx, ambiente, empresaParaGateway(empresa)); err != nil {
		var ge *nuvemfiscal.ErroGateway
		if errors.As(err, &ge) && ge.Conflito() {
			// Empresa já existe no gateway: atualiza o cadastro.
			err = uc.gateway.AtualizarEmpresa(ctx, ambiente, cnpj, empresaParaGateway(empresa))
		}
		if err != nil {
			uc.log.Warn().Err(err).Str("ambiente", ambiente).Str("cnpj", cnpj).Msg("cadastro da empresa no gateway falhou")
			resultado.Mensagem = "cadastro da empresa: " + err.Error()
			return resultado
		}
	}

	creds := empresa.Credenciais(ambiente)

	if empresa.EmitirNfce {
		if !creds.TemCsc() {
			resultado.Mensagem = "nfce ativo sem CSC configurado para o ambiente"
			return resultado
		}
		cfg := nuvemfiscal.ConfigNfce{
			Ambiente: ambiente,
			IDCsc:    string(creds.CscID),
			Csc:      string(creds.CscToken),
		}
		if err := uc.gateway.ConfigurarNfce(ctx, ambiente, cnpj, cfg); err != nil {
			uc.log.Warn().Err(err).Str("ambiente", ambiente).Msg("configuração nfce no gateway falhou")
			resultado.Mensagem = "configuração nfce: " + err.Error()
			return resultado
		}
	}

	if empresa.EmitirNfse {
		if !creds.TemNfse() {
			resultado.Mensagem = "nfse ativo sem credenciais da prefeitura para o ambiente"
			return resultado
		}
		cfg := nuvemfiscal.ConfigNfse{
			Ambiente: ambiente,
			Login:    string(creds.NfseLogin),
			Senha:    string(creds.NfseSenha),
		}
		err := uc.gateway.AtualizarConfigNfse(ctx, ambiente, cnpj, cfg)
		if err != nil {
			var ge *nuvemfiscal.ErroGateway
			if errors.As(err, &ge) && ge.NaoEncontrado() {
				// Primeira configuração do módulo neste ambiente.
				err = uc.gateway.CriarConfigNfse(ctx, ambiente, cnpj, cfg)
			}
		}
		if err != nil {
			uc.log.Warn().Err(err).Str("ambiente", ambiente).Msg("configuração nfse no gateway falhou")
			resultado.Mensagem = "configuração nfse: " + err.Error()
			return resultado
		}
	}

	resultado.Sucesso = true
	return resultado
}

// Obter devolve o perfil fiscal do tenant com os segredos mascarados.
func (uc *RegistrarEmpresaUseCase) Obter(ctx context.Context, organizationID string) (*dto.EmpresaFiscalResponse, error) {
	empresa, err := uc.empresaRepo.BuscarPorOrganizacao(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if empresa == nil {
		return nil, domain.ErrNaoEncontrado
	}
	return respostaDaEmpresa(empresa), nil
}

// ── montagem e mapeamento ─────────────────────────────────────────────────────

// montarEmpresa constrói a entidade a persistir, mesclando os segredos
// submetidos com os já gravados (sentinela preserva o atual).
func montarEmpresa(organizationID, cnpj string, req dto.EmpresaFiscalRequest, atual *entity.EmpresaFiscal) *entity.EmpresaFiscal {
	agora := time.Now()

	empresa := &entity.EmpresaFiscal{
		ID:                 uuid.NewString(),
		OrganizationID:     organizationID,
		CNPJ:               cnpj,
		RazaoSocial:        req.RazaoSocial,
		NomeFantasia:       req.NomeFantasia,
		InscricaoEstadual:  req.InscricaoEstadual,
		InscricaoMunicipal: req.InscricaoMunicipal,
		RegimeTributario:   req.RegimeTributario,
		Endereco:           enderecoDoDTO(req.Endereco),
		Fone:               req.Fone,
		Email:              req.Email,
		EmitirNfce:         req.EmitirNfce,
		EmitirNfse:         req.EmitirNfse,
		SerieNfce:          req.SerieNfce,
		AliquotaIssPad:     req.AliquotaIssPadrao,
		Producao:           credenciaisDoDTO(req.Producao),
		Homologacao:        credenciaisDoDTO(req.Homologacao),
		CreatedAt:          agora,
		UpdatedAt:          agora,
	}
	if empresa.RegimeTributario == "" {
		empresa.RegimeTributario = "1"
	}

	// A mescla roda sempre, mesmo no primeiro cadastro: um sentinela submetido
	// sem valor gravado colapsa para vazio em vez de ser persistido como segredo.
	var base *entity.EmpresaFiscal
	if atual != nil {
		base = atual
		empresa.ID = atual.ID
		empresa.CreatedAt = atual.CreatedAt
	} else {
		base = &entity.EmpresaFiscal{}
	}
	empresa.Producao = base.Producao.Mesclar(empresa.Producao)
	empresa.Homologacao = base.Homologacao.Mesclar(empresa.Homologacao)
	return empresa
}

func credenciaisDoDTO(d dto.CredenciaisDTO) entity.CredenciaisAmbiente {
	return entity.CredenciaisAmbiente{
		CscID:     entity.Segredo(d.CscID),
		CscToken:  entity.Segredo(d.CscToken),
		NfseLogin: entity.Segredo(d.NfseLogin),
		NfseSenha: entity.Segredo(d.NfseSenha),
	}
}

func enderecoDoDTO(d dto.EnderecoDTO) entity.Endereco {
	return entity.Endereco{
		Logradouro:      d.Logradouro,
		Numero:          d.Numero,
		Complemento:     d.Complemento,
		Bairro:          d.Bairro,
		CodigoMunicipio: fiscal.SomenteDigitos(d.CodigoMunicipio),
		Municipio:       d.Municipio,
		UF:              d.UF,
		CEP:             fiscal.SomenteDigitos(d.CEP),
	}
}

func enderecoParaDTO(e entity.Endereco) dto.EnderecoDTO {
	return dto.EnderecoDTO{
		Logradouro:      e.Logradouro,
		Numero:          e.Numero,
		Complemento:     e.Complemento,
		Bairro:          e.Bairro,
		CodigoMunicipio: e.CodigoMunicipio,
		Municipio:       e.Municipio,
		UF:              e.UF,
		CEP:             e.CEP,
	}
}

func empresaParaGateway(e *entity.EmpresaFiscal) nuvemfiscal.EmpresaGateway {
	return nuvemfiscal.EmpresaGateway{
		CNPJ:               fiscal.SomenteDigitos(e.CNPJ),
		RazaoSocial:        e.RazaoSocial,
		NomeFantasia:       e.NomeFantasia,
		InscricaoEstadual:  e.InscricaoEstadual,
		InscricaoMunicipal: e.InscricaoMunicipal,
		Fone:               e.Fone,
		Email:              e.Email,
		Endereco: nuvemfiscal.EnderecoGateway{
			Logradouro:      e.Endereco.Logradouro,
			Numero:          e.Endereco.Numero,
			Complemento:     e.Endereco.Complemento,
			Bairro:          e.Endereco.Bairro,
			CodigoMunicipio: e.Endereco.CodigoMunicipio,
			CidadeNome:      e.Endereco.Municipio,
			UF:              e.Endereco.UF,
			CEP:             e.Endereco.CEP,
		},
	}
}

// respostaDaEmpresa mapeia a entidade para leitura externa. Os segredos nunca
// saem daqui com o valor real: apenas o sentinela quando definidos.
func respostaDaEmpresa(e *entity.EmpresaFiscal) *dto.EmpresaFiscalResponse {
	mascarar := func(c entity.CredenciaisAmbiente) dto.CredenciaisDTO {
		return dto.CredenciaisDTO{
			CscID:     c.CscID.Exibir(),
			CscToken:  c.CscToken.Exibir(),
			NfseLogin: c.NfseLogin.Exibir(),
			NfseSenha: c.NfseSenha.Exibir(),
		}
	}
	return &dto.EmpresaFiscalResponse{
		ID:                 e.ID,
		CNPJ:               e.CNPJ,
		RazaoSocial:        e.RazaoSocial,
		NomeFantasia:       e.NomeFantasia,
		InscricaoEstadual:  e.InscricaoEstadual,
		InscricaoMunicipal: e.InscricaoMunicipal,
		RegimeTributario:   e.RegimeTributario,
		Endereco:           enderecoParaDTO(e.Endereco),
		Fone:               e.Fone,
		Email:              e.Email,
		EmitirNfce:         e.EmitirNfce,
		EmitirNfse:         e.EmitirNfse,
		SerieNfce:          e.SerieNfce,
		AliquotaIssPadrao:  e.AliquotaIssPad,
		Producao:           mascarar(e.Producao),
		Homologacao:        mascarar(e.Homologacao),
	}
}
