package entity

import "time"

// SegredoMascarado é o sentinela devolvido em qualquer leitura de um segredo
// armazenado. Um sentinela recebido de volta numa atualização significa
// "manter o valor gravado", nunca é persistido como valor real.
const SegredoMascarado = "********"

// Segredo é um campo write-only: serializa como sentinela quando preenchido
// e só aceita sobrescrita por valores reais.
type Segredo string

// Definido informa se há valor real armazenado.
func (s Segredo) Definido() bool { return s != "" && !s.Mascarado() }

// Mascarado informa se o valor é o sentinela de leitura (não um segredo real).
func (s Segredo) Mascarado() bool { return string(s) == SegredoMascarado }

// Exibir devolve o que pode ir para fora do núcleo: o sentinela quando há
// valor gravado, vazio quando não há.
func (s Segredo) Exibir() string {
	if s.Definido() {
		return SegredoMascarado
	}
	return ""
}

// Mesclar decide o valor a persistir numa atualização: mantém o atual quando o
// submetido é o sentinela ou vazio, senão adota o submetido.
func (s Segredo) Mesclar(submetido Segredo) Segredo {
	if submetido == "" || submetido.Mascarado() {
		return s
	}
	return submetido
}

// CredenciaisAmbiente agrupa os segredos de um único ambiente do gateway.
type CredenciaisAmbiente struct {
	CscID     Segredo // identificador do CSC (NFC-e)
	CscToken  Segredo // código de segurança do contribuinte (NFC-e)
	NfseLogin Segredo // login no sistema da prefeitura (NFS-e)
	NfseSenha Segredo // senha no sistema da prefeitura (NFS-e)
}

// TemCsc informa se o par de segurança NFC-e está completo.
func (c CredenciaisAmbiente) TemCsc() bool { return c.CscID.Definido() && c.CscToken.Definido() }

// TemNfse informa se as credenciais NFS-e estão completas.
func (c CredenciaisAmbiente) TemNfse() bool { return c.NfseLogin.Definido() && c.NfseSenha.Definido() }

// Mesclar aplica Segredo.Mesclar campo a campo.
func (c CredenciaisAmbiente) Mesclar(sub CredenciaisAmbiente) CredenciaisAmbiente {
	return CredenciaisAmbiente{
		CscID:     c.CscID.Mesclar(sub.CscID),
		CscToken:  c.CscToken.Mesclar(sub.CscToken),
		NfseLogin: c.NfseLogin.Mesclar(sub.NfseLogin),
		NfseSenha: c.NfseSenha.Mesclar(sub.NfseSenha),
	}
}

// Endereco endereço completo do emitente, incluindo o código IBGE do município
// exigido pelo gateway.
type Endereco struct {
	Logradouro      string
	Numero          string
	Complemento     string
	Bairro          string
	CodigoMunicipio string // código IBGE (7 dígitos)
	Municipio       string
	UF              string
	CEP             string
}

// EmpresaFiscal é o perfil fiscal do emitente, um por tenant.
// Criado e atualizado apenas pelo registrador de empresa; os segredos são
// write-only para quem consome a API.
type EmpresaFiscal struct {
	ID             string
	OrganizationID string

	CNPJ               string
	RazaoSocial        string
	NomeFantasia       string
	InscricaoEstadual  string
	InscricaoMunicipal string
	RegimeTributario   string // CRT: "1" Simples Nacional, "3" Regime Normal
	Endereco           Endereco
	Fone               string
	Email              string

	// Ativação dos módulos de emissão para o tenant.
	EmitirNfce bool
	EmitirNfse bool

	// Serie e aliquota padrão usadas na montagem dos documentos.
	SerieNfce      string
	AliquotaIssPad string // percentual ISS padrão quando o serviço não define o seu

	Producao    CredenciaisAmbiente
	Homologacao CredenciaisAmbiente

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credenciais devolve o par de segredos do ambiente pedido.
func (e *EmpresaFiscal) Credenciais(ambiente string) CredenciaisAmbiente {
	if ambiente == AmbienteProducao {
		return e.Producao
	}
	return e.Homologacao
}
