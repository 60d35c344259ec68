package nuvemfiscal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/fiscal"
)

// Valores fixos do cupom fiscal (modelo 65, consumidor final presencial).
const (
	modeloNfce       = "65"
	naturezaOperacao = "VENDA AO CONSUMIDOR"

	// Tratamento tributário padrão dos itens: Simples Nacional sem permissão
	// de crédito (CSOSN 102) e PIS/COFINS em outras operações, zerados (CST 99).
	// Fallback explícito e documentado; configuração por item é extensão futura.
	csosnSimplesSemCredito = "102"
	cstPisCofinsOutras     = "99"

	ncmPadrao     = "85119000" // partes de aparelhos elétricos de ignição
	cfopPadrao    = "5102"     // venda de mercadoria adquirida de terceiros
	unidadePadrao = "UN"
)

// Responsável técnico exigido pelo esquema: identidade fixa do fornecedor do
// software, não configurável por tenant.
const (
	respTecCNPJ    = "45987654000121"
	respTecContato = "Suporte Autoeletrica Software"
	respTecEmail   = "suporte@autoeletrica.dev.br"
	respTecFone    = "4199999000"
)

// ── Entrada do builder ────────────────────────────────────────────────────────

// ItemVenda é a linha de venda como chega da ordem de serviço.
type ItemVenda struct {
	Codigo        string
	Descricao     string
	NCM           string // vazio = ncmPadrao
	CFOP          string // vazio = cfopPadrao
	Unidade       string // vazio = unidadePadrao
	Quantidade    decimal.Decimal
	ValorUnitario decimal.Decimal
}

// Comprador identifica o destinatário. Nil ou documento vazio representa o
// consumidor final não identificado (ramo deliberado, não omissão).
type Comprador struct {
	Documento string // CPF ou CNPJ
	Nome      string
}

// PagamentoVenda meio e valor pagos.
type PagamentoVenda struct {
	Meio  string // código fiscal do meio: "01" dinheiro, "03" crédito, "17" PIX...
	Valor decimal.Decimal
}

// ── Payload (esquema do gateway) ──────────────────────────────────────────────

// NfcePedido é o pedido de emissão de NFC-e no esquema do gateway.
type NfcePedido struct {
	Ambiente string `json:"ambiente"`
	InfNfe   InfNfe `json:"infNFe"`
}

// InfNfe corpo do documento modelo 65.
type InfNfe struct {
	Versao     string        `json:"versao"`
	Ide        Ide           `json:"ide"`
	Emit       Emitente      `json:"emit"`
	Dest       *Destinatario `json:"dest,omitempty"`
	Det        []Det         `json:"det"`
	Total      Total         `json:"total"`
	Transp     Transporte    `json:"transp"`
	Pag        Pag           `json:"pag"`
	InfRespTec RespTecnico   `json:"infRespTec"`
}

// Ide metadados de emissão.
type Ide struct {
	CMunFG   string `json:"cMunFG"` // município de ocorrência do fato gerador
	NatOp    string `json:"natOp"`
	Mod      string `json:"mod"` // sempre "65"
	Serie    string `json:"serie"`
	NNF      int64  `json:"nNF"`
	DhEmi    string `json:"dhEmi"`    // ISO com offset
	TpAmb    int    `json:"tpAmb"`    // 1 producao, 2 homologacao
	FinNFe   int    `json:"finNFe"`   // 1 = normal
	IndFinal int    `json:"indFinal"` // 1 = consumidor final
	IndPres  int    `json:"indPres"`  // 1 = operação presencial
	TpEmis   int    `json:"tpEmis"`   // 1 = emissão normal
}

// Emitente bloco do emissor.
type Emitente struct {
	CNPJ      string          `json:"CNPJ"`
	XNome     string          `json:"xNome"`
	IE        string          `json:"IE"`
	CRT       string          `json:"CRT"`
	EnderEmit EnderecoGateway `json:"enderEmit"`
}

// Destinatario bloco do comprador identificado.
type Destinatario struct {
	CPF       string `json:"CPF,omitempty"`
	CNPJ      string `json:"CNPJ,omitempty"`
	XNome     string `json:"xNome,omitempty"`
	IndIEDest int    `json:"indIEDest"` // 9 = não contribuinte
}

// Det linha de item com produto e impostos.
type Det struct {
	NItem   int     `json:"nItem"`
	Prod    Produto `json:"prod"`
	Imposto Imposto `json:"imposto"`
}

// Produto identidade e valores do item.
type Produto struct {
	CProd  string  `json:"cProd"`
	XProd  string  `json:"xProd"`
	NCM    string  `json:"NCM"`
	CFOP   string  `json:"CFOP"`
	UCom   string  `json:"uCom"`
	QCom   float64 `json:"qCom"`
	VUnCom float64 `json:"vUnCom"`
	VProd  float64 `json:"vProd"`
	IndTot int     `json:"indTot"` // 1 = compõe o total da nota
}

// Imposto blocos tributários do item.
type Imposto struct {
	ICMS   ICMS   `json:"ICMS"`
	PIS    PIS    `json:"PIS"`
	COFINS COFINS `json:"COFINS"`
}

// ICMSSN102 Simples Nacional sem permissão de crédito.
type ICMSSN102 struct {
	Orig  string `json:"orig"`
	CSOSN string `json:"CSOSN"`
}

// ICMS wrapper do grupo escolhido.
type ICMS struct {
	ICMSSN102 *ICMSSN102 `json:"ICMSSN102,omitempty"`
}

// PIS contribuição federal, zerada por padrão.
type PIS struct {
	PISOutr pisOutr `json:"PISOutr"`
}

type pisOutr struct {
	CST  string  `json:"CST"`
	VBC  float64 `json:"vBC"`
	PPIS float64 `json:"pPIS"`
	VPIS float64 `json:"vPIS"`
}

// COFINS contribuição federal, zerada por padrão.
type COFINS struct {
	COFINSOutr cofinsOutr `json:"COFINSOutr"`
}

type cofinsOutr struct {
	CST     string  `json:"CST"`
	VBC     float64 `json:"vBC"`
	PCOFINS float64 `json:"pCOFINS"`
	VCOFINS float64 `json:"vCOFINS"`
}

// Total totais da nota.
type Total struct {
	ICMSTot ICMSTot `json:"ICMSTot"`
}

// ICMSTot totais por tributo e valor final.
type ICMSTot struct {
	VBC     float64 `json:"vBC"`
	VICMS   float64 `json:"vICMS"`
	VProd   float64 `json:"vProd"`
	VPIS    float64 `json:"vPIS"`
	VCOFINS float64 `json:"vCOFINS"`
	VDesc   float64 `json:"vDesc"`
	VFrete  float64 `json:"vFrete"`
	VNF     float64 `json:"vNF"`
}

// Transporte sempre sem ocorrência de frete no balcão.
type Transporte struct {
	ModFrete int `json:"modFrete"` // 9 = sem ocorrência de transporte
}

// Pag bloco de pagamento.
type Pag struct {
	DetPag []DetPag `json:"detPag"`
}

// DetPag meio e valor de um pagamento.
type DetPag struct {
	TPag string  `json:"tPag"`
	VPag float64 `json:"vPag"`
}

// RespTecnico responsável técnico pelo software emissor.
type RespTecnico struct {
	CNPJ     string `json:"CNPJ"`
	XContato string `json:"xContato"`
	Email    string `json:"email"`
	Fone     string `json:"fone"`
}

// ── Builder ───────────────────────────────────────────────────────────────────

// MontarNfce transforma os dados internos da venda no documento do esquema do
// gateway. Função pura: nenhum I/O, erro apenas por campo obrigatório ausente.
func MontarNfce(
	empresa *entity.EmpresaFiscal,
	comprador *Comprador,
	itens []ItemVenda,
	pagamento PagamentoVenda,
	ambiente string,
	numero int64,
	agora time.Time,
) (*NfcePedido, error) {
	if empresa == nil {
		return nil, fmt.Errorf("montar nfce: perfil fiscal ausente")
	}
	if len(itens) == 0 {
		return nil, fmt.Errorf("montar nfce: venda sem itens")
	}
	if empresa.CNPJ == "" || empresa.Endereco.CodigoMunicipio == "" {
		return nil, fmt.Errorf("montar nfce: perfil fiscal sem CNPJ ou município")
	}

	serie := SerieNfce(empresa)

	det := make([]Det, 0, len(itens))
	totalProdutos := decimal.Zero
	for i, item := range itens {
		vProd := item.Quantidade.Mul(item.ValorUnitario).Round(2)
		totalProdutos = totalProdutos.Add(vProd)
		det = append(det, Det{
			NItem: i + 1,
			Prod: Produto{
				CProd:  valorOu(item.Codigo, fmt.Sprintf("ITEM%03d", i+1)),
				XProd:  item.Descricao,
				NCM:    valorOu(item.NCM, ncmPadrao),
				CFOP:   valorOu(item.CFOP, cfopPadrao),
				UCom:   valorOu(item.Unidade, unidadePadrao),
				QCom:   item.Quantidade.InexactFloat64(),
				VUnCom: item.ValorUnitario.InexactFloat64(),
				VProd:  vProd.InexactFloat64(),
				IndTot: 1,
			},
			Imposto: impostoPadrao(),
		})
	}

	tpAmb := 2
	if ambiente == entity.AmbienteProducao {
		tpAmb = 1
	}

	pedido := &NfcePedido{
		Ambiente: ambiente,
		InfNfe: InfNfe{
			Versao: "4.00",
			Ide: Ide{
				CMunFG:   fiscal.SomenteDigitos(empresa.Endereco.CodigoMunicipio),
				NatOp:    naturezaOperacao,
				Mod:      modeloNfce,
				Serie:    serie,
				NNF:      numero,
				DhEmi:    agora.Format(time.RFC3339),
				TpAmb:    tpAmb,
				FinNFe:   1,
				IndFinal: 1,
				IndPres:  1,
				TpEmis:   1,
			},
			Emit: Emitente{
				CNPJ:      fiscal.SomenteDigitos(empresa.CNPJ),
				XNome:     empresa.RazaoSocial,
				IE:        empresa.InscricaoEstadual,
				CRT:       valorOu(empresa.RegimeTributario, "1"),
				EnderEmit: enderecoGateway(empresa.Endereco),
			},
			Dest: destinatario(comprador),
			Det:  det,
			Total: Total{
				ICMSTot: ICMSTot{
					VProd: totalProdutos.InexactFloat64(),
					VNF:   totalProdutos.InexactFloat64(),
				},
			},
			Transp: Transporte{ModFrete: 9},
			Pag: Pag{
				DetPag: []DetPag{{
					TPag: valorOu(pagamento.Meio, "01"),
					VPag: pagamento.Valor.Round(2).InexactFloat64(),
				}},
			},
			InfRespTec: RespTecnico{
				CNPJ:     respTecCNPJ,
				XContato: respTecContato,
				Email:    respTecEmail,
				Fone:     respTecFone,
			},
		},
	}
	return pedido, nil
}

// SerieNfce resolve a série de NFC-e do perfil, "1" quando não configurada.
func SerieNfce(empresa *entity.EmpresaFiscal) string {
	if empresa != nil && empresa.SerieNfce != "" {
		return empresa.SerieNfce
	}
	return "1"
}

// destinatario devolve nil para consumidor final não identificado.
func destinatario(c *Comprador) *Destinatario {
	if c == nil {
		return nil
	}
	doc := fiscal.SomenteDigitos(c.Documento)
	if doc == "" {
		return nil
	}
	d := &Destinatario{XNome: c.Nome, IndIEDest: 9}
	if len(doc) == 14 {
		d.CNPJ = doc
	} else {
		d.CPF = doc
	}
	return d
}

// impostoPadrao é o bloco tributário default-safe de cada item.
func impostoPadrao() Imposto {
	return Imposto{
		ICMS:   ICMS{ICMSSN102: &ICMSSN102{Orig: "0", CSOSN: csosnSimplesSemCredito}},
		PIS:    PIS{PISOutr: pisOutr{CST: cstPisCofinsOutras}},
		COFINS: COFINS{COFINSOutr: cofinsOutr{CST: cstPisCofinsOutras}},
	}
}

func enderecoGateway(e entity.Endereco) EnderecoGateway {
	return EnderecoGateway{
		Logradouro:      e.Logradouro,
		Numero:          e.Numero,
		Complemento:     e.Complemento,
		Bairro:          e.Bairro,
		CodigoMunicipio: fiscal.SomenteDigitos(e.CodigoMunicipio),
		CidadeNome:      e.Municipio,
		UF:              e.UF,
		CEP:             fiscal.SomenteDigitos(e.CEP),
	}
}

func valorOu(v, padrao string) string {
	if v != "" {
		return v
	}
	return padrao
}
