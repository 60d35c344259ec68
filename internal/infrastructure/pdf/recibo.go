// Package pdf implementa o recibo interno de uma nota fiscal autorizada.
// O recibo não substitui o DANFE/DANFSe oficial do gateway: é o comprovante
// da oficina entregue ao cliente junto com a ordem de serviço.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razão Social + CNPJ  │  Tipo + Número + Data       │
//	│  ──────────────────────────────────────────────────────────  │
//	│  EMITENTE: Endereço / Fone / Email                           │
//	│  DOCUMENTO: ambiente, série, valor total                     │
//	│  ──────────────────────────────────────────────────────────  │
//	│  CHAVE DE ACESSO + QR de consulta                            │
//	│  ──────────────────────────────────────────────────────────  │
//	│  RODAPÉ: aviso de documento auxiliar                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/domain/entity"
)

// ── Paleta de cores ───────────────────────────────────────────────────────────

var (
	corPrimaria = &props.Color{Red: 14, Green: 77, Blue: 46}
	corCinza    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// GeradorRecibo implementa fiscal.GeradorRecibo usando Maroto v2.
type GeradorRecibo struct{}

// NewGeradorRecibo constrói o gerador.
func NewGeradorRecibo() *GeradorRecibo { return &GeradorRecibo{} }

// GerarRecibo gera o PDF do recibo e devolve seus bytes.
func (g *GeradorRecibo) GerarRecibo(nota *entity.NotaFiscal, empresa *entity.EmpresaFiscal) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de Documento Fiscal", true).
		WithAuthor(empresa.RazaoSocial, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(cabecalhoRow(nota, empresa))
	m.AddRows(line.NewRow(1, props.Line{Color: corPrimaria, Thickness: 0.5}))
	m.AddRows(emitenteRow(empresa))
	m.AddRows(documentoRow(nota))
	m.AddRows(line.NewRow(1, props.Line{Color: corPrimaria, Thickness: 0.3}))

	for _, r := range chaveAcessoRows(nota) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: corCinza, Thickness: 0.3}))
	m.AddRows(rodapeRow(nota))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ────────────────────────────────────────────────────────────────────

func tituloDocumento(tipo string) string {
	if tipo == entity.TipoNfse {
		return "NOTA FISCAL DE SERVIÇO"
	}
	return "CUPOM FISCAL ELETRÔNICO"
}

// cabecalhoRow: razão social + CNPJ (esq) e tipo + número + data (dir).
func cabecalhoRow(nota *entity.NotaFiscal, empresa *entity.EmpresaFiscal) core.Row {
	numero := nota.Numero
	if numero == "" {
		numero = "—"
	}
	data := nota.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(empresa.RazaoSocial, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: corPrimaria, Top: 1,
			}),
			text.New("CNPJ: "+formatarCNPJ(empresa.CNPJ), props.Text{
				Size: 9, Top: 9, Color: corCinza,
			}),
		),
		col.New(5).Add(
			text.New(tituloDocumento(nota.Tipo), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: corPrimaria, Top: 1,
			}),
			text.New("Nº "+numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitida em: "+data, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: corCinza,
			}),
		),
	)
}

// emitenteRow: dados do emitente.
func emitenteRow(empresa *entity.EmpresaFiscal) core.Row {
	endereco := fmt.Sprintf("%s, %s - %s/%s",
		empresa.Endereco.Logradouro, empresa.Endereco.Numero,
		empresa.Endereco.Municipio, empresa.Endereco.UF)
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DADOS DO EMITENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: corPrimaria, Top: 1,
			}),
			text.New(fmt.Sprintf("Endereço: %s   |   Fone: %s   |   Email: %s",
				endereco,
				ouTraco(empresa.Fone),
				ouTraco(empresa.Email),
			), props.Text{Size: 8, Top: 7, Color: corCinza}),
		),
	)
}

// documentoRow: identificação do documento e valor total.
func documentoRow(nota *entity.NotaFiscal) core.Row {
	serie := nota.Serie
	if serie == "" {
		serie = "—"
	}
	ambiente := "HOMOLOGAÇÃO (sem valor fiscal)"
	if nota.Ambiente == entity.AmbienteProducao {
		ambiente = "PRODUÇÃO"
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("DOCUMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: corPrimaria, Top: 1,
			}),
			text.New(fmt.Sprintf("Série: %s   |   Ambiente: %s", serie, ambiente), props.Text{
				Size: 8, Top: 7, Color: corCinza,
			}),
		),
		col.New(4).Add(
			text.New("VALOR TOTAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: corPrimaria, Top: 1,
			}),
			text.New("R$ "+nota.ValorTotal.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

// chaveAcessoRows: chave de acesso + QR para conferência do documento.
func chaveAcessoRows(nota *entity.NotaFiscal) []core.Row {
	if nota.ChaveAcesso == "" {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Documento ainda sem chave de acesso registrada.", props.Text{
				Size: 8, Color: corCinza, Top: 2,
			}),
		))}
	}

	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CHAVE DE ACESSO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: corPrimaria, Top: 1,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(formatarChave(nota.ChaveAcesso), props.Text{
				Size: 8, Color: corCinza, Top: 1, Left: 2,
			}),
		)),
		row.New(3),
	}

	conteudoQR := nota.ChaveAcesso
	if nota.URLXml != "" {
		conteudoQR = nota.URLXml
	}
	rows = append(rows, row.New(50).Add(
		col.New(4).Add(code.NewQr(conteudoQR, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Use o QR para conferir o documento\nautorizado.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: corCinza,
			}),
			text.New("RECIBO DE\n"+tituloDocumento(nota.Tipo), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 22,
				Left: 3, Color: corPrimaria,
			}),
		),
	))
	return rows
}

// rodapeRow: aviso legal do recibo.
func rodapeRow(nota *entity.NotaFiscal) core.Row {
	aviso := "Este recibo é um documento auxiliar interno. O documento fiscal " +
		"oficial é o autorizado pela administração tributária e está disponível " +
		"pelas representações XML e PDF do próprio documento."
	if nota.Status == entity.StatusCancelada {
		aviso = "DOCUMENTO CANCELADO. " + aviso
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(aviso, props.Text{Size: 6.5, Color: corCinza, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func ouTraco(s string) string {
	if s != "" {
		return s
	}
	return "—"
}

// formatarCNPJ aplica a máscara 00.000.000/0000-00 quando o valor tem 14 dígitos.
func formatarCNPJ(cnpj string) string {
	if len(cnpj) != 14 {
		return cnpj
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", cnpj[0:2], cnpj[2:5], cnpj[5:8], cnpj[8:12], cnpj[12:14])
}

// formatarChave agrupa a chave de acesso em blocos de 4 dígitos.
func formatarChave(chave string) string {
	out := make([]byte, 0, len(chave)+len(chave)/4)
	for i := 0; i < len(chave); i++ {
		if i > 0 && i%4 == 0 {
			out = append(out, ' ')
		}
		out = append(out, chave[i])
	}
	return string(out)
}
