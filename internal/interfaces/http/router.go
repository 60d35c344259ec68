package http

import (
	"github.com/gofiber/fiber/v2"

	appfiscal "github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/fiscal"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	RegistrarEmpresa *appfiscal.RegistrarEmpresaUseCase
	Emissao          *appfiscal.EmissaoUseCase
	Consulta         *appfiscal.ConsultaUseCase
	Reconsulta       *appfiscal.ReconsultaUseCase
	Cancelamento     *appfiscal.CancelamentoUseCase
	Artefatos        *appfiscal.ArtefatosUseCase
	JWTSecret        string
}

// Router registra as rotas da API fiscal. Tudo sob /api/fiscal exige Bearer
// Token; a organização do token escopa cada operação.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	fiscal := api.Group("/fiscal", AuthMiddleware(deps.JWTSecret))

	// Perfil fiscal do emitente
	empresaHandler := NewEmpresaHandler(deps.RegistrarEmpresa)
	fiscal.Put("/empresa", empresaHandler.Registrar)
	fiscal.Get("/empresa", empresaHandler.Obter)

	// Emissão e ciclo de vida das notas
	fiscalHandler := NewFiscalHandler(deps.Emissao, deps.Consulta, deps.Reconsulta, deps.Cancelamento, deps.Artefatos)
	fiscal.Post("/notas/nfce", fiscalHandler.EmitirNfce)
	fiscal.Post("/notas/nfse", fiscalHandler.EmitirNfse)
	fiscal.Get("/notas", fiscalHandler.Listar)
	fiscal.Get("/notas/:id", fiscalHandler.Obter)
	fiscal.Post("/notas/:id/reconsultar", fiscalHandler.Reconsultar)
	fiscal.Post("/notas/:id/cancelar", fiscalHandler.Cancelar)
	fiscal.Get("/notas/:id/xml", fiscalHandler.Xml)
	fiscal.Get("/notas/:id/pdf", fiscalHandler.Pdf)
	fiscal.Get("/notas/:id/recibo", fiscalHandler.Recibo)
}
