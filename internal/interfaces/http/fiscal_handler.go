package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/dto"
	appfiscal "github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/fiscal"
)

// FiscalHandler trata emissão, consulta, cancelamento e artefatos de notas
// fiscais (protegido).
type FiscalHandler struct {
	emissao      *appfiscal.EmissaoUseCase
	consulta     *appfiscal.ConsultaUseCase
	reconsulta   *appfiscal.ReconsultaUseCase
	cancelamento *appfiscal.CancelamentoUseCase
	artefatos    *appfiscal.ArtefatosUseCase
}

// NewFiscalHandler constrói o handler.
func NewFiscalHandler(
	emissao *appfiscal.EmissaoUseCase,
	consulta *appfiscal.ConsultaUseCase,
	reconsulta *appfiscal.ReconsultaUseCase,
	cancelamento *appfiscal.CancelamentoUseCase,
	artefatos *appfiscal.ArtefatosUseCase,
) *FiscalHandler {
	return &FiscalHandler{
		emissao:      emissao,
		consulta:     consulta,
		reconsulta:   reconsulta,
		cancelamento: cancelamento,
		artefatos:    artefatos,
	}
}

// organizacao extrai a organização do token ou responde 401.
func organizacao(c *fiber.Ctx) (string, error) {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return "", c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	return organizationID, nil
}

// EmitirNfce emite o cupom fiscal de uma venda.
// POST /api/fiscal/notas/nfce
func (h *FiscalHandler) EmitirNfce(c *fiber.Ctx) error {
	organizationID, errResp := organizacao(c)
	if organizationID == "" {
		return errResp
	}
	var in dto.EmitirNfceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.emissao.EmitirNfce(c.Context(), organizationID, in)
	if err != nil {
		return responderErro(c, err)
	}
	// 201 mesmo com desfecho de rejeição ou erro: a tentativa foi registrada
	// e o corpo carrega o status.
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// EmitirNfse emite a nota de serviço.
// POST /api/fiscal/notas/nfse
func (h *FiscalHandler) EmitirNfse(c *fiber.Ctx) error {
	organizationID, errResp := organizacao(c)
	if organizationID == "" {
		return errResp
	}
	var in dto.EmitirNfseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.emissao.EmitirNfse(c.Context(), organizationID, in)
	if err != nil {
		return responderErro(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Obter devolve o estado atual de uma nota.
// GET /api/fiscal/notas/:id
func (h *FiscalHandler) Obter(c *fiber.Ctx) error {
	organizationID, errResp := organizacao(c)
	if organizationID == "" {
		return errResp
	}
	resp, err := h.consulta.Obter(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(resp)
}

// Listar pagina as notas do tenant.
// GET /api/fiscal/notas?limit=&offset=
func (h *FiscalHandler) Listar(c *fiber.Ctx) error {
	organizationID, errResp := organizacao(c)
	if organizationID == "" {
		return errResp
	}
	resp, err := h.consulta.Listar(c.Context(), organizationID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(resp)
}

// Reconsultar força uma consulta de status no gateway para uma nota pendente.
// POST /api/fiscal/notas/:id/reconsultar
func (h *FiscalHandler) Reconsultar(c *fiber.Ctx) error {
	organizationID, errResp := organizacao(c)
	if organizationID == "" {
		return errResp
	}
	// Confere a posse antes de reconsultar: a reconsulta em si não filtra tenant.
	if _, err := h.consulta.Obter(c.Context(), organizationID, c.Params("id")); err != nil {
		return responderErro(c, err)
	}
	resp, err := h.reconsulta.Reconsultar(c.Context(), c.Params("id"))
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(resp)
}

// Cancelar cancela uma nota autorizada.
// POST /api/fiscal/notas/:id/cancelar
func (h *FiscalHandler) Cancelar(c *fiber.Ctx) error {
	organizationID, errResp := organizacao(c)
	if organizationID == "" {
		return errResp
	}
	var in dto.CancelarNotaRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.cancelamento.Cancelar(c.Context(), organizationID, c.Params("id"), in)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(resp)
}

// Xml baixa o XML autorizado da nota.
// GET /api/fiscal/notas/:id/xml
func (h *FiscalHandler) Xml(c *fiber.Ctx) error {
	organizationID, errResp := organizacao(c)
	if organizationID == "" {
		return errResp
	}
	xmlBytes, err := h.artefatos.ObterXml(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return responderErro(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.Send(xmlBytes)
}

// Pdf baixa o DANFE/DANFSe da nota.
// GET /api/fiscal/notas/:id/pdf
func (h *FiscalHandler) Pdf(c *fiber.Ctx) error {
	organizationID, errResp := organizacao(c)
	if organizationID == "" {
		return errResp
	}
	pdfBytes, err := h.artefatos.ObterPdf(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return responderErro(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdfBytes)
}

// Recibo gera o recibo interno em PDF da nota.
// GET /api/fiscal/notas/:id/recibo
func (h *FiscalHandler) Recibo(c *fiber.Ctx) error {
	organizationID, errResp := organizacao(c)
	if organizationID == "" {
		return errResp
	}
	pdfBytes, err := h.artefatos.GerarRecibo(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return responderErro(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdfBytes)
}
