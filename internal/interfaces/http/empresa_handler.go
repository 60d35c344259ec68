package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/dto"
	appfiscal "github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/fiscal"
)

// EmpresaHandler trata o perfil fiscal do emitente (protegido).
type EmpresaHandler struct {
	uc *appfiscal.RegistrarEmpresaUseCase
}

// NewEmpresaHandler constrói o handler.
func NewEmpresaHandler(uc *appfiscal.RegistrarEmpresaUseCase) *EmpresaHandler {
	return &EmpresaHandler{uc: uc}
}

// Registrar grava o perfil fiscal e replica o cadastro nos dois ambientes do
// gateway. O corpo da resposta traz o desfecho por ambiente.
// PUT /api/fiscal/empresa
func (h *EmpresaHandler) Registrar(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.EmpresaFiscalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.Registrar(c.Context(), organizationID, in)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(resp)
}

// Obter devolve o perfil fiscal com os segredos mascarados.
// GET /api/fiscal/empresa
func (h *EmpresaHandler) Obter(c *fiber.Ctx) error {
	organizationID := GetOrganizationID(c)
	if organizationID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.Obter(c.Context(), organizationID)
	if err != nil {
		return responderErro(c, err)
	}
	return c.JSON(resp)
}
