package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// SequenceHandler consecutivos por tenant.
type SequenceHandler struct {
	uc *inventory.SequenceUseCase
}

func NewSequenceHandler(uc *inventory.SequenceUseCase) *SequenceHandler {
	return &SequenceHandler{uc: uc}
}

// Next godoc
// @Summary      Siguiente consecutivo
// @Description  Incrementa el contador del tenant. El nombre no distingue mayúsculas.
// @Tags         sequences
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del contador"
// @Success      200   {object}  dto.NextSequenceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sequences/{name}/next [post]
func (h *SequenceHandler) Next(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return writeError(c, domain.Invalid("name", "mal codificado"))
	}
	value, err := h.uc.Next(c.UserContext(), GetTenantID(c), name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NextSequenceResponse{Name: inventory.NormalizeSequenceName(name), Value: value})
}
