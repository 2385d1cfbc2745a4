package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
)

// InventoryHandler maneja movimientos y traspasos (protegido).
type InventoryHandler struct {
	uc *inventory.MovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Guarda el movimiento sin aplicar. Con apply=true además lo aplica al costo promedio.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        apply  query  bool                       false  "Aplicar en la misma petición"
// @Param        body   body   dto.CreateMovementRequest  true   "kind, warehouse_id, lines"
// @Success      201    {object}  dto.MovementResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Failure      503    {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) CreateMovement(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return writeError(c, domain.ErrForbidden)
	}
	var in dto.CreateMovementRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	input := inventory.MovementInputFromRequest(tenantID, GetUserID(c), in)

	if !c.QueryBool("apply") {
		mov, err := h.uc.CreateMovement(c.UserContext(), input)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
	}

	mov, res, err := h.uc.RegisterMovement(c.UserContext(), input)
	if err != nil {
		if mov != nil {
			// quedó guardado sin aplicar; se puede reintentar con /apply
			c.Location("/api/inventory/movements/" + mov.ID)
		}
		return writeError(c, err)
	}
	out := toMovementResponse(mov)
	out.Apply = toApplyResponse(mov.ID, res)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	mov, err := h.uc.GetMovement(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}

// ApplyMovement godoc
// @Summary      Aplicar movimiento
// @Description  Idempotente: un movimiento ya aplicado responde already_applied=true sin cambios.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.ApplyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/apply [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	id := c.Params("id")
	res, err := h.uc.ApplyMovement(c.UserContext(), GetTenantID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toApplyResponse(id, res))
}

// CreateTransfer godoc
// @Summary      Registrar traspaso entre bodegas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        apply  query  bool                       false  "Aplicar en la misma petición"
// @Param        body   body   dto.CreateTransferRequest  true   "source_warehouse_id, destination_warehouse_id, lines"
// @Success      201    {object}  dto.TransferResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) CreateTransfer(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return writeError(c, domain.ErrForbidden)
	}
	var in dto.CreateTransferRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	input := inventory.TransferInputFromRequest(tenantID, GetUserID(c), in)

	if !c.QueryBool("apply") {
		tr, err := h.uc.CreateTransfer(c.UserContext(), input)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toTransferResponse(tr))
	}

	tr, res, err := h.uc.RegisterTransfer(c.UserContext(), input)
	if err != nil {
		if tr != nil {
			c.Location("/api/inventory/transfers/" + tr.ID)
		}
		return writeError(c, err)
	}
	out := toTransferResponse(tr)
	out.Apply = toTransferApplyResponse(tr.ID, res)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetTransfer godoc
// @Summary      Obtener traspaso
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id} [get]
func (h *InventoryHandler) GetTransfer(c *fiber.Ctx) error {
	tr, err := h.uc.GetTransfer(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransferResponse(tr))
}

// ApplyTransfer godoc
// @Summary      Aplicar traspaso
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.ApplyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/{id}/apply [post]
func (h *InventoryHandler) ApplyTransfer(c *fiber.Ctx) error {
	id := c.Params("id")
	res, err := h.uc.ApplyTransfer(c.UserContext(), GetTenantID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransferApplyResponse(id, res))
}
