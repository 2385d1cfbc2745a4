package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// MovementUseCase redacta movimientos y traspasos (validación + guardado sin aplicar) y,
// opcionalmente, los aplica con reintento ante conflictos de concurrencia.
type MovementUseCase struct {
	txRunner      TxRunner
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	engine        *CostingEngine
	transfers     *TransferOrchestrator
	retry         RetryPolicy
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	engine *CostingEngine,
	transfers *TransferOrchestrator,
	retry RetryPolicy,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:      txRunner,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		engine:        engine,
		transfers:     transfers,
		retry:         retry,
	}
}

// MovementLineInput línea de entrada. UnitCost nil = valorar al costo promedio.
type MovementLineInput struct {
	ItemID   string
	Quantity decimal.Decimal
	UnitCost *decimal.Decimal
}

// MovementInputDTO entrada para redactar un movimiento.
// ENTRADA y SALIDA exigen cantidades positivas; AJUSTE acepta negativas (salida) pero no cero.
type MovementInputDTO struct {
	TenantID    string
	UserID      string
	Kind        entity.MovementKind
	WarehouseID string
	Reference   string
	Notes       string
	Lines       []MovementLineInput
}

// TransferLineInput línea de traspaso. DestinationUnitCost nil = promedio del origen.
type TransferLineInput struct {
	ItemID              string
	Quantity            decimal.Decimal
	DestinationUnitCost *decimal.Decimal
}

// TransferInputDTO entrada para redactar un traspaso.
type TransferInputDTO struct {
	TenantID               string
	UserID                 string
	SourceWarehouseID      string
	DestinationWarehouseID string
	Reference              string
	Notes                  string
	Lines                  []TransferLineInput
}

// MovementInputFromRequest adapta el request HTTP a MovementInputDTO.
func MovementInputFromRequest(tenantID, userID string, in dto.CreateMovementRequest) MovementInputDTO {
	lines := make([]MovementLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, MovementLineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitCost: l.UnitCost})
	}
	return MovementInputDTO{
		TenantID:    tenantID,
		UserID:      userID,
		Kind:        entity.MovementKind(in.Kind),
		WarehouseID: in.WarehouseID,
		Reference:   in.Reference,
		Notes:       in.Notes,
		Lines:       lines,
	}
}

// TransferInputFromRequest adapta el request HTTP a TransferInputDTO.
func TransferInputFromRequest(tenantID, userID string, in dto.CreateTransferRequest) TransferInputDTO {
	lines := make([]TransferLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, TransferLineInput{ItemID: l.ItemID, Quantity: l.Quantity, DestinationUnitCost: l.DestinationUnitCost})
	}
	return TransferInputDTO{
		TenantID:               tenantID,
		UserID:                 userID,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Reference:              in.Reference,
		Notes:                  in.Notes,
		Lines:                  lines,
	}
}

// CreateMovement valida la entrada, verifica material y bodega del tenant y guarda el movimiento
// sin aplicar.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, input MovementInputDTO) (*entity.Movement, error) {
	if input.TenantID == "" {
		return nil, domain.Invalid("tenant_id", "es obligatorio")
	}
	if !input.Kind.Valid() {
		return nil, domain.Invalid("kind", "debe ser RECEIPT, ISSUE o ADJUSTMENT")
	}
	if input.WarehouseID == "" {
		return nil, domain.Invalid("warehouse_id", "es obligatorio")
	}
	if len(input.Lines) == 0 {
		return nil, domain.Invalid("lines", "debe tener al menos una línea")
	}
	for _, l := range input.Lines {
		if err := validateLine(input.Kind, l); err != nil {
			return nil, err
		}
	}
	if err := uc.checkWarehouse(ctx, input.TenantID, input.WarehouseID); err != nil {
		return nil, err
	}
	for _, l := range input.Lines {
		if err := uc.checkItem(ctx, input.TenantID, l.ItemID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		TenantID:    input.TenantID,
		Kind:        input.Kind,
		WarehouseID: input.WarehouseID,
		Date:        now,
		Reference:   input.Reference,
		UserID:      input.UserID,
		Notes:       input.Notes,
		Lines:       make([]entity.MovementLine, 0, len(input.Lines)),
		CreatedAt:   now,
	}
	for i, l := range input.Lines {
		mov.Lines = append(mov.Lines, entity.MovementLine{
			ID:         uuid.New().String(),
			MovementID: mov.ID,
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			Position:   i,
		})
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		return repos.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// CreateTransfer valida y guarda un traspaso sin aplicar.
func (uc *MovementUseCase) CreateTransfer(ctx context.Context, input TransferInputDTO) (*entity.Transfer, error) {
	if input.TenantID == "" {
		return nil, domain.Invalid("tenant_id", "es obligatorio")
	}
	if input.SourceWarehouseID == "" {
		return nil, domain.Invalid("source_warehouse_id", "es obligatorio")
	}
	if input.DestinationWarehouseID == "" {
		return nil, domain.Invalid("destination_warehouse_id", "es obligatorio")
	}
	if input.SourceWarehouseID == input.DestinationWarehouseID {
		return nil, domain.Invalid("destination_warehouse_id", "debe ser distinta de la bodega origen")
	}
	if len(input.Lines) == 0 {
		return nil, domain.Invalid("lines", "debe tener al menos una línea")
	}
	for _, l := range input.Lines {
		if l.ItemID == "" {
			return nil, domain.Invalid("item_id", "es obligatorio")
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.Invalid("quantity", "debe ser mayor que cero")
		}
		if err := checkScales(l.Quantity, l.DestinationUnitCost, "destination_unit_cost"); err != nil {
			return nil, err
		}
	}
	for _, wh := range []string{input.SourceWarehouseID, input.DestinationWarehouseID} {
		if err := uc.checkWarehouse(ctx, input.TenantID, wh); err != nil {
			return nil, err
		}
	}
	for _, l := range input.Lines {
		if err := uc.checkItem(ctx, input.TenantID, l.ItemID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	tr := &entity.Transfer{
		ID:                     uuid.New().String(),
		TenantID:               input.TenantID,
		SourceWarehouseID:      input.SourceWarehouseID,
		DestinationWarehouseID: input.DestinationWarehouseID,
		Date:                   now,
		Reference:              input.Reference,
		UserID:                 input.UserID,
		Notes:                  input.Notes,
		Lines:                  make([]entity.TransferLine, 0, len(input.Lines)),
		CreatedAt:              now,
	}
	for i, l := range input.Lines {
		tr.Lines = append(tr.Lines, entity.TransferLine{
			ID:                  uuid.New().String(),
			TransferID:          tr.ID,
			ItemID:              l.ItemID,
			Quantity:            l.Quantity,
			DestinationUnitCost: l.DestinationUnitCost,
			Position:            i,
		})
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		return repos.Transfers.Create(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// ApplyMovement aplica un movimiento guardado, reintentando ante conflictos de concurrencia.
func (uc *MovementUseCase) ApplyMovement(ctx context.Context, tenantID, movementID string) (ApplyResult, error) {
	var res ApplyResult
	err := ApplyWithRetry(ctx, uc.retry, func(ctx context.Context) error {
		var err error
		res, err = uc.engine.ApplyMovement(ctx, tenantID, movementID)
		return err
	})
	return res, err
}

// ApplyTransfer aplica un traspaso guardado, reintentando ante conflictos de concurrencia.
func (uc *MovementUseCase) ApplyTransfer(ctx context.Context, tenantID, transferID string) (TransferResult, error) {
	var res TransferResult
	err := ApplyWithRetry(ctx, uc.retry, func(ctx context.Context) error {
		var err error
		res, err = uc.transfers.ApplyTransfer(ctx, tenantID, transferID)
		return err
	})
	return res, err
}

// RegisterMovement redacta y aplica en un solo paso. Si la aplicación falla el movimiento
// queda guardado sin aplicar y se devuelve junto con el error.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.Movement, ApplyResult, error) {
	mov, err := uc.CreateMovement(ctx, input)
	if err != nil {
		return nil, ApplyResult{}, err
	}
	res, err := uc.ApplyMovement(ctx, mov.TenantID, mov.ID)
	if err != nil {
		return mov, ApplyResult{}, err
	}
	mov.Applied = true
	return mov, res, nil
}

// RegisterTransfer redacta y aplica un traspaso en un solo paso.
func (uc *MovementUseCase) RegisterTransfer(ctx context.Context, input TransferInputDTO) (*entity.Transfer, TransferResult, error) {
	tr, err := uc.CreateTransfer(ctx, input)
	if err != nil {
		return nil, TransferResult{}, err
	}
	res, err := uc.ApplyTransfer(ctx, tr.TenantID, tr.ID)
	if err != nil {
		return tr, TransferResult{}, err
	}
	tr.Applied = true
	return tr, res, nil
}

// GetMovement devuelve un movimiento del tenant o ErrNotFound.
func (uc *MovementUseCase) GetMovement(ctx context.Context, tenantID, id string) (*entity.Movement, error) {
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		mov, err = repos.Movements.GetByID(ctx, tenantID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}

// GetTransfer devuelve un traspaso del tenant o ErrNotFound.
func (uc *MovementUseCase) GetTransfer(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	var tr *entity.Transfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		tr, err = repos.Transfers.GetByID(ctx, tenantID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, domain.ErrNotFound
	}
	return tr, nil
}

func validateLine(kind entity.MovementKind, l MovementLineInput) error {
	if l.ItemID == "" {
		return domain.Invalid("item_id", "es obligatorio")
	}
	switch kind {
	case entity.MovementKindAdjustment:
		if l.Quantity.IsZero() {
			return domain.Invalid("quantity", "no puede ser cero")
		}
	default:
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return domain.Invalid("quantity", "debe ser mayor que cero")
		}
	}
	return checkScales(l.Quantity, l.UnitCost, "unit_cost")
}

// checkScales rechaza lo que el almacén redondearía al guardar: cantidades con más de
// QuantityScale decimales y costos con más de CostScale.
func checkScales(qty decimal.Decimal, cost *decimal.Decimal, costField string) error {
	if !qty.Equal(qty.Round(inventory.QuantityScale)) {
		return domain.Invalid("quantity", "admite máximo 6 decimales")
	}
	if cost == nil {
		return nil
	}
	if cost.IsNegative() {
		return domain.Invalid(costField, "no puede ser negativo")
	}
	if !cost.Equal(cost.Round(inventory.CostScale)) {
		return domain.Invalid(costField, "admite máximo 10 decimales")
	}
	return nil
}

func (uc *MovementUseCase) checkWarehouse(ctx context.Context, tenantID, id string) error {
	wh, err := uc.warehouseRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *MovementUseCase) checkItem(ctx context.Context, tenantID, id string) error {
	item, err := uc.itemRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if !item.Active {
		return domain.Invalid("item_id", "el material "+id+" está inactivo")
	}
	return nil
}
