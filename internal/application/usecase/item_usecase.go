package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ItemUseCase alta y consulta de materiales y unidades. El costo de un material nunca se
// edita aquí: solo lo mueve el motor de costeo.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// CreateUnit crea una unidad de medida. FactorBase cero se toma como 1.
func (uc *ItemUseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es requerido")
	}
	factor := in.FactorBase
	if factor.IsZero() {
		factor = decimal.NewFromInt(1)
	}
	if factor.IsNegative() {
		return nil, domain.Invalid("factor_base", "debe ser mayor que cero")
	}
	unit := &entity.Unit{ID: uuid.New().String(), Name: name, FactorBase: factor}
	if err := uc.repo.CreateUnit(ctx, unit); err != nil {
		return nil, err
	}
	return &dto.UnitResponse{ID: unit.ID, Name: unit.Name, FactorBase: unit.FactorBase}, nil
}

// Create crea un material. Active por defecto es true.
func (uc *ItemUseCase) Create(ctx context.Context, tenantID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, domain.Invalid("description", "es requerida")
	}
	if in.MinStock.IsNegative() || in.MaxStock.IsNegative() {
		return nil, domain.Invalid("min_stock", "los umbrales no pueden ser negativos")
	}
	if in.MaxStock.IsPositive() && in.MinStock.GreaterThan(in.MaxStock) {
		return nil, domain.Invalid("max_stock", "debe ser mayor o igual que min_stock")
	}
	if in.UnitID != "" {
		unit, err := uc.repo.GetUnit(ctx, in.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, domain.ErrNotFound
		}
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := time.Now().UTC()
	item := &entity.Item{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Code:        strings.TrimSpace(in.Code),
		Description: desc,
		UnitID:      in.UnitID,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un material del tenant. ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista materiales del tenant con paginación.
func (uc *ItemUseCase) List(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:          it.ID,
		TenantID:    it.TenantID,
		Code:        it.Code,
		Description: it.Description,
		UnitID:      it.UnitID,
		MinStock:    it.MinStock,
		MaxStock:    it.MaxStock,
		Active:      it.Active,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}
