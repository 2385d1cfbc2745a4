package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

const tenant = "tenant-1"

// ──────────────────────────────────────────────────────────────────────────────
// Materiales y unidades
// ──────────────────────────────────────────────────────────────────────────────

func TestItemUseCase_CrearYConsultar(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewItemUseCase(memory.New(0).Items())

	unit, err := uc.CreateUnit(ctx, dto.CreateUnitRequest{Name: "KG"})
	require.NoError(t, err)
	assert.True(t, unit.FactorBase.Equal(decimal.NewFromInt(1)), "factor cero se toma como 1")

	out, err := uc.Create(ctx, tenant, dto.CreateItemRequest{
		Code: " MAT-1 ", Description: "Cemento", UnitID: unit.ID,
		MinStock: decimal.NewFromInt(5), MaxStock: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, "MAT-1", out.Code)
	assert.True(t, out.Active, "activo por defecto")

	got, err := uc.GetByID(ctx, tenant, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cemento", got.Description)

	_, err = uc.GetByID(ctx, "otro-tenant", out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un material de otro tenant no se ve")

	list, err := uc.List(ctx, tenant, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestItemUseCase_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewItemUseCase(memory.New(0).Items())

	_, err := uc.Create(ctx, tenant, dto.CreateItemRequest{Description: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, tenant, dto.CreateItemRequest{
		Description: "x", MinStock: decimal.NewFromInt(10), MaxStock: decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "mínimo mayor que máximo")

	_, err = uc.Create(ctx, tenant, dto.CreateItemRequest{Description: "x", UnitID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, tenant, dto.CreateItemRequest{Code: "A", Description: "x"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, tenant, dto.CreateItemRequest{Code: "A", Description: "y"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "código único por tenant")
	_, err = uc.Create(ctx, "tenant-2", dto.CreateItemRequest{Code: "A", Description: "y"})
	assert.NoError(t, err, "el mismo código en otro tenant es válido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Bodegas
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouseUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewWarehouseUseCase(memory.New(0).Warehouses())

	_, err := uc.Create(ctx, tenant, dto.CreateWarehouseRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	wh, err := uc.Create(ctx, tenant, dto.CreateWarehouseRequest{Name: "Principal"})
	require.NoError(t, err)
	assert.Equal(t, tenant, wh.TenantID)

	got, err := uc.GetByID(ctx, tenant, wh.ID)
	require.NoError(t, err)
	assert.Equal(t, "Principal", got.Name)

	_, err = uc.GetByID(ctx, tenant, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, tenant, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
