package inventory

import "github.com/shopspring/decimal"

// CostScale decimales con que se guarda el costo promedio (NUMERIC(28,10)).
// Las cantidades se guardan con QuantityScale (NUMERIC(18,6)).
const (
	CostScale     int32 = 10
	QuantityScale int32 = 6
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si la nueva cantidad no es positiva el costo actual no cambia.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoActual
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.DivRound(sum, CostScale)
}
