package inventory

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// SequenceUseCase consecutivos por tenant (números de documento). Cada Next bloquea el contador
// hasta el fin de su transacción, así dos llamadas concurrentes nunca obtienen el mismo valor.
type SequenceUseCase struct {
	txRunner TxRunner
}

// NewSequenceUseCase construye el caso de uso.
func NewSequenceUseCase(txRunner TxRunner) *SequenceUseCase {
	return &SequenceUseCase{txRunner: txRunner}
}

// Next incrementa y devuelve el consecutivo. El nombre se normaliza (NFC, sin distinguir
// mayúsculas) para que "Entrada" y "ENTRADA" compartan contador.
func (uc *SequenceUseCase) Next(ctx context.Context, tenantID, name string) (int64, error) {
	if tenantID == "" {
		return 0, domain.Invalid("tenant_id", "es obligatorio")
	}
	key := NormalizeSequenceName(name)
	if key == "" {
		return 0, domain.Invalid("name", "es obligatorio")
	}
	var value int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		seq, err := repos.Sequences.GetForUpdate(ctx, tenantID, key)
		if err != nil {
			return err
		}
		seq.Value++
		if err := repos.Sequences.Save(ctx, seq); err != nil {
			return err
		}
		value = seq.Value
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// NormalizeSequenceName forma canónica del nombre de un contador.
func NormalizeSequenceName(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}
