package entitlement

import "context"

// Checker responde si un usuario posee el entitlement "pro" del proveedor
// externo de identidad/billing. Se consulta una sola vez al crear un agente.
type Checker interface {
	HasEntitlement(ctx context.Context, userID string) (bool, error)
}

type staticChecker struct {
	value bool
}

// NewStaticChecker devuelve un checker de valor fijo; útil cuando no hay
// proveedor configurado (todos los usuarios quedan en tier free).
func NewStaticChecker(value bool) Checker {
	return &staticChecker{value: value}
}

func (c *staticChecker) HasEntitlement(_ context.Context, _ string) (bool, error) {
	return c.value, nil
}
