package usecase

import "context"

type internalOperationKey struct{}

// withInternalOperation marks ctx as belonging to the audit trail's own work,
// so that crypto failures raised under it go to the fault channel instead of
// being audited again.
func withInternalOperation(ctx context.Context) context.Context {
	return context.WithValue(ctx, internalOperationKey{}, true)
}

func isInternalOperation(ctx context.Context) bool {
	internal, _ := ctx.Value(internalOperationKey{}).(bool)
	return internal
}
