package auth

import "context"

type ctxKey struct{}

// WithIdentity stores a verified identity on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Policy is the set of roles admitted to an endpoint.
type Policy []string

// Allows reports whether role is admitted.
func (p Policy) Allows(role string) bool {
	for _, allowed := range p {
		if allowed == role {
			return true
		}
	}
	return false
}
