package core

import "context"

type (
	socketKey struct{}
	paramsKey struct{}
)

// BuildContext returns the context a session runs its component with.
func BuildContext(ctx context.Context, socket *Socket, params Params) context.Context {
	ctx = context.WithValue(ctx, socketKey{}, socket)
	return context.WithValue(ctx, paramsKey{}, params)
}

// SocketFromContext returns the connection's socket, or nil outside a
// session.
func SocketFromContext(ctx context.Context) *Socket {
	s, _ := ctx.Value(socketKey{}).(*Socket)
	return s
}

// ParamsFromContext returns the connection's query parameters.
func ParamsFromContext(ctx context.Context) Params {
	p, _ := ctx.Value(paramsKey{}).(Params)
	return p
}
