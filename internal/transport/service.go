package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Method builds a unary method descriptor around a typed handler func.
func Method[Req, Resp any](service, name string, fn func(context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := FullMethod(service, name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			req := new(Req)
			// Decode errors name Go types and fields; callers only learn the request was bad.
			if err := dec(req); err != nil {
				return nil, status.Error(codes.InvalidArgument, "malformed request")
			}
			if interceptor == nil {
				return fn(ctx, req)
			}
			handler := func(ctx context.Context, r interface{}) (interface{}, error) {
				return fn(ctx, r.(*Req))
			}
			return interceptor(ctx, req, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handler)
		},
	}
}

// Service describes a service whose methods are all built with Method.
func Service(name string, methods ...grpc.MethodDesc) *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: name,
		HandlerType: (*interface{})(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
		Metadata:    "inventory.json",
	}
}

// FullMethod returns the invoke path of a method, e.g. for conn.Invoke.
func FullMethod(service, name string) string {
	return "/" + service + "/" + name
}
