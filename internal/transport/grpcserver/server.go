// Package grpcserver exposes the tool registry over gRPC, next to the
// standard health service. There is no generated code: the tools service is
// described by hand and speaks JSON (see CodecName).
package grpcserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"time"

	"github.com/dwikikusuma/shoping-voice/internal/tools"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "shopvoice.v1.Tools"
	CallMethod  = "/" + ServiceName + "/Call"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, sessionID, name string, rawArgs []byte) tools.Result
}

type CallRequest struct {
	SessionID string          `json:"session_id"`
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallResponse carries successful results. Failures come back as status
// errors whose code matches Result.Code.
type CallResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type toolsServer interface {
	Call(ctx context.Context, req *CallRequest) (*CallResponse, error)
}

var toolsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*toolsServer)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Call",
		Handler:    callHandler,
	}},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shopvoice/v1/tools",
}

func callHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CallRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(toolsServer).Call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CallMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(toolsServer).Call(ctx, req.(*CallRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type toolsHandler struct {
	tools Dispatcher
}

func (h *toolsHandler) Call(ctx context.Context, req *CallRequest) (*CallResponse, error) {
	if req.Tool == "" {
		return nil, status.Error(codes.InvalidArgument, "tool is required")
	}
	res := h.tools.Dispatch(ctx, req.SessionID, req.Tool, req.Arguments)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return &CallResponse{Message: res.Message, Data: res.Data}, nil
}

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	log    *slog.Logger
}

func New(d Dispatcher, log *slog.Logger) *Server {
	log = logger.OrDefault(log)

	s := grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary(log)))
	s.RegisterService(&toolsServiceDesc, &toolsHandler{tools: d})

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{grpc: s, health: hs, log: log}
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// SetServing flips the health status reported for every service.
func (s *Server) SetServing(ok bool) {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if !ok {
		st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Stop drains in-flight calls and forces the server down once ctx expires.
func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		s.log.Warn("graceful stop timeout, forcing stop")
		s.grpc.Stop()
	case <-stopped:
	}
}

func logUnary(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("took", time.Since(start)),
		)
		return resp, err
	}
}
