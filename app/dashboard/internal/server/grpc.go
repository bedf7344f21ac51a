package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/grpc"
	grpcgo "google.golang.org/grpc"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/conf"
)

// NewGRPCServer 供编排系统探活，kratos 默认注册 grpc.health.v1 服务
func NewGRPCServer(c *conf.Server, logger log.Logger) *grpc.Server {
	var opts = []grpc.ServerOption{
		grpc.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
		grpc.Options(grpcgo.MaxRecvMsgSize(1 << 20)),
	}
	if c != nil && c.Grpc != nil {
		if c.Grpc.Addr != "" {
			opts = append(opts, grpc.Address(c.Grpc.Addr))
		}
		if c.Grpc.Timeout != "" {
			if d, err := time.ParseDuration(c.Grpc.Timeout); err == nil {
				opts = append(opts, grpc.Timeout(d))
			}
		}
	}
	return grpc.NewServer(opts...)
}
