package grpc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-ledger/proto"
)

type GrpcServer struct {
	pb.UnimplementedLedgerServiceServer
	core     *usecase.CoreUseCase
	location *time.Location
}

// NewGrpcServer 建立 LedgerService 實作
//
// 參數:
//
//	core: 核心 usecase
//	location: value_date 所屬的時區，nil 時使用 UTC
func NewGrpcServer(core *usecase.CoreUseCase, location *time.Location) *GrpcServer {
	if location == nil {
		location = time.UTC
	}
	return &GrpcServer{
		core:     core,
		location: location,
	}
}

// ServerOptions grpc.Server 的攔截器設定
type ServerOptions struct {
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int
}

// NewServer 建立掛好攔截器、LedgerService、health service 與 reflection 的 grpc.Server
func NewServer(ledger *GrpcServer, logger zerolog.Logger, opts ServerOptions) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(logger),
			LoggingInterceptor(logger),
			RateLimitInterceptor(opts.RateLimit, opts.RateBurst),
			TimeoutInterceptor(opts.RequestTimeout),
		),
	)
	pb.RegisterLedgerServiceServer(s, ledger)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(pb.LedgerService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	// 註冊 reflection 服務 (方便 grpcurl 測試)
	reflection.Register(s)
	return s, healthServer
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *pb.CreateAccountRequest) (*pb.Account, error) {
	currency, err := domain.LookupCurrency(req.GetCurrency())
	if err != nil {
		return nil, toStatus(err)
	}
	account, err := s.core.CreateAccount(ctx, req.GetAccountId(), currency)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.Account{
		AccountId: account.ExternalID,
		Balance:   amountToProto(account.Balance),
		Version:   account.Version,
	}, nil
}

func (s *GrpcServer) CreateTransaction(ctx context.Context, req *pb.CreateTransactionRequest) (*emptypb.Empty, error) {
	// 1. 金額與日期轉換
	amount, err := amountFromProto(req.GetAmount())
	if err != nil {
		return nil, toStatus(err)
	}
	valueDate, err := dateFromProto(req.GetValueDate(), s.location)
	if err != nil {
		return nil, toStatus(err)
	}

	// 2. 入帳
	err = s.core.PostTransaction(ctx, usecase.PostCommand{
		ExternalAccountID: req.GetAccountId(),
		Amount:            amount,
		OperationID:       req.GetOperationId(),
		ValueDate:         valueDate,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GrpcServer) GetBalance(ctx context.Context, req *pb.GetBalanceRequest) (*pb.GetBalanceResponse, error) {
	account, err := s.core.GetAccount(ctx, req.GetAccountId())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.GetBalanceResponse{
		Balance: amountToProto(account.Balance),
		Version: account.Version,
	}, nil
}
