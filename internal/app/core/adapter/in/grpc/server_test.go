package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/type/date"
	"google.golang.org/genproto/googleapis/type/money"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JoeShih716/go-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-ledger/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-ledger/proto"
)

type testServer struct {
	store      *memory.Store
	client     pb.LedgerServiceClient
	health     healthpb.HealthClient
	reflection reflectionpb.ServerReflectionClient
}

func startTestServer(t *testing.T, location *time.Location) *testServer {
	t.Helper()

	store, err := memory.NewStore()
	require.NoError(t, err)
	logger := zerolog.Nop()
	core := usecase.NewCoreUseCase(store, usecase.NewPoster(store, usecase.WithLogger(logger)), logger)

	s, _ := NewServer(NewGrpcServer(core, location), logger, ServerOptions{RequestTimeout: 5 * time.Second})
	lis := bufconn.Listen(1024 * 1024)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testServer{
		store:      store,
		client:     pb.NewLedgerServiceClient(conn),
		health:     healthpb.NewHealthClient(conn),
		reflection: reflectionpb.NewServerReflectionClient(conn),
	}
}

func usd(units int64, nanos int32) *money.Money {
	return &money.Money{CurrencyCode: "USD", Units: units, Nanos: nanos}
}

func trxnRequest(accountID, operationID string, amount *money.Money) *pb.CreateTransactionRequest {
	return &pb.CreateTransactionRequest{
		OperationId: operationID,
		AccountId:   accountID,
		ValueDate:   &date.Date{Year: 2020, Month: 1, Day: 1},
		Amount:      amount,
	}
}

func TestLedgerService(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(t, time.UTC)

	account, err := srv.client.CreateAccount(ctx, &pb.CreateAccountRequest{AccountId: "account-id", Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "account-id", account.AccountId)
	assert.Equal(t, int64(0), account.Version)
	assert.Equal(t, "USD", account.Balance.GetCurrencyCode())

	_, err = srv.client.CreateAccount(ctx, &pb.CreateAccountRequest{AccountId: "rub-account", Currency: "RUB"})
	require.NoError(t, err)

	t.Run("Duplicate Account", func(t *testing.T) {
		_, err := srv.client.CreateAccount(ctx, &pb.CreateAccountRequest{AccountId: "account-id", Currency: "USD"})
		assert.Equal(t, codes.AlreadyExists, status.Code(err))
	})

	t.Run("Unknown Currency Account", func(t *testing.T) {
		_, err := srv.client.CreateAccount(ctx, &pb.CreateAccountRequest{AccountId: "x", Currency: "XXX"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("Idempotent Double Post", func(t *testing.T) {
		_, err := srv.client.CreateTransaction(ctx, trxnRequest("account-id", "op-1", usd(1, 0)))
		require.NoError(t, err)
		_, err = srv.client.CreateTransaction(ctx, trxnRequest("account-id", "op-1", usd(1, 0)))
		require.NoError(t, err)

		balance, err := srv.client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: "account-id"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), balance.Balance.GetUnits())
		assert.Equal(t, int32(0), balance.Balance.GetNanos())
		assert.Equal(t, int64(1), balance.Version)
	})

	t.Run("Fractional Amount", func(t *testing.T) {
		_, err := srv.client.CreateTransaction(ctx, trxnRequest("account-id", "op-2", usd(0, 250_000_000)))
		require.NoError(t, err)

		balance, err := srv.client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: "account-id"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), balance.Balance.GetUnits())
		assert.Equal(t, int32(250_000_000), balance.Balance.GetNanos())
		assert.Equal(t, int64(2), balance.Version)
	})

	t.Run("Currency Mismatch", func(t *testing.T) {
		_, err := srv.client.CreateTransaction(ctx, trxnRequest("rub-account", "op-3", usd(1, 0)))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("Missing Account", func(t *testing.T) {
		_, err := srv.client.CreateTransaction(ctx, trxnRequest("nobody", "op-4", usd(1, 0)))
		assert.Equal(t, codes.NotFound, status.Code(err))

		_, err = srv.client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: "nobody"})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("Amount Beyond Currency Scale", func(t *testing.T) {
		_, err := srv.client.CreateTransaction(ctx, trxnRequest("account-id", "op-5", usd(0, 1_000_000)))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("Missing Operation ID", func(t *testing.T) {
		_, err := srv.client.CreateTransaction(ctx, trxnRequest("account-id", "", usd(1, 0)))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("Reflection", func(t *testing.T) {
		stream, err := srv.reflection.ServerReflectionInfo(ctx)
		require.NoError(t, err)
		require.NoError(t, stream.Send(&reflectionpb.ServerReflectionRequest{
			MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{},
		}))
		resp, err := stream.Recv()
		require.NoError(t, err)
		var names []string
		for _, svc := range resp.GetListServicesResponse().GetService() {
			names = append(names, svc.GetName())
		}
		assert.Contains(t, names, "ledger.v1.LedgerService")

		require.NoError(t, stream.Send(&reflectionpb.ServerReflectionRequest{
			MessageRequest: &reflectionpb.ServerReflectionRequest_FileContainingSymbol{FileContainingSymbol: "ledger.v1.CreateTransactionRequest"},
		}))
		resp, err = stream.Recv()
		require.NoError(t, err)
		assert.NotEmpty(t, resp.GetFileDescriptorResponse().GetFileDescriptorProto())
		require.NoError(t, stream.CloseSend())
	})

	t.Run("Health", func(t *testing.T) {
		resp, err := srv.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.LedgerService_ServiceDesc.ServiceName})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
	})

	_, trxns := srv.store.Snapshot()
	assert.Len(t, trxns, 2)
}

func TestValueDateUsesConfiguredZone(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(t, time.FixedZone("UTC+8", 8*3600))

	_, err := srv.client.CreateAccount(ctx, &pb.CreateAccountRequest{AccountId: "acc", Currency: "EUR"})
	require.NoError(t, err)
	_, err = srv.client.CreateTransaction(ctx, &pb.CreateTransactionRequest{
		OperationId: "op-1",
		AccountId:   "acc",
		ValueDate:   &date.Date{Year: 2024, Month: 2, Day: 29},
		Amount:      &money.Money{CurrencyCode: "EUR", Units: -3, Nanos: -500_000_000},
	})
	require.NoError(t, err)

	_, trxns := srv.store.Snapshot()
	require.Len(t, trxns, 1)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), trxns[0].ValueDate)
	assert.Equal(t, "EUR -3.50", trxns[0].Amount.String())
}

func TestAmountFromProto(t *testing.T) {
	tests := []struct {
		name    string
		in      *money.Money
		want    string
		wantErr error
	}{
		{"Whole Units", usd(12, 0), "USD 12.00", nil},
		{"Cents", usd(0, 10_000_000), "USD 0.01", nil},
		{"Negative", usd(-1, -250_000_000), "USD -1.25", nil},
		{"Mixed Signs", usd(1, -1), "", domain.ErrInvalidArgument},
		{"Nanos Out Of Range", usd(0, 1_000_000_000), "", domain.ErrInvalidArgument},
		{"Sub Cent", usd(0, 1_000_000), "", domain.ErrInvalidScale},
		{"Unknown Currency", &money.Money{CurrencyCode: "ZZZ", Units: 1}, "", domain.ErrUnknownCurrency},
		{"Missing", nil, "", domain.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := amountFromProto(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, amount.String())
		})
	}
}

func TestAmountToProto(t *testing.T) {
	m := amountToProto(domain.MustAmount("USD", "-1.25"))
	assert.Equal(t, "USD", m.CurrencyCode)
	assert.Equal(t, int64(-1), m.Units)
	assert.Equal(t, int32(-250_000_000), m.Nanos)

	back, err := amountFromProto(m)
	require.NoError(t, err)
	assert.True(t, back.Equal(domain.MustAmount("USD", "-1.25")))
}

func TestDateFromProto(t *testing.T) {
	got, err := dateFromProto(&date.Date{Year: 2020, Month: 1, Day: 1}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = dateFromProto(&date.Date{Year: 2021, Month: 2, Day: 30}, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = dateFromProto(&date.Date{Year: 2021, Month: 13, Day: 1}, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = dateFromProto(nil, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{domain.ErrAccountNotFound, codes.NotFound},
		{domain.ErrCurrencyMismatch, codes.InvalidArgument},
		{domain.ErrInvalidScale, codes.InvalidArgument},
		{domain.ErrConcurrentInsert, codes.Internal},
		{domain.ErrConcurrentUpdate, codes.Aborted},
		{domain.ErrAccountDisappeared, codes.Internal},
		{domain.ErrAccountAlreadyExists, codes.AlreadyExists},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(toStatus(tt.err)))
		})
	}
}
