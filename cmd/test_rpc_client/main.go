package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genproto/googleapis/type/date"
	"google.golang.org/genproto/googleapis/type/money"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	pkggrpc "github.com/JoeShih716/go-ledger/pkg/grpc"
	pb "github.com/JoeShih716/go-ledger/proto"
)

func main() {
	target := flag.String("target", "localhost:50051", "ledger gRPC address")
	accountID := flag.String("account", "load-test", "external account id")
	currency := flag.String("currency", "USD", "account currency")
	totalCount := flag.Int("n", 10000, "number of distinct operations")
	concurrency := flag.Int("c", 100, "concurrent callers")
	keepaliveTime := flag.Duration("keepalive", 30*time.Second, "client keepalive ping interval")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	pool := pkggrpc.NewPool(
		pkggrpc.WithDefaultCallOptions(grpc.WaitForReady(true)),
		pkggrpc.WithKeepalive(keepalive.ClientParameters{Time: *keepaliveTime, Timeout: 5 * time.Second}),
	)
	defer pool.Close()
	conn, err := pool.GetConnection(*target)
	if err != nil {
		log.Fatal().Err(err).Msg("did not connect")
	}
	c := pb.NewLedgerServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// 1. 建立帳戶 (已存在則沿用)
	_, err = c.CreateAccount(ctx, &pb.CreateAccountRequest{AccountId: *accountID, Currency: *currency})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		log.Fatal().Err(err).Msg("create account failed")
	}
	before, err := c.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: *accountID})
	if err != nil {
		log.Fatal().Err(err).Msg("get balance failed")
	}

	// 2. 同一個 operation id 並發送出，只應入帳一次
	sharedOp := uuid.NewString()
	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := post(ctx, c, *accountID, *currency, sharedOp); err != nil {
				log.Warn().Err(err).Str("operation_id", sharedOp).Msg("shared operation failed")
			}
		}()
	}
	wg.Wait()

	// 3. 不同 operation id 並發送出
	var failed atomic.Int64
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()
	for i := 0; i < *totalCount; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := post(ctx, c, *accountID, *currency, uuid.NewString()); err != nil {
				failed.Add(1)
				if idx%1000 == 0 {
					log.Warn().Err(err).Int("idx", idx).Msg("post failed")
				}
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	after, err := c.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: *accountID})
	if err != nil {
		log.Fatal().Err(err).Msg("get balance failed")
	}

	succeeded := int64(*totalCount) - failed.Load() + 1
	fmt.Printf("Completed %d requests in %v (%d failed)\n", *totalCount, elapsed, failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(*totalCount)/elapsed.Seconds())
	fmt.Printf("Balance: %d.%09d -> %d.%09d (expected +%d.00)\n",
		before.Balance.GetUnits(), before.Balance.GetNanos(),
		after.Balance.GetUnits(), after.Balance.GetNanos(), succeeded)
	fmt.Printf("Version: %d -> %d\n", before.Version, after.Version)
}

// post 入帳 1.00；INTERNAL (重複 operation id 同時寫入) 與 ABORTED (版本衝突) 重送一次
func post(ctx context.Context, c pb.LedgerServiceClient, accountID, currency, operationID string) error {
	req := &pb.CreateTransactionRequest{
		OperationId: operationID,
		AccountId:   accountID,
		ValueDate:   today(),
		Amount:      &money.Money{CurrencyCode: currency, Units: 1},
	}
	_, err := c.CreateTransaction(ctx, req)
	switch status.Code(err) {
	case codes.Internal, codes.Aborted:
		_, err = c.CreateTransaction(ctx, req)
	}
	return err
}

func today() *date.Date {
	y, m, d := time.Now().Date()
	return &date.Date{Year: int32(y), Month: int32(m), Day: int32(d)}
}
