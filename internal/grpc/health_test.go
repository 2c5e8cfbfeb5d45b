package grpc_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	healthgrpc "github.com/EgehanKilicarslan/gamevault/backend-go/internal/grpc"
)

const bufSize = 1024 * 1024

type checkResult struct {
	err error
}

func (p *checkResult) check(ctx context.Context) error {
	return p.err
}

func setupHealthServer(t *testing.T, check healthgrpc.Check) (*healthgrpc.HealthServer, healthpb.HealthClient) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := healthgrpc.NewHealthServer(check, logger)

	lis := bufconn.Listen(bufSize)
	go func() {
		_ = server.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		server.Stop()
	})

	return server, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthServer_StartsNotServing(t *testing.T) {
	result := &checkResult{}
	_, client := setupHealthServer(t, result.check)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, healthgrpc.ServiceName))
}

func TestHealthServer_RefreshFollowsCheck(t *testing.T) {
	result := &checkResult{}
	server, client := setupHealthServer(t, result.check)

	require.NoError(t, server.Refresh(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, healthgrpc.ServiceName))

	result.err = errors.New("database unreachable")
	err := server.Refresh(context.Background())
	assert.EqualError(t, err, "database unreachable")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, healthgrpc.ServiceName))

	result.err = nil
	require.NoError(t, server.Refresh(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, healthgrpc.ServiceName))
}

func TestHealthServer_UnknownService(t *testing.T) {
	result := &checkResult{}
	_, client := setupHealthServer(t, result.check)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "unknown.Service"})
	assert.Error(t, err)
}
