// Package grpc exposes the journal, media and gate services over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/dmitrijs2005/recoveryvault/internal/server/auth"
	"github.com/dmitrijs2005/recoveryvault/internal/server/services"
	"github.com/dmitrijs2005/recoveryvault/internal/server/watch"
	"github.com/dmitrijs2005/recoveryvault/internal/vaultrpc"
	"google.golang.org/grpc"
)

type journalService interface {
	CreateEntry(ctx context.Context, e *journal.Entry) error
	ListEntries(ctx context.Context, mode journal.VaultMode) ([]journal.Entry, error)
	ClaimTask(ctx context.Context, id, title, status, claimedBy string) (*journal.TaskClaim, error)
	ListClaims(ctx context.Context) ([]journal.TaskClaim, error)
	GetProfile(ctx context.Context) (*journal.Profile, error)
	SaveProfile(ctx context.Context, p *journal.Profile) error
}

type mediaService interface {
	PresignUpload(ctx context.Context, target string) (*services.Upload, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

type gateService interface {
	Unlock(ctx context.Context, peer, role, pin string) (string, time.Time, error)
	Authorize(token string) (*auth.Claims, error)
	Purge(ctx context.Context, claims *auth.Claims, pin, phrase string) (int, error)
}

type GRPCServer struct {
	vaultrpc.UnimplementedJournalServiceServer
	address string
	journal journalService
	media   mediaService
	gate    gateService
	hub     *watch.Hub
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, js journalService, ms mediaService, gs gateService, hub *watch.Hub) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		journal: js,
		media:   ms,
		gate:    gs,
		hub:     hub,
	}
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	vaultrpc.RegisterJournalServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		if s.hub != nil {
			// ends open Watch streams so GracefulStop can return
			s.hub.Close()
		}
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
