package grpc

import (
	"context"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/vaultrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) CreateEntry(ctx context.Context, req *vaultrpc.CreateEntryRequest) (*vaultrpc.CreateEntryResponse, error) {
	e := req.Entry
	if e.MediaList == nil {
		e.MediaList = []journal.Media{}
	}
	if err := s.journal.CreateEntry(ctx, &e); err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.CreateEntryResponse{ID: e.ID}, nil
}

func (s *GRPCServer) ListEntries(ctx context.Context, req *vaultrpc.ListEntriesRequest) (*vaultrpc.ListEntriesResponse, error) {
	var mode journal.VaultMode
	if req.Mode != "" {
		m, ok := journal.ParseVaultMode(req.Mode)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "unknown vault mode %q", req.Mode)
		}
		mode = m
	}

	items, err := s.journal.ListEntries(ctx, mode)
	if err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.ListEntriesResponse{Entries: items}, nil
}

// Watch streams change notifications until the client goes away or the
// server shuts down. An empty mode receives every change.
func (s *GRPCServer) Watch(req *vaultrpc.WatchRequest, stream grpc.ServerStreamingServer[vaultrpc.WatchEvent]) error {
	if s.hub == nil {
		return status.Error(codes.Unavailable, "change feed disabled")
	}
	ctx := stream.Context()

	changes, cancel := s.hub.Subscribe()
	defer cancel()

	s.logger.Info(ctx, "watch subscribed", "mode", req.Mode, "peer", peerHost(ctx))
	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if req.Mode != "" && c.Mode != req.Mode {
				continue
			}
			if err := stream.Send(&vaultrpc.WatchEvent{ID: c.ID, Op: c.Op, Mode: c.Mode}); err != nil {
				return err
			}
		}
	}
}

func (s *GRPCServer) PresignUpload(ctx context.Context, req *vaultrpc.PresignUploadRequest) (*vaultrpc.PresignUploadResponse, error) {
	up, err := s.media.PresignUpload(ctx, req.Target)
	if err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.PresignUploadResponse{
		Key:         up.Key,
		PutURL:      up.PutURL,
		DurableURL:  up.DurableURL,
		ContentType: up.ContentType,
		ExpiresAt:   up.Expires,
	}, nil
}

func (s *GRPCServer) PresignGet(ctx context.Context, req *vaultrpc.PresignGetRequest) (*vaultrpc.PresignGetResponse, error) {
	u, err := s.media.PresignGet(ctx, req.Key)
	if err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.PresignGetResponse{URL: u}, nil
}

func (s *GRPCServer) ClaimTask(ctx context.Context, req *vaultrpc.ClaimTaskRequest) (*vaultrpc.ClaimTaskResponse, error) {
	c, err := s.journal.ClaimTask(ctx, req.ID, req.Title, req.Status, req.ClaimedBy)
	if err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.ClaimTaskResponse{Claim: *c}, nil
}

func (s *GRPCServer) ListClaims(ctx context.Context, _ *vaultrpc.ListClaimsRequest) (*vaultrpc.ListClaimsResponse, error) {
	items, err := s.journal.ListClaims(ctx)
	if err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.ListClaimsResponse{Claims: items}, nil
}

func (s *GRPCServer) Unlock(ctx context.Context, req *vaultrpc.UnlockRequest) (*vaultrpc.UnlockResponse, error) {
	token, exp, err := s.gate.Unlock(ctx, peerHost(ctx), req.Role, req.Pin)
	if err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.UnlockResponse{Token: token, ExpiresAt: exp}, nil
}

func (s *GRPCServer) Purge(ctx context.Context, req *vaultrpc.PurgeRequest) (*vaultrpc.PurgeResponse, error) {
	claims := claimsFromContext(ctx)
	if claims == nil {
		return nil, status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	}

	n, err := s.gate.Purge(ctx, claims, req.Pin, req.Confirmation)
	if err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.PurgeResponse{Deleted: n}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *vaultrpc.GetProfileRequest) (*vaultrpc.GetProfileResponse, error) {
	p, err := s.journal.GetProfile(ctx)
	if err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.GetProfileResponse{Profile: *p}, nil
}

func (s *GRPCServer) SaveProfile(ctx context.Context, req *vaultrpc.SaveProfileRequest) (*vaultrpc.SaveProfileResponse, error) {
	p := req.Profile
	if err := s.journal.SaveProfile(ctx, &p); err != nil {
		return nil, s.statusFor(ctx, err)
	}
	return &vaultrpc.SaveProfileResponse{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *vaultrpc.PingRequest) (*vaultrpc.PingResponse, error) {
	return &vaultrpc.PingResponse{Status: "OK"}, nil
}
