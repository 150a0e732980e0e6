package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/vaultrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      vaultrpc.JournalServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// accessTokenInterceptor attaches the gate token, if any. An expired token
// is dropped so the next gated call asks for the PIN again.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if t := s.token(); t != "" {
		ctx = withAccessToken(ctx, t)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if st, ok := status.FromError(err); ok && st.Code() == codes.Unauthenticated &&
		st.Message() == common.ErrTokenExpired.Error() {
		s.Lock()
	}
	return err
}

// timeoutInterceptor bounds every unary call by the configured timeout.
func (s *GRPCClient) timeoutInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewVaultClientService(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(s.timeoutInterceptor, s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = vaultrpc.NewJournalServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &vaultrpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) CreateEntry(ctx context.Context, e journal.Entry) error {
	_, err := s.client.CreateEntry(ctx, &vaultrpc.CreateEntryRequest{Entry: e})
	return s.mapError(err)
}

func (s *GRPCClient) ListEntries(ctx context.Context, mode journal.VaultMode) ([]journal.Entry, error) {
	resp, err := s.client.ListEntries(ctx, &vaultrpc.ListEntriesRequest{Mode: string(mode)})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Entries, nil
}

// Watch calls fn for every change until ctx is cancelled or the stream
// ends. A clean shutdown returns nil.
func (s *GRPCClient) Watch(ctx context.Context, mode journal.VaultMode, fn func(vaultrpc.WatchEvent)) error {
	stream, err := s.client.Watch(ctx, &vaultrpc.WatchRequest{Mode: string(mode)})
	if err != nil {
		return s.mapError(err)
	}
	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return s.mapError(err)
		}
		fn(*ev)
	}
}

func (s *GRPCClient) PresignUpload(ctx context.Context, target string) (*Upload, error) {
	resp, err := s.client.PresignUpload(ctx, &vaultrpc.PresignUploadRequest{Target: target})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &Upload{
		Key:         resp.Key,
		PutURL:      resp.PutURL,
		DurableURL:  resp.DurableURL,
		ContentType: resp.ContentType,
	}, nil
}

func (s *GRPCClient) PresignGet(ctx context.Context, key string) (string, error) {
	resp, err := s.client.PresignGet(ctx, &vaultrpc.PresignGetRequest{Key: key})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.URL, nil
}

func (s *GRPCClient) ClaimTask(ctx context.Context, id, title, status, claimedBy string) (*journal.TaskClaim, error) {
	resp, err := s.client.ClaimTask(ctx, &vaultrpc.ClaimTaskRequest{ID: id, Title: title, Status: status, ClaimedBy: claimedBy})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Claim, nil
}

func (s *GRPCClient) ListClaims(ctx context.Context) ([]journal.TaskClaim, error) {
	resp, err := s.client.ListClaims(ctx, &vaultrpc.ListClaimsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Claims, nil
}

// Unlock trades a PIN for a gate token, kept in memory only.
func (s *GRPCClient) Unlock(ctx context.Context, role, pin string) (time.Time, error) {
	resp, err := s.client.Unlock(ctx, &vaultrpc.UnlockRequest{Role: role, Pin: pin})
	if err != nil {
		return time.Time{}, s.mapError(err)
	}

	s.mu.Lock()
	s.accessToken = resp.Token
	s.mu.Unlock()
	return resp.ExpiresAt, nil
}

// Lock forgets the gate token.
func (s *GRPCClient) Lock() {
	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()
}

func (s *GRPCClient) Unlocked() bool {
	return s.token() != ""
}

func (s *GRPCClient) Purge(ctx context.Context, pin, confirmation string) (int, error) {
	resp, err := s.client.Purge(ctx, &vaultrpc.PurgeRequest{Pin: pin, Confirmation: confirmation})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Deleted, nil
}

func (s *GRPCClient) GetProfile(ctx context.Context) (*journal.Profile, error) {
	resp, err := s.client.GetProfile(ctx, &vaultrpc.GetProfileRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Profile, nil
}

func (s *GRPCClient) SaveProfile(ctx context.Context, p journal.Profile) error {
	_, err := s.client.SaveProfile(ctx, &vaultrpc.SaveProfileRequest{Profile: p})
	return s.mapError(err)
}

// mapError turns a gRPC status back into a sentinel from internal/common.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		switch st.Message() {
		case common.ErrInvalidPin.Error():
			return common.ErrInvalidPin
		case common.ErrTokenExpired.Error():
			return common.ErrTokenExpired
		}
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrUnauthorized
	case codes.ResourceExhausted:
		return common.ErrTooManyAttempts
	case codes.InvalidArgument:
		if st.Message() == common.ErrConfirmationMismatch.Error() {
			return common.ErrConfirmationMismatch
		}
		return fmt.Errorf("%w: %s", common.ErrValidation, st.Message())
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.AlreadyExists:
		return common.ErrAlreadyExists
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
