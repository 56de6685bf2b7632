package grpcattest

import (
	"context"
	"time"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/storage"
)

// Client talks to an Attest daemon. It implements storage.CAS over the
// Archive/Fetch/Has methods, so a remote daemon can stand in anywhere a
// local archive backend does.
//
// Because Archive verifies server-side, Put only accepts canonical wire
// documents that verify against the daemon's registry.
type Client struct {
	cc     *grpc.ClientConn
	client AttestClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ storage.CAS = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewAttestClient(cc)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Verify submits a wire document for verification and returns the canonical
// payload CID the daemon computed.
func (c *Client) Verify(doc []byte) (string, error) {
	if c == nil || c.client == nil {
		return "", errNoClient
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Verify(ctx, wrapperspb.Bytes(doc))
	if err != nil {
		return "", err
	}
	return reply.GetValue(), nil
}

// Put archives a wire document. The daemon verifies it first; unverifiable
// documents are rejected with the server's status error, not a storage
// sentinel.
//
// The CAS contract requires the returned CID to name exactly the bytes
// given, so Put fails with ErrCIDMismatch when data is not the canonical
// rendering the server stores.
func (c *Client) Put(data []byte) (cid.Cid, error) {
	if c == nil || c.client == nil {
		return cid.Undef, errNoClient
	}
	expected, err := cidutil.AttestationCID(data)
	if err != nil {
		return cid.Undef, err
	}

	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Archive(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return cid.Undef, err
	}
	id, err := cid.Decode(reply.GetValue())
	if err != nil || !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}
	if id != expected {
		return cid.Undef, storage.ErrCIDMismatch
	}
	return id, nil
}

func (c *Client) Get(id cid.Cid) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, errNoClient
	}
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Fetch(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return nil, mapRPC(err)
	}
	b := reply.GetValue()
	got, err := cidutil.AttestationCID(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *Client) Has(id cid.Cid) bool {
	if c == nil || c.client == nil || !id.Defined() {
		return false
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Has(ctx, wrapperspb.String(id.String()))
	if err != nil {
		return false
	}
	return reply.GetValue()
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
