package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "plume.v1.Plume"

// Full method names.
const (
	MethodRegister     = "/" + ServiceName + "/Register"
	MethodLogin        = "/" + ServiceName + "/Login"
	MethodGetUser      = "/" + ServiceName + "/GetUser"
	MethodChooseTotem  = "/" + ServiceName + "/ChooseTotem"
	MethodUnlockUser   = "/" + ServiceName + "/UnlockUser"
	MethodDeleteUser   = "/" + ServiceName + "/DeleteUser"
	MethodListRewards  = "/" + ServiceName + "/ListRewards"
	MethodListTotems   = "/" + ServiceName + "/ListTotems"
	MethodGetTotem     = "/" + ServiceName + "/GetTotem"
	MethodCreateTotem  = "/" + ServiceName + "/CreateTotem"
	MethodCreateDraft  = "/" + ServiceName + "/CreateDraft"
	MethodPublishPoem  = "/" + ServiceName + "/PublishPoem"
	MethodUpdatePoem   = "/" + ServiceName + "/UpdatePoem"
	MethodDeletePoem   = "/" + ServiceName + "/DeletePoem"
	MethodGetPoem      = "/" + ServiceName + "/GetPoem"
	MethodListPoems    = "/" + ServiceName + "/ListPoems"
	MethodCastVote     = "/" + ServiceName + "/CastVote"
	MethodWithdrawVote = "/" + ServiceName + "/WithdrawVote"
	MethodTally        = "/" + ServiceName + "/Tally"
	MethodListVotes    = "/" + ServiceName + "/ListVotes"
	MethodLore         = "/" + ServiceName + "/Lore"
)

// PlumeServer is implemented by the transport handlers.
type PlumeServer interface {
	Register(context.Context, *RegisterRequest) (*UserResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	GetUser(context.Context, *GetUserRequest) (*UserResponse, error)
	ChooseTotem(context.Context, *ChooseTotemRequest) (*UserResponse, error)
	UnlockUser(context.Context, *UserIDRequest) (*Empty, error)
	DeleteUser(context.Context, *UserIDRequest) (*Empty, error)
	ListRewards(context.Context, *GetUserRequest) (*ListRewardsResponse, error)

	ListTotems(context.Context, *Empty) (*ListTotemsResponse, error)
	GetTotem(context.Context, *GetTotemRequest) (*TotemResponse, error)
	CreateTotem(context.Context, *CreateTotemRequest) (*CreateTotemResponse, error)

	CreateDraft(context.Context, *CreateDraftRequest) (*PoemResponse, error)
	PublishPoem(context.Context, *PoemIDRequest) (*PoemResponse, error)
	UpdatePoem(context.Context, *UpdatePoemRequest) (*PoemResponse, error)
	DeletePoem(context.Context, *PoemIDRequest) (*Empty, error)
	GetPoem(context.Context, *PoemIDRequest) (*PoemResponse, error)
	ListPoems(context.Context, *ListPoemsRequest) (*ListPoemsResponse, error)

	CastVote(context.Context, *CastVoteRequest) (*CastVoteResponse, error)
	WithdrawVote(context.Context, *WithdrawVoteRequest) (*Empty, error)
	Tally(context.Context, *PoemIDRequest) (*TallyResponse, error)
	ListVotes(context.Context, *ListVotesRequest) (*ListVotesResponse, error)

	Lore(context.Context, *LoreRequest) (*LoreResponse, error)
}

func unary[Req, Resp any](name string, call func(PlumeServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PlumeServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PlumeServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the Plume service to grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlumeServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", PlumeServer.Register),
		unary("Login", PlumeServer.Login),
		unary("GetUser", PlumeServer.GetUser),
		unary("ChooseTotem", PlumeServer.ChooseTotem),
		unary("UnlockUser", PlumeServer.UnlockUser),
		unary("DeleteUser", PlumeServer.DeleteUser),
		unary("ListRewards", PlumeServer.ListRewards),
		unary("ListTotems", PlumeServer.ListTotems),
		unary("GetTotem", PlumeServer.GetTotem),
		unary("CreateTotem", PlumeServer.CreateTotem),
		unary("CreateDraft", PlumeServer.CreateDraft),
		unary("PublishPoem", PlumeServer.PublishPoem),
		unary("UpdatePoem", PlumeServer.UpdatePoem),
		unary("DeletePoem", PlumeServer.DeletePoem),
		unary("GetPoem", PlumeServer.GetPoem),
		unary("ListPoems", PlumeServer.ListPoems),
		unary("CastVote", PlumeServer.CastVote),
		unary("WithdrawVote", PlumeServer.WithdrawVote),
		unary("Tally", PlumeServer.Tally),
		unary("ListVotes", PlumeServer.ListVotes),
		unary("Lore", PlumeServer.Lore),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "plume/v1/plume.json",
}

func RegisterPlumeServer(s grpc.ServiceRegistrar, srv PlumeServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is a typed Plume client over any connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *Client) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, MethodGetUser, in, opts)
}

func (c *Client) ChooseTotem(ctx context.Context, in *ChooseTotemRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, MethodChooseTotem, in, opts)
}

func (c *Client) UnlockUser(ctx context.Context, in *UserIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUnlockUser, in, opts)
}

func (c *Client) DeleteUser(ctx context.Context, in *UserIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteUser, in, opts)
}

func (c *Client) ListRewards(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*ListRewardsResponse, error) {
	return invoke[ListRewardsResponse](ctx, c.cc, MethodListRewards, in, opts)
}

func (c *Client) ListTotems(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListTotemsResponse, error) {
	return invoke[ListTotemsResponse](ctx, c.cc, MethodListTotems, in, opts)
}

func (c *Client) GetTotem(ctx context.Context, in *GetTotemRequest, opts ...grpc.CallOption) (*TotemResponse, error) {
	return invoke[TotemResponse](ctx, c.cc, MethodGetTotem, in, opts)
}

func (c *Client) CreateTotem(ctx context.Context, in *CreateTotemRequest, opts ...grpc.CallOption) (*CreateTotemResponse, error) {
	return invoke[CreateTotemResponse](ctx, c.cc, MethodCreateTotem, in, opts)
}

func (c *Client) CreateDraft(ctx context.Context, in *CreateDraftRequest, opts ...grpc.CallOption) (*PoemResponse, error) {
	return invoke[PoemResponse](ctx, c.cc, MethodCreateDraft, in, opts)
}

func (c *Client) PublishPoem(ctx context.Context, in *PoemIDRequest, opts ...grpc.CallOption) (*PoemResponse, error) {
	return invoke[PoemResponse](ctx, c.cc, MethodPublishPoem, in, opts)
}

func (c *Client) UpdatePoem(ctx context.Context, in *UpdatePoemRequest, opts ...grpc.CallOption) (*PoemResponse, error) {
	return invoke[PoemResponse](ctx, c.cc, MethodUpdatePoem, in, opts)
}

func (c *Client) DeletePoem(ctx context.Context, in *PoemIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeletePoem, in, opts)
}

func (c *Client) GetPoem(ctx context.Context, in *PoemIDRequest, opts ...grpc.CallOption) (*PoemResponse, error) {
	return invoke[PoemResponse](ctx, c.cc, MethodGetPoem, in, opts)
}

func (c *Client) ListPoems(ctx context.Context, in *ListPoemsRequest, opts ...grpc.CallOption) (*ListPoemsResponse, error) {
	return invoke[ListPoemsResponse](ctx, c.cc, MethodListPoems, in, opts)
}

func (c *Client) CastVote(ctx context.Context, in *CastVoteRequest, opts ...grpc.CallOption) (*CastVoteResponse, error) {
	return invoke[CastVoteResponse](ctx, c.cc, MethodCastVote, in, opts)
}

func (c *Client) WithdrawVote(ctx context.Context, in *WithdrawVoteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodWithdrawVote, in, opts)
}

func (c *Client) Tally(ctx context.Context, in *PoemIDRequest, opts ...grpc.CallOption) (*TallyResponse, error) {
	return invoke[TallyResponse](ctx, c.cc, MethodTally, in, opts)
}

func (c *Client) ListVotes(ctx context.Context, in *ListVotesRequest, opts ...grpc.CallOption) (*ListVotesResponse, error) {
	return invoke[ListVotesResponse](ctx, c.cc, MethodListVotes, in, opts)
}

func (c *Client) Lore(ctx context.Context, in *LoreRequest, opts ...grpc.CallOption) (*LoreResponse, error) {
	return invoke[LoreResponse](ctx, c.cc, MethodLore, in, opts)
}
