package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "hospital.v1.SchedulerService"

// Full method names, as seen by interceptors.
const (
	MethodRegister          = "/" + ServiceName + "/Register"
	MethodLogin             = "/" + ServiceName + "/Login"
	MethodRefresh           = "/" + ServiceName + "/Refresh"
	MethodLogout            = "/" + ServiceName + "/Logout"
	MethodCreateAppointment = "/" + ServiceName + "/CreateAppointment"
	MethodGetAppointment    = "/" + ServiceName + "/GetAppointment"
	MethodListAppointments  = "/" + ServiceName + "/ListAppointments"
	MethodUpdateAppointment = "/" + ServiceName + "/UpdateAppointment"
	MethodDeleteAppointment = "/" + ServiceName + "/DeleteAppointment"
)

type SchedulerServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Refresh(context.Context, *RefreshRequest) (*RefreshResponse, error)
	Logout(context.Context, *Empty) (*Empty, error)
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*AppointmentReply, error)
	GetAppointment(context.Context, *IdRequest) (*AppointmentReply, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	UpdateAppointment(context.Context, *UpdateAppointmentRequest) (*AppointmentReply, error)
	DeleteAppointment(context.Context, *IdRequest) (*Empty, error)
}

// UnimplementedSchedulerServiceServer can be embedded for forward compatibility.
type UnimplementedSchedulerServiceServer struct{}

func (UnimplementedSchedulerServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedSchedulerServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedSchedulerServiceServer) Refresh(context.Context, *RefreshRequest) (*RefreshResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}
func (UnimplementedSchedulerServiceServer) Logout(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedSchedulerServiceServer) CreateAppointment(context.Context, *CreateAppointmentRequest) (*AppointmentReply, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAppointment not implemented")
}
func (UnimplementedSchedulerServiceServer) GetAppointment(context.Context, *IdRequest) (*AppointmentReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAppointment not implemented")
}
func (UnimplementedSchedulerServiceServer) ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAppointments not implemented")
}
func (UnimplementedSchedulerServiceServer) UpdateAppointment(context.Context, *UpdateAppointmentRequest) (*AppointmentReply, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateAppointment not implemented")
}
func (UnimplementedSchedulerServiceServer) DeleteAppointment(context.Context, *IdRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteAppointment not implemented")
}

// unary builds a MethodDesc that decodes into a fresh Req and runs the
// interceptor chain around call.
func unary[Req any, PReq interface {
	*Req
	Message
}](name, fullMethod string, call func(SchedulerServiceServer, context.Context, PReq) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(SchedulerServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(PReq))
			})
		},
	}
}

var SchedulerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SchedulerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", MethodRegister, func(s SchedulerServiceServer, ctx context.Context, in *RegisterRequest) (any, error) {
			return s.Register(ctx, in)
		}),
		unary("Login", MethodLogin, func(s SchedulerServiceServer, ctx context.Context, in *LoginRequest) (any, error) {
			return s.Login(ctx, in)
		}),
		unary("Refresh", MethodRefresh, func(s SchedulerServiceServer, ctx context.Context, in *RefreshRequest) (any, error) {
			return s.Refresh(ctx, in)
		}),
		unary("Logout", MethodLogout, func(s SchedulerServiceServer, ctx context.Context, in *Empty) (any, error) {
			return s.Logout(ctx, in)
		}),
		unary("CreateAppointment", MethodCreateAppointment, func(s SchedulerServiceServer, ctx context.Context, in *CreateAppointmentRequest) (any, error) {
			return s.CreateAppointment(ctx, in)
		}),
		unary("GetAppointment", MethodGetAppointment, func(s SchedulerServiceServer, ctx context.Context, in *IdRequest) (any, error) {
			return s.GetAppointment(ctx, in)
		}),
		unary("ListAppointments", MethodListAppointments, func(s SchedulerServiceServer, ctx context.Context, in *ListAppointmentsRequest) (any, error) {
			return s.ListAppointments(ctx, in)
		}),
		unary("UpdateAppointment", MethodUpdateAppointment, func(s SchedulerServiceServer, ctx context.Context, in *UpdateAppointmentRequest) (any, error) {
			return s.UpdateAppointment(ctx, in)
		}),
		unary("DeleteAppointment", MethodDeleteAppointment, func(s SchedulerServiceServer, ctx context.Context, in *IdRequest) (any, error) {
			return s.DeleteAppointment(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hospital/v1/scheduler.proto",
}

// RegisterSchedulerServiceServer registers srv. The grpc.Server must be built
// with grpc.ForceServerCodec(pb.Codec{}).
func RegisterSchedulerServiceServer(s grpc.ServiceRegistrar, srv SchedulerServiceServer) {
	s.RegisterService(&SchedulerService_ServiceDesc, srv)
}

// SchedulerClient is a thin client over a grpc connection.
type SchedulerClient struct {
	cc grpc.ClientConnInterface
}

func NewSchedulerClient(cc grpc.ClientConnInterface) *SchedulerClient {
	return &SchedulerClient{cc: cc}
}

func (c *SchedulerClient) invoke(ctx context.Context, method string, in, out Message, opts []grpc.CallOption) error {
	return c.cc.Invoke(ctx, method, in, out, append(opts, grpc.ForceCodec(Codec{}))...)
}

func (c *SchedulerClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.invoke(ctx, MethodRegister, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulerClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	out := new(LoginResponse)
	if err := c.invoke(ctx, MethodLogin, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulerClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*RefreshResponse, error) {
	out := new(RefreshResponse)
	if err := c.invoke(ctx, MethodRefresh, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulerClient) Logout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, MethodLogout, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulerClient) CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*AppointmentReply, error) {
	out := new(AppointmentReply)
	if err := c.invoke(ctx, MethodCreateAppointment, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulerClient) GetAppointment(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*AppointmentReply, error) {
	out := new(AppointmentReply)
	if err := c.invoke(ctx, MethodGetAppointment, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulerClient) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	out := new(ListAppointmentsResponse)
	if err := c.invoke(ctx, MethodListAppointments, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulerClient) UpdateAppointment(ctx context.Context, in *UpdateAppointmentRequest, opts ...grpc.CallOption) (*AppointmentReply, error) {
	out := new(AppointmentReply)
	if err := c.invoke(ctx, MethodUpdateAppointment, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SchedulerClient) DeleteAppointment(ctx context.Context, in *IdRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, MethodDeleteAppointment, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
