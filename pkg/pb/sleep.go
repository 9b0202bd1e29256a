// Package pb defines the SleepService gRPC contract.
//
// The service and its messages are described by sleep/v1/sleep.proto,
// registered at init from descriptor.go, so reflection clients such as
// grpcurl can describe and call it. Messages travel as protobuf through
// dynamicpb and are exposed here as plain Go structs.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "sleep.v1.SleepService"

const (
	getSamplesMethod          = "/" + ServiceName + "/GetSamples"
	getAverageStartTimeMethod = "/" + ServiceName + "/GetAverageStartTime"
	purgeEntriesMethod        = "/" + ServiceName + "/PurgeEntries"
)

// message is a Go struct backed by a message of sleep.proto.
type message interface {
	descriptor() protoreflect.MessageDescriptor
	marshalTo(m protoreflect.Message)
	unmarshalFrom(m protoreflect.Message)
}

// toDynamic converts msg into its protobuf form.
func toDynamic(msg message) *dynamicpb.Message {
	m := dynamicpb.NewMessage(msg.descriptor())
	msg.marshalTo(m)
	return m
}

func field(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(name)
}

// SleepEntry is the wire form of a cached entry. Times are unix seconds.
type SleepEntry struct {
	Id             string
	SyncIdentifier string
	SyncVersion    int32
	StartTime      int64
	EndTime        int64
	Value          int32
	Category       string
}

func (*SleepEntry) descriptor() protoreflect.MessageDescriptor { return sleepEntryDesc }

func (e *SleepEntry) marshalTo(m protoreflect.Message) {
	m.Set(field(m, "id"), protoreflect.ValueOfString(e.Id))
	m.Set(field(m, "sync_identifier"), protoreflect.ValueOfString(e.SyncIdentifier))
	m.Set(field(m, "sync_version"), protoreflect.ValueOfInt32(e.SyncVersion))
	m.Set(field(m, "start_time"), protoreflect.ValueOfInt64(e.StartTime))
	m.Set(field(m, "end_time"), protoreflect.ValueOfInt64(e.EndTime))
	m.Set(field(m, "value"), protoreflect.ValueOfInt32(e.Value))
	m.Set(field(m, "category"), protoreflect.ValueOfString(e.Category))
}

func (e *SleepEntry) unmarshalFrom(m protoreflect.Message) {
	e.Id = m.Get(field(m, "id")).String()
	e.SyncIdentifier = m.Get(field(m, "sync_identifier")).String()
	e.SyncVersion = int32(m.Get(field(m, "sync_version")).Int())
	e.StartTime = m.Get(field(m, "start_time")).Int()
	e.EndTime = m.Get(field(m, "end_time")).Int()
	e.Value = int32(m.Get(field(m, "value")).Int())
	e.Category = m.Get(field(m, "category")).String()
}

// GetSamplesRequest selects entries starting in [StartTime, EndTime).
// EndTime 0 leaves the range open.
type GetSamplesRequest struct {
	StartTime int64
	EndTime   int64
}

func (*GetSamplesRequest) descriptor() protoreflect.MessageDescriptor { return getSamplesRequestDesc }

func (r *GetSamplesRequest) marshalTo(m protoreflect.Message) {
	m.Set(field(m, "start_time"), protoreflect.ValueOfInt64(r.StartTime))
	m.Set(field(m, "end_time"), protoreflect.ValueOfInt64(r.EndTime))
}

func (r *GetSamplesRequest) unmarshalFrom(m protoreflect.Message) {
	r.StartTime = m.Get(field(m, "start_time")).Int()
	r.EndTime = m.Get(field(m, "end_time")).Int()
}

type GetSamplesResponse struct {
	Entries []*SleepEntry
}

func (*GetSamplesResponse) descriptor() protoreflect.MessageDescriptor { return getSamplesResponseDesc }

func (r *GetSamplesResponse) marshalTo(m protoreflect.Message) {
	list := m.Mutable(field(m, "entries")).List()
	for _, e := range r.Entries {
		el := list.NewElement()
		e.marshalTo(el.Message())
		list.Append(el)
	}
}

func (r *GetSamplesResponse) unmarshalFrom(m protoreflect.Message) {
	list := m.Get(field(m, "entries")).List()
	r.Entries = make([]*SleepEntry, list.Len())
	for i := range r.Entries {
		r.Entries[i] = new(SleepEntry)
		r.Entries[i].unmarshalFrom(list.Get(i).Message())
	}
}

type GetAverageStartTimeRequest struct {
	SampleLimit int32
}

func (*GetAverageStartTimeRequest) descriptor() protoreflect.MessageDescriptor {
	return getAverageStartTimeRequestDesc
}

func (r *GetAverageStartTimeRequest) marshalTo(m protoreflect.Message) {
	m.Set(field(m, "sample_limit"), protoreflect.ValueOfInt32(r.SampleLimit))
}

func (r *GetAverageStartTimeRequest) unmarshalFrom(m protoreflect.Message) {
	r.SampleLimit = int32(m.Get(field(m, "sample_limit")).Int())
}

type GetAverageStartTimeResponse struct {
	Hour   int32
	Minute int32
}

func (*GetAverageStartTimeResponse) descriptor() protoreflect.MessageDescriptor {
	return getAverageStartTimeResponseDesc
}

func (r *GetAverageStartTimeResponse) marshalTo(m protoreflect.Message) {
	m.Set(field(m, "hour"), protoreflect.ValueOfInt32(r.Hour))
	m.Set(field(m, "minute"), protoreflect.ValueOfInt32(r.Minute))
}

func (r *GetAverageStartTimeResponse) unmarshalFrom(m protoreflect.Message) {
	r.Hour = int32(m.Get(field(m, "hour")).Int())
	r.Minute = int32(m.Get(field(m, "minute")).Int())
}

type PurgeEntriesRequest struct {
	Ids []string
}

func (*PurgeEntriesRequest) descriptor() protoreflect.MessageDescriptor { return purgeEntriesRequestDesc }

func (r *PurgeEntriesRequest) marshalTo(m protoreflect.Message) {
	list := m.Mutable(field(m, "ids")).List()
	for _, id := range r.Ids {
		list.Append(protoreflect.ValueOfString(id))
	}
}

func (r *PurgeEntriesRequest) unmarshalFrom(m protoreflect.Message) {
	list := m.Get(field(m, "ids")).List()
	r.Ids = make([]string, list.Len())
	for i := range r.Ids {
		r.Ids[i] = list.Get(i).String()
	}
}

type PurgeEntriesResponse struct {
	Deleted int64
}

func (*PurgeEntriesResponse) descriptor() protoreflect.MessageDescriptor { return purgeEntriesResponseDesc }

func (r *PurgeEntriesResponse) marshalTo(m protoreflect.Message) {
	m.Set(field(m, "deleted"), protoreflect.ValueOfInt64(r.Deleted))
}

func (r *PurgeEntriesResponse) unmarshalFrom(m protoreflect.Message) {
	r.Deleted = m.Get(field(m, "deleted")).Int()
}

// SleepServiceServer is the server API for SleepService.
type SleepServiceServer interface {
	GetSamples(context.Context, *GetSamplesRequest) (*GetSamplesResponse, error)
	GetAverageStartTime(context.Context, *GetAverageStartTimeRequest) (*GetAverageStartTimeResponse, error)
	PurgeEntries(context.Context, *PurgeEntriesRequest) (*PurgeEntriesResponse, error)
}

// UnimplementedSleepServiceServer can be embedded to keep forward compatibility.
type UnimplementedSleepServiceServer struct{}

func (UnimplementedSleepServiceServer) GetSamples(context.Context, *GetSamplesRequest) (*GetSamplesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSamples not implemented")
}

func (UnimplementedSleepServiceServer) GetAverageStartTime(context.Context, *GetAverageStartTimeRequest) (*GetAverageStartTimeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAverageStartTime not implemented")
}

func (UnimplementedSleepServiceServer) PurgeEntries(context.Context, *PurgeEntriesRequest) (*PurgeEntriesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PurgeEntries not implemented")
}

// RegisterSleepServiceServer registers srv with s.
func RegisterSleepServiceServer(s grpc.ServiceRegistrar, srv SleepServiceServer) {
	s.RegisterService(&SleepService_ServiceDesc, srv)
}

// SleepService_ServiceDesc describes SleepService for grpc.Server.
var SleepService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SleepServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSamples", Handler: getSamplesHandler},
		{MethodName: "GetAverageStartTime", Handler: getAverageStartTimeHandler},
		{MethodName: "PurgeEntries", Handler: purgeEntriesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: FileName,
}

// unaryHandler decodes the protobuf request into a Req, runs call through
// the interceptor, and encodes the response.
func unaryHandler[Req message](method string, newReq func() Req, call func(SleepServiceServer, context.Context, Req) (message, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := newReq()
		in := dynamicpb.NewMessage(req.descriptor())
		if err := dec(in); err != nil {
			return nil, err
		}
		req.unmarshalFrom(in)

		handler := func(ctx context.Context, r any) (any, error) {
			resp, err := call(srv.(SleepServiceServer), ctx, r.(Req))
			if err != nil {
				return nil, err
			}
			return toDynamic(resp), nil
		}
		if interceptor == nil {
			return handler(ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, req, info, handler)
	}
}

var (
	getSamplesHandler = unaryHandler(getSamplesMethod,
		func() *GetSamplesRequest { return new(GetSamplesRequest) },
		func(s SleepServiceServer, ctx context.Context, r *GetSamplesRequest) (message, error) {
			return s.GetSamples(ctx, r)
		})

	getAverageStartTimeHandler = unaryHandler(getAverageStartTimeMethod,
		func() *GetAverageStartTimeRequest { return new(GetAverageStartTimeRequest) },
		func(s SleepServiceServer, ctx context.Context, r *GetAverageStartTimeRequest) (message, error) {
			return s.GetAverageStartTime(ctx, r)
		})

	purgeEntriesHandler = unaryHandler(purgeEntriesMethod,
		func() *PurgeEntriesRequest { return new(PurgeEntriesRequest) },
		func(s SleepServiceServer, ctx context.Context, r *PurgeEntriesRequest) (message, error) {
			return s.PurgeEntries(ctx, r)
		})
)

// SleepServiceClient is the client API for SleepService.
type SleepServiceClient interface {
	GetSamples(ctx context.Context, in *GetSamplesRequest, opts ...grpc.CallOption) (*GetSamplesResponse, error)
	GetAverageStartTime(ctx context.Context, in *GetAverageStartTimeRequest, opts ...grpc.CallOption) (*GetAverageStartTimeResponse, error)
	PurgeEntries(ctx context.Context, in *PurgeEntriesRequest, opts ...grpc.CallOption) (*PurgeEntriesResponse, error)
}

type sleepServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSleepServiceClient returns a SleepService client over cc.
func NewSleepServiceClient(cc grpc.ClientConnInterface) SleepServiceClient {
	return &sleepServiceClient{cc: cc}
}

func (c *sleepServiceClient) GetSamples(ctx context.Context, in *GetSamplesRequest, opts ...grpc.CallOption) (*GetSamplesResponse, error) {
	out := new(GetSamplesResponse)
	if err := c.invoke(ctx, getSamplesMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sleepServiceClient) GetAverageStartTime(ctx context.Context, in *GetAverageStartTimeRequest, opts ...grpc.CallOption) (*GetAverageStartTimeResponse, error) {
	out := new(GetAverageStartTimeResponse)
	if err := c.invoke(ctx, getAverageStartTimeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sleepServiceClient) PurgeEntries(ctx context.Context, in *PurgeEntriesRequest, opts ...grpc.CallOption) (*PurgeEntriesResponse, error) {
	out := new(PurgeEntriesResponse)
	if err := c.invoke(ctx, purgeEntriesMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// invoke sends in as protobuf and decodes the reply into out.
func (c *sleepServiceClient) invoke(ctx context.Context, method string, in, out message, opts ...grpc.CallOption) error {
	reply := dynamicpb.NewMessage(out.descriptor())
	if err := c.cc.Invoke(ctx, method, toDynamic(in), reply, opts...); err != nil {
		return err
	}
	out.unmarshalFrom(reply)
	return nil
}
