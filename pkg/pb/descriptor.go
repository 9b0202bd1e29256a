package pb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// FileName is the path sleep/v1/sleep.proto is registered under.
const FileName = "sleep/v1/sleep.proto"

// File is the registered descriptor of sleep/v1/sleep.proto.
var File protoreflect.FileDescriptor

var (
	sleepEntryDesc                  protoreflect.MessageDescriptor
	getSamplesRequestDesc           protoreflect.MessageDescriptor
	getSamplesResponseDesc          protoreflect.MessageDescriptor
	getAverageStartTimeRequestDesc  protoreflect.MessageDescriptor
	getAverageStartTimeResponseDesc protoreflect.MessageDescriptor
	purgeEntriesRequestDesc         protoreflect.MessageDescriptor
	purgeEntriesResponseDesc        protoreflect.MessageDescriptor
)

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("pb: build %s: %v", FileName, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("pb: register %s: %v", FileName, err))
	}
	File = fd

	msgs := fd.Messages()
	sleepEntryDesc = msgs.ByName("SleepEntry")
	getSamplesRequestDesc = msgs.ByName("GetSamplesRequest")
	getSamplesResponseDesc = msgs.ByName("GetSamplesResponse")
	getAverageStartTimeRequestDesc = msgs.ByName("GetAverageStartTimeRequest")
	getAverageStartTimeResponseDesc = msgs.ByName("GetAverageStartTimeResponse")
	purgeEntriesRequestDesc = msgs.ByName("PurgeEntriesRequest")
	purgeEntriesResponseDesc = msgs.ByName("PurgeEntriesResponse")
}

// fileDescriptorProto is the equivalent of:
//
//	syntax = "proto3";
//	package sleep.v1;
//
//	service SleepService {
//	  rpc GetSamples(GetSamplesRequest) returns (GetSamplesResponse);
//	  rpc GetAverageStartTime(GetAverageStartTimeRequest) returns (GetAverageStartTimeResponse);
//	  rpc PurgeEntries(PurgeEntriesRequest) returns (PurgeEntriesResponse);
//	}
func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FileName),
		Package: proto.String("sleep.v1"),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/quentinrf/sleep-service/pkg/pb"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			messageProto("SleepEntry",
				scalar("id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("sync_identifier", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("sync_version", 3, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				scalar("start_time", 4, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalar("end_time", 5, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalar("value", 6, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				scalar("category", 7, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageProto("GetSamplesRequest",
				scalar("start_time", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalar("end_time", 2, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
			messageProto("GetSamplesResponse",
				repeatedMessage("entries", 1, ".sleep.v1.SleepEntry"),
			),
			messageProto("GetAverageStartTimeRequest",
				scalar("sample_limit", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			),
			messageProto("GetAverageStartTimeResponse",
				scalar("hour", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				scalar("minute", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			),
			messageProto("PurgeEntriesRequest",
				repeatedScalar("ids", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			messageProto("PurgeEntriesResponse",
				scalar("deleted", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("SleepService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("GetSamples"),
				method("GetAverageStartTime"),
				method("PurgeEntries"),
			},
		}},
	}
}

func messageProto(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func repeatedScalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	f := scalar(name, number, typ)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func repeatedMessage(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := repeatedScalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String(typeName)
	return f
}

// method declares rpc <name>(<name>Request) returns (<name>Response).
func method(name string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(".sleep.v1." + name + "Request"),
		OutputType: proto.String(".sleep.v1." + name + "Response"),
	}
}
