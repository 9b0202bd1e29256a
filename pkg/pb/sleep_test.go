package pb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"
)

func TestServiceIsRegistered(t *testing.T) {
	d, err := protoregistry.GlobalFiles.FindDescriptorByName(ServiceName)
	require.NoError(t, err)

	svc, ok := d.(protoreflect.ServiceDescriptor)
	require.True(t, ok, "%s is not a service", ServiceName)
	assert.Equal(t, FileName, svc.ParentFile().Path())

	require.Equal(t, len(SleepService_ServiceDesc.Methods), svc.Methods().Len())
	for _, m := range SleepService_ServiceDesc.Methods {
		md := svc.Methods().ByName(protoreflect.Name(m.MethodName))
		require.NotNil(t, md, "method %s", m.MethodName)
		assert.Equal(t, protoreflect.FullName("sleep.v1."+m.MethodName+"Request"), md.Input().FullName())
		assert.Equal(t, protoreflect.FullName("sleep.v1."+m.MethodName+"Response"), md.Output().FullName())
	}
}

func TestMessagesUseProtobufWireFormat(t *testing.T) {
	b, err := proto.Marshal(toDynamic(&GetAverageStartTimeResponse{Hour: 22, Minute: 30}))
	require.NoError(t, err)
	// field 1 varint 22 and field 2 varint 30, in any order
	require.Len(t, b, 4)
	assert.ElementsMatch(t, [][]byte{{0x08, 22}, {0x10, 30}}, [][]byte{b[:2], b[2:]})
}

func decode(t *testing.T, b []byte, out message) {
	t.Helper()
	m := dynamicpb.NewMessage(out.descriptor())
	require.NoError(t, proto.Unmarshal(b, m))
	out.unmarshalFrom(m)
}

func TestRepeatedFields(t *testing.T) {
	resp := &GetSamplesResponse{Entries: []*SleepEntry{
		{Id: "a", SyncIdentifier: "s-1", SyncVersion: 2, StartTime: 1709330400, EndTime: 1709359200, Value: 0, Category: "In Bed"},
		{Id: "b", StartTime: 1709331300, EndTime: 1709358300, Value: 1, Category: "Asleep"},
	}}
	b, err := proto.Marshal(toDynamic(resp))
	require.NoError(t, err)

	got := new(GetSamplesResponse)
	decode(t, b, got)
	if diff := cmp.Diff(resp, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}

	req := &PurgeEntriesRequest{Ids: []string{"x", "y", "z"}}
	b, err = proto.Marshal(toDynamic(req))
	require.NoError(t, err)

	gotReq := new(PurgeEntriesRequest)
	decode(t, b, gotReq)
	assert.Equal(t, req.Ids, gotReq.Ids)
}
