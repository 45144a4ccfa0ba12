package msgs

import (
	"github.com/golang/protobuf/proto"
)

// SafetyStatus is the event reflecting the latch of a device.
type SafetyStatus struct {
	Device         string `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	State          string `protobuf:"bytes,2,opt,name=state,proto3" json:"state,omitempty"`
	LastCode       int32  `protobuf:"varint,3,opt,name=last_code,json=lastCode,proto3" json:"last_code,omitempty"`
	Incident       string `protobuf:"bytes,4,opt,name=incident,proto3" json:"incident,omitempty"`
	Stops          uint64 `protobuf:"varint,5,opt,name=stops,proto3" json:"stops,omitempty"`
	Violations     uint64 `protobuf:"varint,6,opt,name=violations,proto3" json:"violations,omitempty"`
	Resets         uint64 `protobuf:"varint,7,opt,name=resets,proto3" json:"resets,omitempty"`
	RejectedResets uint64 `protobuf:"varint,8,opt,name=rejected_resets,json=rejectedResets,proto3" json:"rejected_resets,omitempty"`
	Dropped        uint64 `protobuf:"varint,9,opt,name=dropped,proto3" json:"dropped,omitempty"`
	Timestamp      uint64 `protobuf:"varint,10,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewMessage implements Message.
func (m *SafetyStatus) NewMessage() Message { return &SafetyStatus{} }

// TypeID implements SerializableMessage.
func (m *SafetyStatus) TypeID() uint32 { return SafetyStatusTypeID }

// Serializable implements SerializableMessage.
func (m *SafetyStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SafetyStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SafetyStatus) Reset() { *m = SafetyStatus{} }

// String implements proto.Message.
func (m *SafetyStatus) String() string { return proto.CompactTextString(m) }

// SensorSample is an upstream reading forwarded by a device.
type SensorSample struct {
	Device    string  `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Source    uint32  `protobuf:"varint,2,opt,name=source,proto3" json:"source,omitempty"`
	Value1    float32 `protobuf:"fixed32,3,opt,name=value1,proto3" json:"value1,omitempty"`
	Value2    float32 `protobuf:"fixed32,4,opt,name=value2,proto3" json:"value2,omitempty"`
	Timestamp uint64  `protobuf:"varint,5,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewMessage implements Message.
func (m *SensorSample) NewMessage() Message { return &SensorSample{} }

// TypeID implements SerializableMessage.
func (m *SensorSample) TypeID() uint32 { return SensorSampleTypeID }

// Serializable implements SerializableMessage.
func (m *SensorSample) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SensorSample) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SensorSample) Reset() { *m = SensorSample{} }

// String implements proto.Message.
func (m *SensorSample) String() string { return proto.CompactTextString(m) }

// ResetCommand requests a reset of an emergency-stopped device.
type ResetCommand struct {
}

// NewMessage implements Message.
func (m *ResetCommand) NewMessage() Message { return &ResetCommand{} }

// TypeID implements SerializableMessage.
func (m *ResetCommand) TypeID() uint32 { return ResetCommandTypeID }

// Serializable implements SerializableMessage.
func (m *ResetCommand) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ResetCommand) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ResetCommand) Reset() { *m = ResetCommand{} }

// String implements proto.Message.
func (m *ResetCommand) String() string { return proto.CompactTextString(m) }

// StopCommand trips the emergency stop remotely.
type StopCommand struct {
	Code int32 `protobuf:"varint,1,opt,name=code,proto3" json:"code,omitempty"`
}

// NewMessage implements Message.
func (m *StopCommand) NewMessage() Message { return &StopCommand{} }

// TypeID implements SerializableMessage.
func (m *StopCommand) TypeID() uint32 { return StopCommandTypeID }

// Serializable implements SerializableMessage.
func (m *StopCommand) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *StopCommand) ProtoMessage() {}

// Reset implements proto.Message.
func (m *StopCommand) Reset() { *m = StopCommand{} }

// String implements proto.Message.
func (m *StopCommand) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupSafety uint32 = 0x00010000
	GroupCustom uint32 = 0x40000000
)

// TypeIDs
const (
	SafetyStatusTypeID uint32 = GroupSafety | TypeIDKindEvent | 0x0000
	SensorSampleTypeID uint32 = GroupSafety | TypeIDKindEvent | 0x0001
	ResetCommandTypeID uint32 = GroupSafety | 0x0000
	StopCommandTypeID  uint32 = GroupSafety | 0x0001
)
