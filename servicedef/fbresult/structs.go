package fbresult

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

const (
	positionSize   = 8
	uint64PairSize = 16
)

// Position is a coordinate stored as two float32 values.
type Position struct {
	_tab flatbuffers.Struct
}

func (rcv *Position) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Position) Longitude() float32 {
	return rcv._tab.GetFloat32(rcv._tab.Pos)
}

func (rcv *Position) Latitude() float32 {
	return rcv._tab.GetFloat32(rcv._tab.Pos + 4)
}

func CreatePosition(builder *flatbuffers.Builder, longitude, latitude float32) flatbuffers.UOffsetT {
	builder.Prep(4, positionSize)
	builder.PrependFloat32(latitude)
	builder.PrependFloat32(longitude)
	return builder.Offset()
}

type Uint64Pair struct {
	_tab flatbuffers.Struct
}

func (rcv *Uint64Pair) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Uint64Pair) First() uint64 {
	return rcv._tab.GetUint64(rcv._tab.Pos)
}

func (rcv *Uint64Pair) Second() uint64 {
	return rcv._tab.GetUint64(rcv._tab.Pos + 8)
}

func CreateUint64Pair(builder *flatbuffers.Builder, first, second uint64) flatbuffers.UOffsetT {
	builder.Prep(8, uint64PairSize)
	builder.PrependUint64(second)
	builder.PrependUint64(first)
	return builder.Offset()
}
