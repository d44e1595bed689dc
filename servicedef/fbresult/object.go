package fbresult

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// FBResultT is the unpacked form of FBResult, used to build buffers.
type FBResultT struct {
	Error       bool
	Code        *ErrorT
	DataVersion string
	Waypoints   []*WaypointT
}

type ErrorT struct {
	Code    string
	Message string
}

type WaypointT struct {
	Hint     string
	Distance float32
	Name     string
	Location *PositionT
	Nodes    *Uint64PairT
}

type PositionT struct {
	Longitude float32
	Latitude  float32
}

type Uint64PairT struct {
	First  uint64
	Second uint64
}

// Encode builds a finished buffer holding t as its root.
func Encode(t *FBResultT) []byte {
	builder := flatbuffers.NewBuilder(256)
	builder.Finish(t.Pack(builder))
	return builder.FinishedBytes()
}

func (t *FBResultT) Pack(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	if t == nil {
		return 0
	}
	codeOffset := t.Code.Pack(builder)
	dataVersionOffset := flatbuffers.UOffsetT(0)
	if t.DataVersion != "" {
		dataVersionOffset = builder.CreateString(t.DataVersion)
	}
	waypointsOffset := flatbuffers.UOffsetT(0)
	if t.Waypoints != nil {
		offsets := make([]flatbuffers.UOffsetT, len(t.Waypoints))
		for i, w := range t.Waypoints {
			offsets[i] = w.Pack(builder)
		}
		FBResultStartWaypointsVector(builder, len(offsets))
		for i := len(offsets) - 1; i >= 0; i-- {
			builder.PrependUOffsetT(offsets[i])
		}
		waypointsOffset = builder.EndVector(len(offsets))
	}
	FBResultStart(builder)
	FBResultAddError(builder, t.Error)
	FBResultAddCode(builder, codeOffset)
	FBResultAddDataVersion(builder, dataVersionOffset)
	FBResultAddWaypoints(builder, waypointsOffset)
	return FBResultEnd(builder)
}

func (t *ErrorT) Pack(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	if t == nil {
		return 0
	}
	codeOffset := flatbuffers.UOffsetT(0)
	if t.Code != "" {
		codeOffset = builder.CreateString(t.Code)
	}
	messageOffset := flatbuffers.UOffsetT(0)
	if t.Message != "" {
		messageOffset = builder.CreateString(t.Message)
	}
	ErrorStart(builder)
	ErrorAddCode(builder, codeOffset)
	ErrorAddMessage(builder, messageOffset)
	return ErrorEnd(builder)
}

func (t *WaypointT) Pack(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	if t == nil {
		return 0
	}
	hintOffset := flatbuffers.UOffsetT(0)
	if t.Hint != "" {
		hintOffset = builder.CreateString(t.Hint)
	}
	nameOffset := flatbuffers.UOffsetT(0)
	if t.Name != "" {
		nameOffset = builder.CreateString(t.Name)
	}
	WaypointStart(builder)
	WaypointAddHint(builder, hintOffset)
	WaypointAddDistance(builder, t.Distance)
	WaypointAddName(builder, nameOffset)
	if t.Location != nil {
		WaypointAddLocation(builder, CreatePosition(builder, t.Location.Longitude, t.Location.Latitude))
	}
	if t.Nodes != nil {
		WaypointAddNodes(builder, CreateUint64Pair(builder, t.Nodes.First, t.Nodes.Second))
	}
	return WaypointEnd(builder)
}
