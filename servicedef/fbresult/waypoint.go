package fbresult

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

const (
	waypointHint = iota
	waypointDistance
	waypointName
	waypointLocation
	waypointNodes
	waypointNumFields
)

type Waypoint struct {
	_tab flatbuffers.Table
}

func (rcv *Waypoint) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Waypoint) Hint() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(waypointHint)))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Waypoint) Distance() float32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(waypointDistance)))
	if o != 0 {
		return rcv._tab.GetFloat32(o + rcv._tab.Pos)
	}
	return 0.0
}

func (rcv *Waypoint) Name() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(waypointName)))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *Waypoint) Location(obj *Position) *Position {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(waypointLocation)))
	if o != 0 {
		if obj == nil {
			obj = new(Position)
		}
		obj.Init(rcv._tab.Bytes, o+rcv._tab.Pos)
		return obj
	}
	return nil
}

func (rcv *Waypoint) Nodes(obj *Uint64Pair) *Uint64Pair {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(waypointNodes)))
	if o != 0 {
		if obj == nil {
			obj = new(Uint64Pair)
		}
		obj.Init(rcv._tab.Bytes, o+rcv._tab.Pos)
		return obj
	}
	return nil
}

func WaypointStart(builder *flatbuffers.Builder) {
	builder.StartObject(waypointNumFields)
}

func WaypointAddHint(builder *flatbuffers.Builder, hint flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(waypointHint, hint, 0)
}

func WaypointAddDistance(builder *flatbuffers.Builder, distance float32) {
	builder.PrependFloat32Slot(waypointDistance, distance, 0.0)
}

func WaypointAddName(builder *flatbuffers.Builder, name flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(waypointName, name, 0)
}

// WaypointAddLocation must be called with the result of CreatePosition, with nothing built in
// between, since structs are stored inline.
func WaypointAddLocation(builder *flatbuffers.Builder, location flatbuffers.UOffsetT) {
	builder.PrependStructSlot(waypointLocation, location, 0)
}

func WaypointAddNodes(builder *flatbuffers.Builder, nodes flatbuffers.UOffsetT) {
	builder.PrependStructSlot(waypointNodes, nodes, 0)
}

func WaypointEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
