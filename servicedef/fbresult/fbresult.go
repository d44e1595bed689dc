// Package fbresult reads and writes the binary (flatbuffers) response format of the server.
//
// The accessors follow the layout of the server's fbresult schema. Only the parts of the schema
// that the harness decodes are exposed: the error flag and code, the data version and the
// waypoints. Route and table objects are not read.
package fbresult

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// field slots of the FBResult table
const (
	fbResultError = iota
	fbResultCode
	fbResultDataVersion
	fbResultWaypoints
	fbResultRoutes
	fbResultTable
	fbResultNumFields
)

type FBResult struct {
	_tab flatbuffers.Table
}

// GetRootAsFBResult returns the root table of buf. It does no bounds checking; call Verify first
// on untrusted input.
func GetRootAsFBResult(buf []byte, offset flatbuffers.UOffsetT) *FBResult {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &FBResult{}
	x.Init(buf, n+offset)
	return x
}

func (rcv *FBResult) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *FBResult) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *FBResult) Error() bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(fbResultError)))
	if o != 0 {
		return rcv._tab.GetBool(o + rcv._tab.Pos)
	}
	return false
}

func (rcv *FBResult) Code(obj *Error) *Error {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(fbResultCode)))
	if o != 0 {
		x := rcv._tab.Indirect(o + rcv._tab.Pos)
		if obj == nil {
			obj = new(Error)
		}
		obj.Init(rcv._tab.Bytes, x)
		return obj
	}
	return nil
}

// DataVersion returns nil if the field is absent.
func (rcv *FBResult) DataVersion() []byte {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(fbResultDataVersion)))
	if o != 0 {
		return rcv._tab.ByteVector(o + rcv._tab.Pos)
	}
	return nil
}

func (rcv *FBResult) Waypoints(obj *Waypoint, j int) bool {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(fbResultWaypoints)))
	if o != 0 {
		x := rcv._tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * flatbuffers.SizeUOffsetT
		x = rcv._tab.Indirect(x)
		obj.Init(rcv._tab.Bytes, x)
		return true
	}
	return false
}

func (rcv *FBResult) WaypointsLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(slot(fbResultWaypoints)))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

func FBResultStart(builder *flatbuffers.Builder) {
	builder.StartObject(fbResultNumFields)
}

func FBResultAddError(builder *flatbuffers.Builder, isError bool) {
	builder.PrependBoolSlot(fbResultError, isError, false)
}

func FBResultAddCode(builder *flatbuffers.Builder, code flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(fbResultCode, code, 0)
}

func FBResultAddDataVersion(builder *flatbuffers.Builder, dataVersion flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(fbResultDataVersion, dataVersion, 0)
}

func FBResultAddWaypoints(builder *flatbuffers.Builder, waypoints flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(fbResultWaypoints, waypoints, 0)
}

func FBResultStartWaypointsVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(flatbuffers.SizeUOffsetT, numElems, flatbuffers.SizeUOffsetT)
}

func FBResultEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}

// slot converts a field index into its offset within the vtable.
func slot(field int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT((field + 2) * flatbuffers.SizeVOffsetT)
}
