package fbresult

import (
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
)

// ErrInvalidBuffer is returned by Verify for a buffer that is not a well-formed FBResult.
var ErrInvalidBuffer = errors.New("invalid flatbuffers result")

// Verify checks that every offset the accessors of this package would follow, starting at the
// root table, stays inside buf. The accessors themselves do no bounds checking, so a truncated
// or corrupt buffer must be rejected here before any field is read.
func Verify(buf []byte) error {
	v := verifier{buf: buf}
	if err := v.check(0, flatbuffers.SizeUOffsetT); err != nil {
		return err
	}
	root, err := v.table(uint64(flatbuffers.GetUOffsetT(buf)))
	if err != nil {
		return err
	}
	if err := v.scalar(root, fbResultError, flatbuffers.SizeBool); err != nil {
		return err
	}
	if code, ok, err := v.tableField(root, fbResultCode); err != nil {
		return err
	} else if ok {
		if err := v.strings(code, errorCode, errorMessage); err != nil {
			return err
		}
	}
	if err := v.strings(root, fbResultDataVersion); err != nil {
		return err
	}
	if err := v.tableVector(root, fbResultWaypoints, v.waypoint); err != nil {
		return err
	}
	for _, field := range []int{fbResultRoutes, fbResultTable} {
		if _, _, err := v.offset(root, field); err != nil {
			return err
		}
	}
	return nil
}

type verifier struct {
	buf []byte
}

type tableInfo struct {
	pos        uint64
	vtable     uint64
	vtableSize uint64
	objectSize uint64
}

func (v verifier) check(pos, size uint64) error {
	if pos+size < pos || pos+size > uint64(len(v.buf)) {
		return fmt.Errorf("%w: %d bytes at offset %d are outside the %d byte buffer",
			ErrInvalidBuffer, size, pos, len(v.buf))
	}
	return nil
}

func (v verifier) table(pos uint64) (tableInfo, error) {
	if err := v.check(pos, flatbuffers.SizeSOffsetT); err != nil {
		return tableInfo{}, err
	}
	vtable := int64(pos) - int64(flatbuffers.GetSOffsetT(v.buf[pos:]))
	if vtable < 0 {
		return tableInfo{}, fmt.Errorf("%w: vtable of table at %d starts before the buffer", ErrInvalidBuffer, pos)
	}
	t := tableInfo{pos: pos, vtable: uint64(vtable)}
	if err := v.check(t.vtable, 2*flatbuffers.SizeVOffsetT); err != nil {
		return tableInfo{}, err
	}
	t.vtableSize = uint64(flatbuffers.GetVOffsetT(v.buf[t.vtable:]))
	t.objectSize = uint64(flatbuffers.GetVOffsetT(v.buf[t.vtable+flatbuffers.SizeVOffsetT:]))
	if t.vtableSize < 2*flatbuffers.SizeVOffsetT || t.vtableSize%flatbuffers.SizeVOffsetT != 0 {
		return tableInfo{}, fmt.Errorf("%w: bad vtable size %d", ErrInvalidBuffer, t.vtableSize)
	}
	if err := v.check(t.vtable, t.vtableSize); err != nil {
		return tableInfo{}, err
	}
	if err := v.check(t.pos, t.objectSize); err != nil {
		return tableInfo{}, err
	}
	return t, nil
}

// field returns the position of a field inside its table, or 0 if it is absent.
func (v verifier) field(t tableInfo, field int, size uint64) (uint64, error) {
	s := uint64(slot(field))
	if s+flatbuffers.SizeVOffsetT > t.vtableSize {
		return 0, nil
	}
	o := uint64(flatbuffers.GetVOffsetT(v.buf[t.vtable+s:]))
	if o == 0 {
		return 0, nil
	}
	if o+size > t.objectSize {
		return 0, fmt.Errorf("%w: field %d of table at %d overruns the table", ErrInvalidBuffer, field, t.pos)
	}
	return t.pos + o, nil
}

func (v verifier) scalar(t tableInfo, field int, size uint64) error {
	_, err := v.field(t, field, size)
	return err
}

// offset follows an offset field and returns the position it points to.
func (v verifier) offset(t tableInfo, field int) (uint64, bool, error) {
	at, err := v.field(t, field, flatbuffers.SizeUOffsetT)
	if err != nil || at == 0 {
		return 0, false, err
	}
	target := at + uint64(flatbuffers.GetUOffsetT(v.buf[at:]))
	if err := v.check(target, flatbuffers.SizeUOffsetT); err != nil {
		return 0, false, err
	}
	return target, true, nil
}

func (v verifier) vectorLength(pos, elemSize uint64) (uint64, error) {
	n := uint64(flatbuffers.GetUOffsetT(v.buf[pos:]))
	if err := v.check(pos+flatbuffers.SizeUOffsetT, n*elemSize); err != nil {
		return 0, err
	}
	return n, nil
}

func (v verifier) strings(t tableInfo, fields ...int) error {
	for _, field := range fields {
		target, ok, err := v.offset(t, field)
		if err != nil {
			return err
		}
		if ok {
			if _, err := v.vectorLength(target, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v verifier) tableField(t tableInfo, field int) (tableInfo, bool, error) {
	target, ok, err := v.offset(t, field)
	if err != nil || !ok {
		return tableInfo{}, false, err
	}
	sub, err := v.table(target)
	return sub, err == nil, err
}

func (v verifier) tableVector(t tableInfo, field int, element func(tableInfo) error) error {
	target, ok, err := v.offset(t, field)
	if err != nil || !ok {
		return err
	}
	n, err := v.vectorLength(target, flatbuffers.SizeUOffsetT)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		at := target + flatbuffers.SizeUOffsetT + i*flatbuffers.SizeUOffsetT
		elem, err := v.table(at + uint64(flatbuffers.GetUOffsetT(v.buf[at:])))
		if err != nil {
			return err
		}
		if err := element(elem); err != nil {
			return err
		}
	}
	return nil
}

func (v verifier) waypoint(t tableInfo) error {
	if err := v.strings(t, waypointHint, waypointName); err != nil {
		return err
	}
	if err := v.scalar(t, waypointDistance, flatbuffers.SizeFloat32); err != nil {
		return err
	}
	if err := v.scalar(t, waypointLocation, positionSize); err != nil {
		return err
	}
	return v.scalar(t, waypointNodes, uint64PairSize)
}
