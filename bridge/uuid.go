package bridge

import (
	"github.com/google/uuid"

	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/handle"
)

// UuidGenRandom allocates a version 4 (random) uuid. Free with UuidFree.
func UuidGenRandom() (h Handle, code cerr.Code) {
	defer recoverTo(&code)
	u, err := uuid.NewRandom()
	if err != nil {
		return Nil, cerr.ErrLibInternalError
	}
	return reg.New(handle.KindUUID, u), cerr.Ok
}

// UuidGenTime allocates a version 1 (time-based) uuid, sortable by
// creation time. Free with UuidFree.
func UuidGenTime() (h Handle, code cerr.Code) {
	defer recoverTo(&code)
	u, err := uuid.NewUUID()
	if err != nil {
		return Nil, cerr.ErrLibInternalError
	}
	return reg.New(handle.KindUUID, u), cerr.Ok
}

// UuidFromString parses the canonical hex-and-dashes form.
func UuidFromString(s string) (h Handle, code cerr.Code) {
	defer recoverTo(&code)
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, cerr.ErrLibBadParams
	}
	return reg.New(handle.KindUUID, u), cerr.Ok
}

// UuidFree releases the uuid.
func UuidFree(h Handle) {
	defer recoverLog()
	reg.Release(h, handle.KindUUID)
}

func getUUID(h Handle) (uuid.UUID, bool) {
	obj, ok := reg.Get(h, handle.KindUUID)
	if !ok {
		return uuid.UUID{}, false
	}
	return obj.(uuid.UUID), true
}

// UuidString renders the canonical hex-and-dashes form.
func UuidString(h Handle) (s string, code cerr.Code) {
	defer recoverTo(&code)
	u, ok := getUUID(h)
	if !ok {
		return "", cerr.ErrLibBadParams
	}
	return u.String(), cerr.Ok
}

// UuidBytes returns the raw 16 bytes, the form StatementBindUUID takes.
func UuidBytes(h Handle) (b [16]byte, code cerr.Code) {
	defer recoverTo(&code)
	u, ok := getUUID(h)
	if !ok {
		return [16]byte{}, cerr.ErrLibBadParams
	}
	return [16]byte(u), cerr.Ok
}
