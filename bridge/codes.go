package bridge

import (
	"github.com/cassgate/cassgate/internal/cerr"
	"github.com/cassgate/cassgate/internal/driver"
)

// Code is the numeric error contract returned by every bridge call and
// carried by failed futures. The layout is (source << 24) | code; Ok is
// zero. Aliased here so callers never import an internal package.
type Code = cerr.Code

const (
	Ok = cerr.Ok

	ErrLibBadParams          = cerr.ErrLibBadParams
	ErrLibNoStreams          = cerr.ErrLibNoStreams
	ErrLibNoHostsAvailable   = cerr.ErrLibNoHostsAvailable
	ErrLibIndexOutOfBounds   = cerr.ErrLibIndexOutOfBounds
	ErrLibInvalidValueType   = cerr.ErrLibInvalidValueType
	ErrLibRequestTimedOut    = cerr.ErrLibRequestTimedOut
	ErrLibCallbackAlreadySet = cerr.ErrLibCallbackAlreadySet
	ErrLibNameDoesNotExist   = cerr.ErrLibNameDoesNotExist
	ErrLibNullValue          = cerr.ErrLibNullValue
	ErrLibUnableToConnect    = cerr.ErrLibUnableToConnect
	ErrLibUnableToClose      = cerr.ErrLibUnableToClose
	ErrLibNoPagingState      = cerr.ErrLibNoPagingState
	ErrLibInvalidFutureType  = cerr.ErrLibInvalidFutureType
	ErrLibInternalError      = cerr.ErrLibInternalError
	ErrLibInvalidData        = cerr.ErrLibInvalidData
	ErrLibInvalidState       = cerr.ErrLibInvalidState

	ErrServerServerError    = cerr.ErrServerServerError
	ErrServerProtocolError  = cerr.ErrServerProtocolError
	ErrServerBadCredentials = cerr.ErrServerBadCredentials
	ErrServerUnavailable    = cerr.ErrServerUnavailable
	ErrServerOverloaded     = cerr.ErrServerOverloaded
	ErrServerWriteTimeout   = cerr.ErrServerWriteTimeout
	ErrServerReadTimeout    = cerr.ErrServerReadTimeout
	ErrServerSyntaxError    = cerr.ErrServerSyntaxError
	ErrServerUnauthorized   = cerr.ErrServerUnauthorized
	ErrServerInvalidQuery   = cerr.ErrServerInvalidQuery
	ErrServerAlreadyExists  = cerr.ErrServerAlreadyExists
	ErrServerUnprepared     = cerr.ErrServerUnprepared

	ErrSSLInvalidCert       = cerr.ErrSSLInvalidCert
	ErrSSLInvalidPrivateKey = cerr.ErrSSLInvalidPrivateKey
	ErrSSLNoPeerCert        = cerr.ErrSSLNoPeerCert
	ErrSSLIdentityMismatch  = cerr.ErrSSLIdentityMismatch
)

// Consistency selects how many replicas must acknowledge a request.
// Values mirror the wire protocol.
type Consistency = driver.Consistency

const (
	ConsistencyAny         = driver.ConsistencyAny
	ConsistencyOne         = driver.ConsistencyOne
	ConsistencyTwo         = driver.ConsistencyTwo
	ConsistencyThree       = driver.ConsistencyThree
	ConsistencyQuorum      = driver.ConsistencyQuorum
	ConsistencyAll         = driver.ConsistencyAll
	ConsistencyLocalQuorum = driver.ConsistencyLocalQuorum
	ConsistencyEachQuorum  = driver.ConsistencyEachQuorum
	ConsistencySerial      = driver.ConsistencySerial
	ConsistencyLocalSerial = driver.ConsistencyLocalSerial
	ConsistencyLocalOne    = driver.ConsistencyLocalOne
)

// BatchType selects the batch semantics.
type BatchType = driver.BatchType

const (
	BatchLogged   = driver.BatchLogged
	BatchUnlogged = driver.BatchUnlogged
	BatchCounter  = driver.BatchCounter
)

// ValueKind is the type tag carried by every value in a result.
type ValueKind = driver.Type

const (
	TypeCustom    = driver.TypeCustom
	TypeAscii     = driver.TypeAscii
	TypeBigint    = driver.TypeBigint
	TypeBlob      = driver.TypeBlob
	TypeBoolean   = driver.TypeBoolean
	TypeCounter   = driver.TypeCounter
	TypeDecimal   = driver.TypeDecimal
	TypeDouble    = driver.TypeDouble
	TypeFloat     = driver.TypeFloat
	TypeInt       = driver.TypeInt
	TypeText      = driver.TypeText
	TypeTimestamp = driver.TypeTimestamp
	TypeUUID      = driver.TypeUUID
	TypeVarchar   = driver.TypeVarchar
	TypeVarint    = driver.TypeVarint
	TypeTimeUUID  = driver.TypeTimeUUID
	TypeInet      = driver.TypeInet
	TypeDate      = driver.TypeDate
	TypeTime      = driver.TypeTime
	TypeSmallint  = driver.TypeSmallint
	TypeTinyint   = driver.TypeTinyint
	TypeList      = driver.TypeList
	TypeMap       = driver.TypeMap
	TypeSet       = driver.TypeSet
	TypeUDT       = driver.TypeUDT
	TypeTuple     = driver.TypeTuple
	TypeUnknown   = driver.TypeUnknown
)
