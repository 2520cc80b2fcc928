// Package msgpack implements a streaming decoder for the MessagePack
// binary format over a pkg/buffer.Buffer. It never encodes.
package msgpack

// Marker bytes and ranges, spec.md §4.2, authoritative against the
// MessagePack specification.
const (
	mPositiveFixintMax = 0x7f
	mFixmapMin         = 0x80
	mFixmapMax         = 0x8f
	mFixarrayMin       = 0x90
	mFixarrayMax       = 0x9f
	mFixstrMin         = 0xa0
	mFixstrMax         = 0xbf
	mNil               = 0xc0
	mReserved          = 0xc1
	mFalse             = 0xc2
	mTrue              = 0xc3
	mBin8              = 0xc4
	mBin16             = 0xc5
	mBin32             = 0xc6
	mExt8              = 0xc7
	mExt16             = 0xc8
	mExt32             = 0xc9
	mFloat32           = 0xca
	mFloat64           = 0xcb
	mUint8             = 0xcc
	mUint16            = 0xcd
	mUint32            = 0xce
	mUint64            = 0xcf
	mInt8              = 0xd0
	mInt16             = 0xd1
	mInt32             = 0xd2
	mInt64             = 0xd3
	mFixext1           = 0xd4
	mFixext2           = 0xd5
	mFixext4           = 0xd6
	mFixext8           = 0xd7
	mFixext16          = 0xd8
	mStr8              = 0xd9
	mStr16             = 0xda
	mStr32             = 0xdb
	mArray16           = 0xdc
	mArray32           = 0xdd
	mMap16             = 0xde
	mMap32             = 0xdf
	mNegativeFixintMin = 0xe0
)
