// Package msg defines the wire-level message frame shared by every task
// in the U2F2 firmware: a 32-bit tag plus a bounded payload.
//
// https://github.com/wookey-project/libu2f2
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package msg

// Tag is the 32-bit message-type field. It doubles as wire discriminator
// and as the receive-side filter a task uses to select which datagram it
// wants next.
type Tag uint32

// AnyTag matches any pending message, mirroring the SysV msgrcv semantics
// of a zero msgtyp. Only the SET appid-metadata body loop (C6) uses it.
const AnyTag Tag = 0

// Stable wire tag values. Names match the MAGIC_* constants of the
// original libu2f2 API.
const (
	WinkReq Tag = 0x42420000

	ApduCmdInit    Tag = 0xA5A50001
	ApduCmdMeta    Tag = 0xA5A50002
	ApduCmdMsgLen  Tag = 0xA5A50003
	ApduCmdMsg     Tag = 0xA5A50004
	ApduRespInit   Tag = 0x5A5A0001
	ApduRespMsgLen Tag = 0x5A5A0002
	ApduRespMsg    Tag = 0x5A5A0003

	CmdReturn   Tag = 0xDEADBEEF
	Acknowledge Tag = 0xEBA42148

	IsBackendReady Tag = 0x0A46F8C5
	BackendIsReady Tag = 0x06E9F851

	UserPresenceReq Tag = 0xAE5D497F
	UserPresenceAck Tag = 0xA97FE5D4

	TokenUnlocked Tag = 0x4F8A5FED

	PetpinInsert     Tag = 0x4513DF85
	PetpinInserted   Tag = 0xF32E5A7D
	UserpinInsert    Tag = 0x257FDF45
	UserpinInserted  Tag = 0x532EFA7D
	PassphraseConfirm Tag = 0x415468DF
	PassphraseResult  Tag = 0x4F8C517D

	StorageGetMetadata Tag = 0x4F5D8F4C
	StorageSetMetadata Tag = 0x8F4C4F5D

	AppidMetadataIdentifiers Tag = 0x4240
	AppidMetadataStatus      Tag = 0x4241
	AppidMetadataName        Tag = 0x4242
	AppidMetadataCtr         Tag = 0x4243
	AppidMetadataFlags       Tag = 0x4244
	AppidMetadataIconType    Tag = 0x4245
	AppidMetadataColor       Tag = 0x4246
	AppidMetadataIconStart   Tag = 0x4247
	AppidMetadataIcon        Tag = 0x4248
	AppidMetadataEnd         Tag = 0x4249

	StorageGetAssets          Tag = 0x4ED5E78C
	StorageSetAssetsMasterkey Tag = 0x4ED5E75E
	StorageSetAssetsRollbk    Tag = 0x4ED5E81F
	StorageSdRollbkCounter    Tag = 0x4ED81A70
	StorageIncCtr             Tag = 0x24A7FAC1
)
