package matroska

// Matroska/EBML element IDs (§6.2). Grouped the way the original teacher
// grouped them, extended to the fields SPEC_FULL.md's schema needs.
const (
	// EBML header
	IDEBMLHeader             = 0x1A45DFA3
	IDEBMLVersion            = 0x4286
	IDEBMLReadVersion        = 0x42F7
	IDEBMLMaxIDLength        = 0x42F2
	IDEBMLMaxSizeLength      = 0x42F3
	IDEBMLDocType            = 0x4282
	IDEBMLDocTypeVersion     = 0x4287
	IDEBMLDocTypeReadVersion = 0x4285

	// Segment
	IDSegment = 0x18538067

	// Meta Seek
	IDSeekHead = 0x114D9B74
	IDSeek     = 0x4DBB
	IDSeekID   = 0x53AB
	IDSeekPos  = 0x53AC

	// Segment Information
	IDSegmentInfo     = 0x1549A966
	IDSegmentUID      = 0x73A4
	IDSegmentFilename = 0x7384
	IDPrevUID         = 0x3CB923
	IDPrevFilename    = 0x3C83AB
	IDNextUID         = 0x3EB923
	IDNextFilename    = 0x3E83BB
	IDSegmentFamily   = 0x4444
	IDTimestampScale  = 0x2AD7B1
	IDDuration        = 0x4489
	IDDateUTC         = 0x4461
	IDTitle           = 0x7BA9
	IDMuxingApp       = 0x4D80
	IDWritingApp      = 0x5741

	// Tracks
	IDTracks          = 0x1654AE6B
	IDTrackEntry      = 0xAE
	IDTrackNum        = 0xD7
	IDTrackUID        = 0x73C5
	IDTrackType       = 0x83
	IDFlagEnabled     = 0xB9
	IDFlagDefault     = 0x88
	IDFlagForced      = 0x55AA
	IDFlagLacing      = 0x9C
	IDDefaultDuration = 0x23E383
	IDTrackTimescale  = 0x23314F
	IDTrackName       = 0x536E
	IDLanguage        = 0x22B59C
	IDCodecID         = 0x86
	IDCodecPriv       = 0x63A2
	IDCodecName       = 0x258688
	IDCodecDelay      = 0x56AA
	IDSeekPreRoll     = 0x56BB
	IDVideo           = 0xE0
	IDAudio           = 0xE1

	// Video
	IDPixelWidth     = 0xB0
	IDPixelHeight    = 0xBA
	IDDisplayWidth   = 0x54B0
	IDDisplayHeight  = 0x54BA
	IDDisplayUnit    = 0x54B2
	IDFlagInterlaced = 0x9A
	IDFieldOrder     = 0x9D
	IDStereoMode     = 0x53B8
	IDColourSpace    = 0x2EB524
	IDColour         = 0x55B0
	IDProjection     = 0x7670

	// Colour
	IDColourMatrix        = 0x55B1
	IDColourRange         = 0x55B9
	IDColourTransfer      = 0x55BA
	IDColourPrimaries     = 0x55BB
	IDColourMaxCLL        = 0x55BC
	IDColourMaxFALL       = 0x55BD

	// Projection
	IDProjectionType       = 0x7671
	IDProjectionPrivate    = 0x7672
	IDProjectionPoseYaw    = 0x7673
	IDProjectionPosePitch  = 0x7674
	IDProjectionPoseRoll   = 0x7675

	// Audio
	IDSamplingFrequency       = 0xB5
	IDOutputSamplingFrequency = 0x78B5
	IDChannels                = 0x9F
	IDBitDepth                = 0x6264
	IDChannelPositions        = 0x7D7B

	// Cluster
	IDCluster     = 0x1F43B675
	IDTimestamp   = 0xE7
	IDPosition    = 0xA7
	IDPrevSize    = 0xAB
	IDSimpleBlock = 0xA3
	IDBlockGroup  = 0xA0
	IDBlock       = 0xA1
	IDBlockDuration = 0x9B

	// Top-level containers recognized and skipped (§1 Non-goals)
	IDCues        = 0x1C53BB6B
	IDTags        = 0x1254C367
	IDAttachments = 0x1941A469
	IDChapters    = 0x1043A770
)
