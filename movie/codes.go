package movie

// Tag type codes.
const (
	TagEnd                uint16 = 0
	TagShowFrame          uint16 = 1
	TagFree               uint16 = 3
	TagSetBackgroundColor uint16 = 9
	TagDoAction           uint16 = 12
	TagDefineText2        uint16 = 33
	TagDefineButton2      uint16 = 34
	TagFrameLabel         uint16 = 43
	TagLimitScript        uint16 = 65
	TagTabOrder           uint16 = 66
	TagStartSound2        uint16 = 89
)

// Action type codes. Codes below 0x80 carry no body.
const (
	ActionEnd         uint16 = 0x00
	ActionNextFrame   uint16 = 0x04
	ActionPrevFrame   uint16 = 0x05
	ActionPlay        uint16 = 0x06
	ActionStop        uint16 = 0x07
	ActionToggleHigh  uint16 = 0x08
	ActionStopSounds  uint16 = 0x09
	ActionAdd         uint16 = 0x0A
	ActionSubtract    uint16 = 0x0B
	ActionMultiply    uint16 = 0x0C
	ActionDivide      uint16 = 0x0D
	ActionEquals      uint16 = 0x0E
	ActionLess        uint16 = 0x0F
	ActionAnd         uint16 = 0x10
	ActionOr          uint16 = 0x11
	ActionNot         uint16 = 0x12
	ActionPop         uint16 = 0x17
	ActionTrace       uint16 = 0x26
	ActionReturn      uint16 = 0x3E
	ActionGotoFrame   uint16 = 0x81
	ActionGetURL      uint16 = 0x83
	ActionNewFunction uint16 = 0x8E
)

var actionNames = map[uint16]string{
	ActionEnd:         "End",
	ActionNextFrame:   "NextFrame",
	ActionPrevFrame:   "PrevFrame",
	ActionPlay:        "Play",
	ActionStop:        "Stop",
	ActionToggleHigh:  "ToggleQuality",
	ActionStopSounds:  "StopSounds",
	ActionAdd:         "Add",
	ActionSubtract:    "Subtract",
	ActionMultiply:    "Multiply",
	ActionDivide:      "Divide",
	ActionEquals:      "Equals",
	ActionLess:        "Less",
	ActionAnd:         "And",
	ActionOr:          "Or",
	ActionNot:         "Not",
	ActionPop:         "Pop",
	ActionTrace:       "Trace",
	ActionReturn:      "Return",
	ActionGotoFrame:   "GotoFrame",
	ActionGetURL:      "GetURL",
	ActionNewFunction: "NewFunction2",
}
