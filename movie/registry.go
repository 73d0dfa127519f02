package movie

import (
	"fmt"

	"github.com/wippyai/swf/coder"
)

// DefaultTags returns a registry holding every tag this package decodes.
// Each call returns a new registry that the caller may modify.
func DefaultTags() *coder.Registry {
	r := coder.NewRegistry(coder.TagFormat)
	r.MustRegister(TagEnd, coder.FactoryFunc(decodeEnd), "End")
	r.MustRegister(TagShowFrame, coder.FactoryFunc(decodeShowFrame), "ShowFrame")
	r.MustRegister(TagFree, coder.FactoryFunc(decodeFree), "Free")
	r.MustRegister(TagSetBackgroundColor, coder.FactoryFunc(decodeSetBackgroundColor), "SetBackgroundColor")
	r.MustRegister(TagDoAction, coder.FactoryFunc(decodeDoAction), "DoAction")
	r.MustRegister(TagDefineText2, coder.FactoryFunc(decodeDefineText2), "DefineText2")
	r.MustRegister(TagDefineButton2, coder.FactoryFunc(decodeDefineButton2), "DefineButton2")
	r.MustRegister(TagFrameLabel, coder.FactoryFunc(decodeFrameLabel), "FrameLabel")
	r.MustRegister(TagLimitScript, coder.FactoryFunc(decodeLimitScript), "LimitScript")
	r.MustRegister(TagTabOrder, coder.FactoryFunc(decodeTabOrder), "TabOrder")
	r.MustRegister(TagStartSound2, coder.FactoryFunc(decodeStartSound2), "StartSound2")
	return r
}

// DefaultActions returns a registry holding every action this package
// decodes. Actions without operands all decode as BasicAction.
func DefaultActions() *coder.Registry {
	r := coder.NewRegistry(coder.ActionFormat)
	basic := coder.FactoryFunc(decodeBasicAction)
	for code := uint16(0); code < coder.ActionLengthFlag; code++ {
		name, ok := actionNames[code]
		if !ok {
			name = fmt.Sprintf("Action(0x%02x)", code)
		}
		r.MustRegister(code, basic, name)
	}
	r.MustRegister(ActionGotoFrame, coder.FactoryFunc(decodeGotoFrame), "GotoFrame")
	r.MustRegister(ActionGetURL, coder.FactoryFunc(decodeGetURL), "GetURL")
	r.MustRegister(ActionNewFunction, coder.FactoryFunc(decodeNewFunction2), "NewFunction2")
	return r
}
