package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// model file problems
	ModelInfo              Code = 1000
	ModelBadName           Code = 1001
	ModelDuplicateRegister Code = 1002
	ModelDuplicateField    Code = 1003
	ModelBadBitRange       Code = 1004
	ModelMissingAccess     Code = 1005
	ModelBadAccess         Code = 1006
	ModelWidthNotListed    Code = 1007
	ModelUnsupportedWidth  Code = 1008
	ModelOverlappingFields Code = 1009
	ModelNoAccessors       Code = 1010
	ModelDuplicateFamily   Code = 1011
	ModelParseError        Code = 1012
	ModelNameClash         Code = 1013

	// io
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	ModelInfo:              "Model information",
	ModelBadName:           "Invalid identifier",
	ModelDuplicateRegister: "Duplicate register",
	ModelDuplicateField:    "Duplicate field",
	ModelBadBitRange:       "Invalid bit range",
	ModelMissingAccess:     "Missing access declaration",
	ModelBadAccess:         "Invalid access value",
	ModelWidthNotListed:    "Register width not listed in family widths",
	ModelUnsupportedWidth:  "Unsupported register width",
	ModelOverlappingFields: "Overlapping fields",
	ModelNoAccessors:       "Field has no accessors",
	ModelDuplicateFamily:   "Duplicate family",
	ModelParseError:        "Model parse error",
	ModelNameClash:         "Generated name clash",
	IOLoadFileError:        "Failed to load file",
}

// ID returns the stable short identifier, e.g. MOD1004.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MOD%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
