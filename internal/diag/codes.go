package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Синтаксические
	SynInfo            Code = 2000
	SynError           Code = 2001 // ERROR node in the syntax tree
	SynMissing         Code = 2002 // expected token or construct is absent
	SynUnexpectedTop   Code = 2101 // top level is not [rules_version] service
	SynInvalidVersion  Code = 2201
	SynUnsupportedVers Code = 2202

	// Семантические
	SemaInfo               Code = 3000
	SemaUnresolvedFunction Code = 3005

	// Ошибки I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	SynInfo:                "Syntax information",
	SynError:               "Syntax error",
	SynMissing:             "Missing syntax element",
	SynUnexpectedTop:       "Unexpected top-level construct",
	SynInvalidVersion:      "Invalid rules_version",
	SynUnsupportedVers:     "Unsupported rules_version",
	SemaInfo:               "Semantic information",
	SemaUnresolvedFunction: "No function definition found",
	IOLoadFileError:        "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
