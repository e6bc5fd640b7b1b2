package model

import "strings"

// illegalGroupChars cannot appear in a chart group name since the name becomes
// the chart file name.
const illegalGroupChars = `|*?\:<>/$"`

// reservedGroupNames are Windows device names, compared case-insensitively.
var reservedGroupNames = map[string]bool{
	"con": true, "nul": true, "aux": true, "prn": true,
	"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
	"com6": true, "com7": true, "com8": true, "com9": true,
	"lpt0": true, "lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true,
	"lpt5": true, "lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// ValidGroupName reports whether name can be used as a chart group, i.e. as a
// portable file name.
func ValidGroupName(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	if reservedGroupNames[strings.ToLower(name)] {
		return false
	}
	return !strings.ContainsAny(name, illegalGroupChars)
}
