package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Загрузка пакетов (go list)
	LoadInfo        Code = 1000
	LoadListError   Code = 1001
	LoadNoPackage   Code = 1002
	LoadModuleError Code = 1003

	// Синтаксис
	SynInfo       Code = 2000
	SynParseError Code = 2001

	// Типы
	TypeInfo          Code = 3000
	TypeError         Code = 3001
	TypeUnused        Code = 3002
	TypeMissingReturn Code = 3003
)

var codeDescription = map[Code]string{
	UnknownCode:       "Unknown error",
	LoadInfo:          "Package loading information",
	LoadListError:     "Package could not be listed",
	LoadNoPackage:     "File belongs to no package",
	LoadModuleError:   "Module resolution failed",
	SynInfo:           "Syntax information",
	SynParseError:     "Syntax error",
	TypeInfo:          "Type information",
	TypeError:         "Type error",
	TypeUnused:        "Declared or imported and not used",
	TypeMissingReturn: "Missing return",
}

// ID returns the stable short identifier, e.g. "TYP3001".
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LOD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TYP%04d", ic)
	}
	return "E0000"
}

func (c Code) String() string {
	return c.ID()
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}
