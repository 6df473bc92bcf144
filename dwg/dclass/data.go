package dclass

type (
	Class struct {
		Number       int16  `json:"number"`
		ProxyFlags   int16  `json:"proxy_flags"`
		AppName      string `json:"app_name"`
		CppClassName string `json:"cpp_class_name"`
		DXFName      string `json:"dxf_name"`
		WasZombie    bool   `json:"was_zombie"`
		IsEntity     bool   `json:"is_entity"`
	}
	Table struct {
		Classes []Class `json:"classes"`
	}
)

const (
	// ItemClassEntity marks a class whose instances are entities.
	ItemClassEntity = 0x1F2
	// FirstCustomType is the first object type code resolved through the
	// class table.
	FirstCustomType = 500
)

var (
	ClassesStart = []byte{
		0x8D, 0xA1, 0xC4, 0xB8, 0xC4, 0xA9, 0xF8, 0xC5,
		0xC0, 0xDC, 0xF4, 0x5F, 0xE7, 0xCF, 0xB6, 0x8A,
	}
	ClassesEnd = []byte{
		0x72, 0x5E, 0x3B, 0x47, 0x3B, 0x56, 0x07, 0x3A,
		0x3F, 0x23, 0x0B, 0xA0, 0x18, 0x30, 0x49, 0x75,
	}
)
