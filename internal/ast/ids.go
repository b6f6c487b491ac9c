package ast

type (
	NamespaceID uint32
	StructID    uint32
	ClassID     uint32
	FunctionID  uint32
	FieldID     uint32
	ParamID     uint32
	TypeID      uint32
)

const (
	NoNamespaceID NamespaceID = 0
	NoStructID    StructID    = 0
	NoClassID     ClassID     = 0
	NoFunctionID  FunctionID  = 0
	NoFieldID     FieldID     = 0
	NoParamID     ParamID     = 0
	NoTypeID      TypeID      = 0
)

func (id NamespaceID) IsValid() bool { return id != NoNamespaceID }
func (id StructID) IsValid() bool    { return id != NoStructID }
func (id ClassID) IsValid() bool     { return id != NoClassID }
func (id FunctionID) IsValid() bool  { return id != NoFunctionID }
func (id FieldID) IsValid() bool     { return id != NoFieldID }
func (id ParamID) IsValid() bool     { return id != NoParamID }
func (id TypeID) IsValid() bool      { return id != NoTypeID }
