package ast

var kindNames = [...]string{
	Invalid:                  "Invalid",
	Program:                  "program",
	DeclarationList:          "declarationList",
	ParameterList:            "parameterList",
	Parameter:                "parameter",
	PackageTypeDeclaration:   "packageTypeDeclaration",
	Instantiation:            "instantiation",
	ParserDeclaration:        "parserDeclaration",
	ParserTypeDeclaration:    "parserTypeDeclaration",
	ParserLocalElements:      "parserLocalElements",
	ParserState:              "parserState",
	ControlDeclaration:       "controlDeclaration",
	ControlTypeDeclaration:   "controlTypeDeclaration",
	ControlLocalDeclarations: "controlLocalDeclarations",
	ExternDeclaration:        "externDeclaration",
	ExternTypeDeclaration:    "externTypeDeclaration",
	FunctionPrototype:        "functionPrototype",
	FunctionDeclaration:      "functionDeclaration",
	ActionDeclaration:        "actionDeclaration",
	TableDeclaration:         "tableDeclaration",
	TablePropertyList:        "tablePropertyList",
	VariableDeclaration:      "variableDeclaration",
	TypedefDeclaration:       "typedefDeclaration",
	HeaderTypeDeclaration:    "headerTypeDeclaration",
	HeaderUnionDeclaration:   "headerUnionDeclaration",
	StructTypeDeclaration:    "structTypeDeclaration",
	StructFieldList:          "structFieldList",
	StructField:              "structField",
	EnumDeclaration:          "enumDeclaration",
	ErrorDeclaration:         "errorDeclaration",
	MatchKindDeclaration:     "matchKindDeclaration",
	IdentifierList:           "identifierList",
	TypeRef:                  "typeRef",
	BaseType:                 "baseType",
	SpecializedType:          "specializedType",
	StackType:                "headerStackType",
	TupleType:                "tupleType",
	BlockStatement:           "blockStatement",
	AssignmentStatement:      "assignmentStatement",
	MethodCallStatement:      "methodCallStatement",
	ReturnStatement:          "returnStatement",
	ExitStatement:            "exitStatement",
	ConditionalStatement:     "conditionalStatement",
	DirectApplication:        "directApplication",
	SwitchStatement:          "switchStatement",
	SwitchCase:               "switchCase",
	ParserBlockStatement:     "parserBlockStatement",
	TransitionStatement:      "transitionStatement",
	SelectExpression:         "selectExpression",
	SelectCase:               "selectCase",
	KeysetExpression:         "keysetExpression",
	TupleKeysetExpression:    "tupleKeysetExpression",
	Name:                     "name",
	TypeName:                 "typeName",
	LValueExpression:         "lvalueExpression",
	BinaryExpression:         "binaryExpression",
	UnaryExpression:          "unaryExpression",
	MemberSelector:           "memberSelector",
	ArraySubscript:           "arraySubscript",
	FunctionCall:             "functionCall",
	ParenExpression:          "parenExpression",
	Argument:                 "argument",
	ArgumentList:             "argumentList",
	ExpressionList:           "expressionList",
	IntLiteral:               "intLiteral",
	BoolLiteral:              "boolLiteral",
	StringLiteral:            "stringLiteral",
	DontCare:                 "dontCare",
	DefaultExpression:        "defaultExpression",
	BadNode:                  "badNode",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
