package diag

// Code is a stable diagnostic identifier. The leading letter names the
// stage that reports it: L lexer, P parser, A declarations and analysis,
// R runtime.
type Code string

// Lexical codes.
const (
	InvalidCharacter   Code = "L0001"
	UnterminatedString Code = "L0002"
)

// Syntax codes.
const (
	UnexpectedToken         Code = "P1000"
	ExpectedExpression      Code = "P1001"
	ExpectedType            Code = "P1002"
	ExpectedPattern         Code = "P1003"
	InvalidAssignmentTarget Code = "P1004"
	UnterminatedInterp      Code = "P1005"
	InvalidRangeBound       Code = "P1006"
)

// Declaration table codes.
const (
	MissingInterfaceMethod Code = "A2004"
	DuplicateDefinition    Code = "A2006"
	MethodConflict         Code = "A2011"
	UnknownInterface       Code = "A2012"
)

// Static analysis codes.
const (
	IndexOutOfBounds    Code = "A2800"
	LiteralDivideByZero Code = "A2801"
	UndefinedReference  Code = "A2803"
	UndefinedMethod     Code = "A2804"
	UnusedVariable      Code = "A2810"
	UnreachableCode     Code = "A2811"
)

// Runtime codes.
const (
	RuntimePanic         Code = "R4000"
	RuntimeTaskError     Code = "R4001"
	RuntimeTypeError     Code = "R4003"
	RuntimeValueError    Code = "R4004"
	RuntimeDivideByZero  Code = "R4005"
	RuntimeIndexError    Code = "R4006"
	RuntimeNonExhaustive Code = "R4007"
	RuntimeUndefined     Code = "R4008"
	RuntimeDepthExceeded Code = "R4009"
)

var codeTitles = map[Code]string{
	InvalidCharacter:        "invalid character",
	UnterminatedString:      "unterminated string",
	UnexpectedToken:         "unexpected token",
	ExpectedExpression:      "expected expression",
	ExpectedType:            "expected type",
	ExpectedPattern:         "expected pattern",
	InvalidAssignmentTarget: "invalid assignment target",
	UnterminatedInterp:      "unterminated interpolation",
	InvalidRangeBound:       "invalid range bound",
	MissingInterfaceMethod:  "missing interface method",
	DuplicateDefinition:     "duplicate definition",
	MethodConflict:          "method conflict",
	UnknownInterface:        "unknown interface",
	IndexOutOfBounds:        "index out of bounds",
	LiteralDivideByZero:     "literal division by zero",
	UndefinedReference:      "undefined reference",
	UndefinedMethod:         "undefined module method",
	UnusedVariable:          "unused variable",
	UnreachableCode:         "unreachable code",
	RuntimePanic:            "uncaught raise",
	RuntimeTaskError:        "task failed",
	RuntimeTypeError:        "type error",
	RuntimeValueError:       "value error",
	RuntimeDivideByZero:     "division by zero",
	RuntimeIndexError:       "index out of bounds",
	RuntimeNonExhaustive:    "non-exhaustive match",
	RuntimeUndefined:        "undefined name",
	RuntimeDepthExceeded:    "call depth exceeded",
}

// Title returns a short human description of c.
func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}

	return "unknown"
}

// Stage returns the pipeline stage letter of c.
func (c Code) Stage() byte {
	if c == "" {
		return 0
	}

	return c[0]
}
