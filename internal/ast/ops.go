package ast

type UnaryOp uint8

const (
	UnaryInvalid UnaryOp = iota
	UnaryNot             // !
	UnaryNeg             // -
)

var unaryOps = map[string]UnaryOp{
	"!": UnaryNot,
	"-": UnaryNeg,
}

func (op UnaryOp) String() string {
	switch op {
	case UnaryNot:
		return "!"
	case UnaryNeg:
		return "-"
	default:
		return "?"
	}
}

type BinaryOp uint8

const (
	BinaryInvalid   BinaryOp = iota
	BinaryAdd                // +
	BinarySub                // -
	BinaryMul                // *
	BinaryDiv                // /
	BinaryMod                // %
	BinaryAnd                // &&
	BinaryOr                 // ||
	BinaryEq                 // ==
	BinaryNotEq              // !=
	BinaryLess               // <
	BinaryLessEq             // <=
	BinaryGreater            // >
	BinaryGreaterEq          // >=
	BinaryIn                 // in
	BinaryIs                 // is
)

var binaryOpText = [...]string{
	BinaryInvalid:   "?",
	BinaryAdd:       "+",
	BinarySub:       "-",
	BinaryMul:       "*",
	BinaryDiv:       "/",
	BinaryMod:       "%",
	BinaryAnd:       "&&",
	BinaryOr:        "||",
	BinaryEq:        "==",
	BinaryNotEq:     "!=",
	BinaryLess:      "<",
	BinaryLessEq:    "<=",
	BinaryGreater:   ">",
	BinaryGreaterEq: ">=",
	BinaryIn:        "in",
	BinaryIs:        "is",
}

var binaryOps = func() map[string]BinaryOp {
	m := make(map[string]BinaryOp, len(binaryOpText))
	for op, text := range binaryOpText {
		if op != int(BinaryInvalid) {
			m[text] = BinaryOp(op)
		}
	}
	return m
}()

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// LookupBinaryOp maps operator text to its BinaryOp.
func LookupBinaryOp(text string) (BinaryOp, bool) {
	op, ok := binaryOps[text]
	return op, ok
}
