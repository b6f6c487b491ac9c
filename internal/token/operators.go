package token

// OperatorID is stored in Token.Value for Operator tokens.
type OperatorID int

const (
	NoOperator OperatorID = iota
	OpPlus                // +
	OpMinus               // -
	OpStar                // *
	OpSlash               // /
	OpPercent             // %
	OpAssign              // =
	OpEq                  // ==
	OpNeq                 // !=
	OpLt                  // <
	OpGt                  // >
	OpLe                  // <=
	OpGe                  // >=
	OpAndAnd              // &&
	OpOrOr                // ||
	OpNot                 // !
	OpAmp                 // &
	OpPipe                // |
	OpCaret               // ^
	OpTilde               // ~
	OpShl                 // <<
	OpShr                 // >>
	OpPlusAssign          // +=
	OpMinusAssign         // -=
	OpStarAssign          // *=
	OpSlashAssign         // /=
	OpPercentAssign       // %=
	OpAmpAssign           // &=
	OpPipeAssign          // |=
	OpCaretAssign         // ^=
	OpShlAssign           // <<=
	OpShrAssign           // >>=
	OpPlusPlus            // ++
	OpMinusMinus          // --
	OpQuestion            // ?
	OpDot                 // .
	OpAt                  // @
	OpHash                // #
	operatorCount
)

var operatorSpellings = [...]string{
	NoOperator:      "",
	OpPlus:          "+",
	OpMinus:         "-",
	OpStar:          "*",
	OpSlash:         "/",
	OpPercent:       "%",
	OpAssign:        "=",
	OpEq:            "==",
	OpNeq:           "!=",
	OpLt:            "<",
	OpGt:            ">",
	OpLe:            "<=",
	OpGe:            ">=",
	OpAndAnd:        "&&",
	OpOrOr:          "||",
	OpNot:           "!",
	OpAmp:           "&",
	OpPipe:          "|",
	OpCaret:         "^",
	OpTilde:         "~",
	OpShl:           "<<",
	OpShr:           ">>",
	OpPlusAssign:    "+=",
	OpMinusAssign:   "-=",
	OpStarAssign:    "*=",
	OpSlashAssign:   "/=",
	OpPercentAssign: "%=",
	OpAmpAssign:     "&=",
	OpPipeAssign:    "|=",
	OpCaretAssign:   "^=",
	OpShlAssign:     "<<=",
	OpShrAssign:     ">>=",
	OpPlusPlus:      "++",
	OpMinusMinus:    "--",
	OpQuestion:      "?",
	OpDot:           ".",
	OpAt:            "@",
	OpHash:          "#",
}

var operatorBySpelling = func() map[string]OperatorID {
	m := make(map[string]OperatorID, len(operatorSpellings))
	for i, s := range operatorSpellings {
		if s != "" {
			m[s] = OperatorID(i)
		}
	}
	return m
}()

func (o OperatorID) String() string {
	if o <= NoOperator || o >= operatorCount {
		return "<operator?>"
	}
	return operatorSpellings[o]
}

// LookupOperator returns the operator spelled exactly as s.
func LookupOperator(s string) (OperatorID, bool) {
	op, ok := operatorBySpelling[s]
	return op, ok
}
