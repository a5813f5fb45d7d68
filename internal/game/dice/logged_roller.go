package dice

import "go.uber.org/zap"

// Roller rolls against a Source and records every roll at debug level, so a disputed
// result can be replayed from the log.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the audit line along with the rolled and kept dice.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) (RollResult, error) {
	result, err := Roll(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	if ce := r.logger.Check(zap.DebugLevel, "dice roll"); ce != nil {
		fields := make([]zap.Field, 0, 6)
		// String requires the expression text; hand-built expressions may omit it.
		if result.Expression != "" {
			fields = append(fields, zap.Stringer("roll", result))
		}
		fields = append(fields,
			zap.String("expression", result.Expression),
			zap.Ints("dice", result.Dice()),
			zap.Ints("kept", keptDice(result)),
			zap.Int("modifier", result.Modifier),
			zap.Int("total", result.Total()),
		)
		ce.Write(fields...)
	}
	return result, nil
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or an *InvalidFormulaError.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		r.logger.Debug("dice expression rejected", zap.String("expression", expr), zap.Error(err))
		return RollResult{}, err
	}
	return r.Roll(e)
}

// keptDice returns the first dice term's kept values, matching what Dice reports.
func keptDice(result RollResult) []int {
	if len(result.Terms) == 0 {
		return nil
	}
	return result.Terms[0].Kept
}
