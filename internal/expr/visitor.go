package expr

import "reflect"

// Visitor is the double-dispatch contract over every Expression variant.
// R is the result type: Expression for rewrites, bool for abortable
// searches, error for renderers.
type Visitor[R any] interface {
	VisitNumeric(*NumericLiteral) R
	VisitBoolean(*BooleanLiteral) R
	VisitString(*StringLiteral) R
	VisitDate(*DateLiteral) R
	VisitTime(*TimeLiteral) R
	VisitTimestamp(*TimestampLiteral) R
	VisitEnum(*EnumLiteral) R
	VisitEntity(*EntityLiteral) R
	VisitNull(*NullExpression) R
	VisitLiteral(*LiteralExpression) R

	VisitPath(*PathExpression) R
	VisitProperty(*PropertyExpression) R
	VisitArray(*ArrayExpression) R
	VisitTreat(*TreatExpression) R
	VisitListIndex(*ListIndexExpression) R
	VisitMapKey(*MapKeyExpression) R
	VisitMapValue(*MapValueExpression) R
	VisitMapEntry(*MapEntryExpression) R

	VisitArithmetic(*ArithmeticExpression) R
	VisitArithmeticFactor(*ArithmeticFactor) R
	VisitFunction(*FunctionExpression) R
	VisitAggregate(*AggregateExpression) R
	VisitTypeFunction(*TypeFunctionExpression) R
	VisitTrim(*TrimExpression) R
	VisitGeneralCase(*GeneralCaseExpression) R
	VisitSimpleCase(*SimpleCaseExpression) R
	VisitWhenClause(*WhenClauseExpression) R
	VisitParameter(*ParameterExpression) R
	VisitSubquery(*SubqueryExpression) R

	VisitCompound(*CompoundPredicate) R
	VisitEq(*EqPredicate) R
	VisitGt(*GtPredicate) R
	VisitGe(*GePredicate) R
	VisitLt(*LtPredicate) R
	VisitLe(*LePredicate) R
	VisitBetween(*BetweenPredicate) R
	VisitIn(*InPredicate) R
	VisitLike(*LikePredicate) R
	VisitIsNull(*IsNullPredicate) R
	VisitIsEmpty(*IsEmptyPredicate) R
	VisitMemberOf(*MemberOfPredicate) R
	VisitExists(*ExistsPredicate) R
}

// Accept dispatches e to the visitor method for its concrete type.
//
// A nil expression, or a typed nil pointer, panics with a
// *StructuralError: callers reaching here with a nil child hold a
// malformed tree.
func Accept[R any](e Expression, v Visitor[R]) R {
	if e == nil || isNilPointer(e) {
		panic(structuralf(ErrCodeNilNode, "cannot visit nil expression"))
	}

	switch n := e.(type) {

	case *NumericLiteral:
		return v.VisitNumeric(n)
	case *BooleanLiteral:
		return v.VisitBoolean(n)
	case *StringLiteral:
		return v.VisitString(n)
	case *DateLiteral:
		return v.VisitDate(n)
	case *TimeLiteral:
		return v.VisitTime(n)
	case *TimestampLiteral:
		return v.VisitTimestamp(n)
	case *EnumLiteral:
		return v.VisitEnum(n)
	case *EntityLiteral:
		return v.VisitEntity(n)
	case *NullExpression:
		return v.VisitNull(n)
	case *LiteralExpression:
		return v.VisitLiteral(n)

	case *PathExpression:
		return v.VisitPath(n)
	case *PropertyExpression:
		return v.VisitProperty(n)
	case *ArrayExpression:
		return v.VisitArray(n)
	case *TreatExpression:
		return v.VisitTreat(n)
	case *ListIndexExpression:
		return v.VisitListIndex(n)
	case *MapKeyExpression:
		return v.VisitMapKey(n)
	case *MapValueExpression:
		return v.VisitMapValue(n)
	case *MapEntryExpression:
		return v.VisitMapEntry(n)

	case *ArithmeticExpression:
		return v.VisitArithmetic(n)
	case *ArithmeticFactor:
		return v.VisitArithmeticFactor(n)
	case *FunctionExpression:
		return v.VisitFunction(n)
	case *AggregateExpression:
		return v.VisitAggregate(n)
	case *TypeFunctionExpression:
		return v.VisitTypeFunction(n)
	case *TrimExpression:
		return v.VisitTrim(n)
	case *GeneralCaseExpression:
		return v.VisitGeneralCase(n)
	case *SimpleCaseExpression:
		return v.VisitSimpleCase(n)
	case *WhenClauseExpression:
		return v.VisitWhenClause(n)
	case *ParameterExpression:
		return v.VisitParameter(n)
	case *SubqueryExpression:
		return v.VisitSubquery(n)

	case *CompoundPredicate:
		return v.VisitCompound(n)
	case *EqPredicate:
		return v.VisitEq(n)
	case *GtPredicate:
		return v.VisitGt(n)
	case *GePredicate:
		return v.VisitGe(n)
	case *LtPredicate:
		return v.VisitLt(n)
	case *LePredicate:
		return v.VisitLe(n)
	case *BetweenPredicate:
		return v.VisitBetween(n)
	case *InPredicate:
		return v.VisitIn(n)
	case *LikePredicate:
		return v.VisitLike(n)
	case *IsNullPredicate:
		return v.VisitIsNull(n)
	case *IsEmptyPredicate:
		return v.VisitIsEmpty(n)
	case *MemberOfPredicate:
		return v.VisitMemberOf(n)
	case *ExistsPredicate:
		return v.VisitExists(n)

	default:
		panic(structuralf(ErrCodeUnknownNode, "unknown expression type %T", e))
	}
}

func isNilPointer(e Expression) bool {
	rv := reflect.ValueOf(e)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
