package typesystem

import "github.com/gb714us/csharplang/internal/config"

// CarrierCon is the generic carrier type constructor.
var CarrierCon = TCon{Name: config.CarrierTypeName}

// IsCarrier reports whether t is a well-formed carrier instantiation: one to
// seven element arguments, or seven plus a carrier in the Rest slot.
func IsCarrier(t Type) bool {
	app, ok := t.(TApp)
	if !ok || ConstructorName(app.Constructor) != config.CarrierTypeName {
		return false
	}
	n := len(app.Args)
	if n < 1 || n > config.CarrierMaxTypeArgs {
		return false
	}
	if n == config.CarrierMaxTypeArgs {
		return IsCarrier(app.Args[config.CarrierArity])
	}
	return true
}

// ToCarrier spells a tuple type as its carrier instantiation. Element names
// are erased: the carrier has no place to store them.
func ToCarrier(t TTuple) TApp {
	args := make([]Type, 0, len(t.Elements)+1)
	for _, el := range t.Elements {
		args = append(args, Erase(el))
	}
	if t.Rest != nil {
		args = append(args, ToCarrier(*t.Rest))
	}
	return TApp{Constructor: CarrierCon, Args: args}
}

// FromCarrier reads a carrier instantiation back as an unnamed tuple type.
func FromCarrier(t TApp) (TTuple, bool) {
	if !IsCarrier(t) {
		return TTuple{}, false
	}
	if len(t.Args) < config.CarrierMaxTypeArgs {
		return TTuple{Elements: append([]Type(nil), t.Args...)}, true
	}
	rest, _ := FromCarrier(t.Args[config.CarrierArity].(TApp))
	return TTuple{
		Elements: append([]Type(nil), t.Args[:config.CarrierArity]...),
		Rest:     &rest,
	}, true
}

// AsTuple returns the tuple view of a tuple type or a carrier instantiation.
func AsTuple(t Type) (TTuple, bool) {
	switch tt := t.(type) {
	case TTuple:
		return tt, true
	case TApp:
		return FromCarrier(tt)
	}
	return TTuple{}, false
}

// Erase rewrites every tuple inside t to carrier form, dropping element names.
func Erase(t Type) Type {
	switch tt := t.(type) {
	case TTuple:
		return ToCarrier(tt)
	case TApp:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = Erase(a)
		}
		return TApp{Constructor: tt.Constructor, Args: args}
	default:
		return t
	}
}

// Identical reports whether two types denote the same type. Tuple element
// names are ignored and a tuple is identical to its carrier spelling.
func Identical(a, b Type) bool {
	return equalErased(Erase(a), Erase(b))
}

func equalErased(a, b Type) bool {
	switch ta := a.(type) {
	case TCon:
		tb, ok := b.(TCon)
		return ok && ta.Name == tb.Name
	case TVar:
		tb, ok := b.(TVar)
		return ok && ta.Name == tb.Name
	case TApp:
		tb, ok := b.(TApp)
		if !ok || len(ta.Args) != len(tb.Args) || !equalErased(ta.Constructor, tb.Constructor) {
			return false
		}
		for i := range ta.Args {
			if !equalErased(ta.Args[i], tb.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
