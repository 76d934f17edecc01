package conversions

import "github.com/gb714us/csharplang/internal/config"

// implicitNumeric lists, for each numeric type, the types it converts to
// implicitly without loss of magnitude.
var implicitNumeric = map[string][]string{
	config.SByteTypeName:  {config.ShortTypeName, config.IntTypeName, config.LongTypeName, config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName},
	config.ByteTypeName:   {config.ShortTypeName, config.UShortTypeName, config.IntTypeName, config.UIntTypeName, config.LongTypeName, config.ULongTypeName, config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName},
	config.ShortTypeName:  {config.IntTypeName, config.LongTypeName, config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName},
	config.UShortTypeName: {config.IntTypeName, config.UIntTypeName, config.LongTypeName, config.ULongTypeName, config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName},
	config.IntTypeName:    {config.LongTypeName, config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName},
	config.UIntTypeName:   {config.LongTypeName, config.ULongTypeName, config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName},
	config.LongTypeName:   {config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName},
	config.ULongTypeName:  {config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName},
	config.CharTypeName:   {config.UShortTypeName, config.IntTypeName, config.UIntTypeName, config.LongTypeName, config.ULongTypeName, config.FloatTypeName, config.DoubleTypeName, config.DecimalTypeName},
	config.FloatTypeName:  {config.DoubleTypeName},
}

// integralRange is the value range of an integral type, used for implicit
// constant conversions of integer literals.
type integralRange struct {
	min int64
	max uint64
}

var integralRanges = map[string]integralRange{
	config.SByteTypeName:  {min: -128, max: 127},
	config.ByteTypeName:   {min: 0, max: 255},
	config.ShortTypeName:  {min: -32768, max: 32767},
	config.UShortTypeName: {min: 0, max: 65535},
	config.IntTypeName:    {min: -2147483648, max: 2147483647},
	config.UIntTypeName:   {min: 0, max: 4294967295},
	config.LongTypeName:   {min: -9223372036854775808, max: 9223372036854775807},
	config.ULongTypeName:  {min: 0, max: 18446744073709551615},
}

func isImplicitNumeric(from, to string) bool {
	for _, t := range implicitNumeric[from] {
		if t == to {
			return true
		}
	}
	return false
}

func constantFits(value int64, target string) bool {
	r, ok := integralRanges[target]
	if !ok {
		return false
	}
	if value < r.min {
		return false
	}
	return value < 0 || uint64(value) <= r.max
}
