package catalog

import (
	"reflect"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrInvalid marks input records rejected before any backend call.
var ErrInvalid = errors.New("invalid records")

// rules checks the `validate` tags of decoded records. decodeObject runs it
// for write and read records alike, so a value the tools refuse on input is
// also refused when the backend returns it.
var rules = newRules()

func newRules() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(v reflect.Value) any {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// checkRules adds every tag violation of rec to serr, e.g. `price: gte=0`.
func checkRules(rec any, serr *SchemaError) {
	err := rules.Struct(rec)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		serr.add("", err.Error())
		return
	}
	for _, fe := range verrs {
		reason := fe.Tag()
		if p := fe.Param(); p != "" {
			reason += "=" + p
		}
		serr.add(fe.Field(), reason)
	}
}
