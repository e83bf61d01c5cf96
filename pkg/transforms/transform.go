package transforms

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog/log"
)

type TransformDefinition struct {
	Type  string                 `yaml:"Type"`
	Match map[string]string      `yaml:"Match"`
	Data  map[string]interface{} `yaml:"Data"`
}

func (t *TransformDefinition) Transform(inputTypeOf reflect.Type, inputValue reflect.Value) {
	if !inputValue.IsValid() || inputValue.Kind() != reflect.Struct {
		return
	}

	if t.Type != "" && t.Type != inputTypeOf.String() {
		return
	}

	for key, value := range t.Match {
		field := inputValue.FieldByName(key)
		if !field.IsValid() || field.Kind() != reflect.String || field.String() != value {
			return
		}
	}

	// Matched so go over and update the values
	for key, value := range t.Data {
		field := inputValue.FieldByName(key)
		if !field.IsValid() || !field.CanSet() {
			log.Warn().Str("type", t.Type).Str("field", key).Msg("Transform field does not exist")
			continue
		}

		newValue := reflect.ValueOf(value)
		if !newValue.IsValid() {
			continue
		}

		if !convertible(newValue, field) {
			log.Warn().
				Str("type", t.Type).
				Str("field", key).
				Str("value", fmt.Sprint(value)).
				Msg("Transform value has the wrong type")
			continue
		}

		field.Set(newValue.Convert(field.Type()))
	}
}

// Transform applies every loaded definition to input, a pointer to a struct
// or a slice of them.
func Transform(input interface{}) {
	inputTypeOf := reflect.TypeOf(input)
	inputValueOf := reflect.ValueOf(input)

	if inputTypeOf == nil {
		return
	}

	if inputTypeOf.Kind() == reflect.Slice {
		for i := 0; i < inputValueOf.Len(); i++ {
			indexInput := inputValueOf.Index(i).Interface()
			transformValue(reflect.TypeOf(indexInput), reflect.ValueOf(indexInput))
		}
	} else {
		transformValue(inputTypeOf, inputValueOf)
	}
}

func transformValue(inputTypeOf reflect.Type, inputValueOf reflect.Value) {
	if inputTypeOf == nil || inputTypeOf.Kind() != reflect.Pointer || inputValueOf.IsNil() {
		return
	}

	inputValue := inputValueOf.Elem()

	for _, transformDef := range transforms {
		transformDef.Transform(inputTypeOf.Elem(), inputValue)
	}
}

// convertible refuses numbers for string fields, which reflect would turn
// into runes.
func convertible(value reflect.Value, field reflect.Value) bool {
	if field.Kind() == reflect.String {
		return value.Kind() == reflect.String
	}

	return value.Type().ConvertibleTo(field.Type())
}
