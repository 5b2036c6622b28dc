// FILE: override.go
package evtlog

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("evtlog: multiple configuration errors:")
	for i, err := range errs {
		errMsg := strings.TrimPrefix(err.Error(), "evtlog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single string override to cfg, parsing by the field's type.
// "facility" also accepts a numeric syslog code.
func applyConfigField(cfg *Config, key, value string) error {
	field, ok := tomlFields(cfg)[key]
	if !ok {
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	if key == "facility" {
		if code, err := strconv.Atoi(value); err == nil {
			value = Facility(code).String()
		}
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int64:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
		}
		field.SetInt(intVal)

	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
		}
		field.SetBool(boolVal)

	default:
		return fmtErrorf("unsupported field type for %s: %v", key, field.Kind())
	}

	return nil
}
