/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// OSLookup reads variables from the process environment.
var OSLookup LookupFunc = os.LookupEnv

// ApplyEnvOverrides overlays environment variables on top of cfg. Variables are
// bound with the `env:"..."` struct tags; unset or empty variables leave the
// field untouched. Returns an error if a variable cannot be parsed into its field.
func ApplyEnvOverrides(cfg *EnvironmentConfig, lookup LookupFunc) error {
	if lookup == nil {
		lookup = OSLookup
	}
	return applyEnvToStruct(reflect.ValueOf(cfg).Elem(), lookup)
}

func applyEnvToStruct(v reflect.Value, lookup LookupFunc) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if field.Kind() == reflect.Struct {
			if err := applyEnvToStruct(field, lookup); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}
		envVal, found := lookup(envTag)
		if !found || envVal == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(strings.TrimSpace(envVal))
		case reflect.Bool:
			b, err := parseBool(envVal)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", envTag, err)
			}
			field.SetBool(b)
		default:
			return fmt.Errorf("unsupported field kind %s for %s", field.Kind(), envTag)
		}
	}
	return nil
}

// parseBool accepts the strconv.ParseBool forms plus 'yes' and 'no'.
func parseBool(s string) (bool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// EnvVars returns the record as a map from override variable name to value.
// Feeding the map back through ApplyEnvOverrides reproduces the record.
func EnvVars(cfg EnvironmentConfig) map[string]string {
	vars := map[string]string{}
	collectEnvVars(reflect.ValueOf(cfg), vars)
	return vars
}

func collectEnvVars(v reflect.Value, vars map[string]string) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.Struct {
			collectEnvVars(field, vars)
			continue
		}
		envTag := t.Field(i).Tag.Get("env")
		if envTag == "" {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			vars[envTag] = field.String()
		case reflect.Bool:
			vars[envTag] = strconv.FormatBool(field.Bool())
		}
	}
}

// EnvVarNames returns the names of all override variables, in field order.
func EnvVarNames() []string {
	names := []string{}
	var walk func(t reflect.Type)
	walk = func(t reflect.Type) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type)
				continue
			}
			if tag := f.Tag.Get("env"); tag != "" {
				names = append(names, tag)
			}
		}
	}
	walk(reflect.TypeOf(EnvironmentConfig{}))
	return names
}
