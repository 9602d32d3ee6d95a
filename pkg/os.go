// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package pkg

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// LocalEnvConfig marks that a local .env file was loaded into the process
// environment.
type LocalEnvConfig struct {
	Initialized bool
}

var (
	localEnvConfig     *LocalEnvConfig
	localEnvConfigOnce sync.Once
)

// InitLocalEnvConfig loads a .env file into the process environment when
// ENV_NAME is "local". Only the first call does any work; it returns nil when
// the environment is not local.
func InitLocalEnvConfig() *LocalEnvConfig {
	localEnvConfigOnce.Do(func() {
		if os.Getenv("ENV_NAME") != "local" {
			return
		}

		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: no .env file found for local environment")
		}

		localEnvConfig = &LocalEnvConfig{Initialized: true}
	})

	return localEnvConfig
}

// GetEnvOrDefault returns the raw value of the environment variable named by
// key, or defaultValue when the variable is unset or blank.
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}

	return value
}

// GetenvBoolOrDefault returns the environment variable named by key parsed as
// a bool, or defaultValue when the variable is unset, blank or not a bool.
func GetenvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// GetenvIntOrDefault returns the environment variable named by key parsed as
// an int64, or defaultValue when the variable is unset, blank or not an
// integer in range.
func GetenvIntOrDefault(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return parsed
}

// SetConfigFromEnvVars fills every settable field of the struct pointed to by
// s that carries an env tag from the corresponding environment variable.
// Untagged and unexported fields are left untouched.
func SetConfigFromEnvVars(s any) error {
	rv := reflect.ValueOf(s)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errors.New("a config struct must be an pointer to be set")
	}

	elem := rv.Elem()
	typ := elem.Type()

	for i := 0; i < elem.NumField(); i++ {
		fv := elem.Field(i)

		tag, ok := typ.Field(i).Tag.Lookup("env")
		if !ok || tag == "" || !fv.CanSet() {
			continue
		}

		switch fv.Kind() {
		case reflect.Bool:
			fv.SetBool(GetenvBoolOrDefault(tag, false))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fv.SetInt(GetenvIntOrDefault(tag, 0))
		default:
			fv.SetString(GetEnvOrDefault(tag, ""))
		}
	}

	return nil
}

// EnsureConfigFromEnvVars is SetConfigFromEnvVars returning the same pointer,
// convenient for one-line initializers.
func EnsureConfigFromEnvVars(s any) (any, error) {
	if err := SetConfigFromEnvVars(s); err != nil {
		return nil, err
	}

	return s, nil
}
