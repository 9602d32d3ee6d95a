// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/LerianStudio/datafeed/pkg"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	cn "github.com/LerianStudio/datafeed/pkg/constant"

	en2 "github.com/go-playground/validator/v10/translations/en"
)

// DecodeHandlerFunc is a handler which works with withBody decorator.
// It receives a struct which was decoded by withBody decorator before.
// Ex: json -> withBody -> DecodeHandlerFunc.
type DecodeHandlerFunc func(p any, c *fiber.Ctx) error

// PayloadContextValue is a wrapper type used to keep Context.Locals safe.
type PayloadContextValue string

// ConstructorFunc representing a constructor of any type.
type ConstructorFunc func() any

// decoderHandler decodes payload coming from requests.
type decoderHandler struct {
	handler      DecodeHandlerFunc
	constructor  ConstructorFunc
	structSource any
}

func newOfType(s any) any {
	t := reflect.TypeOf(s)
	v := reflect.New(t.Elem())

	return v.Interface()
}

// newPayload produces a fresh payload value for one request, either through
// the configured constructor or by reflecting a new instance of the source
// struct.
func (d *decoderHandler) newPayload() any {
	if d.constructor != nil {
		return d.constructor()
	}

	return newOfType(d.structSource)
}

func WithBody(s any, h DecodeHandlerFunc) fiber.Handler {
	d := &decoderHandler{
		handler:      h,
		structSource: s,
	}

	return d.FiberHandlerFunc
}

// FiberHandlerFunc decodes the request body into a fresh payload struct and
// walks it through the validation pipeline: body presence, JSON syntax,
// field-level type compatibility, unknown-field detection and struct tag
// validation. Only a payload that clears every stage reaches the wrapped
// handler.
func (d *decoderHandler) FiberHandlerFunc(c *fiber.Ctx) error {
	s := d.newPayload()

	bodyBytes := c.Body()

	// An absent body, a whitespace-only body and the JSON literal null all
	// decode to nothing, so they fail as missing required fields.
	trimmed := strings.TrimSpace(string(bodyBytes))
	if trimmed == "" || trimmed == "null" {
		return BadRequest(c, pkg.ValidateBusinessError(cn.ErrMissingRequiredFields, ""))
	}

	if err := json.Unmarshal(bodyBytes, s); err != nil {
		if !strings.Contains(err.Error(), "cannot unmarshal") {
			return err
		}

		return BadRequest(c, unmarshalTypeError(err))
	}

	if err := validateTypeMismatches(bodyBytes, s); err != nil {
		return BadRequest(c, err)
	}

	var originalMap map[string]any
	if err := json.Unmarshal(bodyBytes, &originalMap); err != nil {
		return err
	}

	diffFields, err := unknownFieldDiff(originalMap, s)
	if err != nil {
		return err
	}

	if len(diffFields) > 0 {
		return BadRequest(c, pkg.ValidateBadRequestFieldsError(pkg.FieldValidations{}, pkg.FieldValidations{}, "", diffFields))
	}

	if err := ValidateStruct(s); err != nil {
		return BadRequest(c, err)
	}

	c.Locals("fields", diffFields)

	parseMetadata(s, originalMap)

	return d.handler(s, c)
}

// unmarshalTypeError builds the known-fields validation error for a JSON
// type mismatch reported by encoding/json, attributing it to the offending
// field when the error message names one.
func unmarshalTypeError(err error) error {
	knownFields := make(map[string]string)

	if name := extractFieldNameFromUnmarshalError(err.Error()); name != "" {
		knownFields[name] = "Invalid type for this field"
	}

	return pkg.ValidateBadRequestFieldsError(pkg.FieldValidations{}, knownFields, "", make(map[string]any))
}

// unknownFieldDiff re-marshals the decoded payload and diffs the result
// against the raw body map, surfacing every field the payload struct does
// not declare.
func unknownFieldDiff(originalMap map[string]any, s any) (map[string]any, error) {
	marshaled, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	var marshaledMap map[string]any
	if err := json.Unmarshal(marshaled, &marshaledMap); err != nil {
		return nil, err
	}

	return findUnknownFields(originalMap, marshaledMap), nil
}

// findUnknownFields finds fields that are present in the original map but not in the marshaled map.
func findUnknownFields(original, marshaled map[string]any) map[string]any {
	diffFields := make(map[string]any)

	numKinds := pkg.GetMapNumKinds()

	for key, value := range original {
		// Zero numbers are indistinguishable from omitted fields after a
		// round trip through struct tags with omitempty.
		if numKinds[reflect.ValueOf(value).Kind()] && value == 0.0 {
			continue
		}

		marshaledValue, ok := marshaled[key]
		if !ok {
			diffFields[key] = value
			continue
		}

		if diff, changed := diffValue(value, marshaledValue); changed {
			diffFields[key] = diff
		}
	}

	return diffFields
}

// diffValue compares one decoded body value against its re-marshaled
// counterpart. Containers recurse and report only the nested difference;
// everything else reports the original value on inequality.
func diffValue(original, marshaled any) (any, bool) {
	switch originalValue := original.(type) {
	case map[string]any:
		if marshaledMap, ok := marshaled.(map[string]any); ok {
			if nested := findUnknownFields(originalValue, marshaledMap); len(nested) > 0 {
				return nested, true
			}

			return nil, false
		}
	case []any:
		if marshaledSlice, ok := marshaled.([]any); ok {
			if nested := compareSlices(originalValue, marshaledSlice); len(nested) > 0 {
				return nested, true
			}

			return nil, false
		}
	}

	if !reflect.DeepEqual(original, marshaled) {
		return original, true
	}

	return nil, false
}

// compareSlices compares two slices element by element and returns the
// differing entries, recursing into object elements.
func compareSlices(original, marshaled []any) []any {
	var diff []any

	for i, item := range original {
		if i >= len(marshaled) {
			diff = append(diff, item)
			continue
		}

		if originalMap, ok := item.(map[string]any); ok {
			if marshaledMap, ok := marshaled[i].(map[string]any); ok {
				if nested := findUnknownFields(originalMap, marshaledMap); len(nested) > 0 {
					diff = append(diff, nested)
				}
			}

			continue
		}

		if !reflect.DeepEqual(item, marshaled[i]) {
			diff = append(diff, item)
		}
	}

	// Entries past the original's length were introduced by the decoder.
	for i := len(original); i < len(marshaled); i++ {
		diff = append(diff, marshaled[i])
	}

	return diff
}

// ValidateStruct validates a struct against defined validation rules, using the validator package.
func ValidateStruct(s any) error {
	v, trans := newValidator()

	k := reflect.ValueOf(s).Kind()
	if k == reflect.Ptr {
		k = reflect.ValueOf(s).Elem().Kind()
	}

	if k != reflect.Struct {
		return nil
	}

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	// Tag-specific business errors take precedence over the generic
	// known-fields response.
	for _, fieldError := range errs {
		switch fieldError.Tag() {
		case "keymax":
			return pkg.ValidateBusinessError(cn.ErrMetadataKeyLengthExceeded, "", fieldError.Translate(trans), fieldError.Param())
		case "valuemax":
			return pkg.ValidateBusinessError(cn.ErrMetadataValueLengthExceeded, "", fieldError.Translate(trans), fieldError.Param())
		case "nonested":
			return pkg.ValidateBusinessError(cn.ErrInvalidMetadataNesting, "", fieldError.Translate(trans))
		case "sourceurl":
			return pkg.ValidateBusinessError(cn.ErrInvalidSourceURL, "", fieldError.Translate(trans))
		}
	}

	knownErr := malformedRequestErr(errs, trans)

	return &knownErr
}

func fields(errs validator.ValidationErrors, trans ut.Translator) pkg.FieldValidations {
	if len(errs) == 0 {
		return nil
	}

	out := make(pkg.FieldValidations, len(errs))
	for _, e := range errs {
		out[e.Field()] = e.Translate(trans)
	}

	return out
}

func fieldsRequired(all pkg.FieldValidations) pkg.FieldValidations {
	required := make(pkg.FieldValidations)

	for field, message := range all {
		if strings.Contains(message, "required") {
			required[field] = message
		}
	}

	return required
}

func malformedRequestErr(err validator.ValidationErrors, trans ut.Translator) pkg.ValidationKnownFieldsError {
	invalidFieldsMap := fields(err, trans)

	requiredFields := fieldsRequired(invalidFieldsMap)

	var vErr pkg.ValidationKnownFieldsError

	_ = errors.As(pkg.ValidateBadRequestFieldsError(requiredFields, invalidFieldsMap, "", make(map[string]any)), &vErr)

	return vErr
}

// translationSpec binds a validator tag to its translated message template.
// Templates with a parameter slot additionally receive the tag's param.
type translationSpec struct {
	tag       string
	template  string
	withParam bool
}

var translationSpecs = []translationSpec{
	{tag: "required", template: "{0} is a required field"},
	{tag: "gte", template: "{0} must be {1} or greater", withParam: true},
	{tag: "eq", template: "{0} is not equal to {1}", withParam: true},
	{tag: "keymax", template: "{0}"},
	{tag: "valuemax", template: "{0}"},
	{tag: "nonested", template: "{0}"},
	{tag: "sourceurl", template: "{0} must be an absolute http or https URL"},
}

//nolint:ireturn
func newValidator() (*validator.Validate, ut.Translator) {
	locale := en.New()
	uni := ut.New(locale, locale)

	trans, _ := uni.GetTranslator("en")

	v := validator.New()

	if err := en2.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	customValidations := map[string]validator.Func{
		"keymax":    validateMetadataKeyMaxLength,
		"nonested":  validateMetadataNestedValues,
		"valuemax":  validateMetadataValueMaxLength,
		"sourceurl": validateSourceURLField,
	}

	for tag, fn := range customValidations {
		_ = v.RegisterValidation(tag, fn)
	}

	for _, spec := range translationSpecs {
		spec := spec

		_ = v.RegisterTranslation(spec.tag, trans, func(u ut.Translator) error {
			return u.Add(spec.tag, spec.template, true)
		}, func(u ut.Translator, fe validator.FieldError) string {
			args := []string{formatErrorFieldName(fe.Namespace())}
			if spec.withParam {
				args = append(args, fe.Param())
			}

			t, _ := u.T(spec.tag, args...)

			return t
		})
	}

	return v, trans
}

// validateMetadataNestedValues checks if there are nested metadata structures
func validateMetadataNestedValues(fl validator.FieldLevel) bool {
	return fl.Field().Kind() != reflect.Map
}

// validateMetadataKeyMaxLength checks if metadata key (always a string) length is allowed
func validateMetadataKeyMaxLength(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= tagLimit(fl.Param(), 100)
}

// validateMetadataValueMaxLength checks metadata value max length
func validateMetadataValueMaxLength(fl validator.FieldLevel) bool {
	var value string

	switch fl.Field().Kind() {
	case reflect.Int:
		value = strconv.Itoa(int(fl.Field().Int()))
	case reflect.Float64:
		value = strconv.FormatFloat(fl.Field().Float(), 'f', -1, 64)
	case reflect.String:
		value = fl.Field().String()
	case reflect.Bool:
		value = strconv.FormatBool(fl.Field().Bool())
	default:
		return false
	}

	return len(value) <= tagLimit(fl.Param(), 2000)
}

// tagLimit parses a numeric tag parameter, falling back to def when the tag
// carries no parameter or a malformed one.
func tagLimit(param string, def int) int {
	if param == "" {
		return def
	}

	limit, err := strconv.Atoi(param)
	if err != nil {
		return def
	}

	return limit
}

// validateSourceURLField checks that a string field holds an absolute http or
// https URL, the only schemes accepted for feed sources.
func validateSourceURLField(fl validator.FieldLevel) bool {
	return pkg.ValidateSourceURL(fl.Field().String())
}

var errorFieldNameRe = regexp.MustCompile(`\.(.+)$`)

// formatErrorFieldName strips the namespace prefix from a validator field
// path, leaving the part error messages should show.
func formatErrorFieldName(text string) string {
	if m := errorFieldNameRe.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}

	return text
}

// validateTypeMismatches checks if the JSON payload has type mismatches with the struct definition
func validateTypeMismatches(bodyBytes []byte, s any) error {
	var originalMap map[string]any
	if err := json.Unmarshal(bodyBytes, &originalMap); err != nil {
		return err
	}

	val := reflect.ValueOf(s)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return nil
	}

	val = val.Elem()
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		jsonName := jsonFieldName(typ.Field(i))
		if jsonName == "" {
			continue
		}

		originalValue, exists := originalMap[jsonName]
		if !exists {
			continue
		}

		fieldKind := val.Field(i).Kind()
		if mismatch := getTypeMismatch(originalValue, fieldKind); mismatch != nil {
			return pkg.ValidateBusinessError(cn.ErrBadRequest, "",
				fmt.Sprintf("field '%s' expects %s but received %s", jsonName, fieldKind.String(), mismatch.receivedType))
		}
	}

	return nil
}

// jsonFieldName returns the effective JSON key for a struct field, or the
// empty string when the field is not serialized.
func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}

	return strings.Split(tag, ",")[0]
}

// typeMismatchInfo holds information about a type mismatch
type typeMismatchInfo struct {
	receivedType string
	value        any
}

// getTypeMismatch checks if there's a type mismatch and returns mismatch info
func getTypeMismatch(originalValue any, fieldKind reflect.Kind) *typeMismatchInfo {
	wantsContainer := fieldKind == reflect.Map || fieldKind == reflect.Slice

	switch val := originalValue.(type) {
	case string:
		if wantsContainer {
			return &typeMismatchInfo{receivedType: "string", value: val}
		}
	case float64:
		if fieldKind == reflect.String || wantsContainer {
			return &typeMismatchInfo{receivedType: "number", value: val}
		}
	case bool:
		if fieldKind == reflect.String || wantsContainer {
			return &typeMismatchInfo{receivedType: "boolean", value: val}
		}
	case map[string]any:
		if isSimpleType(fieldKind) {
			return &typeMismatchInfo{receivedType: "object", value: nil}
		}
	case []any:
		if isSimpleType(fieldKind) {
			return &typeMismatchInfo{receivedType: "array", value: nil}
		}
	}

	return nil
}

// isSimpleType checks if the field kind is a simple type
func isSimpleType(fieldKind reflect.Kind) bool {
	return fieldKind == reflect.String || fieldKind == reflect.Int || fieldKind == reflect.Float64 || fieldKind == reflect.Bool
}

// unmarshalFieldPatterns matches the two shapes encoding/json uses to name
// the offending field in "cannot unmarshal" errors, in priority order.
var unmarshalFieldPatterns = []*regexp.Regexp{
	regexp.MustCompile(`struct field \w+\.(\w+)`),
	regexp.MustCompile(`field (\w+) of type`),
}

// extractFieldNameFromUnmarshalError extracts the field name from a JSON unmarshal error
func extractFieldNameFromUnmarshalError(errorMsg string) string {
	for _, re := range unmarshalFieldPatterns {
		if m := re.FindStringSubmatch(errorMsg); len(m) > 1 {
			return m[1]
		}
	}

	return ""
}

// parseMetadata For compliance with RFC7396 JSON Merge Patch
func parseMetadata(s any, originalMap map[string]any) {
	val := reflect.ValueOf(s)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return
	}

	val = val.Elem()

	metadataField := val.FieldByName("Metadata")
	if !metadataField.IsValid() || !metadataField.CanSet() {
		return
	}

	if _, exists := originalMap["metadata"]; !exists {
		metadataField.Set(reflect.ValueOf(make(map[string]any)))
	}
}
