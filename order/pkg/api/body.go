package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mbakhodurov/week1/shared/pkg/apperr"
)

const maxBodyBytes = 1 << 20

const schemaCreateOrder = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["productId", "quantity", "price"],
        "properties": {
          "productId": { "type": "string", "minLength": 1 },
          "name":      { "type": "string" },
          "quantity":  { "type": "integer", "minimum": 1 },
          "price":     { "type": ["number", "string"] },
          "pictures":  { "type": "array", "items": { "type": "string" } }
        },
        "additionalProperties": false
      }
    },
    "total":    { "type": ["number", "string"] },
    "provider": { "type": "string" }
  },
  "additionalProperties": false
}`

const schemaCapabilities = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "enabled":   { "type": "boolean" },
    "testMode":  { "type": "boolean" },
    "providers": { "type": "object", "additionalProperties": { "type": "boolean" } }
  },
  "additionalProperties": false
}`

const schemaStatus = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["status"],
  "properties": {
    "status": { "enum": ["Pending", "Processing", "Completed", "Cancelled", "Failed"] }
  },
  "additionalProperties": false
}`

var (
	createOrderSchema  = mustSchema(schemaCreateOrder)
	capabilitiesSchema = mustSchema(schemaCapabilities)
	statusSchema       = mustSchema(schemaStatus)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return schema
}

func invalidRequest(msg string) *apperr.Error {
	return apperr.New(apperr.KindValidation, apperr.CodeInvalidRequest, msg)
}

// decodeJSON accepts only application/json bodies that validate against
// schema, then decodes into dst. An empty body decodes as {} when allowEmpty.
func decodeJSON(r *http.Request, schema *gojsonschema.Schema, dst any, allowEmpty bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return invalidRequest("could not read request body")
	}
	if len(body) > maxBodyBytes {
		return invalidRequest("request body too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if !allowEmpty {
			return invalidRequest("request body required")
		}
		body = []byte("{}")
	} else if !isJSON(r.Header.Get("Content-Type")) {
		return invalidRequest("Content-Type must be application/json")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return invalidRequest("request body is not valid JSON")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return invalidRequest(fmt.Sprintf("request does not conform to schema: %s", strings.Join(msgs, "; ")))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return invalidRequest("malformed request body")
	}
	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}
