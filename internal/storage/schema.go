/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed canvas.schema.json
var manifestSchemaBytes []byte

var (
	schemaOnce   sync.Once
	schemaLoaded *gojsonschema.Schema
	schemaErr    error
)

func manifestSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schemaLoaded, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(manifestSchemaBytes))
	})
	return schemaLoaded, schemaErr
}

// ValidateManifest checks raw canvas.json bytes against the embedded JSON
// schema and returns a descriptive error listing all violations.
func ValidateManifest(data []byte) error {
	schema, err := manifestSchema()
	if err != nil {
		return fmt.Errorf("compile manifest schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate manifest: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var b strings.Builder
	b.WriteString("manifest does not conform to schema:")
	for _, e := range result.Errors() {
		b.WriteString("\n  ")
		b.WriteString(e.String())
	}
	return fmt.Errorf("%s", b.String())
}
