// Package prompt builds the instruction texts sent to the model for each
// wizard stage.
//
// Builders are pure: they never validate their inputs beyond formatting.
// Callers reject empty inputs before building a prompt.
package prompt

import (
	"fmt"
	"strings"

	"github.com/pithecene-io/reqforge/catalog"
)

// Diagram asks for a PlantUML sequence diagram of the given requirements.
func Diagram(requirements string) string {
	var b strings.Builder
	b.WriteString(`You are a PlantUML expert.
Create a PlantUML sequence diagram using the latest syntax for the following business requirements. Follow these rules strictly:

1. Use ONLY @startuml and @enduml tags (DO NOT use @plantuml)
2. Use proper sequence diagram syntax:
   - Use 'participant' for main actors
   - Use 'actor' for external users
   - Use 'boundary' for UI elements
   - Use 'control' for controllers
   - Use 'entity' for data objects
3. Message syntax:
   - Use '->' for synchronous messages
   - Use '-->' for return messages
   - Use '-[#color]->' for colored messages
   - Use 'note left/right' for notes
4. Activation:
   - Use 'activate' and 'deactivate' for lifelines
   - Use '++' and '--' for automatic activation
5. Include proper spacing and alignment
6. Use proper indentation
7. Only return the PlantUML code without any explanation or markdown formatting
8. DO NOT use any deprecated syntax or @plantuml tag

Business Requirements:
`)
	b.WriteString(requirements)
	return b.String()
}

// OpenAPI asks for an OpenAPI 3.0 YAML document derived from a diagram.
func OpenAPI(diagram string) string {
	var b strings.Builder
	b.WriteString(`You are an expert API designer. Convert the following PlantUML sequence diagram into a complete OpenAPI 3.0 specification in YAML format. Follow these rules strictly:

1. Create a complete OpenAPI 3.0 specification with:
   - openapi: 3.0.0
   - info section with title, version, and description
   - servers section with appropriate URLs
   - paths section with all endpoints from the sequence diagram
   - components section with schemas and examples

2. For each endpoint:
   - Use appropriate HTTP methods (GET, POST, PUT, DELETE)
   - Define request/response schemas
   - Include proper response codes (200, 201, 400, 401, 403, 404, 500)
   - Add request/response examples
   - Include proper parameter definitions (path, query, header)
   - Add security requirements if authentication is needed

3. For schemas:
   - Create reusable components
   - Use proper data types
   - Include required fields
   - Add descriptions
   - Include examples

4. Format:
   - Use proper YAML indentation
   - Include comments for complex parts
   - Follow OpenAPI 3.0 best practices

5. Only return the YAML specification without any explanation or markdown formatting.

PlantUML Sequence Diagram:
`)
	b.WriteString(diagram)
	return b.String()
}

// Tests asks for unit tests of an API document in the given language.
func Tests(spec string, lang catalog.Language) string {
	return fmt.Sprintf(`Generate %s unit tests for this OpenAPI spec. Focus on:
1. HTTP status codes
2. Request/response validation
3. Basic error cases
Use %s as the testing framework.
Keep it simple and focused.

Spec:
%s`, lang.ID, lang.TestFramework, spec)
}

// CodePreamble is the persona line that opens the code prompt. Models
// sometimes echo it back at the top of their answer.
func CodePreamble(model string) string {
	return fmt.Sprintf("You are %s, an expert code generator.", model)
}

// Code asks for a sectioned implementation that satisfies the given tests.
func Code(model, spec, tests string, lang catalog.Language, db catalog.Database) string {
	return fmt.Sprintf(`%[1]s Generate %[2]s code that satisfies the following test cases and uses %[3]s as the database:

OpenAPI Specification:
%[4]s

Test Cases:
%[5]s

Architecture Requirements:
1. Implement a 3-tier architecture with clear separation of concerns:
   - Presentation Layer (Controllers/Endpoints)
   - Business Logic Layer (Services)
   - Data Access Layer (Repositories)

2. For %[2]s:
   - Use appropriate design patterns (e.g., Repository, Service, DTO)
   - Implement proper dependency injection
   - Use modern %[2]s features and libraries

3. For %[3]s:
   - Use appropriate connection pooling
   - Implement proper transaction handling
   - Use parameterized queries
   - Include proper indexing recommendations
   - %[6]s

4. Additional Requirements:
   - Implement proper error handling and validation
   - Use appropriate data models and DTOs
   - Include proper logging
   - Implement proper configuration management

5. Output format:
   - Start every part with a markdown heading of the form "## <Section>"
   - Use these sections: Presentation Layer, Business Logic Layer, Data Access Layer, Configuration, Models, Dependencies
   - Put only code and configuration below each heading

Please generate the complete code with all necessary imports, dependencies, and configuration files.`,
		CodePreamble(model), lang.Name, db.Name, spec, tests, db.Guidance)
}
