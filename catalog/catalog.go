// Package catalog holds the static lists of target languages and databases
// offered by the wizard.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Language is a target implementation language.
type Language struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	TestFramework string `json:"test_framework" yaml:"test_framework"`
}

// Database is a target persistence backend.
type Database struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Guidance string `json:"guidance" yaml:"guidance"`
}

var languages = []Language{
	{ID: "python", Name: "Python", TestFramework: "pytest"},
	{ID: "javascript", Name: "JavaScript", TestFramework: "Jest"},
	{ID: "java", Name: "Java", TestFramework: "JUnit"},
}

var databases = []Database{
	{ID: "mongodb", Name: "MongoDB", Guidance: "Use Mongoose with proper schema definitions"},
	{ID: "oracle", Name: "Oracle", Guidance: "Use appropriate JDBC/ODBC connections with proper connection pooling"},
	{ID: "neo4j", Name: "Neo4j", Guidance: "Use Neo4j Driver with proper Cypher queries"},
}

// ErrUnsupported is returned for a language or database outside the catalog.
var ErrUnsupported = errors.New("unsupported")

// Languages returns the supported languages in display order.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// Databases returns the supported databases in display order.
func Databases() []Database {
	return append([]Database(nil), databases...)
}

// LookupLanguage resolves a language by ID or display name, case-insensitively.
func LookupLanguage(s string) (Language, error) {
	key := strings.TrimSpace(s)
	for _, l := range languages {
		if strings.EqualFold(key, l.ID) || strings.EqualFold(key, l.Name) {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("%w language %q (supported: %s)", ErrUnsupported, s, strings.Join(languageIDs(), ", "))
}

// LookupDatabase resolves a database by ID or display name, case-insensitively.
func LookupDatabase(s string) (Database, error) {
	key := strings.TrimSpace(s)
	for _, d := range databases {
		if strings.EqualFold(key, d.ID) || strings.EqualFold(key, d.Name) {
			return d, nil
		}
	}
	return Database{}, fmt.Errorf("%w database %q (supported: %s)", ErrUnsupported, s, strings.Join(databaseNames(), ", "))
}

func languageIDs() []string {
	ids := make([]string, len(languages))
	for i, l := range languages {
		ids[i] = l.ID
	}
	return ids
}

func databaseNames() []string {
	names := make([]string, len(databases))
	for i, d := range databases {
		names[i] = d.Name
	}
	return names
}
