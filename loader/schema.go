package loader

//go:generate go-jsonschema -p generated -o generated/case_file.go ../schemas/case-file.json

// This file contains only go:generate directives for schema-based type generation.
// The loader decodes case files through yaml.Node so shorthand forms keep working;
// the generated types document the canonical shape for other tooling.
