// Package harness renders expression scenarios for every dialect and pins
// the output with golden files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: filters
//	description: "Where-clause filters with row limiting"
//	dialects: [mysql, postgresql]
//	cases:
//	  - name: seniors
//	    clause: where
//	    query: "select e.name from employee e where {expr}"
//	    params: { minAge: 30 }
//	    offset: 5
//	    limit: 10
//	    expression:
//	      and:
//	        - eq: [e.dept, {string: eng}]
//	        - ge: [e.age, {param: minAge}]
//	    expect:
//	      sql: "e.dept = :param_1 and e.age >= :minAge"
//
// A case carries the fields of an exprdoc.Document plus a query template
// and expectations. The expression is rendered once per dialect; the
// rendered text replaces {expr} in the query, named placeholders are bound
// for the dialect and the row limit is applied last.
//
// # Expectations
//
//   - sql: the rendered expression text, before binding
//   - error: a substring of the render error
//   - dialects: per-dialect overrides of the above
//
// # Golden Files
//
// RunWithGolden writes every statement (or error) the scenario produced in
// a stable text form and compares it with testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
