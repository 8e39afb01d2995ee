// Package grok compiles Grok-style macro patterns into cached regular
// expressions and extracts named fields from log lines.
//
// A grok expression is a regular expression that may contain placeholders:
//
//	%{NAME}              expands the template NAME without capturing
//	%{NAME:field}        expands NAME and captures it as field
//	%{NAME:field:regex}  captures regex as field; NAME is documentation only
//
// Inline named groups such as (?<year>[0-9]{4}), (?P<year>...) and
// (?'year'...) are accepted too and behave like %{...:year} placeholders.
// Every other capturing group is made non-capturing, so each capture group
// of a compiled expression belongs to exactly one field.
//
// # Basic Usage
//
//	engine, err := grok.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	id, _ := engine.Build(`%{IP:client} %{WORD:method} %{URIPATHPARAM:path}`)
//	if id == 0 {
//	    log.Fatal("pattern did not compile")
//	}
//
//	if fields, ok := engine.Match("55.3.244.1 GET /index.html", id); ok {
//	    fmt.Println(fields["client"], fields["method"], fields["path"])
//	}
//
// # Templates
//
// The engine starts with a library of built-in templates ([Engine.Builtins]).
// User templates are added with [Engine.AddPattern], [Engine.AddPatterns]
// or loaded from a YAML or JSON file with [Load] and [Engine.LoadPatterns].
// A user template with the same name as a built-in takes precedence.
//
// A template body is expanded when it is registered. References to names
// that are not registered yet are resolved again when an expression using
// the template is built.
//
// # Failure Policy
//
// Engine operations never return errors. A pattern that cannot be expanded
// or compiled builds to id 0, and the reason is written to the configured
// logger. Use [Engine.Check] to obtain the error itself.
//
// # Concurrency
//
// An Engine is safe for concurrent use. [Engine.Parse] stores the captured
// fields on the compiled entry for [Engine.Dump] and [Engine.Get]; goroutines
// sharing an id should call [Engine.Match] instead, which returns the fields
// directly.
package grok
