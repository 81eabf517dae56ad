/*
Package mustache implements the mustache templating language: logic-less
templates rendered against a hierarchical data scope.

# Quick Start

The simplest way to render is through the package-level functions:

	out, err := mustache.Render("Hello {{name}}!", mustache.TemplateData{
	    "name": "World",
	})
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(out) // Hello World!

Templates that render repeatedly can be tokenized once:

	tmpl, err := mustache.Prepare("{{#items}}{{.}}\n{{/items}}")
	if err != nil {
	    log.Fatal(err)
	}
	out, err := tmpl.Render(data)

# Template Syntax

Tags use double curly braces:

	{{name}}              - Variable, HTML escaped
	{{{name}}} / {{&name}}- Variable, unescaped
	{{customer.address}}  - Dotted path access
	{{.}}                 - The current scope itself
	{{#items}}...{{/items}} - Section: skipped when falsy, repeated over lists
	{{^items}}...{{/items}} - Inverted section: rendered only when falsy
	{{> header}}          - Partial, inheriting the caller's scope
	{{! ignored }}        - Comment
	{{=<% %>=}}           - Change delimiters for the rest of the template

Sections bound to a Lambda receive the raw section source and a render
callback, and their return value is inserted verbatim.

# Data

Data scopes are plain Go values: maps (TemplateData or any string-keyed
map), slices and arrays, structs, scalars, and Lambda callables. Dotted
keys walk maps by key, structs by exported field, and slices by integer
index. Values implementing Truther or FalsyRenderer customize truthiness
and falsy display.

# Partials

Partials resolve from Options.Partials first, then from
Options.PartialsPath as <name>.<PartialsExt> files. Missing partials
render as empty text. A partial referenced from an indented line is
re-indented to match.

# Errors

Structural template problems (unclosed sections, stray closing tags,
unterminated tags, malformed delimiter changes) return *SyntaxError with a
1-based line number. Missing data keys follow Options.OnMissingKey:
ignored by default, logged under MissingKeyWarn, or returned as
*LookupError under MissingKeyError. Runaway partial or lambda recursion
returns *RecursionError.
*/
package mustache
