// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	NamespaceNotFoundId Id = iota + 1
	CommandNotFoundId
	NamespaceLoadFailedId
	ArgumentErrorId
	CommandFailedId
	ConfigLoadFailedId
	ClrfileNotFoundId
	ClrfileInvalidId
	ScriptFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	namespaceNotFoundIssue = &Issue{
		id: NamespaceNotFoundId,
		mdMsg: `
# Namespace not found!

The part of your query before the ':' does not name a declared namespace.

## Things you can try:
- List the available namespaces:
~~~
$ clr help
~~~

- Check the clrfile that is in effect (searched from the current directory upward, then $CLR_ROOT)
- Declare the namespace in your clrfile:
~~~toml
[namespaces]
deploy = "script:./deploy.toml"
~~~`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found!

The namespace exists but does not export the command you asked for.

## Things you can try:
- List the commands of the namespace:
~~~
$ clr help <namespace>
~~~

- Check the spelling; the closest matches are listed above
- Bare commands (without a namespace) only resolve to system commands`,
	}

	namespaceLoadFailedIssue = &Issue{
		id: NamespaceLoadFailedId,
		mdMsg: `
# Namespace could not be loaded!

The namespace is declared but loading it failed. Other namespaces are unaffected.

## Things you can try:
- Show the full load error:
~~~
$ clr help <namespace>
~~~

- Check that the locator in your clrfile points to an existing file or compiled namespace
- Keyword-capture parameters and unsupported default types make a namespace fail to load
- Clear a stale metadata cache:
~~~
$ clr clear_cache
~~~`,
	}

	argumentErrorIssue = &Issue{
		id: ArgumentErrorId,
		mdMsg: `
# Invalid arguments!

The arguments did not match the command's parameters.

## Rules:
- Required and optional parameters may be given positionally (in declaration order) or as ` + "`--name value`" + `
- The same parameter may not be given both ways
- Boolean parameters are set with ` + "`--name`" + ` and cleared with ` + "`--noname`" + `
- Values starting with '-' must follow ` + "`--`" + `

## Things you can try:
~~~
$ clr <namespace>:<command> --help
~~~`,
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# Command failed!

The command ran and returned an error. The error above comes from the command itself.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see the error chain
- Check the command's documentation:
~~~
$ clr help <namespace>:<command>
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config.cue could not be parsed or failed schema validation.

## Things you can try:
- Check the CUE syntax of the file
- Use only the supported fields:
~~~cue
cache: {
	dir:      "/var/cache/clr"
	disabled: false
}
ui: {
	color_scheme: "auto" // or "dark", "light"
	verbose:      false
}
namespaces: {
	deploy: "script:/srv/ops/deploy.toml"
}
telemetry: enabled: true
~~~

- Point at another file with ` + "`--config`",
	}

	clrfileNotFoundIssue = &Issue{
		id: ClrfileNotFoundId,
		mdMsg: `
# No clrfile found!

Only the ` + "`system`" + ` namespace is available.

## Search locations (in order):
1. The current directory
2. Each parent directory up to the root
3. $CLR_ROOT

## Example clrfile.toml:
~~~toml
[namespaces]
deploy = "script:./ops/deploy.toml"
~~~`,
	}

	clrfileInvalidIssue = &Issue{
		id: ClrfileInvalidId,
		mdMsg: `
# Invalid clrfile!

The clrfile was found but could not be parsed.

## Things you can try:
- Each namespace maps a key to a "scheme:target" locator
- clrfile.cue must contain only a ` + "`namespaces`" + ` struct of strings
- clrfile.toml must contain only a ` + "`[namespaces]`" + ` table of strings`,
	}

	scriptFailedIssue = &Issue{
		id: ScriptFailedId,
		mdMsg: `
# Script failed!

A script namespace command could not be parsed or run.

## Things you can try:
- Parameters are exported as ` + "`CLR_ARG_<NAME>`" + ` environment variables
- Variadic values are the positional parameters (` + "`$@`" + `)
- Check the script with ` + "`bash -n`" + ` or ` + "`shfmt`",
	}

	issues = map[Id]*Issue{
		namespaceNotFoundIssue.Id():   namespaceNotFoundIssue,
		commandNotFoundIssue.Id():     commandNotFoundIssue,
		namespaceLoadFailedIssue.Id(): namespaceLoadFailedIssue,
		argumentErrorIssue.Id():       argumentErrorIssue,
		commandFailedIssue.Id():       commandFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		clrfileNotFoundIssue.Id():     clrfileNotFoundIssue,
		clrfileInvalidIssue.Id():      clrfileInvalidIssue,
		scriptFailedIssue.Id():        scriptFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
