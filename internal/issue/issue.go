// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	ModuleReadFailedId
	SourceMapMalformedId
	WriteBackFailedId
	WatchFailedId
	BundleFailedId
)

type MarkdownMsg string

type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance with the named glamour style ("auto",
// "dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the baggage configuration!

## Things you can try:
- Print the schema the file is checked against:
~~~
$ baggage config schema
~~~
- Create a starter file in the current directory:
~~~
$ baggage config init
~~~

## Example:
~~~cue
companions: {
	"[file].scss": {}
	"[file].json": {varName: "locale"}
}
~~~`,
	}

	moduleReadFailedIssue = &Issue{
		id: ModuleReadFailedId,
		mdMsg: `
# Could not read the module!

The transform needs the module's text before it can check its companions.

## Things you can try:
- Check that the path exists and is a regular file
- Check the file permissions`,
	}

	sourceMapMalformedIssue = &Issue{
		id: SourceMapMalformedId,
		mdMsg: `
# The incoming source map is malformed!

Only revision 3 maps without sections are accepted, and every segment must
reference an existing source and name.

## Things you can try:
- Regenerate the map with the tool that produced it
- Run without ` + "`--map`" + ` to inject without a map`,
	}

	writeBackFailedIssue = &Issue{
		id: WriteBackFailedId,
		mdMsg: `
# Could not write the transformed module back!

Write-back is on because ` + "`store_changes`" + ` is set or the
` + "`STORE_BAGGAGE_LOADER_CHANGES`" + ` environment variable is set.

## Things you can try:
- Check the file permissions
- Unset the environment variable to keep modules untouched`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# The file watcher stopped!

## Things you can try:
- Raise the inotify watch limit (` + "`fs.inotify.max_user_watches`" + `)
- Narrow ` + "`watch.patterns`" + ` or add ` + "`watch.ignore`" + ` entries`,
	}

	bundleFailedIssue = &Issue{
		id: BundleFailedId,
		mdMsg: `
# The bundle failed!

esbuild reported errors; they are listed above.

## Things you can try:
- Make sure every injected companion has a loader configured in esbuild
- Run with ` + "`--verbose`" + ` to see which companions were injected`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		moduleReadFailedIssue.Id():   moduleReadFailedIssue,
		sourceMapMalformedIssue.Id(): sourceMapMalformedIssue,
		writeBackFailedIssue.Id():    writeBackFailedIssue,
		watchFailedIssue.Id():        watchFailedIssue,
		bundleFailedIssue.Id():       bundleFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
