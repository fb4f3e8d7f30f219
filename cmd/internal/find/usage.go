package find

import (
	cmdutil "github.com/bfind/bfind/cmd/util"
)

// Usage returns bfind's usage string
func Usage() string {
	u := ""
	u += "Recursively descends the directory tree of the specified paths breadth-first,\n"
	u += "evaluating an 'expression' composed of tests, actions and operators for each\n"
	u += "entry in the tree.\n"
	u += "\n"
	u += "Usage:\n"
	u += "  bfind [flags] [paths] [expression]\n"
	u += "\n"

	t := cmdutil.NewTable(
		[]string{"Flags:", ""},
		[]string{"  -H", "Follow symbolic links given as starting paths"},
		[]string{"  -L", "Follow all symbolic links"},
		[]string{"  -P", "Never follow symbolic links (default)"},
		[]string{"  -D flags", "Comma-separated debug flags: rates,stat,search,exec,all"},
		[]string{"  -S strategy", "Traversal strategy: bfs (default), dfs, ids"},
		[]string{"  -f path", "Add path to the starting paths"},
		[]string{"  -X, --xargs-safe", "Reject paths that xargs would misparse"},
		[]string{"  --ignore-races", "Ignore files that vanish during the walk"},
		[]string{"  -unique", "Visit hard-linked files only once"},
		[]string{"", ""},
		[]string{"Options:", ""},
		[]string{"  -maxdepth levels", "Do not evaluate entries deeper than levels"},
		[]string{"  -mindepth levels", "Do not evaluate entries shallower than levels"},
		[]string{"  -depth", "Visit a directory's contents before the directory itself"},
		[]string{"  -mount", "Exclude mount points and everything below them (bfs, dfs only)"},
		[]string{"  -xdev", "Do not descend past mount points (bfs, dfs only)"},
		[]string{"  -daystart", "Measure times from the start of today"},
		[]string{"  -color, -nocolor", "Force coloured output on or off"},
		[]string{"", ""},
		[]string{"Tests:", ""},
		[]string{"  -name, -iname pattern", "Match the file name against a glob"},
		[]string{"  -path, -ipath pattern", "Match the whole path against a glob"},
		[]string{"  -lname, -ilname pattern", "Match a symbolic link's target against a glob"},
		[]string{"  -regex, -iregex pattern", "Match the whole path against a regex"},
		[]string{"  -type, -xtype [bcdpfls]", "Match the file type"},
		[]string{"  -size [+-]N[bcwkMGTP]", "Compare the file size, rounded up per unit"},
		[]string{"  -empty", "Match empty files and directories"},
		[]string{"  -sparse", "Match files occupying fewer blocks than their size"},
		[]string{"  -perm [-/]mode", "Compare the permission bits"},
		[]string{"  -uid, -gid, -inum, -links [+-]N", "Compare the numeric metadata"},
		[]string{"  -user, -group name", "Match the owner or group"},
		[]string{"  -nouser, -nogroup", "Match ids absent from the databases"},
		[]string{"  -amin/-Bmin/-cmin/-mmin [+-]N", "Compare a timestamp in minutes"},
		[]string{"  -atime/-Btime/-ctime/-mtime [+-]N", "Compare a timestamp in days"},
		[]string{"  -newer[XY] reference", "Compare a timestamp to a reference"},
		[]string{"  -used [+-]N", "Days between access and status change"},
		[]string{"  -samefile path", "Match hard links to path"},
		[]string{"  -fstype type", "Match the containing file system's type"},
		[]string{"  -hidden, -nohidden", "Match (or prune) dot-files"},
		[]string{"  -acl, -capable, -xattr", "Probe platform metadata"},
		[]string{"  -executable, -readable, -writable", "Check access permissions"},
		[]string{"  -depth [+-]N", "Compare the depth below the starting path"},
		[]string{"  -true, -false", "Constants"},
		[]string{"", ""},
		[]string{"Actions:", ""},
		[]string{"  -print, -print0, -printx", "Print the path, variously terminated"},
		[]string{"  -fprint, -fprint0, -fprintx file", "The same, into file"},
		[]string{"  -printf format, -fprintf file format", "Print per a format string"},
		[]string{"  -ls, -fls file", "Print in ls -l form"},
		[]string{"  -exec, -execdir command ... {} ;|+", "Run a command per file or batch"},
		[]string{"  -delete", "Delete the file"},
		[]string{"  -prune", "Skip the directory's contents"},
		[]string{"  -quit, -exit [status]", "Stop the traversal"},
		[]string{"", ""},
		[]string{"Operators:", ""},
		[]string{"  ( expr ), ! expr, -not expr", "Grouping and negation"},
		[]string{"  expr expr, expr -a expr", "Conjunction (short-circuiting)"},
		[]string{"  expr -o expr", "Disjunction (short-circuiting)"},
		[]string{"  expr , expr", "Sequencing; the left result is discarded"},
	)
	u += t.Format()
	return u
}
