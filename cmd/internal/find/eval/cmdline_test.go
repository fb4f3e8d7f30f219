package eval_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bfind/bfind/cmd/internal/find/eval"
	"github.com/bfind/bfind/cmd/internal/find/params"
	"github.com/bfind/bfind/cmd/internal/find/parser"
	cmdutil "github.com/bfind/bfind/cmd/util"
	"github.com/stretchr/testify/suite"
)

// CmdlineTestSuite runs whole command lines against real directory
// trees, parser included.
type CmdlineTestSuite struct {
	suite.Suite
}

func (s *CmdlineTestSuite) SetupTest() {
	params.ReferenceTime = time.Now()
}

func (s *CmdlineTestSuite) mktree(paths ...string) string {
	root := s.T().TempDir()
	for _, path := range paths {
		full := filepath.Join(root, path)
		if path[len(path)-1] == '/' {
			s.Require().NoError(os.MkdirAll(full, 0755))
			continue
		}
		s.Require().NoError(os.MkdirAll(filepath.Dir(full), 0755))
		s.Require().NoError(os.WriteFile(full, []byte("x"), 0644))
	}
	return root
}

// run parses and evaluates a command line, returning the exit status,
// stdout lines, and stderr text.
func (s *CmdlineTestSuite) run(args ...string) (int, []string, string) {
	var errbuf bytes.Buffer
	oldStderr := cmdutil.ColoredStderr
	cmdutil.ColoredStderr = &errbuf
	defer func() { cmdutil.ColoredStderr = oldStderr }()

	cmd, err := parser.Parse(args)
	s.Require().NoError(err)

	var outbuf bytes.Buffer
	cmd.Cout.W = &outbuf
	cmd.Cout.Colored = false

	ret := eval.EvalCmdline(cmd)

	var lines []string
	for _, line := range strings.Split(outbuf.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return ret, lines, errbuf.String()
}

func index(lines []string, suffix string) int {
	for i, line := range lines {
		if strings.HasSuffix(line, suffix) {
			return i
		}
	}
	return -1
}

func (s *CmdlineTestSuite) TestShallowFilesPrintFirst() {
	root := s.mktree(
		"deep/1/2/3/4",
		"shallow/needle",
	)

	ret, lines, _ := s.run(root)
	s.Equal(0, ret)

	needle := index(lines, "shallow/needle")
	deep := index(lines, "deep/1/2")
	s.Require().NotEqual(-1, needle)
	s.Require().NotEqual(-1, deep)
	s.True(needle < deep, "expected shallow/needle before deep/1/2 in %v", lines)
}

func (s *CmdlineTestSuite) TestPruneHidesTheSubtree() {
	root := s.mktree(
		"b/c",
		"d",
	)

	ret, lines, _ := s.run(root, "-name", "b", "-prune", "-o", "-print")
	s.Equal(0, ret)

	s.NotEqual(-1, index(lines, "d"))
	s.Equal(-1, index(lines, "b/c"))
	s.Equal(-1, index(lines, "b"), "a pruned match must not print through -o")
	s.Len(lines, 2) // the root and d
}

func (s *CmdlineTestSuite) TestMaxdepthStopsDescent() {
	root := s.mktree("x/y")

	ret, lines, _ := s.run(root, "-maxdepth", "1")
	s.Equal(0, ret)

	s.NotEqual(-1, index(lines, "x"))
	s.Equal(-1, index(lines, "x/y"))
	s.Len(lines, 2) // the root and x
}

func (s *CmdlineTestSuite) TestExitStatus() {
	root := s.mktree("a", "b")

	ret, _, _ := s.run(root, "-name", "zzz-never-matches", "-o", "-exit", "7")
	s.Equal(7, ret)
}

func (s *CmdlineTestSuite) TestQuitVisitsNothingFurther() {
	root := s.mktree("a/b", "c/d")

	ret, lines, _ := s.run(root, "-print", "-quit")
	s.Equal(0, ret)
	s.Len(lines, 1)
}

func (s *CmdlineTestSuite) TestXargsSafeRejectsSpaces() {
	root := s.mktree("has space")

	ret, _, errout := s.run("--xargs-safe", root)
	s.Equal(1, ret)
	s.Contains(errout, "has space")
}

func (s *CmdlineTestSuite) TestUniqueVisitsHardLinksOnce() {
	root := s.mktree("one")
	s.Require().NoError(os.Link(filepath.Join(root, "one"), filepath.Join(root, "two")))

	ret, lines, _ := s.run("-unique", root, "-type", "f")
	s.Equal(0, ret)

	count := 0
	if index(lines, "one") != -1 {
		count++
	}
	if index(lines, "two") != -1 {
		count++
	}
	s.Equal(1, count, "exactly one of the hard links prints: %v", lines)
}

func (s *CmdlineTestSuite) TestTypeFiltering() {
	root := s.mktree("dir/", "file")

	ret, lines, _ := s.run(root, "-type", "f")
	s.Equal(0, ret)
	s.Len(lines, 1)
	s.NotEqual(-1, index(lines, "file"))

	ret, lines, _ = s.run(root, "-type", "d")
	s.Equal(0, ret)
	s.Len(lines, 2) // the root and dir
}

func (s *CmdlineTestSuite) TestDepthModePrintsChildrenFirst() {
	root := s.mktree("dir/file")

	ret, lines, _ := s.run(root, "-depth")
	s.Equal(0, ret)

	file := index(lines, "dir/file")
	dir := index(lines, "dir")
	s.Require().NotEqual(-1, file)
	s.Require().NotEqual(-1, dir)
	s.True(file < dir, "-depth prints contents before the directory: %v", lines)
}

func (s *CmdlineTestSuite) TestDeleteEmptiesTheTree() {
	root := s.mktree("dir/file", "other")

	ret, _, errout := s.run(root, "-mindepth", "1", "-delete")
	s.Equal(0, ret, errout)

	entries, err := os.ReadDir(root)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *CmdlineTestSuite) TestSizeFiltering() {
	root := s.T().TempDir()
	s.Require().NoError(os.WriteFile(filepath.Join(root, "small"), make([]byte, 10), 0644))
	s.Require().NoError(os.WriteFile(filepath.Join(root, "large"), make([]byte, 2000), 0644))

	ret, lines, _ := s.run(root, "-type", "f", "-size", "+1k")
	s.Equal(0, ret)
	s.Len(lines, 1)
	s.NotEqual(-1, index(lines, "large"))
}

func (s *CmdlineTestSuite) TestMindepthSkipsTheRoot() {
	root := s.mktree("a")

	ret, lines, _ := s.run(root, "-mindepth", "1")
	s.Equal(0, ret)
	s.Len(lines, 1)
	s.NotEqual(-1, index(lines, "a"))
}

func TestCmdline(t *testing.T) {
	suite.Run(t, new(CmdlineTestSuite))
}
