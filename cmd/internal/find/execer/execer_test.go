package execer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bfind/bfind/walk"
	"github.com/stretchr/testify/suite"
)

type ExecerTestSuite struct {
	suite.Suite
}

func execFile(path string) *walk.File {
	return &walk.File{
		Path:    path,
		NameOff: len(path) - len(filepath.Base(path)),
	}
}

func (s *ExecerTestSuite) TestSingleModeReportsTheExitStatus() {
	e := New([]string{"true"}, false, false)
	ok, err := e.Run(execFile("whatever"))
	s.NoError(err)
	s.True(ok)

	e = New([]string{"false"}, false, false)
	ok, err = e.Run(execFile("whatever"))
	s.NoError(err)
	s.False(ok)
}

func (s *ExecerTestSuite) TestSingleModeSubstitutesThePath() {
	out := filepath.Join(s.T().TempDir(), "out")
	e := New([]string{"sh", "-c", "echo {} > " + out}, false, false)

	ok, err := e.Run(execFile("some/path"))
	s.NoError(err)
	s.True(ok)

	data, err := os.ReadFile(out)
	s.Require().NoError(err)
	s.Equal("some/path\n", string(data))
}

func (s *ExecerTestSuite) TestSpawnFailuresAreErrors() {
	e := New([]string{"/nonexistent/bfind/command"}, false, false)
	ok, err := e.Run(execFile("whatever"))
	s.Error(err)
	s.False(ok)
}

func (s *ExecerTestSuite) TestBatchModeDefersTheSpawn() {
	out := filepath.Join(s.T().TempDir(), "out")
	e := New([]string{"sh", "-c", `printf '%s\n' "$@" > ` + out, "batch", "{}"}, false, true)

	for _, path := range []string{"a", "b", "c"} {
		ok, err := e.Run(execFile(path))
		s.NoError(err)
		s.True(ok)
	}

	// Nothing has run yet.
	_, err := os.Stat(out)
	s.True(os.IsNotExist(err))

	s.NoError(e.Finish())

	data, err := os.ReadFile(out)
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c"}, strings.Fields(string(data)))
}

func (s *ExecerTestSuite) TestBatchFailuresSurfaceOnFinish() {
	e := New([]string{"sh", "-c", "exit 1", "batch", "{}"}, false, true)

	ok, err := e.Run(execFile("a"))
	s.NoError(err)
	s.True(ok)

	s.Error(e.Finish())
}

func (s *ExecerTestSuite) TestFinishWithoutPendingIsANoop() {
	e := New([]string{"false", "{}"}, false, true)
	s.NoError(e.Finish())
}

func (s *ExecerTestSuite) TestExecdirRunsFromTheParent() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, "file")
	s.Require().NoError(os.WriteFile(path, nil, 0644))

	out := filepath.Join(dir, "out")
	e := New([]string{"sh", "-c", "pwd > " + out}, true, false)

	ok, err := e.Run(execFile(path))
	s.NoError(err)
	s.True(ok)

	data, err := os.ReadFile(out)
	s.Require().NoError(err)
	pwd, err := filepath.EvalSymlinks(strings.TrimSpace(string(data)))
	s.Require().NoError(err)
	want, err := filepath.EvalSymlinks(dir)
	s.Require().NoError(err)
	s.Equal(want, pwd)
}

func TestExecer(t *testing.T) {
	suite.Run(t, new(ExecerTestSuite))
}
