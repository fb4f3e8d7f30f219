package eval

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/bfind/bfind/cmd/internal/find/types"
	"github.com/bfind/bfind/walk"
	"github.com/gobwas/glob"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sys/unix"
)

type EvalTestSuite struct {
	suite.Suite
}

// testFile builds the per-visit file record for a real path.
func testFile(path string, depth int) *walk.File {
	f := &walk.File{
		Path:      path,
		NameOff:   len(path) - len(filepath.Base(path)),
		Root:      path,
		Depth:     depth,
		AtFD:      unix.AT_FDCWD,
		AtPath:    path,
		StatFlags: walk.StatNoFollow,
	}
	if t, err := f.TypeAt(walk.StatNoFollow); err == nil {
		f.Type = t
	}
	return f
}

func testState(f *walk.File) *types.State {
	ret := 0
	return &types.State{
		File:   f,
		Cmd:    types.NewOptions(),
		Action: walk.Continue,
		Ret:    &ret,
	}
}

func (s *EvalTestSuite) tempFile(size int) string {
	path := filepath.Join(s.T().TempDir(), "file")
	s.Require().NoError(os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func (s *EvalTestSuite) TestConstants() {
	state := testState(testFile(s.tempFile(0), 1))
	s.True(True(&types.Expr{}, state))
	s.False(False(&types.Expr{}, state))
}

func (s *EvalTestSuite) TestCmp() {
	e := &types.Expr{IData: 2}

	e.CmpFlag = types.CmpExact
	s.True(e.Cmp(2))
	s.False(e.Cmp(3))

	e.CmpFlag = types.CmpLess
	s.True(e.Cmp(1))
	s.False(e.Cmp(2))

	e.CmpFlag = types.CmpGreater
	s.True(e.Cmp(3))
	s.False(e.Cmp(2))
}

func (s *EvalTestSuite) TestSizeRoundsUpPerUnit() {
	// 1025 bytes is 3 512-byte blocks rounded up, and 2 kibibytes
	// rounded up.
	path := s.tempFile(1025)

	e := &types.Expr{CmpFlag: types.CmpExact, IData: 3, SizeUnit: types.SizeBlocks}
	s.True(Size(e, testState(testFile(path, 1))))

	e = &types.Expr{CmpFlag: types.CmpExact, IData: 2, SizeUnit: types.SizeKB}
	s.True(Size(e, testState(testFile(path, 1))))

	e = &types.Expr{CmpFlag: types.CmpGreater, IData: 1, SizeUnit: types.SizeKB}
	s.True(Size(e, testState(testFile(path, 1))))

	e = &types.Expr{CmpFlag: types.CmpLess, IData: 2, SizeUnit: types.SizeKB}
	s.False(Size(e, testState(testFile(path, 1))))

	e = &types.Expr{CmpFlag: types.CmpExact, IData: 1025, SizeUnit: types.SizeBytes}
	s.True(Size(e, testState(testFile(path, 1))))
}

func (s *EvalTestSuite) TestPerm() {
	path := s.tempFile(0)
	s.Require().NoError(os.Chmod(path, 0644))
	f := testFile(path, 1)

	exact := &types.Expr{ModeCmp: types.ModeExact, FileMode: 0644, DirMode: 0644}
	s.True(Perm(exact, testState(f)))

	all := &types.Expr{ModeCmp: types.ModeAll, FileMode: 0600, DirMode: 0600}
	s.True(Perm(all, testState(f)))

	all = &types.Expr{ModeCmp: types.ModeAll, FileMode: 0111, DirMode: 0111}
	s.False(Perm(all, testState(f)))

	any := &types.Expr{ModeCmp: types.ModeAny, FileMode: 0444, DirMode: 0444}
	s.True(Perm(any, testState(f)))

	any = &types.Expr{ModeCmp: types.ModeAny, FileMode: 0111, DirMode: 0111}
	s.False(Perm(any, testState(f)))

	// A zero target matches anything under ModeAny.
	any = &types.Expr{ModeCmp: types.ModeAny}
	s.True(Perm(any, testState(f)))
}

func (s *EvalTestSuite) TestHidden() {
	dir := s.T().TempDir()
	dotfile := filepath.Join(dir, ".hidden")
	s.Require().NoError(os.WriteFile(dotfile, nil, 0644))

	s.True(Hidden(&types.Expr{}, testState(testFile(dotfile, 1))))
	s.False(Hidden(&types.Expr{}, testState(testFile(filepath.Join(dir, "plain"), 1))))

	// A starting path is never hidden, even if its name starts with a
	// dot.
	root := &walk.File{Path: ".hidden", NameOff: 0, Depth: 0}
	s.False(Hidden(&types.Expr{}, testState(root)))
}

func mustGlob(s string) glob.Glob {
	return glob.MustCompile(s)
}

func regexpMust(s string) *regexp.Regexp {
	return regexp.MustCompile(s)
}

func (s *EvalTestSuite) TestName() {
	f := testFile(s.tempFile(0), 1)

	e := &types.Expr{Pattern: mustGlob("file")}
	s.True(Name(e, testState(f)))

	e = &types.Expr{Pattern: mustGlob("f*")}
	s.True(Name(e, testState(f)))

	e = &types.Expr{Pattern: mustGlob("other")}
	s.False(Name(e, testState(f)))

	e = &types.Expr{Pattern: mustGlob("FILE"), CaseFold: true}
	s.False(Name(e, testState(f)))

	e = &types.Expr{Pattern: mustGlob("file"), CaseFold: true}
	s.True(Name(e, testState(f)))
}

func (s *EvalTestSuite) TestNameTrimsTrailingSlashesOnRoots() {
	dir := s.T().TempDir()
	path := dir + "/"
	f := &walk.File{
		Path:    path,
		NameOff: len(dir) - len(filepath.Base(dir)),
		Depth:   0,
	}

	e := &types.Expr{Pattern: mustGlob(filepath.Base(dir))}
	s.True(Name(e, testState(f)))
}

func (s *EvalTestSuite) TestPath() {
	f := testFile(s.tempFile(0), 1)

	e := &types.Expr{Pattern: mustGlob("*/file")}
	s.True(Path(e, testState(f)))
}

func (s *EvalTestSuite) TestRegexAnchorsBothEnds() {
	f := testFile(s.tempFile(0), 1)

	e := &types.Expr{Regex: regexpMust(".*file")}
	s.True(Regex(e, testState(f)))

	// A partial match is not a match.
	e = &types.Expr{Regex: regexpMust("file")}
	s.False(Regex(e, testState(f)))

	e = &types.Expr{Regex: regexpMust(".*fil")}
	s.False(Regex(e, testState(f)))
}

func (s *EvalTestSuite) TestEmpty() {
	emptyFile := s.tempFile(0)
	s.True(Empty(&types.Expr{}, testState(testFile(emptyFile, 1))))

	fullFile := s.tempFile(10)
	s.False(Empty(&types.Expr{}, testState(testFile(fullFile, 1))))

	emptyDir := s.T().TempDir()
	s.True(Empty(&types.Expr{}, testState(testFile(emptyDir, 1))))

	fullDir := filepath.Dir(fullFile)
	s.False(Empty(&types.Expr{}, testState(testFile(fullDir, 1))))
}

func (s *EvalTestSuite) TestType() {
	file := testFile(s.tempFile(0), 1)
	dir := testFile(s.T().TempDir(), 1)

	e := &types.Expr{IData: int64(walk.Reg)}
	s.True(Type(e, testState(file)))
	s.False(Type(e, testState(dir)))

	e = &types.Expr{IData: int64(walk.Dir)}
	s.True(Type(e, testState(dir)))

	e = &types.Expr{IData: int64(walk.Reg | walk.Dir)}
	s.True(Type(e, testState(file)))
	s.True(Type(e, testState(dir)))
}

func (s *EvalTestSuite) TestXTypeUsesTheOppositeFollowPolicy() {
	dir := s.T().TempDir()
	target := filepath.Join(dir, "target")
	s.Require().NoError(os.WriteFile(target, nil, 0644))
	link := filepath.Join(dir, "link")
	s.Require().NoError(os.Symlink(target, link))

	f := testFile(link, 1)

	// Under a physical walk -type sees the link itself...
	e := &types.Expr{IData: int64(walk.Lnk)}
	s.True(Type(e, testState(f)))

	// ...and -xtype sees through it.
	e = &types.Expr{IData: int64(walk.Reg)}
	s.True(XType(e, testState(f)))
}

func (s *EvalTestSuite) TestSameFile() {
	path := s.tempFile(0)
	var st unix.Stat_t
	s.Require().NoError(unix.Stat(path, &st))

	e := &types.Expr{Dev: uint64(st.Dev), Ino: st.Ino}
	s.True(SameFile(e, testState(testFile(path, 1))))

	e = &types.Expr{Dev: uint64(st.Dev), Ino: st.Ino + 1}
	s.False(SameFile(e, testState(testFile(path, 1))))
}

func (s *EvalTestSuite) TestNewerIsStrict() {
	path := s.tempFile(0)
	f := testFile(path, 1)
	statbuf, err := f.Stat(walk.StatNoFollow)
	s.Require().NoError(err)

	// A reference equal to the file's own timestamp is not newer.
	e := &types.Expr{StatField: walk.FieldMTime, RefTime: statbuf.MTime}
	s.False(Newer(e, testState(f)))

	e = &types.Expr{StatField: walk.FieldMTime, RefTime: statbuf.MTime.Add(-time.Nanosecond)}
	s.True(Newer(e, testState(f)))

	e = &types.Expr{StatField: walk.FieldMTime, RefTime: statbuf.MTime.Add(time.Nanosecond)}
	s.False(Newer(e, testState(f)))
}

func (s *EvalTestSuite) TestTimeInDays() {
	path := s.tempFile(0)
	old := time.Now().Add(-49 * time.Hour)
	s.Require().NoError(os.Chtimes(path, old, old))

	f := testFile(path, 1)

	// 49 hours is 2 whole days.
	e := &types.Expr{
		StatField: walk.FieldMTime,
		TimeUnit:  types.Days,
		CmpFlag:   types.CmpExact,
		IData:     2,
		RefTime:   time.Now(),
	}
	s.True(Time(e, testState(f)))

	e.CmpFlag = types.CmpGreater
	e.IData = 1
	s.True(Time(e, testState(f)))

	e.CmpFlag = types.CmpLess
	e.IData = 3
	s.True(Time(e, testState(f)))
}

func (s *EvalTestSuite) TestDepth() {
	f := testFile(s.tempFile(0), 3)

	e := &types.Expr{CmpFlag: types.CmpExact, IData: 3}
	s.True(Depth(e, testState(f)))

	e = &types.Expr{CmpFlag: types.CmpGreater, IData: 3}
	s.False(Depth(e, testState(f)))
}

func (s *EvalTestSuite) TestLName() {
	dir := s.T().TempDir()
	target := filepath.Join(dir, "the-target")
	s.Require().NoError(os.WriteFile(target, nil, 0644))
	link := filepath.Join(dir, "link")
	s.Require().NoError(os.Symlink(target, link))

	e := &types.Expr{Pattern: mustGlob("*the-target")}
	s.True(LName(e, testState(testFile(link, 1))))

	// Non-links never match.
	s.False(LName(e, testState(testFile(target, 1))))
}

func (s *EvalTestSuite) TestStatFailureSetsExitStatus() {
	f := testFile("/nonexistent/bfind/test/path", 1)
	state := testState(f)

	e := &types.Expr{CmpFlag: types.CmpExact, IData: 0}
	s.False(UID(e, state))
	s.Equal(1, *state.Ret)
}

func (s *EvalTestSuite) TestStatFailureIgnoredUnderRaces() {
	f := testFile("/nonexistent/bfind/test/path", 1)
	state := testState(f)
	state.Cmd.IgnoreRaces = true

	e := &types.Expr{CmpFlag: types.CmpExact, IData: 0}
	s.False(UID(e, state))
	s.Equal(0, *state.Ret)
}

func TestEval(t *testing.T) {
	suite.Run(t, new(EvalTestSuite))
}
