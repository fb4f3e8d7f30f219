package walk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type WalkTestSuite struct {
	suite.Suite
}

// visitRecord is one callback invocation.
type visitRecord struct {
	path  string
	depth int
	visit Visit
}

func (s *WalkTestSuite) mktree(paths ...string) string {
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

// collect walks root and records every visit.
func (s *WalkTestSuite) collect(root string, flags Flags, strategy Strategy, cb Callback) []visitRecord {
	var visits []visitRecord
	err := Walk(&Options{
		Paths: []string{root},
		Callback: func(f *File) Action {
			rel, _ := filepath.Rel(root, f.Path)
			visits = append(visits, visitRecord{rel, f.Depth, f.Visit})
			if cb != nil {
				return cb(f)
			}
			return Continue
		},
		NOpenFD:  10,
		Flags:    flags,
		Strategy: strategy,
	})
	s.Require().NoError(err)
	return visits
}

func index(visits []visitRecord, path string) int {
	for i, v := range visits {
		if v.path == path {
			return i
		}
	}
	return -1
}

func (s *WalkTestSuite) TestBFSVisitsShallowFilesFirst() {
	root := s.mktree(
		"deep/1/2/3/4",
		"shallow/needle",
	)
	visits := s.collect(root, 0, BFS, nil)

	needle := index(visits, "shallow/needle")
	deep := index(visits, "deep/1/2")
	s.Require().True(needle >= 0)
	s.Require().True(deep >= 0)
	s.True(needle < deep, "expected %v before %v in %v", "shallow/needle", "deep/1/2", visits)
}

func (s *WalkTestSuite) TestPruneSkipsTheSubtree() {
	root := s.mktree(
		"b/c",
		"d",
	)
	visits := s.collect(root, 0, BFS, func(f *File) Action {
		if f.Name() == "b" {
			return Prune
		}
		return Continue
	})

	s.NotEqual(-1, index(visits, "b"))
	s.NotEqual(-1, index(visits, "d"))
	s.Equal(-1, index(visits, "b/c"))
}

func (s *WalkTestSuite) TestStopHaltsTheWalk() {
	root := s.mktree(
		"a/b",
		"c/d",
	)
	visits := s.collect(root, 0, BFS, func(f *File) Action {
		return Stop
	})
	s.Len(visits, 1)
}

func (s *WalkTestSuite) TestPostOrderVisits() {
	root := s.mktree(
		"dir/file",
	)
	visits := s.collect(root, FlagDepth, BFS, nil)

	// The file's pre-order visit must come before its parent's
	// post-order visit, and the root's post-order visit comes last.
	filePre := -1
	dirPost := -1
	for i, v := range visits {
		if v.path == "dir/file" && v.visit == VisitPre {
			filePre = i
		}
		if v.path == "dir" && v.visit == VisitPost {
			dirPost = i
		}
	}
	s.Require().NotEqual(-1, filePre)
	s.Require().NotEqual(-1, dirPost)
	s.True(filePre < dirPost)

	last := visits[len(visits)-1]
	s.Equal(".", last.path)
	s.Equal(VisitPost, last.visit)
}

func (s *WalkTestSuite) TestDFSExhaustsSubtrees() {
	root := s.mktree(
		"a/b",
		"c/d",
	)
	visits := s.collect(root, 0, DFS, nil)

	s.True(index(visits, "a/b") < index(visits, "c"))
}

func (s *WalkTestSuite) TestIDSDeliversBreadthFirstOrder() {
	root := s.mktree(
		"deep/1/2",
		"shallow/needle",
	)
	visits := s.collect(root, 0, IDS, nil)

	s.True(index(visits, "shallow/needle") < index(visits, "deep/1/2"))
}

func (s *WalkTestSuite) TestIDSPostOrderCoversFiles() {
	root := s.mktree(
		"dir/file",
	)
	visits := s.collect(root, FlagDepth, IDS, nil)

	post := 0
	for _, v := range visits {
		if v.visit == VisitPost {
			post++
		}
	}
	// Every entry gets a post-order visit under iterative deepening.
	s.Equal(3, post)
}

func (s *WalkTestSuite) TestDeepTreesStayWithinTheDescriptorBudget() {
	root := s.mktree("1/2/3/4/5/6/7/8/leaf")

	// With only two descriptors allowed, the depth-first and
	// iterative-deepening descents must fall back to path-based opens
	// rather than holding every ancestor open.
	for _, strategy := range []Strategy{DFS, IDS} {
		var visits []visitRecord
		err := Walk(&Options{
			Paths: []string{root},
			Callback: func(f *File) Action {
				rel, _ := filepath.Rel(root, f.Path)
				visits = append(visits, visitRecord{rel, f.Depth, f.Visit})
				return Continue
			},
			NOpenFD:  2,
			Strategy: strategy,
		})
		s.Require().NoError(err)
		s.NotEqual(-1, index(visits, "1/2/3/4/5/6/7/8/leaf"), "strategy %v", strategy)
	}
}

func (s *WalkTestSuite) TestMissingRootReportsAnError() {
	var errs []error
	err := Walk(&Options{
		Paths: []string{"/nonexistent/bfind/test/path"},
		Callback: func(f *File) Action {
			errs = append(errs, f.Err)
			return Continue
		},
	})
	s.Require().NoError(err)
	s.Require().Len(errs, 1)
	s.Error(errs[0])
}

func (s *WalkTestSuite) TestTypeFlagsFromDirents() {
	root := s.mktree("dir/", "file")
	s.Require().NoError(os.Symlink("file", filepath.Join(root, "link")))

	types := make(map[string]TypeFlag)
	err := Walk(&Options{
		Paths: []string{root},
		Callback: func(f *File) Action {
			rel, _ := filepath.Rel(root, f.Path)
			types[rel] = f.Type
			return Continue
		},
	})
	s.Require().NoError(err)
	s.Equal(Dir, types["dir"])
	s.Equal(Reg, types["file"])
	s.Equal(Lnk, types["link"])
}

func TestWalk(t *testing.T) {
	suite.Run(t, new(WalkTestSuite))
}
