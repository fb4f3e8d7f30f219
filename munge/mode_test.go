package munge

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ModeTestSuite struct {
	suite.Suite
}

func (s *ModeTestSuite) TestOctalModes() {
	for input, expected := range map[string]uint32{
		"644":  0644,
		"0755": 0755,
		"4755": 04755,
		"0":    0,
	} {
		fileMode, dirMode, err := ParseMode(input)
		if s.NoError(err, input) {
			s.Equal(expected, fileMode, input)
			s.Equal(expected, dirMode, input)
		}
	}
}

func (s *ModeTestSuite) TestSymbolicModes() {
	fileMode, dirMode, err := ParseMode("u+rw,g+r")
	if s.NoError(err) {
		s.Equal(uint32(0640), fileMode)
		s.Equal(uint32(0640), dirMode)
	}

	fileMode, dirMode, err = ParseMode("a+x")
	if s.NoError(err) {
		s.Equal(uint32(0111), fileMode)
		s.Equal(uint32(0111), dirMode)
	}

	fileMode, dirMode, err = ParseMode("u+s")
	if s.NoError(err) {
		s.Equal(uint32(04000), fileMode)
		s.Equal(uint32(04000), dirMode)
	}
}

func (s *ModeTestSuite) TestCapitalXOnlyTargetsDirectories() {
	fileMode, dirMode, err := ParseMode("a+X")
	if s.NoError(err) {
		s.Equal(uint32(0), fileMode)
		s.Equal(uint32(0111), dirMode)
	}
}

func (s *ModeTestSuite) TestDefaultWhoIsEveryone() {
	fileMode, _, err := ParseMode("+r")
	if s.NoError(err) {
		s.Equal(uint32(0444), fileMode)
	}
}

func (s *ModeTestSuite) TestErrors() {
	for _, input := range []string{
		"",
		"8",
		"10000",
		"u",
		"u+q",
		"u-w",
		"zzz",
	} {
		_, _, err := ParseMode(input)
		s.Error(err, input)
	}
}

func TestMode(t *testing.T) {
	suite.Run(t, new(ModeTestSuite))
}
