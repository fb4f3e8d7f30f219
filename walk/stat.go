package walk

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// StatFlag controls how symbolic links are handled when statting a file.
type StatFlag int

const (
	// StatFollow follows symbolic links.
	StatFollow StatFlag = 1 << iota
	// StatNoFollow never follows symbolic links.
	StatNoFollow
	// StatTryFollow follows symbolic links, but falls back to the link
	// itself if the target doesn't exist.
	StatTryFollow
)

// BlockSize is the size of a stat block count unit.
const BlockSize = 512

// Stat holds file metadata.
type Stat struct {
	Dev    uint64
	Ino    uint64
	Mode   uint32
	Nlink  uint64
	UID    uint32
	GID    uint32
	Rdev   uint64
	Size   int64
	Blocks int64

	ATime time.Time
	CTime time.Time
	MTime time.Time
}

// StatField selects a timestamp out of a Stat.
type StatField int

const (
	// FieldATime is the access time.
	FieldATime StatField = iota
	// FieldBTime is the birth time.
	FieldBTime
	// FieldCTime is the change time.
	FieldCTime
	// FieldMTime is the modification time.
	FieldMTime
)

// Name returns the human-readable name of the field, e.g. for error
// messages.
func (f StatField) Name() string {
	switch f {
	case FieldATime:
		return "access time"
	case FieldBTime:
		return "birth time"
	case FieldCTime:
		return "change time"
	case FieldMTime:
		return "modification time"
	default:
		return "time"
	}
}

// ErrNoBirthTime is returned when the platform does not record file
// creation times.
var ErrNoBirthTime = errors.New("birth times are not supported on this platform")

// Time returns the requested timestamp.
func (s *Stat) Time(field StatField) (time.Time, error) {
	switch field {
	case FieldATime:
		return s.ATime, nil
	case FieldCTime:
		return s.CTime, nil
	case FieldMTime:
		return s.MTime, nil
	default:
		return time.Time{}, ErrNoBirthTime
	}
}

func fromUnixStat(st *unix.Stat_t) *Stat {
	return &Stat{
		Dev:    uint64(st.Dev),
		Ino:    st.Ino,
		Mode:   uint32(st.Mode),
		Nlink:  uint64(st.Nlink),
		UID:    st.Uid,
		GID:    st.Gid,
		Rdev:   uint64(st.Rdev),
		Size:   st.Size,
		Blocks: st.Blocks,
		ATime:  time.Unix(st.Atim.Sec, st.Atim.Nsec),
		CTime:  time.Unix(st.Ctim.Sec, st.Ctim.Nsec),
		MTime:  time.Unix(st.Mtim.Sec, st.Mtim.Nsec),
	}
}

// StatAt stats name relative to dirfd, honouring the given follow policy.
func StatAt(dirfd int, name string, flags StatFlag) (*Stat, error) {
	var st unix.Stat_t
	if flags&StatNoFollow != 0 {
		if err := unix.Fstatat(dirfd, name, &st, unix.AT_SYMLINK_NOFOLLOW); err != nil {
			return nil, err
		}
		return fromUnixStat(&st), nil
	}

	err := unix.Fstatat(dirfd, name, &st, 0)
	if err != nil && flags&StatTryFollow != 0 {
		err = unix.Fstatat(dirfd, name, &st, unix.AT_SYMLINK_NOFOLLOW)
	}
	if err != nil {
		return nil, err
	}
	return fromUnixStat(&st), nil
}

// IsNonexistenceError checks for errors that mean the file doesn't exist:
// ENOENT itself, and ENOTDIR when a path component is not a directory.
func IsNonexistenceError(err error) bool {
	return errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR)
}
