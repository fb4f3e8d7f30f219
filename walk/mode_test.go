package walk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestModeString(t *testing.T) {
	assert.Equal(t, "-rw-r--r--", ModeString(unix.S_IFREG|0644))
	assert.Equal(t, "drwxr-xr-x", ModeString(unix.S_IFDIR|0755))
	assert.Equal(t, "lrwxrwxrwx", ModeString(unix.S_IFLNK|0777))
	assert.Equal(t, "-rwsr-xr-x", ModeString(unix.S_IFREG|unix.S_ISUID|0755))
	assert.Equal(t, "-rwSr--r--", ModeString(unix.S_IFREG|unix.S_ISUID|0644))
	assert.Equal(t, "drwxrwxrwt", ModeString(unix.S_IFDIR|unix.S_ISVTX|0777))
}

func TestRawModeTypeFlag(t *testing.T) {
	assert.Equal(t, Reg, RawModeTypeFlag(unix.S_IFREG|0644))
	assert.Equal(t, Dir, RawModeTypeFlag(unix.S_IFDIR|0755))
	assert.Equal(t, Lnk, RawModeTypeFlag(unix.S_IFLNK|0777))
	assert.Equal(t, Fifo, RawModeTypeFlag(unix.S_IFIFO|0644))
	assert.Equal(t, Sock, RawModeTypeFlag(unix.S_IFSOCK|0755))
}
