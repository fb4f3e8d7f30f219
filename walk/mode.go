package walk

import "golang.org/x/sys/unix"

// ModeString renders a raw st_mode in ls -l form, e.g. "drwxr-xr-x".
func ModeString(mode uint32) string {
	buf := []byte("----------")

	switch mode & unix.S_IFMT {
	case unix.S_IFBLK:
		buf[0] = 'b'
	case unix.S_IFCHR:
		buf[0] = 'c'
	case unix.S_IFDIR:
		buf[0] = 'd'
	case unix.S_IFIFO:
		buf[0] = 'p'
	case unix.S_IFLNK:
		buf[0] = 'l'
	case unix.S_IFSOCK:
		buf[0] = 's'
	}

	rwx := "rwxrwxrwx"
	for i := 0; i < 9; i++ {
		if mode&(1<<uint(8-i)) != 0 {
			buf[1+i] = rwx[i]
		}
	}

	if mode&unix.S_ISUID != 0 {
		if buf[3] == 'x' {
			buf[3] = 's'
		} else {
			buf[3] = 'S'
		}
	}
	if mode&unix.S_ISGID != 0 {
		if buf[6] == 'x' {
			buf[6] = 's'
		} else {
			buf[6] = 'S'
		}
	}
	if mode&unix.S_ISVTX != 0 {
		if buf[9] == 'x' {
			buf[9] = 't'
		} else {
			buf[9] = 'T'
		}
	}

	return string(buf)
}

// ReadLink reads a symbolic link's target relative to the file's parent
// descriptor. sizeHint, typically the link's stat size, presizes the
// buffer.
func ReadLink(f *File, sizeHint int64) (string, error) {
	size := sizeHint + 1
	if size < 64 {
		size = 64
	}
	for {
		buf := make([]byte, size)
		n, err := unix.Readlinkat(f.AtFD, f.AtPath, buf)
		if err != nil {
			return "", err
		}
		if n < len(buf) {
			return string(buf[:n]), nil
		}
		size *= 2
	}
}
