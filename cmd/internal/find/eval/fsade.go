package eval

import (
	"errors"
	"strings"

	"github.com/bfind/bfind/cmd/internal/find/types"
	"github.com/pkg/xattr"
	"golang.org/x/sys/unix"
)

/*
 * The platform probes behind -acl, -capable and -xattr. Each one is a
 * tri-state: present, absent, or error — "the file system doesn't
 * support the feature" counts as absent, anything else is an error the
 * caller reports.
 */

// probeUnsupported recognises errors that mean "the feature doesn't
// exist here" rather than "the probe failed".
func probeUnsupported(err error) bool {
	return errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP) ||
		errors.Is(err, unix.ENODATA)
}

// checkACL probes for an access control list beyond the plain mode
// bits. On Linux explicit ACLs surface as posix_acl extended
// attributes.
func checkACL(path string) (bool, error) {
	names, err := xattr.LList(path)
	if err != nil {
		if probeUnsupported(err) {
			return false, nil
		}
		return false, err
	}
	for _, name := range names {
		if name == "system.posix_acl_access" || name == "system.posix_acl_default" {
			return true, nil
		}
	}
	return false, nil
}

// checkCapabilities probes for file capabilities.
func checkCapabilities(path string) (bool, error) {
	_, err := xattr.LGet(path, "security.capability")
	if err != nil {
		if probeUnsupported(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// checkXattrs probes for any user-visible extended attributes.
func checkXattrs(path string) (bool, error) {
	names, err := xattr.LList(path)
	if err != nil {
		if probeUnsupported(err) {
			return false, nil
		}
		return false, err
	}
	for _, name := range names {
		// ACL bookkeeping doesn't count as a real xattr.
		if !strings.HasPrefix(name, "system.posix_acl_") {
			return true, nil
		}
	}
	return false, nil
}

// ACL implements -acl.
func ACL(e *types.Expr, s *types.State) bool {
	ret, err := checkACL(s.File.Path)
	if err != nil {
		reportError(s, err)
		return false
	}
	return ret
}

// Capable implements -capable.
func Capable(e *types.Expr, s *types.State) bool {
	ret, err := checkCapabilities(s.File.Path)
	if err != nil {
		reportError(s, err)
		return false
	}
	return ret
}

// Xattr implements -xattr.
func Xattr(e *types.Expr, s *types.State) bool {
	ret, err := checkXattrs(s.File.Path)
	if err != nil {
		reportError(s, err)
		return false
	}
	return ret
}
