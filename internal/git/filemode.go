package git

import (
	"fmt"
	"strconv"
)

// gitFileMode represents a Git file mode as an octal value.
// This is used when parsing git ls-tree output.
type gitFileMode uint32

const (
	gitFileModeEmpty     gitFileMode = 0
	gitFileModeTree      gitFileMode = 0040000
	gitFileModeRegular   gitFileMode = 0100644
	gitFileModeExec      gitFileMode = 0100755
	gitFileModeSymlink   gitFileMode = 0120000
	gitFileModeSubmodule gitFileMode = 0160000
)

// IsFile returns true if the mode represents a regular file or symlink.
func (m gitFileMode) IsFile() bool {
	return m == gitFileModeRegular || m == gitFileModeExec || m == gitFileModeSymlink
}

// IsTree returns true if the mode represents a directory.
func (m gitFileMode) IsTree() bool {
	return m == gitFileModeTree
}

// IsSubmodule returns true if the mode represents a gitlink.
func (m gitFileMode) IsSubmodule() bool {
	return m == gitFileModeSubmodule
}

// parseGitFileMode parses an octal file mode string (e.g. "100644", "040000", "160000").
func parseGitFileMode(s string) (gitFileMode, error) {
	if s == "" {
		return gitFileModeEmpty, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return gitFileModeEmpty, fmt.Errorf("parse file mode %q: %w", s, err)
	}
	return gitFileMode(v), nil
}
