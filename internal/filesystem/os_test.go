package filesystem_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/autopush/internal/filesystem"
)

func TestOSFileSystemStatAndAbs(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.Mkdir(filepath.Join(rootDirectory, "input"), 0o755))

	fileSystem := filesystem.OSFileSystem{}

	directoryInfo, statError := fileSystem.Stat(filepath.Join(rootDirectory, "input"))
	require.NoError(testInstance, statError)
	require.True(testInstance, directoryInfo.IsDir())

	_, missingError := fileSystem.Stat(filepath.Join(rootDirectory, "missing"))
	require.True(testInstance, errors.Is(missingError, fs.ErrNotExist))

	absolutePath, absError := fileSystem.Abs(rootDirectory)
	require.NoError(testInstance, absError)
	require.True(testInstance, filepath.IsAbs(absolutePath))
}
