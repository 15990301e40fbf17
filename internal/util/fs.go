package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileExists 文件是否存在（目录不算）
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureDir 确保目录存在
func EnsureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0755)
}

// Dir 返回路径所在目录
func Dir(path string) string {
	return filepath.Dir(path)
}

// OfficeLockFile Excel/WPS 打开文件时在同目录生成的锁文件路径：~$<文件名>
func OfficeLockFile(path string) string {
	return filepath.Join(filepath.Dir(path), "~$"+filepath.Base(path))
}

// IsLocked 判断文件是否正被办公软件打开
// 存在 ~$ 锁文件，或者文件存在但无法以写方式打开
func IsLocked(path string) bool {
	if FileExists(OfficeLockFile(path)) {
		return true
	}
	if !FileExists(path) {
		return false
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return IsLockError(err)
	}
	_ = f.Close()
	return false
}

// IsLockError 写文件失败是否由于文件被占用或无权限
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, fs.ErrPermission) || isSharingViolation(err)
}
