// monitor.go
package file

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileMonitor 监听目录, 等待目标文件出现
type FileMonitor struct {
	watchDir string
	watcher  *fsnotify.Watcher
}

// NewFileMonitor 目录不存在时先创建
func NewFileMonitor(dir string) (*FileMonitor, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &FileMonitor{
		watchDir: dir,
		watcher:  watcher,
	}, nil
}

// Close 停止监听
func (m *FileMonitor) Close() error {
	return m.watcher.Close()
}

// WaitFor 阻塞直到监听目录下的 name 文件存在
func (m *FileMonitor) WaitFor(ctx context.Context, name string) error {
	target := filepath.Join(m.watchDir, filepath.Base(name))

	// 监听建立之后再检查一次, 避免错过已写完的文件
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(target) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				if _, err := os.Stat(target); err == nil {
					return nil
				}
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// WaitForFile 等待 path 出现, 已存在时立即返回
func WaitForFile(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	m, err := NewFileMonitor(filepath.Dir(path))
	if err != nil {
		return err
	}
	defer m.Close()

	return m.WaitFor(ctx, path)
}
