package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Fetcher 把远程文件下载到本地缓存
type Fetcher struct {
	Client *http.Client
}

// NewFetcher timeout 为0时不设超时
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch 缓存文件已存在时直接返回, 否则下载 url 到 dest
// 返回值 downloaded 表示本次是否发生了下载
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (downloaded bool, err error) {
	if err := ensureDir(filepath.Dir(dest)); err != nil {
		return false, err
	}

	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("get %s: %s", url, resp.Status)
	}

	// 先写临时文件再改名, 下载中断时不会留下缓存
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name()) // 成功时无操作

	_, werr := io.Copy(tmp, resp.Body)
	cerr := tmp.Close()
	if werr != nil {
		return false, werr
	}
	if cerr != nil {
		return false, cerr
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return false, err
	}
	return true, nil
}

// ensureDir 确保目录存在
func ensureDir(dirPath string) error {
	if info, err := os.Stat(dirPath); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dirPath)
	}
	return os.MkdirAll(dirPath, 0755)
}

// EnsureDir 导出版本, 供输出目录使用
func EnsureDir(dirPath string) error {
	return ensureDir(dirPath)
}
